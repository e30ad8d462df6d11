package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// notFound 把 gorm 的记录不存在错误转换为领域错误
func notFound(err error, sentinel error, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %v", sentinel, id)
	}
	return err
}

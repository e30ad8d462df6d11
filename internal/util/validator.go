package util

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"icd201_backend/internal/planner"
)

const (
	isoDateTag     = "isodate"
	detailLevelTag = "detaillevel"
)

var DetailLevels = []string{"summary", "detailed", "custom"}

// RegisterValidators 在 gin 的默认校验器上注册自定义规则
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}

	// 错误信息使用 JSON 字段名
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation(isoDateTag, isoDateValidation); err != nil {
		return err
	}
	return v.RegisterValidation(detailLevelTag, detailLevelValidation)
}

func isoDateValidation(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	return ok && planner.IsValidDate(s)
}

func detailLevelValidation(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	if s == "" {
		return true
	}
	for _, lvl := range DetailLevels {
		if s == lvl {
			return true
		}
	}
	return false
}

// ValidationMessage 把校验错误压缩成一行可读信息
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", fe.Field()))
		case isoDateTag:
			parts = append(parts, fmt.Sprintf("%s must use the YYYY-MM-DD format", fe.Field()))
		case detailLevelTag:
			parts = append(parts, fmt.Sprintf("%s must be one of %s", fe.Field(), strings.Join(DetailLevels, ", ")))
		case "gt", "gte":
			parts = append(parts, fmt.Sprintf("%s must be %s %s", fe.Field(), map[string]string{"gt": ">", "gte": ">="}[fe.Tag()], fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

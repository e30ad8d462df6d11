package facade

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindServer     Kind = "server"
	KindNetwork    Kind = "network"
	KindUnexpected Kind = "unexpected"
	KindNotFound   Kind = "not_found"
	KindValidation Kind = "validation"
)

// 面向用户的提示信息
const (
	MsgNetwork    = "Impossible de contacter le serveur. Vérifiez votre connexion."
	MsgServer     = "Une erreur serveur est survenue"
	MsgUnexpected = "Une erreur inattendue est survenue"
)

// ErrDuplicateResource 资源 id 已存在
var ErrDuplicateResource = errors.New("resource id already exists")

// Error 分类后的访问错误。Status 为 0 表示没有收到响应
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// KindOf 返回错误类别，非 *Error 视为 unexpected
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnexpected
}

func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: MsgNetwork, Err: err}
}

func unexpectedError(err error) *Error {
	msg := MsgUnexpected
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &Error{Kind: KindUnexpected, Message: msg, Err: err}
}

// statusError 按响应状态码分类，message 为空时使用默认提示
func statusError(status int, message string) *Error {
	kind := KindServer
	switch status {
	case http.StatusNotFound:
		kind = KindNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		kind = KindValidation
	}
	if message == "" {
		message = MsgServer
	}
	return &Error{Kind: kind, Status: status, Message: message}
}

func notFoundError(what string, id interface{}) *Error {
	return &Error{
		Kind:    KindNotFound,
		Status:  http.StatusNotFound,
		Message: fmt.Sprintf("%s introuvable: %v", what, id),
	}
}

func validationError(err error) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Message: err.Error(), Err: err}
}

package usecase

import (
	"errors"
	"fmt"
	"net/http"

	repo "cookieshop/internal/repository"
)

// エラーの種類（レスポンスのcodeになる）
type ErrorKind string

const (
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindInvalidArgument   ErrorKind = "INVALID_ARGUMENT"
	KindValidation        ErrorKind = "VALIDATION"
	KindAlreadyExists     ErrorKind = "ALREADY_EXISTS"
	KindInsufficientStock ErrorKind = "INSUFFICIENT_STOCK"
	KindInvalidOperation  ErrorKind = "INVALID_OPERATION"
	KindIllegalState      ErrorKind = "ILLEGAL_STATE"
	KindForbidden         ErrorKind = "FORBIDDEN"
	KindUnauthorized      ErrorKind = "UNAUTHORIZED"
	KindInternal          ErrorKind = "INTERNAL"
)

var kindStatus = map[ErrorKind]int{
	KindNotFound:          http.StatusNotFound,
	KindInvalidArgument:   http.StatusBadRequest,
	KindValidation:        http.StatusBadRequest,
	KindAlreadyExists:     http.StatusConflict,
	KindInsufficientStock: http.StatusConflict,
	KindInvalidOperation:  http.StatusBadRequest,
	KindIllegalState:      http.StatusConflict,
	KindForbidden:         http.StatusForbidden,
	KindUnauthorized:      http.StatusUnauthorized,
	KindInternal:          http.StatusInternalServerError,
}

type HTTPError struct {
	Status  int
	Kind    ErrorKind
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// 種類からステータスを決めて作る
func NewError(kind ErrorKind, message string) error {
	status, ok := kindStatus[kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	return &HTTPError{
		Status:  status,
		Kind:    kind,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

func notFound(format string, args ...any) error {
	return NewError(KindNotFound, fmt.Sprintf(format, args...))
}

func invalidArgument(message string) error {
	return NewError(KindInvalidArgument, message)
}

func validation(message string) error {
	return NewError(KindValidation, message)
}

func alreadyExists(message string) error {
	return NewError(KindAlreadyExists, message)
}

func forbidden(message string) error {
	return NewError(KindForbidden, message)
}

func dbError() error {
	return NewError(KindInternal, "db error")
}

// repositoryのエラーを変換（HTTPErrorはそのまま）
func fromRepo(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if _, ok := AsHTTPError(err); ok {
		return err
	}
	if errors.Is(err, repo.ErrNotFound) {
		return NewError(KindNotFound, notFoundMsg)
	}
	if errors.Is(err, repo.ErrDuplicate) {
		return alreadyExists("already exists")
	}
	return dbError()
}

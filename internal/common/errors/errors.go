package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("resource not found")
	ErrBadRequest  = errors.New("bad request")
	ErrUnknownOp   = errors.New("unknown op")
	ErrClosed      = errors.New("connection closed")
	ErrUnavailable = errors.New("unavailable")
	ErrInternal    = errors.New("internal error")
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindBadRequest
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindBadRequest:
		return "bad_request"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message, Err: ErrNotFound}
}

func BadRequest(message string, err error) *AppError {
	if err == nil {
		err = ErrBadRequest
	} else {
		err = fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return &AppError{Kind: KindBadRequest, Message: message, Err: err}
}

func Unavailable(message string, err error) *AppError {
	if err == nil {
		err = ErrUnavailable
	} else {
		err = fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return &AppError{Kind: KindUnavailable, Message: message, Err: err}
}

func Internal(message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

// KindOf reports the kind of the first AppError in err's chain.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func IsNotFound(err error) bool {
	if err == nil {
		return false
	}

	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Kind == KindNotFound {
		return true
	}
	return errors.Is(err, ErrNotFound)
}

func IsBadRequest(err error) bool {
	return err != nil && errors.Is(err, ErrBadRequest)
}

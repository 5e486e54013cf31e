package gateway

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrNetwork      = errors.New("network error")
	ErrServer       = errors.New("server error")

	// ErrTimeout частный случай ErrNetwork
	ErrTimeout = fmt.Errorf("%w: request timed out", ErrNetwork)
)

// Retryable ошибки, после которых имеет смысл повторить запрос вручную
func Retryable(err error) bool {
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrServer)
}

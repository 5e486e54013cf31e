package model

import "errors"

// ErrValidation некорректный черновик или слот. Такие ошибки не доходят до сети.
var ErrValidation = errors.New("validation failed")

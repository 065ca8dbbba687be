package domain

import "errors"

var ErrNotFound = errors.New("Record not found")
var ErrInvalidOperation = errors.New("Invalid operation")

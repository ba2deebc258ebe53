package todo

import "errors"

var ErrToDoNotFound = errors.New("todo not found")

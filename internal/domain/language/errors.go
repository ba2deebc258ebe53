package language

import "errors"

var ErrLanguageNotFound = errors.New("language not found")

package profile

import "errors"

// ErrMalformedPattern is returned for ignore values that cannot be compiled.
var ErrMalformedPattern = errors.New("malformed ignore pattern")

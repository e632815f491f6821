package cedula

import "errors"

// errTooShort marks a candidate with no complete province prefix.
var errTooShort = errors.New("fewer than 2 characters")

package loan

import "errors"

var ErrInvalidFilter = errors.New("invalid filter")

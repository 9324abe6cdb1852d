package reduce

import "errors"

// ErrInvalidThreshold indicates a clustering threshold outside (0, 1].
var ErrInvalidThreshold = errors.New("similarity threshold must be in (0, 1]")

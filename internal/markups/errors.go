package markups

import "errors"

var (
	ErrNilNode         = errors.New("point-set node is nil")
	ErrIndexOutOfRange = errors.New("point index out of range")
	ErrCountMismatch   = errors.New("widget count does not match point count")
	ErrNoWidgets       = errors.New("no widgets for node")
	ErrNotPlaceMode    = errors.New("not in place mode")
)

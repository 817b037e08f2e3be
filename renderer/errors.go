package renderer

import "errors"

var (
	ErrWorldNotDefined  = errors.New("renderer: no world defined")
	ErrCameraNotDefined = errors.New("renderer: no camera defined")
	ErrNotCommitted     = errors.New("renderer: world has not been committed")
	ErrInterrupted      = errors.New("renderer: interrupted while rendering")
)

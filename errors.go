package tilewarp

import (
	"errors"
	"fmt"

	"github.com/georaster/tilewarp/raster"
)

// ErrSessionClosed is returned by session operations after Close.
var ErrSessionClosed = errors.New("tilewarp: session closed")

// SourceNotFoundError reports a source whose backing data cannot be opened.
// Raised before any read.
type SourceNotFoundError = raster.SourceNotFoundError

// InvalidParameterError reports a misconfigured session parameter. Parameters
// are validated eagerly at Open time, before any I/O.
type InvalidParameterError struct {
	Param  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("tilewarp: invalid parameter %s: %s", e.Param, e.Reason)
}

func invalidParam(param, format string, args ...any) error {
	return &InvalidParameterError{Param: param, Reason: fmt.Sprintf(format, args...)}
}

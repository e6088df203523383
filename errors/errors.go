package errors

import (
	goerrors "errors"

	"github.com/pipe01/svgtok/internal/lexer"
)

type SituatedErr interface {
	Unwrap() error
	At() lexer.Location
}

// Situate finds the first error in err's chain that knows where in the input it happened.
func Situate(err error) (SituatedErr, bool) {
	var serr SituatedErr
	if goerrors.As(err, &serr) {
		return serr, true
	}
	return nil, false
}

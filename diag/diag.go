// ==============================================================================================
// FILE: diag/diag.go
// ==============================================================================================
// PACKAGE: diag
// PURPOSE: Renders interpreter errors for drivers. Every failure in the
//          pipeline carries an oops code naming its kind (SyntaxError,
//          Undefined, Immutable, ...) and, where known, a source line.
// ==============================================================================================

package diag

import (
	"errors"
	"fmt"

	"github.com/samber/oops"
)

// Code returns the first non-empty error code in the chain, or "".
func Code(err error) string {
	for err != nil {
		var o oops.OopsError
		if !errors.As(err, &o) {
			return ""
		}
		if c := o.Code(); c != "" {
			return c
		}
		err = o.Unwrap()
	}
	return ""
}

// Line returns the source line recorded in the chain's oops context, if any.
func Line(err error) (int, bool) {
	for err != nil {
		var o oops.OopsError
		if !errors.As(err, &o) {
			return 0, false
		}
		if v, ok := o.Context()["line"]; ok {
			if n, ok := v.(int); ok {
				return n, true
			}
		}
		err = o.Unwrap()
	}
	return 0, false
}

// Format renders an error as "Kind: message" with the source line appended
// when one is known.
func Format(err error) string {
	msg := err.Error()
	if code := Code(err); code != "" {
		msg = code + ": " + msg
	}
	if line, ok := Line(err); ok {
		msg = fmt.Sprintf("%s (line %d)", msg, line)
	}
	return msg
}

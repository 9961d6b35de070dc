package pattern

import (
	"fmt"

	"github.com/cognicore/quill/pkg/quill/internalerr"
)

// SyntaxError describes a malformed template.
type SyntaxError struct {
	Template string
	Token    string
	Reason   string
}

func (e *SyntaxError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("pattern %q: %s", e.Template, e.Reason)
	}
	return fmt.Sprintf("pattern %q: token %q: %s", e.Template, e.Token, e.Reason)
}

func (e *SyntaxError) Unwrap() error { return internalerr.ErrPatternSyntax }

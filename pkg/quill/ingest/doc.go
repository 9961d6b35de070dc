package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/cognicore/quill/pkg/quill/internalerr"
)

// Doc is a piece of prose submitted for analysis.
type Doc struct {
	URL         string
	Title       string
	Author      string
	Source      string // feed, file or corpus it came from
	PublishedAt time.Time
	BodyText    string
}

// Validate checks that the document can be analyzed.
func (d *Doc) Validate() error {
	if strings.TrimSpace(d.URL) == "" {
		return fmt.Errorf("%w: doc URL is required", internalerr.ErrInvalidInput)
	}
	if strings.TrimSpace(d.BodyText) == "" {
		return fmt.Errorf("%w: doc body text is required", internalerr.ErrInvalidInput)
	}
	return nil
}

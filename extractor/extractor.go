package extractor

import (
	"context"
	"io"
)

// Extractor turns an uploaded file into plain text. Extraction fidelity
// is the collaborator's problem; the pipeline only consumes the text.
type Extractor interface {
	Extract(ctx context.Context, r io.Reader) (string, error)
}

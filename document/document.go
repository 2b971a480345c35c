package document

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Document is the raw text extracted from an uploaded file. It is
// immutable and only lives long enough to be chunked.
type Document struct {
	Source string
	Text   string
}

// ID derives a stable identifier from the document's source and text,
// so re-ingesting the same upload yields the same record identifiers.
func (d Document) ID() string {
	h := sha256.Sum256([]byte(d.Source + "\x00" + d.Text))
	return hex.EncodeToString(h[:8])
}

// Chunk is a bounded window of a document's text.
type Chunk struct {
	Text  string
	Start int
	Index int
}

// RecordID names the indexed record for a chunk of a given document.
func (c Chunk) RecordID(docID string) string {
	return fmt.Sprintf("%s-%d", docID, c.Index)
}

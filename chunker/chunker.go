package chunker

import (
	"github.com/w-h-a/ragchat/document"
)

// Chunker splits a document into the windows that get embedded and
// indexed.
type Chunker interface {
	Chunk(doc document.Document) ([]document.Chunk, error)
}

package character

import (
	"strings"
	"unicode/utf8"

	"github.com/w-h-a/ragchat/chunker"
	"github.com/w-h-a/ragchat/document"
)

// separators in preference order when looking for a place to cut.
var separators = []string{"\n\n", "\n", ". ", "? ", "! ", " "}

type characterChunker struct {
	options chunker.Options
}

// Chunk walks the document in overlapping windows of at most MaxSize
// characters. Each window is cut at the last paragraph, sentence, or
// word boundary it contains; when none exists the cut is a hard one.
// The next window starts Overlap characters before the previous cut,
// so consecutive chunks share text and the document is covered with
// no gaps.
func (c *characterChunker) Chunk(doc document.Document) ([]document.Chunk, error) {
	text := doc.Text
	if len(strings.TrimSpace(text)) == 0 {
		return nil, nil
	}

	size := len(text)

	if size <= c.options.MaxSize {
		return []document.Chunk{{Text: text, Start: 0, Index: 0}}, nil
	}

	estimated := (size / (c.options.MaxSize - c.options.Overlap)) + 1
	chunks := make([]document.Chunk, 0, estimated)

	start := 0

	for start < size {
		end := start + c.options.MaxSize
		if end >= size {
			end = size
		} else {
			end = c.cut(text, start, end)
		}

		chunks = append(chunks, document.Chunk{
			Text:  text[start:end],
			Start: start,
			Index: len(chunks),
		})

		if end == size {
			break
		}

		start = end - c.options.Overlap
		for start < size && !utf8.RuneStart(text[start]) {
			start++
		}
	}

	return chunks, nil
}

// cut returns the end of the window [start, limit), preferring a natural
// boundary. A boundary is only usable if cutting there still moves the
// next window forward.
func (c *characterChunker) cut(text string, start int, limit int) int {
	window := text[start:limit]

	for _, sep := range separators {
		idx := strings.LastIndex(window, sep)
		if idx < 0 {
			continue
		}
		at := start + idx + len(sep)
		if at > start+c.options.Overlap {
			return at
		}
	}

	// a hard cut must not land inside a multibyte rune
	for limit > start && !utf8.RuneStart(text[limit]) {
		limit--
	}

	return limit
}

func NewChunker(opts ...chunker.Option) chunker.Chunker {
	options := chunker.NewOptions(opts...)

	return &characterChunker{
		options: options,
	}
}

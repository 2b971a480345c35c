package character

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/w-h-a/ragchat/chunker"
	"github.com/w-h-a/ragchat/document"
)

func TestChunkSmallDocument(t *testing.T) {
	c := NewChunker(chunker.WithMaxSize(100), chunker.WithOverlap(20))

	doc := document.Document{Source: "small.txt", Text: "just a few words"}

	chunks, err := c.Chunk(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != doc.Text {
		t.Errorf("expected chunk to equal the whole document")
	}
	if chunks[0].Start != 0 || chunks[0].Index != 0 {
		t.Errorf("expected start 0 and index 0, got %d and %d", chunks[0].Start, chunks[0].Index)
	}
}

func TestChunkEmptyDocument(t *testing.T) {
	c := NewChunker()

	for _, text := range []string{"", "   \n\t  "} {
		chunks, err := c.Chunk(document.Document{Source: "empty.txt", Text: text})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(chunks) != 0 {
			t.Errorf("expected 0 chunks for %q, got %d", text, len(chunks))
		}
	}
}

func TestChunkHardCutCount(t *testing.T) {
	maxSize, overlap := 100, 20

	c := NewChunker(chunker.WithMaxSize(maxSize), chunker.WithOverlap(overlap))

	// no boundaries anywhere, so every cut is a hard cut
	text := strings.Repeat("x", 1000)

	chunks, err := c.Chunk(document.Document{Source: "hard.txt", Text: text})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := (len(text) - overlap + (maxSize - overlap) - 1) / (maxSize - overlap)
	if len(chunks) != want {
		t.Errorf("expected %d chunks, got %d", want, len(chunks))
	}

	for _, ch := range chunks {
		if len(ch.Text) > maxSize {
			t.Errorf("chunk %d exceeds max size: %d", ch.Index, len(ch.Text))
		}
	}
}

func TestChunkCoverageAndOffsets(t *testing.T) {
	c := NewChunker(chunker.WithMaxSize(80), chunker.WithOverlap(16))

	var sb strings.Builder
	for i := 0; i < 40; i++ {
		sb.WriteString("The quick brown fox jumps over the lazy dog. ")
		if i%5 == 4 {
			sb.WriteString("\n\n")
		}
	}
	text := sb.String()

	chunks, err := c.Chunk(document.Document{Source: "cover.txt", Text: text})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	for i, ch := range chunks {
		if len(ch.Text) > 80 {
			t.Errorf("chunk %d exceeds max size: %d", i, len(ch.Text))
		}
		if ch.Index != i {
			t.Errorf("expected sequence index %d, got %d", i, ch.Index)
		}
		if text[ch.Start:ch.Start+len(ch.Text)] != ch.Text {
			t.Errorf("chunk %d start offset does not line up with the source", i)
		}
		if i > 0 {
			prev := chunks[i-1]
			if ch.Start > prev.Start+len(prev.Text) {
				t.Errorf("gap between chunk %d and %d", i-1, i)
			}
			if ch.Start <= prev.Start {
				t.Errorf("chunk %d does not advance past chunk %d", i, i-1)
			}
		}
	}

	last := chunks[len(chunks)-1]
	if last.Start+len(last.Text) != len(text) {
		t.Errorf("chunks do not cover the document tail")
	}
}

func TestChunkMultibyteHardCuts(t *testing.T) {
	c := NewChunker(chunker.WithMaxSize(100), chunker.WithOverlap(20))

	// three bytes per rune and no separators, so every cut is a hard
	// cut and a byte-offset slice would split runes at both edges
	text := strings.Repeat("世界和平", 100)

	chunks, err := c.Chunk(document.Document{Source: "multibyte.txt", Text: text})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	for i, ch := range chunks {
		if !utf8.ValidString(ch.Text) {
			t.Errorf("chunk %d is not valid UTF-8: %q", i, ch.Text)
		}
		if len(ch.Text) > 100 {
			t.Errorf("chunk %d exceeds max size: %d", i, len(ch.Text))
		}
		if text[ch.Start:ch.Start+len(ch.Text)] != ch.Text {
			t.Errorf("chunk %d start offset does not line up with the source", i)
		}
		if i > 0 {
			prev := chunks[i-1]
			if ch.Start > prev.Start+len(prev.Text) {
				t.Errorf("gap between chunk %d and %d", i-1, i)
			}
			if ch.Start <= prev.Start {
				t.Errorf("chunk %d does not advance past chunk %d", i, i-1)
			}
		}
	}

	last := chunks[len(chunks)-1]
	if last.Start+len(last.Text) != len(text) {
		t.Errorf("chunks do not cover the document tail")
	}
}

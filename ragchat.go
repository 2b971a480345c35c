package ragchat

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/w-h-a/ragchat/document"
	"github.com/w-h-a/ragchat/embedder"
	"github.com/w-h-a/ragchat/extractor"
	"github.com/w-h-a/ragchat/generator"
	"github.com/w-h-a/ragchat/index"
	"github.com/w-h-a/ragchat/internal/service/answer"
	"github.com/w-h-a/ragchat/internal/service/ingest"
)

// RAG ties the pipeline together: extract, chunk, embed, index, and
// answer questions grounded in whatever has been ingested.
type RAG struct {
	extractors map[string]extractor.Extractor
	ingest     *ingest.Service
	answer     *answer.Service
}

// IngestFile extracts text from the upload, picking the extractor by
// file extension, and indexes it. It returns the number of chunks that
// made it into the index.
func (r *RAG) IngestFile(ctx context.Context, name string, file io.Reader) (int, error) {
	ext := strings.ToLower(filepath.Ext(name))

	extractor, ok := r.extractors[ext]
	if !ok {
		extractor = r.extractors[""]
	}

	text, err := extractor.Extract(ctx, file)
	if err != nil {
		return 0, err
	}

	return r.IngestText(ctx, filepath.Base(name), text)
}

// IngestText indexes already-extracted text under the given source name.
func (r *RAG) IngestText(ctx context.Context, source string, text string) (int, error) {
	return r.ingest.Ingest(ctx, document.Document{Source: source, Text: text})
}

// Ask answers a question grounded in the ingested documents.
func (r *RAG) Ask(ctx context.Context, question string) (answer.Result, error) {
	return r.answer.Answer(ctx, question)
}

func New(
	emb embedder.Embedder,
	idx index.Index,
	gen generator.Generator,
	opts ...Option,
) *RAG {
	options := NewOptions(opts...)

	client := embedder.NewClient(emb)

	ingest := ingest.New(
		options.Chunker,
		client,
		idx,
		options.Workers,
		options.BatchSize,
		options.Timeout,
	)

	answer := answer.New(
		client,
		idx,
		gen,
		options.TopK,
		options.Policy,
		options.Topic,
	)

	return &RAG{
		extractors: options.Extractors,
		ingest:     ingest,
		answer:     answer,
	}
}

package answer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/w-h-a/ragchat/embedder"
	"github.com/w-h-a/ragchat/generator"
	"github.com/w-h-a/ragchat/index"
)

const (
	PolicyStrict = "strict"
	PolicyOpen   = "open"

	DefaultTopK  = 4
	DefaultTopic = "law"
)

const strictTemplate = `Use only the context below to answer the question.
If the context does not contain the answer, say "I don't know".

Question: {question}

Context:
{context}

Answer:`

const openTemplate = `You are an AI {topic} assistant. Follow these rules carefully:

1. If the question is about {topic}, answer it.
2. Prefer the given context. If the context is empty, fall back to your own knowledge of {topic}.
3. Be concise, professional, and clear.
4. If the question is unrelated to {topic}, respond with: "I can only answer questions about {topic}."

Question: {question}

Context:
{context}

Answer:`

const noContextReply = "No context found for your question. Try re-uploading your document."

var (
	ErrEmptyQuestion = errors.New("question is required")
	ErrGeneration    = errors.New("answer generation failed")
)

// Result carries the generated answer together with the retrieved
// passages it was grounded on.
type Result struct {
	Answer  string
	Context []index.Match
}

// Service answers one question: embed it, retrieve the nearest chunks,
// render a grounded prompt, and generate. Retrieval faults degrade to
// an empty context instead of failing the question.
type Service struct {
	embedder  *embedder.Client
	index     index.Index
	generator generator.Generator
	topK      int
	policy    string
	topic     string
}

func (s *Service) Answer(ctx context.Context, question string) (Result, error) {
	if len(strings.TrimSpace(question)) == 0 {
		return Result{}, ErrEmptyQuestion
	}

	matches := s.retrieve(ctx, question)

	contextText := joinContext(matches)

	// under the strict policy an empty context short-circuits: there is
	// nothing to ground an answer on, so the provider is never called
	if s.policy == PolicyStrict && len(contextText) == 0 {
		return Result{Answer: noContextReply}, nil
	}

	prompt := s.renderPrompt(question, contextText)

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	return Result{Answer: text, Context: matches}, nil
}

func (s *Service) retrieve(ctx context.Context, question string) []index.Match {
	vec, err := s.embedder.Embed(ctx, question)
	if err != nil {
		slog.WarnContext(ctx, "degrading to empty context", "stage", "embed", "error", err)
		return nil
	}

	matches, err := s.index.Query(ctx, vec, s.topK)
	if err != nil {
		slog.WarnContext(ctx, "degrading to empty context", "stage", "query", "error", err)
		return nil
	}

	return matches
}

func (s *Service) renderPrompt(question string, contextText string) string {
	template := strictTemplate
	if s.policy == PolicyOpen {
		template = strings.ReplaceAll(openTemplate, "{topic}", s.topic)
	}

	return strings.NewReplacer(
		"{question}", question,
		"{context}", contextText,
	).Replace(template)
}

// joinContext concatenates match texts, best score first, separated by
// blank lines.
func joinContext(matches []index.Match) string {
	parts := make([]string, 0, len(matches))

	for _, m := range matches {
		if len(strings.TrimSpace(m.Text)) == 0 {
			continue
		}
		parts = append(parts, m.Text)
	}

	return strings.Join(parts, "\n\n")
}

func New(
	embedderClient *embedder.Client,
	idx index.Index,
	gen generator.Generator,
	topK int,
	policy string,
	topic string,
) *Service {
	if embedderClient == nil {
		panic("embedder client is required")
	}

	if idx == nil {
		panic("index is required")
	}

	if gen == nil {
		panic("generator is required")
	}

	if topK <= 0 {
		topK = DefaultTopK
	}

	if policy != PolicyOpen {
		policy = PolicyStrict
	}

	if len(topic) == 0 {
		topic = DefaultTopic
	}

	return &Service{
		embedder:  embedderClient,
		index:     idx,
		generator: gen,
		topK:      topK,
		policy:    policy,
		topic:     topic,
	}
}

package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/w-h-a/ragchat/embedder"
)

type ollamaEmbedder struct {
	options embedder.Options
	client  *http.Client
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

func (e *ollamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	data, err := json.Marshal(embedRequest{
		Model:  e.options.Model,
		Prompt: text,
	})
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, e.options.Location+"/api/embeddings", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	request.Header.Set("Content-Type", "application/json")

	response, err := e.client.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(response.Body)
		return nil, fmt.Errorf("ollama http %d: %s", response.StatusCode, string(payload))
	}

	var rsp embedResponse
	if err := json.NewDecoder(response.Body).Decode(&rsp); err != nil {
		return nil, err
	}

	if len(rsp.Embedding) == 0 {
		return nil, fmt.Errorf("no embedding from ollama for model %s", e.options.Model)
	}

	return rsp.Embedding, nil
}

func NewEmbedder(opts ...embedder.Option) embedder.Embedder {
	options := embedder.NewOptions(opts...)

	if len(options.Location) == 0 {
		options.Location = "http://localhost:11434"
	}

	client := &http.Client{
		Timeout: 60 * time.Second,
	}

	return &ollamaEmbedder{
		options: options,
		client:  client,
	}
}

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/w-h-a/ragchat"
	"github.com/w-h-a/ragchat/chunker"
	"github.com/w-h-a/ragchat/chunker/character"
	"github.com/w-h-a/ragchat/embedder"
	googleembedder "github.com/w-h-a/ragchat/embedder/google"
	ollamaembedder "github.com/w-h-a/ragchat/embedder/ollama"
	openaiembedder "github.com/w-h-a/ragchat/embedder/openai"
	"github.com/w-h-a/ragchat/generator"
	anthropicgenerator "github.com/w-h-a/ragchat/generator/anthropic"
	googlegenerator "github.com/w-h-a/ragchat/generator/google"
	openaigenerator "github.com/w-h-a/ragchat/generator/openai"
	"github.com/w-h-a/ragchat/index"
	"github.com/w-h-a/ragchat/index/memory"
	"github.com/w-h-a/ragchat/index/pgvector"
	"github.com/w-h-a/ragchat/index/pinecone"
	httpserver "github.com/w-h-a/ragchat/server/http"
)

var (
	cfg struct {
		Address string `help:"Address to listen on" default:":8080" env:"ADDRESS"`

		// Embedder config
		Embedder         string `help:"Embedding provider (openai, google, ollama)" default:"openai" env:"EMBEDDER"`
		EmbedderKey      string `help:"API key for the embedding provider" default:"" env:"EMBEDDER_KEY"`
		EmbedderModel    string `help:"Model identifier for the embedder" default:"text-embedding-3-small" env:"EMBEDDER_MODEL"`
		EmbedderLocation string `help:"Base URL for self-hosted embedders" default:"" env:"EMBEDDER_LOCATION"`

		// Generator config
		Generator      string `help:"Generation provider (openai, anthropic, google)" default:"openai" env:"GENERATOR"`
		GeneratorKey   string `help:"API key for the generation provider" default:"" env:"GENERATOR_KEY"`
		GeneratorModel string `help:"Model identifier for the generator" default:"gpt-3.5-turbo" env:"GENERATOR_MODEL"`

		// Index config
		Index         string `help:"Vector index backend (pinecone, pgvector, memory)" default:"memory" env:"INDEX"`
		IndexName     string `help:"Name of the index or table" default:"ai-lawyer-index" env:"INDEX_NAME"`
		IndexKey      string `help:"API key for the index backend" default:"" env:"INDEX_KEY"`
		IndexLocation string `help:"Control plane URL or database DSN for the index backend" default:"" env:"INDEX_LOCATION"`
		IndexCloud    string `help:"Cloud for serverless index creation" default:"aws" env:"INDEX_CLOUD"`
		IndexRegion   string `help:"Region for serverless index creation" default:"us-east-1" env:"INDEX_REGION"`

		// Pipeline config
		ChunkSize    int           `help:"Maximum chunk size in characters" default:"800" env:"CHUNK_SIZE"`
		ChunkOverlap int           `help:"Overlap between consecutive chunks in characters" default:"100" env:"CHUNK_OVERLAP"`
		Workers      int           `help:"Embedding worker pool width" default:"8" env:"WORKERS"`
		BatchSize    int           `help:"Number of records per upsert batch" default:"100" env:"BATCH_SIZE"`
		Timeout      time.Duration `help:"Per-chunk embedding timeout" default:"30s" env:"EMBED_TIMEOUT"`

		// Answer config
		TopK   int    `help:"Number of chunks to retrieve per question" default:"4" env:"TOP_K"`
		Policy string `help:"Answer policy (strict, open)" default:"strict" env:"POLICY"`
		Topic  string `help:"Assistant topic used by the open policy" default:"law" env:"TOPIC"`
	}
)

func main() {
	_ = godotenv.Load()
	_ = kong.Parse(&cfg)

	rag := ragchat.New(
		newEmbedder(),
		newIndex(),
		newGenerator(),
		ragchat.WithChunker(character.NewChunker(
			chunker.WithMaxSize(cfg.ChunkSize),
			chunker.WithOverlap(cfg.ChunkOverlap),
		)),
		ragchat.WithWorkers(cfg.Workers),
		ragchat.WithBatchSize(cfg.BatchSize),
		ragchat.WithTimeout(cfg.Timeout),
		ragchat.WithTopK(cfg.TopK),
		ragchat.WithPolicy(cfg.Policy),
		ragchat.WithTopic(cfg.Topic),
	)

	srv := httpserver.NewServer(
		rag,
		httpserver.WithAddress(cfg.Address),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	if err := srv.Start(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func newEmbedder() embedder.Embedder {
	opts := []embedder.Option{
		embedder.WithApiKey(cfg.EmbedderKey),
		embedder.WithModel(cfg.EmbedderModel),
		embedder.WithLocation(cfg.EmbedderLocation),
	}

	switch cfg.Embedder {
	case "google":
		return googleembedder.NewEmbedder(opts...)
	case "ollama":
		return ollamaembedder.NewEmbedder(opts...)
	default:
		return openaiembedder.NewEmbedder(opts...)
	}
}

func newGenerator() generator.Generator {
	opts := []generator.Option{
		generator.WithApiKey(cfg.GeneratorKey),
		generator.WithModel(cfg.GeneratorModel),
	}

	switch cfg.Generator {
	case "anthropic":
		return anthropicgenerator.NewGenerator(opts...)
	case "google":
		return googlegenerator.NewGenerator(opts...)
	default:
		return openaigenerator.NewGenerator(opts...)
	}
}

func newIndex() index.Index {
	opts := []index.Option{
		index.WithName(cfg.IndexName),
		index.WithApiKey(cfg.IndexKey),
		index.WithLocation(cfg.IndexLocation),
		index.WithCloud(cfg.IndexCloud, cfg.IndexRegion),
	}

	switch cfg.Index {
	case "pinecone":
		return pinecone.NewIndex(opts...)
	case "pgvector":
		return pgvector.NewIndex(opts...)
	default:
		return memory.NewIndex(opts...)
	}
}

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/w-h-a/ragchat"
	"github.com/w-h-a/ragchat/embedder"
	openaiembedder "github.com/w-h-a/ragchat/embedder/openai"
	"github.com/w-h-a/ragchat/generator"
	openaigenerator "github.com/w-h-a/ragchat/generator/openai"
	"github.com/w-h-a/ragchat/index/memory"
)

var (
	cfg struct {
		// Embedder config
		EmbedderKey   string `help:"API key for the embedding provider" default:"" env:"EMBEDDER_KEY"`
		EmbedderModel string `help:"Model identifier for the embedder" default:"text-embedding-3-small" env:"EMBEDDER_MODEL"`

		// Generator config
		GeneratorKey   string `help:"API key for the generation provider" default:"" env:"GENERATOR_KEY"`
		GeneratorModel string `help:"Model identifier for the generator" default:"gpt-3.5-turbo" env:"GENERATOR_MODEL"`

		// Answer config
		Policy string `help:"Answer policy (strict, open)" default:"strict" env:"POLICY"`
		Topic  string `help:"Assistant topic used by the open policy" default:"law" env:"TOPIC"`
	}
)

func main() {
	_ = godotenv.Load()
	_ = kong.Parse(&cfg)

	ctx := context.Background()

	emb := openaiembedder.NewEmbedder(
		embedder.WithApiKey(cfg.EmbedderKey),
		embedder.WithModel(cfg.EmbedderModel),
	)

	gen := openaigenerator.NewGenerator(
		generator.WithApiKey(cfg.GeneratorKey),
		generator.WithModel(cfg.GeneratorModel),
	)

	rag := ragchat.New(
		emb,
		memory.NewIndex(),
		gen,
		ragchat.WithPolicy(cfg.Policy),
		ragchat.WithTopic(cfg.Topic),
	)

	fmt.Println("ragchat quickstart. Upload with '/file <path>', ask anything else, empty line quits.")

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")

		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("Error reading input:", err)
			continue
		}

		input = strings.TrimSpace(input)
		if len(input) == 0 {
			fmt.Println("Goodbye!")
			return
		}

		if path, ok := strings.CutPrefix(input, "/file "); ok {
			path = strings.TrimSpace(path)

			f, err := os.Open(path)
			if err != nil {
				fmt.Printf("Failed to open file: %v\n", err)
				continue
			}

			count, err := rag.IngestFile(ctx, filepath.Base(path), f)
			f.Close()

			if err != nil {
				fmt.Printf("Failed to ingest: %v\n", err)
				continue
			}

			fmt.Printf("Indexed %d chunks from %s\n", count, filepath.Base(path))
			continue
		}

		result, err := rag.Ask(ctx, input)
		if err != nil {
			fmt.Println("Error generating answer:", err)
			continue
		}

		fmt.Println(result.Answer)
		fmt.Println("---")
	}
}

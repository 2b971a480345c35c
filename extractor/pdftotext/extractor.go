package pdftotext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"

	"github.com/w-h-a/ragchat/extractor"
)

type pdfExtractor struct {
	options extractor.Options
}

// Extract pipes the PDF bytes through the pdftotext binary and returns
// whatever text it recovers.
func (e *pdfExtractor) Extract(ctx context.Context, r io.Reader) (string, error) {
	cmd := exec.CommandContext(ctx, e.options.Binary, "-", "-")
	cmd.Stdin = r

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pdftotext: %w: %s", err, stderr.String())
	}

	return stdout.String(), nil
}

func NewExtractor(opts ...extractor.Option) extractor.Extractor {
	options := extractor.NewOptions(opts...)

	if len(options.Binary) == 0 {
		options.Binary = "pdftotext"
	}

	return &pdfExtractor{
		options: options,
	}
}

package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/w-h-a/ragchat/index"
	getsafe "github.com/w-h-a/ragchat/util/get_safe"
)

const defaultControlPlane = "https://api.pinecone.io"

type pineconeIndex struct {
	options index.Options
	client  *http.Client
	mtx     sync.RWMutex
	host    string
}

func (p *pineconeIndex) Ensure(ctx context.Context, dimension int) error {
	var list listResponse

	if err := p.do(ctx, http.MethodGet, p.options.Location+"/indexes", nil, &list); err != nil {
		return err
	}

	for _, model := range list.Indexes {
		if model.Name != p.options.Name {
			continue
		}
		if model.Dimension != dimension {
			return fmt.Errorf("%w: index %s has %d, embedder produces %d", index.ErrDimensionMismatch, model.Name, model.Dimension, dimension)
		}
		p.setHost(model.Host)
		return nil
	}

	req := createRequest{
		Name:      p.options.Name,
		Dimension: dimension,
		Metric:    p.options.Metric,
		Spec: spec{
			Serverless: serverless{
				Cloud:  p.options.Cloud,
				Region: p.options.Region,
			},
		},
	}

	var created indexModel

	if err := p.do(ctx, http.MethodPost, p.options.Location+"/indexes", req, &created); err != nil {
		// a concurrent Ensure may have won the create
		var se *statusError
		if !errors.As(err, &se) || se.code != http.StatusConflict {
			return err
		}
	}

	if len(created.Host) == 0 {
		path := p.options.Location + "/indexes/" + url.PathEscape(p.options.Name)
		if err := p.do(ctx, http.MethodGet, path, nil, &created); err != nil {
			return err
		}
		if created.Dimension != dimension {
			return fmt.Errorf("%w: index %s has %d, embedder produces %d", index.ErrDimensionMismatch, created.Name, created.Dimension, dimension)
		}
	}

	p.setHost(created.Host)

	return nil
}

func (p *pineconeIndex) Upsert(ctx context.Context, records []index.Record) error {
	host, err := p.hostURL()
	if err != nil {
		return err
	}

	vectors := make([]vector, 0, len(records))
	for _, rec := range records {
		vectors = append(vectors, vector{
			ID:       rec.ID,
			Values:   rec.Values,
			Metadata: rec.Metadata,
		})
	}

	var rsp upsertResponse

	if err := p.do(ctx, http.MethodPost, host+"/vectors/upsert", upsertRequest{Vectors: vectors}, &rsp); err != nil {
		return err
	}

	return nil
}

func (p *pineconeIndex) Query(ctx context.Context, vec []float32, k int) ([]index.Match, error) {
	if k < 1 {
		return []index.Match{}, nil
	}

	host, err := p.hostURL()
	if err != nil {
		return nil, err
	}

	req := queryRequest{
		Vector:          vec,
		TopK:            k,
		IncludeMetadata: true,
	}

	var rsp queryResponse

	if err := p.do(ctx, http.MethodPost, host+"/query", req, &rsp); err != nil {
		return nil, err
	}

	matches := make([]index.Match, 0, len(rsp.Matches))

	for _, m := range rsp.Matches {
		matches = append(matches, index.Match{
			ID:    m.ID,
			Text:  getsafe.String(m.Metadata, "text"),
			Score: float32(m.Score),
		})
	}

	return matches, nil
}

func (p *pineconeIndex) setHost(host string) {
	if len(host) > 0 && !strings.Contains(host, "://") {
		host = "https://" + host
	}

	p.mtx.Lock()
	defer p.mtx.Unlock()

	p.host = host
}

func (p *pineconeIndex) hostURL() (string, error) {
	p.mtx.RLock()
	defer p.mtx.RUnlock()

	if len(p.host) == 0 {
		return "", index.ErrNotReady
	}

	return p.host, nil
}

func (p *pineconeIndex) do(ctx context.Context, method string, u string, req any, rsp any) error {
	var buf io.Reader
	if req != nil {
		data, err := json.Marshal(req)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(data)
	}

	request, err := http.NewRequestWithContext(ctx, method, u, buf)
	if err != nil {
		return err
	}

	request.Header.Set("Content-Type", "application/json")

	if len(p.options.ApiKey) > 0 {
		request.Header.Set("Api-Key", p.options.ApiKey)
	}

	response, err := p.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode >= 400 {
		return &statusError{code: response.StatusCode, body: string(payload)}
	}

	if rsp != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, rsp); err != nil {
			return err
		}
	}

	return nil
}

func NewIndex(opts ...index.Option) index.Index {
	options := index.NewOptions(opts...)

	if len(options.Name) == 0 {
		panic("missing index name for pinecone index")
	}

	if len(options.Location) == 0 {
		options.Location = defaultControlPlane
	}

	if len(options.Cloud) == 0 {
		options.Cloud = "aws"
	}

	if len(options.Region) == 0 {
		options.Region = "us-east-1"
	}

	client := &http.Client{
		Timeout: 15 * time.Second,
	}

	return &pineconeIndex{
		options: options,
		client:  client,
	}
}

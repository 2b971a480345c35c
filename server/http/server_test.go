package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/w-h-a/ragchat"
	"github.com/w-h-a/ragchat/index/memory"
)

type hashEmbedder struct{}

// Embed maps text onto a small fixed-dimension vector so that equal
// inputs land on equal vectors.
func (hashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, 8)
	for i, r := range text {
		vec[i%8] += float32(r)
	}
	return vec, nil
}

type echoGenerator struct{}

func (echoGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return "generated: " + prompt, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	rag := ragchat.New(
		hashEmbedder{},
		memory.NewIndex(),
		echoGenerator{},
		ragchat.WithPolicy("open"),
		ragchat.WithTopic("testing"),
	)

	srv := httptest.NewServer(NewServer(rag).Handler())
	t.Cleanup(srv.Close)

	return srv
}

func upload(t *testing.T, url string, name string, content string) *http.Response {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)

	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	rsp, err := http.Post(url+"/v1/documents", mw.FormDataContentType(), &body)
	require.NoError(t, err)

	return rsp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	rsp, err := http.Get(srv.URL + "/v1/health")
	require.NoError(t, err)
	defer rsp.Body.Close()

	require.Equal(t, http.StatusOK, rsp.StatusCode)
	require.NotEmpty(t, rsp.Header.Get("X-Request-Id"))
}

func TestUploadThenAsk(t *testing.T) {
	srv := newTestServer(t)

	rsp := upload(t, srv.URL, "facts.txt", "The warranty period is two years from delivery.")
	defer rsp.Body.Close()

	require.Equal(t, http.StatusCreated, rsp.StatusCode)

	var uploaded struct {
		Source string `json:"source"`
		Chunks int    `json:"chunks"`
	}
	require.NoError(t, json.NewDecoder(rsp.Body).Decode(&uploaded))
	require.Equal(t, "facts.txt", uploaded.Source)
	require.Equal(t, 1, uploaded.Chunks)

	question := strings.NewReader(`{"question": "How long is the warranty period?"}`)

	rsp2, err := http.Post(srv.URL+"/v1/questions", "application/json", question)
	require.NoError(t, err)
	defer rsp2.Body.Close()

	require.Equal(t, http.StatusOK, rsp2.StatusCode)

	var answered struct {
		Answer  string `json:"answer"`
		Context []struct {
			ID    string  `json:"id"`
			Text  string  `json:"text"`
			Score float32 `json:"score"`
		} `json:"context"`
	}
	require.NoError(t, json.NewDecoder(rsp2.Body).Decode(&answered))

	require.Contains(t, answered.Answer, "How long is the warranty period?")
	require.Contains(t, answered.Answer, "warranty period is two years")
	require.Len(t, answered.Context, 1)
	require.Contains(t, answered.Context[0].Text, "two years")
}

func TestUploadEmptyDocument(t *testing.T) {
	srv := newTestServer(t)

	rsp := upload(t, srv.URL, "blank.txt", "   \n\n ")
	defer rsp.Body.Close()

	require.Equal(t, http.StatusUnprocessableEntity, rsp.StatusCode)
}

func TestUploadMissingFile(t *testing.T) {
	srv := newTestServer(t)

	rsp, err := http.Post(srv.URL+"/v1/documents", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	defer rsp.Body.Close()

	require.Equal(t, http.StatusBadRequest, rsp.StatusCode)
}

func TestAskEmptyQuestion(t *testing.T) {
	srv := newTestServer(t)

	rsp, err := http.Post(srv.URL+"/v1/questions", "application/json", strings.NewReader(`{"question": ""}`))
	require.NoError(t, err)
	defer rsp.Body.Close()

	require.Equal(t, http.StatusBadRequest, rsp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rsp.Body).Decode(&body))
	require.NotEmpty(t, body["error"])
}

func TestAskMalformedBody(t *testing.T) {
	srv := newTestServer(t)

	rsp, err := http.Post(srv.URL+"/v1/questions", "application/json", strings.NewReader("not json"))
	require.NoError(t, err)
	defer rsp.Body.Close()

	require.Equal(t, http.StatusBadRequest, rsp.StatusCode)
}

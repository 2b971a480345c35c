package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/w-h-a/ragchat"
	"github.com/w-h-a/ragchat/internal/service/answer"
	"github.com/w-h-a/ragchat/internal/service/ingest"
)

// Server exposes the pipeline over HTTP: upload documents, ask
// questions.
type Server struct {
	rag    *ragchat.RAG
	server *http.Server
}

func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start blocks until the server is shut down.
func (s *Server) Start() error {
	slog.Info("listening", "address", s.server.Addr)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) uploadDocument(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, errors.New("multipart field 'file' is required"))
		return
	}
	defer file.Close()

	count, err := s.rag.IngestFile(r.Context(), header.Filename, file)
	if err != nil {
		if errors.Is(err, ingest.ErrEmptyDocument) {
			s.respondError(w, http.StatusUnprocessableEntity, err)
			return
		}
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}

	s.respond(w, http.StatusCreated, map[string]any{
		"source": header.Filename,
		"chunks": count,
	})
}

func (s *Server) askQuestion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, errors.New("request body must be JSON with a 'question' field"))
		return
	}

	result, err := s.rag.Ask(r.Context(), req.Question)
	if err != nil {
		if errors.Is(err, answer.ErrEmptyQuestion) {
			s.respondError(w, http.StatusBadRequest, err)
			return
		}
		s.respondError(w, http.StatusBadGateway, err)
		return
	}

	passages := make([]map[string]any, 0, len(result.Context))
	for _, m := range result.Context {
		passages = append(passages, map[string]any{
			"id":    m.ID,
			"text":  m.Text,
			"score": m.Score,
		})
	}

	s.respond(w, http.StatusOK, map[string]any{
		"answer":  result.Answer,
		"context": passages,
	})
}

func (s *Server) respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, err error) {
	s.respond(w, status, map[string]string{"error": err.Error()})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if len(requestID) == 0 {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-Id", requestID)

		start := time.Now()
		next.ServeHTTP(w, r)

		slog.InfoContext(r.Context(), "handled request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}

func NewServer(rag *ragchat.RAG, opts ...Option) *Server {
	if rag == nil {
		panic("rag is required")
	}

	options := NewOptions(opts...)

	s := &Server{
		rag: rag,
	}

	r := mux.NewRouter()

	r.Use(requestLogger)
	for _, m := range options.Middleware {
		r.Use(m)
	}

	r.HandleFunc("/v1/health", s.health).Methods(http.MethodGet)
	r.HandleFunc("/v1/documents", s.uploadDocument).Methods(http.MethodPost)
	r.HandleFunc("/v1/questions", s.askQuestion).Methods(http.MethodPost)

	s.server = &http.Server{
		Addr:    options.Address,
		Handler: r,
	}

	return s
}

// Package http exposes a Messenger over a JSON HTTP API routed with chi.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/morselink"
	"github.com/aretw0/morselink/internal/logging"
	"github.com/aretw0/morselink/pkg/domain"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
)

// KeyRequestInvalid is the message key of requests rejected before reaching the Messenger.
const KeyRequestInvalid = "request.invalid"

// Messenger is the part of morselink.Messenger served over HTTP.
type Messenger interface {
	Translate(text string) domain.Result
	Transmit(ctx context.Context, text string) (domain.Result, error)
	Connect(ctx context.Context) error
	Status() domain.LinkStatus
	Close() error
}

var _ Messenger = (*morselink.Messenger)(nil)

// Server handles the API operations.
type Server struct {
	Messenger Messenger
	spec      *openapi3.T
	logger    *slog.Logger
	metrics   http.Handler
}

// Option configures the handler.
type Option func(*Server)

// WithLogger configures a logger for request handling.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsHandler mounts h at /metrics (typically promhttp.HandlerFor).
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// TextRequest is the body of /translate and /transmit.
type TextRequest struct {
	Text string `json:"text"`
}

// ResultResponse reports a translation and, for /transmit, whether it reached the peer.
type ResultResponse struct {
	Kind    domain.ResultKind `json:"kind"`
	Code    string            `json:"code,omitempty"`
	Invalid []string          `json:"invalid,omitempty"`
	Key     string            `json:"key"`
	Sent    bool              `json:"sent"`
	Error   string            `json:"error,omitempty"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
	Key   string `json:"key"`
}

// NewHandler creates a new HTTP handler for the messenger.
func NewHandler(m Messenger, opts ...Option) (http.Handler, error) {
	spec, err := LoadSpec()
	if err != nil {
		return nil, err
	}

	s := &Server{Messenger: m, spec: spec, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	validate, err := validateRequests(spec, s.logger)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(enableCORS)
	r.Use(validate)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(RawSpec())
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/status", s.GetStatus)
	r.Post("/translate", s.Translate)
	r.Post("/transmit", s.Transmit)
	r.Post("/connect", s.Connect)
	r.Post("/close", s.Close)

	return r, nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>morselink API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// Translate handles POST /translate. Validation failures are results, not errors.
func (s *Server) Translate(w http.ResponseWriter, r *http.Request) {
	var body TextRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, KeyRequestInvalid, err)
		return
	}

	res := s.Messenger.Translate(body.Text)
	writeJSON(w, http.StatusOK, toResponse(res, false, nil))
}

// Transmit handles POST /transmit.
func (s *Server) Transmit(w http.ResponseWriter, r *http.Request) {
	var body TextRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, KeyRequestInvalid, err)
		return
	}

	res, err := s.Messenger.Transmit(r.Context(), body.Text)
	if res.Kind == domain.KindEmpty {
		writeJSON(w, http.StatusOK, toResponse(res, false, nil))
		return
	}
	if !res.Sendable() {
		writeJSON(w, http.StatusUnprocessableEntity, toResponse(res, false, err))
		return
	}
	if err != nil {
		s.logger.Warn("Transmit failed", "key", domain.MessageKey(err), "err", err)
		writeError(w, statusFor(err), domain.MessageKey(err), err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(res, true, nil))
}

// Connect handles POST /connect.
func (s *Server) Connect(w http.ResponseWriter, r *http.Request) {
	if err := s.Messenger.Connect(r.Context()); err != nil {
		s.logger.Warn("Connect failed", "key", domain.MessageKey(err), "err", err)
		writeError(w, statusFor(err), domain.MessageKey(err), err)
		return
	}
	writeJSON(w, http.StatusOK, s.Messenger.Status())
}

// Close handles POST /close.
func (s *Server) Close(w http.ResponseWriter, r *http.Request) {
	_ = s.Messenger.Close()
	writeJSON(w, http.StatusOK, s.Messenger.Status())
}

// GetStatus handles GET /status.
func (s *Server) GetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Messenger.Status())
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.spec.Info != nil {
		apiVersion = s.spec.Info.Version
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "morselink-http",
		"version":     morselink.Version,
		"api_version": apiVersion,
	})
}

// statusFor maps link failures to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrPeerNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSessionClosed), errors.Is(err, domain.ErrNotConnected):
		return http.StatusConflict
	case errors.Is(err, domain.ErrConnectFailed), errors.Is(err, domain.ErrSendFailed):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func toResponse(res domain.Result, sent bool, err error) ResultResponse {
	resp := ResultResponse{
		Kind: res.Kind,
		Code: res.Code,
		Key:  res.Key(),
		Sent: sent,
	}
	for _, r := range res.Invalid {
		resp.Invalid = append(resp.Invalid, string(r))
	}
	if err == nil {
		err = res.Err()
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, key string, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Key: key})
}

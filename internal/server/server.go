// Package server exposes the listing pipeline over HTTP: token issuance,
// listing generation, and a liveness probe. Handlers map the error taxonomy
// onto status codes; constraint violations are response metadata, never
// errors.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sellerkit/listinggen/internal/auth"
	"github.com/sellerkit/listinggen/internal/config"
	"github.com/sellerkit/listinggen/internal/extract"
	"github.com/sellerkit/listinggen/internal/llm"
	"github.com/sellerkit/listinggen/internal/pipeline"
	"github.com/sellerkit/listinggen/internal/validate"
)

// Runner executes one listing-generation job. *pipeline.Pipeline satisfies
// it; tests substitute fakes.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) (pipeline.Result, error)
}

// Getter fetches a product page. *fetch.Client satisfies it.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, string, error)
}

type Server struct {
	Pipeline Runner
	Fetcher  Getter
	// Signer gates /api/listings when non-nil; a nil Signer disables auth.
	Signer         *auth.Signer
	TokenTTL       time.Duration
	DefaultProfile string
	GenTimeout     time.Duration
	Logger         zerolog.Logger
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/token", s.handleToken)
	mux.Handle("/api/listings", s.requireToken(http.HandlerFunc(s.handleListings)))
	return s.logMiddleware(mux)
}

// --- Handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type tokenRequest struct {
	ClientID string `json:"client_id"`
	Secret   string `json:"secret"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.fail(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.Signer == nil {
		s.fail(w, r, http.StatusNotFound, "token auth is not configured")
		return
	}
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ClientID == "" {
		s.fail(w, r, http.StatusBadRequest, "client_id is required")
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.Secret), s.Signer.Secret) != 1 {
		s.fail(w, r, http.StatusUnauthorized, "invalid credentials")
		return
	}
	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	tok, exp, err := s.Signer.Issue(req.ClientID, ttl)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, "token issuance failed")
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: tok, ExpiresAt: exp})
}

// requireToken checks the Bearer token when auth is configured.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Signer == nil {
			next.ServeHTTP(w, r)
			return
		}
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if raw == "" || raw == r.Header.Get("Authorization") {
			s.fail(w, r, http.StatusUnauthorized, "missing bearer token")
			return
		}
		subject, err := s.Signer.Verify(raw)
		if err != nil {
			s.fail(w, r, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		s.Logger.Debug().Str("subject", subject).Msg("token accepted")
		next.ServeHTTP(w, r)
	})
}

type listingRequest struct {
	Marketplace string `json:"marketplace"`
	BrandName   string `json:"brand_name"`
	BrandVoice  string `json:"brand_voice"`
	USP         string `json:"usp"`
	Product     string `json:"product"`
	ProductURL  string `json:"product_url"`
	Variants    int    `json:"variants"`
	Profile     string `json:"profile"`
}

type listingResponse struct {
	RequestID  string               `json:"request_id"`
	Document   string               `json:"document"`
	Sources    []string             `json:"sources,omitempty"`
	Complete   bool                 `json:"complete"`
	Violations []validate.Violation `json:"violations,omitempty"`
}

func (s *Server) handleListings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.fail(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req listingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.BrandName == "" {
		s.fail(w, r, http.StatusBadRequest, "brand_name is required")
		return
	}
	if req.Product == "" && req.ProductURL == "" {
		s.fail(w, r, http.StatusBadRequest, "one of product or product_url is required")
		return
	}

	profileName := req.Profile
	if profileName == "" {
		profileName = s.DefaultProfile
	}
	profile, ok := config.Profile(profileName)
	if !ok {
		s.fail(w, r, http.StatusBadRequest, "unknown profile "+profileName)
		return
	}

	ctx := r.Context()
	if s.GenTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.GenTimeout)
		defer cancel()
	}

	productInfo := req.Product
	if productInfo == "" {
		text, err := s.fetchProduct(ctx, req.ProductURL)
		if err != nil {
			status := http.StatusBadGateway
			if errors.Is(err, errBadProductURL) {
				status = http.StatusBadRequest
			}
			s.fail(w, r, status, err.Error())
			return
		}
		productInfo = text
	}

	res, err := s.Pipeline.Run(ctx, pipeline.Request{
		Marketplace: req.Marketplace,
		Brand:       req.BrandName,
		BrandVoice:  req.BrandVoice,
		USPs:        req.USP,
		ProductInfo: productInfo,
		Variants:    req.Variants,
		Profile:     profile,
	})
	if err != nil {
		status, msg := backendStatus(err)
		s.fail(w, r, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, listingResponse{
		RequestID:  requestID(r),
		Document:   res.Document,
		Sources:    res.Sources,
		Complete:   res.Complete(),
		Violations: res.Violations,
	})
}

var errBadProductURL = errors.New("product_url must be an absolute http(s) URL")

func (s *Server) fetchProduct(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return "", errBadProductURL
	}
	if s.Fetcher == nil {
		return "", errors.New("product_url fetching is not configured")
	}
	body, _, err := s.Fetcher.Get(ctx, rawURL)
	if err != nil {
		return "", errors.New("fetching product page failed: " + err.Error())
	}
	return extract.FromHTML(body).Render(), nil
}

// backendStatus maps a generation failure to a status code and a
// single-line message.
func backendStatus(err error) (int, string) {
	var be *llm.BackendError
	if errors.As(err, &be) {
		switch {
		case be.Timeout:
			return http.StatusGatewayTimeout, "generation backend timed out; try again"
		case be.Transport:
			return http.StatusBadGateway, "generation backend unreachable; try again"
		case be.Status > 0:
			return http.StatusBadGateway, "generation backend error: " + be.Message
		}
	}
	if errors.Is(err, llm.ErrEmptyResult) {
		return http.StatusInternalServerError, "generation produced no text"
	}
	return http.StatusInternalServerError, err.Error()
}

// --- Plumbing ---

type errorResponse struct {
	RequestID string `json:"request_id"`
	Error     string `json:"error"`
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.Logger.Warn().Int("status", status).Str("request_id", requestID(r)).Msg(msg)
	writeJSON(w, status, errorResponse{RequestID: requestID(r), Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type ctxKey int

const requestIDKey ctxKey = 0

func requestID(r *http.Request) string {
	if id, ok := r.Context().Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// statusRecorder captures the response status for the access log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// logMiddleware tags each request with a UUID and writes one access log
// line when it completes.
func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		r = r.WithContext(context.WithValue(r.Context(), requestIDKey, id))
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		s.Logger.Info().
			Str("request_id", id).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// Package api exposes the star registry over HTTP.
package api

import (
	"context"
	"crypto/tls"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"

	"github.com/alexsserban/starledger/registry"
)

type serverConfig struct {
	logger        *slog.Logger
	selfSignedTLS bool
}

// Option configures a Server.
type Option func(serverConfig) serverConfig

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c serverConfig) serverConfig {
		if l != nil {
			c.logger = l
		}
		return c
	}
}

// WithSelfSignedTLS serves HTTPS with a freshly generated certificate.
func WithSelfSignedTLS() Option {
	return func(c serverConfig) serverConfig {
		c.selfSignedTLS = true
		return c
	}
}

// Server serves the registry API.
type Server struct {
	svc        *registry.Service
	logger     *slog.Logger
	httpServer *http.Server
	tlsConfig  *tls.Config
	certSHA256 string
}

// NewServer builds a server for svc listening on address.
func NewServer(svc *registry.Service, address string, opts ...Option) (*Server, error) {
	cfg := serverConfig{logger: slog.Default()}
	for _, opt := range opts {
		cfg = opt(cfg)
	}
	s := &Server{svc: svc, logger: cfg.logger}
	s.httpServer = &http.Server{
		Addr:              address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if cfg.selfSignedTLS {
		cert, err := GenerateSelfSignedCert(address)
		if err != nil {
			return nil, errors.Wrap(err, "generate certificate")
		}
		s.certSHA256 = Fingerprint(cert)
		s.tlsConfig = &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}
	}
	return s, nil
}

// CertificateFingerprint returns the hex SHA-256 of the self-signed
// certificate, or "" when serving plain HTTP.
func (s *Server) CertificateFingerprint() string { return s.certSHA256 }

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Post("/requestValidation", s.requestValidation)
	r.Post("/submitstar", s.submitStar)
	r.Get("/block/hash/{hash}", s.blockByHash)
	r.Get("/block/height/{height}", s.blockByHeight)
	r.Get("/blocks/{address}", s.starsByOwner)
	r.Get("/validateChain", s.validateChain)
	return r
}

// Serve accepts connections on l until Shutdown is called.
func (s *Server) Serve(l net.Listener) error {
	if s.tlsConfig != nil {
		l = tls.NewListener(l, s.tlsConfig)
	}
	s.logger.Info("serving registry API",
		"address", l.Addr().String(),
		"tls", s.tlsConfig != nil,
		"cert_sha256", s.certSHA256,
	)
	err := s.httpServer.Serve(l)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

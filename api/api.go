// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"
)

const DefaultListenAddress = ":8080"

// Config holds the settings of the HTTP API server
type Config struct {
	// Clock supplies the block timestamp of mutating calls. It defaults to
	// time.Now
	Clock         func() time.Time
	ListenAddress string
}

// Server exposes the badge contract over HTTP.
type Server struct {
	config     Config
	logger     *slog.Logger
	contract   BadgeContract
	httpServer *http.Server
	listenAddr net.Addr
	mu         sync.Mutex
}

// New creates a new API server instance.
func New(
	cfg Config,
	contract BadgeContract,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.New(
			slog.NewJSONHandler(io.Discard, nil),
		)
	}
	logger = logger.With("component", "api")
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = DefaultListenAddress
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Server{
		config:   cfg,
		logger:   logger,
		contract: contract,
	}
}

// Handler returns the request router of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/v1/initialize", s.handleInitialize)
	mux.HandleFunc("GET /api/v1/owner", s.handleOwner)
	mux.HandleFunc("GET /api/v1/owner/{account}", s.handleIsOwner)
	mux.HandleFunc("POST /api/v1/organizers", s.handleAddOrganizer)
	mux.HandleFunc("GET /api/v1/organizers", s.handleListOrganizers)
	mux.HandleFunc(
		"GET /api/v1/organizers/{account}",
		s.handleIsOrganizer,
	)
	mux.HandleFunc("POST /api/v1/events", s.handleCreateEvent)
	mux.HandleFunc("GET /api/v1/events", s.handleListEvents)
	mux.HandleFunc("GET /api/v1/events/{name}", s.handleGetEvent)
	mux.HandleFunc("DELETE /api/v1/events/{name}", s.handleDeleteEvent)
	mux.HandleFunc(
		"GET /api/v1/events/{name}/whitelist",
		s.handleGetWhitelist,
	)
	mux.HandleFunc(
		"POST /api/v1/events/{name}/whitelist",
		s.handleAddToWhitelist,
	)
	mux.HandleFunc(
		"POST /api/v1/events/{name}/claim",
		s.handleClaimBadge,
	)
	mux.HandleFunc("GET /api/v1/tokens", s.handleTotalSupply)
	mux.HandleFunc("GET /api/v1/tokens/{id}", s.handleGetToken)
	mux.HandleFunc(
		"GET /api/v1/accounts/{account}/tokens",
		s.handleTokensForOwner,
	)
	mux.HandleFunc("GET /api/v1/metadata", s.handleGetMetadata)
	mux.HandleFunc("PUT /api/v1/metadata", s.handleSetMetadata)
	return mux
}

// Start starts the HTTP server in a background goroutine.
func (s *Server) Start(
	ctx context.Context,
) error {
	s.mu.Lock()
	if s.httpServer != nil {
		s.mu.Unlock()
		return errors.New("server already started")
	}
	server := &http.Server{
		Addr:              s.config.ListenAddress,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 60 * time.Second,
	}
	s.httpServer = server
	s.mu.Unlock()

	// Start the server with deterministic error detection
	if err := s.startServer(server); err != nil {
		s.mu.Lock()
		s.httpServer = nil
		s.mu.Unlock()
		return err
	}

	s.logger.Info(
		"API listener started on " + s.Addr(),
	)

	// Monitor context for cancellation
	go func() {
		<-ctx.Done()
		s.mu.Lock()
		srv := s.httpServer
		s.httpServer = nil
		s.mu.Unlock()

		if srv != nil {
			s.logger.Debug(
				"context cancelled, shutting down API server",
			)
			//nolint:contextcheck
			shutdownCtx, cancel := context.WithTimeout(
				context.Background(),
				30*time.Second,
			)
			defer cancel()
			//nolint:contextcheck
			if err := srv.Shutdown(
				shutdownCtx,
			); err != nil {
				s.logger.Error(
					"failed to shutdown API server on context cancellation",
					"error", err,
				)
			}
		}
	}()

	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(
	ctx context.Context,
) error {
	s.mu.Lock()
	srv := s.httpServer
	s.httpServer = nil
	s.mu.Unlock()

	if srv != nil {
		s.logger.Debug(
			"shutting down API server",
		)
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf(
				"failed to shutdown API server: %w",
				err,
			)
		}
	}
	return nil
}

// Addr returns the address the server is listening on, or the configured
// address if it has not been started
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listenAddr != nil {
		return s.listenAddr.String()
	}
	return s.config.ListenAddress
}

// startServer binds the listening socket first so port conflicts are
// detected immediately, then serves in a background goroutine.
func (s *Server) startServer(
	server *http.Server,
) error {
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return fmt.Errorf(
			"failed to listen for API server: %w",
			err,
		)
	}
	s.mu.Lock()
	s.listenAddr = ln.Addr()
	s.mu.Unlock()
	go func() {
		if err := server.Serve(ln); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			s.logger.Error(
				"API server error",
				"error", err,
			)
		}
	}()
	return nil
}

// Copyright 2025 Blink Labs Software
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

package gateway

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

	"github.com/blinklabs-io/certstore/identity"
	"github.com/blinklabs-io/certstore/record"
)

// RecordStore is the record store surface the gateway relays requests
// into. Implemented by certstore.Store.
type RecordStore interface {
	CreateCertificate(identity.Identity, record.Certificate) error
	ReadCertificate(string) (*record.Certificate, error)
	UpdateCertificate(identity.Identity, record.Certificate) error
	DeleteCertificate(identity.Identity, string) error
	CertificateExists(string) (bool, error)
	UpdateCertificateState(identity.Identity, string, record.State) error
	ListCertificates(identity.Identity) ([]record.Entry, error)
	QueryCertificatesByAcquirer(
		identity.Identity,
		string,
	) ([]record.Entry, error)
	QueryCertificatesByState(
		identity.Identity,
		record.State,
	) ([]record.Entry, error)
	QueryCertificatesByRegistrationNr(
		identity.Identity,
		string,
	) ([]record.Entry, error)
	CheckAcquirerHasIssued(identity.Identity, string) (bool, error)
	SweepExpiredCertificates(identity.Identity) error
	CreateFarmer(identity.Identity, record.Farmer) error
	UpdateFarmer(identity.Identity, record.Farmer) error
	DeleteFarmer(identity.Identity, string) error
	FarmerExists(string) (bool, error)
	GetFarmerByID(identity.Identity, string) (*record.Farmer, error)
	ListFarmers(identity.Identity) ([]record.Entry, error)
}

// GatewayConfig provides configuration options for the gateway server
type GatewayConfig struct {
	ListenAddress string
}

// Gateway is the REST API server relaying HTTP requests into record
// store operations. Caller identity comes from request headers; the
// store applies the access policy.
type Gateway struct {
	config     GatewayConfig
	logger     *slog.Logger
	store      RecordStore
	httpServer *http.Server
	mu         sync.Mutex
}

// New creates a new gateway API server instance
func New(
	cfg GatewayConfig,
	store RecordStore,
	logger *slog.Logger,
) *Gateway {
	if logger == nil {
		logger = slog.New(
			slog.NewJSONHandler(io.Discard, nil),
		)
	}
	logger = logger.With("component", "gateway")
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = ":3000"
	}
	return &Gateway{
		config: cfg,
		logger: logger,
		store:  store,
	}
}

// Start starts the HTTP server in a background goroutine
func (g *Gateway) Start(ctx context.Context) error {
	g.mu.Lock()
	if g.httpServer != nil {
		g.mu.Unlock()
		return errors.New("server already started")
	}

	server := &http.Server{
		Addr:              g.config.ListenAddress,
		Handler:           g.routes(),
		ReadHeaderTimeout: 60 * time.Second,
	}
	g.httpServer = server
	g.mu.Unlock()

	// Start the server with deterministic error detection
	if err := g.startServer(server); err != nil {
		g.mu.Lock()
		g.httpServer = nil
		g.mu.Unlock()
		return err
	}

	g.logger.Info(
		"gateway API listener started on " + g.config.ListenAddress,
	)

	// Monitor context for cancellation
	go func() {
		<-ctx.Done()
		g.mu.Lock()
		srv := g.httpServer
		g.httpServer = nil
		g.mu.Unlock()

		if srv != nil {
			g.logger.Debug(
				"context cancelled, shutting down gateway API server",
			)
			//nolint:contextcheck
			shutdownCtx, cancel := context.WithTimeout(
				context.Background(),
				30*time.Second,
			)
			defer cancel()
			//nolint:contextcheck
			if err := srv.Shutdown(shutdownCtx); err != nil {
				g.logger.Error(
					"failed to shutdown gateway API server on context cancellation",
					"error", err,
				)
			}
		}
	}()

	return nil
}

// routes builds the request mux. Split out from Start so tests can drive
// handlers through httptest without a listening socket.
func (g *Gateway) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", g.handleRoot)
	mux.HandleFunc("GET /health", g.handleHealth)
	mux.HandleFunc(
		"POST /api/v1/certificates",
		g.handleCreateCertificate,
	)
	mux.HandleFunc(
		"GET /api/v1/certificates",
		g.handleListCertificates,
	)
	mux.HandleFunc(
		"GET /api/v1/certificates/{id}",
		g.handleReadCertificate,
	)
	mux.HandleFunc(
		"PUT /api/v1/certificates/{id}",
		g.handleUpdateCertificate,
	)
	mux.HandleFunc(
		"DELETE /api/v1/certificates/{id}",
		g.handleDeleteCertificate,
	)
	mux.HandleFunc(
		"GET /api/v1/certificates/{id}/exists",
		g.handleCertificateExists,
	)
	mux.HandleFunc(
		"PUT /api/v1/certificates/{id}/state",
		g.handleUpdateCertificateState,
	)
	mux.HandleFunc(
		"GET /api/v1/certificates/acquirer/{acquirerId}",
		g.handleQueryCertificatesByAcquirer,
	)
	mux.HandleFunc(
		"GET /api/v1/certificates/state/{state}",
		g.handleQueryCertificatesByState,
	)
	mux.HandleFunc(
		"GET /api/v1/certificates/registration/{registrationNr}",
		g.handleQueryCertificatesByRegistrationNr,
	)
	mux.HandleFunc(
		"GET /api/v1/acquirers/{acquirerId}/issued",
		g.handleCheckAcquirerIssued,
	)
	mux.HandleFunc(
		"POST /api/v1/certificates/sweep",
		g.handleSweepExpiredCertificates,
	)
	mux.HandleFunc(
		"POST /api/v1/farmers",
		g.handleCreateFarmer,
	)
	mux.HandleFunc(
		"GET /api/v1/farmers",
		g.handleListFarmers,
	)
	mux.HandleFunc(
		"GET /api/v1/farmers/{id}",
		g.handleGetFarmer,
	)
	mux.HandleFunc(
		"PUT /api/v1/farmers/{id}",
		g.handleUpdateFarmer,
	)
	mux.HandleFunc(
		"DELETE /api/v1/farmers/{id}",
		g.handleDeleteFarmer,
	)
	mux.HandleFunc(
		"GET /api/v1/farmers/{id}/exists",
		g.handleFarmerExists,
	)
	return mux
}

// Stop gracefully shuts down the HTTP server
func (g *Gateway) Stop(ctx context.Context) error {
	g.mu.Lock()
	srv := g.httpServer
	g.httpServer = nil
	g.mu.Unlock()

	if srv != nil {
		g.logger.Debug("shutting down gateway API server")
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf(
				"failed to shutdown gateway API server: %w",
				err,
			)
		}
	}
	return nil
}

// startServer starts the HTTP server with deterministic error detection.
// It binds the listening socket first so port conflicts are detected
// immediately, then serves in a background goroutine.
func (g *Gateway) startServer(server *http.Server) error {
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return fmt.Errorf(
			"failed to listen for gateway API server: %w",
			err,
		)
	}
	go func() {
		if err := server.Serve(ln); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			g.logger.Error(
				"gateway API server error",
				"error", err,
			)
		}
	}()
	return nil
}

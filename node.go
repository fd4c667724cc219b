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

package laurel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/blinklabs-io/laurel/api"
	"github.com/blinklabs-io/laurel/contract"
	"github.com/blinklabs-io/laurel/database"
	"github.com/blinklabs-io/laurel/event"
	"github.com/blinklabs-io/laurel/event/amqpsink"
	"go.opentelemetry.io/otel/trace"
)

type Node struct {
	db             *database.Database
	eventBus       *event.EventBus
	contract       *contract.Contract
	api            *api.Server
	amqpSink       *amqpsink.Sink
	tracerProvider trace.TracerProvider
	shutdownFuncs  []func(context.Context) error
	config         Config
	ready          chan struct{}
	done           chan struct{}
	shutdownOnce   sync.Once
}

func New(cfg Config) (*Node, error) {
	eventBus := event.NewEventBus(cfg.promRegistry, cfg.logger)
	n := &Node{
		config:   cfg,
		eventBus: eventBus,
		ready:    make(chan struct{}),
		done:     make(chan struct{}),
	}
	if err := n.configValidate(); err != nil {
		eventBus.Stop()
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return n, nil
}

// Run starts all node components and blocks until ctx is cancelled or
// Stop is called
func (n *Node) Run(ctx context.Context) error {
	if err := n.start(ctx); err != nil {
		if stopErr := n.Stop(); stopErr != nil {
			n.config.logger.Error(
				"shutdown errors occurred during error cleanup",
				"component", "node",
				"error", stopErr,
			)
		}
		return err
	}
	close(n.ready)
	n.config.logger.Info(
		"node started",
		"component", "node",
		"api", n.api.Addr(),
	)
	select {
	case <-ctx.Done():
		return n.Stop()
	case <-n.done:
		return nil
	}
}

func (n *Node) start(ctx context.Context) error {
	// Configure tracing
	if n.config.tracing {
		if err := n.setupTracing(); err != nil {
			return err
		}
	}
	// Load database
	db, err := database.New(&database.Config{
		DataDir:        n.config.dataDir,
		Logger:         n.config.logger,
		PromRegistry:   n.config.promRegistry,
		BlobPlugin:     n.config.blobPlugin,
		MetadataPlugin: n.config.metadataPlugin,
	})
	if db == nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	n.db = db
	if err != nil {
		var dbErr database.CommitTimestampError
		if !errors.As(err, &dbErr) {
			return fmt.Errorf("failed to open database: %w", err)
		}
		n.config.logger.Warn(
			"database initialization error, needs recovery",
			"component", "node",
			"error", err,
		)
		if _, err := n.db.RecoverCommitTimestampConflict(); err != nil {
			return fmt.Errorf("failed to recover database: %w", err)
		}
	}
	// Load contract
	c, err := contract.New(contract.ContractConfig{
		Database:       n.db,
		EventBus:       n.eventBus,
		Logger:         n.config.logger,
		PromRegistry:   n.config.promRegistry,
		TracerProvider: n.tracerProvider,
		BadgeMediaUrl:  n.config.badgeMediaUrl,
	})
	if err != nil {
		return fmt.Errorf("failed to load contract: %w", err)
	}
	n.contract = c
	// Forward contract events to the broker
	if n.config.amqpUrl != "" {
		sink, err := amqpsink.New(n.config.amqpSinkConfig())
		if err != nil {
			return fmt.Errorf("failed to connect to AMQP broker: %w", err)
		}
		sink.Attach(n.eventBus)
		n.amqpSink = sink
	}
	// Start HTTP API
	n.api = api.New(
		api.Config{
			ListenAddress: n.config.apiListenAddress,
		},
		n.contract,
		n.config.logger,
	)
	if err := n.api.Start(ctx); err != nil {
		return err
	}
	return nil
}

// Ready is closed once the node is serving requests
func (n *Node) Ready() <-chan struct{} {
	return n.ready
}

// Contract returns the contract served by the node. It is nil until the
// node is ready
func (n *Node) Contract() *contract.Contract {
	return n.contract
}

// ApiAddr returns the address of the HTTP API listener
func (n *Node) ApiAddr() string {
	if n.api == nil {
		return n.config.apiListenAddress
	}
	return n.api.Addr()
}

func (n *Node) Stop() error {
	var err error
	n.shutdownOnce.Do(func() {
		err = n.shutdown()
	})
	return err
}

func (n *Node) shutdown() error {
	shutdownTimeout := DefaultShutdownTimeout
	if n.config.shutdownTimeout > 0 {
		shutdownTimeout = n.config.shutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var err error

	n.config.logger.Debug("starting graceful shutdown", "component", "node")

	// Phase 1: Stop accepting new work
	if n.api != nil {
		if stopErr := n.api.Stop(ctx); stopErr != nil {
			err = errors.Join(err, fmt.Errorf("api shutdown: %w", stopErr))
		}
	}

	// Phase 2: Deliver queued events. This also closes the AMQP sink
	if n.eventBus != nil {
		n.eventBus.Stop()
	}

	// Phase 3: Close database
	if n.db != nil {
		if closeErr := n.db.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("database close: %w", closeErr))
		}
	}

	// Call registered shutdown functions
	for _, fn := range n.shutdownFuncs {
		if fnErr := fn(ctx); fnErr != nil {
			err = errors.Join(err, fmt.Errorf("shutdown function: %w", fnErr))
		}
	}
	n.shutdownFuncs = nil

	n.config.logger.Debug("graceful shutdown complete", "component", "node")
	close(n.done)
	return err
}

// waitReady waits for the node to become ready or stop
func (n *Node) waitReady(timeout time.Duration) bool {
	select {
	case <-n.ready:
		return true
	case <-n.done:
		return false
	case <-time.After(timeout):
		return false
	}
}

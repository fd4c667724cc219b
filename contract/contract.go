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

// Package contract implements the event badge contract: a role registry,
// named events with whitelists, and a ledger of non-transferable badge
// tokens claimed by whitelisted accounts.
package contract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"sync"

	"github.com/blinklabs-io/laurel/database"
	"github.com/blinklabs-io/laurel/event"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultBadgeMediaUrl is the image every badge points at unless the
// deployment configures another one
const DefaultBadgeMediaUrl = "https://bafybeiftczwrtyr3k7a2k4vutd3amkwsmaqkpbvr3azdlk2qx4vtsoi4u4.ipfs.nftstorage.link/"

const tracerName = "github.com/blinklabs-io/laurel/contract"

// Call carries what the host knows about an invocation: who made it, the
// block timestamp in nanoseconds, and any value attached to it
type Call struct {
	Deposit   *big.Int
	Caller    string
	Timestamp uint64
}

type ContractConfig struct {
	Database       *database.Database
	EventBus       *event.EventBus
	Logger         *slog.Logger
	PromRegistry   prometheus.Registerer
	TracerProvider trace.TracerProvider
	BadgeMediaUrl  string
}

type Contract struct {
	config  ContractConfig
	db      *database.Database
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *contractMetrics
	// Serializes mutating operations
	mu sync.Mutex
}

func New(cfg ContractConfig) (*Contract, error) {
	if cfg.Database == nil {
		return nil, errors.New("database not specified")
	}
	if cfg.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if cfg.BadgeMediaUrl == "" {
		cfg.BadgeMediaUrl = DefaultBadgeMediaUrl
	}
	if cfg.TracerProvider == nil {
		cfg.TracerProvider = otel.GetTracerProvider()
	}
	c := &Contract{
		config: cfg,
		db:     cfg.Database,
		logger: cfg.Logger.With("component", "contract"),
		tracer: cfg.TracerProvider.Tracer(tracerName),
	}
	if cfg.PromRegistry != nil {
		c.initMetrics(cfg.PromRegistry)
	}
	return c, nil
}

// mutate runs fn in a read-write transaction spanning both stores. Events
// returned by fn are published only after the transaction commits
func (c *Contract) mutate(
	ctx context.Context,
	operation string,
	call Call,
	fn func(txn *database.Txn) ([]event.Event, error),
) error {
	_, span := c.tracer.Start(
		ctx,
		"contract."+operation,
		trace.WithAttributes(
			attribute.String("laurel.caller", call.Caller),
			attribute.Int64("laurel.block_timestamp", int64(call.Timestamp)), //nolint:gosec // nanosecond timestamps fit
		),
	)
	defer span.End()

	var evts []event.Event
	err := func() error {
		if call.Caller == "" {
			return fmt.Errorf("%w: caller not specified", ErrInvalidArgument)
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		txn := c.db.Transaction(true)
		return txn.Do(func(txn *database.Txn) error {
			var err error
			evts, err = fn(txn)
			return err
		})
	}()
	c.recordOperation(operation, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, errorKind(err))
		c.logger.Debug(
			"operation failed",
			"operation", operation,
			"caller", call.Caller,
			"error", err,
		)
		return err
	}
	c.logger.Debug(
		"operation succeeded",
		"operation", operation,
		"caller", call.Caller,
	)
	if c.config.EventBus != nil {
		for _, evt := range evts {
			c.config.EventBus.PublishAsync(evt.Type, evt)
		}
	}
	return nil
}

// view runs fn in a read-only blob transaction
func (c *Contract) view(
	ctx context.Context,
	operation string,
	fn func(txn *database.Txn) error,
) error {
	_, span := c.tracer.Start(ctx, "contract."+operation)
	defer span.End()
	txn := c.db.BlobTxn(false)
	defer txn.Release()
	err := fn(txn)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, errorKind(err))
	}
	return err
}

func (c *Contract) requireInitialized(txn *database.Txn) error {
	initialized, err := c.db.IsInitialized(txn)
	if err != nil {
		return err
	}
	if !initialized {
		return ErrNotInitialized
	}
	return nil
}

func (c *Contract) requireOwner(txn *database.Txn, accountId string) error {
	owner, err := c.db.GetOwner(txn)
	if err != nil {
		return err
	}
	if owner != accountId {
		return fmt.Errorf("%w: %s is not the owner", ErrUnauthorized, accountId)
	}
	return nil
}

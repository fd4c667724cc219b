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

package postgres

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/blinklabs-io/laurel/database/models"
	"github.com/blinklabs-io/laurel/database/types"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

// postgresTxn wraps a gorm transaction and implements types.Txn
type postgresTxn struct {
	store    *MetadataStorePostgres
	db       *gorm.DB
	beginErr error
	finished bool
}

func (t *postgresTxn) Commit() error {
	if t.beginErr != nil {
		return t.beginErr
	}
	if t.finished {
		return nil
	}
	if result := t.db.Commit(); result.Error != nil {
		return result.Error
	}
	t.finished = true
	return nil
}

func (t *postgresTxn) Rollback() error {
	if t.beginErr != nil {
		return t.beginErr
	}
	if t.finished {
		return nil
	}
	if result := t.db.Rollback(); result.Error != nil {
		return result.Error
	}
	t.finished = true
	return nil
}

// MetadataStorePostgres keeps the mint journal, the contract display
// metadata and the commit timestamp in Postgres
type MetadataStorePostgres struct {
	promRegistry prometheus.Registerer
	db           *gorm.DB
	logger       *slog.Logger

	host     string
	user     string
	password string
	database string
	sslMode  string
	timeZone string
	dsn      string // Full connection string, overrides the fields above
	port     uint
}

// NewWithOptions creates a Postgres metadata store. The connection is
// opened by Start()
func NewWithOptions(opts ...PostgresOptionFunc) (*MetadataStorePostgres, error) {
	db := &MetadataStorePostgres{}
	for _, opt := range opts {
		opt(db)
	}
	// Set defaults after options are applied
	if db.host == "" {
		db.host = DefaultHost
	}
	if db.port == 0 {
		db.port = DefaultPort
	}
	if db.user == "" {
		db.user = DefaultUser
	}
	if db.database == "" {
		db.database = DefaultDatabase
	}
	if db.sslMode == "" {
		db.sslMode = DefaultSSLMode
	}
	if db.timeZone == "" {
		db.timeZone = DefaultTimeZone
	}
	if db.logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		db.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if db.port > 65535 {
		return nil, fmt.Errorf("invalid postgres port: %d", db.port)
	}
	return db, nil
}

// connString returns the DSN used to connect
func (d *MetadataStorePostgres) connString() string {
	if dsn := strings.TrimSpace(d.dsn); dsn != "" {
		return dsn
	}
	parts := []string{
		"host=" + d.host,
		"user=" + d.user,
		"password=" + d.password,
		"dbname=" + d.database,
		"port=" + strconv.FormatUint(uint64(d.port), 10),
		"sslmode=" + d.sslMode,
	}
	if d.timeZone != "" {
		parts = append(parts, "TimeZone="+d.timeZone)
	}
	return strings.Join(parts, " ")
}

// Start connects and applies migrations
func (d *MetadataStorePostgres) Start() error {
	if d.db != nil {
		return nil
	}
	metadataDb, err := gorm.Open(
		postgres.Open(d.connString()),
		&gorm.Config{
			Logger:                 gormlogger.Discard,
			SkipDefaultTransaction: true,
			PrepareStmt:            true,
		},
	)
	if err != nil {
		return err
	}
	d.logger.Info(
		"connected to postgres metadata store",
		"component", "database",
		"host", d.host,
		"port", d.port,
		"database", d.database,
	)
	d.db = metadataDb
	// Configure connection pool
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	// Configure tracing for GORM
	if err := d.db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return err
	}
	d.logger.Debug(
		"creating table",
		"component", "database",
		"table", CommitTimestamp{}.TableName(),
	)
	if err := d.db.AutoMigrate(&CommitTimestamp{}); err != nil {
		return err
	}
	for _, model := range models.MigrateModels {
		d.logger.Debug(
			fmt.Sprintf("creating table: %T", model),
			"component", "database",
		)
		if err := d.db.AutoMigrate(model); err != nil {
			return err
		}
	}
	if d.promRegistry != nil {
		d.registerMetrics()
	}
	return nil
}

// Stop implements the plugin.Plugin interface
func (d *MetadataStorePostgres) Stop() error {
	return d.Close()
}

// Close closes the connection pool
func (d *MetadataStorePostgres) Close() error {
	// Start() may have failed or never been called
	if d.db == nil {
		return nil
	}
	db, err := d.DB().DB()
	if err != nil {
		return err
	}
	return db.Close()
}

// DB returns the underlying GORM database handle
func (d *MetadataStorePostgres) DB() *gorm.DB {
	return d.db
}

// Transaction starts a new metadata transaction, or returns nil if the
// store has not been started. A failed BEGIN is reported by the returned
// txn on first use
func (d *MetadataStorePostgres) Transaction() types.Txn {
	if d.db == nil {
		return nil
	}
	tx := d.DB().Begin()
	if tx.Error != nil {
		d.logger.Error(
			"failed to begin transaction",
			"component", "database",
			"error", tx.Error,
		)
		return &postgresTxn{store: d, beginErr: tx.Error}
	}
	return &postgresTxn{store: d, db: tx}
}

// resolveDB returns the gorm handle to run a query on. A nil txn runs the
// query outside of any transaction
func (d *MetadataStorePostgres) resolveDB(txn types.Txn) (*gorm.DB, error) {
	if txn == nil {
		if d.db == nil {
			return nil, types.ErrNoStoreAvailable
		}
		return d.DB(), nil
	}
	pTxn, ok := txn.(*postgresTxn)
	if !ok {
		return nil, types.ErrTxnWrongType
	}
	if pTxn.store != d {
		return nil, errors.New("transaction from different store")
	}
	if pTxn.beginErr != nil {
		return nil, pTxn.beginErr
	}
	if pTxn.finished {
		return nil, types.ErrTxnFinished
	}
	return pTxn.db, nil
}

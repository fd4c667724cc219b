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

package sqlite

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/blinklabs-io/laurel/database/models"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

const DefaultVacuumInterval = 24 * time.Hour

// memoryDbSeq gives each in-memory store its own shared-cache database, so
// stores opened side by side in one process do not see each other's rows
var memoryDbSeq atomic.Uint64

// MetadataStoreSqlite is a SQLite-based implementation of the metadata
// store. It holds the mint journal, the contract display metadata and
// the commit timestamp.
type MetadataStoreSqlite struct {
	promRegistry   prometheus.Registerer
	db             *gorm.DB
	logger         *slog.Logger
	timerVacuum    *time.Timer
	dataDir        string
	vacuumInterval time.Duration
	timerMutex     sync.Mutex
	vacuumWG       sync.WaitGroup
	closed         bool
}

// NewWithOptions creates a SQLite metadata store. The database is opened
// by Start(). An empty data dir selects an in-memory database
func NewWithOptions(opts ...SqliteOptionFunc) (*MetadataStoreSqlite, error) {
	db := &MetadataStoreSqlite{
		vacuumInterval: DefaultVacuumInterval,
	}
	for _, opt := range opts {
		opt(db)
	}
	if db.logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		db.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if db.vacuumInterval <= 0 {
		return nil, fmt.Errorf(
			"invalid vacuum interval: %s",
			db.vacuumInterval,
		)
	}
	return db, nil
}

// Start opens the database and applies migrations
func (d *MetadataStoreSqlite) Start() error {
	if d.db != nil {
		return nil
	}
	gormConfig := &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
	}
	var metadataDb *gorm.DB
	var err error
	if d.dataDir == "" {
		dsn := fmt.Sprintf(
			"file:laurel-metadata-%d?mode=memory&cache=shared",
			memoryDbSeq.Add(1),
		)
		metadataDb, err = gorm.Open(sqlite.Open(dsn), gormConfig)
		if err != nil {
			return err
		}
	} else {
		// Make sure that we can read data dir, and create if it doesn't exist
		if _, err := os.Stat(d.dataDir); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to read data dir: %w", err)
			}
			if err := os.MkdirAll(d.dataDir, fs.ModePerm); err != nil {
				return fmt.Errorf("failed to create data dir: %w", err)
			}
		}
		metadataDbPath := filepath.Join(d.dataDir, "metadata.sqlite")
		// WAL journal mode, wait on locks instead of failing immediately
		metadataConnOpts := "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
		metadataDb, err = gorm.Open(
			sqlite.Open(
				fmt.Sprintf("file:%s?%s", metadataDbPath, metadataConnOpts),
			),
			gormConfig,
		)
		if err != nil {
			return err
		}
	}
	// A single connection keeps the in-memory database alive and serializes
	// writers, which SQLite does anyway
	sqlDb, err := metadataDb.DB()
	if err != nil {
		return fmt.Errorf("get database handle: %w", err)
	}
	sqlDb.SetMaxOpenConns(1)
	sqlDb.SetConnMaxIdleTime(0)
	sqlDb.SetConnMaxLifetime(0)
	d.db = metadataDb
	if err := d.init(); err != nil {
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
func (d *MetadataStoreSqlite) Stop() error {
	return d.Close()
}

func (d *MetadataStoreSqlite) init() error {
	// Configure tracing for GORM
	if err := d.db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return err
	}
	d.scheduleVacuum()
	return nil
}

func (d *MetadataStoreSqlite) runVacuum() error {
	d.timerMutex.Lock()
	if d.dataDir == "" || d.closed {
		d.timerMutex.Unlock()
		return nil
	}
	// Track this vacuum operation while we know the store is open
	d.vacuumWG.Add(1)
	d.timerMutex.Unlock()
	defer d.vacuumWG.Done()

	return d.DB().Exec("VACUUM").Error
}

// scheduleVacuum schedules the next vacuum to free unused space
func (d *MetadataStoreSqlite) scheduleVacuum() {
	d.timerMutex.Lock()
	defer d.timerMutex.Unlock()
	if d.closed {
		return
	}
	if d.timerVacuum != nil {
		d.timerVacuum.Stop()
	}
	f := func() {
		d.logger.Debug(
			"running vacuum on sqlite metadata database",
			"component", "database",
		)
		// schedule next run
		defer d.scheduleVacuum()
		if err := d.runVacuum(); err != nil {
			d.logger.Error(
				"failed to free unused space in metadata store",
				"component", "database",
				"error", err,
			)
		}
	}
	d.timerVacuum = time.AfterFunc(d.vacuumInterval, f)
}

// Close shuts down the database connection and stops background processes
func (d *MetadataStoreSqlite) Close() error {
	d.timerMutex.Lock()
	if d.closed {
		d.timerMutex.Unlock()
		return nil
	}
	d.closed = true
	if d.timerVacuum != nil {
		d.timerVacuum.Stop()
		d.timerVacuum = nil
	}
	d.timerMutex.Unlock()

	// Wait for any in-flight vacuum operations to complete
	d.vacuumWG.Wait()

	if d.db == nil {
		return nil
	}
	db, err := d.DB().DB()
	if err != nil {
		return fmt.Errorf("get database handle: %w", err)
	}
	return db.Close()
}

// DB returns the underlying GORM database handle
func (d *MetadataStoreSqlite) DB() *gorm.DB {
	return d.db
}

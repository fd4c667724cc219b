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

package database

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/blinklabs-io/laurel/database/plugin"
	"github.com/blinklabs-io/laurel/database/plugin/blob"
	"github.com/blinklabs-io/laurel/database/plugin/metadata"
	"github.com/prometheus/client_golang/prometheus"

	// Register the built-in storage plugins
	_ "github.com/blinklabs-io/laurel/database/plugin/blob/badger"
	_ "github.com/blinklabs-io/laurel/database/plugin/metadata/mysql"
	_ "github.com/blinklabs-io/laurel/database/plugin/metadata/postgres"
	_ "github.com/blinklabs-io/laurel/database/plugin/metadata/sqlite"
)

const (
	DefaultBlobPlugin     = "badger"
	DefaultMetadataPlugin = "sqlite"
)

// Config selects the storage plugins and where they keep their data. An
// empty DataDir keeps everything in memory
type Config struct {
	PromRegistry   prometheus.Registerer
	Logger         *slog.Logger
	DataDir        string
	BlobPlugin     string
	MetadataPlugin string
}

type Database struct {
	logger   *slog.Logger
	blob     blob.BlobStore
	metadata metadata.MetadataStore
	dataDir  string
}

// Blob returns the underling blob store instance
func (d *Database) Blob() blob.BlobStore {
	return d.blob
}

// DataDir returns the path to the data directory used for storage
func (d *Database) DataDir() string {
	return d.dataDir
}

// Logger returns the logger instance
func (d *Database) Logger() *slog.Logger {
	return d.logger
}

// Metadata returns the underlying metadata store instance
func (d *Database) Metadata() metadata.MetadataStore {
	return d.metadata
}

// Transaction starts a new database transaction and returns a handle to it
func (d *Database) Transaction(readWrite bool) *Txn {
	return NewTxn(d, readWrite)
}

// BlobTxn starts a new blob-only transaction
func (d *Database) BlobTxn(readWrite bool) *Txn {
	return NewBlobOnlyTxn(d, readWrite)
}

// Close cleans up the database connections
func (d *Database) Close() error {
	var err error
	if d.metadata != nil {
		err = errors.Join(err, d.metadata.Close())
	}
	if d.blob != nil {
		err = errors.Join(err, d.blob.Close())
	}
	return err
}

func (d *Database) init() error {
	// Check commit timestamp
	if err := d.checkCommitTimestamp(); err != nil {
		return err
	}
	return nil
}

// New creates a new database instance with optional persistence using the
// data directory from the config
func New(config *Config) (*Database, error) {
	if config == nil {
		config = &Config{}
	}
	logger := config.Logger
	if logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	blobPlugin := config.BlobPlugin
	if blobPlugin == "" {
		blobPlugin = DefaultBlobPlugin
	}
	metadataPlugin := config.MetadataPlugin
	if metadataPlugin == "" {
		metadataPlugin = DefaultMetadataPlugin
	}
	// Storage location is owned by the database config, not by plugins
	plugin.SetRuntime(config.DataDir, logger, config.PromRegistry)
	metadataDb, err := metadata.New(metadataPlugin)
	if err != nil {
		return nil, err
	}
	blobDb, err := blob.New(blobPlugin)
	if err != nil {
		_ = metadataDb.Close()
		return nil, err
	}
	db := &Database{
		logger:   logger,
		blob:     blobDb,
		metadata: metadataDb,
		dataDir:  config.DataDir,
	}
	logger.Debug(
		fmt.Sprintf(
			"opened database with %s blob store and %s metadata store",
			blobPlugin,
			metadataPlugin,
		),
		"component", "database",
		"data_dir", config.DataDir,
	)
	if err := db.init(); err != nil {
		// Database is available for recovery, so return it with error
		return db, err
	}
	return db, nil
}

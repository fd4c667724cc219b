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

package mysql

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
	"github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

// errUnknownDatabase is the server error number for a missing database
const errUnknownDatabase = 1049

// mysqlTxn wraps a gorm transaction and implements types.Txn
type mysqlTxn struct {
	store    *MetadataStoreMysql
	db       *gorm.DB
	beginErr error
	finished bool
}

func (t *mysqlTxn) Commit() error {
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

func (t *mysqlTxn) Rollback() error {
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

// MetadataStoreMysql keeps the mint journal, the contract display
// metadata and the commit timestamp in MySQL
type MetadataStoreMysql struct {
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

// NewWithOptions creates a MySQL metadata store. The connection is opened
// by Start()
func NewWithOptions(opts ...MysqlOptionFunc) (*MetadataStoreMysql, error) {
	db := &MetadataStoreMysql{}
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
	if db.timeZone == "" {
		db.timeZone = DefaultTimeZone
	}
	if db.logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		db.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if db.port > 65535 {
		return nil, fmt.Errorf("invalid mysql port: %d", db.port)
	}
	return db, nil
}

// connString returns the DSN used to connect and the database it selects
func (d *MetadataStoreMysql) connString() (string, string) {
	if dsn := strings.TrimSpace(d.dsn); dsn != "" {
		dbName, _ := parseMysqlDatabaseFromDSN(dsn)
		return dsn, dbName
	}
	cfg := mysql.NewConfig()
	cfg.User = d.user
	cfg.Passwd = d.password
	cfg.Net = "tcp"
	cfg.Addr = d.host + ":" + strconv.FormatUint(uint64(d.port), 10)
	cfg.DBName = d.database
	cfg.ParseTime = true
	cfg.AllowNativePasswords = true
	if d.timeZone != "" {
		loc, err := time.LoadLocation(d.timeZone)
		if err != nil {
			loc = time.UTC
		}
		cfg.Loc = loc
	}
	// Accepts the driver's tls values: true, false, skip-verify, preferred
	cfg.TLSConfig = d.sslMode
	return cfg.FormatDSN(), d.database
}

func (d *MetadataStoreMysql) open(dsn string) (*gorm.DB, error) {
	return gorm.Open(
		gormmysql.Open(dsn),
		&gorm.Config{
			Logger:                 gormlogger.Discard,
			SkipDefaultTransaction: true,
			PrepareStmt:            true,
		},
	)
}

// Start connects, creating the database if the server does not have it
// yet, and applies migrations
func (d *MetadataStoreMysql) Start() error {
	if d.db != nil {
		return nil
	}
	dsn, dbName := d.connString()
	metadataDb, err := d.open(dsn)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if !errors.As(err, &mysqlErr) || mysqlErr.Number != errUnknownDatabase {
			return err
		}
		if createErr := d.ensureDatabaseExists(dsn, dbName); createErr != nil {
			return fmt.Errorf("create database %s: %w", dbName, createErr)
		}
		metadataDb, err = d.open(dsn)
		if err != nil {
			return err
		}
	}
	d.logger.Info(
		"connected to mysql metadata store",
		"component", "database",
		"host", d.host,
		"port", d.port,
		"database", dbName,
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

func (d *MetadataStoreMysql) ensureDatabaseExists(dsn, dbName string) error {
	if dbName == "" {
		return errors.New("no database name in DSN")
	}
	adminDsn, ok := stripDatabaseFromDSN(dsn)
	if !ok {
		return errors.New("cannot derive server DSN")
	}
	adminDb, err := d.open(adminDsn)
	if err != nil {
		return err
	}
	sqlAdminDb, err := adminDb.DB()
	if err != nil {
		return err
	}
	defer sqlAdminDb.Close()
	return adminDb.Exec(
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", dbName),
	).Error
}

// parseMysqlDatabaseFromDSN returns the database name of a DSN of the form
// user:pass@tcp(host:port)/dbname?params
func parseMysqlDatabaseFromDSN(dsn string) (string, bool) {
	base := dsn
	if idx := strings.Index(base, "?"); idx >= 0 {
		base = base[:idx]
	}
	slash := strings.LastIndex(base, "/")
	if slash < 0 || slash == len(base)-1 {
		return "", false
	}
	return base[slash+1:], true
}

// stripDatabaseFromDSN removes the database name, keeping any parameters
func stripDatabaseFromDSN(dsn string) (string, bool) {
	base := dsn
	params := ""
	if idx := strings.Index(dsn, "?"); idx >= 0 {
		base = dsn[:idx]
		params = dsn[idx+1:]
	}
	slash := strings.LastIndex(base, "/")
	if slash < 0 {
		return "", false
	}
	base = base[:slash+1]
	if params == "" {
		return base, true
	}
	return base + "?" + params, true
}

// Stop implements the plugin.Plugin interface
func (d *MetadataStoreMysql) Stop() error {
	return d.Close()
}

// Close closes the connection pool
func (d *MetadataStoreMysql) Close() error {
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
func (d *MetadataStoreMysql) DB() *gorm.DB {
	return d.db
}

// Transaction starts a new metadata transaction, or returns nil if the
// store has not been started. A failed BEGIN is reported by the returned
// txn on first use
func (d *MetadataStoreMysql) Transaction() types.Txn {
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
		return &mysqlTxn{store: d, beginErr: tx.Error}
	}
	return &mysqlTxn{store: d, db: tx}
}

// resolveDB returns the gorm handle to run a query on. A nil txn runs the
// query outside of any transaction
func (d *MetadataStoreMysql) resolveDB(txn types.Txn) (*gorm.DB, error) {
	if txn == nil {
		if d.db == nil {
			return nil, types.ErrNoStoreAvailable
		}
		return d.DB(), nil
	}
	mTxn, ok := txn.(*mysqlTxn)
	if !ok {
		return nil, types.ErrTxnWrongType
	}
	if mTxn.store != d {
		return nil, errors.New("transaction from different store")
	}
	if mTxn.beginErr != nil {
		return nil, mTxn.beginErr
	}
	if mTxn.finished {
		return nil, types.ErrTxnFinished
	}
	return mTxn.db, nil
}

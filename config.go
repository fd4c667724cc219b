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
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/blinklabs-io/laurel/event/amqpsink"
	"github.com/prometheus/client_golang/prometheus"
)

const DefaultShutdownTimeout = 30 * time.Second

type Config struct {
	promRegistry     prometheus.Registerer
	logger           *slog.Logger
	dataDir          string
	blobPlugin       string
	metadataPlugin   string
	apiListenAddress string
	badgeMediaUrl    string
	amqpUrl          string
	amqpExchange     string
	tracing          bool
	tracingStdout    bool
	shutdownTimeout  time.Duration
}

func (n *Node) configValidate() error {
	if n.config.apiListenAddress == "" {
		return errors.New("no API listen address defined")
	}
	if n.config.amqpExchange != "" && n.config.amqpUrl == "" {
		return errors.New("AMQP exchange specified without AMQP URL")
	}
	if n.config.shutdownTimeout < 0 {
		return errors.New("shutdown timeout must not be negative")
	}
	return nil
}

// ConfigOptionFunc is a type that represents functions that modify the node config
type ConfigOptionFunc func(*Config)

// NewConfig creates a new laurel config with the specified options
func NewConfig(opts ...ConfigOptionFunc) Config {
	c := Config{
		// Default logger will throw away logs
		// We do this so we don't have to add guards around every log operation
		logger:           slog.New(slog.NewJSONHandler(io.Discard, nil)),
		apiListenAddress: ":8080",
	}
	// Apply options
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithDatabasePath specifies the persistent data directory to use. The default is to store everything in memory
func WithDatabasePath(dataDir string) ConfigOptionFunc {
	return func(c *Config) {
		c.dataDir = dataDir
	}
}

// WithBlobPlugin specifies the blob storage plugin to use.
func WithBlobPlugin(plugin string) ConfigOptionFunc {
	return func(c *Config) {
		c.blobPlugin = plugin
	}
}

// WithMetadataPlugin specifies the metadata storage plugin to use.
func WithMetadataPlugin(plugin string) ConfigOptionFunc {
	return func(c *Config) {
		c.metadataPlugin = plugin
	}
}

// WithLogger specifies the logger to use. This defaults to discarding log output
func WithLogger(logger *slog.Logger) ConfigOptionFunc {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithApiListenAddress specifies the address of the HTTP API listener. This defaults to ":8080"
func WithApiListenAddress(address string) ConfigOptionFunc {
	return func(c *Config) {
		c.apiListenAddress = address
	}
}

// WithBadgeMediaUrl specifies the media URL recorded in the metadata of every minted badge
func WithBadgeMediaUrl(url string) ConfigOptionFunc {
	return func(c *Config) {
		c.badgeMediaUrl = url
	}
}

// WithAmqpUrl enables publishing contract events to an AMQP broker at the given URL
func WithAmqpUrl(url string) ConfigOptionFunc {
	return func(c *Config) {
		c.amqpUrl = url
	}
}

// WithAmqpExchange specifies the topic exchange for contract events. This defaults to "laurel.events"
func WithAmqpExchange(exchange string) ConfigOptionFunc {
	return func(c *Config) {
		c.amqpExchange = exchange
	}
}

// WithPrometheusRegistry specifies a prometheus.Registerer instance to add metrics to. In most cases, prometheus.DefaultRegistry would be
// a good choice to get metrics working
func WithPrometheusRegistry(registry prometheus.Registerer) ConfigOptionFunc {
	return func(c *Config) {
		c.promRegistry = registry
	}
}

// WithTracing enables tracing. By default, spans are submitted to a HTTP(s) endpoint using OTLP. This can be configured
// using the OTEL_EXPORTER_OTLP_* env vars documented in the README for [go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp]
func WithTracing(tracing bool) ConfigOptionFunc {
	return func(c *Config) {
		c.tracing = tracing
	}
}

// WithTracingStdout enables tracing output to stdout. This also requires tracing to enabled separately. This is mostly useful for debugging
func WithTracingStdout(stdout bool) ConfigOptionFunc {
	return func(c *Config) {
		c.tracingStdout = stdout
	}
}

// WithShutdownTimeout specifies how long graceful shutdown may take. This defaults to 30 seconds
func WithShutdownTimeout(timeout time.Duration) ConfigOptionFunc {
	return func(c *Config) {
		c.shutdownTimeout = timeout
	}
}

func (c *Config) amqpSinkConfig() amqpsink.Config {
	return amqpsink.Config{
		Logger:   c.logger,
		Url:      c.amqpUrl,
		Exchange: c.amqpExchange,
	}
}

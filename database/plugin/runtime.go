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

package plugin

import (
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	runtimeDataDir      string
	runtimeLogger       *slog.Logger
	runtimePromRegistry prometheus.Registerer
	runtimeMutex        sync.RWMutex
)

// SetRuntime sets the data directory, logger and metrics registry passed
// to plugins created after the call. An empty data dir selects in-memory
// storage. The logger and registry may be nil
func SetRuntime(
	dataDir string,
	logger *slog.Logger,
	promRegistry prometheus.Registerer,
) {
	runtimeMutex.Lock()
	defer runtimeMutex.Unlock()
	runtimeDataDir = dataDir
	runtimeLogger = logger
	runtimePromRegistry = promRegistry
}

// DataDir returns the data directory configured with SetRuntime
func DataDir() string {
	runtimeMutex.RLock()
	defer runtimeMutex.RUnlock()
	return runtimeDataDir
}

// Logger returns the logger configured with SetRuntime
func Logger() *slog.Logger {
	runtimeMutex.RLock()
	defer runtimeMutex.RUnlock()
	return runtimeLogger
}

// PromRegistry returns the metrics registry configured with SetRuntime
func PromRegistry() prometheus.Registerer {
	runtimeMutex.RLock()
	defer runtimeMutex.RUnlock()
	return runtimePromRegistry
}

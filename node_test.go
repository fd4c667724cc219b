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
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeRunServesApi(t *testing.T) {
	n, err := New(NewConfig(
		WithApiListenAddress("127.0.0.1:0"),
		WithDatabasePath(t.TempDir()),
		WithPrometheusRegistry(prometheus.NewRegistry()),
		WithShutdownTimeout(5*time.Second),
	))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() {
		errCh <- n.Run(ctx)
	}()
	require.True(t, n.waitReady(10*time.Second), "node did not become ready")
	require.NotNil(t, n.Contract())

	baseUrl := "http://" + n.ApiAddr()
	req, err := http.NewRequest(http.MethodPost, baseUrl+"/api/v1/initialize", nil)
	require.NoError(t, err)
	req.Header.Set("X-Caller-Id", "owner.near")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req, err = http.NewRequest(
		http.MethodPost,
		baseUrl+"/api/v1/events",
		strings.NewReader(`{"name":"conf2024"}`),
	)
	require.NoError(t, err)
	req.Header.Set("X-Caller-Id", "owner.near")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Get(baseUrl + "/api/v1/owner")
	require.NoError(t, err)
	var owner struct {
		Owner string `json:"owner"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&owner))
	_ = resp.Body.Close()
	assert.Equal(t, "owner.near", owner.Owner)
	http.DefaultClient.CloseIdleConnections()

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("node did not stop")
	}
	// Stopping again is a no-op
	require.NoError(t, n.Stop())
}

func TestNodeStopUnblocksRun(t *testing.T) {
	n, err := New(NewConfig(
		WithApiListenAddress("127.0.0.1:0"),
	))
	require.NoError(t, err)
	errCh := make(chan error, 1)
	go func() {
		errCh <- n.Run(context.Background())
	}()
	require.True(t, n.waitReady(10*time.Second), "node did not become ready")
	require.NoError(t, n.Stop())
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("node did not stop")
	}
}

func TestNodeRunFailsOnBadPlugin(t *testing.T) {
	n, err := New(NewConfig(
		WithApiListenAddress("127.0.0.1:0"),
		WithBlobPlugin("missing"),
	))
	require.NoError(t, err)
	err = n.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open database")
}

// Copyright (c) 2025 The VideoCoin developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopDefault(t *testing.T) {
	// meters on the default noop implementation never panic
	Counter("noop_counter").Add(1)
	CounterVec("noop_counter_vec", []string{"op"}).AddWithLabel(1, map[string]string{"op": "x"})
	Gauge("noop_gauge").Set(5)
	Histogram("noop_histogram", BucketHTTPReqs).Observe(10)
}

func TestPrometheusMetrics(t *testing.T) {
	InitializePrometheusMetrics()

	Counter("test_counter").Add(3)
	CounterVec("test_counter_vec", []string{"op"}).AddWithLabel(2, map[string]string{"op": "delegate"})
	Gauge("test_gauge").Set(7)

	server := httptest.NewServer(HTTPHandler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.True(t, strings.Contains(text, "vcc_metrics_test_counter 3"))
	assert.True(t, strings.Contains(text, `vcc_metrics_test_counter_vec{op="delegate"} 2`))
	assert.True(t, strings.Contains(text, "vcc_metrics_test_gauge 7"))
}

func TestLazyLoad(t *testing.T) {
	calls := 0
	loader := LazyLoad(func() int {
		calls++
		return 42
	})
	assert.Equal(t, 42, loader())
	assert.Equal(t, 42, loader())
	assert.Equal(t, 1, calls)
}

// Copyright (c) 2025 The VideoCoin developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"log/slog"
	"net/http"
	"net/http/pprof"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	adminAPI "github.com/videocoin-2/videocoin-contracts/api/admin"
	stakingAPI "github.com/videocoin-2/videocoin-contracts/api/staking"
	"github.com/videocoin-2/videocoin-contracts/contracts/params"
	"github.com/videocoin-2/videocoin-contracts/contracts/staking"
	"github.com/videocoin-2/videocoin-contracts/eventdb"
	"github.com/videocoin-2/videocoin-contracts/metrics"
	"github.com/videocoin-2/videocoin-contracts/vcc"
)

type Options struct {
	AllowedOrigins string
	EventsLimit    uint64
	AdminOn        bool
	PprofOn        bool
	EnableMetrics  bool
}

// New assembles the http handler serving the staking API.
func New(
	stk *staking.Staking,
	p *params.Params,
	events *eventdb.EventDB,
	owner vcc.Address,
	logLevel *slog.LevelVar,
	opts Options,
) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	stakingAPI.New(stk, p, events, opts.EventsLimit).
		Mount(router, "/staking")

	if opts.AdminOn {
		adminAPI.New(stk, p, owner, logLevel).
			Mount(router, "/admin")
	}

	if opts.EnableMetrics {
		router.Path("/metrics").Handler(metrics.HTTPHandler())
	}

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	handler := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete}),
	)(router)

	handler = handlers.CompressHandler(handler)

	if opts.EnableMetrics {
		handler = metricsHandler(handler)
	}

	return handler.ServeHTTP
}

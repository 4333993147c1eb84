// Copyright (c) 2025 The VideoCoin developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/videocoin-2/videocoin-contracts/api/utils"
	"github.com/videocoin-2/videocoin-contracts/log"
)

// LogLevelResponse reports the active logging verbosity.
type LogLevelResponse struct {
	CurrentLevel string `json:"currentLevel"`
}

// LogLevelRequest sets the logging verbosity.
type LogLevelRequest struct {
	Level string `json:"level"`
}

func (a *Admin) handleGetLogLevel(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, LogLevelResponse{
		CurrentLevel: a.logLevel.Level().String(),
	})
}

func (a *Admin) handleSetLogLevel(w http.ResponseWriter, req *http.Request) error {
	var body LogLevelRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	switch body.Level {
	case "trace":
		a.logLevel.Set(log.LevelTrace)
	case "debug":
		a.logLevel.Set(log.LevelDebug)
	case "info":
		a.logLevel.Set(log.LevelInfo)
	case "warn":
		a.logLevel.Set(log.LevelWarn)
	case "error":
		a.logLevel.Set(log.LevelError)
	case "crit":
		a.logLevel.Set(log.LevelCrit)
	default:
		return utils.BadRequest(errors.New("invalid verbosity level"))
	}

	return utils.WriteJSON(w, LogLevelResponse{
		CurrentLevel: a.logLevel.Level().String(),
	})
}

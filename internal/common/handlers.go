package common

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type StatusResponse struct {
	InternalServerLatency string `json:"internal_server_latency"`
	Uptime                string `json:"uptime"`
	Database              string `json:"database"`
}

// Pinger is satisfied by *sql.DB
type Pinger interface {
	Ping() error
}

// Uptime Logic
var startTime time.Time

func uptime() time.Duration {
	return time.Since(startTime)
}

func init() {
	startTime = time.Now()
}

// StatusHandler reports uptime and database reachability
type StatusHandler struct {
	db Pinger
}

func NewStatusHandler(db Pinger) *StatusHandler {
	return &StatusHandler{db: db}
}

// Status measures a database round trip as the internal latency
// GET /api/status
func (h *StatusHandler) Status(c *gin.Context) {
	start := time.Now()
	dbState := "ok"
	if h.db == nil {
		dbState = "unconfigured"
	} else if err := h.db.Ping(); err != nil {
		dbState = "unreachable"
	}

	data := StatusResponse{
		InternalServerLatency: time.Since(start).String(),
		Uptime:                uptime().Truncate(time.Second).String(),
		Database:              dbState,
	}
	if dbState == "unreachable" {
		c.JSON(http.StatusServiceUnavailable, CreateAPIResponse(data, []string{"database unreachable"}, ""))
		return
	}
	c.JSON(http.StatusOK, CreateSuccessResponse(data))
}

// RegisterRoutes registers the global routes
func RegisterRoutes(rg *gin.RouterGroup, h *StatusHandler) {
	rg.GET("/status", h.Status)
}

/*
MealCal is the meal planning calendar: a JSON API for planned meals and the client that keeps a rendered calendar in sync with it.
MealCal Copyright (C) 2025 The MealCal Authors
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

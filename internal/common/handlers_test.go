package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type fakePinger struct {
	err error
}

func (p fakePinger) Ping() error { return p.err }

func TestStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		db         Pinger
		wantStatus int
		wantDB     string
	}{
		{name: "Healthy database", db: fakePinger{}, wantStatus: http.StatusOK, wantDB: "ok"},
		{name: "Unreachable database", db: fakePinger{err: errors.New("closed")}, wantStatus: http.StatusServiceUnavailable, wantDB: "unreachable"},
		{name: "No database", db: nil, wantStatus: http.StatusOK, wantDB: "unconfigured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			RegisterRoutes(router.Group("/api"), NewStatusHandler(tt.db))

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}

			var resp struct {
				Data     StatusResponse `json:"data"`
				Metadata Metadata       `json:"metadata"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Data.Database != tt.wantDB {
				t.Errorf("database = %q, want %q", resp.Data.Database, tt.wantDB)
			}
			if resp.Metadata.RequestID == "" {
				t.Error("expected a generated request id")
			}
			if resp.Metadata.Version != APIVersion {
				t.Errorf("version = %q, want %q", resp.Metadata.Version, APIVersion)
			}
		})
	}
}

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yamdb-backend/internal/config"
	"yamdb-backend/internal/infrastructure/database"
	"yamdb-backend/pkg/cache"
	"yamdb-backend/pkg/container"
)

func TestRouter_HealthUnderAPIPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.App.Version = "test"
	router := SetupRouter(&container.Container{
		Config: cfg,
		// pool chưa connect nên database báo lỗi
		DB:    database.NewPostgresDB(&database.DBConfig{}),
		Cache: cache.NewNoop(),
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body struct {
		Status   string            `json:"status"`
		Version  string            `json:"version"`
		Services map[string]string `json:"services"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "test", body.Version)
	assert.Equal(t, "ok", body.Services["redis"])

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

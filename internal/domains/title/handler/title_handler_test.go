package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yamdb-backend/internal/authz"
	"yamdb-backend/internal/domains/title/model"
)

type stubService struct {
	lastFilter model.ListTitlesRequest
	lastActor  authz.Actor
}

func (s *stubService) CreateTitle(_ context.Context, actor authz.Actor, req model.CreateTitleRequest) (*model.TitleResponse, error) {
	s.lastActor = actor
	return &model.TitleResponse{ID: 7, Name: req.Name, Year: *req.Year}, nil
}

func (s *stubService) ListTitles(_ context.Context, req model.ListTitlesRequest) ([]model.TitleResponse, error) {
	s.lastFilter = req
	return []model.TitleResponse{}, nil
}

func (s *stubService) GetTitle(_ context.Context, id int64) (*model.TitleResponse, error) {
	if id != 7 {
		return nil, model.ErrTitleNotFound
	}
	return &model.TitleResponse{ID: 7}, nil
}

func (s *stubService) UpdateTitle(_ context.Context, _ authz.Actor, id int64, _ model.UpdateTitleRequest) (*model.TitleResponse, error) {
	return &model.TitleResponse{ID: id}, nil
}

func (s *stubService) DeleteTitle(_ context.Context, actor authz.Actor, _ int64) error {
	if !actor.IsAdmin() {
		return authz.ErrAdminOnly
	}
	return nil
}

func setupRouter() (*gin.Engine, *stubService) {
	gin.SetMode(gin.TestMode)
	svc := &stubService{}
	r := gin.New()
	NewTitleHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r, svc
}

func TestTitleHandler_Get(t *testing.T) {
	r, _ := setupRouter()

	for path, status := range map[string]int{
		"/api/v1/titles/7":   http.StatusOK,
		"/api/v1/titles/8":   http.StatusNotFound,
		"/api/v1/titles/abc": http.StatusNotFound,
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, status, w.Code, path)
	}
}

func TestTitleHandler_Create(t *testing.T) {
	r, svc := setupRouter()

	body := `{"name":"Solaris","year":1972,"category":"films","genre":["drama"]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/titles", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Success bool                `json:"success"`
		Data    model.TitleResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Solaris", resp.Data.Name)
	assert.False(t, svc.lastActor.Authenticated)
}

func TestTitleHandler_ListFilters(t *testing.T) {
	r, svc := setupRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/titles?category=films&genre=drama&name=sol&year=1972", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "films", svc.lastFilter.Category)
	assert.Equal(t, "drama", svc.lastFilter.Genre)
	assert.Equal(t, "sol", svc.lastFilter.Name)
	require.NotNil(t, svc.lastFilter.Year)
	assert.Equal(t, 1972, *svc.lastFilter.Year)
}

func TestTitleHandler_DeleteForbidden(t *testing.T) {
	r, _ := setupRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/titles/7", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

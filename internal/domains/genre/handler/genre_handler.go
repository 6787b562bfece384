package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"yamdb-backend/internal/domains/genre"
	"yamdb-backend/internal/shared/middleware"
	"yamdb-backend/internal/shared/response"
)

type GenreHandler struct {
	service genre.GenreService
}

func NewGenreHandler(svc genre.GenreService) *GenreHandler {
	return &GenreHandler{service: svc}
}

// ========== CREATE: POST /genres ==========
func (h *GenreHandler) Create(c *gin.Context) {
	var req genre.CreateGenreReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp)
}

// ========== LIST: GET /genres?search= ==========
func (h *GenreHandler) List(c *gin.Context) {
	var req genre.ListGenresReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}

	items, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// ========== DELETE: DELETE /genres/:slug ==========
func (h *GenreHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.ActorFrom(c), c.Param("slug")); err != nil {
		response.FromError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *GenreHandler) RegisterRoutes(v1 *gin.RouterGroup) {
	genres := v1.Group("/genres")
	{
		genres.GET("", h.List)
		genres.POST("", h.Create)
		genres.DELETE("/:slug", h.Delete)
	}
}

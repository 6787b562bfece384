package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"yamdb-backend/internal/domains/title/model"
	"yamdb-backend/internal/domains/title/service"
	"yamdb-backend/internal/shared/middleware"
	"yamdb-backend/internal/shared/response"
	"yamdb-backend/internal/shared/utils"
)

type TitleHandler struct {
	service service.ServiceInterface
}

func NewTitleHandler(svc service.ServiceInterface) *TitleHandler {
	return &TitleHandler{service: svc}
}

func (h *TitleHandler) titleID(c *gin.Context) (int64, bool) {
	id, ok := utils.ParamID(c, "title_id")
	if !ok {
		response.FromError(c, model.ErrTitleNotFound)
	}
	return id, ok
}

// ========== CREATE: POST /titles ==========
func (h *TitleHandler) Create(c *gin.Context) {
	var req model.CreateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	resp, err := h.service.CreateTitle(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp)
}

// ========== LIST: GET /titles?category=&genre=&name=&year= ==========
func (h *TitleHandler) List(c *gin.Context) {
	var req model.ListTitlesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}

	items, err := h.service.ListTitles(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// ========== GET: GET /titles/:title_id ==========
func (h *TitleHandler) Get(c *gin.Context) {
	id, ok := h.titleID(c)
	if !ok {
		return
	}

	resp, err := h.service.GetTitle(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// ========== UPDATE: PATCH /titles/:title_id ==========
func (h *TitleHandler) Update(c *gin.Context) {
	id, ok := h.titleID(c)
	if !ok {
		return
	}

	var req model.UpdateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	resp, err := h.service.UpdateTitle(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// ========== DELETE: DELETE /titles/:title_id ==========
func (h *TitleHandler) Delete(c *gin.Context) {
	id, ok := h.titleID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteTitle(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.NoContent(c)
}

// RegisterRoutes trả về group /titles/:title_id để gắn reviews.
func (h *TitleHandler) RegisterRoutes(v1 *gin.RouterGroup) *gin.RouterGroup {
	titles := v1.Group("/titles")
	{
		titles.GET("", h.List)
		titles.POST("", h.Create)
		titles.GET("/:title_id", h.Get)
		titles.PATCH("/:title_id", h.Update)
		titles.DELETE("/:title_id", h.Delete)
	}
	return titles.Group("/:title_id")
}

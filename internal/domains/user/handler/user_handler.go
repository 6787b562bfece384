package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"yamdb-backend/internal/domains/user"
	"yamdb-backend/internal/domains/user/service"
	"yamdb-backend/internal/shared/middleware"
	"yamdb-backend/internal/shared/response"
)

// UserHandler xử lý HTTP requests cho auth và users.
type UserHandler struct {
	service service.ServiceInterface
}

func NewUserHandler(service service.ServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// ========================================
// AUTHENTICATION ENDPOINTS
// ========================================

// Signup xử lý POST /auth/signup
func (h *UserHandler) Signup(c *gin.Context) {
	var req user.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// Token xử lý POST /auth/token
func (h *UserHandler) Token(c *gin.Context) {
	var req user.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.service.IssueToken(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// ========================================
// SELF PROFILE
// ========================================

// GetMe xử lý GET /users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	result, err := h.service.GetProfile(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// UpdateMe xử lý PATCH /users/me. Field role bị bỏ qua.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req user.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.service.UpdateProfile(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// ========================================
// ADMIN ENDPOINTS
// ========================================

// List xử lý GET /users?search=
func (h *UserHandler) List(c *gin.Context) {
	var req user.ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.service.ListUsers(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// Create xử lý POST /users
func (h *UserHandler) Create(c *gin.Context) {
	var req user.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.service.CreateUser(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, result)
}

// Get xử lý GET /users/:username
func (h *UserHandler) Get(c *gin.Context) {
	result, err := h.service.GetUser(c.Request.Context(), middleware.ActorFrom(c), c.Param("username"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// Update xử lý PATCH /users/:username
func (h *UserHandler) Update(c *gin.Context) {
	var req user.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.service.UpdateUser(c.Request.Context(), middleware.ActorFrom(c), c.Param("username"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// Delete xử lý DELETE /users/:username
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteUser(c.Request.Context(), middleware.ActorFrom(c), c.Param("username")); err != nil {
		response.FromError(c, err)
		return
	}
	response.NoContent(c)
}

// RegisterRoutes gắn routes của user domain vào /api/v1.
func (h *UserHandler) RegisterRoutes(v1 *gin.RouterGroup) {
	auth := v1.Group("/auth")
	{
		auth.POST("/signup", h.Signup)
		auth.POST("/token", h.Token)
	}

	users := v1.Group("/users")
	{
		users.GET("/me", middleware.RequireAuth(), h.GetMe)
		users.PATCH("/me", middleware.RequireAuth(), h.UpdateMe)

		users.GET("", h.List)
		users.POST("", h.Create)
		users.GET("/:username", h.Get)
		users.PATCH("/:username", h.Update)
		users.DELETE("/:username", h.Delete)
	}
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"yamdb-backend/internal/domains/review/model"
	"yamdb-backend/internal/domains/review/service"
	"yamdb-backend/internal/shared/middleware"
	"yamdb-backend/internal/shared/response"
	"yamdb-backend/internal/shared/utils"
)

// =====================================================
// REVIEW HANDLER
// =====================================================

type ReviewHandler struct {
	reviewService service.ServiceInterface
}

func NewReviewHandler(reviewService service.ServiceInterface) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// =====================================================
// HELPER FUNCTIONS
// =====================================================

// pathIDs parses the requested path params in order. A malformed id cannot
// match any row so it is reported as the corresponding NotFound.
func pathIDs(c *gin.Context, names ...string) ([]int64, bool) {
	notFound := map[string]error{
		"title_id":   model.ErrTitleNotFound,
		"review_id":  model.ErrReviewNotFound,
		"comment_id": model.ErrCommentNotFound,
	}

	ids := make([]int64, len(names))
	for i, name := range names {
		id, ok := utils.ParamID(c, name)
		if !ok {
			response.FromError(c, notFound[name])
			return nil, false
		}
		ids[i] = id
	}
	return ids, true
}

// =====================================================
// REVIEWS
// =====================================================

// CreateReview POST /titles/:title_id/reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	ids, ok := pathIDs(c, "title_id")
	if !ok {
		return
	}

	var req model.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.reviewService.CreateReview(c.Request.Context(), middleware.ActorFrom(c), ids[0], req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, result)
}

// ListReviews GET /titles/:title_id/reviews
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	ids, ok := pathIDs(c, "title_id")
	if !ok {
		return
	}

	result, err := h.reviewService.ListReviews(c.Request.Context(), ids[0])
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// GetReview GET /titles/:title_id/reviews/:review_id
func (h *ReviewHandler) GetReview(c *gin.Context) {
	ids, ok := pathIDs(c, "title_id", "review_id")
	if !ok {
		return
	}

	result, err := h.reviewService.GetReview(c.Request.Context(), ids[0], ids[1])
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// UpdateReview PATCH /titles/:title_id/reviews/:review_id
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	ids, ok := pathIDs(c, "title_id", "review_id")
	if !ok {
		return
	}

	var req model.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.reviewService.UpdateReview(c.Request.Context(), middleware.ActorFrom(c), ids[0], ids[1], req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// DeleteReview DELETE /titles/:title_id/reviews/:review_id
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	ids, ok := pathIDs(c, "title_id", "review_id")
	if !ok {
		return
	}

	if err := h.reviewService.DeleteReview(c.Request.Context(), middleware.ActorFrom(c), ids[0], ids[1]); err != nil {
		response.FromError(c, err)
		return
	}
	response.NoContent(c)
}

// =====================================================
// COMMENTS
// =====================================================

// CreateComment POST /titles/:title_id/reviews/:review_id/comments
func (h *ReviewHandler) CreateComment(c *gin.Context) {
	ids, ok := pathIDs(c, "title_id", "review_id")
	if !ok {
		return
	}

	var req model.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.reviewService.CreateComment(c.Request.Context(), middleware.ActorFrom(c), ids[0], ids[1], req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, result)
}

// ListComments GET /titles/:title_id/reviews/:review_id/comments
func (h *ReviewHandler) ListComments(c *gin.Context) {
	ids, ok := pathIDs(c, "title_id", "review_id")
	if !ok {
		return
	}

	result, err := h.reviewService.ListComments(c.Request.Context(), ids[0], ids[1])
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// GetComment GET .../comments/:comment_id
func (h *ReviewHandler) GetComment(c *gin.Context) {
	ids, ok := pathIDs(c, "title_id", "review_id", "comment_id")
	if !ok {
		return
	}

	result, err := h.reviewService.GetComment(c.Request.Context(), ids[0], ids[1], ids[2])
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// UpdateComment PATCH .../comments/:comment_id
func (h *ReviewHandler) UpdateComment(c *gin.Context) {
	ids, ok := pathIDs(c, "title_id", "review_id", "comment_id")
	if !ok {
		return
	}

	var req model.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.reviewService.UpdateComment(c.Request.Context(), middleware.ActorFrom(c), ids[0], ids[1], ids[2], req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// DeleteComment DELETE .../comments/:comment_id
func (h *ReviewHandler) DeleteComment(c *gin.Context) {
	ids, ok := pathIDs(c, "title_id", "review_id", "comment_id")
	if !ok {
		return
	}

	if err := h.reviewService.DeleteComment(c.Request.Context(), middleware.ActorFrom(c), ids[0], ids[1], ids[2]); err != nil {
		response.FromError(c, err)
		return
	}
	response.NoContent(c)
}

// RegisterRoutes gắn routes lồng dưới /titles/:title_id.
func (h *ReviewHandler) RegisterRoutes(title *gin.RouterGroup) {
	reviews := title.Group("/reviews")
	{
		reviews.GET("", h.ListReviews)
		reviews.POST("", h.CreateReview)
		reviews.GET("/:review_id", h.GetReview)
		reviews.PATCH("/:review_id", h.UpdateReview)
		reviews.DELETE("/:review_id", h.DeleteReview)

		comments := reviews.Group("/:review_id/comments")
		comments.GET("", h.ListComments)
		comments.POST("", h.CreateComment)
		comments.GET("/:comment_id", h.GetComment)
		comments.PATCH("/:comment_id", h.UpdateComment)
		comments.DELETE("/:comment_id", h.DeleteComment)
	}
}

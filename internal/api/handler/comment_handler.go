package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minilinkedin/social-network/internal/api/metrics"
	"github.com/minilinkedin/social-network/internal/core/ports"
)

type CommentHandler struct {
	content ports.ContentService
}

func NewCommentHandler(content ports.ContentService) *CommentHandler {
	return &CommentHandler{content: content}
}

// List returns the comments of a post, oldest first.
//
// @Summary      List comments
// @Tags         comments
// @Produce      json
// @Param        postId  query     string  false "Post ID"
// @Success      200     {array}   domain.CommentView
// @Failure      500     {object}  errorResponse
// @Router       /comments [get]
func (h *CommentHandler) List(c echo.Context) error {
	comments, err := h.content.ListComments(c.Request().Context(), c.QueryParam("postId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comments)
}

// Create adds a comment by the token's user.
//
// @Summary      Create comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        body  body      createCommentRequest  true  "Comment"
// @Success      201   {object}  domain.CommentView
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /comments [post]
func (h *CommentHandler) Create(c echo.Context) error {
	authorID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createCommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	comment, err := h.content.CreateComment(c.Request().Context(), authorID, req.PostID, req.Content)
	if err != nil {
		return staleSession(err)
	}

	metrics.CommentsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, comment)
}

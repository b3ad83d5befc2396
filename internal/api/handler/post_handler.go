package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minilinkedin/social-network/internal/api/metrics"
	"github.com/minilinkedin/social-network/internal/core/ports"
)

type PostHandler struct {
	content ports.ContentService
}

func NewPostHandler(content ports.ContentService) *PostHandler {
	return &PostHandler{content: content}
}

// List returns the feed, newest first.
//
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Success      200  {array}   domain.PostView
// @Failure      500  {object}  errorResponse
// @Router       /posts [get]
func (h *PostHandler) List(c echo.Context) error {
	posts, err := h.content.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

// Get returns a single post with its author.
//
// @Summary      Get post
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  domain.PostView
// @Failure      404  {object}  errorResponse
// @Router       /posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	post, err := h.content.GetPost(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// Create publishes a post authored by the token's user.
//
// @Summary      Create post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        body  body      createPostRequest  true  "Post content"
// @Success      201   {object}  domain.PostView
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	authorID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createPostRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	post, err := h.content.CreatePost(c.Request().Context(), authorID, req.Content)
	if err != nil {
		return staleSession(err)
	}

	metrics.PostsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, post)
}

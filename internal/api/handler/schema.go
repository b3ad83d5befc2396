package handler

import "github.com/minilinkedin/social-network/internal/core/domain"

type registerRequest struct {
	DisplayName string `json:"displayName" validate:"required"`
	Headline    string `json:"headline" validate:"required"`
	Email       string `json:"email" validate:"required"`
	Password    string `json:"password" validate:"required"`
	Bio         string `json:"bio"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// authResponse is returned by register and login.
type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// updateProfileRequest carries a partial profile update; absent fields are
// left untouched.
type updateProfileRequest struct {
	DisplayName *string `json:"displayName"`
	Headline    *string `json:"headline"`
	Bio         *string `json:"bio"`
}

// createPostRequest has no author field: the author is always the token's user.
type createPostRequest struct {
	Content string `json:"content" validate:"required"`
}

type createCommentRequest struct {
	Content string `json:"content" validate:"required"`
	PostID  string `json:"postId" validate:"required"`
}

// errorResponse documents the error envelope for swagger.
type errorResponse struct {
	Message string `json:"message"`
}

package domain

import "time"

// User is a registered member. PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	DisplayName  string    `json:"displayName"`
	Headline     string    `json:"headline"`
	Bio          string    `json:"bio"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicUser is the projection of a User that any caller may see.
type PublicUser struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Headline    string    `json:"headline"`
	Bio         string    `json:"bio"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Public strips the email and password hash.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Headline:    u.Headline,
		Bio:         u.Bio,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// AuthorSummary is the subset of a User joined into post and comment views.
type AuthorSummary struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Headline    string `json:"headline,omitempty"`

	// UpdatedAt versions cached copies; it is not rendered.
	UpdatedAt time.Time `json:"-"`
}

// Summary returns the author fields used by joined views.
func (u *User) Summary() AuthorSummary {
	return AuthorSummary{ID: u.ID, DisplayName: u.DisplayName, Headline: u.Headline, UpdatedAt: u.UpdatedAt}
}

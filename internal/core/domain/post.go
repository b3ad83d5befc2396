package domain

import "time"

// Post is a top-level piece of content. AuthorID is fixed at creation.
type Post struct {
	ID        string
	Content   string
	AuthorID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Comment belongs to one post and one author.
type Comment struct {
	ID        string
	Content   string
	AuthorID  string
	PostID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PostView is a post with its author joined in at read time.
type PostView struct {
	ID        string        `json:"id"`
	Content   string        `json:"content"`
	Author    AuthorSummary `json:"author"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// CommentView is a comment with its author display name joined in.
type CommentView struct {
	ID        string        `json:"id"`
	Content   string        `json:"content"`
	Author    AuthorSummary `json:"author"`
	PostID    string        `json:"post"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// NewPostView joins p with its author. A nil author yields a summary holding
// only the reference id.
func NewPostView(p *Post, author *AuthorSummary) PostView {
	return PostView{
		ID:        p.ID,
		Content:   p.Content,
		Author:    summaryOrRef(p.AuthorID, author),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// NewCommentView joins c with its author's display name.
func NewCommentView(c *Comment, author *AuthorSummary) CommentView {
	s := summaryOrRef(c.AuthorID, author)
	s.Headline = ""
	return CommentView{
		ID:        c.ID,
		Content:   c.Content,
		Author:    s,
		PostID:    c.PostID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func summaryOrRef(id string, author *AuthorSummary) AuthorSummary {
	if author == nil {
		return AuthorSummary{ID: id}
	}
	return *author
}

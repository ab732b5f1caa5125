package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/samueladole/crovio/internal/domain"
	"github.com/samueladole/crovio/internal/service"
)

// PostRequest payload for create and update. Create requires title and
// content; update treats missing fields as unchanged.
type PostRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
}

// ValidateCreate checks a new post.
func (r PostRequest) ValidateCreate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Content, validation.Required),
		validation.Field(&r.Category, validation.Length(0, 100)),
	)
}

// Validate checks an update.
func (r PostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, 255)),
		validation.Field(&r.Content, validation.NilOrNotEmpty),
		validation.Field(&r.Category, validation.Length(0, 100)),
	)
}

// Input maps the request to the service input.
func (r PostRequest) Input() service.PostInput {
	return service.PostInput{Title: r.Title, Content: r.Content, Category: r.Category}
}

// PostListQuery captures list filters.
type PostListQuery struct {
	Pagination
	Category string `query:"category"`
}

// PostResponse response.
type PostResponse struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Category   *string   `json:"category"`
	LikesCount int       `json:"likes_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewPostResponse projects a post.
func NewPostResponse(p *domain.Post) PostResponse {
	return PostResponse{
		ID:         p.ID,
		AuthorID:   p.AuthorID,
		Title:      p.Title,
		Content:    p.Content,
		Category:   p.Category,
		LikesCount: p.LikesCount,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// CommentRequest payload for a new comment.
type CommentRequest struct {
	Content string `json:"content"`
}

// Validate checks the comment body.
func (r CommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.Required, validation.Length(1, 5000)),
	)
}

// CommentResponse response.
type CommentResponse struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCommentResponse projects a comment.
func NewCommentResponse(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		AuthorID:  c.AuthorID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

// DealerResponse response.
type DealerResponse struct {
	UserID       string  `json:"user_id"`
	BusinessName string  `json:"business_name"`
	Description  *string `json:"description"`
	LogoURL      *string `json:"logo_url"`
	Country      *string `json:"country"`
	City         *string `json:"city"`
	IsVerified   bool    `json:"is_verified"`
}

// NewDealerResponse projects a dealer.
func NewDealerResponse(d domain.Dealer) DealerResponse {
	return DealerResponse{
		UserID:       d.UserID,
		BusinessName: d.BusinessName,
		Description:  d.Description,
		LogoURL:      d.LogoURL,
		Country:      d.Country,
		City:         d.City,
		IsVerified:   d.IsVerified,
	}
}

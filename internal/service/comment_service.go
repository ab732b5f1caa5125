package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/samueladole/crovio/internal/auth"
	"github.com/samueladole/crovio/internal/domain"
	"github.com/samueladole/crovio/internal/repository"
	"github.com/samueladole/crovio/pkg/util/errorutil"
)

// CommentService manages replies on community posts.
type CommentService struct {
	posts    *PostService
	comments repository.CommentRepository
}

// NewCommentService constructs the service.
func NewCommentService(posts *PostService, comments repository.CommentRepository) *CommentService {
	return &CommentService{posts: posts, comments: comments}
}

// List returns the comments on a post.
func (s *CommentService) List(ctx context.Context, postID string, limit, offset int) ([]domain.Comment, error) {
	if _, err := s.posts.Get(ctx, postID); err != nil {
		return nil, err
	}
	return s.comments.ListByPost(ctx, postID, limit, offset)
}

// Create adds a comment authored by the caller.
func (s *CommentService) Create(ctx context.Context, author domain.Subject, postID, content string) (*domain.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errorutil.NewValidationError("content is required", map[string]any{"content": "cannot be blank"})
	}
	if _, err := s.posts.Get(ctx, postID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		PostID:   postID,
		AuthorID: author.String(),
		Content:  content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes a comment the caller authored.
func (s *CommentService) Delete(ctx context.Context, caller domain.Subject, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errorutil.NewNotFound("comment", nil)
	}
	comment, err := s.comments.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return errorutil.NewNotFound("comment", map[string]any{"id": id})
	}
	if err != nil {
		return err
	}
	if err := auth.AuthorizeMutation(caller, comment.Ownership()); err != nil {
		return err
	}
	err = s.comments.Delete(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return errorutil.NewNotFound("comment", map[string]any{"id": id})
	}
	return err
}

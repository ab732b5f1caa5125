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

// PostService coordinates community posts.
type PostService struct {
	posts repository.PostRepository
}

// PostInput describes post content. On update nil fields are left unchanged.
type PostInput struct {
	Title    *string
	Content  *string
	Category *string
}

// NewPostService constructs the service.
func NewPostService(posts repository.PostRepository) *PostService {
	return &PostService{posts: posts}
}

// List returns posts newest first.
func (s *PostService) List(ctx context.Context, category *string, limit, offset int) ([]domain.Post, error) {
	return s.posts.List(ctx, category, limit, offset)
}

// Get fetches a post by id.
func (s *PostService) Get(ctx context.Context, id string) (*domain.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errorutil.NewNotFound("post", nil)
	}
	post, err := s.posts.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errorutil.NewNotFound("post", map[string]any{"id": id})
	}
	return post, err
}

// Create publishes a post authored by the caller.
func (s *PostService) Create(ctx context.Context, author domain.Subject, input PostInput) (*domain.Post, error) {
	post := &domain.Post{
		AuthorID: author.String(),
		Category: input.Category,
	}
	if input.Title != nil {
		post.Title = strings.TrimSpace(*input.Title)
	}
	if input.Content != nil {
		post.Content = *input.Content
	}
	if post.Title == "" || strings.TrimSpace(post.Content) == "" {
		return nil, errorutil.NewValidationError("title and content are required", nil)
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Update edits a post the caller authored.
func (s *PostService) Update(ctx context.Context, caller domain.Subject, id string, input PostInput) (*domain.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.AuthorizeMutation(caller, post.Ownership()); err != nil {
		return nil, err
	}

	if input.Title != nil {
		post.Title = strings.TrimSpace(*input.Title)
	}
	if input.Content != nil {
		post.Content = *input.Content
	}
	if input.Category != nil {
		post.Category = input.Category
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes a post the caller authored.
func (s *PostService) Delete(ctx context.Context, caller domain.Subject, id string) error {
	post, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.AuthorizeMutation(caller, post.Ownership()); err != nil {
		return err
	}
	err = s.posts.Delete(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return errorutil.NewNotFound("post", map[string]any{"id": id})
	}
	return err
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/samueladole/crovio/internal/auth"
	"github.com/samueladole/crovio/internal/domain"
)

const postID = "5d4c3b2a-1f0e-4d9c-8b7a-6f5e4d3c2b1a"

func TestPostService_OwnershipGate(t *testing.T) {
	repo := new(MockPostRepository)
	repo.On("GetByID", mock.Anything, postID).Return(&domain.Post{ID: postID, AuthorID: ownerS1.String(), Title: "Rain", Content: "When?"}, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Post")).Return(nil)
	svc := NewPostService(repo)

	title := "Rain forecast"
	post, err := svc.Update(context.Background(), ownerS1, postID, PostInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Rain forecast", post.Title)

	_, err = svc.Update(context.Background(), strangerS, postID, PostInput{Title: &title})
	assert.ErrorIs(t, err, auth.ErrForbidden)

	err = svc.Delete(context.Background(), strangerS, postID)
	assert.ErrorIs(t, err, auth.ErrForbidden)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestPostService_CreateRequiresContent(t *testing.T) {
	repo := new(MockPostRepository)
	svc := NewPostService(repo)

	title := "Empty"
	_, err := svc.Create(context.Background(), ownerS1, PostInput{Title: &title})
	require.Error(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

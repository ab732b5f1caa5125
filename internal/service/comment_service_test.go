package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/samueladole/crovio/internal/auth"
	"github.com/samueladole/crovio/internal/domain"
	"github.com/samueladole/crovio/pkg/util/errorutil"
)

const commentID = "7e6d5c4b-3a2f-4e1d-8c0b-9a8f7e6d5c4b"

func newCommentService() (*CommentService, *MockPostRepository, *MockCommentRepository) {
	posts := new(MockPostRepository)
	comments := new(MockCommentRepository)
	return NewCommentService(NewPostService(posts), comments), posts, comments
}

func TestCommentService_CreateOwnedByCaller(t *testing.T) {
	svc, posts, comments := newCommentService()
	posts.On("GetByID", mock.Anything, postID).Return(&domain.Post{ID: postID, AuthorID: ownerS1.String()}, nil)
	comments.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Comment) bool {
		return c.PostID == postID && c.AuthorID == strangerS.String()
	})).Return(nil)

	comment, err := svc.Create(context.Background(), strangerS, postID, "Plant after the first rains.")
	require.NoError(t, err)
	assert.Equal(t, strangerS, comment.Ownership().Owner)
	comments.AssertExpectations(t)
}

func TestCommentService_CreateOnMissingPost(t *testing.T) {
	svc, posts, comments := newCommentService()
	posts.On("GetByID", mock.Anything, postID).Return(nil, pgx.ErrNoRows)

	_, err := svc.Create(context.Background(), ownerS1, postID, "hello")
	assert.Equal(t, http.StatusNotFound, errorutil.ToDomainError(err).HTTPStatus)

	_, err = svc.Create(context.Background(), ownerS1, postID, "   ")
	assert.Equal(t, http.StatusUnprocessableEntity, errorutil.ToDomainError(err).HTTPStatus)
	comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCommentService_DeleteOwnershipGate(t *testing.T) {
	svc, _, comments := newCommentService()
	comments.On("GetByID", mock.Anything, commentID).
		Return(&domain.Comment{ID: commentID, PostID: postID, AuthorID: ownerS1.String()}, nil)
	comments.On("Delete", mock.Anything, commentID).Return(nil)

	err := svc.Delete(context.Background(), strangerS, commentID)
	assert.ErrorIs(t, err, auth.ErrForbidden)
	comments.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	require.NoError(t, svc.Delete(context.Background(), ownerS1, commentID))
	comments.AssertCalled(t, "Delete", mock.Anything, commentID)
}

func TestCommentService_DeleteMissing(t *testing.T) {
	svc, _, comments := newCommentService()
	comments.On("GetByID", mock.Anything, commentID).Return(nil, pgx.ErrNoRows)

	err := svc.Delete(context.Background(), ownerS1, commentID)
	assert.Equal(t, http.StatusNotFound, errorutil.ToDomainError(err).HTTPStatus)

	err = svc.Delete(context.Background(), ownerS1, "nope")
	assert.Equal(t, http.StatusNotFound, errorutil.ToDomainError(err).HTTPStatus)
}

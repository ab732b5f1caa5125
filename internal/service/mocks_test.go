package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/samueladole/crovio/internal/domain"
	"github.com/samueladole/crovio/internal/repository"
)

// MockUserRepository implements repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	args := m.Called(ctx, phone)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) FindByIdentifier(ctx context.Context, id domain.Identifier) (*domain.Credential, error) {
	args := m.Called(ctx, id)
	cred, _ := args.Get(0).(*domain.Credential)
	return cred, args.Error(1)
}

func (m *MockUserRepository) RoleOf(ctx context.Context, subject domain.Subject) (domain.Role, error) {
	args := m.Called(ctx, subject)
	return domain.Role(args.String(0)), args.Error(1)
}

// MockProductRepository implements repository.ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*domain.Product)
	return product, args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	args := m.Called(ctx, filter)
	products, _ := args.Get(0).([]domain.Product)
	return products, args.Error(1)
}

// MockPostRepository implements repository.PostRepository.
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *domain.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Update(ctx context.Context, post *domain.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	args := m.Called(ctx, id)
	post, _ := args.Get(0).(*domain.Post)
	return post, args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context, category *string, limit, offset int) ([]domain.Post, error) {
	args := m.Called(ctx, category, limit, offset)
	posts, _ := args.Get(0).([]domain.Post)
	return posts, args.Error(1)
}

type countingMetrics struct {
	failures map[string]int
	issued   map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{failures: map[string]int{}, issued: map[string]int{}}
}

func (c *countingMetrics) RecordAuthFailure(kind string)    { c.failures[kind]++ }
func (c *countingMetrics) RecordTokenIssued(purpose string) { c.issued[purpose]++ }

// MockCommentRepository implements repository.CommentRepository.
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	args := m.Called(ctx, id)
	comment, _ := args.Get(0).(*domain.Comment)
	return comment, args.Error(1)
}

func (m *MockCommentRepository) ListByPost(ctx context.Context, postID string, limit, offset int) ([]domain.Comment, error) {
	args := m.Called(ctx, postID, limit, offset)
	comments, _ := args.Get(0).([]domain.Comment)
	return comments, args.Error(1)
}

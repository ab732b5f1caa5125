package domain

import "time"

// Post is a community discussion entry.
type Post struct {
	ID         string
	AuthorID   string
	Title      string
	Content    string
	Category   *string
	LikesCount int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Ownership returns the guard projection of the post.
func (p *Post) Ownership() OwnedResource {
	return OwnedResource{ResourceID: p.ID, Owner: Subject(p.AuthorID)}
}

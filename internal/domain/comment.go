package domain

import "time"

// Comment is a reply to a community post.
type Comment struct {
	ID        string
	PostID    string
	AuthorID  string
	Content   string
	CreatedAt time.Time
}

// Ownership returns the guard projection of the comment.
func (c *Comment) Ownership() OwnedResource {
	return OwnedResource{ResourceID: c.ID, Owner: Subject(c.AuthorID)}
}

package domain

// OwnedResource is the projection of a resource that ownership checks need.
type OwnedResource struct {
	ResourceID string
	Owner      Subject
}

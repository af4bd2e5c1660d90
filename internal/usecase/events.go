package usecase

import "github.com/google/uuid"

const (
	EventJobCreated      = "job_created"
	EventJobUpdated      = "job_updated"
	EventJobDeleted      = "job_deleted"
	EventResourceCreated = "resource_created"
	EventResourceUpdated = "resource_updated"
	EventResourceDeleted = "resource_deleted"
)

// ListingEvents receives a notification after every listing mutation.
type ListingEvents interface {
	Publish(eventType string, id uuid.UUID)
}

type noopEvents struct{}

func (noopEvents) Publish(string, uuid.UUID) {}

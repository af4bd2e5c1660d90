package dto

import (
	"encoding/json"
	"time"

	"worklinkph/internal/domain/job"
	"worklinkph/internal/domain/resource"

	"github.com/google/uuid"
)

type JobResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location"`
	Description string     `json:"description"`
	Type        string     `json:"type"`
	Tags        []string   `json:"tags"`
	PostedBy    *uuid.UUID `json:"posted_by"`
	Source      string     `json:"source"`
	ExternalURL *string    `json:"external_url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func NewJobResponse(j job.Job) JobResponse {
	tags := j.Tags
	if tags == nil {
		tags = []string{}
	}
	return JobResponse{
		ID:          j.ID,
		Title:       j.Title,
		Company:     j.Company,
		Location:    j.Location,
		Description: j.Description,
		Type:        j.Type,
		Tags:        tags,
		PostedBy:    j.PostedBy,
		Source:      j.Source,
		ExternalURL: j.ExternalURL,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

func NewJobResponses(items []job.Job) []JobResponse {
	out := make([]JobResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NewJobResponse(it))
	}
	return out
}

type JobEnvelope struct {
	Job JobResponse `json:"job"`
}

type JobsEnvelope struct {
	Jobs []JobResponse `json:"jobs"`
}

type ResourceResponse struct {
	ID           uuid.UUID       `json:"id"`
	Title        string          `json:"title"`
	Organization string          `json:"organization"`
	Category     string          `json:"category"`
	Description  string          `json:"description"`
	Type         string          `json:"type"`
	Link         *string         `json:"link"`
	ContactInfo  json.RawMessage `json:"contact_info"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func NewResourceResponse(r resource.Resource) ResourceResponse {
	contact := r.ContactInfo
	if len(contact) == 0 {
		contact = json.RawMessage("null")
	}
	return ResourceResponse{
		ID:           r.ID,
		Title:        r.Title,
		Organization: r.Organization,
		Category:     r.Category,
		Description:  r.Description,
		Type:         r.Type,
		Link:         r.Link,
		ContactInfo:  contact,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func NewResourceResponses(items []resource.Resource) []ResourceResponse {
	out := make([]ResourceResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NewResourceResponse(it))
	}
	return out
}

type ResourceEnvelope struct {
	Resource ResourceResponse `json:"resource"`
}

type ResourcesEnvelope struct {
	Resources []ResourceResponse `json:"resources"`
}

package domain

import "context"

// Tag is a deduplicated label shared across events. Tag names are
// case-sensitive-unique; tags are created on first use.
// swagger:model Tag
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TagRepository defines storage for tags and event–tag links.
type TagRepository interface {
	// ListTags returns all known tags ordered by name.
	ListTags(ctx context.Context) ([]*Tag, error)
	// ListTagsByEventID returns the tags linked to the given event.
	ListTagsByEventID(ctx context.Context, eventID string) ([]*Tag, error)
}

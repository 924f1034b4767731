package domain

import "time"

// InterceptRecord is a retained summary of a past classification.
type InterceptRecord struct {
	Category     string    `json:"category"`
	Title        string    `json:"title"`
	ThumbnailRef string    `json:"thumbnail_ref"`
	Timestamp    time.Time `json:"timestamp"`
}

// Package source provides the collaborator-facing inputs of the engine:
// event records for index population and user profiles for recommendation
// queries.
package source

import (
	"context"

	shipathon "github.com/nakshatramandowara/Shipathon"
)

// EventSource supplies the event records the engine populates its index
// from. Implementations can read a JSON file, Supabase, or a fixed slice.
type EventSource interface {
	// ListEvents returns all event records. A missing or unreadable
	// backing source is shipathon.ErrSourceUnavailable.
	ListEvents(ctx context.Context) ([]shipathon.EventRecord, error)
}

// ProfileStore supplies user profiles and owns attendance updates.
type ProfileStore interface {
	// GetProfile retrieves a profile by user name.
	// Returns nil if the profile is not found (not an error).
	GetProfile(ctx context.Context, name string) (*shipathon.UserProfile, error)

	// AddPastEvent appends an attended event title to the user's
	// past_events. Last write wins.
	AddPastEvent(ctx context.Context, name, eventTitle string) error

	// Close releases any resources held by the store.
	Close() error
}

// Static is an EventSource over a fixed slice of records.
type Static []shipathon.EventRecord

// ListEvents implements EventSource.
func (s Static) ListEvents(ctx context.Context) ([]shipathon.EventRecord, error) {
	events := make([]shipathon.EventRecord, len(s))
	copy(events, s)
	return events, nil
}

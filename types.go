// Package shipathon holds the shared domain types for the event
// recommendation engine: event records, user profiles, and the weight
// configuration that shapes profile-to-vector conversion.
package shipathon

import (
	"fmt"
	"strings"
)

// EventRecord is a single event as supplied by the event source.
// Records are immutable once stored; re-ingestion with the same ID has
// upsert semantics (last write wins).
type EventRecord struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Location       string   `json:"location"`
	Summary        string   `json:"summary"`
	TargetAudience string   `json:"target_audience"`
	Tags           []string `json:"tags,omitempty"`
	Date           string   `json:"date,omitempty"`
	Time           string   `json:"time,omitempty"`
	Type           string   `json:"type,omitempty"`
}

// DescriptiveText returns the text that represents this event in vector
// space: title, location, summary and target audience joined by spaces.
// Tags are blended separately at ingestion time, when enabled.
func (e EventRecord) DescriptiveText() string {
	return fmt.Sprintf("%s %s %s %s", e.Title, e.Location, e.Summary, e.TargetAudience)
}

// TagText returns the space-joined tag text, or "" when the event has no tags.
func (e EventRecord) TagText() string {
	return strings.Join(e.Tags, " ")
}

// Validate reports ErrMalformedRecord if a required descriptive field is
// missing. ID, tags, date, time and type are optional.
func (e EventRecord) Validate() error {
	switch {
	case strings.TrimSpace(e.Title) == "":
		return fmt.Errorf("%w: missing title", ErrMalformedRecord)
	case strings.TrimSpace(e.Location) == "":
		return fmt.Errorf("%w: missing location (event %q)", ErrMalformedRecord, e.Title)
	case strings.TrimSpace(e.Summary) == "":
		return fmt.Errorf("%w: missing summary (event %q)", ErrMalformedRecord, e.Title)
	case strings.TrimSpace(e.TargetAudience) == "":
		return fmt.Errorf("%w: missing target audience (event %q)", ErrMalformedRecord, e.Title)
	}
	return nil
}

// UserProfile is a user record as supplied by the profile store.
// Interests are ordered most-preferred first; rank position encodes
// preference strength. PastEvents holds titles of attended events and is
// owned by the profile, not by the events it names.
type UserProfile struct {
	Name       string   `json:"name"`
	Gender     string   `json:"gender"`
	Role       string   `json:"role"`
	Department string   `json:"department"`
	Year       int      `json:"year,omitempty"` // 0 for non-student roles
	Interests  []string `json:"interests"`
	PastEvents []string `json:"past_events"`
}

// YearText renders the year as ordinal text ("3rd year"), or "" when absent.
func (p UserProfile) YearText() string {
	if p.Year <= 0 {
		return ""
	}
	suffix := "th"
	switch {
	case p.Year%100 >= 11 && p.Year%100 <= 13:
	case p.Year%10 == 1:
		suffix = "st"
	case p.Year%10 == 2:
		suffix = "nd"
	case p.Year%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s year", p.Year, suffix)
}

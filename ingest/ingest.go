// Package ingest loads event records into a vector index, filtering
// approximate duplicates by nearest-neighbor similarity.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	shipathon "github.com/nakshatramandowara/Shipathon"
	"github.com/nakshatramandowara/Shipathon/encoder"
	"github.com/nakshatramandowara/Shipathon/vectorindex"
)

// DefaultThreshold is the cosine similarity above which a candidate event
// is considered a duplicate of an existing one. This is a heuristic, not a
// correctness guarantee: near-duplicates can slip under it and distinct but
// textually similar events can trip it.
const DefaultThreshold = 0.835

// Status is the outcome kind of a single event ingestion.
type Status string

const (
	StatusInserted Status = "inserted"
	StatusSkipped  Status = "skipped"
)

// Outcome reports what happened to one candidate event.
type Outcome struct {
	Status Status
	Event  shipathon.EventRecord

	// MatchedTitle and Score identify the existing event a skipped
	// candidate was too similar to.
	MatchedTitle string
	Score        float32
}

// String renders the collaborator-facing ingestion status line.
func (o Outcome) String() string {
	if o.Status == StatusSkipped {
		return fmt.Sprintf("Skipped event: %s (similar to an existing event)", o.Event.Title)
	}
	return fmt.Sprintf("Inserted event: %s", o.Event.Title)
}

// Config holds ingestion configuration.
type Config struct {
	// Collection is the index collection events are loaded into.
	Collection string

	// Threshold is the duplicate-rejection similarity. Defaults to
	// DefaultThreshold when zero.
	Threshold float32

	// TagWeight blends a separately weighted embedding of the event's tag
	// text into the event vector. Zero (the default) disables blending.
	TagWeight float32

	// Logger defaults to a no-op logger.
	Logger zerolog.Logger
}

// Ingestor encodes, deduplicates and upserts event records.
type Ingestor struct {
	enc        encoder.Encoder
	idx        vectorindex.Index
	collection string
	threshold  float32
	tagWeight  float32
	log        zerolog.Logger
}

// New creates an Ingestor over the given encoder and index.
func New(enc encoder.Encoder, idx vectorindex.Index, cfg Config) (*Ingestor, error) {
	if cfg.Collection == "" {
		return nil, fmt.Errorf("%w: collection is required", shipathon.ErrInvalidConfig)
	}
	threshold := cfg.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	return &Ingestor{
		enc:        enc,
		idx:        idx,
		collection: cfg.Collection,
		threshold:  threshold,
		tagWeight:  cfg.TagWeight,
		log:        cfg.Logger,
	}, nil
}

// Add ingests a single event. The event's descriptive text is encoded and
// the collection queried for its nearest neighbor; a neighbor scoring above
// the threshold rejects the insert. Otherwise the event is upserted by ID.
func (ing *Ingestor) Add(ctx context.Context, event shipathon.EventRecord) (Outcome, error) {
	if err := event.Validate(); err != nil {
		return Outcome{}, err
	}

	vec, err := ing.vectorFor(event)
	if err != nil {
		return Outcome{}, err
	}

	neighbors, err := ing.idx.Query(ctx, ing.collection, vec, 1)
	if err != nil {
		return Outcome{}, fmt.Errorf("nearest-neighbor lookup failed: %w", err)
	}

	if len(neighbors) > 0 && neighbors[0].Score > ing.threshold {
		outcome := Outcome{
			Status:       StatusSkipped,
			Event:        event,
			MatchedTitle: neighbors[0].Payload.Title,
			Score:        neighbors[0].Score,
		}
		ing.log.Info().
			Str("title", event.Title).
			Str("matched", outcome.MatchedTitle).
			Float32("score", outcome.Score).
			Msg("skipped duplicate event")
		return outcome, nil
	}

	err = ing.idx.Upsert(ctx, ing.collection, []vectorindex.Point{{
		ID:      event.ID,
		Vector:  vec,
		Payload: event,
	}})
	if err != nil {
		return Outcome{}, fmt.Errorf("upsert failed: %w", err)
	}

	ing.log.Info().Str("title", event.Title).Msg("inserted event")
	return Outcome{Status: StatusInserted, Event: event}, nil
}

// AddAll ingests a batch of events. Malformed records are skipped with a
// logged reason and the batch continues; a dimension mismatch aborts the
// batch entirely, as would any index or encoder failure.
func (ing *Ingestor) AddAll(ctx context.Context, events []shipathon.EventRecord) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(events))
	for _, event := range events {
		outcome, err := ing.Add(ctx, event)
		if err != nil {
			if errors.Is(err, shipathon.ErrMalformedRecord) {
				ing.log.Warn().Str("title", event.Title).Err(err).Msg("skipped malformed event")
				continue
			}
			return outcomes, err
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// vectorFor encodes an event's descriptive text, optionally blending in a
// separately weighted embedding of its tag text.
func (ing *Ingestor) vectorFor(event shipathon.EventRecord) ([]float32, error) {
	vec, err := ing.enc.Encode(event.DescriptiveText())
	if err != nil {
		return nil, fmt.Errorf("encoding event %q: %w", event.Title, err)
	}

	tagText := event.TagText()
	if ing.tagWeight == 0 || tagText == "" {
		return vec, nil
	}

	tagVec, err := ing.enc.Encode(tagText)
	if err != nil {
		return nil, fmt.Errorf("encoding tags of event %q: %w", event.Title, err)
	}
	for i := range vec {
		vec[i] += ing.tagWeight * tagVec[i]
	}
	return vec, nil
}

// Package engine orchestrates the recommendation pipeline: one-time index
// population from an event source, profile-to-vector conversion, and top-K
// nearest-neighbor retrieval.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	shipathon "github.com/nakshatramandowara/Shipathon"
	"github.com/nakshatramandowara/Shipathon/encoder"
	"github.com/nakshatramandowara/Shipathon/ingest"
	"github.com/nakshatramandowara/Shipathon/profile"
	"github.com/nakshatramandowara/Shipathon/snapshot"
	"github.com/nakshatramandowara/Shipathon/source"
	"github.com/nakshatramandowara/Shipathon/vectorindex"
)

// DefaultCollection is the index collection events live in.
const DefaultCollection = "my_events"

// DefaultLimit is the default number of recommendations returned.
const DefaultLimit = 10

type state int

const (
	stateUninitialized state = iota
	stateInitializing
	stateReady
)

// Config holds engine construction configuration.
type Config struct {
	// Collection defaults to DefaultCollection.
	Collection string

	// Threshold is the duplicate-rejection similarity passed through to
	// ingestion. Defaults to ingest.DefaultThreshold.
	Threshold float32

	// TagWeight blends tag-text embeddings into event vectors at ingestion
	// time. Zero disables blending.
	TagWeight float32

	// Snapshots receives the payload list of every recommendation call.
	// Optional; nil disables snapshot persistence.
	Snapshots snapshot.Store

	// Logger defaults to a no-op logger.
	Logger zerolog.Logger
}

// Engine owns the encoder, vector index, profile builder and ingestor, and
// guards one-shot index population behind an explicit state machine
// (uninitialized → initializing → ready). Construct once and share by
// reference.
type Engine struct {
	enc        encoder.Encoder
	idx        vectorindex.Index
	events     source.EventSource
	builder    *profile.Builder
	ingestor   *ingest.Ingestor
	snapshots  snapshot.Store
	collection string
	log        zerolog.Logger

	mu    sync.Mutex
	state state
}

// New creates an Engine over the given encoder, index and event source.
func New(enc encoder.Encoder, idx vectorindex.Index, events source.EventSource, cfg Config) (*Engine, error) {
	collection := cfg.Collection
	if collection == "" {
		collection = DefaultCollection
	}

	ingestor, err := ingest.New(enc, idx, ingest.Config{
		Collection: collection,
		Threshold:  cfg.Threshold,
		TagWeight:  cfg.TagWeight,
		Logger:     cfg.Logger,
	})
	if err != nil {
		return nil, err
	}

	return &Engine{
		enc:        enc,
		idx:        idx,
		events:     events,
		builder:    profile.NewBuilder(enc),
		ingestor:   ingestor,
		snapshots:  cfg.Snapshots,
		collection: collection,
		log:        cfg.Logger,
	}, nil
}

// EnsureReady populates the index exactly once. It ensures the collection
// exists and, if it holds no points, loads all events from the source,
// assigns missing IDs, and ingests them through the deduplicating path.
// Safe for concurrent use: callers racing the first initialization are
// serialized on the engine's gate, and a failed initialization reverts to
// uninitialized so a later call can retry.
func (e *Engine) EnsureReady(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == stateReady {
		return nil
	}
	e.state = stateInitializing

	if err := e.initialize(ctx); err != nil {
		e.state = stateUninitialized
		return err
	}
	e.state = stateReady
	return nil
}

func (e *Engine) initialize(ctx context.Context) error {
	if err := e.idx.EnsureCollection(ctx, e.collection); err != nil {
		return fmt.Errorf("ensuring collection: %w", err)
	}

	count, err := e.idx.Count(ctx, e.collection)
	if err != nil {
		return fmt.Errorf("counting collection: %w", err)
	}
	if count > 0 {
		e.log.Debug().Int("points", count).Msg("collection already populated")
		return nil
	}

	events, err := e.events.ListEvents(ctx)
	if err != nil {
		return fmt.Errorf("loading events: %w", err)
	}
	for i := range events {
		if events[i].ID == "" {
			events[i].ID = uuid.NewString()
		}
	}

	outcomes, err := e.ingestor.AddAll(ctx, events)
	if err != nil {
		return fmt.Errorf("populating index: %w", err)
	}

	inserted := 0
	for _, o := range outcomes {
		if o.Status == ingest.StatusInserted {
			inserted++
		}
	}
	e.log.Info().
		Int("loaded", len(events)).
		Int("inserted", inserted).
		Int("skipped", len(outcomes)-inserted).
		Msg("index populated")
	return nil
}

// Option is a per-call option for Recommend.
type Option func(*queryConfig)

type queryConfig struct {
	weights shipathon.WeightConfig
	limit   int
}

// WithWeights overrides the default field weights for one call. Weights
// change ranking but never stored state.
func WithWeights(w shipathon.WeightConfig) Option {
	return func(c *queryConfig) {
		c.weights = w
	}
}

// WithLimit overrides the default top-K result bound for one call.
func WithLimit(k int) Option {
	return func(c *queryConfig) {
		c.limit = k
	}
}

// Recommend returns up to K event payloads ranked by descending similarity
// to the profile's query vector. The first call triggers index population;
// the result list is also persisted to the snapshot store when one is
// configured (best effort, logged on failure).
func (e *Engine) Recommend(ctx context.Context, p shipathon.UserProfile, opts ...Option) ([]shipathon.EventRecord, error) {
	config := &queryConfig{
		weights: shipathon.DefaultWeights(),
		limit:   DefaultLimit,
	}
	for _, opt := range opts {
		opt(config)
	}

	if err := e.EnsureReady(ctx); err != nil {
		return nil, err
	}

	vector, err := e.builder.Build(p, config.weights)
	if err != nil {
		return nil, fmt.Errorf("building query vector: %w", err)
	}

	results, err := e.idx.Query(ctx, e.collection, vector, config.limit)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}

	payloads := make([]shipathon.EventRecord, 0, len(results))
	for _, r := range results {
		payloads = append(payloads, r.Payload)
	}

	if e.snapshots != nil {
		if err := e.snapshots.Save(ctx, p.Name, payloads); err != nil {
			e.log.Warn().Err(err).Str("user", p.Name).Msg("failed to persist recommendation snapshot")
		}
	}

	return payloads, nil
}

// Ingest submits a single event through the deduplicating path, outside the
// bulk initialization flow. An event without an ID is assigned one.
func (e *Engine) Ingest(ctx context.Context, event shipathon.EventRecord) (ingest.Outcome, error) {
	if err := e.EnsureReady(ctx); err != nil {
		return ingest.Outcome{}, err
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	return e.ingestor.Add(ctx, event)
}

// Reset drops the collection and returns the engine to uninitialized, so
// the next call re-populates the index. Forced-reinitialization testing path.
func (e *Engine) Reset(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.idx.DeleteCollection(ctx, e.collection); err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}
	e.state = stateUninitialized
	return nil
}

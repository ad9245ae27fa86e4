package ingest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shipathon "github.com/nakshatramandowara/Shipathon"
	"github.com/nakshatramandowara/Shipathon/encoder"
	"github.com/nakshatramandowara/Shipathon/vectorindex"
)

// stubEncoder returns fixed vectors keyed by exact text, so tests can place
// candidates at a known cosine distance from existing points.
type stubEncoder struct {
	dim  int
	vecs map[string][]float32
}

func (s *stubEncoder) Encode(text string) ([]float32, error) {
	vec, ok := s.vecs[text]
	if !ok {
		return nil, fmt.Errorf("%w: no stub vector for %q", shipathon.ErrEncoding, text)
	}
	return vec, nil
}

func (s *stubEncoder) Dimensions() int { return s.dim }

func newTestIngestor(t *testing.T, enc encoder.Encoder, cfg Config) (*Ingestor, vectorindex.Index) {
	t.Helper()
	idx, err := vectorindex.New(vectorindex.DriverMemory, enc.Dimensions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	require.NoError(t, idx.EnsureCollection(context.Background(), cfg.Collection))

	ing, err := New(enc, idx, cfg)
	require.NoError(t, err)
	return ing, idx
}

func testEvent(id, title, summary string) shipathon.EventRecord {
	return shipathon.EventRecord{
		ID:             id,
		Title:          title,
		Location:       "Main Hall",
		Summary:        summary,
		TargetAudience: "Students",
	}
}

func TestAddRejectsIdenticalText(t *testing.T) {
	ctx := context.Background()
	enc := encoder.NewHashing(encoder.DefaultDimensions)
	ing, idx := newTestIngestor(t, enc, Config{Collection: "events"})

	first := testEvent("1", "Robotics Workshop", "Build and program robots")
	outcome, err := ing.Add(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, StatusInserted, outcome.Status)

	// identical descriptive text under a different ID
	dup := testEvent("2", "Robotics Workshop", "Build and program robots")
	outcome, err = ing.Add(ctx, dup)
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, outcome.Status)
	assert.Equal(t, "Robotics Workshop", outcome.MatchedTitle)
	assert.InDelta(t, 1.0, outcome.Score, 1e-5)

	count, err := idx.Count(ctx, "events")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAddRetainsDistinctEvents(t *testing.T) {
	ctx := context.Background()
	enc := encoder.NewHashing(encoder.DefaultDimensions)
	ing, idx := newTestIngestor(t, enc, Config{Collection: "events"})

	outcomes, err := ing.AddAll(ctx, []shipathon.EventRecord{
		testEvent("1", "Robotics Workshop", "Build and program autonomous robots"),
		testEvent("2", "Painting Exhibition", "Watercolor and oil paintings by local artists"),
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.Equal(t, StatusInserted, outcomes[0].Status)
	assert.Equal(t, StatusInserted, outcomes[1].Status)

	count, err := idx.Count(ctx, "events")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "both below-threshold events are retained")
}

func TestAddThresholdBoundary(t *testing.T) {
	// Candidates pinned just above and just below the default 0.835
	// threshold relative to a stored unit vector. Both kinds of mistake are
	// expected failure modes of the heuristic; the boundary itself must be
	// exact: strictly greater than the threshold rejects.
	existing := testEvent("1", "Existing", "existing summary")
	justAbove := testEvent("2", "Just Above", "just above summary")
	justBelow := testEvent("3", "Just Below", "just below summary")

	enc := &stubEncoder{dim: 2, vecs: map[string][]float32{
		existing.DescriptiveText():  {1, 0},
		justAbove.DescriptiveText(): {0.84, 0.54259}, // cosine 0.84
		justBelow.DescriptiveText(): {0.83, 0.55776}, // cosine 0.83
	}}

	ctx := context.Background()
	ing, idx := newTestIngestor(t, enc, Config{Collection: "events"})

	outcome, err := ing.Add(ctx, existing)
	require.NoError(t, err)
	require.Equal(t, StatusInserted, outcome.Status)

	outcome, err = ing.Add(ctx, justAbove)
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, outcome.Status, "0.84 > 0.835 is a duplicate")
	assert.Equal(t, "Existing", outcome.MatchedTitle)

	outcome, err = ing.Add(ctx, justBelow)
	require.NoError(t, err)
	assert.Equal(t, StatusInserted, outcome.Status, "0.83 < 0.835 is distinct")

	count, err := idx.Count(ctx, "events")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestAddCustomThreshold(t *testing.T) {
	a := testEvent("1", "A", "alpha")
	b := testEvent("2", "B", "beta")

	enc := &stubEncoder{dim: 2, vecs: map[string][]float32{
		a.DescriptiveText(): {1, 0},
		b.DescriptiveText(): {0.6, 0.8}, // cosine 0.6
	}}

	ctx := context.Background()
	ing, _ := newTestIngestor(t, enc, Config{Collection: "events", Threshold: 0.5})

	_, err := ing.Add(ctx, a)
	require.NoError(t, err)

	outcome, err := ing.Add(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, outcome.Status, "a tighter threshold rejects more")
}

func TestAddMalformedRecord(t *testing.T) {
	ctx := context.Background()
	enc := encoder.NewHashing(encoder.DefaultDimensions)
	ing, idx := newTestIngestor(t, enc, Config{Collection: "events"})

	_, err := ing.Add(ctx, shipathon.EventRecord{ID: "1", Title: "No summary",
		Location: "Main Hall", TargetAudience: "Students"})
	assert.ErrorIs(t, err, shipathon.ErrMalformedRecord)

	count, err := idx.Count(ctx, "events")
	require.NoError(t, err)
	assert.Zero(t, count, "a rejected record must not corrupt index state")
}

func TestAddAllSkipsMalformedAndContinues(t *testing.T) {
	ctx := context.Background()
	enc := encoder.NewHashing(encoder.DefaultDimensions)
	ing, idx := newTestIngestor(t, enc, Config{Collection: "events"})

	outcomes, err := ing.AddAll(ctx, []shipathon.EventRecord{
		testEvent("1", "Robotics Workshop", "Build and program autonomous robots"),
		{ID: "2", Title: "Broken"}, // missing required fields
		testEvent("3", "Painting Exhibition", "Watercolor paintings by local artists"),
	})
	require.NoError(t, err)
	assert.Len(t, outcomes, 2, "the malformed record is skipped, the rest continue")

	count, err := idx.Count(ctx, "events")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestTagBlendingChangesEventVector(t *testing.T) {
	ctx := context.Background()
	enc := encoder.NewHashing(encoder.DefaultDimensions)

	base := testEvent("1", "Robotics Workshop", "Build and program autonomous robots")
	tagged := testEvent("2", "Robotics Workshop", "Build and program autonomous robots")
	tagged.Tags = []string{"electronics", "microcontrollers", "sensors"}

	// Without blending, identical descriptive text is a duplicate.
	ing, _ := newTestIngestor(t, enc, Config{Collection: "plain"})
	_, err := ing.Add(ctx, base)
	require.NoError(t, err)
	outcome, err := ing.Add(ctx, tagged)
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, outcome.Status)

	// With a heavy tag weight, the blended vector diverges enough to pass.
	blending, _ := newTestIngestor(t, enc, Config{Collection: "blended", TagWeight: 1.0})
	_, err = blending.Add(ctx, base)
	require.NoError(t, err)
	outcome, err = blending.Add(ctx, tagged)
	require.NoError(t, err)
	assert.Equal(t, StatusInserted, outcome.Status)
}

func TestOutcomeString(t *testing.T) {
	inserted := Outcome{Status: StatusInserted, Event: shipathon.EventRecord{Title: "Robotics Workshop"}}
	assert.Equal(t, "Inserted event: Robotics Workshop", inserted.String())

	skipped := Outcome{Status: StatusSkipped, Event: shipathon.EventRecord{Title: "Robotics Workshop Session 2"}}
	assert.Equal(t, "Skipped event: Robotics Workshop Session 2 (similar to an existing event)", skipped.String())
}

func TestNewRequiresCollection(t *testing.T) {
	enc := encoder.NewHashing(encoder.DefaultDimensions)
	idx, err := vectorindex.New(vectorindex.DriverMemory, enc.Dimensions())
	require.NoError(t, err)

	_, err = New(enc, idx, Config{})
	assert.ErrorIs(t, err, shipathon.ErrInvalidConfig)
}

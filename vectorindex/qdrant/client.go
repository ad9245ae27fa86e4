// Package qdrant implements vectorindex.Index against a Qdrant server.
package qdrant

import (
	"context"
	"fmt"
	"hash/fnv"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	shipathon "github.com/nakshatramandowara/Shipathon"
	"github.com/nakshatramandowara/Shipathon/vectorindex"
)

// Config holds Qdrant connection configuration.
type Config struct {
	// URL is the Qdrant server address (e.g., "https://example.qdrant.io:6334").
	URL string

	// APIKey is optional API key for authentication.
	APIKey string

	// Dimensions is the vector dimension used when creating collections.
	// Must match the encoder's output dimension.
	Dimensions int
}

// Client implements vectorindex.Index for Qdrant.
type Client struct {
	client     *qdrant.Client
	dimensions int
}

// New creates a new Qdrant-backed index.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: qdrant url is required", shipathon.ErrInvalidConfig)
	}
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive", shipathon.ErrInvalidConfig)
	}

	// Parse the URL to extract host, port, and scheme
	parsedURL := cfg.URL
	if !strings.HasPrefix(parsedURL, "http://") && !strings.HasPrefix(parsedURL, "https://") {
		parsedURL = "https://" + parsedURL
	}

	u, err := url.Parse(parsedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse qdrant url: %w", err)
	}

	host := u.Hostname()
	port := 6334 // default gRPC port
	if u.Port() != "" {
		p, err := strconv.Atoi(u.Port())
		if err != nil {
			return nil, fmt.Errorf("invalid port: %w", err)
		}
		port = p
	}

	useTLS := u.Scheme == "https"

	qdrantClient, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: cfg.APIKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &Client{
		client:     qdrantClient,
		dimensions: cfg.Dimensions,
	}, nil
}

// EnsureCollection implements vectorindex.Index.
func (c *Client) EnsureCollection(ctx context.Context, name string) error {
	exists, err := c.client.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check collection %q: %w", name, err)
	}
	if exists {
		return nil
	}

	err = c.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(c.dimensions),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		// A concurrent caller may have won the create race; "already
		// exists" is success for an idempotent ensure.
		if exists, checkErr := c.client.CollectionExists(ctx, name); checkErr == nil && exists {
			return nil
		}
		return fmt.Errorf("failed to create collection %q: %w", name, err)
	}
	return nil
}

// Upsert implements vectorindex.Index.
func (c *Client) Upsert(ctx context.Context, name string, points []vectorindex.Point) error {
	if len(points) == 0 {
		return nil
	}

	qdrantPoints := make([]*qdrant.PointStruct, 0, len(points))
	for _, p := range points {
		if len(p.Vector) != c.dimensions {
			return fmt.Errorf("%w: got %d, collection %q expects %d",
				shipathon.ErrDimensionMismatch, len(p.Vector), name, c.dimensions)
		}
		qdrantPoints = append(qdrantPoints, &qdrant.PointStruct{
			Id:      pointID(p.ID),
			Vectors: qdrant.NewVectors(p.Vector...),
			Payload: eventPayload(p.Payload),
		})
	}

	_, err := c.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: name,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

// Query implements vectorindex.Index.
func (c *Client) Query(ctx context.Context, name string, vector []float32, k int) ([]vectorindex.Result, error) {
	limit := uint64(k)
	points, err := c.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: name,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant query failed: %w", err)
	}

	results := make([]vectorindex.Result, 0, len(points))
	for _, point := range points {
		results = append(results, vectorindex.Result{
			Score:   point.Score,
			Payload: eventFromPayload(point.Payload),
		})
	}
	return results, nil
}

// Count implements vectorindex.Index.
func (c *Client) Count(ctx context.Context, name string) (int, error) {
	count, err := c.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: name,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("qdrant count failed: %w", err)
	}
	return int(count), nil
}

// DeleteCollection implements vectorindex.Index.
func (c *Client) DeleteCollection(ctx context.Context, name string) error {
	if err := c.client.DeleteCollection(ctx, name); err != nil {
		return fmt.Errorf("failed to delete collection %q: %w", name, err)
	}
	return nil
}

// Close implements vectorindex.Index.
func (c *Client) Close() error {
	return c.client.Close()
}

// pointID converts an event identifier to a Qdrant point ID. Event IDs
// assigned at ingestion are UUIDs; anything else is hashed to a numeric ID.
func pointID(id string) *qdrant.PointId {
	if _, err := uuid.Parse(id); err == nil {
		return qdrant.NewID(id)
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return qdrant.NewIDNum(h.Sum64())
}

// eventPayload converts an EventRecord to a Qdrant payload map.
func eventPayload(e shipathon.EventRecord) map[string]*qdrant.Value {
	tags := make([]any, len(e.Tags))
	for i, t := range e.Tags {
		tags[i] = t
	}
	return qdrant.NewValueMap(map[string]any{
		"id":              e.ID,
		"title":           e.Title,
		"location":        e.Location,
		"summary":         e.Summary,
		"target_audience": e.TargetAudience,
		"tags":            tags,
		"date":            e.Date,
		"time":            e.Time,
		"type":            e.Type,
	})
}

// eventFromPayload reconstructs an EventRecord from a Qdrant payload map.
func eventFromPayload(payload map[string]*qdrant.Value) shipathon.EventRecord {
	var e shipathon.EventRecord
	for k, v := range payload {
		switch k {
		case "id":
			e.ID = v.GetStringValue()
		case "title":
			e.Title = v.GetStringValue()
		case "location":
			e.Location = v.GetStringValue()
		case "summary":
			e.Summary = v.GetStringValue()
		case "target_audience":
			e.TargetAudience = v.GetStringValue()
		case "tags":
			if list := v.GetListValue(); list != nil {
				for _, item := range list.Values {
					if s := item.GetStringValue(); s != "" {
						e.Tags = append(e.Tags, s)
					}
				}
			}
		case "date":
			e.Date = v.GetStringValue()
		case "time":
			e.Time = v.GetStringValue()
		case "type":
			e.Type = v.GetStringValue()
		}
	}
	return e
}

// Compile-time check that Client implements Index.
var _ vectorindex.Index = (*Client)(nil)

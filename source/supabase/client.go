// Package supabase implements the engine's collaborator stores against
// Supabase: an event source backed by an events table and a profile store
// backed by a profiles table.
package supabase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/supabase-community/supabase-go"

	shipathon "github.com/nakshatramandowara/Shipathon"
	"github.com/nakshatramandowara/Shipathon/source"
)

// Config holds Supabase connection configuration.
type Config struct {
	URL      string
	APIKey   string
	CacheTTL time.Duration // Default: 5 minutes
}

// Client implements source.EventSource and source.ProfileStore using Supabase.
type Client struct {
	client   *supabase.Client
	cacheTTL time.Duration

	// profile cache, keyed by user name
	mu       sync.RWMutex
	profiles map[string]*cacheEntry
}

type cacheEntry struct {
	profile   *shipathon.UserProfile
	expiresAt time.Time
}

// New creates a new Supabase client.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: supabase URL is required", shipathon.ErrInvalidConfig)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: supabase API key is required", shipathon.ErrInvalidConfig)
	}

	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 5 * time.Minute
	}

	client, err := supabase.NewClient(cfg.URL, cfg.APIKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	return &Client{
		client:   client,
		cacheTTL: cfg.CacheTTL,
		profiles: make(map[string]*cacheEntry),
	}, nil
}

// ListEvents implements source.EventSource.
func (c *Client) ListEvents(ctx context.Context) ([]shipathon.EventRecord, error) {
	var events []shipathon.EventRecord
	_, err := c.client.From("events").
		Select("*", "", false).
		ExecuteTo(&events)

	if err != nil {
		return nil, fmt.Errorf("%w: listing events: %v", shipathon.ErrSourceUnavailable, err)
	}
	return events, nil
}

// GetProfile implements source.ProfileStore.
func (c *Client) GetProfile(ctx context.Context, name string) (*shipathon.UserProfile, error) {
	if cached := c.getCached(name); cached != nil {
		return cached, nil
	}

	var profiles []shipathon.UserProfile
	_, err := c.client.From("profiles").
		Select("*", "", false).
		Eq("name", name).
		ExecuteTo(&profiles)

	if err != nil {
		return nil, fmt.Errorf("failed to get profile %q: %w", name, err)
	}

	if len(profiles) == 0 {
		return nil, nil
	}

	profile := &profiles[0]
	c.addToCache(name, profile)

	return profile, nil
}

// AddPastEvent implements source.ProfileStore. The updated past_events list
// replaces the stored one (last write wins).
func (c *Client) AddPastEvent(ctx context.Context, name, eventTitle string) error {
	profile, err := c.GetProfile(ctx, name)
	if err != nil {
		return err
	}
	if profile == nil {
		return fmt.Errorf("profile %q not found", name)
	}

	for _, title := range profile.PastEvents {
		if title == eventTitle {
			return nil // already recorded
		}
	}
	updated := append(append([]string{}, profile.PastEvents...), eventTitle)

	_, _, err = c.client.From("profiles").
		Update(map[string]any{"past_events": updated}, "", "").
		Eq("name", name).
		Execute()

	if err != nil {
		return fmt.Errorf("failed to update past events for %q: %w", name, err)
	}

	profile.PastEvents = updated
	c.addToCache(name, profile)

	return nil
}

// Close implements source.ProfileStore.
func (c *Client) Close() error {
	// Supabase client doesn't require explicit close
	return nil
}

// getCached retrieves a profile from cache by name.
func (c *Client) getCached(name string) *shipathon.UserProfile {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if e, ok := c.profiles[name]; ok {
		if time.Now().Before(e.expiresAt) {
			return e.profile
		}
	}
	return nil
}

// addToCache adds a profile to cache.
func (c *Client) addToCache(name string, profile *shipathon.UserProfile) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.profiles[name] = &cacheEntry{
		profile:   profile,
		expiresAt: time.Now().Add(c.cacheTTL),
	}
}

// Compile-time checks that Client implements both store interfaces.
var (
	_ source.EventSource  = (*Client)(nil)
	_ source.ProfileStore = (*Client)(nil)
)

package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	shipathon "github.com/nakshatramandowara/Shipathon"
)

// fileStore implements Store by writing one JSON file per user into a
// directory, for offline inspection of the latest result.
type fileStore struct {
	dir string
}

// Save implements Store.
func (s *fileStore) Save(ctx context.Context, user string, events []shipathon.EventRecord) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating snapshot dir: %w", err)
	}

	data, err := json.MarshalIndent(events, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(user), data, 0o644)
}

// Latest implements Store.
func (s *fileStore) Latest(ctx context.Context, user string) ([]shipathon.EventRecord, error) {
	data, err := os.ReadFile(s.path(user))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var events []shipathon.EventRecord
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Close implements Store.
func (s *fileStore) Close() error {
	return nil
}

// path maps a user name to its snapshot file, replacing path separators so
// a name can never escape the snapshot directory.
func (s *fileStore) path(user string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(user)
	return filepath.Join(s.dir, safe+".json")
}

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	shipathon "github.com/nakshatramandowara/Shipathon"
)

// JSONFile is an EventSource that reads a JSON array of event records from
// a file on every call.
type JSONFile struct {
	path string
}

// NewJSONFile creates an event source over the given file path.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// ListEvents implements EventSource.
func (s *JSONFile) ListEvents(ctx context.Context) ([]shipathon.EventRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", shipathon.ErrSourceUnavailable, s.path, err)
	}

	var events []shipathon.EventRecord
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", shipathon.ErrSourceUnavailable, s.path, err)
	}
	return events, nil
}

// Compile-time check that JSONFile implements EventSource.
var _ EventSource = (*JSONFile)(nil)

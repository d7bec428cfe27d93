package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dawnkit/wake-pipeline/internal/domain/wake"
)

// Repository defines persistence operations for wake events.
type Repository interface {
	List(ctx context.Context) ([]wake.Event, error)
	Append(ctx context.Context, event wake.Event) error
}

// filePermissions restricts the history file to the owning user.
const filePermissions = 0o600

// FileRepository persists wake events to a JSON file on disk.
type FileRepository struct {
	// path is the filesystem location of the JSON history file.
	path string
	// mu protects concurrent access to the history file.
	mu sync.Mutex
}

// NewFileRepository creates a repository that reads/writes JSON at the
// provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// List reads all recorded events. A missing file is an empty history.
func (r *FileRepository) List(_ context.Context) ([]wake.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.listLocked()
}

// Append adds one event and rewrites the file.
func (r *FileRepository) Append(_ context.Context, event wake.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	events, err := r.listLocked()
	if err != nil {
		return err
	}

	events = append(events, event)

	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	if err = os.WriteFile(r.path, data, filePermissions); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}

	return nil
}

// listLocked reads the file. Callers hold mu.
func (r *FileRepository) listLocked() ([]wake.Event, error) {
	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("read history file: %w", err)
	}

	var events []wake.Event
	if err = json.Unmarshal(contents, &events); err != nil {
		return nil, fmt.Errorf("decode history file: %w", err)
	}

	return events, nil
}

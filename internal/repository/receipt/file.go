package receipt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/auto-browser/forge/internal/config"
)

// Receipt records the outcome of one successful build.
type Receipt struct {
	// Version is the application version that was built.
	Version string `json:"version"`
	// CompletedAt is when the pipeline finished.
	CompletedAt time.Time `json:"completed_at"`
	// Stages lists the completed stages in execution order.
	Stages []StageRecord `json:"stages"`
	// Artifacts maps artifact paths to base64-encoded checksums.
	Artifacts map[string]string `json:"artifacts"`
}

// StageRecord is one completed stage.
type StageRecord struct {
	// Name is the stage name.
	Name string `json:"name"`
	// Duration is the stage runtime in a human-readable form.
	Duration string `json:"duration"`
	// FinishedAt is when the stage completed.
	FinishedAt time.Time `json:"finished_at"`
}

// Repository defines persistence operations for the build receipt.
type Repository interface {
	Load(ctx context.Context) (*Receipt, error)
	Save(ctx context.Context, r *Receipt) error
}

// FileRepository persists the receipt to a JSON file on disk.
type FileRepository struct {
	// path is the filesystem location of the JSON receipt file.
	path string
	// mu protects concurrent access to the receipt file.
	mu sync.Mutex
}

// Filename is the receipt file name inside the distribution directory.
const Filename = "build-receipt.json"

// ErrNotFound is returned when the receipt file does not exist yet.
var ErrNotFound = errors.New("build receipt not found")

// NewFileRepository creates a repository that reads/writes JSON at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads the receipt from disk.
func (r *FileRepository) Load(_ context.Context) (*Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read receipt file: %w", err)
	}

	var receipt Receipt
	if err = json.Unmarshal(contents, &receipt); err != nil {
		return nil, fmt.Errorf("decode receipt file: %w", err)
	}

	return &receipt, nil
}

// Save writes the receipt to disk using an indented JSON representation.
func (r *FileRepository) Save(_ context.Context, receipt *Receipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(receipt, "", "  ")
	if err != nil {
		return fmt.Errorf("encode receipt: %w", err)
	}

	if err = os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create receipt directory: %w", err)
	}

	if err = os.WriteFile(r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write receipt file: %w", err)
	}

	return nil
}

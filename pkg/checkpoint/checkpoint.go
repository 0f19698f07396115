package checkpoint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"twsearch/pkg/logger"
)

// currentVersion is bumped whenever the checkpoint layout changes
const currentVersion = 1

// Checkpoint records how far a search run got
type Checkpoint struct {
	RunID      string    `json:"run_id"`
	Key        string    `json:"key"`
	Query      string    `json:"query"`
	OutputFile string    `json:"output_file,omitempty"`
	NextToken  string    `json:"next_token"`
	Total      int       `json:"total"`
	Pages      int       `json:"pages"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Version    int       `json:"version"`
}

// Cursor returns the stored continuation token, nil when none was stored
func (c *Checkpoint) Cursor() *string {
	if c == nil || c.NextToken == "" {
		return nil
	}
	token := c.NextToken
	return &token
}

// Manager handles checkpoint operations for one search fingerprint
type Manager struct {
	checkpointPath string
	key            string
	logger         logger.Logger
}

// Fingerprint identifies a search by its request parameters and output
// file. The cursor and the counts granularity do not take part.
func Fingerprint(params url.Values, outputFile string) string {
	filtered := url.Values{}
	for key, vals := range params {
		if key == "next_token" || key == "granularity" {
			continue
		}
		filtered[key] = vals
	}

	sum := sha256.Sum256([]byte(filtered.Encode() + "\x00" + outputFile))
	return hex.EncodeToString(sum[:8])
}

// NewManager creates a checkpoint manager storing under dir, or under the
// per-user data directory when dir is empty.
func NewManager(dir, key string, log logger.Logger) (*Manager, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	if dir == "" {
		dataDir, err := getDataDirectory()
		if err != nil {
			return nil, fmt.Errorf("failed to get data directory: %w", err)
		}
		dir = filepath.Join(dataDir, "checkpoints")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create checkpoints directory: %w", err)
	}

	return &Manager{
		checkpointPath: filepath.Join(dir, fmt.Sprintf("%s.checkpoint.json", key)),
		key:            key,
		logger:         log,
	}, nil
}

// Path returns the checkpoint file location
func (m *Manager) Path() string {
	return m.checkpointPath
}

// New returns a fresh checkpoint for this manager's key. It is not saved.
func (m *Manager) New(runID, query, outputFile string) *Checkpoint {
	now := time.Now()
	return &Checkpoint{
		RunID:      runID,
		Key:        m.key,
		Query:      query,
		OutputFile: outputFile,
		CreatedAt:  now,
		UpdatedAt:  now,
		Version:    currentVersion,
	}
}

// Load reads the checkpoint. It returns nil, nil when none exists.
func (m *Manager) Load() (*Checkpoint, error) {
	data, err := os.ReadFile(m.checkpointPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read checkpoint file: %w", err)
	}

	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint: %w", err)
	}
	if cp.Version != currentVersion {
		return nil, fmt.Errorf("unsupported checkpoint version %d", cp.Version)
	}

	m.logger.InfoWithFields("Checkpoint loaded", map[string]interface{}{
		"run_id":     cp.RunID,
		"total":      cp.Total,
		"pages":      cp.Pages,
		"updated_at": cp.UpdatedAt,
	})

	return &cp, nil
}

// Save writes the checkpoint atomically
func (m *Manager) Save(cp *Checkpoint) error {
	cp.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}

	tempPath := m.checkpointPath + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary checkpoint file: %w", err)
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync checkpoint file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close checkpoint file: %w", err)
	}

	if err := os.Rename(tempPath, m.checkpointPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace checkpoint file: %w", err)
	}

	m.logger.DebugWithFields("Checkpoint saved", map[string]interface{}{
		"run_id": cp.RunID,
		"total":  cp.Total,
		"pages":  cp.Pages,
	})

	return nil
}

// Update records the progress after a page and saves
func (m *Manager) Update(cp *Checkpoint, nextToken *string, total, pages int) error {
	cp.NextToken = ""
	if nextToken != nil {
		cp.NextToken = *nextToken
	}
	cp.Total = total
	cp.Pages = pages
	return m.Save(cp)
}

// Delete removes the checkpoint file
func (m *Manager) Delete() error {
	if err := os.Remove(m.checkpointPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}

	m.logger.Debug("Checkpoint deleted")
	return nil
}

// Exists checks if a checkpoint file exists
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.checkpointPath)
	return err == nil
}

// getDataDirectory returns the appropriate data directory for the current OS
func getDataDirectory() (string, error) {
	var dataDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, "Library", "Application Support", "twsearch")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		dataDir = filepath.Join(appData, "twsearch")
	default:
		if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
			dataDir = filepath.Join(xdgDataHome, "twsearch")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			dataDir = filepath.Join(home, ".local", "share", "twsearch")
		}
	}

	return dataDir, nil
}

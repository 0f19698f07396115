package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	errs "twsearch/pkg/errors"
	"twsearch/pkg/twitter"
)

// WriteMode selects how a page reaches its files
type WriteMode int

const (
	// ModeReplace atomically replaces each target file with the page content
	ModeReplace WriteMode = iota
	// ModeAppend appends the page content, creating files as needed
	ModeAppend
)

func (m WriteMode) String() string {
	switch m {
	case ModeReplace:
		return "replace"
	case ModeAppend:
		return "append"
	default:
		return fmt.Sprintf("WriteMode(%d)", int(m))
	}
}

// Manager writes pages as newline-delimited JSON, one file per section:
// <stem>.json for data and <stem>_<category>.json for each include category.
type Manager struct {
	stem    string
	dir     string
	written map[string]int
	mu      sync.Mutex
}

// NewManager creates a writer for outputFile. Nothing touches the disk
// until the first WritePage.
func NewManager(outputFile string) *Manager {
	stem := strings.TrimSuffix(outputFile, filepath.Ext(outputFile))
	// dot files such as ".json" have no stem of their own
	if stem == "" || strings.HasSuffix(stem, string(filepath.Separator)) {
		stem = outputFile
	}

	return &Manager{
		stem:    stem,
		dir:     filepath.Dir(outputFile),
		written: make(map[string]int),
	}
}

// DataFile returns the path receiving the data section
func (m *Manager) DataFile() string {
	return m.stem + ".json"
}

// CategoryFile returns the path receiving an include category
func (m *Manager) CategoryFile(category string) string {
	return fmt.Sprintf("%s_%s.json", m.stem, category)
}

// WritePage writes the data section and every include category of page.
// The data file is always written, even for a page without records.
// Any failure is returned as a filesystem error.
func (m *Manager) WritePage(page *twitter.PageResponse, mode WriteMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return errs.New(errs.ErrorTypeFilesystem, fmt.Sprintf("failed to create output directory %s", m.dir), err)
	}

	var data []json.RawMessage
	if page != nil {
		data = page.Data
	}
	if err := m.writeFile(m.DataFile(), data, mode); err != nil {
		return err
	}

	for _, category := range page.IncludeCategories() {
		if err := m.writeFile(m.CategoryFile(category), page.Includes[category], mode); err != nil {
			return err
		}
	}

	return nil
}

func (m *Manager) writeFile(path string, records []json.RawMessage, mode WriteMode) error {
	content := encodeLines(records)

	var err error
	switch mode {
	case ModeReplace:
		err = replaceFile(path, content)
	case ModeAppend:
		err = appendFile(path, content)
	default:
		err = fmt.Errorf("unknown write mode %v", mode)
	}
	if err != nil {
		return errs.New(errs.ErrorTypeFilesystem, fmt.Sprintf("failed to write %s", path), err)
	}

	m.written[path] += len(records)
	return nil
}

// encodeLines renders one compact JSON document per line
func encodeLines(records []json.RawMessage) []byte {
	var buf bytes.Buffer
	for _, record := range records {
		if err := json.Compact(&buf, record); err != nil {
			buf.Write(bytes.TrimSpace(record))
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// replaceFile writes content to a temporary file and renames it over path
func replaceFile(path string, content []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	_, err = tmp.Write(content)
	if err == nil {
		err = tmp.Sync()
	}
	closeErr := tmp.Close()

	if err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if closeErr != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set file mode: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

func appendFile(path string, content []byte) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	_, err = f.Write(content)
	closeErr := f.Close()
	if err != nil {
		return err
	}
	return closeErr
}

// Files returns every path written so far, sorted
func (m *Manager) Files() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	files := make([]string, 0, len(m.written))
	for path := range m.written {
		files = append(files, path)
	}
	sort.Strings(files)
	return files
}

// RecordsWritten returns the number of records written across all files
func (m *Manager) RecordsWritten() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0
	for _, n := range m.written {
		total += n
	}
	return total
}

package corpus

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/zeebo/blake3"
)

// Manifest records the BLAKE3 digest of every artifact written during a
// download run, keyed by file name relative to the edition directory.
type Manifest struct {
	Edition   string            `json:"edition"`
	RunID     string            `json:"run_id"`
	CreatedAt time.Time         `json:"created_at"`
	Artifacts map[string]string `json:"artifacts"`
}

// NewManifest returns an empty manifest for the given edition and run.
func NewManifest(edition, runID string) *Manifest {
	return &Manifest{
		Edition:   edition,
		RunID:     runID,
		CreatedAt: time.Now().UTC(),
		Artifacts: make(map[string]string),
	}
}

// Record stores the digest for the named artifact.
func (m *Manifest) Record(name, digest string) {
	m.Artifacts[name] = digest
}

// Names returns the recorded artifact names in sorted order.
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.Artifacts))
	for name := range m.Artifacts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteJSON marshals v with two-space indentation and writes it to path,
// returning the BLAKE3 digest of the written bytes.
func WriteJSON(path string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// WriteManifest persists the manifest next to the edition artifacts.
func WriteManifest(path string, m *Manifest) error {
	if _, err := WriteJSON(path, m); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// ReadManifest loads a previously written manifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return &m, nil
}

// VerifyArtifact recomputes the digest of the named file under dir and
// compares it against the manifest entry. A missing entry is not an error;
// it returns ok=true with an empty digest.
func (m *Manifest) VerifyArtifact(dir, name string) (ok bool, err error) {
	want, recorded := m.Artifacts[name]
	if !recorded {
		return true, nil
	}
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return false, fmt.Errorf("read artifact %s: %w", name, err)
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]) == want, nil
}

// ReadDocument loads and parses a combined corpus artifact. Both a missing
// file and malformed JSON are fatal to the caller's operation.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse corpus %s: %w", path, err)
	}
	return &doc, nil
}

// ReadChapterNames loads the flat chapter-name map produced by the chapters
// command. Keys arrive as stringified chapter identifiers.
func ReadChapterNames(path string) (map[int]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read chapter names %s: %w", path, err)
	}
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse chapter names %s: %w", path, err)
	}
	names := make(map[int]string, len(raw))
	for key, name := range raw {
		id, err := strconv.Atoi(key)
		if err != nil || id < 1 {
			return nil, fmt.Errorf("chapter names %s: invalid chapter id %q", path, key)
		}
		names[id] = name
	}
	return names, nil
}

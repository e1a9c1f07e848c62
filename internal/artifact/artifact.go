// Package artifact persists the fitted preprocessor state so collaborators
// can score new data later without refitting. The state is serialized as
// JSON with an xxhash fingerprint; loading verifies the fingerprint before
// handing the state back.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/machinelab/tabprep/internal/transform"
)

// Version is the artifact schema version.
const Version = 1

// Preprocessor is the reusable transform state written to disk.
type Preprocessor struct {
	Router        transform.RouterState `json:"router"`
	TargetClasses []string              `json:"target_classes"`
}

// Envelope wraps a Preprocessor with integrity metadata.
type Envelope struct {
	Version      int          `json:"version"`
	CreatedAt    time.Time    `json:"created_at"`
	Fingerprint  string       `json:"fingerprint"`
	Preprocessor Preprocessor `json:"preprocessor"`
}

// fingerprint hashes the canonical JSON encoding of the preprocessor state.
// Go marshals maps with sorted keys, so the encoding is deterministic.
func fingerprint(p Preprocessor) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encoding preprocessor state: %w", err)
	}
	return strconv.FormatUint(xxhash.Sum64(data), 16), nil
}

// Save writes the preprocessor state to path, creating parent directories
// as needed.
func Save(path string, p Preprocessor) error {
	fp, err := fingerprint(p)
	if err != nil {
		return err
	}

	envelope := Envelope{
		Version:      Version,
		CreatedAt:    time.Now().UTC(),
		Fingerprint:  fp,
		Preprocessor: p,
	}

	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding artifact: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating artifact directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing artifact %s: %w", path, err)
	}
	return nil
}

// Load reads a preprocessor artifact from path and verifies its fingerprint.
func Load(path string) (Preprocessor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Preprocessor{}, fmt.Errorf("reading artifact %s: %w", path, err)
	}

	var envelope Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return Preprocessor{}, fmt.Errorf("decoding artifact %s: %w", path, err)
	}
	if envelope.Version != Version {
		return Preprocessor{}, fmt.Errorf("artifact %s has unsupported version %d", path, envelope.Version)
	}

	fp, err := fingerprint(envelope.Preprocessor)
	if err != nil {
		return Preprocessor{}, err
	}
	if fp != envelope.Fingerprint {
		return Preprocessor{}, fmt.Errorf("artifact %s fingerprint mismatch: file may be corrupted", path)
	}

	return envelope.Preprocessor, nil
}

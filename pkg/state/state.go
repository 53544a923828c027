package state

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// LockFileName is the default name of the pass lock file
const LockFileName = ".patchrc.lock"

// State is the top-level tracking structure for applied passes
type State struct {
	LastUpdated time.Time `json:"last_updated"`

	// ConfigHash is used to detect if the state matches the current config
	ConfigHash string `json:"config_hash"`

	// Passes tracks each rename pass that has been applied
	Passes []PassState `json:"passes"`
}

// PassState tracks the outcome of one applied pass
type PassState struct {
	Name       string      `json:"name"`
	AppliedAt  time.Time   `json:"applied_at"`
	LineDelta  int         `json:"line_delta"`
	TotalCount int         `json:"total_replacements"`
	Files      []FileState `json:"files"`
}

// FileState tracks one rewritten file
type FileState struct {
	Path        string         `json:"path"`
	ContentHash string         `json:"content_hash"`
	RuleCounts  map[string]int `json:"rule_counts"`
}

// Load loads state from a lock file. A missing file yields an empty state,
// not an error: the first run of a pass has nothing to compare against.
func Load(ctx context.Context, path string) (*State, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading state")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{}, nil
		}
		return nil, errors.Errorf("reading lock file: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Errorf("parsing lock file: %w", err)
	}
	return &s, nil
}

// Write writes state to a lock file
func Write(ctx context.Context, path string, s *State) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("writing state")

	s.LastUpdated = time.Now().UTC()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.Errorf("encoding lock file: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return errors.Errorf("writing lock file: %w", err)
	}
	return nil
}

// PutPass adds or replaces the record for a pass by name
func (s *State) PutPass(p PassState) {
	for i, existing := range s.Passes {
		if existing.Name == p.Name {
			s.Passes[i] = p
			return
		}
	}
	s.Passes = append(s.Passes, p)
}

// FindPass returns the record for a pass, or nil if it was never applied
func (s *State) FindPass(name string) *PassState {
	for i := range s.Passes {
		if s.Passes[i].Name == name {
			return &s.Passes[i]
		}
	}
	return nil
}

// IsConsistent checks whether every file recorded in the state still has
// the content it had when its pass was applied
func (s *State) IsConsistent(ctx context.Context) (bool, error) {
	logger := zerolog.Ctx(ctx)

	for _, pass := range s.Passes {
		for _, file := range pass.Files {
			data, err := os.ReadFile(file.Path)
			if err != nil {
				if os.IsNotExist(err) {
					logger.Debug().Str("path", file.Path).Msg("recorded file is gone")
					return false, nil
				}
				return false, errors.Errorf("reading %s: %w", file.Path, err)
			}
			if HashContent(data) != file.ContentHash {
				logger.Debug().Str("path", file.Path).Msg("recorded file has changed")
				return false, nil
			}
		}
	}
	return true, nil
}

// HashContent returns the hex sha256 of content
func HashContent(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Package handoff passes captured text to the next interactive start,
// exactly once.
package handoff

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"tablesense/internal/util/logx"
)

// Entry is one captured selection.
type Entry struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	AutoParse bool      `json:"auto_parse"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store keeps at most one pending entry per profile.
type Store struct {
	Dir string
}

// NewStore returns a store rooted at dir, or under the OS temp dir when
// dir is empty.
func NewStore(dir string) *Store {
	if strings.TrimSpace(dir) == "" {
		dir = filepath.Join(os.TempDir(), "tablesense-handoff")
	}
	return &Store{Dir: dir}
}

// entryKey derives a stable file name from the profile.
func entryKey(profile string) string {
	if strings.TrimSpace(profile) == "" {
		profile = "default"
	}
	h := sha1.Sum([]byte(profile))
	return hex.EncodeToString(h[:])
}

func (s *Store) path(profile string) string {
	return filepath.Join(s.Dir, fmt.Sprintf("handoff_%s.json", entryKey(profile)))
}

// Save replaces the pending entry of profile. A missing ID or timestamp is
// filled in.
func (s *Store) Save(profile string, e Entry) (Entry, error) {
	if e.Text == "" {
		return e, errors.New("handoff: empty text")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if err := os.MkdirAll(s.Dir, 0o700); err != nil {
		return e, err
	}
	p := s.path(profile)
	tmp := p + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return e, err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return e, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return e, err
	}
	if err := os.Rename(tmp, p); err != nil {
		return e, err
	}
	logx.Infof("handoff: saved entry %s (%d bytes)", e.ID, len(e.Text))
	return e, nil
}

// Take returns and clears the pending entry of profile. The entry is
// removed before it is decoded, so a corrupt entry is not replayed either.
func (s *Store) Take(profile string) (Entry, bool, error) {
	p := s.path(profile)
	claimed := p + ".taken"
	if err := os.Rename(p, claimed); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Entry{}, false, nil
		}
		return Entry{}, false, err
	}
	defer os.Remove(claimed)
	b, err := os.ReadFile(claimed)
	if err != nil {
		return Entry{}, false, err
	}
	var e Entry
	if err := json.Unmarshal(b, &e); err != nil {
		return Entry{}, false, fmt.Errorf("handoff: decode %s: %w", p, err)
	}
	logx.Infof("handoff: took entry %s", e.ID)
	return e, true, nil
}

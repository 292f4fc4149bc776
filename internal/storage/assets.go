// Package storage serves the scoreboard's static assets: the board page,
// team logos and the side-switch chime. Assets live on local disk next to
// the binary so the board works without any network beyond the LAN.
package storage

import (
	"errors"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// AssetStore is what the HTTP layer needs to serve board assets.
type AssetStore interface {
	Open(key string) (io.ReadCloser, error)
	ContentType(key string) string
	Exists(key string) bool
}

// Well-known asset keys referenced by the board page.
const (
	AssetBoardPage  = "scoreboard.html"
	AssetLogo       = "logo.png"
	AssetBackground = "back.png"
	AssetChime      = "change.mp3"
)

type FSStore struct{ base string }

func NewFSStore(base string) (*FSStore, error) {
	if base == "" {
		base = "./assets"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	return &FSStore{base: base}, nil
}

func (s *FSStore) Open(key string) (io.ReadCloser, error) {
	p, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

func (s *FSStore) ContentType(key string) string {
	if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func (s *FSStore) Exists(key string) bool {
	p, err := s.resolve(key)
	if err != nil {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// resolve keeps lookups inside the asset root.
func (s *FSStore) resolve(key string) (string, error) {
	if key == "" {
		return "", errors.New("empty key")
	}
	clean := filepath.Clean("/" + key)
	if strings.Contains(clean, "..") {
		return "", errors.New("invalid key")
	}
	return filepath.Join(s.base, clean), nil
}

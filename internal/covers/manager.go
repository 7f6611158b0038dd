// Package covers copies cover images into the application's asset
// directory, optionally mirroring them to S3-compatible object storage.
package covers

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/novelshelf/internal/common"
	"github.com/dmitrijs2005/novelshelf/internal/filex"
	"github.com/dmitrijs2005/novelshelf/internal/logging"
	"github.com/gabriel-vasile/mimetype"
)

// Mirror receives a copy of every stored cover.
type Mirror interface {
	Upload(ctx context.Context, key, path, contentType string) error
}

// Manager stores cover files as <dir>/<novelID><ext>.
type Manager struct {
	dir    string
	mirror Mirror
	log    logging.Logger
}

type Option func(*Manager)

// WithMirror uploads each stored cover to m. Upload failures are logged
// and do not fail StoreCover.
func WithMirror(m Mirror) Option {
	return func(mgr *Manager) {
		mgr.mirror = m
	}
}

func WithLogger(l logging.Logger) Option {
	return func(mgr *Manager) {
		mgr.log = l
	}
}

// NewManager returns a Manager writing into dir. The directory is created on
// first use.
func NewManager(dir string, opts ...Option) *Manager {
	m := &Manager{dir: dir, log: logging.Nop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dir returns the configured asset directory.
func (m *Manager) Dir() string {
	return m.dir
}

// StoreCover copies the image at src into the asset directory under the
// novel's id and returns the absolute destination path. A previous cover
// with the same name is replaced; one with a different extension is left
// in place.
func (m *Manager) StoreCover(ctx context.Context, novelID, src string) (string, error) {
	st, err := m.StageCover(ctx, novelID, src)
	if err != nil {
		return "", err
	}
	if err := st.Commit(ctx); err != nil {
		return "", err
	}
	return st.Path(), nil
}

// StageCover copies the image at src into a hidden temporary file in the
// asset directory. The cover becomes visible under its final name only on
// Commit; Discard removes it. Either must be called.
func (m *Manager) StageCover(ctx context.Context, novelID, src string) (*Staged, error) {
	if err := validate(novelID, src); err != nil {
		return nil, err
	}

	mt, err := mimetype.DetectFile(src)
	if err != nil {
		return nil, assetErr(novelID, "read source", err)
	}
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, fmt.Errorf("%w: %s is %s, not an image", common.ErrValidation, src, mt.String())
	}

	ext := strings.ToLower(filepath.Ext(src))
	if ext == "" {
		ext = mt.Extension()
	}

	dir, err := filex.EnsureDir(m.dir)
	if err != nil {
		return nil, assetErr(novelID, "prepare directory", err)
	}

	tmp, size, err := filex.StageCopy(src, dir)
	if err != nil {
		return nil, assetErr(novelID, "copy", err)
	}
	m.log.Debug(ctx, "cover staged", "id", novelID, "bytes", size, "type", mt.String())

	name := novelID + ext
	return &Staged{
		m:           m,
		novelID:     novelID,
		name:        name,
		path:        filepath.Join(dir, name),
		tmp:         tmp,
		contentType: mt.String(),
	}, nil
}

// Staged is a copied cover that is not yet in place.
type Staged struct {
	m           *Manager
	novelID     string
	name        string
	path        string
	tmp         string
	contentType string
	done        bool
}

// Path returns the absolute path the cover will have after Commit.
func (s *Staged) Path() string {
	return s.path
}

// Commit renames the staged file over <novelID><ext> and mirrors it.
func (s *Staged) Commit(ctx context.Context) error {
	if s.done {
		return nil
	}
	s.done = true
	if err := os.Rename(s.tmp, s.path); err != nil {
		os.Remove(s.tmp)
		return assetErr(s.novelID, "rename into place", err)
	}
	s.m.log.Info(ctx, "cover stored", "id", s.novelID, "path", s.path, "type", s.contentType)

	if s.m.mirror != nil {
		if err := s.m.mirror.Upload(ctx, s.name, s.path, s.contentType); err != nil {
			s.m.log.Warn(ctx, "cover mirror failed", "id", s.novelID, "error", err)
		}
	}
	return nil
}

// Discard removes the staged file. The current cover, if any, is untouched.
func (s *Staged) Discard() error {
	if s.done {
		return nil
	}
	s.done = true
	if err := os.Remove(s.tmp); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return assetErr(s.novelID, "discard", err)
	}
	return nil
}

func validate(novelID, src string) error {
	switch {
	case strings.TrimSpace(novelID) == "":
		return fmt.Errorf("%w: novel id is required", common.ErrValidation)
	case strings.ContainsAny(novelID, `/\`) || novelID == "." || novelID == "..":
		return fmt.Errorf("%w: invalid novel id %q", common.ErrValidation, novelID)
	case strings.TrimSpace(src) == "":
		return fmt.Errorf("%w: source path is required", common.ErrValidation)
	}
	return nil
}

func assetErr(novelID, op string, err error) error {
	return fmt.Errorf("cover %s: %s: %w: %w", novelID, op, common.ErrAssetWrite, err)
}

// Package registry stores model artifacts as versioned JSON files in a
// directory. A small "current" file names the active version; both are
// replaced with write-to-temp, fsync and rename so readers never see a
// partial file.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"crimecast/internal/core/features"
	perr "crimecast/internal/platform/errors"
	"crimecast/internal/services/predictor/domain"
)

// ErrNoModel is returned when no version is active
var ErrNoModel = domain.ErrNoModel

const (
	currentFile = "current"
	ext         = ".json"
)

// Dir is a directory-backed registry
type Dir struct {
	root string
	mu   sync.Mutex
}

// Open returns a registry rooted at dir, creating it when missing
func Open(dir string) (*Dir, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, perr.InvalidArgf("model directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "create model directory %s", dir)
	}
	return &Dir{root: dir}, nil
}

// Root is the registry directory
func (d *Dir) Root() string { return d.root }

func (d *Dir) path(version string) (string, error) {
	if version == "" || strings.ContainsAny(version, `/\`) || strings.HasPrefix(version, ".") || version == currentFile {
		return "", perr.InvalidArgf("invalid model version %q", version)
	}
	return filepath.Join(d.root, version+ext), nil
}

// Save writes m under its version and returns the file path
func (d *Dir) Save(ctx context.Context, m *domain.Model) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p, err := d.path(m.Version)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeJSON, "encode model")
	}
	if err := writeAtomic(p, data); err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "write model %s", m.Version)
	}
	return p, nil
}

// Activate points current at version, which must already be saved
func (d *Dir) Activate(ctx context.Context, version string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := d.path(version)
	if err != nil {
		return err
	}
	if _, err := os.Stat(p); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeNotFound, "model %s not found", version)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := writeAtomic(filepath.Join(d.root, currentFile), []byte(version+"\n")); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "activate model %s", version)
	}
	return nil
}

// Active returns the active version, or ErrNoModel
func (d *Dir) Active() (string, error) {
	raw, err := os.ReadFile(filepath.Join(d.root, currentFile))
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNoModel
	}
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnavailable, "read active model pointer")
	}
	v := strings.TrimSpace(string(raw))
	if v == "" {
		return "", ErrNoModel
	}
	return v, nil
}

// Load reads and validates one version
func (d *Dir) Load(ctx context.Context, version string) (*domain.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := d.path(version)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, perr.NotFoundf("model %s not found", version)
	}
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "read model %s", version)
	}
	var m domain.Model
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "decode model %s", version)
	}
	if err := check(&m); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeValidation, "model %s is unusable", version)
	}
	return &m, nil
}

// LoadActive loads the version current points at, or ErrNoModel
func (d *Dir) LoadActive(ctx context.Context) (*domain.Model, error) {
	v, err := d.Active()
	if err != nil {
		return nil, err
	}
	return d.Load(ctx, v)
}

// header is a model without the forest
type header struct {
	domain.Model
	Forest json.RawMessage `json:"forest"`
}

// List returns every saved version, newest first
func (d *Dir) List(ctx context.Context) ([]domain.ModelInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "list models")
	}
	active, _ := d.Active()
	var out []domain.ModelInfo
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ext) || strings.HasPrefix(name, ".") {
			continue
		}
		p := filepath.Join(d.root, name)
		raw, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		var h header
		if err := json.Unmarshal(raw, &h); err != nil || h.Version == "" {
			continue
		}
		out = append(out, h.Model.Info(p, h.Version == active))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TrainedAt.Equal(out[j].TrainedAt) {
			return out[i].TrainedAt.After(out[j].TrainedAt)
		}
		return out[i].Version > out[j].Version
	})
	return out, nil
}

func check(m *domain.Model) error {
	if m.Version == "" {
		return errors.New("missing version")
	}
	if len(m.Columns) != features.NumFeatures {
		return fmt.Errorf("%d feature columns, want %d", len(m.Columns), features.NumFeatures)
	}
	for i, c := range m.Columns {
		if c != features.Columns[i] {
			return fmt.Errorf("feature column %d is %q, want %q", i, c, features.Columns[i])
		}
	}
	if err := m.Forest.Check(); err != nil {
		return err
	}
	if m.Forest.NumFeatures != features.NumFeatures {
		return fmt.Errorf("forest has %d features", m.Forest.NumFeatures)
	}
	return nil
}

// writeAtomic replaces path with data so readers see the old or the new file, never a mix
func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	// persist the rename itself; not every platform can fsync a directory
	if d, derr := os.Open(dir); derr == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}

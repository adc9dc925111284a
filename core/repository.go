package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jlrickert/cli-toolkit/clock"
	"github.com/sirupsen/logrus"
)

const (
	// stagingPrefix marks directories being assembled; ListPacks never reports them
	stagingPrefix = ".staging-"
	// BackupDir holds the backups of a pack
	BackupDir = "backup"
	// MaxBackups is how many backups BackupPack retains per pack
	MaxBackups = 5
)

// Repository stores texture packs under Root, one directory per pack ID. It keeps no
// in-memory state about packs: every read goes to the filesystem.
//
// Every mutating operation holds a per-pack lock for its whole duration, so concurrent
// callers working on the same pack are serialised rather than interleaving writes.
type Repository struct {
	Root     string
	Layout   Layout
	Library  *Library
	Settings Settings
	Clock    clock.Clock
	Log      *logrus.Entry

	locks lockMap
}

// Option configures a Repository
type Option func(*Repository)

// WithLayout selects the category layout
func WithLayout(l Layout) Option {
	return func(r *Repository) { r.Layout = l }
}

// WithLibrary attaches a base texture library
func WithLibrary(lib *Library) Option {
	return func(r *Repository) { r.Library = lib }
}

// WithSettings sets the user settings
func WithSettings(s Settings) Option {
	return func(r *Repository) { r.Settings = s }
}

// WithClock replaces the wall clock
func WithClock(c clock.Clock) Option {
	return func(r *Repository) { r.Clock = c }
}

// WithLogger sets the logger
func WithLogger(l *logrus.Logger) Option {
	return func(r *Repository) { r.Log = l.WithField("component", "repository") }
}

// NewRepository creates a repository rooted at root. The directory is created lazily.
func NewRepository(root string, opts ...Option) (*Repository, error) {
	rt, err := DefaultRuntime()
	if err != nil {
		return nil, err
	}
	r := &Repository{
		Root:   root,
		Layout: DefaultLayout,
		Clock:  rt.Clock(),
		Log:    logrus.StandardLogger().WithField("component", "repository"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// PackDir returns the directory of a pack, without checking that it exists
func (r *Repository) PackDir(id string) string {
	return filepath.Join(r.Root, id)
}

func (r *Repository) lock(ctx context.Context, id string) (func(), error) {
	return r.locks.acquire(ctx, id)
}

func validateID(id string) error {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") || strings.ContainsAny(id, `/\`) {
		return newValidationError("pack id", fmt.Sprintf("%q is not a pack id", id))
	}
	return nil
}

func (r *Repository) requirePack(id string) (string, error) {
	dir := r.PackDir(id)
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrPackNotFound, id)
		}
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrPackNotFound, id)
	}
	return dir, nil
}

// cleanRelPath normalises a caller-supplied pack-relative path and rejects anything
// that would leave the pack directory
func cleanRelPath(rel string) (string, error) {
	p := path.Clean(filepath.ToSlash(strings.TrimSpace(rel)))
	if p == "." || p == "" || path.IsAbs(p) || p == ".." || strings.HasPrefix(p, "../") || filepath.IsAbs(rel) {
		return "", newValidationError("path", fmt.Sprintf("%q is not a path inside the pack", rel))
	}
	return p, nil
}

// textureRelPath cleans rel and requires it to name an image file inside one of the
// layout's category directories
func (r *Repository) textureRelPath(rel string) (string, error) {
	p, err := cleanRelPath(rel)
	if err != nil {
		return "", err
	}
	if !IsImageFile(p) {
		return "", newValidationError("path", fmt.Sprintf("%q is not an image file", rel))
	}
	for _, d := range r.Layout.Dirs() {
		if strings.HasPrefix(p, d+"/") {
			return p, nil
		}
	}
	return "", newValidationError("path", fmt.Sprintf("%q is not inside a category of the %s layout", rel, r.Layout.Name))
}

// begin validates id and takes the pack lock
func (r *Repository) begin(ctx context.Context, id string) (func(), error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return r.lock(ctx, id)
}

// CreatePack allocates a new pack with a manifest, a metadata sidecar and one empty
// directory per category. The pack is assembled in a staging directory and moved into
// place in one rename; on failure the staging directory is removed.
func (r *Repository) CreatePack(ctx context.Context, name, description string) (Pack, error) {
	const op = "create"
	if err := validateName(name); err != nil {
		return Pack{}, wrapOp(op, "", err)
	}
	id := uuid.NewString()
	unlock, err := r.lock(ctx, id)
	if err != nil {
		return Pack{}, wrapOp(op, id, err)
	}
	defer unlock()

	pack, err := r.createPack(id, name, description)
	if err != nil {
		return Pack{}, wrapOp(op, id, err)
	}
	r.Log.WithFields(logrus.Fields{"pack": id, "name": name}).Info("Created pack")
	return pack, nil
}

func (r *Repository) createPack(id, name, description string) (pack Pack, err error) {
	if err = os.MkdirAll(r.Root, 0o755); err != nil {
		return Pack{}, err
	}
	staging := filepath.Join(r.Root, stagingPrefix+id)
	if err = os.Mkdir(staging, 0o755); err != nil {
		return Pack{}, err
	}
	defer func() {
		if err != nil {
			if rmErr := os.RemoveAll(staging); rmErr != nil {
				r.Log.WithError(rmErr).WithField("dir", staging).Warn("Failed to remove staging directory")
			}
		}
	}()

	if err = NewManifest(name, description).Write(filepath.Join(staging, ManifestFilename)); err != nil {
		return Pack{}, err
	}
	for _, dir := range r.Layout.Dirs() {
		if err = os.MkdirAll(filepath.Join(staging, filepath.FromSlash(dir)), 0o755); err != nil {
			return Pack{}, err
		}
	}

	folder := r.PackDir(id)
	now := r.Clock.Now().UnixMilli()
	pack = Pack{
		ID:          id,
		Name:        name,
		Description: description,
		Version:     DefaultPackVersion,
		FolderPath:  &folder,
		CreatedAt:   now,
		ModifiedAt:  now,
	}
	if err = pack.Write(filepath.Join(staging, MetadataFilename)); err != nil {
		return Pack{}, err
	}
	if err = os.Rename(staging, folder); err != nil {
		return Pack{}, err
	}
	return pack, nil
}

// ListPacks returns every pack in the store. Directories without a readable metadata
// sidecar are skipped. The order is whatever the directory listing yields.
func (r *Repository) ListPacks(ctx context.Context) ([]Pack, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrapOp("list", "", err)
	}
	entries, err := os.ReadDir(r.Root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, wrapOp("list", "", err)
	}
	packs := make([]Pack, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		pack, err := LoadPackMetadata(filepath.Join(r.Root, e.Name(), MetadataFilename))
		if err != nil {
			r.Log.WithError(err).WithField("dir", e.Name()).Debug("Skipping directory without readable metadata")
			continue
		}
		packs = append(packs, pack)
	}
	return packs, nil
}

// GetPack reads the metadata sidecar of one pack
func (r *Repository) GetPack(ctx context.Context, id string) (Pack, error) {
	const op = "get"
	if err := validateID(id); err != nil {
		return Pack{}, wrapOp(op, id, err)
	}
	if err := ctx.Err(); err != nil {
		return Pack{}, wrapOp(op, id, err)
	}
	pack, err := LoadPackMetadata(filepath.Join(r.PackDir(id), MetadataFilename))
	if errors.Is(err, os.ErrNotExist) {
		err = fmt.Errorf("%w: %s", ErrPackNotFound, id)
	}
	return pack, wrapOp(op, id, err)
}

// ReadManifest reads the manifest of one pack
func (r *Repository) ReadManifest(ctx context.Context, id string) (Manifest, error) {
	const op = "read manifest"
	if err := validateID(id); err != nil {
		return Manifest{}, wrapOp(op, id, err)
	}
	if err := ctx.Err(); err != nil {
		return Manifest{}, wrapOp(op, id, err)
	}
	m, err := LoadManifest(filepath.Join(r.PackDir(id), ManifestFilename))
	if errors.Is(err, os.ErrNotExist) {
		err = fmt.Errorf("%w: %s", ErrPackNotFound, id)
	}
	return m, wrapOp(op, id, err)
}

// ListTextures lists the textures of a category: base library textures first (when a
// library is configured), then the pack's own image files. A missing category
// directory yields no pack textures rather than an error.
func (r *Repository) ListTextures(ctx context.Context, id string, cat Category) ([]TextureItem, error) {
	const op = "list textures"
	if err := validateID(id); err != nil {
		return nil, wrapOp(op, id, err)
	}
	if !r.Layout.Has(cat) {
		return nil, wrapOp(op, id, newValidationError("category", fmt.Sprintf("%q is not a category of the %s layout", cat, r.Layout.Name)))
	}
	if err := ctx.Err(); err != nil {
		return nil, wrapOp(op, id, err)
	}

	var items []TextureItem
	if r.Library != nil {
		base, err := r.Library.List(cat)
		if err != nil {
			return nil, wrapOp(op, id, err)
		}
		items = append(items, base...)
	}

	relDir := r.Layout.Dir(cat)
	dir := filepath.Join(r.PackDir(id), filepath.FromSlash(relDir))
	entries, err := os.ReadDir(dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, wrapOp(op, id, err)
	}
	for _, e := range entries {
		if !e.Type().IsRegular() || !IsImageFile(e.Name()) {
			continue
		}
		items = append(items, newTextureItem(e.Name(), filepath.Join(dir, e.Name()), path.Join(relDir, e.Name()), cat, true))
	}
	if items == nil {
		items = []TextureItem{}
	}
	return items, nil
}

func (r *Repository) transferOptions() TransferOptions {
	return TransferOptions{HighQuality: r.Settings.HighQualityExport}
}

// ReplaceTexture re-encodes src at full size to relPath, overwriting any file already
// there, and returns the absolute path written. relPath must be an image file under one
// of the layout's category directories.
func (r *Repository) ReplaceTexture(ctx context.Context, id, relPath string, src ImageSource) (string, error) {
	const op = "replace texture"
	rel, err := r.textureRelPath(relPath)
	if err != nil {
		return "", wrapOp(op, id, err)
	}
	unlock, err := r.begin(ctx, id)
	if err != nil {
		return "", wrapOp(op, id, err)
	}
	defer unlock()

	dir, err := r.requirePack(id)
	if err != nil {
		return "", wrapOp(op, id, err)
	}
	dest := filepath.Join(dir, filepath.FromSlash(rel))
	if err := Transfer(src, dest, r.transferOptions()); err != nil {
		return "", wrapOp(op, id, err)
	}
	if err := r.updateMetadata(id, nil); err != nil {
		return "", wrapOp(op, id, err)
	}
	r.Log.WithFields(logrus.Fields{"pack": id, "path": rel, "source": src.String()}).Debug("Replaced texture")
	return dest, nil
}

// AddTexture copies src into a category under a fresh timestamp-based name. Existing
// files are never overwritten.
func (r *Repository) AddTexture(ctx context.Context, id string, cat Category, src ImageSource) (string, error) {
	const op = "add texture"
	if !r.Layout.Has(cat) {
		return "", wrapOp(op, id, newValidationError("category", fmt.Sprintf("%q is not a category of the %s layout", cat, r.Layout.Name)))
	}
	unlock, err := r.begin(ctx, id)
	if err != nil {
		return "", wrapOp(op, id, err)
	}
	defer unlock()

	dir, err := r.requirePack(id)
	if err != nil {
		return "", wrapOp(op, id, err)
	}
	catDir := filepath.Join(dir, filepath.FromSlash(r.Layout.Dir(cat)))
	dest, err := r.uniqueTextureName(catDir)
	if err != nil {
		return "", wrapOp(op, id, err)
	}
	if err := Transfer(src, dest, r.transferOptions()); err != nil {
		return "", wrapOp(op, id, err)
	}
	if err := r.updateMetadata(id, nil); err != nil {
		return "", wrapOp(op, id, err)
	}
	r.Log.WithFields(logrus.Fields{"pack": id, "category": cat, "file": filepath.Base(dest)}).Debug("Added texture")
	return dest, nil
}

func (r *Repository) uniqueTextureName(dir string) (string, error) {
	stamp := r.Clock.Now().UnixMilli()
	candidate := filepath.Join(dir, fmt.Sprintf("texture_%d.png", stamp))
	for i := 1; ; i++ {
		exists, err := fileExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = filepath.Join(dir, fmt.Sprintf("texture_%d_%d.png", stamp, i))
	}
}

// UpdateIcon stretches src to 128x128 and stores it as the pack icon
func (r *Repository) UpdateIcon(ctx context.Context, id string, src ImageSource) (string, error) {
	const op = "update icon"
	unlock, err := r.begin(ctx, id)
	if err != nil {
		return "", wrapOp(op, id, err)
	}
	defer unlock()

	dir, err := r.requirePack(id)
	if err != nil {
		return "", wrapOp(op, id, err)
	}
	dest := filepath.Join(dir, IconFilename)
	opts := r.transferOptions()
	opts.Width, opts.Height = IconSize, IconSize
	if err := Transfer(src, dest, opts); err != nil {
		return "", wrapOp(op, id, err)
	}
	err = r.updateMetadata(id, func(p *Pack) {
		p.IconPath = &dest
	})
	if err != nil {
		return "", wrapOp(op, id, err)
	}
	r.Log.WithFields(logrus.Fields{"pack": id, "source": src.String()}).Debug("Updated icon")
	return dest, nil
}

// UpdateManifest rewrites the manifest header and mirrors name, description and version
// into the metadata sidecar. A pack without a manifest is left alone and the call
// succeeds; a manifest that cannot be parsed is reported as corrupt.
func (r *Repository) UpdateManifest(ctx context.Context, id string, u ManifestUpdate) error {
	const op = "update manifest"
	if err := u.Validate(); err != nil {
		return wrapOp(op, id, err)
	}
	unlock, err := r.begin(ctx, id)
	if err != nil {
		return wrapOp(op, id, err)
	}
	defer unlock()

	manifestPath := filepath.Join(r.PackDir(id), ManifestFilename)
	m, err := LoadManifest(manifestPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			r.Log.WithField("pack", id).Debug("No manifest to update")
			return nil
		}
		return wrapOp(op, id, err)
	}
	m.Apply(u)
	if err := m.Write(manifestPath); err != nil {
		return wrapOp(op, id, err)
	}
	err = r.updateMetadata(id, func(p *Pack) {
		p.Name = u.Name
		p.Description = u.Description
		p.Version = u.Version
	})
	return wrapOp(op, id, err)
}

// updateMetadata applies fn to the sidecar and bumps modifiedAt. A missing or unreadable
// sidecar is logged and skipped; the calling operation still succeeds.
func (r *Repository) updateMetadata(id string, fn func(p *Pack)) error {
	metaPath := filepath.Join(r.PackDir(id), MetadataFilename)
	pack, err := LoadPackMetadata(metaPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, ErrCorrupt) {
			r.Log.WithError(err).WithField("pack", id).Warn("Metadata not refreshed")
			return nil
		}
		return err
	}
	if fn != nil {
		fn(&pack)
	}
	pack.Touch(r.Clock.Now())
	return pack.Write(metaPath)
}

// DeleteTexture removes one pack texture. A file that is already gone is not an error.
func (r *Repository) DeleteTexture(ctx context.Context, id, relPath string) error {
	const op = "delete texture"
	rel, err := cleanRelPath(relPath)
	if err != nil {
		return wrapOp(op, id, err)
	}
	if !strings.HasPrefix(rel, TexturesDir+"/") {
		return wrapOp(op, id, newValidationError("path", fmt.Sprintf("%q is not a texture", relPath)))
	}
	unlock, err := r.begin(ctx, id)
	if err != nil {
		return wrapOp(op, id, err)
	}
	defer unlock()

	dir, err := r.requirePack(id)
	if err != nil {
		return wrapOp(op, id, err)
	}
	if err := os.Remove(filepath.Join(dir, filepath.FromSlash(rel))); err != nil && !errors.Is(err, os.ErrNotExist) {
		return wrapOp(op, id, err)
	}
	return wrapOp(op, id, r.updateMetadata(id, nil))
}

// ExportOption customises ExportPack and WriteExport
type ExportOption func(*ArchiveOptions)

// OnExportEntry registers a callback run after each archive entry is written
func OnExportEntry(fn func(name string)) ExportOption {
	return func(o *ArchiveOptions) { o.OnEntry = fn }
}

func (r *Repository) exportOptions(dir string, opts []ExportOption) (ArchiveOptions, error) {
	var ao ArchiveOptions
	ig, err := LoadIgnore(filepath.Join(dir, IgnoreFilename))
	if err != nil {
		return ao, err
	}
	ao.Ignore = ig
	for _, opt := range opts {
		opt(&ao)
	}
	return ao, nil
}

// ExportEntries lists the archive entry names ExportPack would write
func (r *Repository) ExportEntries(ctx context.Context, id string) ([]string, error) {
	const op = "export"
	unlock, err := r.begin(ctx, id)
	if err != nil {
		return nil, wrapOp(op, id, err)
	}
	defer unlock()

	dir, err := r.requirePack(id)
	if err != nil {
		return nil, wrapOp(op, id, err)
	}
	ao, err := r.exportOptions(dir, nil)
	if err != nil {
		return nil, wrapOp(op, id, err)
	}
	entries, err := ArchiveEntries(dir, ao)
	return entries, wrapOp(op, id, err)
}

// ExportPack zips the whole pack directory to dest. Entry names are pack-root-relative
// and sorted. Paths matched by the pack's .packignore, if any, are left out.
func (r *Repository) ExportPack(ctx context.Context, id, dest string, opts ...ExportOption) error {
	const op = "export"
	unlock, err := r.begin(ctx, id)
	if err != nil {
		return wrapOp(op, id, err)
	}
	defer unlock()

	dir, err := r.requirePack(id)
	if err != nil {
		return wrapOp(op, id, err)
	}
	ao, err := r.exportOptions(dir, opts)
	if err != nil {
		return wrapOp(op, id, err)
	}
	if err := CreateArchive(dest, dir, ao); err != nil {
		return wrapOp(op, id, err)
	}
	r.Log.WithFields(logrus.Fields{"pack": id, "dest": dest}).Info("Exported pack")
	return nil
}

// WriteExport streams the export archive of a pack to w
func (r *Repository) WriteExport(ctx context.Context, id string, w io.Writer, opts ...ExportOption) error {
	const op = "export"
	unlock, err := r.begin(ctx, id)
	if err != nil {
		return wrapOp(op, id, err)
	}
	defer unlock()

	dir, err := r.requirePack(id)
	if err != nil {
		return wrapOp(op, id, err)
	}
	ao, err := r.exportOptions(dir, opts)
	if err != nil {
		return wrapOp(op, id, err)
	}
	return wrapOp(op, id, WriteArchive(w, dir, ao))
}

// DeletePack removes a pack and everything in it. Deleting a pack that does not exist
// succeeds.
func (r *Repository) DeletePack(ctx context.Context, id string) error {
	const op = "delete"
	unlock, err := r.begin(ctx, id)
	if err != nil {
		return wrapOp(op, id, err)
	}
	defer unlock()

	if err := os.RemoveAll(r.PackDir(id)); err != nil {
		return wrapOp(op, id, err)
	}
	r.Log.WithField("pack", id).Info("Deleted pack")
	return nil
}

// ResetPack discards every texture, leaving empty category directories. The manifest,
// metadata, icon and backups are kept.
func (r *Repository) ResetPack(ctx context.Context, id string) error {
	const op = "reset"
	unlock, err := r.begin(ctx, id)
	if err != nil {
		return wrapOp(op, id, err)
	}
	defer unlock()

	dir, err := r.requirePack(id)
	if err != nil {
		return wrapOp(op, id, err)
	}
	err = r.swapTextures(dir, func(staging string) error { return nil })
	if err != nil {
		return wrapOp(op, id, err)
	}
	r.Log.WithField("pack", id).Info("Reset pack textures")
	return wrapOp(op, id, r.updateMetadata(id, nil))
}

// swapTextures builds a replacement textures tree in a staging directory and swaps it in
// with renames. fill may populate staging/textures before the category directories are
// ensured. If the swap fails the original tree is put back.
func (r *Repository) swapTextures(dir string, fill func(staging string) error) (err error) {
	stamp := r.Clock.Now().UnixNano()
	staging := filepath.Join(dir, fmt.Sprintf("%s%d", stagingPrefix, stamp))
	if err = os.Mkdir(staging, 0o755); err != nil {
		return err
	}
	defer func() {
		if rmErr := os.RemoveAll(staging); rmErr != nil {
			r.Log.WithError(rmErr).WithField("dir", staging).Warn("Failed to remove staging directory")
		}
	}()

	if err = fill(staging); err != nil {
		return err
	}
	for _, d := range r.Layout.Dirs() {
		if err = os.MkdirAll(filepath.Join(staging, filepath.FromSlash(d)), 0o755); err != nil {
			return err
		}
	}

	current := filepath.Join(dir, TexturesDir)
	old := filepath.Join(staging, "previous")
	hadCurrent, err := fileExists(current)
	if err != nil {
		return err
	}
	if hadCurrent {
		if err = os.Rename(current, old); err != nil {
			return err
		}
	}
	if err = os.Rename(filepath.Join(staging, TexturesDir), current); err != nil {
		if hadCurrent {
			if rbErr := os.Rename(old, current); rbErr != nil {
				r.Log.WithError(rbErr).WithField("dir", dir).Error("Failed to restore textures after a failed swap")
			}
		}
		return err
	}
	return nil
}

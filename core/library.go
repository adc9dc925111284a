package core

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// LibraryCatalogFilename optionally describes a base library
	LibraryCatalogFilename = "library.toml"
	// LibraryScheme prefixes the source locator of base library textures
	LibraryScheme = "library:"
)

// LibraryCatalog is the library.toml file of a base library
type LibraryCatalog struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	// Categories maps a category tag to a directory in the library, overriding the layout
	Categories map[string]string `toml:"categories"`
}

// Library is a read-only set of base textures, laid out by category directory
type Library struct {
	Catalog LibraryCatalog
	fsys    fs.FS
	layout  Layout
}

// LoadLibrary opens a base library rooted at fsys
func LoadLibrary(fsys fs.FS, layout Layout) (*Library, error) {
	lib := &Library{fsys: fsys, layout: layout}
	if _, err := toml.DecodeFS(fsys, LibraryCatalogFilename, &lib.Catalog); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, &CorruptFileError{Path: LibraryCatalogFilename, Err: err}
		}
	}
	for tag := range lib.Catalog.Categories {
		if _, err := layout.Category(tag); err != nil {
			return nil, fmt.Errorf("%s: %w", LibraryCatalogFilename, err)
		}
	}
	return lib, nil
}

func (l *Library) dir(cat Category) string {
	if d, ok := l.Catalog.Categories[string(cat)]; ok {
		return path.Clean(d)
	}
	return l.layout.Dir(cat)
}

// List returns the base textures of a category, sorted by file name. A category with no
// directory in the library is empty.
func (l *Library) List(cat Category) ([]TextureItem, error) {
	if !l.layout.Has(cat) {
		return nil, newValidationError("category", fmt.Sprintf("%q is not a category of the %s layout", cat, l.layout.Name))
	}
	dir := l.dir(cat)
	entries, err := fs.ReadDir(l.fsys, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	items := make([]TextureItem, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || !IsImageFile(e.Name()) {
			continue
		}
		source := LibraryScheme + path.Join(dir, e.Name())
		dest := path.Join(l.layout.Dir(cat), e.Name())
		items = append(items, newTextureItem(e.Name(), source, dest, cat, false))
	}
	return items, nil
}

// Source resolves a library: locator (as found in TextureItem.Source) to an ImageSource
func (l *Library) Source(locator string) (ImageSource, error) {
	p, ok := strings.CutPrefix(locator, LibraryScheme)
	if !ok || !fs.ValidPath(p) {
		return nil, newValidationError("source", fmt.Sprintf("%q is not a library locator", locator))
	}
	return librarySource{fsys: l.fsys, path: p}, nil
}

type librarySource struct {
	fsys fs.FS
	path string
}

func (s librarySource) Open() (io.ReadCloser, error) { return s.fsys.Open(s.path) }
func (s librarySource) String() string               { return LibraryScheme + s.path }

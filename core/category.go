package core

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// Category is a texture category tag. The set of categories is fixed by the Layout.
type Category string

const (
	CategoryBlocks      Category = "blocks"
	CategoryItems       Category = "items"
	CategoryEntity      Category = "entity"
	CategoryEnvironment Category = "environment"
	CategoryGUI         Category = "gui"
	CategoryParticle    Category = "particle"
	CategoryMisc        Category = "misc"
	CategoryArmor       Category = "armor"
	CategoryPainting    Category = "painting"
	CategoryUI          Category = "ui"
)

// TexturesDir holds every category directory of a pack
const TexturesDir = "textures"

// Layout is a fixed, ordered set of categories and their pack-relative directories
type Layout struct {
	Name       string
	Categories []Category
	dirs       map[Category]string
}

type layoutEntry struct {
	cat Category
	dir string
}

func newLayout(name string, entries ...layoutEntry) Layout {
	l := Layout{Name: name, dirs: make(map[Category]string, len(entries))}
	for _, e := range entries {
		l.Categories = append(l.Categories, e.cat)
		l.dirs[e.cat] = path.Join(TexturesDir, e.dir)
	}
	return l
}

var (
	// LayoutClassic is the category set of the original texture editor
	LayoutClassic = newLayout("classic",
		layoutEntry{CategoryBlocks, "blocks"},
		layoutEntry{CategoryItems, "items"},
		layoutEntry{CategoryEntity, "entity"},
		layoutEntry{CategoryEnvironment, "environment"},
		layoutEntry{CategoryGUI, "gui"},
		layoutEntry{CategoryParticle, "particle"},
		layoutEntry{CategoryMisc, "misc"},
	)
	// LayoutStudio is the category set of the studio editor, which ships a base library
	LayoutStudio = newLayout("studio",
		layoutEntry{CategoryBlocks, "blocks"},
		layoutEntry{CategoryItems, "items"},
		layoutEntry{CategoryEntity, "entity"},
		layoutEntry{CategoryArmor, "models/armor"},
		layoutEntry{CategoryPainting, "painting"},
		layoutEntry{CategoryUI, "ui"},
		layoutEntry{CategoryEnvironment, "environment"},
	)

	// DefaultLayout is used when no layout is configured
	DefaultLayout = LayoutClassic

	layouts = map[string]Layout{
		LayoutClassic.Name: LayoutClassic,
		LayoutStudio.Name:  LayoutStudio,
	}
)

// LayoutByName looks up a layout, case-insensitively
func LayoutByName(name string) (Layout, error) {
	l, ok := layouts[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Layout{}, newValidationError("layout", fmt.Sprintf("unknown layout %q (known: %s)", name, strings.Join(LayoutNames(), ", ")))
	}
	return l, nil
}

// LayoutNames returns the names of all layouts, sorted
func LayoutNames() []string {
	names := make([]string, 0, len(layouts))
	for k := range layouts {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Category parses a category tag belonging to this layout
func (l Layout) Category(tag string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(tag)))
	if _, ok := l.dirs[c]; !ok {
		return "", newValidationError("category", fmt.Sprintf("%q is not a category of the %s layout", tag, l.Name))
	}
	return c, nil
}

// Has reports whether c belongs to this layout
func (l Layout) Has(c Category) bool {
	_, ok := l.dirs[c]
	return ok
}

// Dir returns the forward-slash directory of c relative to the pack root, or "" if c is unknown
func (l Layout) Dir(c Category) string {
	return l.dirs[c]
}

// Dirs returns every category directory in layout order
func (l Layout) Dirs() []string {
	dirs := make([]string, 0, len(l.Categories))
	for _, c := range l.Categories {
		dirs = append(dirs, l.dirs[c])
	}
	return dirs
}

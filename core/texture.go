package core

import (
	"path"
	"strings"

	"github.com/fatih/camelcase"
	"github.com/igorsobreira/titlecase"
)

// TextureItem is one image in a category. It is derived from a directory listing on
// every query and never stored.
type TextureItem struct {
	// Name is the file name without extension
	Name        string `json:"name" yaml:"name"`
	DisplayName string `json:"displayName" yaml:"displayName"`
	// Source is an absolute path for pack files, or a library: locator for base textures
	Source string `json:"source" yaml:"source"`
	// Path is relative to the pack root, in forward slash format
	Path     string   `json:"path" yaml:"path"`
	Category Category `json:"category" yaml:"category"`
	// Custom is false for textures served from the base library
	Custom bool `json:"custom" yaml:"custom"`
}

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// IsImageFile reports whether name has a texture extension (png, jpg or jpeg, any case)
func IsImageFile(name string) bool {
	return imageExtensions[strings.ToLower(path.Ext(name))]
}

func newTextureItem(fileName, source, relPath string, cat Category, custom bool) TextureItem {
	name := strings.TrimSuffix(fileName, path.Ext(fileName))
	return TextureItem{
		Name:        name,
		DisplayName: DisplayName(name),
		Source:      source,
		Path:        relPath,
		Category:    cat,
		Custom:      custom,
	}
}

// DisplayName turns a texture file name such as "grass_block_side" or "ironSword"
// into a human readable title
func DisplayName(name string) string {
	fields := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		words = append(words, camelcase.Split(f)...)
	}
	if len(words) == 0 {
		return name
	}
	return titlecase.Title(strings.ToLower(strings.Join(words, " ")))
}

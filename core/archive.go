package core

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// IgnoreFilename lists paths, in .gitignore syntax, that are left out of exports
const IgnoreFilename = ".packignore"

// Matcher reports whether a forward-slash relative path should be skipped
type Matcher interface {
	MatchesPath(path string) bool
}

// ArchiveOptions controls which files WriteArchive includes
type ArchiveOptions struct {
	// Include restricts the walk to these forward-slash sub-directories of the root.
	// Missing directories are skipped.
	Include []string
	Ignore  Matcher
	// OnEntry is called after each entry has been written
	OnEntry func(name string)
}

// LoadIgnore compiles an ignore file; a missing file returns a nil Matcher
func LoadIgnore(path string) (Matcher, error) {
	ok, err := fileExists(path)
	if err != nil || !ok {
		return nil, err
	}
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil, err
	}
	return gi, nil
}

// ArchiveEntries returns the entry names WriteArchive would write for root, sorted so
// that archives of an unchanged tree are identical regardless of directory listing order
func ArchiveEntries(root string, opts ArchiveOptions) ([]string, error) {
	starts := []string{root}
	if len(opts.Include) > 0 {
		starts = starts[:0]
		for _, inc := range opts.Include {
			starts = append(starts, filepath.Join(root, filepath.FromSlash(inc)))
		}
	}

	var entries []string
	for _, start := range starts {
		err := filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == start && errors.Is(err, fs.ErrNotExist) {
					return fs.SkipDir
				}
				return err
			}
			// Only leaf files become entries
			if !d.Type().IsRegular() {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
			if opts.Ignore != nil && opts.Ignore.MatchesPath(rel) {
				return nil
			}
			entries = append(entries, rel)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(entries)
	return entries, nil
}

// WriteArchive writes every regular file under root to w as a zip archive, with
// entries named by their forward-slash path relative to root
func WriteArchive(w io.Writer, root string, opts ArchiveOptions) error {
	entries, err := ArchiveEntries(root, opts)
	if err != nil {
		return err
	}
	return writeEntries(w, root, entries, opts.OnEntry)
}

// CreateArchive writes the archive of root to dest, replacing dest only once the
// archive is complete
func CreateArchive(dest, root string, opts ArchiveOptions) error {
	entries, err := ArchiveEntries(root, opts)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return writeFileAtomic(dest, func(w io.Writer) error {
		return writeEntries(w, root, entries, opts.OnEntry)
	})
}

func writeEntries(w io.Writer, root string, entries []string, onEntry func(string)) error {
	zw := zip.NewWriter(w)
	for _, name := range entries {
		if err := addFileToZip(zw, root, name); err != nil {
			_ = zw.Close()
			return err
		}
		if onEntry != nil {
			onEntry(name)
		}
	}
	return zw.Close()
}

func addFileToZip(zw *zip.Writer, root, name string) error {
	path := filepath.Join(root, filepath.FromSlash(name))
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = name
	hdr.Method = zip.Deflate
	out, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	_, err = io.Copy(out, f)
	return err
}

// ExtractArchive unpacks the zip at src into dest. Entries that would land outside
// dest are rejected.
func ExtractArchive(src, dest string) error {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return err
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Mode().IsDir() || strings.HasSuffix(f.Name, "/") {
			continue
		}
		target := filepath.Join(dest, filepath.FromSlash(f.Name))
		rel, err := filepath.Rel(dest, target)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(f.Name) {
			return fmt.Errorf("archive entry %q escapes the destination", f.Name)
		}
		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	r, err := f.Open()
	if err != nil {
		return err
	}
	defer r.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

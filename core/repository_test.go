package core

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCreatePack(t *testing.T) {
	fx := newRepoFixture(t)
	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		name := fmt.Sprintf("Pack %d", i)
		pack := fx.createPack(t, name)
		require.False(t, seen[pack.ID], "duplicate id %s", pack.ID)
		seen[pack.ID] = true

		dir := fx.repo.PackDir(pack.ID)
		m, err := LoadManifest(filepath.Join(dir, ManifestFilename))
		require.NoError(t, err)
		require.Equal(t, name, m.Header.Name)
		require.Equal(t, "desc of "+name, m.Header.Description)

		meta, err := LoadPackMetadata(filepath.Join(dir, MetadataFilename))
		require.NoError(t, err)
		require.Equal(t, pack, meta)
		require.Equal(t, dir, *pack.FolderPath)
		require.Nil(t, pack.IconPath)

		for _, d := range DefaultLayout.Dirs() {
			require.DirExists(t, filepath.Join(dir, filepath.FromSlash(d)))
		}
	}

	entries, err := os.ReadDir(fx.root)
	require.NoError(t, err)
	require.Len(t, entries, 5)
}

func TestCreatePackRejectsEmptyName(t *testing.T) {
	fx := newRepoFixture(t)
	_, err := fx.repo.CreatePack(fx.ctx, "", "x")
	require.True(t, IsValidation(err))
	_, err = fx.repo.CreatePack(fx.ctx, "   ", "x")
	require.True(t, IsValidation(err))

	_, err = os.Stat(fx.root)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestListAndGetPacks(t *testing.T) {
	fx := newRepoFixture(t)
	packs, err := fx.repo.ListPacks(fx.ctx)
	require.NoError(t, err)
	require.Empty(t, packs)

	a := fx.createPack(t, "A")
	b := fx.createPack(t, "B")
	// Directories without metadata are not packs
	require.NoError(t, os.MkdirAll(filepath.Join(fx.root, "stray"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(fx.root, stagingPrefix+"x"), 0o755))

	packs, err = fx.repo.ListPacks(fx.ctx)
	require.NoError(t, err)
	var ids []string
	for _, p := range packs {
		ids = append(ids, p.ID)
	}
	require.ElementsMatch(t, []string{a.ID, b.ID}, ids)

	got, err := fx.repo.GetPack(fx.ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, a, got)

	_, err = fx.repo.GetPack(fx.ctx, "nope")
	require.True(t, IsNotFound(err))
	_, err = fx.repo.GetPack(fx.ctx, "../etc")
	require.True(t, IsValidation(err))
}

func TestUpdateManifest(t *testing.T) {
	fx := newRepoFixture(t)
	pack := fx.createPack(t, "Old")
	before, err := fx.repo.ReadManifest(fx.ctx, pack.ID)
	require.NoError(t, err)

	require.NoError(t, fx.repo.UpdateManifest(fx.ctx, pack.ID, ManifestUpdate{
		Name:        "New Name",
		Description: "New Desc",
		Version:     SemVer{2, 1, 0},
	}))

	after, err := fx.repo.ReadManifest(fx.ctx, pack.ID)
	require.NoError(t, err)
	require.Equal(t, "New Name", after.Header.Name)
	require.Equal(t, "New Desc", after.Header.Description)
	require.Equal(t, SemVer{2, 1, 0}, after.Header.Version)
	require.Equal(t, before.Header.UUID, after.Header.UUID)
	require.Equal(t, before.Modules, after.Modules)
	require.Equal(t, before.Header.MinEngineVersion, after.Header.MinEngineVersion)

	meta, err := fx.repo.GetPack(fx.ctx, pack.ID)
	require.NoError(t, err)
	require.Equal(t, "New Name", meta.Name)
	require.Equal(t, "New Desc", meta.Description)
	require.Equal(t, SemVer{2, 1, 0}, meta.Version)
	require.Greater(t, meta.ModifiedAt, pack.ModifiedAt)
	require.Equal(t, pack.CreatedAt, meta.CreatedAt)
}

func TestUpdateManifestEdgeCases(t *testing.T) {
	fx := newRepoFixture(t)
	pack := fx.createPack(t, "P")
	dir := fx.repo.PackDir(pack.ID)
	update := ManifestUpdate{Name: "N", Version: SemVer{1, 0, 1}}

	err := fx.repo.UpdateManifest(fx.ctx, pack.ID, ManifestUpdate{Name: "", Version: SemVer{1, 0, 0}})
	require.True(t, IsValidation(err))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestFilename), []byte("garbage"), 0o644))
	err = fx.repo.UpdateManifest(fx.ctx, pack.ID, update)
	require.ErrorIs(t, err, ErrCorrupt)

	require.NoError(t, os.Remove(filepath.Join(dir, ManifestFilename)))
	require.NoError(t, fx.repo.UpdateManifest(fx.ctx, pack.ID, update))
	_, err = os.Stat(filepath.Join(dir, ManifestFilename))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestMinEngineVersionUpdate(t *testing.T) {
	fx := newRepoFixture(t)
	pack := fx.createPack(t, "P")
	minVer := SemVer{1, 20, 10}
	require.NoError(t, fx.repo.UpdateManifest(fx.ctx, pack.ID, ManifestUpdate{
		Name:             pack.Name,
		Description:      pack.Description,
		Version:          pack.Version,
		MinEngineVersion: &minVer,
	}))
	m, err := fx.repo.ReadManifest(fx.ctx, pack.ID)
	require.NoError(t, err)
	require.Equal(t, minVer, m.Header.MinEngineVersion)
}

func TestListTextures(t *testing.T) {
	fx := newRepoFixture(t)
	pack := fx.createPack(t, "P")

	items, err := fx.repo.ListTextures(fx.ctx, pack.ID, CategoryBlocks)
	require.NoError(t, err)
	require.NotNil(t, items)
	require.Empty(t, items)

	blocks := filepath.Join(fx.repo.PackDir(pack.ID), "textures", "blocks")
	writePNG(t, filepath.Join(blocks, "stone.png"), 2, 2)
	require.NoError(t, os.WriteFile(filepath.Join(blocks, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(blocks, "sub.png"), 0o755))

	items, err = fx.repo.ListTextures(fx.ctx, pack.ID, CategoryBlocks)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "stone", items[0].Name)
	require.Equal(t, "textures/blocks/stone.png", items[0].Path)
	require.Equal(t, filepath.Join(blocks, "stone.png"), items[0].Source)
	require.True(t, items[0].Custom)

	// Missing category directory
	require.NoError(t, os.RemoveAll(filepath.Join(fx.repo.PackDir(pack.ID), "textures", "gui")))
	items, err = fx.repo.ListTextures(fx.ctx, pack.ID, CategoryGUI)
	require.NoError(t, err)
	require.Empty(t, items)

	_, err = fx.repo.ListTextures(fx.ctx, pack.ID, CategoryArmor)
	require.True(t, IsValidation(err))
}

func TestListTexturesIncludesLibrary(t *testing.T) {
	lib, err := LoadLibrary(fstest.MapFS{
		"textures/blocks/dirt.png": {Data: pngBytes(t, 2, 2)},
	}, LayoutStudio)
	require.NoError(t, err)
	fx := newRepoFixture(t, WithLayout(LayoutStudio), WithLibrary(lib))
	pack := fx.createPack(t, "Studio")
	require.DirExists(t, filepath.Join(fx.repo.PackDir(pack.ID), "textures", "models", "armor"))

	// Override the base texture from the library
	base, err := fx.repo.ListTextures(fx.ctx, pack.ID, CategoryBlocks)
	require.NoError(t, err)
	require.Len(t, base, 1)
	require.False(t, base[0].Custom)
	src, err := lib.Source(base[0].Source)
	require.NoError(t, err)
	_, err = fx.repo.ReplaceTexture(fx.ctx, pack.ID, base[0].Path, src)
	require.NoError(t, err)

	items, err := fx.repo.ListTextures(fx.ctx, pack.ID, CategoryBlocks)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.False(t, items[0].Custom)
	require.True(t, items[1].Custom)
	require.Equal(t, items[0].Path, items[1].Path)
}

func TestReplaceTexture(t *testing.T) {
	fx := newRepoFixture(t)
	pack := fx.createPack(t, "P")
	fx.clock.Advance(time.Second)

	dest, err := fx.repo.ReplaceTexture(fx.ctx, pack.ID, "textures/items/sword.png", bytesSource{name: "s.jpg", data: jpegBytes(t, 16, 8)})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(fx.repo.PackDir(pack.ID), "textures", "items", "sword.png"), dest)
	img := decodePNGFile(t, dest)
	require.Equal(t, 16, img.Bounds().Dx())
	require.Equal(t, 8, img.Bounds().Dy())

	meta, err := fx.repo.GetPack(fx.ctx, pack.ID)
	require.NoError(t, err)
	require.Greater(t, meta.ModifiedAt, pack.ModifiedAt)

	// Nested directories are created on demand
	_, err = fx.repo.ReplaceTexture(fx.ctx, pack.ID, "textures/entity/chest/normal.png", bytesSource{data: pngBytes(t, 4, 4)})
	require.NoError(t, err)

	_, err = fx.repo.ReplaceTexture(fx.ctx, pack.ID, "../escape.png", bytesSource{data: pngBytes(t, 1, 1)})
	require.True(t, IsValidation(err))
	_, err = fx.repo.ReplaceTexture(fx.ctx, "missing", "textures/blocks/a.png", bytesSource{data: pngBytes(t, 1, 1)})
	require.True(t, IsNotFound(err))
	_, err = fx.repo.ReplaceTexture(fx.ctx, pack.ID, "textures/blocks/a.png", bytesSource{name: "bad", data: []byte("nope")})
	require.ErrorIs(t, err, ErrIO)
}

func TestReplaceTextureRejectsNonTextureTargets(t *testing.T) {
	fx := newRepoFixture(t)
	pack := fx.createPack(t, "P")
	dir := fx.repo.PackDir(pack.ID)
	_, err := fx.repo.BackupPack(fx.ctx, pack.ID)
	require.NoError(t, err)
	backups, err := fx.repo.ListBackups(fx.ctx, pack.ID)
	require.NoError(t, err)
	require.Len(t, backups, 1)

	for _, rel := range []string{
		MetadataFilename,
		ManifestFilename,
		IconFilename,
		"backup/" + backups[0].Name,
		stagingPrefix + "x/textures/blocks/a.png",
		"textures/a.png",
		"textures/extra/b.png",
		"textures/blocks/notes.txt",
	} {
		_, err := fx.repo.ReplaceTexture(fx.ctx, pack.ID, rel, bytesSource{data: pngBytes(t, 2, 2)})
		require.True(t, IsValidation(err), rel)
	}

	got, err := fx.repo.GetPack(fx.ctx, pack.ID)
	require.NoError(t, err)
	require.Equal(t, pack.Name, got.Name)
	require.Equal(t, pack.ModifiedAt, got.ModifiedAt)
	_, err = fx.repo.ReadManifest(fx.ctx, pack.ID)
	require.NoError(t, err)
	require.NoFileExists(t, filepath.Join(dir, IconFilename))
	packs, err := fx.repo.ListPacks(fx.ctx)
	require.NoError(t, err)
	require.Len(t, packs, 1)
	readZip(t, backups[0].Path)
}

func TestReplaceTextureWithoutMetadataStillSucceeds(t *testing.T) {
	fx := newRepoFixture(t)
	pack := fx.createPack(t, "P")
	require.NoError(t, os.Remove(filepath.Join(fx.repo.PackDir(pack.ID), MetadataFilename)))

	_, err := fx.repo.ReplaceTexture(fx.ctx, pack.ID, "textures/blocks/a.png", bytesSource{data: pngBytes(t, 2, 2)})
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(fx.repo.PackDir(pack.ID), MetadataFilename))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestAddTextureNeverOverwrites(t *testing.T) {
	fx := newRepoFixture(t)
	pack := fx.createPack(t, "P")

	first, err := fx.repo.AddTexture(fx.ctx, pack.ID, CategoryMisc, bytesSource{data: pngBytes(t, 2, 2)})
	require.NoError(t, err)
	second, err := fx.repo.AddTexture(fx.ctx, pack.ID, CategoryMisc, bytesSource{data: pngBytes(t, 3, 3)})
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	stamp := fx.clock.Now().UnixMilli()
	require.Equal(t, fmt.Sprintf("texture_%d.png", stamp), filepath.Base(first))
	require.Equal(t, fmt.Sprintf("texture_%d_1.png", stamp), filepath.Base(second))
	require.Equal(t, 2, decodePNGFile(t, first).Bounds().Dx())

	items, err := fx.repo.ListTextures(fx.ctx, pack.ID, CategoryMisc)
	require.NoError(t, err)
	require.Len(t, items, 2)

	_, err = fx.repo.AddTexture(fx.ctx, pack.ID, CategoryPainting, bytesSource{data: pngBytes(t, 2, 2)})
	require.True(t, IsValidation(err))
}

func TestUpdateIcon(t *testing.T) {
	fx := newRepoFixture(t)
	pack := fx.createPack(t, "P")

	dest, err := fx.repo.UpdateIcon(fx.ctx, pack.ID, bytesSource{name: "wide.png", data: pngBytes(t, 500, 300)})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(fx.repo.PackDir(pack.ID), IconFilename), dest)
	img := decodePNGFile(t, dest)
	require.Equal(t, 128, img.Bounds().Dx())
	require.Equal(t, 128, img.Bounds().Dy())

	meta, err := fx.repo.GetPack(fx.ctx, pack.ID)
	require.NoError(t, err)
	require.NotNil(t, meta.IconPath)
	require.Equal(t, dest, *meta.IconPath)

	_, err = fx.repo.UpdateIcon(fx.ctx, "missing", bytesSource{data: pngBytes(t, 1, 1)})
	require.True(t, IsNotFound(err))
}

func TestDeleteTexture(t *testing.T) {
	fx := newRepoFixture(t)
	pack := fx.createPack(t, "P")
	dest, err := fx.repo.ReplaceTexture(fx.ctx, pack.ID, "textures/gui/bar.png", bytesSource{data: pngBytes(t, 2, 2)})
	require.NoError(t, err)

	require.NoError(t, fx.repo.DeleteTexture(fx.ctx, pack.ID, "textures/gui/bar.png"))
	require.NoFileExists(t, dest)
	require.NoError(t, fx.repo.DeleteTexture(fx.ctx, pack.ID, "textures/gui/bar.png"))

	err = fx.repo.DeleteTexture(fx.ctx, pack.ID, ManifestFilename)
	require.True(t, IsValidation(err))
	require.FileExists(t, filepath.Join(fx.repo.PackDir(pack.ID), ManifestFilename))
}

func readZip(t *testing.T, path string) map[string][]byte {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()
	files := map[string][]byte{}
	for _, f := range zr.File {
		r, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(r)
		require.NoError(t, err)
		require.NoError(t, r.Close())
		files[f.Name] = data
	}
	return files
}

func packFiles(t *testing.T, dir string) map[string][]byte {
	t.Helper()
	files := map[string][]byte{}
	require.NoError(t, filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		files[filepath.ToSlash(rel)] = data
		return err
	}))
	return files
}

func TestExportPackReproducesTree(t *testing.T) {
	fx := newRepoFixture(t)
	pack := fx.createPack(t, "P")
	_, err := fx.repo.ReplaceTexture(fx.ctx, pack.ID, "textures/blocks/a.png", bytesSource{data: pngBytes(t, 3, 3)})
	require.NoError(t, err)
	_, err = fx.repo.UpdateIcon(fx.ctx, pack.ID, bytesSource{data: pngBytes(t, 10, 10)})
	require.NoError(t, err)

	out := t.TempDir()
	first := filepath.Join(out, "first.mcpack")
	second := filepath.Join(out, "second.mcpack")
	var entries []string
	require.NoError(t, fx.repo.ExportPack(fx.ctx, pack.ID, first, OnExportEntry(func(n string) { entries = append(entries, n) })))
	require.NoError(t, fx.repo.ExportPack(fx.ctx, pack.ID, second))

	want := packFiles(t, fx.repo.PackDir(pack.ID))
	got := readZip(t, first)
	require.Equal(t, want, got)
	require.Equal(t, got, readZip(t, second))
	require.True(t, sort.StringsAreSorted(entries))
	require.Len(t, entries, len(want))

	listed, err := fx.repo.ExportEntries(fx.ctx, pack.ID)
	require.NoError(t, err)
	require.Equal(t, entries, listed)

	var buf bytes.Buffer
	require.NoError(t, fx.repo.WriteExport(fx.ctx, pack.ID, &buf))
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, len(want))

	require.True(t, IsNotFound(fx.repo.ExportPack(fx.ctx, "missing", filepath.Join(out, "x.mcpack"))))
}

func TestExportPackHonoursIgnoreFile(t *testing.T) {
	fx := newRepoFixture(t)
	pack := fx.createPack(t, "P")
	dir := fx.repo.PackDir(pack.ID)
	require.NoError(t, os.WriteFile(filepath.Join(dir, IgnoreFilename), []byte("backup/\n"+MetadataFilename+"\n"), 0o644))
	_, err := fx.repo.BackupPack(fx.ctx, pack.ID)
	require.NoError(t, err)

	entries, err := fx.repo.ExportEntries(fx.ctx, pack.ID)
	require.NoError(t, err)
	require.Equal(t, []string{IgnoreFilename, ManifestFilename}, entries)
}

func TestDeletePack(t *testing.T) {
	fx := newRepoFixture(t)
	pack := fx.createPack(t, "P")
	require.NoError(t, fx.repo.DeletePack(fx.ctx, pack.ID))
	require.NoDirExists(t, fx.repo.PackDir(pack.ID))
	require.NoError(t, fx.repo.DeletePack(fx.ctx, pack.ID))
	require.NoError(t, fx.repo.DeletePack(fx.ctx, "never-existed"))

	packs, err := fx.repo.ListPacks(fx.ctx)
	require.NoError(t, err)
	require.Empty(t, packs)

	require.True(t, IsValidation(fx.repo.DeletePack(fx.ctx, "..")))
	require.DirExists(t, fx.root)
}

func TestResetPack(t *testing.T) {
	fx := newRepoFixture(t)
	pack := fx.createPack(t, "P")
	dir := fx.repo.PackDir(pack.ID)
	_, err := fx.repo.ReplaceTexture(fx.ctx, pack.ID, "textures/blocks/a.png", bytesSource{data: pngBytes(t, 2, 2)})
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "textures", "extra"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "textures", "extra", "b.png"), pngBytes(t, 2, 2), 0o644))
	_, err = fx.repo.UpdateIcon(fx.ctx, pack.ID, bytesSource{data: pngBytes(t, 2, 2)})
	require.NoError(t, err)

	require.NoError(t, fx.repo.ResetPack(fx.ctx, pack.ID))
	require.NoFileExists(t, filepath.Join(dir, "textures", "blocks", "a.png"))
	require.NoDirExists(t, filepath.Join(dir, "textures", "extra"))
	for _, d := range DefaultLayout.Dirs() {
		require.DirExists(t, filepath.Join(dir, filepath.FromSlash(d)))
	}
	require.FileExists(t, filepath.Join(dir, IconFilename))
	require.FileExists(t, filepath.Join(dir, ManifestFilename))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		require.NotContains(t, e.Name(), stagingPrefix)
	}

	require.True(t, IsNotFound(fx.repo.ResetPack(fx.ctx, "missing")))
}

func TestBackupPackRetainsFiveNewest(t *testing.T) {
	fx := newRepoFixture(t)
	pack := fx.createPack(t, "P")
	_, err := fx.repo.ReplaceTexture(fx.ctx, pack.ID, "textures/blocks/a.png", bytesSource{data: pngBytes(t, 2, 2)})
	require.NoError(t, err)

	var created []string
	for i := 0; i < 7; i++ {
		fx.clock.Advance(time.Second)
		path, err := fx.repo.BackupPack(fx.ctx, pack.ID)
		require.NoError(t, err)
		created = append(created, filepath.Base(path))
	}

	backups, err := fx.repo.ListBackups(fx.ctx, pack.ID)
	require.NoError(t, err)
	require.Len(t, backups, MaxBackups)
	var names []string
	for _, b := range backups {
		names = append(names, b.Name)
	}
	require.ElementsMatch(t, created[2:], names)

	files := readZip(t, backups[0].Path)
	require.Contains(t, files, "textures/blocks/a.png")
	require.NotContains(t, files, ManifestFilename)
}

func TestBackupPackPrunesByModTime(t *testing.T) {
	fx := newRepoFixture(t)
	pack := fx.createPack(t, "P")

	var created []string
	for i := 0; i < MaxBackups; i++ {
		fx.clock.Advance(time.Second)
		path, err := fx.repo.BackupPack(fx.ctx, pack.ID)
		require.NoError(t, err)
		created = append(created, path)
	}
	// The oldest name gets the most recent mtime; the rest keep name order
	base := time.Now().Add(-time.Hour)
	for i, path := range created {
		mtime := base.Add(time.Duration(i) * time.Minute)
		if i == 0 {
			mtime = base.Add(30 * time.Minute)
		}
		require.NoError(t, os.Chtimes(path, mtime, mtime))
	}

	fx.clock.Advance(time.Second)
	newest, err := fx.repo.BackupPack(fx.ctx, pack.ID)
	require.NoError(t, err)

	require.FileExists(t, created[0])
	require.NoFileExists(t, created[1])
	backups, err := fx.repo.ListBackups(fx.ctx, pack.ID)
	require.NoError(t, err)
	require.Len(t, backups, MaxBackups)
	require.Equal(t, filepath.Base(newest), backups[0].Name)
	require.Equal(t, filepath.Base(created[0]), backups[1].Name)
}

func TestRestoreBackupKeepsNonCategoryTextures(t *testing.T) {
	fx := newRepoFixture(t)
	pack := fx.createPack(t, "P")
	dir := fx.repo.PackDir(pack.ID)
	extra := filepath.Join(dir, "textures", "terrain_texture.json")
	require.NoError(t, os.WriteFile(extra, []byte("{}"), 0o644))
	backup, err := fx.repo.BackupPack(fx.ctx, pack.ID)
	require.NoError(t, err)

	require.NoError(t, fx.repo.RestoreBackup(fx.ctx, pack.ID, filepath.Base(backup)))
	require.FileExists(t, extra)
}

func TestBackupNamesAreUnique(t *testing.T) {
	fx := newRepoFixture(t)
	pack := fx.createPack(t, "P")
	a, err := fx.repo.BackupPack(fx.ctx, pack.ID)
	require.NoError(t, err)
	b, err := fx.repo.BackupPack(fx.ctx, pack.ID)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestRestoreBackup(t *testing.T) {
	fx := newRepoFixture(t)
	pack := fx.createPack(t, "P")
	dir := fx.repo.PackDir(pack.ID)
	_, err := fx.repo.ReplaceTexture(fx.ctx, pack.ID, "textures/blocks/a.png", bytesSource{data: pngBytes(t, 2, 2)})
	require.NoError(t, err)
	backup, err := fx.repo.BackupPack(fx.ctx, pack.ID)
	require.NoError(t, err)

	require.NoError(t, fx.repo.ResetPack(fx.ctx, pack.ID))
	_, err = fx.repo.ReplaceTexture(fx.ctx, pack.ID, "textures/items/b.png", bytesSource{data: pngBytes(t, 2, 2)})
	require.NoError(t, err)

	require.NoError(t, fx.repo.RestoreBackup(fx.ctx, pack.ID, filepath.Base(backup)))
	require.FileExists(t, filepath.Join(dir, "textures", "blocks", "a.png"))
	require.NoFileExists(t, filepath.Join(dir, "textures", "items", "b.png"))
	require.DirExists(t, filepath.Join(dir, "textures", "items"))

	require.True(t, IsValidation(fx.repo.RestoreBackup(fx.ctx, pack.ID, "backup_1.zip")))
	require.True(t, IsValidation(fx.repo.RestoreBackup(fx.ctx, pack.ID, "../manifest.json")))
}

func TestConcurrentAddsOnOnePack(t *testing.T) {
	fx := newRepoFixture(t)
	pack := fx.createPack(t, "P")
	data := pngBytes(t, 2, 2)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fx.repo.AddTexture(fx.ctx, pack.ID, CategoryBlocks, bytesSource{data: data})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	items, err := fx.repo.ListTextures(fx.ctx, pack.ID, CategoryBlocks)
	require.NoError(t, err)
	require.Len(t, items, 10)

	meta, err := fx.repo.GetPack(fx.ctx, pack.ID)
	require.NoError(t, err)
	require.GreaterOrEqual(t, meta.ModifiedAt, pack.ModifiedAt+10)
	require.Equal(t, 0, fx.repo.locks.size())
}

func TestOperationsHonourCancelledContext(t *testing.T) {
	fx := newRepoFixture(t)
	pack := fx.createPack(t, "P")
	unlock, err := fx.repo.locks.acquire(fx.ctx, pack.ID)
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithCancel(fx.ctx)
	cancel()
	_, err = fx.repo.BackupPack(ctx, pack.ID)
	require.ErrorIs(t, err, context.Canceled)
}

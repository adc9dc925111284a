package cmd

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/packwiz/texwiz/core"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func TestSortPacks(t *testing.T) {
	packs := []core.Pack{
		{ID: "a", Name: "beta", Version: core.SemVer{1, 10, 0}, ModifiedAt: 10},
		{ID: "b", Name: "Alpha", Version: core.SemVer{1, 9, 0}, ModifiedAt: 30},
		{ID: "c", Name: "gamma", Version: core.SemVer{2, 0, 0}, ModifiedAt: 20},
	}
	ids := func() []string {
		out := make([]string, len(packs))
		for i, p := range packs {
			out[i] = p.ID
		}
		return out
	}

	require.NoError(t, sortPacks(packs, "name"))
	require.Equal(t, []string{"b", "a", "c"}, ids())
	require.NoError(t, sortPacks(packs, "version"))
	require.Equal(t, []string{"c", "a", "b"}, ids())
	require.NoError(t, sortPacks(packs, "modified"))
	require.Equal(t, []string{"b", "c", "a"}, ids())
	require.Error(t, sortPacks(packs, "size"))
}

func TestFilterAndMatchTextures(t *testing.T) {
	items := []core.TextureItem{
		{Name: "diamond_sword", DisplayName: "Diamond Sword"},
		{Name: "iron_sword", DisplayName: "Iron Sword"},
		{Name: "oak_log", DisplayName: "Oak Log"},
	}
	found := filterTextures(items, "sword")
	require.Len(t, found, 2)
	require.Len(t, filterTextures(items, ""), 3)
	require.Empty(t, filterTextures(items, "zzz"))

	matched, err := matchTextures(items, `^(?!iron).*_sword$`)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	require.Equal(t, "diamond_sword", matched[0].Name)

	_, err = matchTextures(items, `(`)
	require.Error(t, err)
}

func TestExpandImageArgs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.JPG", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0o755))
	single := filepath.Join(t.TempDir(), "single.txt")
	require.NoError(t, os.WriteFile(single, []byte("x"), 0o644))

	files, err := expandImageArgs([]string{dir, single}, "*.{png,jpg,jpeg,PNG,JPG,JPEG}")
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "a.JPG"), filepath.Join(dir, "b.png"), single}, files)

	_, err = expandImageArgs([]string{filepath.Join(dir, "missing")}, "*")
	require.Error(t, err)
	_, err = expandImageArgs([]string{dir}, "[")
	require.Error(t, err)
}

type pngSource struct{}

func (pngSource) Open() (io.ReadCloser, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		return nil, err
	}
	return io.NopCloser(&buf), nil
}

func (pngSource) String() string { return "test.png" }

func TestServeHandler(t *testing.T) {
	ctx := context.Background()
	logger, _ := test.NewNullLogger()
	repo, err := core.NewRepository(filepath.Join(t.TempDir(), "packs"), core.WithLogger(logger))
	require.NoError(t, err)
	pack, err := repo.CreatePack(ctx, "Served <Pack>", "")
	require.NoError(t, err)
	_, err = repo.ReplaceTexture(ctx, pack.ID, "textures/blocks/stone.png", pngSource{})
	require.NoError(t, err)

	srv := httptest.NewServer(newServeHandler(repo))
	defer srv.Close()

	res, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.NoError(t, res.Body.Close())
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, string(body), "Served &lt;Pack&gt;")
	require.Contains(t, string(body), "/"+pack.ID+".mcpack")

	res, err = http.Get(srv.URL + "/" + pack.ID + ".mcpack")
	require.NoError(t, err)
	body, err = io.ReadAll(res.Body)
	require.NoError(t, err)
	require.NoError(t, res.Body.Close())
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "application/zip", res.Header.Get("Content-Type"))
	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	require.Contains(t, names, "textures/blocks/stone.png")
	require.Contains(t, names, core.ManifestFilename)

	res, err = http.Get(srv.URL + "/packs/" + pack.ID + "/" + core.ManifestFilename)
	require.NoError(t, err)
	require.NoError(t, res.Body.Close())
	require.Equal(t, http.StatusOK, res.StatusCode)

	for _, p := range []string{"/missing.mcpack", "/packs/missing/manifest.json", "/favicon.ico"} {
		res, err = http.Get(srv.URL + p)
		require.NoError(t, err)
		require.NoError(t, res.Body.Close())
		require.Equal(t, http.StatusNotFound, res.StatusCode, p)
	}
}

func TestWatchRequiresAutoSave(t *testing.T) {
	logger, _ := test.NewNullLogger()
	root := filepath.Join(t.TempDir(), "packs")

	repo, err := core.NewRepository(root, core.WithLogger(logger))
	require.NoError(t, err)
	_, err = newWatchSaver(repo, 0)
	require.Error(t, err)

	repo, err = core.NewRepository(root, core.WithLogger(logger), core.WithSettings(core.Settings{AutoSave: true}))
	require.NoError(t, err)
	saver, err := newWatchSaver(repo, 0)
	require.NoError(t, err)
	defer saver.Close()
	require.Equal(t, core.DefaultAutoSaveDelay, saver.Delay)
}

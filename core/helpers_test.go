package core

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.UnixMilli(1700000000000)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type bytesSource struct {
	name string
	data []byte
}

func (b bytesSource) Open() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(b.data)), nil }
func (b bytesSource) String() string               { return b.name }

func solidImage(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solidImage(w, h, color.NRGBA{R: 200, G: 40, B: 40, A: 255})))
	return buf.Bytes()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solidImage(w, h, color.RGBA{R: 10, G: 120, B: 200, A: 255}), nil))
	return buf.Bytes()
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, pngBytes(t, w, h), 0o644))
}

func decodePNGFile(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	return img
}

func nullLogger() *logrus.Logger {
	l, _ := test.NewNullLogger()
	return l
}

type repoFixture struct {
	repo  *Repository
	clock *fakeClock
	root  string
	ctx   context.Context
}

func newRepoFixture(t *testing.T, opts ...Option) *repoFixture {
	t.Helper()
	clock := newFakeClock()
	root := filepath.Join(t.TempDir(), "packs")
	opts = append([]Option{WithClock(clock), WithLogger(nullLogger())}, opts...)
	repo, err := NewRepository(root, opts...)
	require.NoError(t, err)
	return &repoFixture{
		repo:  repo,
		clock: clock,
		root:  root,
		ctx:   context.Background(),
	}
}

func (fx *repoFixture) createPack(t *testing.T, name string) Pack {
	t.Helper()
	pack, err := fx.repo.CreatePack(fx.ctx, name, "desc of "+name)
	require.NoError(t, err)
	return pack
}

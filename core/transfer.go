package core

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	// Formats accepted as texture sources
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	// IconFilename is the pack icon at the pack root
	IconFilename = "pack_icon.png"
	// IconSize is the width and height every pack icon is stretched to
	IconSize = 128
)

// ImageSource is an image supplied from outside the pack
type ImageSource interface {
	Open() (io.ReadCloser, error)
	String() string
}

// FileSource is an image file on the local filesystem
type FileSource string

func (f FileSource) Open() (io.ReadCloser, error) { return os.Open(string(f)) }
func (f FileSource) String() string               { return string(f) }

// TransferOptions controls how Transfer re-encodes an image.
// Width and Height both set means scale to exactly that size, ignoring aspect ratio.
type TransferOptions struct {
	Width       int
	Height      int
	HighQuality bool
}

// Transfer decodes src, optionally scales it, and writes it as PNG to dest.
// Parent directories are created and an existing file at dest is replaced atomically.
// The decoded image is not retained past the call.
func Transfer(src ImageSource, dest string, opts TransferOptions) error {
	img, err := decodeImage(src)
	if err != nil {
		return err
	}
	if opts.Width > 0 && opts.Height > 0 {
		img = scaleImage(img, opts.Width, opts.Height, opts.HighQuality)
	}

	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	if opts.HighQuality {
		enc.CompressionLevel = png.BestCompression
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return writeFileAtomic(dest, func(w io.Writer) error {
		return enc.Encode(w, img)
	})
}

func decodeImage(src ImageSource) (image.Image, error) {
	r, err := src.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", src, err)
	}
	return img, nil
}

func scaleImage(src image.Image, width, height int, highQuality bool) image.Image {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	var scaler draw.Scaler = draw.ApproxBiLinear
	if highQuality {
		scaler = draw.CatmullRom
	}
	scaler.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Package raster converts dataset images to and from standard raster files
// for manual inspection. The classification packages never import it.
package raster

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // registers JPEG decoding
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nfnt/resize"

	"github.com/hupe1980/ocrknn/idx"
)

// Options configures raster conversion.
type Options struct {
	// Scale enlarges exported images by an integer factor (nearest neighbor).
	Scale int

	// Invert flips intensities on import. Dataset digits are light on a dark
	// background; scanned or drawn digits usually are the opposite.
	Invert bool

	// Interpolation is used when an imported picture is resized to the dataset geometry.
	Interpolation resize.InterpolationFunction
}

// DefaultOptions contains the default options.
var DefaultOptions = Options{
	Scale:         1,
	Interpolation: resize.Lanczos3,
}

func buildOptions(optFns []func(o *Options)) Options {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Scale < 1 {
		opts.Scale = 1
	}
	return opts
}

// ToGray converts a dataset image to an 8-bit grayscale image.
func ToGray(img idx.Image) (*image.Gray, error) {
	gray := image.NewGray(image.Rect(0, 0, img.Cols, img.Rows))
	if len(img.Pixels) != img.Rows {
		return nil, fmt.Errorf("raster: image has %d rows, want %d", len(img.Pixels), img.Rows)
	}
	for y, row := range img.Pixels {
		if len(row) != img.Cols {
			return nil, fmt.Errorf("raster: row %d has %d columns, want %d", y, len(row), img.Cols)
		}
		copy(gray.Pix[y*gray.Stride:], row)
	}
	return gray, nil
}

// FromImage converts any image to a rows x cols dataset image.
func FromImage(src image.Image, rows, cols int, optFns ...func(o *Options)) idx.Image {
	opts := buildOptions(optFns)

	b := src.Bounds()
	if b.Dx() != cols || b.Dy() != rows {
		src = resize.Resize(uint(cols), uint(rows), src, opts.Interpolation)
		b = src.Bounds()
	}

	img := idx.NewImage(rows, cols)
	for y := range rows {
		for x := range cols {
			v := color.GrayModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.Gray).Y
			if opts.Invert {
				v = 255 - v
			}
			img.Pixels[y][x] = v
		}
	}
	return img
}

// Encode writes img as a grayscale PNG.
func Encode(w io.Writer, img idx.Image, optFns ...func(o *Options)) error {
	opts := buildOptions(optFns)

	gray, err := ToGray(img)
	if err != nil {
		return err
	}

	var out image.Image = gray
	if opts.Scale > 1 {
		out = resize.Resize(uint(img.Cols*opts.Scale), uint(img.Rows*opts.Scale), gray, resize.NearestNeighbor)
	}
	return png.Encode(w, out)
}

// Decode reads any registered raster format and converts it to a rows x cols image.
func Decode(r io.Reader, rows, cols int, optFns ...func(o *Options)) (idx.Image, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return idx.Image{}, fmt.Errorf("raster: decode: %w", err)
	}
	return FromImage(src, rows, cols, optFns...), nil
}

// WritePNG renders img to a PNG file at path.
func WritePNG(path string, img idx.Image, optFns ...func(o *Options)) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return Encode(f, img, optFns...)
}

// ReadPNG reads a raster file and converts it to a rows x cols image.
func ReadPNG(path string, rows, cols int, optFns ...func(o *Options)) (idx.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return idx.Image{}, err
	}
	defer f.Close()

	return Decode(f, rows, cols, optFns...)
}

// ExportAll writes every image as <index>.png into dir, creating dir if needed.
func ExportAll(dir string, images []idx.Image, optFns ...func(o *Options)) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for i, img := range images {
		path := filepath.Join(dir, strconv.Itoa(i)+".png")
		if err := WritePNG(path, img, optFns...); err != nil {
			return fmt.Errorf("raster: export image %d: %w", i, err)
		}
	}
	return nil
}

package idx

import "fmt"

// Magic numbers written by the encoders: unsigned byte payload with 3 or 1 dimensions.
const (
	ImageMagic uint32 = 0x00000803
	LabelMagic uint32 = 0x00000801
)

const (
	imageHeaderSize = 16
	labelHeaderSize = 8

	// maxImageSize bounds rows*cols so a corrupt header cannot request an
	// absurd per-record allocation.
	maxImageSize = 1<<31 - 1
)

// Header holds the header fields exactly as stored on disk.
// Rows and Cols are zero for label files.
type Header struct {
	Magic uint32
	Count uint32
	Rows  uint32
	Cols  uint32
}

// Label is a single class label.
type Label uint8

// Image is a rows x cols grid of 8-bit intensities in row-major order.
type Image struct {
	Rows   int
	Cols   int
	Pixels [][]uint8
}

// NewImage creates a zeroed image backed by a single contiguous buffer.
func NewImage(rows, cols int) Image {
	return imageFrom(make([]uint8, rows*cols), rows, cols)
}

// imageFrom slices buf into rows without copying.
func imageFrom(buf []uint8, rows, cols int) Image {
	pixels := make([][]uint8, rows)
	for r := range rows {
		pixels[r] = buf[r*cols : (r+1)*cols : (r+1)*cols]
	}
	return Image{Rows: rows, Cols: cols, Pixels: pixels}
}

// Size returns the number of pixels of the image geometry.
func (img Image) Size() int {
	return img.Rows * img.Cols
}

// String returns a short description such as "28x28".
func (img Image) String() string {
	return fmt.Sprintf("%dx%d", img.Rows, img.Cols)
}

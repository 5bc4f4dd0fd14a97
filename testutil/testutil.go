package testutil

import (
	"math/rand"
	"path/filepath"
	"sync"

	"github.com/hupe1980/ocrknn/feature"
	"github.com/hupe1980/ocrknn/idx"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Vectors generates random feature vectors with intensities in [0, levels).
// A small number of levels produces many exactly equal distances.
// Uses a single backing array for efficiency.
func (r *RNG) Vectors(num, dim, levels int) []feature.Vector {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]uint8, num*dim)
	vectors := make([]feature.Vector, num)

	for i := range num {
		vec := data[i*dim : (i+1)*dim : (i+1)*dim]
		for j := range vec {
			vec[j] = uint8(r.rand.Intn(levels))
		}
		vectors[i] = vec
	}

	return vectors
}

// Labels generates random labels in [0, classes).
func (r *RNG) Labels(num, classes int) []idx.Label {
	r.mu.Lock()
	defer r.mu.Unlock()

	labels := make([]idx.Label, num)
	for i := range labels {
		labels[i] = idx.Label(r.rand.Intn(classes))
	}
	return labels
}

// Images generates random images with uniform intensities.
func (r *RNG) Images(num, rows, cols int) []idx.Image {
	r.mu.Lock()
	defer r.mu.Unlock()

	images := make([]idx.Image, num)
	for i := range images {
		img := idx.NewImage(rows, cols)
		for _, row := range img.Pixels {
			for j := range row {
				row[j] = uint8(r.rand.Intn(256))
			}
		}
		images[i] = img
	}
	return images
}

// Digits generates labeled images clustered by class.
// Every class gets a random black/white prototype; each sample is its
// class prototype with a fraction noise of pixels inverted.
// Labels cycle through the classes so every class is represented.
func (r *RNG) Digits(num, rows, cols, classes int, noise float64) ([]idx.Image, []idx.Label) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prototypes := make([][]uint8, classes)
	for c := range prototypes {
		p := make([]uint8, rows*cols)
		for j := range p {
			if r.rand.Intn(2) == 1 {
				p[j] = 255
			}
		}
		prototypes[c] = p
	}

	images := make([]idx.Image, num)
	labels := make([]idx.Label, num)
	for i := range num {
		class := i % classes
		img := idx.NewImage(rows, cols)
		for y, row := range img.Pixels {
			for x := range row {
				v := prototypes[class][y*cols+x]
				if r.rand.Float64() < noise {
					v = 255 - v
				}
				row[x] = v
			}
		}
		images[i] = img
		labels[i] = idx.Label(class)
	}

	return images, labels
}

// WriteDataset writes images and labels as uncompressed IDX files named
// <name>-images.idx3-ubyte and <name>-labels.idx1-ubyte in dir.
func WriteDataset(dir, name string, images []idx.Image, labels []idx.Label) (string, string, error) {
	imagesPath := filepath.Join(dir, name+"-images.idx3-ubyte")
	labelsPath := filepath.Join(dir, name+"-labels.idx1-ubyte")

	if err := idx.WriteImages(imagesPath, images); err != nil {
		return "", "", err
	}
	if err := idx.WriteLabels(labelsPath, labels); err != nil {
		return "", "", err
	}
	return imagesPath, labelsPath, nil
}

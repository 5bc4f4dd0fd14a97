// Package testutil provides testing utilities for ocrknn.
//
// This package is intended for use in tests and benchmarks only.
// It generates deterministic synthetic images, vectors and labels and
// writes them as IDX datasets.
//
// # Random Data
//
//	rng := testutil.NewRNG(seed)
//	vectors := rng.Vectors(100, 784, 256) // intensities in [0, 256)
//	images, labels := rng.Digits(500, 28, 28, 10, 0.05)
//
// # Datasets on Disk
//
//	imagesPath, labelsPath, err := testutil.WriteDataset(dir, "train", images, labels)
package testutil

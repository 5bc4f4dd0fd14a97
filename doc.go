// Package ocrknn classifies handwritten digit images with a k-nearest-neighbor
// vote over IDX-format datasets.
//
// # Quick Start
//
//	ctx := context.Background()
//	p, _ := ocrknn.New(ocrknn.WithK(7))
//	defer p.Close()
//
//	res, _ := p.Run(ctx,
//	    ocrknn.Source{Name: "train", Images: "train-images.idx3-ubyte", Labels: "train-labels.idx1-ubyte", Limit: 30000},
//	    ocrknn.Source{Name: "test", Images: "t10k-images.idx3-ubyte", Labels: "t10k-labels.idx1-ubyte", Limit: 300},
//	)
//	fmt.Println(res.Predictions, res.Report.Accuracy)
//
// # Pipeline
//
// Each query image is flattened row-major into a vector, compared to every
// reference vector by Euclidean distance, and labeled by a majority vote of
// its k closest references. Ties in distance keep reference order and ties
// in the vote go to the label seen first among the closest references, so
// results are deterministic regardless of the worker count.
//
// The building blocks are usable on their own:
//
//   - idx: IDX file decoding and encoding (plain, gzip, zstd or lz4)
//   - feature: image flattening and geometry checks
//   - distance: squared and true Euclidean distance
//   - knn: neighbor selection, voting and the parallel classifier
//   - eval: accuracy, confusion matrix and misclassified set
//   - dataset: cached, memory-bounded loading of image/label pairs
//   - raster: PNG import and export for inspecting images
//
// Errors returned by a Pipeline are normalized to the sentinels and types in
// this package, so callers can match with errors.Is and errors.As without
// importing the subpackages.
package ocrknn

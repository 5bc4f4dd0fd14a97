// Package knn implements k-nearest-neighbor classification over feature vectors.
//
// For every query the classifier measures the Euclidean distance to each
// reference sample, keeps the k closest (ties broken by reference order)
// and predicts the most frequent label among them. When several labels are
// equally frequent, the one that occurs first in ascending-distance order
// wins.
//
// # Usage
//
//	reference, _ := knn.NewReferenceSet(trainVectors, trainLabels)
//	predictions, err := knn.New(func(o *knn.Options) {
//	    o.Workers = 8
//	}).Classify(ctx, reference, queryVectors, 7)
//
// Queries are independent and are classified concurrently. The reference
// set is only read.
package knn

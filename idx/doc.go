// Package idx decodes and encodes IDX dataset files.
//
// An IDX file is a small big-endian header followed by a flat array of
// fixed-size records:
//
//	images: magic(u32) count(u32) rows(u32) cols(u32) then count*rows*cols bytes
//	labels: magic(u32) count(u32) then count bytes
//
// The magic number is returned in the Header but never validated.
//
// # Reading
//
//	images, err := idx.ReadImages("train-images.idx3-ubyte", 30000)
//	labels, err := idx.ReadLabels("train-labels.idx1-ubyte", 30000)
//
// A positive max caps the number of records produced at min(max, count);
// max <= 0 reads every record the header announces. Files compressed with
// gzip, zstd or lz4 are detected by their leading magic bytes and
// decompressed transparently.
package idx

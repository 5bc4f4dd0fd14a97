// Package conv provides checked integer conversions for on-disk header fields.
//
// IDX headers store counts and dimensions as uint32 while Go code indexes
// with int, which is 32 bits wide on some platforms. These helpers reject
// values that do not survive the conversion.
package conv

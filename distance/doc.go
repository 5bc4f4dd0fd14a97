// Package distance provides distance calculations between feature vectors.
//
// Feature vectors hold unsigned 8-bit intensities. Squared distances are
// accumulated in integers, so two pairs at the same distance compare equal
// exactly and nearest-neighbor ties resolve deterministically.
//
// # Usage
//
//	d, err := distance.Euclidean(a, b) // sqrt(sum((a_i - b_i)^2))
//	sq := distance.SquaredL2(a, b)     // same ordering, no sqrt
package distance

// Package mmap maps dataset files read-only into memory.
//
// The decoder reads a mapping front to back through Reader, so the kernel
// is told to expect sequential access and can read ahead aggressively.
//
//	m, err := mmap.Open("train-images.idx3-ubyte")
//	if err != nil { ... }
//	defer m.Close()
//
//	r := m.Reader()
//
// Unix uses mmap(2) and madvise(2); Windows uses a read-only file view.
// Readers returned by Reader must not be used after Close.
package mmap

package idx

import (
	"context"

	"github.com/hupe1980/ocrknn/resource"
)

// ReserveFunc is called with the payload size in bytes after a header has
// been read and before the payload is allocated. A non-nil error aborts the
// decode. The returned release func is called if decoding fails afterwards;
// on success the reservation belongs to the caller.
type ReserveFunc func(bytes int64) (release func(), err error)

// Options configures how dataset files are opened and decoded.
type Options struct {
	// Context bounds IO rate limiting waits.
	Context context.Context

	// Mmap maps the file into memory instead of reading it through a file handle.
	Mmap bool

	// Controller applies the IO rate limit to raw file reads. May be nil.
	Controller *resource.Controller

	// Reserve accounts for decoded payload memory. May be nil.
	Reserve ReserveFunc

	// Compression selects the container format. CompressionAuto sniffs the
	// leading bytes, which are also the first bytes of the IDX magic; a plain
	// file whose magic happens to look like a compression signature needs
	// CompressionNone.
	Compression Compression
}

// DefaultOptions contains the default options.
var DefaultOptions = Options{
	Context: context.Background(),
}

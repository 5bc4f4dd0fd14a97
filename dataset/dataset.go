// Package dataset loads image/label file pairs into memory.
//
// A Loader decodes IDX files through package idx, caches decoded files in an
// LRU keyed by path and record cap, and accounts decoded payload bytes
// against an optional resource.Controller memory budget. When the budget is
// exhausted the least recently used files are evicted to make room.
//
// The budget covers what the cache holds, not what callers hold. Evicting a
// file releases its reservation even if a Set returned earlier still
// references its images, so memory in use can exceed the limit while such
// Sets are alive.
package dataset

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/ocrknn/idx"
	"github.com/hupe1980/ocrknn/resource"
)

// ErrLabelCountMismatch is returned when a set's image and label files yield different record counts.
var ErrLabelCountMismatch = errors.New("image and label counts differ")

// Source names an image file, its label file and an optional record cap.
type Source struct {
	Name   string
	Images string
	Labels string
	// Limit caps the number of records read from each file; <= 0 reads all.
	Limit int
}

// Set is a decoded dataset.
type Set struct {
	Name   string
	Images []idx.Image
	Labels []idx.Label
}

// Len returns the number of records.
func (s *Set) Len() int {
	return len(s.Images)
}

// Geometry returns the rows and columns of the set's images, or zeros for an empty set.
func (s *Set) Geometry() (rows, cols int) {
	if len(s.Images) == 0 {
		return 0, 0
	}
	return s.Images[0].Rows, s.Images[0].Cols
}

// Options configures a Loader.
type Options struct {
	// CacheSize is the number of decoded files kept in memory. Defaults to 4.
	CacheSize int

	// Mmap reads files through a memory mapping.
	Mmap bool

	// Controller limits memory, concurrent file loads and IO throughput. May be nil.
	// Its memory limit bounds cached bytes only; see the package documentation.
	Controller *resource.Controller

	// Compression overrides compression detection for every file.
	Compression idx.Compression
}

// DefaultOptions contains the default loader options.
var DefaultOptions = Options{
	CacheSize: 4,
}

type kind uint8

const (
	kindImages kind = iota
	kindLabels
)

type cacheKey struct {
	kind  kind
	path  string
	limit int
}

type entry struct {
	images []idx.Image
	labels []idx.Label
	bytes  int64
}

// Loader loads datasets. It is safe for concurrent use.
type Loader struct {
	opts  Options
	cache *lru.Cache[cacheKey, *entry]
}

// NewLoader creates a new Loader.
func NewLoader(optFns ...func(o *Options)) (*Loader, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultOptions.CacheSize
	}

	l := &Loader{opts: opts}

	cache, err := lru.NewWithEvict[cacheKey, *entry](opts.CacheSize, func(_ cacheKey, e *entry) {
		l.opts.Controller.ReleaseMemory(e.bytes)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create dataset cache: %w", err)
	}
	l.cache = cache

	return l, nil
}

// Load decodes the images and labels of src concurrently.
func (l *Loader) Load(ctx context.Context, src Source) (*Set, error) {
	set := &Set{Name: src.Name}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		images, err := l.Images(gctx, src.Images, src.Limit)
		set.Images = images
		return err
	})
	g.Go(func() error {
		labels, err := l.Labels(gctx, src.Labels, src.Limit)
		set.Labels = labels
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(set.Images) != len(set.Labels) {
		return nil, fmt.Errorf("%w: %s has %d images and %d labels", ErrLabelCountMismatch, src.Name, len(set.Images), len(set.Labels))
	}
	return set, nil
}

// LoadPair loads two sources concurrently, typically a training and a test set.
func (l *Loader) LoadPair(ctx context.Context, a, b Source) (*Set, *Set, error) {
	var setA, setB *Set

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		setA, err = l.Load(gctx, a)
		return err
	})
	g.Go(func() (err error) {
		setB, err = l.Load(gctx, b)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return setA, setB, nil
}

// Images decodes up to limit images from path, using the cache.
func (l *Loader) Images(ctx context.Context, path string, limit int) ([]idx.Image, error) {
	e, err := l.load(ctx, cacheKey{kind: kindImages, path: path, limit: limit}, func(opts ...func(*idx.Options)) (*entry, error) {
		images, err := idx.ReadImages(path, limit, opts...)
		if err != nil {
			return nil, err
		}
		var n int64
		for _, img := range images {
			n += int64(img.Size())
		}
		return &entry{images: images, bytes: n}, nil
	})
	if err != nil {
		return nil, err
	}
	return e.images, nil
}

// Labels decodes up to limit labels from path, using the cache.
func (l *Loader) Labels(ctx context.Context, path string, limit int) ([]idx.Label, error) {
	e, err := l.load(ctx, cacheKey{kind: kindLabels, path: path, limit: limit}, func(opts ...func(*idx.Options)) (*entry, error) {
		labels, err := idx.ReadLabels(path, limit, opts...)
		if err != nil {
			return nil, err
		}
		return &entry{labels: labels, bytes: int64(len(labels))}, nil
	})
	if err != nil {
		return nil, err
	}
	return e.labels, nil
}

func (l *Loader) load(ctx context.Context, key cacheKey, read func(...func(*idx.Options)) (*entry, error)) (*entry, error) {
	if e, ok := l.cache.Get(key); ok {
		return e, nil
	}

	rc := l.opts.Controller
	if err := rc.AcquireWorker(ctx); err != nil {
		return nil, err
	}
	defer rc.ReleaseWorker()

	e, err := read(func(o *idx.Options) {
		o.Context = ctx
		o.Mmap = l.opts.Mmap
		o.Controller = rc
		o.Reserve = l.reserve
		o.Compression = l.opts.Compression
	})
	if err != nil {
		return nil, err
	}

	// A concurrent load of the same key may have won; keep one reservation.
	if prev, ok := l.cache.Get(key); ok {
		rc.ReleaseMemory(e.bytes)
		return prev, nil
	}
	l.cache.Add(key, e)
	return e, nil
}

// reserve takes n bytes from the memory budget, evicting cached files until they fit.
func (l *Loader) reserve(n int64) (func(), error) {
	rc := l.opts.Controller
	for {
		err := rc.AcquireMemory(n)
		if err == nil {
			return func() { rc.ReleaseMemory(n) }, nil
		}
		if !errors.Is(err, resource.ErrMemoryLimitExceeded) {
			return nil, err
		}
		if _, _, ok := l.cache.RemoveOldest(); !ok {
			return nil, fmt.Errorf("dataset needs %d bytes: %w", n, err)
		}
	}
}

// Cached returns the number of decoded files currently cached.
func (l *Loader) Cached() int {
	return l.cache.Len()
}

// Close drops every cached file and releases its memory reservation.
func (l *Loader) Close() error {
	l.cache.Purge()
	return nil
}

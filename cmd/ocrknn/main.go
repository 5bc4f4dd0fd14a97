// Command ocrknn classifies the test images of an IDX dataset with a
// k-nearest-neighbor vote over the training images and prints the
// predicted labels followed by the accuracy.
//
// Usage:
//
//	ocrknn [config.yaml]
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/hupe1980/ocrknn"
	"github.com/hupe1980/ocrknn/idx"
	"github.com/hupe1980/ocrknn/raster"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "ocrknn:", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	path, allowMissing := "config.yaml", true
	if len(args) > 0 {
		path, allowMissing = args[0], false
	}

	cfg, err := loadConfig(path, allowMissing)
	if err != nil {
		return err
	}

	compression, err := idx.ParseCompression(cfg.Compression)
	if err != nil {
		return err
	}

	logger, logCloser, err := cfg.logger()
	if err != nil {
		return err
	}
	defer logCloser.Close()

	p, err := ocrknn.New(
		ocrknn.WithK(cfg.K),
		ocrknn.WithWorkers(cfg.Workers),
		ocrknn.WithResourceController(cfg.controller()),
		ocrknn.WithCacheSize(cfg.Cache.Size),
		ocrknn.WithMmap(cfg.Cache.Mmap),
		ocrknn.WithCompression(compression),
		ocrknn.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer p.Close()

	res, err := p.Run(ctx, cfg.source("train", cfg.Train), cfg.source("test", cfg.Test))
	if err != nil {
		return err
	}

	fmt.Fprintln(out, res.Predictions)
	fmt.Fprintln(out, res.Report.Accuracy)

	rasterOpts := func(o *raster.Options) {
		o.Scale = cfg.Debug.Scale
		o.Invert = cfg.Debug.Invert
	}

	if dir := cfg.Debug.ExportDir; dir != "" {
		err := raster.ExportAll(dir, res.Test.Images, rasterOpts)
		logger.LogExport(ctx, dir, len(res.Test.Images), err)
		if err != nil {
			return err
		}
	}

	if query := cfg.Debug.Query; query != "" {
		rows, cols := res.Train.Geometry()
		img, err := raster.ReadPNG(query, rows, cols, rasterOpts)
		if err != nil {
			return err
		}

		labels, err := p.Predict(ctx, res.Train, []idx.Image{img})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %d\n", query, labels[0])
	}

	return nil
}

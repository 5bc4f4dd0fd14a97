package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v2"

	"github.com/hupe1980/ocrknn"
	"github.com/hupe1980/ocrknn/resource"
)

// Config is the command configuration file.
type Config struct {
	DataDir string        `yaml:"data_dir"`
	Train   DatasetConfig `yaml:"train"`
	Test    DatasetConfig `yaml:"test"`

	K       int `yaml:"k"`
	Workers int `yaml:"workers"`

	// Compression is auto, none, gzip, zstd or lz4.
	Compression string `yaml:"compression"`

	Resources struct {
		MemoryLimitBytes   int64 `yaml:"memory_limit_bytes"`
		MaxWorkers         int64 `yaml:"max_workers"`
		IOLimitBytesPerSec int64 `yaml:"io_limit_bytes_per_sec"`
	} `yaml:"resources"`

	Cache struct {
		Size int  `yaml:"size"`
		Mmap bool `yaml:"mmap"`
	} `yaml:"cache"`

	Log struct {
		Level      string `yaml:"level"`
		Format     string `yaml:"format"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
		Compress   bool   `yaml:"compress"`
	} `yaml:"log"`

	Debug struct {
		ExportDir string `yaml:"export_dir"`
		Scale     int    `yaml:"scale"`
		Query     string `yaml:"query"`
		Invert    bool   `yaml:"invert"`
	} `yaml:"debug"`
}

// DatasetConfig names one image/label file pair.
type DatasetConfig struct {
	Images string `yaml:"images"`
	Labels string `yaml:"labels"`
	Limit  int    `yaml:"limit"`
}

func defaultConfig() *Config {
	cfg := &Config{
		DataDir: "data",
		Train: DatasetConfig{
			Images: "train-images.idx3-ubyte",
			Labels: "train-labels.idx1-ubyte",
			Limit:  30000,
		},
		Test: DatasetConfig{
			Images: "t10k-images.idx3-ubyte",
			Labels: "t10k-labels.idx1-ubyte",
			Limit:  300,
		},
		K: ocrknn.DefaultK,
	}
	cfg.Resources.MaxWorkers = 2
	cfg.Cache.Size = 4
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Log.MaxSizeMB = 10
	cfg.Log.MaxBackups = 3
	cfg.Debug.Scale = 1
	return cfg
}

// loadConfig reads path over the defaults. A missing file yields the defaults
// only when allowMissing is set.
func loadConfig(path string, allowMissing bool) (*Config, error) {
	cfg := defaultConfig()

	file, err := os.Open(path)
	if err != nil {
		if allowMissing && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) resolve(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

func (c *Config) source(name string, d DatasetConfig) ocrknn.Source {
	return ocrknn.Source{
		Name:   name,
		Images: c.resolve(d.Images),
		Labels: c.resolve(d.Labels),
		Limit:  d.Limit,
	}
}

func (c *Config) controller() *resource.Controller {
	return resource.NewController(resource.Config{
		MemoryLimitBytes:   c.Resources.MemoryLimitBytes,
		MaxWorkers:         c.Resources.MaxWorkers,
		IOLimitBytesPerSec: c.Resources.IOLimitBytesPerSec,
	})
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("log level %q: %w", s, err)
	}
	return level, nil
}

// logger builds the command logger. Logs go to stderr unless a file is
// configured, in which case they are rotated by size.
func (c *Config) logger() (*ocrknn.Logger, io.Closer, error) {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return nil, nil, err
	}

	var (
		w      io.Writer = os.Stderr
		closer io.Closer = io.NopCloser(nil)
	)
	if c.Log.File != "" {
		lj := &lumberjack.Logger{
			Filename:   c.Log.File,
			MaxSize:    c.Log.MaxSizeMB,
			MaxBackups: c.Log.MaxBackups,
			MaxAge:     c.Log.MaxAgeDays,
			Compress:   c.Log.Compress,
		}
		w, closer = lj, lj
	}

	switch c.Log.Format {
	case "json":
		return ocrknn.NewWriterLogger(w, level, true), closer, nil
	case "text", "":
		return ocrknn.NewWriterLogger(w, level, false), closer, nil
	default:
		return nil, nil, fmt.Errorf("log format %q: want text or json", c.Log.Format)
	}
}

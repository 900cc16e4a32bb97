// Package loader reads tabular files (CSV, TSV, JSON, Parquet) from local
// disk or S3-compatible object storage into a datasource.DataSource.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/johndauphine/tabprof/internal/datasource"
	"github.com/johndauphine/tabprof/internal/logging"
)

// ErrUnsupportedFormat is returned when a file format cannot be determined
// or is not supported.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Format names a supported file format.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatTSV     Format = "tsv"
	FormatJSON    Format = "json"
	FormatParquet Format = "parquet"
)

// Options control how a path is loaded.
type Options struct {
	// Format overrides extension-based detection when set.
	Format string

	// S3 is required for s3:// paths.
	S3 *S3Config
}

// Dataset is a loaded table. Close releases engine buffers.
type Dataset struct {
	Name   string
	Format Format
	Source datasource.DataSource

	release func()
}

// Close releases resources held by the dataset's source.
func (d *Dataset) Close() {
	if d.release != nil {
		d.release()
		d.release = nil
	}
}

// DetectFormat maps a file extension to a Format.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".tsv", ".tab":
		return FormatTSV, nil
	case ".json":
		return FormatJSON, nil
	case ".parquet", ".pq":
		return FormatParquet, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
}

// ParseFormat validates an explicit format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatCSV, FormatTSV, FormatJSON, FormatParquet:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// Load reads path (a local file or s3://bucket/key) into a Dataset.
func Load(ctx context.Context, path string, opts Options) (*Dataset, error) {
	format, err := resolveFormat(path, opts.Format)
	if err != nil {
		return nil, err
	}

	var content readerAtSeeker
	if IsS3URI(path) {
		data, err := fetchS3(ctx, opts.S3, path)
		if err != nil {
			return nil, err
		}
		content = bytes.NewReader(data)
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		content = f
	}

	ds, err := read(ctx, content, format)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	ds.Name = path

	logging.Info("Loaded %s (%s): %d rows, %d columns", path, format, ds.Source.Len(), len(ds.Source.Columns()))
	return ds, nil
}

func resolveFormat(path, explicit string) (Format, error) {
	if explicit != "" {
		return ParseFormat(explicit)
	}
	return DetectFormat(path)
}

type readerAtSeeker interface {
	io.Reader
	io.ReaderAt
	io.Seeker
}

func read(ctx context.Context, r readerAtSeeker, format Format) (*Dataset, error) {
	switch format {
	case FormatCSV:
		return frameDataset(format)(readCSV(r, 0))
	case FormatTSV:
		return frameDataset(format)(readCSV(r, '\t'))
	case FormatJSON:
		return frameDataset(format)(readJSON(r))
	case FormatParquet:
		return readParquet(ctx, r)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

func frameDataset(format Format) func(*datasource.Frame, error) (*Dataset, error) {
	return func(f *datasource.Frame, err error) (*Dataset, error) {
		if err != nil {
			return nil, err
		}
		return &Dataset{Format: format, Source: datasource.NewFrameSource(f)}, nil
	}
}

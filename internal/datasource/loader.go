// Package datasource reads chart series from parquet, xlsx and JSONL files.
package datasource

import (
	"context"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/wandb/wandb/chartsync/internal/chartconfig"
	"github.com/wandb/wandb/chartsync/internal/observability"
	"github.com/wandb/wandb/chartsync/internal/observability/wberrors"
	"github.com/wandb/wandb/chartsync/internal/series"
)

const (
	defaultCacheSize   = 64
	defaultConcurrency = 4
)

// Row is one record of a source, keyed by column name.
//
// Values are int64, float64, string, bool or nil.
type Row map[string]any

type LoaderParams struct {
	Fs     afero.Fs
	Logger *observability.CoreLogger

	// CacheSize is the number of decoded sources kept in memory.
	CacheSize int

	// Concurrency bounds the number of files read at once by LoadAll.
	Concurrency int
}

// Loader reads sources into points.
//
// Decoded sources are cached until the file's size or modification time
// changes, so reloading a document only reads the files that were edited.
type Loader struct {
	fs          afero.Fs
	logger      *observability.CoreLogger
	cache       *lru.Cache
	concurrency int
}

type cacheKey struct {
	source  chartconfig.Source
	modTime time.Time
	size    int64
}

func NewLoader(params LoaderParams) (*Loader, error) {
	if params.Fs == nil {
		params.Fs = afero.NewOsFs()
	}
	if params.Logger == nil {
		params.Logger = observability.NewNoOpLogger()
	}
	if params.CacheSize <= 0 {
		params.CacheSize = defaultCacheSize
	}
	if params.Concurrency <= 0 {
		params.Concurrency = defaultConcurrency
	}

	cache, err := lru.New(params.CacheSize)
	if err != nil {
		return nil, wberrors.Enrichf(err, "datasource: creating cache")
	}

	return &Loader{
		fs:          params.Fs,
		logger:      params.Logger,
		cache:       cache,
		concurrency: params.Concurrency,
	}, nil
}

// Load reads the points of one source.
func (l *Loader) Load(ctx context.Context, src chartconfig.Source) ([]series.Point, error) {
	info, err := l.fs.Stat(src.Path)
	if err != nil {
		return nil, wberrors.Enrichf(err, "datasource: %s", src.Name)
	}

	key := cacheKey{source: src, modTime: info.ModTime(), size: info.Size()}
	if cached, ok := l.cache.Get(key); ok {
		return cached.([]series.Point), nil
	}

	rows, err := l.readRows(ctx, src)
	if err != nil {
		return nil, wberrors.Enrichf(err, "datasource: %s", src.Name)
	}

	points, skipped := toPoints(rows, src)
	if skipped > 0 {
		l.logger.Debug(
			"datasource: skipped rows without x or y",
			"source", src.Name,
			slog.Int("skipped", skipped),
		)
	}

	l.cache.Add(key, points)
	return points, nil
}

// LoadAll reads every source concurrently and returns the points keyed by
// source name.
//
// It fails on the first source that cannot be read.
func (l *Loader) LoadAll(
	ctx context.Context,
	sources []chartconfig.Source,
) (map[string][]series.Point, error) {
	results := make([][]series.Point, len(sources))

	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(l.concurrency)
	for i, src := range sources {
		grp.Go(func() error {
			points, err := l.Load(ctx, src)
			if err != nil {
				return err
			}
			results[i] = points
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	data := make(map[string][]series.Point, len(sources))
	for i, src := range sources {
		data[src.Name] = results[i]
	}
	return data, nil
}

func (l *Loader) readRows(ctx context.Context, src chartconfig.Source) ([]Row, error) {
	f, err := l.fs.Open(src.Path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	switch src.Format {
	case chartconfig.FormatParquet:
		return readParquet(ctx, f)
	case chartconfig.FormatXLSX:
		return readXLSX(f, src.Sheet)
	case chartconfig.FormatJSONL:
		return readJSONL(f)
	default:
		return nil, wberrors.Configf("unsupported format %q", src.Format)
	}
}

// toPoints maps rows to points, skipping rows that lack either coordinate.
//
// Columns other than X and Y are kept in the point's fields.
func toPoints(rows []Row, src chartconfig.Source) ([]series.Point, int) {
	points := make([]series.Point, 0, len(rows))
	skipped := 0

	for _, row := range rows {
		x, okX := toValue(row[src.X], src.XCategory)
		y, okY := toValue(row[src.Y], src.YCategory)
		if !okX || !okY {
			skipped++
			continue
		}

		var fields map[string]any
		for k, v := range row {
			if k == src.X || k == src.Y {
				continue
			}
			if fields == nil {
				fields = make(map[string]any, len(row)-2)
			}
			fields[k] = v
		}

		points = append(points, series.Point{X: x, Y: y, Fields: fields})
	}
	return points, skipped
}

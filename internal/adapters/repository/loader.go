package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/okian/growup/internal/domain/growth"
	"github.com/okian/growup/pkg/logger"
	"github.com/okian/growup/pkg/metrics"
)

// File suffixes of the converted WHO and CDC tables.
const (
	whoSuffix = "_zscores.json"
	cdcSuffix = "_zscores.cdc.json"
)

// indexColumns are checked in order; the first one present keys the row.
var indexColumns = []string{"Length", "Height", "Month", "Week"}

type loader struct {
	fsys        fs.FS
	includeCDC  bool
	concurrency int
	logger      logger.Logger
}

type tableFile struct {
	name string
	path string
	cdc  bool
}

// Open loads the tables found in dir.
func Open(ctx context.Context, dir string, opts ...Option) (*Tables, error) {
	return Load(ctx, os.DirFS(dir), opts...)
}

// Load reads every known table in the root of fsys. WHO tables are always
// loaded; CDC tables only with WithCDC. Files whose name is not part of the
// table vocabulary are skipped.
func Load(ctx context.Context, fsys fs.FS, opts ...Option) (*Tables, error) {
	l := &loader{
		fsys:        fsys,
		concurrency: defaultLoadConcurrency,
		logger:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}

	start := time.Now()
	files, err := l.discover(ctx)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoTables
	}

	var (
		mu     sync.Mutex
		loaded = make(map[string]Rows, len(files))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for _, f := range files {
		f := f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows, err := l.readTable(f)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			if _, dup := loaded[f.name]; dup {
				return fmt.Errorf("%w: %s provided more than once", ErrBadTable, f.name)
			}
			loaded[f.name] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	who, cdc := 0, 0
	for _, f := range files {
		if f.cdc {
			cdc++
		} else {
			who++
		}
		metrics.UpdateTableRows(f.name, len(loaded[f.name]))
	}
	elapsed := time.Since(start)
	metrics.UpdateTablesLoaded(growth.WHO.String(), who)
	metrics.UpdateTablesLoaded(growth.CDC.String(), cdc)
	metrics.UpdateTableLoadDuration(float64(elapsed.Microseconds()) / 1000)

	l.logger.Info(ctx, "reference tables loaded",
		logger.Int("who", who),
		logger.Int("cdc", cdc),
		logger.Bool("cdc_enabled", l.includeCDC),
		logger.Duration("elapsed", elapsed),
	)
	return &Tables{tables: loaded}, nil
}

func (l *loader) discover(ctx context.Context) ([]tableFile, error) {
	entries, err := fs.ReadDir(l.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read table directory: %w", err)
	}

	var files []tableFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		base := e.Name()
		var f tableFile
		switch {
		case strings.HasSuffix(base, cdcSuffix):
			if !l.includeCDC {
				continue
			}
			f = tableFile{name: strings.TrimSuffix(base, cdcSuffix), path: base, cdc: true}
		case strings.HasSuffix(base, whoSuffix):
			f = tableFile{name: strings.TrimSuffix(base, whoSuffix), path: base}
		default:
			continue
		}
		if !growth.KnownTable(f.name) {
			l.logger.Warn(ctx, "skipping unknown reference table", logger.String("file", base))
			continue
		}
		files = append(files, f)
	}
	return files, nil
}

func (l *loader) readTable(f tableFile) (Rows, error) {
	raw, err := fs.ReadFile(l.fsys, f.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	rows, err := ParseTable(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path.Base(f.path), err)
	}
	return rows, nil
}

// ParseTable decodes a JSON array of table rows and indexes it by the operative
// index column. Height keys keep one decimal digit; age keys are whole numbers.
func ParseTable(raw []byte) (Rows, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var records []map[string]any
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadTable, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrBadTable)
	}

	rows := make(Rows, len(records))
	for i, rec := range records {
		key, err := rowKey(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrBadTable, i, err)
		}
		var p growth.LMS
		for col, dst := range map[string]*decimal.Decimal{"L": &p.L, "M": &p.M, "S": &p.S} {
			v, err := number(rec, col)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: %w", ErrBadTable, i, err)
			}
			*dst = v
		}
		if _, dup := rows[key]; dup {
			return nil, fmt.Errorf("%w: duplicate row key %q", ErrBadTable, key)
		}
		rows[key] = p
	}
	return rows, nil
}

func rowKey(rec map[string]any) (string, error) {
	for _, col := range indexColumns {
		if _, ok := rec[col]; !ok {
			continue
		}
		v, err := number(rec, col)
		if err != nil {
			return "", err
		}
		if col == "Length" || col == "Height" {
			return v.StringFixed(1), nil
		}
		if v.IsInteger() {
			return v.Truncate(0).String(), nil
		}
		return v.String(), nil
	}
	return "", fmt.Errorf("none of %v present", indexColumns)
}

func number(rec map[string]any, col string) (decimal.Decimal, error) {
	switch v := rec[col].(type) {
	case json.Number:
		return decimal.NewFromString(v.String())
	case string:
		return decimal.NewFromString(strings.TrimSpace(v))
	case nil:
		return decimal.Zero, fmt.Errorf("missing column %s", col)
	default:
		return decimal.Zero, fmt.Errorf("column %s has unexpected type %T", col, v)
	}
}

// Package table loads the pipe-delimited program dataset.
package table

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/institute"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/record"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/metrics"
)

// DefaultDelimiter separates columns in the source file.
const DefaultDelimiter = '|'

// ErrMissingColumn signals that a required column is absent from the header.
var ErrMissingColumn = errors.New("missing required column")

// column aliases, compared after normalizeHeader.
var (
	instituteAliases = []string{"institute", "institute name"}
	programAliases   = []string{"pg program", "program", "pg program name"}
	categoryAliases  = []string{"category"}
	scoreAliases     = []string{"min gate score", "min score", "minimum gate score"}
)

// Loader reads the dataset from a file.
type Loader struct {
	path       string
	delimiter  rune
	classifier *institute.Classifier
	logger     *zap.Logger
}

// NewLoader creates a Loader. A nil classifier uses the default rules.
func NewLoader(path string, classifier *institute.Classifier, logger *zap.Logger) *Loader {
	if classifier == nil {
		classifier = institute.NewClassifier()
	}
	return &Loader{path: path, delimiter: DefaultDelimiter, classifier: classifier, logger: logger}
}

// WithDelimiter overrides the column separator.
func (l *Loader) WithDelimiter(d rune) *Loader {
	l.delimiter = d
	return l
}

// Load opens and parses the dataset file.
func (l *Loader) Load(ctx context.Context) (record.Table, error) {
	if err := ctx.Err(); err != nil {
		return record.Table{}, fmt.Errorf("load table: %w", err)
	}

	f, err := os.Open(filepath.Clean(l.path))
	if err != nil {
		return record.Table{}, fmt.Errorf("open dataset %s: %w", l.path, err)
	}
	defer func() { _ = f.Close() }()

	tbl, err := l.Parse(f)
	if err != nil {
		return record.Table{}, fmt.Errorf("parse dataset %s: %w", l.path, err)
	}
	return tbl, nil
}

// Parse reads a delimited table from r. The first row is the header.
func (l *Loader) Parse(r io.Reader) (record.Table, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	cr := csv.NewReader(decoded)
	cr.Comma = l.delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return record.Table{}, fmt.Errorf("empty dataset: %w", ErrMissingColumn)
		}
		return record.Table{}, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return record.Table{}, err
	}

	var records []record.Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return record.Table{}, fmt.Errorf("read row: %w", err)
		}
		if len(row) > len(header) {
			line, _ := cr.FieldPos(0)
			return record.Table{}, fmt.Errorf("line %d: expected %d fields, saw %d", line, len(header), len(row))
		}
		if isBlank(row) {
			continue
		}
		for len(row) < len(header) {
			row = append(row, "")
		}
		records = append(records, l.toRecord(header, cols, row))
	}

	return record.NewTable(header, records), nil
}

func (l *Loader) toRecord(header []string, cols columns, row []string) record.Record {
	inst := strings.TrimSpace(row[cols.institute])

	var extra []record.Field
	for i, name := range header {
		if cols.isCore(i) {
			continue
		}
		extra = append(extra, record.Field{Name: name, Value: row[i]})
	}

	return record.New(
		inst,
		strings.TrimSpace(row[cols.program]),
		strings.TrimSpace(row[cols.category]),
		row[cols.score],
		l.classifier.Classify(inst),
		extra,
	)
}

type columns struct {
	institute, program, category, score int
}

func (c columns) isCore(i int) bool {
	return i == c.institute || i == c.program || i == c.category || i == c.score
}

func resolveColumns(header []string) (columns, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		n := normalizeHeader(h)
		if _, dup := idx[n]; !dup {
			idx[n] = i
		}
	}

	find := func(name string, aliases []string) (int, error) {
		for _, a := range aliases {
			if i, ok := idx[a]; ok {
				return i, nil
			}
		}
		return -1, fmt.Errorf("%w: %s", ErrMissingColumn, name)
	}

	var c columns
	var err error
	if c.institute, err = find("Institute", instituteAliases); err != nil {
		return columns{}, err
	}
	if c.program, err = find("PG Program", programAliases); err != nil {
		return columns{}, err
	}
	if c.category, err = find("Category", categoryAliases); err != nil {
		return columns{}, err
	}
	if c.score, err = find("Min GATE Score", scoreAliases); err != nil {
		return columns{}, err
	}
	return c, nil
}

// normalizeHeader lowercases and collapses whitespace.
func normalizeHeader(h string) string {
	return strings.Join(strings.Fields(strings.ToLower(h)), " ")
}

func isBlank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// Cached memoizes the first successful load for the life of the process.
// A failed load is not cached; the next call retries. Safe for concurrent use.
type Cached struct {
	loader *Loader
	logger *zap.Logger

	mu     sync.Mutex
	table  record.Table
	loaded bool
}

// NewCached wraps loader with memoization.
func NewCached(loader *Loader, logger *zap.Logger) *Cached {
	return &Cached{loader: loader, logger: logger}
}

// Table returns the memoized table, loading it on first use.
func (c *Cached) Table(ctx context.Context) (record.Table, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return c.table, nil
	}

	start := time.Now()
	tbl, err := c.loader.Load(ctx)
	if err != nil {
		c.logger.Error("dataset load failed", zap.String("path", c.loader.path), zap.Error(err))
		return record.Table{}, err
	}
	elapsed := time.Since(start)

	metrics.TableLoadDuration.Observe(elapsed.Seconds())
	metrics.TableRows.Set(float64(tbl.Len()))
	c.logger.Info("dataset loaded",
		zap.String("path", c.loader.path),
		zap.Int("rows", tbl.Len()),
		zap.Strings("columns", tbl.Header()),
		zap.Duration("elapsed", elapsed),
	)

	c.table = tbl
	c.loaded = true
	return tbl, nil
}

// Ping reports whether the dataset is loadable.
func (c *Cached) Ping(ctx context.Context) error {
	_, err := c.Table(ctx)
	return err
}

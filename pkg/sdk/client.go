package ccmtfinder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/db/redis"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/institute"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/pipeline"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/program"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/record"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain/selection"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/repository/session"
	"github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/repository/table"
	finderuc "github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/usecase/finder"
	healthuc "github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/usecase/health"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultSessionTTL       = time.Hour
	defaultKeyPrefix        = "ccmt:"
	memorySweepInterval     = time.Minute
)

// finderUseCase is the internal interface for the finder, swapped in tests.
type finderUseCase interface {
	Find(ctx context.Context, sel selection.Selection) (pipeline.Result, error)
	Options(ctx context.Context, sel selection.Selection) (pipeline.Facets, error)
	Info(ctx context.Context) (finderuc.Info, error)
	CreateSession(ctx context.Context, sel selection.Selection) (finderuc.Session, error)
	GetSession(ctx context.Context, id string) (finderuc.Session, error)
	UpdateSession(ctx context.Context, id string, sel selection.Selection) (finderuc.Session, error)
	DeleteSession(ctx context.Context, id string) error
	FindForSession(ctx context.Context, id string) (finderuc.Session, pipeline.Result, error)
}

// sessionBackend is a session store that can be health-checked.
type sessionBackend interface {
	finderuc.SessionStore
	healthuc.Pinger
}

// Client is the ccmtfinder SDK entry point.
type Client struct {
	finder    finderUseCase
	healthSvc healthUseCase
	closers   []func()
	obs       *observer
}

// New loads the dataset and creates a Client.
// The provided context bounds the dataset load and the session store readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		delimiter:  '|',
		strategy:   StrategyExact,
		keyPrefix:  defaultKeyPrefix,
		sessionTTL: defaultSessionTTL,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.dataPath == "" && cfg.dataReader == nil {
		return nil, errors.New("ccmtfinder: dataset required (use WithDataFile or WithDataReader)")
	}

	matcher, err := program.NewMatcher(program.Strategy(cfg.strategy))
	if err != nil {
		return nil, fmt.Errorf("ccmtfinder: %w", err)
	}

	tables, err := loadTable(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sessions, closeSessions, err := createSessions(ctx, cfg)
	if err != nil {
		return nil, err
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		closeSessions()
		return nil, err
	}

	finder := finderuc.New(tables, sessions, pipeline.New(matcher)).WithSourceNote(cfg.sourceNote)

	return &Client{
		finder:    finder,
		healthSvc: healthuc.New(tables, sessions),
		closers:   []func(){closeSessions},
		obs:       obs,
	}, nil
}

// tableSource is a dataset that can be health-checked.
type tableSource interface {
	finderuc.TableSource
	healthuc.Pinger
}

func loadTable(ctx context.Context, cfg *clientConfig) (tableSource, error) {
	loader := table.NewLoader(cfg.dataPath, institute.NewClassifier(), zap.NewNop()).
		WithDelimiter(cfg.delimiter)

	if cfg.dataReader != nil {
		tbl, err := loader.Parse(cfg.dataReader)
		if err != nil {
			return nil, fmt.Errorf("ccmtfinder: parse dataset: %w", err)
		}
		return staticTable{tbl: tbl}, nil
	}

	cached := table.NewCached(loader, zap.NewNop())
	if _, err := cached.Table(ctx); err != nil {
		return nil, fmt.Errorf("ccmtfinder: load dataset: %w", err)
	}
	return cached, nil
}

func createSessions(ctx context.Context, cfg *clientConfig) (sessionBackend, func(), error) {
	switch cfg.driver {
	case "":
		mem := session.NewMemory(cfg.sessionTTL, memorySweepInterval)
		return mem, mem.Close, nil
	case "valkey", "redis":
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("ccmtfinder: create %s store: %w", cfg.driver, err)
		}
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("ccmtfinder: session store not ready: %w", err)
		}
		return session.NewKV(store, cfg.keyPrefix, cfg.sessionTTL), store.Close, nil
	default:
		return nil, nil, fmt.Errorf("ccmtfinder: unknown driver %q", cfg.driver)
	}
}

// Close releases all resources.
func (c *Client) Close() {
	for _, fn := range c.closers {
		fn()
	}
	c.closers = nil
}

// Find runs the filter pipeline for sel.
func (c *Client) Find(ctx context.Context, sel Selection) (res Result, err error) {
	start := time.Now()
	defer func() { c.obs.observe("find", start, err) }()

	dsel, err := sel.toDomain()
	if err != nil {
		return Result{}, err
	}
	out, err := c.finder.Find(ctx, dsel)
	if err != nil {
		return Result{}, fmt.Errorf("find: %w", err)
	}
	return resultFromDomain(out), nil
}

// Options returns the choices valid under sel.
func (c *Client) Options(ctx context.Context, sel Selection) (opts Options, err error) {
	start := time.Now()
	defer func() { c.obs.observe("options", start, err) }()

	dsel, err := sel.toDomain()
	if err != nil {
		return Options{}, err
	}
	facets, err := c.finder.Options(ctx, dsel)
	if err != nil {
		return Options{}, fmt.Errorf("options: %w", err)
	}
	return optionsFromFacets(facets), nil
}

// Info describes the loaded dataset.
func (c *Client) Info(ctx context.Context) (info Info, err error) {
	start := time.Now()
	defer func() { c.obs.observe("info", start, err) }()

	out, err := c.finder.Info(ctx)
	if err != nil {
		return Info{}, fmt.Errorf("info: %w", err)
	}
	return Info{
		Rows:       out.Rows,
		Columns:    out.Columns,
		Strategy:   Strategy(out.Strategy),
		SourceNote: out.SourceNote,
	}, nil
}

// Sessions returns the session service.
func (c *Client) Sessions() *SessionService {
	return &SessionService{svc: c.finder, obs: c.obs}
}

// staticTable serves a table parsed up front.
type staticTable struct {
	tbl record.Table
}

func (s staticTable) Table(_ context.Context) (record.Table, error) { return s.tbl, nil }

func (s staticTable) Ping(_ context.Context) error { return nil }

package ccmtfinder

import (
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	dataPath   string
	dataReader io.Reader
	delimiter  rune
	strategy   Strategy
	sourceNote string

	driver     string // "", "valkey" or "redis"
	addrs      []string
	password   string
	keyPrefix  string
	sessionTTL time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithDataFile loads the dataset from a delimited file.
func WithDataFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.dataPath = path
		c.dataReader = nil
	})
}

// WithDataReader reads the dataset from r once, during New.
func WithDataReader(r io.Reader) Option {
	return optionFunc(func(c *clientConfig) {
		c.dataReader = r
		c.dataPath = ""
	})
}

// WithDelimiter sets the column separator. Default: '|'.
func WithDelimiter(d rune) Option {
	return optionFunc(func(c *clientConfig) {
		c.delimiter = d
	})
}

// WithStrategy selects how quick filters match program names.
// Default: StrategyExact.
func WithStrategy(s Strategy) Option {
	return optionFunc(func(c *clientConfig) {
		c.strategy = s
	})
}

// WithSourceNote sets the data-source note reported by Info.
func WithSourceNote(note string) Option {
	return optionFunc(func(c *clientConfig) {
		c.sourceNote = note
	})
}

// WithValkey keeps sessions in a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis keeps sessions in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithKeyPrefix prefixes session keys in Valkey/Redis. Default: "ccmt:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithSessionTTL sets how long an untouched session lives. Default: 1h.
func WithSessionTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.sessionTTL = ttl
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

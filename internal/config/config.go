package config

import (
	"fmt"
	"time"

	"github.com/soltixdb/varindex/internal/analytics/variability"
	"github.com/soltixdb/varindex/internal/utils"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Indices IndicesConfig `mapstructure:"indices"`
	Batch   BatchConfig   `mapstructure:"batch"`
	Output  OutputConfig  `mapstructure:"output"`
	Queue   QueueConfig   `mapstructure:"queue"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`  // Enable/disable API key authentication
	APIKeys []string `mapstructure:"api_keys"` // List of valid API keys
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`      // Bind address (e.g., 0.0.0.0 for all interfaces)
	HTTPPort        int           `mapstructure:"http_port"` // HTTP server port
	BodyLimitMB     int           `mapstructure:"body_limit_mb"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// IndicesConfig selects the index families and the numeric thresholds of the engine
type IndicesConfig struct {
	Disabled           []string `mapstructure:"disabled"`              // Family names, e.g. "stetson_jkl_time", "kurtosis"
	PairMaxTimeGap     float64  `mapstructure:"pair_max_time_gap"`     // days
	PairMagClip        float64  `mapstructure:"pair_mag_clip"`         // sigma multiple for the clipped J/L
	ScanGap            float64  `mapstructure:"scan_gap"`              // days
	RobustMeanMaxIter  int      `mapstructure:"robust_mean_max_iter"`  // iteration cap
	RobustMeanTol      float64  `mapstructure:"robust_mean_tol"`       // mag
	N3Sigma            float64  `mapstructure:"n3_sigma"`              // deviation significance
	SubWindowMinPoints int      `mapstructure:"sub_window_min_points"` // E_A window size
	MaxObservations    int      `mapstructure:"max_observations"`
	Nmax               int      `mapstructure:"nmax"` // images in the survey, 0 = per-star N
}

// BatchConfig controls the fork-join batch runner
type BatchConfig struct {
	Workers int `mapstructure:"workers"` // 0 = GOMAXPROCS
}

// OutputConfig controls where computed indices go
type OutputConfig struct {
	LogPath     string `mapstructure:"log_path"`    // index log, "-" for stdout
	FormatPath  string `mapstructure:"format_path"` // companion column description, empty to skip
	Compression string `mapstructure:"compression"` // none, snappy
	SQLitePath  string `mapstructure:"sqlite_path"` // empty disables the SQLite store
	QueueSink   bool   `mapstructure:"queue_sink"`  // publish every result on queue.results_subject
}

// QueueConfig represents message queue configuration
type QueueConfig struct {
	Type     string `mapstructure:"type"`     // Queue type: nats (default), redis, kafka, memory
	URL      string `mapstructure:"url"`      // Queue server URL (e.g., nats://localhost:4222, redis://localhost:6379)
	Username string `mapstructure:"username"` // Optional authentication
	Password string `mapstructure:"password"` // Optional authentication

	Compression string `mapstructure:"compression"` // payload compression: none, snappy

	JobsSubject    string `mapstructure:"jobs_subject"`    // lightcurve jobs consumed by the indexer service
	ResultsSubject string `mapstructure:"results_subject"` // computed index sets

	// Redis-specific options
	RedisDB       int    `mapstructure:"redis_db"`       // Redis database number (default: 0)
	RedisStream   string `mapstructure:"redis_stream"`   // Redis stream prefix (default: "varindex")
	RedisGroup    string `mapstructure:"redis_group"`    // Redis consumer group (default: "varindex-group")
	RedisConsumer string `mapstructure:"redis_consumer"` // Redis consumer name (default: hostname)

	// Kafka-specific options
	KafkaBrokers []string `mapstructure:"kafka_brokers"`  // Kafka broker addresses
	KafkaGroupID string   `mapstructure:"kafka_group_id"` // Kafka consumer group ID
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
	TimeFormat string `mapstructure:"time_format"` // RFC3339, Unix, UnixMs, etc
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Indices.Validate(); err != nil {
		return fmt.Errorf("indices config: %w", err)
	}

	if err := c.Batch.Validate(); err != nil {
		return fmt.Errorf("batch config: %w", err)
	}

	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output config: %w", err)
	}

	if err := c.Queue.Validate(); err != nil {
		return fmt.Errorf("queue config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}

	if c.BodyLimitMB < 1 {
		return fmt.Errorf("body_limit_mb must be positive")
	}

	return nil
}

// Validate validates the index selection and thresholds
func (c *IndicesConfig) Validate() error {
	if c.Nmax < 0 {
		return fmt.Errorf("nmax cannot be negative")
	}
	_, err := c.ToOptions()
	return err
}

// ToOptions converts the section into engine options
func (c *IndicesConfig) ToOptions() (variability.Options, error) {
	disabled, err := variability.ParseFamilySet(c.Disabled)
	if err != nil {
		return variability.Options{}, err
	}

	opts := variability.Options{
		Disabled:           disabled,
		PairMaxTimeGap:     c.PairMaxTimeGap,
		PairMagClip:        c.PairMagClip,
		ScanGap:            c.ScanGap,
		RobustMeanMaxIter:  c.RobustMeanMaxIter,
		RobustMeanTol:      c.RobustMeanTol,
		N3Sigma:            c.N3Sigma,
		SubWindowMinPoints: c.SubWindowMinPoints,
		MaxObservations:    c.MaxObservations,
	}
	if err := opts.Validate(); err != nil {
		return variability.Options{}, err
	}
	return opts, nil
}

// Validate validates batch configuration
func (c *BatchConfig) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("batch.workers cannot be negative")
	}
	return nil
}

// Validate validates output configuration
func (c *OutputConfig) Validate() error {
	if c.LogPath == "" {
		return fmt.Errorf("output.log_path is required")
	}

	if c.Compression != "none" && c.Compression != "snappy" {
		return fmt.Errorf("output.compression must be 'none' or 'snappy'")
	}

	return nil
}

// Validate validates queue configuration
func (c *QueueConfig) Validate() error {
	switch utils.QueueType(c.Type) {
	case utils.QueueTypeNATS, utils.QueueTypeRedis, utils.QueueTypeKafka, utils.QueueTypeMemory:
	default:
		return fmt.Errorf("queue.type must be one of: nats, redis, kafka, memory")
	}

	if c.Compression != "" && c.Compression != "none" && c.Compression != "snappy" {
		return fmt.Errorf("queue.compression must be 'none' or 'snappy'")
	}

	if c.JobsSubject == "" || c.ResultsSubject == "" {
		return fmt.Errorf("queue.jobs_subject and queue.results_subject are required")
	}

	if c.JobsSubject == c.ResultsSubject {
		return fmt.Errorf("queue.jobs_subject and queue.results_subject cannot be the same")
	}

	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}

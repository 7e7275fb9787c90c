package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/soltixdb/varindex/internal/analytics/variability"
	"github.com/soltixdb/varindex/internal/utils"
)

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")             // Current directory
		v.AddConfigPath("./configs")     // Project configs directory
		v.AddConfigPath("./config")      // Alternative config directory
		v.AddConfigPath("/etc/varindex") // System-wide config
	}

	// Set defaults
	setDefaults(v)

	// Enable environment variable overrides
	v.SetEnvPrefix("VARINDEX")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; use defaults
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	def := DefaultConfig()

	// Server defaults
	v.SetDefault("server.host", def.Server.Host)
	v.SetDefault("server.http_port", def.Server.HTTPPort)
	v.SetDefault("server.body_limit_mb", def.Server.BodyLimitMB)
	v.SetDefault("server.shutdown_timeout", def.Server.ShutdownTimeout.String())

	// Index defaults
	v.SetDefault("indices.disabled", []string{})
	v.SetDefault("indices.pair_max_time_gap", def.Indices.PairMaxTimeGap)
	v.SetDefault("indices.pair_mag_clip", def.Indices.PairMagClip)
	v.SetDefault("indices.scan_gap", def.Indices.ScanGap)
	v.SetDefault("indices.robust_mean_max_iter", def.Indices.RobustMeanMaxIter)
	v.SetDefault("indices.robust_mean_tol", def.Indices.RobustMeanTol)
	v.SetDefault("indices.n3_sigma", def.Indices.N3Sigma)
	v.SetDefault("indices.sub_window_min_points", def.Indices.SubWindowMinPoints)
	v.SetDefault("indices.max_observations", def.Indices.MaxObservations)
	v.SetDefault("indices.nmax", 0)

	// Batch defaults
	v.SetDefault("batch.workers", 0)

	// Output defaults
	v.SetDefault("output.log_path", def.Output.LogPath)
	v.SetDefault("output.format_path", def.Output.FormatPath)
	v.SetDefault("output.compression", def.Output.Compression)
	v.SetDefault("output.sqlite_path", "")
	v.SetDefault("output.queue_sink", false)

	// Queue defaults
	v.SetDefault("queue.type", def.Queue.Type)
	v.SetDefault("queue.url", def.Queue.URL)
	v.SetDefault("queue.compression", def.Queue.Compression)
	v.SetDefault("queue.jobs_subject", def.Queue.JobsSubject)
	v.SetDefault("queue.results_subject", def.Queue.ResultsSubject)
	v.SetDefault("queue.redis_stream", def.Queue.RedisStream)
	v.SetDefault("queue.redis_group", def.Queue.RedisGroup)
	v.SetDefault("queue.kafka_group_id", def.Queue.KafkaGroupID)

	// Logging defaults
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)
	v.SetDefault("logging.output_path", def.Logging.OutputPath)
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads configuration from file or returns default config
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		// Return default configuration
		return DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	opts := variability.DefaultOptions()
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			HTTPPort:        5580,
			BodyLimitMB:     utils.DefaultBodyLimitMB,
			ShutdownTimeout: utils.DefaultShutdownTimeout,
		},
		Indices: IndicesConfig{
			PairMaxTimeGap:     opts.PairMaxTimeGap,
			PairMagClip:        opts.PairMagClip,
			ScanGap:            opts.ScanGap,
			RobustMeanMaxIter:  opts.RobustMeanMaxIter,
			RobustMeanTol:      opts.RobustMeanTol,
			N3Sigma:            opts.N3Sigma,
			SubWindowMinPoints: opts.SubWindowMinPoints,
			MaxObservations:    opts.MaxObservations,
		},
		Output: OutputConfig{
			LogPath:     "vast_lightcurve_statistics.log",
			FormatPath:  "vast_lightcurve_statistics_format.log",
			Compression: "none",
		},
		Queue: QueueConfig{
			Type:           string(utils.QueueTypeNATS),
			URL:            "nats://localhost:4222",
			Compression:    "none",
			JobsSubject:    utils.DefaultJobsSubject,
			ResultsSubject: utils.DefaultResultsSubject,
			RedisStream:    "varindex",
			RedisGroup:     "varindex-group",
			KafkaGroupID:   "varindex-indexer",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
		},
	}
}

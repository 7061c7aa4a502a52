package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen      string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout     time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
		BaseURL     string        `yaml:"base_url" json:"base_url" jsonschema:"default=http://localhost:8080,description=Public base URL used in RSS links"`
		CorsOrigins []string      `yaml:"cors_origins" json:"cors_origins" jsonschema:"description=Allowed CORS origins for the front-end"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Dataset DatasetConfig `yaml:"dataset" json:"dataset" jsonschema:"description=Dataset and batch file locations"`

	Database struct {
		DSN          string `yaml:"dsn" json:"dsn" jsonschema:"default=file:minepenge.db?cache=shared&mode=rwc&_txlock=immediate,description=Run history database connection string"`
		MaxOpenConns int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=1,description=Maximum number of open connections"`
		HistoryDays  int    `yaml:"history_days" json:"history_days" jsonschema:"default=90,minimum=1,description=Days of run history kept"`
	} `yaml:"database" json:"database" jsonschema:"description=Run history database configuration"`

	Harvest HarvestConfig `yaml:"harvest" json:"harvest" jsonschema:"description=Fetching and processing settings"`

	Scoring struct {
		MinScore float64 `yaml:"min_score" json:"min_score" jsonschema:"default=5.0,minimum=0,description=Minimum relevance score for an article to be kept"`
	} `yaml:"scoring" json:"scoring" jsonschema:"description=Relevance gate"`

	Dedup struct {
		Metric    string  `yaml:"metric" json:"metric" jsonschema:"default=overlap,enum=overlap,enum=jaccard,description=Title similarity metric"`
		Threshold float64 `yaml:"threshold" json:"threshold" jsonschema:"default=0.8,minimum=0,maximum=1,description=Title similarity above which articles are duplicates"`
	} `yaml:"dedup" json:"dedup" jsonschema:"description=Duplicate detection"`

	Lexicon string `yaml:"lexicon" json:"lexicon" jsonschema:"description=Path to an external keyword lexicon, embedded default if empty"`

	Sources []SourceConfig `yaml:"sources" json:"sources" jsonschema:"description=Source adapters, built-in list if empty"`

	LLM LLMConfig `yaml:"llm" json:"llm" jsonschema:"description=LLM configuration for newsletter generation"`

	S3 S3Config `yaml:"s3" json:"s3" jsonschema:"description=Optional dataset upload to S3 compatible storage"`

	Kafka KafkaConfig `yaml:"kafka" json:"kafka" jsonschema:"description=Optional new-article notifications"`
}

// DatasetConfig holds file locations for the dataset, batch jobs and feedback
type DatasetConfig struct {
	Path         string `yaml:"path" json:"path" jsonschema:"default=data/articles.json,description=Consolidated dataset file"`
	InputDir     string `yaml:"input_dir" json:"input_dir" jsonschema:"default=data/tagged,description=Directory with batch files for the build job"`
	InputPattern string `yaml:"input_pattern" json:"input_pattern" jsonschema:"default=tagged_*.json,description=Glob of batch files for the build job"`
	RawDir       string `yaml:"raw_dir" json:"raw_dir" jsonschema:"default=data/raw,description=Directory with raw scraper files for the tag job"`
	TaggedDir    string `yaml:"tagged_dir" json:"tagged_dir" jsonschema:"default=data/tagged,description=Output directory of the tag job"`
	FeedbackPath string `yaml:"feedback_path" json:"feedback_path" jsonschema:"default=data/feedback.json,description=Feedback log file"`
}

// HarvestConfig holds fetching and processing settings
type HarvestConfig struct {
	MaxWorkers    int           `yaml:"max_workers" json:"max_workers" jsonschema:"default=5,minimum=1,description=Sources fetched concurrently"`
	BatchSize     int           `yaml:"batch_size" json:"batch_size" jsonschema:"default=5,minimum=1,description=Articles fetched concurrently per source"`
	RateLimit     time.Duration `yaml:"rate_limit" json:"rate_limit" jsonschema:"default=1s,description=Minimum delay between requests to the same source"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP request timeout"`
	UserAgent     string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Mozilla/5.0 (compatible; MinePenge/1.0),description=User agent for HTTP requests"`
	RetryAttempts int           `yaml:"retry_attempts" json:"retry_attempts" jsonschema:"default=3,minimum=1,description=Attempts per seed page"`
	RetryDelay    time.Duration `yaml:"retry_delay" json:"retry_delay" jsonschema:"default=1s,description=Initial retry backoff"`
	Interval      time.Duration `yaml:"interval" json:"interval" jsonschema:"default=0s,description=Periodic harvest interval in server mode, 0 disables"`
	MinTextLength int           `yaml:"min_text_length" json:"min_text_length" jsonschema:"default=100,description=Minimum extracted text length in characters"`
	Language      string        `yaml:"language" json:"language" jsonschema:"default=da,description=Required ISO 639-1 language of article text"`
}

// SourceConfig describes one site adapter
type SourceConfig struct {
	Name            string          `yaml:"name" json:"name" jsonschema:"required,description=Source identifier stored on articles"`
	BaseURL         string          `yaml:"base_url" json:"base_url" jsonschema:"required,description=Site root URL"`
	Enabled         *bool           `yaml:"enabled" json:"enabled,omitempty" jsonschema:"description=Set false to skip the source"`
	SeedPages       []string        `yaml:"seed_pages" json:"seed_pages" jsonschema:"description=Listing pages scanned for article links"`
	LinkSelectors   []string        `yaml:"link_selectors" json:"link_selectors" jsonschema:"description=CSS selectors of elements holding article links"`
	KnownURLs       []string        `yaml:"known_urls" json:"known_urls" jsonschema:"description=Article URLs always included"`
	Feeds           []string        `yaml:"feeds" json:"feeds" jsonschema:"description=RSS or Atom feeds listing articles"`
	Sitemaps        []string        `yaml:"sitemaps" json:"sitemaps" jsonschema:"description=Sitemaps listing articles"`
	ArticlePatterns []string        `yaml:"article_patterns" json:"article_patterns" jsonschema:"description=URL fragments marking article pages"`
	ExcludePatterns []string        `yaml:"exclude_patterns" json:"exclude_patterns" jsonschema:"description=URL fragments marking non-article pages"`
	MaxLinksPerSeed int             `yaml:"max_links_per_seed" json:"max_links_per_seed" jsonschema:"default=10,description=Links taken from each seed page"`
	Overrides       SourceOverrides `yaml:"overrides" json:"overrides" jsonschema:"description=Per-source quality gate overrides"`
}

// SourceOverrides relaxes quality gates for a single source
type SourceOverrides struct {
	SkipLengthGate    bool     `yaml:"skip_length_gate" json:"skip_length_gate" jsonschema:"description=Accept short text"`
	SkipLanguageGate  bool     `yaml:"skip_language_gate" json:"skip_language_gate" jsonschema:"description=Accept any language"`
	SkipRelevanceGate bool     `yaml:"skip_relevance_gate" json:"skip_relevance_gate" jsonschema:"description=Accept any relevance score"`
	MinScore          *float64 `yaml:"min_score" json:"min_score,omitempty" jsonschema:"description=Source specific minimum score"`
	ScoreFloor        float64  `yaml:"score_floor" json:"score_floor" jsonschema:"description=Stored score is raised to at least this value"`
}

// IsEnabled reports whether the source should be harvested
func (s SourceConfig) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// LLMConfig holds LLM configuration for newsletter generation
type LLMConfig struct {
	Endpoint     string        `yaml:"endpoint" json:"endpoint" jsonschema:"default=https://api.openai.com/v1,description=OpenAI-compatible API endpoint"`
	APIKey       string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Model        string        `yaml:"model" json:"model" jsonschema:"default=gpt-4o-mini,description=Model name"`
	Temperature  float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.7,description=Temperature for response generation"`
	MaxTokens    int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=800,description=Maximum tokens in response"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=60s,description=Request timeout"`
	SystemPrompt string        `yaml:"system_prompt" json:"system_prompt" jsonschema:"description=System prompt override"`
	TopN         int           `yaml:"top_n" json:"top_n" jsonschema:"default=3,minimum=1,description=Articles included in the newsletter"`
	OutputDir    string        `yaml:"output_dir" json:"output_dir" jsonschema:"default=newsletters,description=Newsletter output directory"`
}

// S3Config holds dataset upload settings
type S3Config struct {
	Enabled         bool   `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Upload dataset after each save"`
	Endpoint        string `yaml:"endpoint" json:"endpoint" jsonschema:"description=Custom endpoint for MinIO or Spaces"`
	Region          string `yaml:"region" json:"region" jsonschema:"description=Bucket region"`
	Bucket          string `yaml:"bucket" json:"bucket" jsonschema:"description=Bucket name"`
	Key             string `yaml:"key" json:"key" jsonschema:"default=articles.json,description=Object key of the dataset"`
	AccessKeyID     string `yaml:"access_key_id" json:"access_key_id" jsonschema:"description=Access key id"`
	SecretAccessKey string `yaml:"secret_access_key" json:"secret_access_key" jsonschema:"description=Secret access key"`
	UsePathStyle    bool   `yaml:"use_path_style" json:"use_path_style" jsonschema:"description=Path-style addressing, required for MinIO"`
}

// KafkaConfig holds new-article notification settings
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Publish newly accepted articles"`
	Brokers []string `yaml:"brokers" json:"brokers" jsonschema:"description=Broker addresses"`
	Topic   string   `yaml:"topic" json:"topic" jsonschema:"default=minepenge.articles,description=Topic name"`
}

// Load reads configuration from a YAML file, empty path means defaults only
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		// expand environment variables
		expanded := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// schema validation is supplementary
		log.Printf("[WARN] schema validation failed: %v", err)
	}

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	// server
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = "http://localhost:8080"
	}

	// dataset
	if cfg.Dataset.Path == "" {
		cfg.Dataset.Path = "data/articles.json"
	}
	if cfg.Dataset.InputDir == "" {
		cfg.Dataset.InputDir = "data/tagged"
	}
	if cfg.Dataset.InputPattern == "" {
		cfg.Dataset.InputPattern = "tagged_*.json"
	}
	if cfg.Dataset.RawDir == "" {
		cfg.Dataset.RawDir = "data/raw"
	}
	if cfg.Dataset.TaggedDir == "" {
		cfg.Dataset.TaggedDir = "data/tagged"
	}
	if cfg.Dataset.FeedbackPath == "" {
		cfg.Dataset.FeedbackPath = "data/feedback.json"
	}

	// database
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "file:minepenge.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 1
	}
	if cfg.Database.HistoryDays == 0 {
		cfg.Database.HistoryDays = 90
	}

	// harvest
	if cfg.Harvest.MaxWorkers == 0 {
		cfg.Harvest.MaxWorkers = 5
	}
	if cfg.Harvest.BatchSize == 0 {
		cfg.Harvest.BatchSize = 5
	}
	if cfg.Harvest.RateLimit == 0 {
		cfg.Harvest.RateLimit = time.Second
	}
	if cfg.Harvest.Timeout == 0 {
		cfg.Harvest.Timeout = 30 * time.Second
	}
	if cfg.Harvest.UserAgent == "" {
		cfg.Harvest.UserAgent = "Mozilla/5.0 (compatible; MinePenge/1.0)"
	}
	if cfg.Harvest.RetryAttempts == 0 {
		cfg.Harvest.RetryAttempts = 3
	}
	if cfg.Harvest.RetryDelay == 0 {
		cfg.Harvest.RetryDelay = time.Second
	}
	if cfg.Harvest.MinTextLength == 0 {
		cfg.Harvest.MinTextLength = 100
	}
	if cfg.Harvest.Language == "" {
		cfg.Harvest.Language = "da"
	}

	// scoring
	if cfg.Scoring.MinScore == 0 {
		cfg.Scoring.MinScore = 5.0
	}

	// dedup
	if cfg.Dedup.Metric == "" {
		cfg.Dedup.Metric = "overlap"
	}
	if cfg.Dedup.Threshold == 0 {
		cfg.Dedup.Threshold = 0.8
	}

	// sources
	if len(cfg.Sources) == 0 {
		cfg.Sources = DefaultSources()
	}
	for i := range cfg.Sources {
		if cfg.Sources[i].MaxLinksPerSeed == 0 {
			cfg.Sources[i].MaxLinksPerSeed = 10
		}
		if len(cfg.Sources[i].ArticlePatterns) == 0 {
			cfg.Sources[i].ArticlePatterns = defaultArticlePatterns
		}
		if len(cfg.Sources[i].ExcludePatterns) == 0 {
			cfg.Sources[i].ExcludePatterns = defaultExcludePatterns
		}
	}

	// llm
	if cfg.LLM.Endpoint == "" {
		cfg.LLM.Endpoint = "https://api.openai.com/v1"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gpt-4o-mini"
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.7
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 800
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 60 * time.Second
	}
	if cfg.LLM.TopN == 0 {
		cfg.LLM.TopN = 3
	}
	if cfg.LLM.OutputDir == "" {
		cfg.LLM.OutputDir = "newsletters"
	}

	// sinks
	if cfg.S3.Key == "" {
		cfg.S3.Key = "articles.json"
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "minepenge.articles"
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}
	if cfg.Database.HistoryDays < 1 {
		return fmt.Errorf("database.history_days must be at least 1")
	}
	if cfg.Harvest.MaxWorkers < 1 {
		return fmt.Errorf("harvest.max_workers must be at least 1")
	}
	if cfg.Harvest.BatchSize < 1 {
		return fmt.Errorf("harvest.batch_size must be at least 1")
	}
	if cfg.Harvest.RetryAttempts < 1 {
		return fmt.Errorf("harvest.retry_attempts must be at least 1")
	}
	if cfg.Harvest.MinTextLength < 0 {
		return fmt.Errorf("harvest.min_text_length must be non-negative")
	}
	if cfg.Harvest.Interval < 0 {
		return fmt.Errorf("harvest.interval must be non-negative")
	}
	if cfg.Scoring.MinScore < 0 {
		return fmt.Errorf("scoring.min_score must be non-negative")
	}
	if cfg.Dedup.Metric != "overlap" && cfg.Dedup.Metric != "jaccard" {
		return fmt.Errorf("dedup.metric must be overlap or jaccard, got %q", cfg.Dedup.Metric)
	}
	if cfg.Dedup.Threshold < 0 || cfg.Dedup.Threshold > 1 {
		return fmt.Errorf("dedup.threshold must be between 0 and 1")
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}

	names := make(map[string]bool, len(cfg.Sources))
	for i, src := range cfg.Sources {
		if src.Name == "" {
			return fmt.Errorf("sources[%d].name is required", i)
		}
		if src.BaseURL == "" {
			return fmt.Errorf("sources[%d].base_url is required", i)
		}
		if names[src.Name] {
			return fmt.Errorf("duplicate source name %q", src.Name)
		}
		names[src.Name] = true
		if src.Overrides.MinScore != nil && *src.Overrides.MinScore < 0 {
			return fmt.Errorf("sources[%d].overrides.min_score must be non-negative", i)
		}
	}

	if cfg.S3.Enabled && (cfg.S3.Bucket == "" || cfg.S3.Region == "") {
		return fmt.Errorf("s3.bucket and s3.region are required when s3 is enabled")
	}
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is required when kafka is enabled")
	}

	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetFullConfig returns the whole configuration
func (c *Config) GetFullConfig() *Config {
	return c
}

// GetLLMConfig returns LLM configuration
func (c *Config) GetLLMConfig() LLMConfig {
	return c.LLM
}

// EnabledSources returns sources not switched off
func (c *Config) EnabledSources() []SourceConfig {
	res := make([]SourceConfig, 0, len(c.Sources))
	for _, s := range c.Sources {
		if s.IsEnabled() {
			res = append(res, s)
		}
	}
	return res
}

// Secrets returns configured credentials to be masked in logs
func (c *Config) Secrets() []string {
	var res []string
	for _, s := range []string{c.LLM.APIKey, c.S3.AccessKeyID, c.S3.SecretAccessKey} {
		if s != "" {
			res = append(res, s)
		}
	}
	return res
}

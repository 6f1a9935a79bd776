package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Embeddings EmbeddingsConfig `mapstructure:"embeddings"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Provider   ProviderConfig   `mapstructure:"provider"`
	Moderation ModerationConfig `mapstructure:"moderation"`
	Workers    WorkersConfig    `mapstructure:"workers"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TLS      bool   `mapstructure:"tls"`
}

type AuthConfig struct {
	// AdminSecret signs and verifies the admin bearer tokens required by
	// confirmation and deletion endpoints.
	AdminSecret string `mapstructure:"admin_secret"`
}

type EmbeddingsConfig struct {
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
	ApiKey   string `mapstructure:"api_key"`
}

type ClassifierConfig struct {
	// BaseURL of the local classifier runtime (text -> score/confidence).
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type ProviderConfig struct {
	Name    string        `mapstructure:"name"`
	Model   string        `mapstructure:"model"`
	ApiKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type WorkersConfig struct {
	// InteractiveSlots bounds in-flight model/index work on the request
	// path; BatchSlots bounds background work (audit writes, reindexing)
	// so batch jobs cannot starve interactive latency.
	InteractiveSlots int64 `mapstructure:"interactive_slots"`
	BatchSlots       int64 `mapstructure:"batch_slots"`
}

// ModerationConfig is the externalized threshold table for the whole
// pipeline. Every tunable the decision path consumes lives here.
type ModerationConfig struct {
	MaxContentLength int `mapstructure:"max_content_length"`
	MinCaseLength    int `mapstructure:"min_case_length"`

	Ensemble  EnsembleConfig  `mapstructure:"ensemble"`
	Rag       RagConfig       `mapstructure:"rag"`
	AutoBlock AutoBlockConfig `mapstructure:"auto_block"`
	Decision  DecisionConfig  `mapstructure:"decision"`
	Rules     RulesConfig     `mapstructure:"rules"`
}

type EnsembleConfig struct {
	BertWeight     float64 `mapstructure:"bert_weight"`
	LLMWeight      float64 `mapstructure:"llm_weight"`
	SpamLLMWeight  float64 `mapstructure:"spam_llm_weight"`
	SpamRuleWeight float64 `mapstructure:"spam_rule_weight"`
	// DegradedConfidenceDiscount scales the local head's confidence when
	// the hosted head is unavailable.
	DegradedConfidenceDiscount float64 `mapstructure:"degraded_confidence_discount"`
}

type RagConfig struct {
	Enabled bool `mapstructure:"enabled"`
	TopK    int  `mapstructure:"top_k"`
	// SimilarityFloor (0-100): matches below it are ignored entirely.
	SimilarityFloor float64 `mapstructure:"similarity_floor"`
	// MaxAdjustment caps the correction weight in (0,1).
	MaxAdjustment float64 `mapstructure:"max_adjustment"`
}

type AutoBlockConfig struct {
	Enabled             bool    `mapstructure:"enabled"`
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
	ScoreFloor          float64 `mapstructure:"score_floor"`
	ConfidenceFloor     float64 `mapstructure:"confidence_floor"`
}

type DecisionConfig struct {
	ImmoralBlockThreshold float64 `mapstructure:"immoral_block_threshold"`
	SpamBlockThreshold    float64 `mapstructure:"spam_block_threshold"`
	// MinConfidence gates blocking on the dimension's own reported
	// confidence; auto-block verdicts bypass it.
	MinConfidence float64 `mapstructure:"min_confidence"`
}

type RulesConfig struct {
	ProfanityWords []string `mapstructure:"profanity_words"`
	AdKeywords     []string `mapstructure:"ad_keywords"`
	// ProfanityBoostPerMatch is added to the immoral base score per
	// distinct matched word, capped by ProfanityBoostMax.
	ProfanityBoostPerMatch float64 `mapstructure:"profanity_boost_per_match"`
	ProfanityBoostMax      float64 `mapstructure:"profanity_boost_max"`
}

var globalConfig Config

func Load(configPath string) error {
	if err := loadConfigFile(configPath, "config", &globalConfig); err != nil {
		return fmt.Errorf("could not load main config file: %w", err)
	}
	setDefaultValues()
	return nil
}

func loadConfigFile(configPath, fileName string, out interface{}) error {
	viper.SetConfigName(fileName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("config file %s.yaml not found, using only environment variables", fileName)
		}
		return fmt.Errorf("error reading config file %s.yaml: %w", fileName, err)
	}

	if err := viper.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to unmarshal %s config: %w", fileName, err)
	}

	return nil
}

func setDefaultValues() {
	if globalConfig.Database.SSLMode == "" {
		globalConfig.Database.SSLMode = "disable"
	}
	globalConfig.Moderation = WithModerationDefaults(globalConfig.Moderation)
	if globalConfig.Workers.InteractiveSlots == 0 {
		globalConfig.Workers.InteractiveSlots = 64
	}
	if globalConfig.Workers.BatchSlots == 0 {
		globalConfig.Workers.BatchSlots = 16
	}
	if globalConfig.Classifier.Timeout == 0 {
		globalConfig.Classifier.Timeout = 5 * time.Second
	}
	if globalConfig.Provider.Timeout == 0 {
		globalConfig.Provider.Timeout = 10 * time.Second
	}
}

// WithModerationDefaults fills every unset threshold with its tuned
// default. Kept separate from Load so tests can build a complete table
// without a config file.
func WithModerationDefaults(m ModerationConfig) ModerationConfig {
	if m.MaxContentLength == 0 {
		m.MaxContentLength = 2000
	}
	if m.MinCaseLength == 0 {
		m.MinCaseLength = 10
	}
	if m.Ensemble.BertWeight == 0 && m.Ensemble.LLMWeight == 0 {
		m.Ensemble.BertWeight = 0.4
		m.Ensemble.LLMWeight = 0.6
	}
	if m.Ensemble.SpamLLMWeight == 0 && m.Ensemble.SpamRuleWeight == 0 {
		m.Ensemble.SpamLLMWeight = 0.7
		m.Ensemble.SpamRuleWeight = 0.3
	}
	if m.Ensemble.DegradedConfidenceDiscount == 0 {
		m.Ensemble.DegradedConfidenceDiscount = 0.7
	}
	if m.Rag.TopK == 0 {
		m.Rag.TopK = 5
	}
	if m.Rag.SimilarityFloor == 0 {
		m.Rag.SimilarityFloor = 60
	}
	if m.Rag.MaxAdjustment == 0 {
		m.Rag.MaxAdjustment = 0.5
	}
	if m.AutoBlock.SimilarityThreshold == 0 {
		m.AutoBlock.SimilarityThreshold = 90
	}
	if m.AutoBlock.ScoreFloor == 0 {
		m.AutoBlock.ScoreFloor = 90
	}
	if m.AutoBlock.ConfidenceFloor == 0 {
		m.AutoBlock.ConfidenceFloor = 80
	}
	if m.Decision.ImmoralBlockThreshold == 0 {
		m.Decision.ImmoralBlockThreshold = 80
	}
	if m.Decision.SpamBlockThreshold == 0 {
		m.Decision.SpamBlockThreshold = 85
	}
	if m.Decision.MinConfidence == 0 {
		m.Decision.MinConfidence = 50
	}
	if m.Rules.ProfanityBoostPerMatch == 0 {
		m.Rules.ProfanityBoostPerMatch = 5
	}
	if m.Rules.ProfanityBoostMax == 0 {
		m.Rules.ProfanityBoostMax = 20
	}
	return m
}

func GetConfig() *Config {
	return &globalConfig
}

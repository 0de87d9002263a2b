package cmd

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app       = "shl-recommender"
	envPrefix = "SHL"
)

type Config struct {
	Catalog   *CatalogConfig   `mapstructure:"catalog" validate:"required"`
	Recommend *RecommendConfig `mapstructure:"recommend" validate:"required"`
	Retrieval *RetrievalConfig `mapstructure:"retrieval" validate:"required"`
	Rerank    *RerankConfig    `mapstructure:"rerank" validate:"required"`
	AI        *AIConfig        `mapstructure:"ai" validate:"required"`
	Server    *ServerConfig    `mapstructure:"server"`
}

type CatalogConfig struct {
	File        string `mapstructure:"file"`
	ExcludeFile string `mapstructure:"exclude-file"`
}

type RecommendConfig struct {
	TopK             int  `mapstructure:"top-k" validate:"gte=1,lte=500"`
	FinalK           int  `mapstructure:"final-k" validate:"gte=1,lte=50"`
	CoreSignalFilter bool `mapstructure:"core-signal-filter"`
}

type RetrievalConfig struct {
	Provider   string        `mapstructure:"provider" validate:"oneof=local http"`
	Endpoint   string        `mapstructure:"endpoint" validate:"required_if=Provider http"`
	Collection string        `mapstructure:"collection"`
	APIKeyFile string        `mapstructure:"api-key-file"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

type RerankConfig struct {
	Provider   string        `mapstructure:"provider" validate:"oneof=none http"`
	Endpoint   string        `mapstructure:"endpoint" validate:"required_if=Provider http"`
	Model      string        `mapstructure:"model"`
	APIKeyFile string        `mapstructure:"api-key-file"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

type AIConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Provider       string        `mapstructure:"provider" validate:"oneof=gemini openai"`
	Timeout        time.Duration `mapstructure:"timeout" validate:"gte=0"`
	MaxQueryTokens int           `mapstructure:"max-query-tokens" validate:"gte=0"`
	MaxLogLength   int           `mapstructure:"max-log-length" validate:"gte=0"`
	Gemini         *GeminiConfig `mapstructure:"gemini"`
	OpenAI         *OpenAIConfig `mapstructure:"openai"`
}

type GeminiConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries" validate:"gte=0"`
}

type OpenAIConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	BaseURL    string `mapstructure:"base-url" validate:"omitempty,url"`
	MaxRetries int    `mapstructure:"max-retries" validate:"gte=0"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "shl-recommender recommends SHL assessments for a free-text job description",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	setDefaults(viper.GetViper())

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is shl-recommender.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("catalog.file", "")
	v.SetDefault("catalog.exclude-file", "")

	v.SetDefault("recommend.top-k", 50)
	v.SetDefault("recommend.final-k", 10)
	v.SetDefault("recommend.core-signal-filter", true)

	v.SetDefault("retrieval.provider", "local")
	v.SetDefault("retrieval.endpoint", "")
	v.SetDefault("retrieval.collection", "shl_assessments")
	v.SetDefault("retrieval.api-key-file", "")
	v.SetDefault("retrieval.timeout", 30*time.Second)

	v.SetDefault("rerank.provider", "none")
	v.SetDefault("rerank.endpoint", "")
	v.SetDefault("rerank.model", "zerank-1")
	v.SetDefault("rerank.api-key-file", "")
	v.SetDefault("rerank.timeout", 30*time.Second)

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.timeout", 20*time.Second)
	v.SetDefault("ai.max-query-tokens", 2000)
	v.SetDefault("ai.max-log-length", 200)
	v.SetDefault("ai.gemini.api-key-file", "")
	v.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	v.SetDefault("ai.gemini.max-retries", 3)
	v.SetDefault("ai.openai.api-key-file", "")
	v.SetDefault("ai.openai.model", "gpt-4o-mini")
	v.SetDefault("ai.openai.base-url", "")
	v.SetDefault("ai.openai.max-retries", 2)

	v.SetDefault("server.address", ":8000")
}

func initConfig() {
	// Only the pipeline commands need a config.
	if recommendCmd.CalledAs() == "" && serveCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Defaults and environment are enough without a config file, but a
	// config file that was asked for or fails to parse is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config == nil {
		return nil, errors.New("config is empty")
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

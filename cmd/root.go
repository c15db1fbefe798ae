package cmd

import (
	"errors"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "boss-copilot"
)

// Config is the application configuration file (boss-copilot.yaml). The AI
// provider credentials live in the key-value store, not here; this file only
// selects backends and tunes behavior.
type Config struct {
	Storage *StorageConfig `mapstructure:"storage"`
	AI      *AITuning      `mapstructure:"ai"`
}

type StorageConfig struct {
	// Backend is one of sqlite (default), redis, memory.
	Backend  string `mapstructure:"backend"`
	Path     string `mapstructure:"path"`
	RedisURL string `mapstructure:"redis-url"`
}

type AITuning struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
	CacheTTL     string `mapstructure:"cache-ttl"`
	// Timeout caps one whole scoring/greeting call including retries,
	// e.g. "30s". Empty picks the gateway default.
	Timeout string `mapstructure:"timeout"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "boss-copilot scores job postings against your resume and drafts outreach messages",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// A .env in the working directory can carry overrides for the env vars
	// bound below.
	_ = godotenv.Load()

	if err := viper.BindEnv("ai.api-key-file", "BOSS_COPILOT_API_KEY_FILE"); err != nil {
		log.Fatalf("binding BOSS_COPILOT_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is boss-copilot.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// The config file is optional; every command works with defaults. An
	// explicitly named file that cannot be read is still fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}

	return config, nil
}

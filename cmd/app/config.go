package main

import (
	"fmt"
	"strings"

	"hatch_egg_bot/internal/bot"
	"hatch_egg_bot/internal/repository"

	"github.com/spf13/viper"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"
)

type Config struct {
	Store  repository.Config `yaml:"store"`
	Server ServerConfig      `yaml:"server"`
	Bot    bot.Config        `yaml:"bot"`

	Payments     PaymentsConfig     `yaml:"payments"`
	TelegramAuth TelegramAuthConfig `yaml:"telegramAuth"`

	LogLevel string `yaml:"logLevel"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type PaymentsConfig struct {
	TonWallet string `yaml:"tonWallet"`
}

type TelegramAuthConfig struct {
	DebugMode bool `yaml:"debugMode"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(configName)
	viper.AddConfigPath(configPath)
	viper.SetConfigType(configFormat)

	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Without a bot token nothing in the process can work.
	if cfg.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required (bot.token or APP_BOT_TOKEN)")
	}
	if cfg.Bot.Channel == "" {
		cfg.Bot.Channel = "@hatch_egg"
	}

	return &cfg, nil
}

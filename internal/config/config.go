// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/dvloznov/gastobot/internal/ai"
)

type Config struct {
	// Telegram
	BotToken    string
	ActiveChats []string

	// Gemini
	GeminiAPIKey string
	GeminiModel  string

	// Scheduled broadcasts, standard five-field cron expressions.
	DailySummaryCron  string
	WeeklySummaryCron string

	// Logging
	LogLevel string
}

func Load() *Config {
	return &Config{
		BotToken:    getEnv("BOT_TOKEN", ""),
		ActiveChats: getEnvList("ACTIVE_CHATS"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", ai.DefaultModel),

		DailySummaryCron:  getEnv("DAILY_SUMMARY_CRON", "0 22 * * *"),
		WeeklySummaryCron: getEnv("WEEKLY_SUMMARY_CRON", "0 18 * * 0"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []string

	if c.BotToken == "" {
		errs = append(errs, "BOT_TOKEN is required")
	}
	if c.GeminiAPIKey == "" {
		errs = append(errs, "GEMINI_API_KEY is required")
	}
	if c.GeminiModel == "" {
		errs = append(errs, "GEMINI_MODEL cannot be empty")
	}

	for _, chat := range c.ActiveChats {
		if _, err := strconv.ParseInt(chat, 10, 64); err != nil {
			errs = append(errs, fmt.Sprintf("invalid chat id '%s' in ACTIVE_CHATS: must be an integer", chat))
		}
	}

	if _, err := cron.ParseStandard(c.DailySummaryCron); err != nil {
		errs = append(errs, fmt.Sprintf("invalid DAILY_SUMMARY_CRON '%s': %v", c.DailySummaryCron, err))
	}
	if _, err := cron.ParseStandard(c.WeeklySummaryCron); err != nil {
		errs = append(errs, fmt.Sprintf("invalid WEEKLY_SUMMARY_CRON '%s': %v", c.WeeklySummaryCron, err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, dropping empty items.
func getEnvList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}

	var values []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}

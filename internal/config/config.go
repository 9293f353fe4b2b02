// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads configuration from an optional config.yaml and
// environment variables. Environment variables always win over YAML so the
// scheduled job can be tuned without editing files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for one processor run, constructed once at
// process start and passed into each component constructor.
type Config struct {
	// Batch behaviour
	BatchSize        int
	MaxEmailAgeDays  int
	FetchConcurrency int
	FetchBatchDelay  time.Duration

	// Feature gates
	EnableOCR bool
	EnableGPT bool
	DryRun    bool
	DebugMode bool

	// Gmail
	GmailCredentialsFile string
	GmailTokenFile       string
	GmailQuery           string // optional override of the built-in query

	// Sinks
	DatabaseURL   string
	SpreadsheetID string
	SheetName     string
	WorkbookPath  string // dry-run XLSX output

	// Redis seen-cache (optional fast path in front of the ledger)
	RedisURL string

	// Drive backup storage
	DriveFolderID string

	// LLM
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	LLMTimeout    time.Duration

	// Retry policy for transient collaborator failures
	RetryAttempts  int
	RetryBaseDelay time.Duration

	// Ledger retention
	LedgerRetentionDays int

	// Telegram run summary (optional)
	TelegramBotToken string
	TelegramChatID   int64
}

// rawConfig mirrors the YAML structure for unmarshalling.
type rawConfig struct {
	Gmail struct {
		CredentialsFile string `yaml:"credentials_file"`
		TokenFile       string `yaml:"token_file"`
		Query           string `yaml:"query"`
	} `yaml:"gmail"`
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Sheets struct {
		SpreadsheetID string `yaml:"spreadsheet_id"`
		SheetName     string `yaml:"sheet_name"`
	} `yaml:"sheets"`
	Drive struct {
		FolderID string `yaml:"folder_id"`
	} `yaml:"drive"`
	Redis struct {
		URL string `yaml:"url"`
	} `yaml:"redis"`
	OpenAI struct {
		APIKey  string `yaml:"api_key"`
		Model   string `yaml:"model"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"openai"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
}

// Load reads configuration from config.yaml (with env var expansion) when
// present, then applies environment variables on top.
func Load() (*Config, error) {
	var raw rawConfig

	configPath := envOrDefault("CONFIG_PATH", "config.yaml")
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		// Expand ${VAR} references in the YAML
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
			return nil, fmt.Errorf("parse config YAML %s: %w", configPath, err)
		}
	case os.IsNotExist(err):
		// Env-only configuration is fine for a scheduled job
	default:
		return nil, fmt.Errorf("read config file %s: %w", configPath, err)
	}

	cfg := &Config{
		BatchSize:        envOrDefaultInt("BATCH_SIZE", 50),
		MaxEmailAgeDays:  envOrDefaultInt("MAX_EMAIL_AGE_DAYS", 7),
		FetchConcurrency: envOrDefaultInt("FETCH_CONCURRENCY", 50),
		FetchBatchDelay:  envOrDefaultDuration("FETCH_BATCH_DELAY", 2*time.Second),

		EnableOCR: envOrDefaultBool("ENABLE_OCR", false),
		EnableGPT: envOrDefaultBool("ENABLE_GPT", true),
		DryRun:    envOrDefaultBool("DRY_RUN", false),
		DebugMode: envOrDefaultBool("DEBUG_MODE", false),

		GmailCredentialsFile: firstNonEmpty(os.Getenv("GMAIL_CREDENTIALS_FILE"), raw.Gmail.CredentialsFile, "credentials.json"),
		GmailTokenFile:       firstNonEmpty(os.Getenv("GMAIL_TOKEN_FILE"), raw.Gmail.TokenFile, "token.json"),
		GmailQuery:           firstNonEmpty(os.Getenv("GMAIL_QUERY"), raw.Gmail.Query),

		DatabaseURL:   firstNonEmpty(os.Getenv("DATABASE_URL"), raw.Database.URL),
		SpreadsheetID: firstNonEmpty(os.Getenv("SPREADSHEET_ID"), raw.Sheets.SpreadsheetID),
		SheetName:     firstNonEmpty(os.Getenv("SHEET_NAME"), raw.Sheets.SheetName, "Applicants"),
		WorkbookPath:  envOrDefault("WORKBOOK_PATH", "applicants_dry_run.xlsx"),

		RedisURL: firstNonEmpty(os.Getenv("REDIS_URL"), raw.Redis.URL),

		DriveFolderID: firstNonEmpty(os.Getenv("DRIVE_FOLDER_ID"), raw.Drive.FolderID),

		OpenAIAPIKey:  firstNonEmpty(os.Getenv("OPENAI_API_KEY"), raw.OpenAI.APIKey),
		OpenAIModel:   firstNonEmpty(os.Getenv("OPENAI_MODEL"), raw.OpenAI.Model, "gpt-4o-mini"),
		OpenAIBaseURL: firstNonEmpty(os.Getenv("OPENAI_BASE_URL"), raw.OpenAI.BaseURL, "https://api.openai.com/v1"),
		LLMTimeout:    envOrDefaultDuration("LLM_TIMEOUT", 30*time.Second),

		RetryAttempts:  envOrDefaultInt("RETRY_ATTEMPTS", 3),
		RetryBaseDelay: envOrDefaultDuration("RETRY_BASE_DELAY", time.Second),

		LedgerRetentionDays: envOrDefaultInt("LEDGER_RETENTION_DAYS", 90),

		TelegramBotToken: firstNonEmpty(os.Getenv("TELEGRAM_BOT_TOKEN"), raw.Telegram.BotToken),
		TelegramChatID:   envOrDefaultInt64("TELEGRAM_CHAT_ID", raw.Telegram.ChatID),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required — the processing ledger lives in Postgres")
	}
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("BATCH_SIZE must be positive, got %d", cfg.BatchSize)
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envOrDefaultInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envOrDefaultBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envOrDefaultDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

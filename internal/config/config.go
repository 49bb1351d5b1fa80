package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	ProviderWhisperCPP = "whisper_cpp"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Transcriber TranscriberConfig `yaml:"transcriber"`
	Whisper     WhisperConfig     `yaml:"whisper"`
	OpenAI      OpenAIConfig      `yaml:"openai"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	NLP         NLPConfig         `yaml:"nlp"`
	SMTP        SMTPConfig        `yaml:"smtp"`
	Paths       PathsConfig       `yaml:"paths"`
	Inbox       InboxConfig       `yaml:"inbox"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
}

type ServerConfig struct {
	Address     string `yaml:"address"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`
}

type TranscriberConfig struct {
	Provider string `yaml:"provider"`
	// Tier is the model quality tier. Only "base" is used in practice.
	Tier string `yaml:"tier"`
}

type WhisperConfig struct {
	ModelPath  string `yaml:"model_path"`
	BinaryPath string `yaml:"binary_path"`
	Language   string `yaml:"language"`
	Prompt     string `yaml:"prompt"`
	Threads    int    `yaml:"threads"`
}

type OpenAIConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"-"`
}

type GeminiConfig struct {
	Model   string   `yaml:"model"`
	APIKeys []string `yaml:"-"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
	SampleRate int    `yaml:"sample_rate"`
	Channels   int    `yaml:"channels"`
}

type NLPConfig struct {
	Language string `yaml:"language"`
}

type SMTPConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Subject        string `yaml:"subject"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	AttachDocx     bool   `yaml:"attach_docx"`
}

type PathsConfig struct {
	Temp     string `yaml:"temp"`
	Archived string `yaml:"archived"`
}

// InboxConfig enables the drop-folder watcher when Dir is set.
type InboxConfig struct {
	Dir       string `yaml:"dir"`
	Recipient string `yaml:"recipient"`
	Sender    string `yaml:"sender"`
	Password  string `yaml:"-"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type PerformanceConfig struct {
	MaxConcurrent     int `yaml:"max_concurrent"`
	JobTimeoutSeconds int `yaml:"job_timeout_seconds"`
	JobTTLMinutes     int `yaml:"job_ttl_minutes"`
}

// Load reads the YAML file at path, applies secrets from the environment
// and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEYS"); v != "" {
		c.Gemini.APIKeys = splitKeys(v)
	}
	if v := os.Getenv("INBOX_SMTP_PASSWORD"); v != "" {
		c.Inbox.Password = v
	}
}

func splitKeys(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func (c *Config) Validate() error {
	if c.Transcriber.Provider == "" {
		c.Transcriber.Provider = ProviderWhisperCPP
	}
	if c.Transcriber.Tier == "" {
		c.Transcriber.Tier = "base"
	}

	switch c.Transcriber.Provider {
	case ProviderWhisperCPP:
		if c.Whisper.ModelPath == "" {
			return fmt.Errorf("whisper.model_path is required")
		}
		if c.Whisper.BinaryPath == "" {
			return fmt.Errorf("whisper.binary_path is required")
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai transcriber")
		}
	case ProviderGemini:
		if len(c.Gemini.APIKeys) == 0 {
			return fmt.Errorf("GEMINI_API_KEYS is required for the gemini transcriber")
		}
	default:
		return fmt.Errorf("unsupported transcriber.provider: %s", c.Transcriber.Provider)
	}

	if c.Inbox.Dir != "" {
		if c.Inbox.Recipient == "" || c.Inbox.Sender == "" {
			return fmt.Errorf("inbox.recipient and inbox.sender are required when inbox.dir is set")
		}
		if c.Inbox.Password == "" {
			return fmt.Errorf("INBOX_SMTP_PASSWORD is required when inbox.dir is set")
		}
	}

	if c.Server.Address == "" {
		c.Server.Address = ":8501"
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = 200
	}
	if c.Whisper.Language == "" {
		c.Whisper.Language = "en"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 4
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "whisper-1"
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.SampleRate == 0 {
		c.FFmpeg.SampleRate = 16000
	}
	if c.FFmpeg.Channels == 0 {
		c.FFmpeg.Channels = 1
	}
	if c.NLP.Language == "" {
		c.NLP.Language = "english"
	}
	if c.SMTP.Host == "" {
		c.SMTP.Host = "smtp.gmail.com"
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}
	if c.SMTP.Subject == "" {
		c.SMTP.Subject = "Meeting Summary"
	}
	if c.SMTP.TimeoutSeconds == 0 {
		c.SMTP.TimeoutSeconds = 30
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}
	if c.Performance.JobTimeoutSeconds == 0 {
		c.Performance.JobTimeoutSeconds = 1800
	}
	if c.Performance.JobTTLMinutes == 0 {
		c.Performance.JobTTLMinutes = 60
	}

	return nil
}

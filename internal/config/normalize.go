package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeModel()
	c.normalizeTranscription()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("REELSCRIBE_DATA_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DataDir = strings.TrimSpace(value)
	}
	if value, ok := os.LookupEnv("REELSCRIBE_API_BIND"); ok && strings.TrimSpace(value) != "" {
		c.Paths.APIBind = strings.TrimSpace(value)
	}

	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.TempDir) == "" {
		c.Paths.TempDir = os.TempDir()
	}
	if c.Paths.TempDir, err = expandPath(c.Paths.TempDir); err != nil {
		return fmt.Errorf("paths.temp_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.YtDlpBinary = orDefault(c.Tools.YtDlpBinary, defaultYtDlpBinary)
	c.Tools.YtDlpFormat = orDefault(c.Tools.YtDlpFormat, defaultYtDlpFormat)
	c.Tools.FFmpegBinary = orDefault(c.Tools.FFmpegBinary, defaultFFmpegBinary)
	c.Tools.WhisperBinary = orDefault(c.Tools.WhisperBinary, defaultWhisperBinary)
}

func (c *Config) normalizeModel() {
	c.Model.URL = orDefault(c.Model.URL, defaultModelURL)
	c.Model.FileName = orDefault(c.Model.FileName, defaultModelFileName)
	if c.Model.DownloadTimeout <= 0 {
		c.Model.DownloadTimeout = defaultModelDownloadTimeout
	}
}

func (c *Config) normalizeTranscription() {
	c.Transcription.Language = strings.ToLower(orDefault(c.Transcription.Language, defaultTranscriptionLanguage))
	if c.Transcription.Workers <= 0 {
		c.Transcription.Workers = defaultTranscriptionWorkers
	}
	if c.Transcription.Threads <= 0 {
		c.Transcription.Threads = defaultTranscriptionThreads
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(orDefault(c.Logging.Format, defaultLogFormat))
	c.Logging.Level = strings.ToLower(orDefault(c.Logging.Level, defaultLogLevel))
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

package config

const (
	defaultConfigPath            = "~/.config/reelscribe/config.toml"
	defaultDataDir               = "~/.local/share/reelscribe"
	defaultLogDir                = "~/.local/share/reelscribe/logs"
	defaultAPIBind               = "0.0.0.0:14200"
	defaultYtDlpBinary           = "yt-dlp"
	defaultYtDlpFormat           = "ba[ext=webm]"
	defaultFFmpegBinary          = "ffmpeg"
	defaultWhisperBinary         = "whisper-cli"
	defaultModelURL              = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-tiny.bin"
	defaultModelFileName         = "ggml-tiny.bin"
	defaultModelDownloadTimeout  = 600
	defaultTranscriptionLanguage = "vi"
	defaultTranscriptionWorkers  = 1
	defaultTranscriptionThreads  = 4
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults. TempDir stays
// empty and resolves to the system temporary directory during normalization.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Tools: Tools{
			YtDlpBinary:   defaultYtDlpBinary,
			YtDlpFormat:   defaultYtDlpFormat,
			FFmpegBinary:  defaultFFmpegBinary,
			WhisperBinary: defaultWhisperBinary,
		},
		Model: Model{
			URL:             defaultModelURL,
			FileName:        defaultModelFileName,
			DownloadTimeout: defaultModelDownloadTimeout,
		},
		Transcription: Transcription{
			Language: defaultTranscriptionLanguage,
			Workers:  defaultTranscriptionWorkers,
			Threads:  defaultTranscriptionThreads,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"reelscribe/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a fresh temp directory with the API
// bound to an ephemeral loopback port.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.TempDir = filepath.Join(base, "tmp")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Model.URL = "http://127.0.0.1:1/ggml-tiny.bin"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	for _, dir := range []string{cfgVal.Paths.TempDir, cfgVal.ModelsDir(), cfgVal.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	return builder.cfg
}

// WithCachedModel seeds the model cache so no download is attempted.
func WithCachedModel() ConfigOption {
	return func(b *configBuilder) {
		WriteFile(b.t, b.cfg.ModelPath(), 64)
	}
}

// WithModelURL points the asset resolver at url.
func WithModelURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Model.URL = url
	}
}

// WithTool installs an executable script for one of the pipeline tools and
// points the config at it. name is "yt-dlp", "ffmpeg", or "whisper-cli".
func WithTool(name, body string) ConfigOption {
	return func(b *configBuilder) {
		path := WriteScript(b.t, filepath.Join(b.baseDir, "bin"), name, body)
		switch name {
		case "yt-dlp":
			b.cfg.Tools.YtDlpBinary = path
		case "ffmpeg":
			b.cfg.Tools.FFmpegBinary = path
		case "whisper-cli":
			b.cfg.Tools.WhisperBinary = path
		default:
			b.t.Fatalf("unknown tool %q", name)
		}
	}
}

// WithStubbedBinaries writes no-op executables for names and prepends them
// to PATH. With no names the default pipeline tools are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"yt-dlp", "ffmpeg", "whisper-cli"}
		}
		binDir := filepath.Join(b.baseDir, "path-bin")
		for _, name := range names {
			WriteScript(b.t, binDir, name, "exit 0")
		}
		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}

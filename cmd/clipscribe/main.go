package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/roelfdiedericks/clipscribe/internal/audio"
	"github.com/roelfdiedericks/clipscribe/internal/config"
	. "github.com/roelfdiedericks/clipscribe/internal/logging"
	"github.com/roelfdiedericks/clipscribe/internal/metrics"
	"github.com/roelfdiedericks/clipscribe/internal/paths"
	"github.com/roelfdiedericks/clipscribe/internal/runner"
	"github.com/roelfdiedericks/clipscribe/internal/stt"
)

const version = "0.1.0"

// Globals are flags shared by every command.
type Globals struct {
	Config string `help:"Config file (.json, .yaml or .toml)." short:"c" type:"path"`
	Debug  bool   `help:"Enable debug logging." short:"d"`
}

// CLI is the command tree.
type CLI struct {
	Globals

	Run        RunCmd        `cmd:"" default:"withargs" help:"Extract the clip and transcribe it (default)."`
	InitConfig InitConfigCmd `cmd:"" name:"init-config" help:"Write the effective configuration to a file."`
	Version    VersionCmd    `cmd:"" help:"Print version."`
}

// RunCmd extracts one window and transcribes it. Every flag is optional;
// unset flags fall back to the config file, env vars, then built-in defaults.
type RunCmd struct {
	Input      string `help:"Source audio file." short:"i"`
	Output     string `help:"Output WAV clip." short:"o"`
	Start      string `help:"Clip start, as a duration (1m45s) or milliseconds (105000)."`
	End        string `help:"Clip end, as a duration (1m55s) or milliseconds (115000)."`
	Provider   string `help:"Speech provider: google, openai or groq." short:"p"`
	Language   string `help:"Language code, e.g. en-US." short:"l"`
	Mono       bool   `help:"Downmix the clip to mono."`
	SampleRate int    `help:"Resample the clip to this rate in Hz." name:"sample-rate"`
}

func (r *RunCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	if err := r.apply(cfg); err != nil {
		return err
	}

	provider, err := stt.New(cfg.STT)
	if err != nil {
		return err
	}
	defer provider.Close()

	extractor := audio.NewExtractor(audio.Options{
		SampleRate: cfg.Clip.SampleRate,
		Mono:       cfg.Clip.Mono,
	})

	job := runner.Job{
		Input:  cfg.Input,
		Output: cfg.Output,
		Window: audio.WindowMs(cfg.StartMs, cfg.EndMs),
	}

	// Pipeline failures are logged by the runner; the process still exits 0.
	_, _ = runner.Run(context.Background(), job, extractor, provider)
	metrics.LogSummary()
	return nil
}

// apply layers command-line flags over the loaded config.
func (r *RunCmd) apply(cfg *config.Config) error {
	overrides := &config.Config{
		Input:  r.Input,
		Output: r.Output,
		Clip: config.ClipConfig{
			SampleRate: r.SampleRate,
			Mono:       r.Mono,
		},
	}
	overrides.STT.Provider = strings.ToLower(r.Provider)
	if err := cfg.Merge(overrides); err != nil {
		return err
	}
	cfg.STT.SetLanguage(r.Language)

	// Offsets are applied directly so an explicit 0 wins over the config
	if r.Start != "" {
		ms, err := parseOffset(r.Start)
		if err != nil {
			return fmt.Errorf("--start: %w", err)
		}
		cfg.StartMs = ms
	}
	if r.End != "" {
		ms, err := parseOffset(r.End)
		if err != nil {
			return fmt.Errorf("--end: %w", err)
		}
		cfg.EndMs = ms
	}

	return cfg.Validate()
}

// parseOffset accepts "1m45s" style durations or plain milliseconds.
func parseOffset(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ms, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid offset %q", s)
	}
	return d.Milliseconds(), nil
}

// InitConfigCmd writes the effective configuration (without API keys).
type InitConfigCmd struct {
	Path  string `arg:"" optional:"" help:"Destination file; the extension picks the format. Defaults to ~/.clipscribe/clipscribe.json."`
	Force bool   `help:"Overwrite an existing file (the old one is kept as .bak)." short:"f"`
}

func (c *InitConfigCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}

	path := c.Path
	if path == "" {
		if path, err = paths.DefaultConfigPath(); err != nil {
			return err
		}
	}
	if _, err := os.Stat(path); err == nil && !c.Force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	// Keys belong in the environment, not in a file on disk
	cfg.STT.Google.APIKey = ""
	cfg.STT.OpenAI.APIKey = ""
	cfg.STT.Groq.APIKey = ""

	if err := config.Save(path, cfg, c.Force); err != nil {
		return err
	}
	L_info("config written", "path", path)
	return nil
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (v *VersionCmd) Run() error {
	fmt.Printf("clipscribe %s\n", version)
	return nil
}

func loadConfig(g *Globals) (*config.Config, error) {
	config.LoadDotEnv()
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		L_debug("using config file", "path", cfg.Path)
	}
	return cfg, nil
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("clipscribe"),
		kong.Description("Cut a time window out of an audio file and transcribe it."),
		kong.UsageOnError(),
	)

	Init(DefaultSettings())
	if cli.Debug {
		SetLevel(LevelDebug)
	}

	if err := kctx.Run(&cli.Globals); err != nil {
		L_error("clipscribe: %v", err)
		os.Exit(1)
	}
}

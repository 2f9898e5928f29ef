// Package config loads clipscribe settings: built-in defaults, an optional
// config file, then environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"dario.cat/mergo"
	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	. "github.com/roelfdiedericks/clipscribe/internal/logging"
	"github.com/roelfdiedericks/clipscribe/internal/paths"
	"github.com/roelfdiedericks/clipscribe/internal/stt"
	"gopkg.in/yaml.v3"
)

// Built-in run: 1:45 to 1:55 of the source recording.
const (
	DefaultInput   = "How Much TommyInnit Makes On YouTube.mp3"
	DefaultOutput  = "extracted_part.wav"
	DefaultStartMs = 1*60*1000 + 45*1000
	DefaultEndMs   = 1*60*1000 + 55*1000
)

// Config represents the effective clipscribe configuration
type Config struct {
	Input   string     `json:"input" yaml:"input" toml:"input"`
	Output  string     `json:"output" yaml:"output" toml:"output"`
	StartMs int64      `json:"startMs" yaml:"startMs" toml:"startMs"`
	EndMs   int64      `json:"endMs" yaml:"endMs" toml:"endMs"`
	Clip    ClipConfig `json:"clip" yaml:"clip" toml:"clip"`
	STT     stt.Config `json:"stt" yaml:"stt" toml:"stt"`

	// Path is the file the config was loaded from, empty for defaults only.
	Path string `json:"-" yaml:"-" toml:"-"`
}

// ClipConfig controls the exported WAV format.
type ClipConfig struct {
	SampleRate int  `json:"sampleRate" yaml:"sampleRate" toml:"sampleRate"` // 0 = keep source rate
	Mono       bool `json:"mono" yaml:"mono" toml:"mono"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Input:   DefaultInput,
		Output:  DefaultOutput,
		StartMs: DefaultStartMs,
		EndMs:   DefaultEndMs,
		STT:     stt.DefaultConfig(),
	}
}

// LoadDotEnv loads KEY=value files into the process environment.
// Variables already set win; missing files are skipped.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			L_warn("config: failed to load env file", "path", f, "error", err)
			continue
		}
		L_debug("config: loaded env file", "path", f)
	}
}

// Load builds the effective configuration. With an empty path the config
// file is discovered via paths.ConfigPath; having none is not an error.
// File values are decoded over the defaults, then environment variables
// override both.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path == "" {
		found, err := paths.ConfigPath()
		if err != nil {
			return nil, err
		}
		path = found
	} else {
		expanded, err := paths.ExpandTilde(path)
		if err != nil {
			return nil, err
		}
		path = expanded
	}

	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			return nil, err
		}
		cfg.Path = path
		L_debug("config: loaded", "path", path)
	}

	overrides, err := envOverrides()
	if err != nil {
		return nil, err
	}
	if err := cfg.Merge(overrides); err != nil {
		return nil, err
	}
	if err := applyEnvOffsets(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge copies every non-zero field of overrides onto c.
func (c *Config) Merge(overrides *Config) error {
	if overrides == nil {
		return nil
	}
	if err := mergo.Merge(c, overrides, mergo.WithOverride); err != nil {
		return fmt.Errorf("config: merge overrides: %w", err)
	}
	return nil
}

// Validate checks the fields the pipeline cannot run without.
// Window bounds are checked against the decoded source by the extractor.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Input) == "" {
		return fmt.Errorf("config: input file not set")
	}
	if strings.TrimSpace(c.Output) == "" {
		return fmt.Errorf("config: output file not set")
	}
	if c.Clip.SampleRate < 0 {
		return fmt.Errorf("config: clip.sampleRate must not be negative")
	}
	switch c.STT.Provider {
	case stt.ProviderGoogle, stt.ProviderOpenAI, stt.ProviderGroq:
	default:
		return fmt.Errorf("config: unknown stt provider %q", c.STT.Provider)
	}
	return nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = unmarshalJSON(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("config: unsupported config format %q", ext)
	}
	if err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// envOverrides reads CLIPSCRIBE_* settings and provider API keys.
// Offsets are handled by applyEnvOffsets.
func envOverrides() (*Config, error) {
	o := &Config{
		Input:  os.Getenv("CLIPSCRIBE_INPUT"),
		Output: os.Getenv("CLIPSCRIBE_OUTPUT"),
	}

	o.STT.Provider = strings.ToLower(strings.TrimSpace(os.Getenv("CLIPSCRIBE_PROVIDER")))
	o.STT.Google.APIKey = os.Getenv("GOOGLE_API_KEY")
	o.STT.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	o.STT.Groq.APIKey = os.Getenv("GROQ_API_KEY")
	o.STT.SetLanguage(os.Getenv("CLIPSCRIBE_LANGUAGE"))

	return o, nil
}

// applyEnvOffsets sets the window from CLIPSCRIBE_START_MS/END_MS directly,
// since a merge would skip an explicit 0.
func applyEnvOffsets(cfg *Config) error {
	for name, dst := range map[string]*int64{
		"CLIPSCRIBE_START_MS": &cfg.StartMs,
		"CLIPSCRIBE_END_MS":   &cfg.EndMs,
	} {
		v := strings.TrimSpace(os.Getenv(name))
		if v == "" {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: %s: %w", name, err)
		}
		*dst = n
	}
	return nil
}

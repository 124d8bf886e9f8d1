// Package config builds the immutable runtime configuration once at
// startup. Nothing in the rest of the tree reads flags, env vars or
// files; components receive a Config value and trust it.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/v0xg/deskloop/internal/action"
)

// Sampling holds the model sampling parameters sent with every
// inference request.
type Sampling struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// Config is the full runtime configuration. It is built once in cmd
// and passed by value; there is no ambient mutable state to consult.
type Config struct {
	Width     int
	Height    int
	Marks     bool
	Execute   bool
	Tools     map[string]bool
	LoopDelay float64 // seconds between turns
	StartWait float64 // seconds before the first turn

	Provider string
	Model    string
	BaseURL  string
	Sampling Sampling

	Target  string // "desktop" or "browser"
	Display int    // desktop display index
	URL     string // browser start page

	DumpDir string
	Verbose bool
}

// knownTools lists every per-kind policy key.
var knownTools = []string{
	action.LeftClick.String(),
	action.RightClick.String(),
	action.DoubleLeftClick.String(),
	action.Drag.String(),
	action.TypeText.String(),
	action.Screenshot.String(),
}

// Load resolves configuration with precedence flags > DESKLOOP_* env >
// optional config file > defaults, then validates it.
func Load(flags *pflag.FlagSet, configFile string) (Config, error) {
	v := viper.New()
	v.SetDefault("width", 736)
	v.SetDefault("height", 464)
	v.SetDefault("marks", true)
	v.SetDefault("execute", true)
	v.SetDefault("loop-delay", 1.0)
	v.SetDefault("start-wait", 3.0)
	v.SetDefault("provider", "claude")
	v.SetDefault("sampling.temperature", 0.3)
	v.SetDefault("sampling.top-p", 0.9)
	v.SetDefault("sampling.max-tokens", 1500)
	v.SetDefault("target", "desktop")
	v.SetDefault("display", 0)
	v.SetDefault("dump-dir", "dump")
	for _, tool := range knownTools {
		v.SetDefault("tools."+tool, true)
	}

	v.SetEnvPrefix("DESKLOOP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", configFile, err)
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("config: bind flags: %w", err)
		}
	}

	cfg := Config{
		Width:     v.GetInt("width"),
		Height:    v.GetInt("height"),
		Marks:     v.GetBool("marks"),
		Execute:   v.GetBool("execute"),
		LoopDelay: v.GetFloat64("loop-delay"),
		StartWait: v.GetFloat64("start-wait"),
		Provider:  v.GetString("provider"),
		Model:     v.GetString("model"),
		BaseURL:   v.GetString("base-url"),
		Sampling: Sampling{
			Temperature: v.GetFloat64("sampling.temperature"),
			TopP:        v.GetFloat64("sampling.top-p"),
			MaxTokens:   v.GetInt("sampling.max-tokens"),
		},
		Target:  v.GetString("target"),
		Display: v.GetInt("display"),
		URL:     v.GetString("url"),
		DumpDir: v.GetString("dump-dir"),
		Verbose: v.GetBool("verbose"),
	}
	cfg.Tools = make(map[string]bool, len(knownTools))
	for _, tool := range knownTools {
		cfg.Tools[tool] = v.GetBool("tools." + tool)
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("config: invalid capture size %dx%d", c.Width, c.Height)
	}
	switch c.Target {
	case "desktop":
	case "browser":
		if c.URL == "" {
			return fmt.Errorf("config: browser target needs --url")
		}
	default:
		return fmt.Errorf("config: unknown target %q (desktop or browser)", c.Target)
	}
	if c.LoopDelay < 0 || c.StartWait < 0 {
		return fmt.Errorf("config: negative delay")
	}
	return nil
}

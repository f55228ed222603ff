// Package config provides configuration management for automerge.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	wferrors "github.com/randalmurphal/automerge/internal/errors"
)

// FileName is the configuration file searched for when --config is not given.
const FileName = ".automerge.yaml"

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "AUTOMERGE"

// Config represents the automerge configuration.
type Config struct {
	// Branch merged into and pushed.
	TargetBranch string `yaml:"target_branch" mapstructure:"target_branch"`
	// Remote pulled from and pushed to.
	Remote string `yaml:"remote" mapstructure:"remote"`
	// Message recorded on stash entries the workflow creates.
	StashLabel string `yaml:"stash_label" mapstructure:"stash_label"`
	// Prompt selects the confirmation UI: auto, line or tui.
	Prompt string `yaml:"prompt" mapstructure:"prompt"`

	Log LogConfig `yaml:"log" mapstructure:"log"`
	Sim SimConfig `yaml:"sim" mapstructure:"sim"`
}

// LogConfig configures diagnostic logging on stderr.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // text, json
}

// SimConfig configures the simulation test runner.
type SimConfig struct {
	Tool         string `yaml:"tool" mapstructure:"tool"`
	Std          string `yaml:"std" mapstructure:"std"`
	Pattern      string `yaml:"pattern" mapstructure:"pattern"`
	HarnessInfix string `yaml:"harness_infix" mapstructure:"harness_infix"`
	Waveform     string `yaml:"waveform" mapstructure:"waveform"`
	PassMarker   string `yaml:"pass_marker" mapstructure:"pass_marker"`
	DoneMarker   string `yaml:"done_marker" mapstructure:"done_marker"`
	FailMarker   string `yaml:"fail_marker" mapstructure:"fail_marker"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		TargetBranch: "main",
		Remote:       "origin",
		StashLabel:   "Auto-stashed by automerge",
		Prompt:       "auto",
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Sim: SimConfig{
			Tool:         "ghdl",
			Std:          "08",
			Pattern:      "*.vhd",
			HarnessInfix: "_tb",
			Waveform:     "wave.vcd",
			PassMarker:   "::PASS::ALL_TESTS",
			DoneMarker:   "::DONE::SIMULATION_DONE",
			FailMarker:   "::FAIL::",
		},
	}
}

var (
	validPrompts    = []string{"auto", "line", "tui"}
	validLogFormats = []string{"text", "json"}
)

// Validate checks the configuration for values the workflow cannot run with.
func (c *Config) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"target_branch", c.TargetBranch},
		{"remote", c.Remote},
		{"stash_label", c.StashLabel},
		{"sim.tool", c.Sim.Tool},
		{"sim.pattern", c.Sim.Pattern},
		{"sim.harness_infix", c.Sim.HarnessInfix},
		{"sim.waveform", c.Sim.Waveform},
		{"sim.pass_marker", c.Sim.PassMarker},
		{"sim.done_marker", c.Sim.DoneMarker},
		{"sim.fail_marker", c.Sim.FailMarker},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return wferrors.ErrConfigInvalid(r.field, "must not be empty")
		}
	}

	if !oneOf(c.Prompt, validPrompts) {
		return wferrors.ErrConfigInvalid("prompt",
			fmt.Sprintf("%q is not one of %s", c.Prompt, strings.Join(validPrompts, ", ")))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return wferrors.ErrConfigInvalid("log.level", err.Error())
	}
	if !oneOf(c.Log.Format, validLogFormats) {
		return wferrors.ErrConfigInvalid("log.format",
			fmt.Sprintf("%q is not one of %s", c.Log.Format, strings.Join(validLogFormats, ", ")))
	}
	return nil
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("%q is not a log level", l.Level)
	}
	return level, nil
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

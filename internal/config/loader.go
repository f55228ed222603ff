package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// SetDefaults registers every key with its default so that environment
// overrides are visible to Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("target_branch", d.TargetBranch)
	v.SetDefault("remote", d.Remote)
	v.SetDefault("stash_label", d.StashLabel)
	v.SetDefault("prompt", d.Prompt)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("sim.tool", d.Sim.Tool)
	v.SetDefault("sim.std", d.Sim.Std)
	v.SetDefault("sim.pattern", d.Sim.Pattern)
	v.SetDefault("sim.harness_infix", d.Sim.HarnessInfix)
	v.SetDefault("sim.waveform", d.Sim.Waveform)
	v.SetDefault("sim.pass_marker", d.Sim.PassMarker)
	v.SetDefault("sim.done_marker", d.Sim.DoneMarker)
	v.SetDefault("sim.fail_marker", d.Sim.FailMarker)
}

// BindEnv enables AUTOMERGE_* overrides; dots in keys become underscores,
// e.g. AUTOMERGE_SIM_TOOL.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// ReadFile reads the config file v points at, or searches for FileName in
// searchPaths when explicit is empty. A missing file in search mode is not an
// error. It returns the path that was used, if any.
func ReadFile(v *viper.Viper, explicit string, searchPaths ...string) (string, error) {
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, ".yaml"))
		v.SetConfigType("yaml")
		for _, p := range searchPaths {
			v.AddConfigPath(p)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit == "" && errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("read config: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// Load applies defaults and environment overrides to v, then decodes and
// validates the result.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	BindEnv(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

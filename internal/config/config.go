// Package config reads the optional .drover.yaml settings file.
//
// The file is looked up from the working tree upward, so running drover
// in a subdirectory still honors the file at the repository root. Every
// key is optional. The YAML is decoded into a generic map first and
// then mapped onto the typed Config, which lets unknown keys surface as
// warnings instead of hard failures.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/drovertool/drover"
)

// FileName is the settings file drover looks for.
const FileName = ".drover.yaml"

// Config carries every setting the file can hold. The zero value of a
// field means "not set"; Default fills in the few baked-in values.
type Config struct {
	Remote    string   `mapstructure:"remote"`
	Trunk     string   `mapstructure:"trunk"`
	Labels    []string `mapstructure:"labels"`
	InferPlan bool     `mapstructure:"infer_plan"`

	Diff  DiffConfig  `mapstructure:"diff"`
	Stack StackConfig `mapstructure:"stack"`
	Lock  LockConfig  `mapstructure:"lock"`
	Log   LogConfig   `mapstructure:"log"`
}

// DiffConfig bounds the diff artifact handed to the description step.
type DiffConfig struct {
	MaxBytes int      `mapstructure:"max_bytes"`
	Excludes []string `mapstructure:"excludes"`
}

// StackConfig names the stacked-branch manager to drive.
type StackConfig struct {
	Command string `mapstructure:"command"`
}

// LockConfig tunes the repository lock.
type LockConfig struct {
	Dir      string        `mapstructure:"dir"`
	TTL      time.Duration `mapstructure:"ttl"`
	RedisURL string        `mapstructure:"redis_url"`
}

// LogConfig controls the rotating file log.
type LogConfig struct {
	File bool `mapstructure:"file"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{InferPlan: true}
}

// Discover walks from dir toward the filesystem root and returns the
// path of the first settings file it finds, or "" when there is none.
func Discover(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		path := filepath.Join(dir, FileName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Load decodes the file at path over the defaults. A missing file is
// not an error: the defaults come back untouched. The second return
// lists keys the file carries that drover does not understand, so the
// caller can warn about typos without refusing to run.
func Load(path string) (Config, []string, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil, nil
		}
		return cfg, nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return cfg, nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	if raw == nil {
		// An empty file configures nothing.
		return cfg, nil, nil
	}

	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Metadata:   &md,
		Result:     &cfg,
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return cfg, nil, fmt.Errorf("failed to build config decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return cfg, nil, fmt.Errorf("failed to decode %s: %w", FileName, err)
	}

	sort.Strings(md.Unused) // Deterministic order
	return cfg, md.Unused, nil
}

// Options translates the gateway-facing settings into Env options.
// Identity settings (trunk, plan inference) shape the initial workflow
// state instead and are applied by the command layer.
func (c Config) Options() []drover.Option {
	var opts []drover.Option
	if c.Remote != "" {
		opts = append(opts, drover.WithRemote(c.Remote))
	}
	if len(c.Labels) > 0 {
		opts = append(opts, drover.WithLabels(c.Labels...))
	}
	if c.Diff.MaxBytes > 0 {
		opts = append(opts, drover.WithDiffLimit(c.Diff.MaxBytes))
	}
	if len(c.Diff.Excludes) > 0 {
		opts = append(opts, drover.WithDiffExcludes(c.Diff.Excludes...))
	}
	if c.Stack.Command != "" {
		opts = append(opts, drover.WithStackCommand(c.Stack.Command))
	}
	return opts
}

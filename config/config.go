package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// FileName is the name of the configuration file written by the installer
const FileName = "config.toml"

var (
	// ErrNotFound is returned when the configuration file does not exist
	ErrNotFound = errors.New("config file not found")
	// ErrInvalid is returned when a required section or key is missing or blank
	ErrInvalid = errors.New("invalid config")
)

type Config struct {
	Key    KeyConfig    `toml:"key"`
	OpenAI OpenAIConfig `toml:"openai"`
	Window WindowConfig `toml:"window"`
}

type KeyConfig struct {
	Exit           string `toml:"key_exit"`
	Pop            string `toml:"key_pop"`
	Repop          string `toml:"key_repop"`
	StartPaused    bool   `toml:"start_paused"`
	RightClickCopy bool   `toml:"right_click_copy"`
}

type OpenAIConfig struct {
	APIKey       string `toml:"api_key"`
	Model        string `toml:"model"`
	PromptSystem string `toml:"prompt_system"`
	PromptUser   string `toml:"prompt_user"`
	BaseURL      string `toml:"base_url,omitempty"`
}

type WindowConfig struct {
	Alpha       float64 `toml:"alpha"`
	DisplayTime int     `toml:"display_time"`
	Position    string  `toml:"position"`
	Notify      bool    `toml:"notify"`
}

// DisplayDuration returns display_time as a duration
func (w WindowConfig) DisplayDuration() time.Duration {
	return time.Duration(w.DisplayTime) * time.Millisecond
}

// requiredKeys lists every key that must be present, per section
var requiredKeys = []struct {
	section string
	keys    []string
}{
	{"key", []string{"key_exit", "key_pop", "key_repop"}},
	{"openai", []string{"api_key", "model", "prompt_system", "prompt_user"}},
	{"window", []string{"alpha", "display_time", "position"}},
}

// optionalBlank are required keys whose value may be empty
var optionalBlank = map[string]bool{
	"prompt_system": true,
	"prompt_user":   true,
}

// Default returns the configuration the installer writes. The API key is
// left empty and has to be filled in by hand.
func Default() *Config {
	return &Config{
		Key: KeyConfig{
			Exit:           "esc",
			Pop:            "~",
			Repop:          "`",
			StartPaused:    false,
			RightClickCopy: true,
		},
		OpenAI: OpenAIConfig{
			APIKey:       "",
			Model:        "gpt-4",
			PromptSystem: "You are a helpful assistant specialized in answering multiple-choice questions.",
			PromptUser:   "Give me only the correct answer and nothing else:",
		},
		Window: WindowConfig{
			Alpha:       0.5,
			DisplayTime: 3000,
			Position:    "+300+200",
			Notify:      false,
		},
	}
}

// optionalDefaults holds values for keys that may be omitted from the file.
// Required keys are never defaulted.
func optionalDefaults() *Config {
	return &Config{
		Key: KeyConfig{RightClickCopy: true},
	}
}

// DefaultPath returns config.toml next to the running executable
func DefaultPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable: %w", err)
	}
	return filepath.Join(filepath.Dir(exe), FileName), nil
}

// Load reads and validates the configuration file at path
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat config: %w", err)
	}

	cfg := optionalDefaults()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s (string values must be quoted, e.g. key_pop = \"1\"): %v", ErrInvalid, path, err)
	}

	if err := validate(md, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(md toml.MetaData, cfg *Config) error {
	for _, req := range requiredKeys {
		if !md.IsDefined(req.section) {
			return fmt.Errorf("%w: missing required section [%s]", ErrInvalid, req.section)
		}
		for _, key := range req.keys {
			if !md.IsDefined(req.section, key) {
				return fmt.Errorf("%w: missing required key %q in section [%s]", ErrInvalid, key, req.section)
			}
			if optionalBlank[key] {
				continue
			}
			if v, ok := cfg.stringValue(key); ok && strings.TrimSpace(v) == "" {
				return fmt.Errorf("%w: empty value for %q in section [%s]", ErrInvalid, key, req.section)
			}
		}
	}

	if math.IsNaN(cfg.Window.Alpha) || cfg.Window.Alpha < 0 || cfg.Window.Alpha > 1 {
		return fmt.Errorf("%w: alpha must be between 0 and 1, got %v", ErrInvalid, cfg.Window.Alpha)
	}
	if cfg.Window.DisplayTime <= 0 {
		return fmt.Errorf("%w: display_time must be positive, got %d", ErrInvalid, cfg.Window.DisplayTime)
	}
	if _, _, err := ParsePosition(cfg.Window.Position); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	return nil
}

// stringValue returns the value of a string-typed required key
func (c *Config) stringValue(key string) (string, bool) {
	switch key {
	case "key_exit":
		return c.Key.Exit, true
	case "key_pop":
		return c.Key.Pop, true
	case "key_repop":
		return c.Key.Repop, true
	case "api_key":
		return c.OpenAI.APIKey, true
	case "model":
		return c.OpenAI.Model, true
	case "position":
		return c.Window.Position, true
	}
	return "", false
}

// Write encodes cfg to path, replacing any existing file
func Write(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return f.Close()
}

// ParsePosition parses a window position like "+300+200"
func ParsePosition(pos string) (x, y int, err error) {
	s := strings.TrimSpace(pos)
	if !strings.HasPrefix(s, "+") {
		return 0, 0, fmt.Errorf("position %q must look like +X+Y", pos)
	}

	parts := strings.Split(s[1:], "+")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("position %q must look like +X+Y", pos)
	}

	x, err = parseOffset(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid x offset in position %q", pos)
	}
	y, err = parseOffset(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid y offset in position %q", pos)
	}

	return x, y, nil
}

// parseOffset accepts plain digits only, so "+-20" and "++20" are rejected
func parseOffset(s string) (int, error) {
	if s == "" || s[0] == '-' || s[0] == '+' {
		return 0, strconv.ErrSyntax
	}
	return strconv.Atoi(s)
}

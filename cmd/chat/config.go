package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fwojciec/chat"
	bt "github.com/fwojciec/chat/bubbletea"
	"gopkg.in/yaml.v3"
)

// config is the optional YAML configuration file.
type config struct {
	BaseURL  string       `yaml:"baseURL"`
	Model    string       `yaml:"model"`
	Greeting string       `yaml:"greeting"`
	Title    string       `yaml:"title"`
	Referer  string       `yaml:"referer"`
	Models   []chat.Model `yaml:"models"`
}

// options holds the command-line flags.
type options struct {
	model      string
	apiKey     string
	baseURL    string
	configPath string
	thinking   bool
	logPath    string
	debug      bool
}

// settings is the resolved configuration the program runs with.
type settings struct {
	apiKey   string
	baseURL  string
	referer  string
	title    string
	greeting string
	model    string
	models   []chat.Model
	thinking bool
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "chat", "config.yaml")
}

// loadConfig reads the YAML file at path. A missing file is tolerated only
// when path is the default location.
func loadConfig(path, defaultPath string) (config, error) {
	var cfg config
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist) && path == defaultPath:
		return cfg, nil
	default:
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

// resolve merges flags over the file configuration. The API key comes from
// the flag or, failing that, from envKey; it is never read from the file.
func resolve(cfg config, opts options, envKey string) (settings, error) {
	s := settings{
		apiKey:   opts.apiKey,
		baseURL:  cfg.BaseURL,
		referer:  cfg.Referer,
		title:    cfg.Title,
		greeting: cfg.Greeting,
		model:    cfg.Model,
		models:   cfg.Models,
		thinking: opts.thinking,
	}
	if s.apiKey == "" {
		s.apiKey = envKey
	}
	if s.apiKey == "" {
		return settings{}, fmt.Errorf("no API key found: set OPENROUTER_API_KEY (or use the -api-key flag)")
	}
	if opts.baseURL != "" {
		s.baseURL = opts.baseURL
	}
	if s.title == "" {
		s.title = bt.DefaultTitle
	}
	if s.greeting == "" {
		s.greeting = chat.DefaultGreeting
	}

	if len(s.models) == 0 {
		s.models = chat.DefaultModels()
	}
	for i, m := range s.models {
		if m.ID == "" {
			return settings{}, fmt.Errorf("models[%d]: missing id", i)
		}
	}

	if opts.model != "" {
		s.model = opts.model
	}
	if s.model == "" {
		s.model = s.models[0].ID
	}
	m, ok := chat.FindModel(s.models, s.model)
	if !ok {
		return settings{}, fmt.Errorf("model %q: %w", s.model, chat.ErrUnknownModel)
	}
	if s.thinking && !m.Thinking {
		return settings{}, fmt.Errorf("-thinking with %s: %w", s.model, chat.ErrThinkingUnsupported)
	}
	return s, nil
}

// newLogger returns a JSON logger writing to w. The TUI owns the terminal,
// so logs only go to a file when one is requested.
func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// openLog opens the log destination. An empty path discards logs.
func openLog(path string) (io.Writer, func() error, error) {
	if path == "" {
		return io.Discard, func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	return f, f.Close, nil
}

// Command chat is a terminal chat client for OpenRouter-compatible
// chat-completion endpoints.
//
// Usage:
//
//	OPENROUTER_API_KEY=sk-or-... chat [flags]
//
// Flags:
//
//	-model string     Model ID (default: first catalog entry)
//	-api-key string   API key (overrides OPENROUTER_API_KEY)
//	-base-url string  API base URL (default: https://openrouter.ai/api/v1)
//	-config string    Path to YAML config file (default: <user config dir>/chat/config.yaml)
//	-thinking         Show the model's thinking trace
//	-log string       Path to JSON log file (default: no logging)
//	-debug            Log at debug level
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/fwojciec/chat"
	bt "github.com/fwojciec/chat/bubbletea"
	"github.com/fwojciec/chat/openrouter"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "chat: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	defaultPath := defaultConfigPath()

	var opts options
	flag.StringVar(&opts.model, "model", "", "Model ID (default: first catalog entry)")
	flag.StringVar(&opts.apiKey, "api-key", "", "API key (overrides OPENROUTER_API_KEY)")
	flag.StringVar(&opts.baseURL, "base-url", "", "API base URL")
	flag.StringVar(&opts.configPath, "config", defaultPath, "Path to YAML config file")
	flag.BoolVar(&opts.thinking, "thinking", false, "Show the model's thinking trace")
	flag.StringVar(&opts.logPath, "log", "", "Path to JSON log file")
	flag.BoolVar(&opts.debug, "debug", false, "Log at debug level")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig(opts.configPath, defaultPath)
	if err != nil {
		return err
	}
	// Env is only read here and passed down as a value.
	s, err := resolve(cfg, opts, os.Getenv("OPENROUTER_API_KEY"))
	if err != nil {
		return err
	}

	w, closeLog, err := openLog(opts.logPath)
	if err != nil {
		return err
	}
	defer closeLog()
	logger := newLogger(w, opts.debug)

	clientOpts := []openrouter.Option{
		openrouter.WithLogger(logger),
		openrouter.WithReferer(s.referer),
		openrouter.WithTitle(s.title),
	}
	if s.baseURL != "" {
		clientOpts = append(clientOpts, openrouter.WithBaseURL(s.baseURL))
	}
	client := openrouter.New(s.apiKey, clientOpts...)

	conv := chat.NewController(client,
		chat.WithModels(s.models),
		chat.WithModel(s.model),
		chat.WithGreeting(s.greeting),
		chat.WithLogger(logger),
	)
	if err := conv.SetShowThinking(s.thinking); err != nil {
		return err
	}

	logger.Info("starting", slog.String("model", s.model), slog.Int("models", len(s.models)))
	tui := bt.New(conv, chat.DefaultTheme(), bt.WithTitle(s.title))
	if err := bt.Run(ctx, tui); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	conv.Cancel()
	logger.Info("exiting")
	return nil
}

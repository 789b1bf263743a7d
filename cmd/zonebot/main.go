package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"zonebot/internal/bot"
	"zonebot/internal/bus"
	"zonebot/internal/config"
	"zonebot/internal/platform"
	"zonebot/internal/scheduler"
	"zonebot/internal/store"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "path to config json (default ~/.zonebot/config.json)")
	flag.Parse()

	if err := run(cfgPath); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run(cfgPath string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	})))

	if cfg.Discord.Token == "" {
		return errors.New("discord token missing (set discord.token or ZONEBOT_DISCORD_TOKEN)")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	st := store.New(cfg.Store.Path)
	st.Load()

	queue := bus.NewQueue(0)
	gw, err := platform.NewDiscord(cfg.Discord.Token, queue)
	if err != nil {
		return err
	}

	sched, err := scheduler.New(st, gw)
	if err != nil {
		return err
	}

	router := bot.NewRouter(st, gw, cfg.Bot.CommandPrefix, cfg.Bot.HomeZone)

	if err := gw.Start(ctx); err != nil {
		return err
	}
	sched.Start()
	slog.Info("zonebot up", "store", cfg.Store.Path, "prefix", cfg.Bot.CommandPrefix)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			msg, err := queue.Consume(ctx)
			if err != nil {
				return err
			}
			router.Handle(msg)
		}
	})

	err = g.Wait()
	sched.Stop()
	if cerr := gw.Stop(); cerr != nil {
		slog.Warn("discord close failed", "error", cerr)
	}
	if errors.Is(err, context.Canceled) {
		return nil // normal shutdown
	}
	return err
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromFile(path)
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

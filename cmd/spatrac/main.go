package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/spatrac/spatrac/internal/bot"
	"github.com/spatrac/spatrac/internal/config"
	"github.com/spatrac/spatrac/internal/csvimport"
	"github.com/spatrac/spatrac/internal/dialog"
	httpx "github.com/spatrac/spatrac/internal/infra/http"
	"github.com/spatrac/spatrac/internal/infra/logger"
	"github.com/spatrac/spatrac/internal/infra/metrics"
	"github.com/spatrac/spatrac/internal/receiving"
	"github.com/spatrac/spatrac/internal/store"
)

const defaultConfig = "config/example.yaml"

func seed(im *csvimport.Importer, cfg config.Config, log *slog.Logger) {
	if path := cfg.Seed.ProductsCSV; path != "" {
		r := im.ImportPath(csvimport.KindProducts, path)
		log.Info("seed products", "file", path, "ok", r.Success, "msg", r.Message)
	}
	if path := cfg.Seed.RecipesCSV; path != "" {
		r := im.ImportPath(csvimport.KindRecipes, path)
		log.Info("seed recipes", "file", path, "ok", r.Success, "msg", r.Message)
	}
}

func main() {
	path := os.Getenv("APP_CONFIG_FILE")
	if path == "" {
		path = defaultConfig
	}
	cfg, err := config.Load(path)
	if err != nil {
		panic(err)
	}

	filename := ""
	if cfg.Logger.FileEnable {
		filename = cfg.Logger.Filename
	}
	log := logger.New(cfg.App.Env, filename)

	if loc, err := time.LoadLocation(cfg.App.Timezone); err != nil {
		log.Warn("unknown timezone, using local", "tz", cfg.App.Timezone, "err", err)
	} else {
		time.Local = loc
	}

	staff, err := cfg.Staff()
	if err != nil {
		log.Error("invalid users config", "err", err)
		return
	}
	st := store.New(store.WithUsers(staff))

	m := metrics.New(prometheus.DefaultRegisterer, st)
	if err := m.Attach(st); err != nil {
		log.Error("metrics subscribe failed", "err", err)
		return
	}

	im := csvimport.New(st, log, csvimport.WithObserver(m.ObserveImport))
	seed(im, cfg, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	if cfg.Telegram.Token != "" {
		api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
		if err != nil {
			log.Error("telegram init failed", "err", err)
			return
		}
		log.Info("bot authorized", "username", api.Self.UserName)

		b := bot.New(api, log, st, dialog.NewRepo(), receiving.New(st), im, cfg.Telegram.AdminChatID)
		if err := b.Attach(st); err != nil {
			log.Error("bot subscribe failed", "err", err)
			return
		}
		go func() {
			if err := b.Run(ctx, cfg.Telegram.TimeoutSec); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("bot stopped", "err", err)
			}
		}()
	} else {
		log.Info("telegram token not set, bot disabled")
	}

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}

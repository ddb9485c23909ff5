package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-kit/log/level"

	"github.com/majorhelp/tuitioncalc/internal/api"
	"github.com/majorhelp/tuitioncalc/internal/calculator"
	"github.com/majorhelp/tuitioncalc/internal/config"
	"github.com/majorhelp/tuitioncalc/internal/database"
	"github.com/majorhelp/tuitioncalc/internal/database/repository"
	"github.com/majorhelp/tuitioncalc/internal/fakeapi"
	"github.com/majorhelp/tuitioncalc/internal/logging"
	"github.com/majorhelp/tuitioncalc/internal/service"
	"github.com/majorhelp/tuitioncalc/internal/tui"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if _, err := os.Stat(config.Path()); errors.Is(err, fs.ErrNotExist) {
		if err := config.Save(cfg); err != nil {
			log.Printf("warn: could not write default config: %v", err)
		}
	}

	logger := logging.Nop()
	if cfg.Log.Path != "" {
		l, closer, err := logging.Open(cfg.Log.Path, cfg.Log.Level)
		if err != nil {
			log.Fatalf("log: %v", err)
		}
		defer closer.Close()
		logger = l
	}

	baseURL := cfg.API.BaseURL
	if cfg.API.Demo {
		srv, err := fakeapi.Start(fakeapi.DefaultCatalog(), logger)
		if err != nil {
			log.Fatalf("demo api: %v", err)
		}
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
			defer done()
			_ = srv.Close(shutdownCtx)
		}()
		baseURL = srv.URL
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
	}
	client, err := api.New(baseURL,
		api.WithHTTPClient(&http.Client{Transport: transport}),
		api.WithTimeout(cfg.API.Timeout),
	)
	if err != nil {
		log.Fatalf("api client: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}
	db, err := database.OpenMigrated(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	presets := &service.PresetService{Presets: repository.NewPresetRepo(db)}
	maintenance := &service.MaintenanceService{DB: db}

	mgr := calculator.NewManager(ctx, client,
		calculator.WithLogger(logger),
		calculator.WithCurrency(cfg.UI.CurrencySymbol),
		calculator.WithTemplate(&calculator.Instance{
			View: calculator.View{OutOfStateChecked: cfg.UI.OutOfState},
		}),
	)
	for i := 0; i < cfg.UI.Calculators; i++ {
		mgr.Register()
	}
	_ = level.Info(logger).Log("msg", "starting", "api", client.BaseURL(), "demo", cfg.API.Demo, "calculators", cfg.UI.Calculators)

	p := tea.NewProgram(tui.New(ctx, mgr, tui.Options{
		Presets:     presets,
		Maintenance: maintenance,
		Logger:      logger,
	}), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/glebovdev/piradio/internal/api"
	"github.com/glebovdev/piradio/internal/audio"
	"github.com/glebovdev/piradio/internal/cache"
	"github.com/glebovdev/piradio/internal/config"
	"github.com/glebovdev/piradio/internal/meter"
	"github.com/glebovdev/piradio/internal/player"
	"github.com/glebovdev/piradio/internal/service"
	"github.com/glebovdev/piradio/internal/station"
	"github.com/glebovdev/piradio/internal/ui"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	versionFlag = flag.Bool("version", false, "Show version information")
	debugFlag   = flag.Bool("debug", false, "Enable debug logging")
	randomFlag  = flag.Bool("random", false, "Start with a random station")
	backendFlag = flag.String("backend", "", "Backend address for metadata and the stream proxy (overrides config)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s v%s - %s\n\n", config.AppName, config.AppVersion, config.AppDescription)
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()

		configPath, err := config.GetConfigPath()
		if err == nil {
			if _, statErr := os.Stat(configPath); statErr == nil {
				fmt.Fprintf(os.Stderr, "\nConfig file: %s\n", configPath)
			} else {
				fmt.Fprintf(os.Stderr, "\nConfig file will be created on first use.\n")
			}
		}
		fmt.Fprintf(os.Stderr, "Environment: %s overrides backend_url (also read from %s files).\n", config.EnvBackendURL, config.EnvFileName)
	}
}

func setupLogging(debug bool) {
	if !debug {
		// Avoid TUI corruption by only logging errors to /dev/null
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
		if logFile, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0644); err == nil {
			log.Logger = log.Output(logFile)
		}
		return
	}

	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	cacheDir, err := cache.GetCacheDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not get cache dir: %v\n", err)
		cacheDir = os.TempDir()
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log dir: %v\n", err)
	}
	logPath := filepath.Join(cacheDir, "debug.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log file: %v\n", err)
		logFile = os.Stderr
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: logFile, TimeFormat: "15:04:05"})
	fmt.Printf("Debug log: %s\n", logPath)
	log.Info().Msgf("Starting %s v%s (debug mode)", config.AppName, config.AppVersion)
}

func loadCatalog(path string) *station.Catalog {
	if path == "" {
		return station.DefaultCatalog()
	}

	catalog, err := station.LoadCatalog(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to load station catalog, using built-in list")
		return station.DefaultCatalog()
	}
	log.Debug().Msgf("Loaded %d stations from %s", catalog.Len(), path)
	return catalog
}

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Printf("%s v%s\n", config.AppName, config.AppVersion)
		fmt.Println(config.AppDescription)
		os.Exit(0)
	}

	setupLogging(*debugFlag)

	if err := config.LoadEnv(config.EnvPaths()...); err != nil {
		log.Warn().Err(err).Msg("Failed to load environment file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load config, using defaults")
	}

	if *debugFlag {
		if configPath, err := config.GetConfigPath(); err == nil {
			log.Debug().Msgf("Config: %s", configPath)
		}
		if cacheDir, err := cache.GetCacheDir(); err == nil {
			log.Debug().Msgf("Cache: %s", cacheDir)
		}
	}

	backend := cfg.Backend()
	if *backendFlag != "" {
		backend = *backendFlag
	}
	if backend == "" {
		log.Warn().Msg("No backend configured: metadata and the stream proxy are disabled")
	}

	catalog := loadCatalog(cfg.Catalog)
	apiClient := api.NewClient(backend)

	logoCache, err := cache.NewCache()
	if err != nil {
		log.Warn().Err(err).Msg("Logo cache unavailable")
	}
	stationService := service.NewStationService(catalog, apiClient, logoCache)

	media := audio.NewMedia(config.AppName + "/" + config.AppVersion)
	engine := meter.NewEngine(meter.NewTickerClock(meter.DefaultFPS))

	opts := player.DefaultOptions()
	opts.PollInterval = cfg.PollInterval
	opts.SwitchDelay = cfg.SwitchDelay
	opts.Volume = cfg.Volume

	controller := player.NewController(catalog, player.MediaFunc(func(ctx context.Context, address string) (player.Stream, error) {
		stream, err := media.Open(ctx, address)
		if err != nil {
			return nil, err
		}
		return stream, nil
	}), apiClient, engine, opts)

	radioUI := ui.NewUI(controller, engine, stationService, cfg, *randomFlag)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, cleaning up...")
		radioUI.Shutdown()
	}()

	log.Info().Msg("Starting UI...")

	// Run UI in a goroutine so we can handle signals properly
	uiDone := make(chan error, 1)
	go func() {
		uiDone <- radioUI.Run()
	}()

	err = <-uiDone
	controller.Close()
	radioUI.SaveConfig()

	if err != nil {
		log.Error().Err(err).Msg("Error running UI")
		os.Exit(1)
	}
	log.Info().Msgf("%s stopped", config.AppName)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/afero"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/yeppakhon/WWDC-search/api"
	"github.com/yeppakhon/WWDC-search/config"
	"github.com/yeppakhon/WWDC-search/handlers"
	"github.com/yeppakhon/WWDC-search/internal/kvstore"
	"github.com/yeppakhon/WWDC-search/internal/notify"
	"github.com/yeppakhon/WWDC-search/services/browse"
	"github.com/yeppakhon/WWDC-search/services/corpus"
	"github.com/yeppakhon/WWDC-search/services/history"
	"github.com/yeppakhon/WWDC-search/services/playback"
	"github.com/yeppakhon/WWDC-search/services/search"
	"github.com/yeppakhon/WWDC-search/services/translate"
)

func main() {
	portOverride := flag.Int("port", 0, "override server port from config")
	corpusOverride := flag.String("corpus", "", "override corpus file path from config")
	flag.Parse()

	fmt.Println("🚀 WWDC Search Backend Starting...")

	configPath := os.Getenv("WWDC_SEARCH_CONFIG")
	if configPath == "" {
		configPath = filepath.Join("cache", "settings.json")
	}

	cfgManager := config.NewManager(configPath)
	settings, err := cfgManager.Load()
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}

	// Set up file logging with rotation
	if settings.Log.File != "" {
		logDir := filepath.Dir(settings.Log.File)
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			log.Printf("Warning: could not create log directory %s: %v", logDir, err)
		} else {
			fileWriter := &lumberjack.Logger{
				Filename:   settings.Log.File,
				MaxSize:    settings.Log.MaxSize,
				MaxBackups: settings.Log.MaxBackups,
				MaxAge:     settings.Log.MaxAge,
				Compress:   settings.Log.Compress,
			}
			log.SetOutput(io.MultiWriter(os.Stdout, fileWriter))
			log.SetFlags(log.LstdFlags | log.Lshortfile)
			log.Printf("Logging to file: %s", settings.Log.File)
		}
	}

	if *portOverride > 0 {
		settings.Server.Port = *portOverride
	}
	if *corpusOverride != "" {
		settings.Corpus.Path = *corpusOverride
	}

	osFS := afero.NewOsFs()

	corpusService, err := corpus.NewService(osFS, settings.Corpus.Path)
	if err != nil {
		log.Fatalf("failed to load corpus: %v", err)
	}
	log.Printf("[main] corpus loaded: %d videos, %d subtitle segments",
		corpusService.VideoCount(), corpusService.SubtitleCount())

	store, err := kvstore.NewFileStore(osFS, settings.Storage.Directory)
	if err != nil {
		log.Fatalf("failed to initialise storage: %v", err)
	}

	searchEngine := search.NewEngine(corpusService)
	historyService := history.NewService(store)
	browseService := browse.NewService(searchEngine, historyService)

	overlay := notify.NewOverlay()
	toaster := notify.NewToaster()

	playbackService := playback.NewService(corpusService, overlay, toaster, osFS, playback.Options{
		VideosDir:    settings.Corpus.VideosDir,
		SyncInterval: time.Duration(settings.Playback.SyncIntervalMs) * time.Millisecond,
	})

	translateClient := translate.NewClient(
		settings.Translate.Endpoint,
		settings.Translate.SourceLang,
		settings.Translate.TargetLang,
		&http.Client{Timeout: time.Duration(settings.Translate.TimeoutSeconds) * time.Second},
	)
	translateService := translate.NewService(translateClient)

	r := mux.NewRouter()
	api.Register(
		r,
		handlers.NewSearchHandler(browseService),
		handlers.NewHistoryHandler(historyService),
		handlers.NewPreviewHandler(playbackService, overlay, toaster),
		handlers.NewTranslateHandler(translateService, toaster),
	)

	addr := fmt.Sprintf("%s:%d", settings.Server.Host, settings.Server.Port)
	fmt.Printf("Server starting on %s\n", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-shutdownChan
	log.Println("🛑 Shutdown signal received, cleaning up...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop the active preview session so the sync loop exits
	playbackService.Stop()
	translateService.CancelAll()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}

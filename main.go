package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sublyze/backend/internal/api"
	"github.com/sublyze/backend/internal/config"
	"github.com/sublyze/backend/internal/media"
	"github.com/sublyze/backend/internal/pipeline"
	"github.com/sublyze/backend/internal/render"
	"github.com/sublyze/backend/internal/session"
	"github.com/sublyze/backend/internal/transcribe"
	"github.com/sublyze/backend/internal/translate"
)

func main() {
	cfg := config.Load()

	for _, dir := range []string{cfg.DataPath, cfg.UploadPath, cfg.SubtitlePath, cfg.RenderPath, cfg.TranscriptPath} {
		os.MkdirAll(dir, 0755)
	}

	// Transcription engine
	var engine transcribe.Transcriber
	switch cfg.WhisperEngine {
	case "cli":
		engine = transcribe.NewCLIEngine(cfg.WhisperCLIPath, cfg.WhisperModelPath)
	default:
		engine = transcribe.NewServerClient(cfg.WhisperURL)
	}
	transcriber := transcribe.NewService(engine, cfg.TranscriptPath)
	log.Printf("[whisper] using %s engine", transcriber.EngineName())

	// Translation engine (optional)
	translator := translate.NewService(cfg.NLLBURL, cfg.DeepLKey)
	if translator == nil {
		log.Printf("[translate] no engine configured, translation disabled")
	}

	uploads := media.NewStore(cfg.UploadPath)
	renderer := render.NewRenderer(cfg.FontPath, cfg.RenderPath)
	sessions := session.NewStore()

	var runnerTranslator pipeline.Translator
	if translator != nil {
		runnerTranslator = translator
	}
	runner := pipeline.NewRunner(sessions, uploads, media.ExtractAudio, transcriber, renderer, runnerTranslator, cfg.SubtitlePath)

	router := api.NewRouter(cfg, sessions, runner)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Starting server on %s", addr)
	log.Printf("Data path: %s", cfg.DataPath)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		os.Exit(0)
	}()

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Bhagya-2005/ai-study-mentor/auth"
	"github.com/Bhagya-2005/ai-study-mentor/config"
	"github.com/Bhagya-2005/ai-study-mentor/db"
	"github.com/Bhagya-2005/ai-study-mentor/export"
	"github.com/Bhagya-2005/ai-study-mentor/generation"
	"github.com/Bhagya-2005/ai-study-mentor/session"
)

func main() {
	var (
		port       int
		configPath string
	)
	flag.IntVar(&port, "port", 0, "the port to start the web server on (overrides the config)")
	flag.StringVar(&configPath, "config", ".config", "path to the JSON config file")
	flag.Parse()

	infoLog := log.New(os.Stdout, "INFO  ", log.Ldate|log.Ltime|log.Lmsgprefix)
	errorLog := log.New(os.Stderr, "ERROR ", log.Ldate|log.Ltime|log.Lshortfile|log.Lmsgprefix)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		errorLog.Fatal(err)
	}
	if port != 0 {
		cfg.Port = port
	}
	if cfg.Pepper == "" {
		infoLog.Println("no pepper configured; run `admin -cmd=pepper` to create one")
	}

	store := db.NewDB(cfg.Database.Path)
	defer store.Close()
	if err := store.Open(); err != nil {
		errorLog.Fatal(err)
	}

	generator, err := generation.NewClient(context.Background(), generation.Config{
		BaseURL: cfg.Model.BaseURL,
		Model:   cfg.Model.Name,
		APIKey:  cfg.Model.APIKey,
	})
	if err != nil {
		errorLog.Fatal(err)
	}

	sessions := session.NewManager()
	server := newServer(infoLog, errorLog, deps{
		Auth:      auth.NewService(db.NewUserStore(store, cfg.Pepper), sessions),
		Sessions:  sessions,
		History:   db.NewHistoryStore(store),
		Generator: generator,
		PDF:       export.NewPDF(cfg.Export.Dir),
		Speech:    export.NewSpeech(cfg.Export.Dir, cfg.Export.Language, cfg.Export.SpeechURL),
		ExportDir: cfg.Export.Dir,
	})

	// No write timeout: generation blocks until the model answers.
	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		ErrorLog:    errorLog,
		Handler:     server,
		ReadTimeout: time.Second * 15,
		IdleTimeout: time.Second * 60,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		s := <-sigint

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		infoLog.Println("shutting down:", s)
		if err := srv.Shutdown(ctx); err != nil {
			errorLog.Printf("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	infoLog.Printf("study mentor listening on %d, model %s at %s\n", cfg.Port, generator.Model(), cfg.Model.BaseURL)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		errorLog.Fatalf("HTTP server ListenAndServe: %v", err)
	}

	<-idleConnsClosed
}

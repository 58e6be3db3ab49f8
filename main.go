// ABOUTME: Entry point for the ReadAloud lesson reader
// ABOUTME: Parses configuration, loads a lesson and starts the reader TUI
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/readaloud/readaloud-go/internal/config"
	"github.com/readaloud/readaloud-go/internal/lesson"
	"github.com/readaloud/readaloud-go/internal/reader"
	"github.com/readaloud/readaloud-go/internal/ui"
	"github.com/readaloud/readaloud-go/internal/version"
	"github.com/readaloud/readaloud-go/pkg/audio/output"
	"github.com/readaloud/readaloud-go/pkg/playback"
	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	cfg, err := config.Load(config.DefaultEnvFile)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	cfg.RegisterFlags(flag.CommandLine)
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if cfg.Lesson == "" && flag.NArg() > 0 {
		cfg.Lesson = flag.Arg(0)
	}
	if cfg.Lesson == "" {
		log.Fatalf("No lesson given (use -lesson file.json)")
	}

	useTUI := !cfg.NoTUI

	// Set up logging
	f, err := os.OpenFile(cfg.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		// Streaming logs mode: log to both stdout and file
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	log.Printf("Starting %s (backend %s, rate %.2f)", version.String(), cfg.Backend, cfg.Rate)

	articles, err := lesson.Load(cfg.Lesson)
	if err != nil {
		log.Fatalf("Failed to load lesson: %v", err)
	}
	article := &articles[0]
	log.Printf("Loaded %q: %d segments, %d vocabulary items",
		article.Title, len(article.Segments), len(article.KeyVocabulary))

	backend, err := output.NewBackend(cfg.Backend)
	if err != nil {
		log.Fatalf("Failed to create audio backend: %v", err)
	}

	mgr := playback.NewManager(playback.Config{
		Backend:     backend,
		DefaultRate: cfg.Rate,
	})
	defer mgr.Close()

	if useTUI {
		runTUI(mgr, article)
	} else {
		runHeadless(mgr, article)
	}

	log.Printf("Reader stopped")
}

// runTUI drives the reader from the bubbletea program
func runTUI(mgr *playback.Manager, article *lesson.Article) {
	var prog *tea.Program
	send := func(msg tea.Msg) {
		if prog != nil {
			prog.Send(msg)
		}
	}

	r, err := reader.New(reader.Config{
		Article:  article,
		Manager:  mgr,
		OnChange: func(s reader.Status) { send(ui.StatusMsg{Status: s}) },
	})
	if err != nil {
		log.Fatalf("Failed to create reader: %v", err)
	}
	defer r.Close()

	prog = ui.Run(r, article)

	for _, c := range playback.Channels {
		unsubscribe := mgr.Subscribe(c, func(ev playback.Event) { send(ui.EndedMsg{Event: ev}) })
		defer unsubscribe()
	}

	if _, err := prog.Run(); err != nil {
		log.Printf("TUI error: %v", err)
	}
}

// runHeadless reads every segment in order until done or interrupted
func runHeadless(mgr *playback.Manager, article *lesson.Article) {
	r, err := reader.New(reader.Config{Article: article, Manager: mgr})
	if err != nil {
		log.Fatalf("Failed to create reader: %v", err)
	}
	defer r.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := r.PlayAll(ctx); err != nil {
		log.Printf("Reading interrupted: %v", err)
	}
}

package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"autoff/internal/config"
	"autoff/internal/engine"
	"autoff/internal/journal"
	"autoff/internal/loadavg"
	"autoff/internal/monitor"
	"autoff/internal/policy"
	"autoff/internal/record"
	"autoff/internal/server"
	"autoff/internal/sshprobe"
)

func main() {
	var (
		inactivityThresholdMins = flag.Int("inactivity_threshold_mins", 15, "minutes of inactivity before shutdown")
		loadWindowMins          = flag.Int("loadavg_level_mins", 15, "size of window (in minutes) on which to measure CPU load")
		idleThreshold           = flag.Float64("cpu_idle_threshold", 0.05, "threshold of CPU load defining inactive")
		sshCheck                = flag.Bool("ssh", false, "abort shutdown while SSH connections are open")
		configPath              = flag.String("config", "", "path to configuration file (YAML)")
		watch                   = flag.Bool("watch", false, "run resident: evaluate every load window and serve the status API")
		addr                    = flag.String("addr", "", "status API address in watch mode (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	setupLogging(cfg.LogFile)

	p, err := policy.New(*inactivityThresholdMins, *loadWindowMins, *idleThreshold, *sshCheck)
	if err != nil {
		log.Fatalf("configure policy: %v", err)
	}

	store := record.New(cfg.RecordFile)
	sampler := loadavg.NewProcSampler(cfg.LoadavgFile)
	classifier := engine.NewClassifier(p, sampler, store)
	eng := engine.New(p, sshprobe.New(), classifier)

	jnl, err := journal.New(cfg.JournalFile)
	if err != nil {
		log.Fatalf("initialise journal: %v", err)
	}

	shutdown := func() error {
		return exec.Command(cfg.ShutdownCommand[0], cfg.ShutdownCommand[1:]...).Run()
	}
	mon := monitor.New(p, eng, store, jnl, shutdown)

	if !*watch {
		if _, err := mon.RunOnce(); err != nil {
			log.Fatalf("evaluate tick: %v", err)
		}
		return
	}

	mon.Start()
	defer mon.Stop()

	listenAddr := cfg.ListenAddr
	if *addr != "" {
		listenAddr = *addr
	}
	srv := server.New(listenAddr, p, store, jnl)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	log.Printf("autoff watching on %s (window %d minutes)", listenAddr, p.LoadWindowMins)
	if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}

// setupLogging mirrors evaluator output to the configured log file. The
// stderr stream stays active so cron mails still carry failures.
func setupLogging(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Printf("cannot open log file %s: %v, logging to stderr", path, err)
		return
	}
	log.SetOutput(io.MultiWriter(os.Stderr, f))
}

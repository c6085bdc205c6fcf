// Command autoff-cron compiles a shutdown policy into a cron trigger table
// and installs or removes it. Must run with enough privilege to write to
// /etc/cron.d.
package main

import (
	"flag"
	"fmt"
	"log"

	"autoff/internal/config"
	"autoff/internal/policy"
	"autoff/internal/schedule"
)

func main() {
	var (
		shutdownTime            = flag.String("shutdown_time", "1800", "earliest shutdown time in 24hr HHMM format, e.g. 1830")
		inactivityThresholdMins = flag.Int("inactivity_threshold_mins", 30, "minutes of inactivity before shutdown")
		loadWindowMins          = flag.Int("loadavg_level_mins", 15, "size of window (in minutes) on which to measure CPU load")
		idleThreshold           = flag.Float64("cpu_idle_threshold", 0.05, "threshold of CPU load defining inactive")
		sshCheck                = flag.Bool("ssh", true, "abort shutdown while SSH connections are open")
		midnight                = flag.Bool("midnight", true, "hard shutdown at midnight even if the idle criteria are not met")
		disable                 = flag.Bool("disable", false, "remove the installed trigger table and exit")
		configPath              = flag.String("config", "", "path to configuration file (YAML)")
		evaluatorPath           = flag.String("autoff_path", "", "path to the autoff evaluator binary (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if *disable {
		if err := schedule.Remove(cfg.CronFile); err != nil {
			log.Fatalf("disable auto-off: %v", err)
		}
		fmt.Println("auto-off disabled")
		return
	}

	p, err := policy.New(*inactivityThresholdMins, *loadWindowMins, *idleThreshold, *sshCheck)
	if err != nil {
		log.Fatalf("configure policy: %v", err)
	}
	shutdownAt, err := schedule.ParseClock(*shutdownTime)
	if err != nil {
		log.Fatalf("parse shutdown time: %v", err)
	}

	binPath := cfg.EvaluatorPath
	if *evaluatorPath != "" {
		binPath = *evaluatorPath
	}

	windows, err := schedule.Compile(p, shutdownAt, schedule.Options{
		EvaluatorPath:      binPath,
		ShutdownAtMidnight: *midnight,
	})
	if err != nil {
		log.Fatalf("compile schedule: %v", err)
	}

	// Replace any previously installed table; Install itself never overwrites.
	if err := schedule.Remove(cfg.CronFile); err != nil {
		log.Fatalf("remove previous trigger table: %v", err)
	}
	if err := schedule.Install(cfg.CronFile, schedule.RenderCron(windows)); err != nil {
		log.Fatalf("install trigger table: %v", err)
	}
	fmt.Printf("auto-off enabled: first evaluator run at %s, shutdown no earlier than %s\n",
		mustFirstRun(p, shutdownAt), shutdownAt)
}

func mustFirstRun(p policy.Policy, shutdownAt schedule.Clock) schedule.Clock {
	first, err := schedule.FirstRun(shutdownAt, p)
	if err != nil {
		// Compile already validated this.
		log.Fatalf("first run time: %v", err)
	}
	return first
}

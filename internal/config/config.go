package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds runtime paths and commands for the evaluator and the
// schedule tool. The policy itself arrives via CLI flags each tick.
type Config struct {
	RecordFile      string   `yaml:"record_file"`
	LoadavgFile     string   `yaml:"loadavg_file"`
	LogFile         string   `yaml:"log_file"`
	JournalFile     string   `yaml:"journal_file"`
	CronFile        string   `yaml:"cron_file"`
	EvaluatorPath   string   `yaml:"evaluator_path"`
	ShutdownCommand []string `yaml:"shutdown_command"`
	ListenAddr      string   `yaml:"listen_addr"`
}

// DefaultConfig returns sensible defaults in case no configuration file is
// provided. The record file deliberately lives in a non-persistent directory
// so the sample log resets on boot.
func DefaultConfig() Config {
	return Config{
		RecordFile:      "/tmp/loadavg_record",
		LoadavgFile:     "/proc/loadavg",
		LogFile:         "/var/log/autoff.log",
		JournalFile:     "/tmp/autoff_journal.json",
		CronFile:        "/etc/cron.d/autoff",
		EvaluatorPath:   "/usr/local/bin/autoff",
		ShutdownCommand: []string{"/usr/sbin/shutdown", "now"},
		ListenAddr:      ":8113",
	}
}

// Load reads configuration from a yaml file. Missing files fall back to
// defaults; unset fields keep their default values.
func Load(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if len(cfg.ShutdownCommand) == 0 || strings.TrimSpace(cfg.ShutdownCommand[0]) == "" {
		cfg.ShutdownCommand = DefaultConfig().ShutdownCommand
	}
	if cfg.RecordFile == "" {
		cfg.RecordFile = DefaultConfig().RecordFile
	}
	if cfg.LoadavgFile == "" {
		cfg.LoadavgFile = DefaultConfig().LoadavgFile
	}
	return cfg, nil
}

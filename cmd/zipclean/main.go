// SPDX-License-Identifier: Zlib
// Copyright (c) 2026 Mark Adler
// Source: github.com/madler/zipclean

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/woozymasta/pathrules"
	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v3"

	"github.com/madler/zipclean"
)

var version = "dev"

func usage() {
	fmt.Fprintf(os.Stderr, `zipclean %s [options] [--] file.zip [...]

Repairs directory traversal vulnerabilities in zip entry names, in place.
A leading / becomes _ and every .. component becomes __ ; name lengths
never change. Without -f, changes are only reported.

Options:
  -f              write fixed names back into the archives
  -backup N       keep N backup generations (<file>.bak[.K]) before writing
  -config FILE    YAML config with entry rules, backup, and log settings
`, version)
}

func main() {
	apply := flag.Bool("f", false, "write fixed names back into the archives")
	backupKeep := flag.Int("backup", 0, "backup generations to keep before in-place writes")
	configPath := flag.String("config", "", "YAML config file")
	flag.Usage = usage
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "zipclean: config: %v\n", err)
		os.Exit(2)
	}

	diag := setupDiagnostics(cfg)

	keep := cfg.BackupKeep
	if *backupKeep > 0 {
		keep = *backupKeep
	}

	opts := zipclean.Options{
		Apply:      *apply,
		BackupKeep: keep,
		Rules:      cfg.rules(),
		MatcherOptions: pathrules.MatcherOptions{
			CaseInsensitive: cfg.CaseInsensitive,
			DefaultAction:   cfg.defaultAction(),
		},
		OnFix: func(fix zipclean.NameFix) {
			fmt.Printf("%s: %s -> %s\n", fix.Path, fix.OldName, fix.NewName)
		},
	}

	// Per-archive failures are reported and skipped; they never change the
	// overall exit code.
	for _, res := range zipclean.CleanAll(paths, opts) {
		if res.Err == nil {
			continue
		}

		suffix := ""
		if res.Modified {
			suffix = " (modified)"
		}

		diag.Printf("zipclean: %v %s -- skipping%s", res.Err, res.Path, suffix)
	}
}

// config is the optional YAML configuration for the tool.
type config struct {
	// Include lists entry name patterns eligible for correction.
	Include []string `yaml:"include"`
	// Exclude lists entry name patterns never corrected.
	Exclude []string `yaml:"exclude"`
	// CaseInsensitive controls pattern matching case behavior.
	CaseInsensitive bool `yaml:"caseInsensitive"`
	// BackupKeep is the number of backup generations kept before writes.
	BackupKeep int `yaml:"backupKeep"`
	// Log configures the optional rotating diagnostics log.
	Log logConfig `yaml:"log"`
}

// logConfig configures diagnostics log rotation.
type logConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
	MaxBackups int    `yaml:"maxBackups"`
	Compress   bool   `yaml:"compress"`
}

// loadConfig reads the YAML config when a path is given and fills defaults.
func loadConfig(path string) (config, error) {
	var cfg config
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cfg, err
		}
		defer func() { _ = f.Close() }()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(&cfg); err != nil {
			return cfg, err
		}
	}

	if cfg.BackupKeep < 0 {
		cfg.BackupKeep = 0
	}
	if cfg.Log.MaxSizeMB <= 0 {
		cfg.Log.MaxSizeMB = 25
	}
	if cfg.Log.MaxAgeDays <= 0 {
		cfg.Log.MaxAgeDays = 7
	}
	if cfg.Log.MaxBackups <= 0 {
		cfg.Log.MaxBackups = 5
	}

	return cfg, nil
}

// rules converts config include/exclude patterns to ordered matcher rules.
func (cfg config) rules() []pathrules.Rule {
	rules := make([]pathrules.Rule, 0, len(cfg.Include)+len(cfg.Exclude))
	for _, pattern := range cfg.Include {
		rules = append(rules, pathrules.Rule{
			Action:  pathrules.ActionInclude,
			Pattern: pattern,
		})
	}
	for _, pattern := range cfg.Exclude {
		rules = append(rules, pathrules.Rule{
			Action:  pathrules.ActionExclude,
			Pattern: pattern,
		})
	}

	return rules
}

// defaultAction picks the fallback action for names no rule matches:
// exclude-only rule sets keep everything else eligible.
func (cfg config) defaultAction() pathrules.Action {
	if len(cfg.Include) == 0 {
		return pathrules.ActionInclude
	}

	return pathrules.ActionExclude
}

// setupDiagnostics builds the stderr diagnostics logger, duplicated into a
// rotating log file when one is configured.
func setupDiagnostics(cfg config) *log.Logger {
	var w io.Writer = os.Stderr
	if cfg.Log.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxAge:     cfg.Log.MaxAgeDays,
			MaxBackups: cfg.Log.MaxBackups,
			Compress:   cfg.Log.Compress,
		}
		w = io.MultiWriter(os.Stderr, rotator)
	}

	return log.New(w, "", 0)
}

/*
Package main implements the spelling server and CLI [DBG] application.

symserve answers spelling queries over memory-mapped binary dictionaries
built around the symmetric-delete algorithm: ranked suggestions for a single
token, confidence-scored auto-correction, per-token compound correction, and
word segmentation of concatenated input. The mmap stores keep the resident
footprint in the tens of megabytes even for full-size frequency
dictionaries, which is what makes the engine usable inside keyboard
extensions and other memory-starved hosts.

# Usage

Start the server with default settings:

	symserve -data /path/to/data

Enable keyboard-weighted distances and debug logging:

	symserve -data data/ -layout qwerty -d

Run in CLI mode for interactive testing:

	symserve -data data/ -c

The data directory must contain words.bin and deletes.bin as produced by
symbuild, and may contain bigrams.bin and keyboard_<layout>.bin. Missing
optional files only disable the features built on them: no bigrams means no
context ranking and no segmentation, no layout means unweighted distances.

# Configuration

Runtime configuration is a TOML file created with defaults on first run:

	[engine]
	max_edit_distance = 2
	prefix_length = 7
	ranking_mode = "distance_first"

	[server]
	max_limit = 64
	default_limit = 10

# IPC Protocol

The server communicates via msgpack over stdin/stdout. Each request carries
an id, a command and the command's fields; responses echo the id, and query
responses include engine timing in microseconds. See the server package for
the message shapes.

# CLI Mode

CLI mode reads lines from stdin: a bare word runs a Top lookup, and
:closest, :all, :prefix, :fix, :compound and :seg reach the other queries.
It is intended for development and debugging, not production use.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/bastiangx/symserve/internal/cli"
	"github.com/bastiangx/symserve/pkg/config"
	"github.com/bastiangx/symserve/pkg/server"
	"github.com/bastiangx/symserve/pkg/spell"
)

const (
	Version = "0.3.0"
	AppName = "symserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires config, engine and the chosen front end together; the logic
// lives in the packages.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	dataDir := flag.String("data", "data/", "Directory containing the binary dictionaries")
	configPath := flag.String("config", "", "Path to a config.toml (default: user config dir)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	layout := flag.String("layout", "", "Keyboard layout for weighted distances (e.g. qwerty)")
	ranking := flag.String("ranking", "", "Ranking mode: distance_first, balanced, frequency_boosted")
	limit := flag.Int("limit", 0, "Number of suggestions to return in CLI mode")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", AppName, Version)
		return
	}
	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.Debug("Debug mode enabled")
	}

	fileConfig, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Warnf("Config unavailable, using defaults: %v", err)
		fileConfig = config.DefaultConfig()
	}
	if activePath != "" {
		log.Debugf("Active config: %s", activePath)
	}
	if *layout != "" {
		fileConfig.Engine.KeyboardLayout = *layout
	}
	if *ranking != "" {
		fileConfig.Engine.RankingMode = *ranking
	}

	engineConfig, err := fileConfig.Spell()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	engine, err := spell.Open(*dataDir, engineConfig)
	if err != nil {
		log.Fatalf("Failed to open engine at %s: %v", *dataDir, err)
	}
	defer engine.Close()

	if *cliMode {
		cliLimit := *limit
		if cliLimit < 1 {
			cliLimit = fileConfig.Server.DefaultLimit
		}
		banner := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%s %s", AppName, Version))
		log.Print(banner)
		handler := cli.NewInputHandler(engine, cliLimit, fileConfig.Server.MaxInput)
		if err := handler.Start(); err != nil {
			log.Fatalf("CLI terminated: %v", err)
		}
		return
	}

	srv := server.NewServer(engine, fileConfig.Server)
	if err := srv.Start(); err != nil {
		log.Fatalf("Server terminated: %v", err)
	}
}

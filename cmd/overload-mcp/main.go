package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/claude/overload/internal/analysis"
	"github.com/claude/overload/internal/mcp"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "Overload server URL (e.g. https://overload.tail1234.ts.net)")
	weeks := flag.Int("weeks", 4, "default volume period in weeks")
	activeDays := flag.Int("active-days", analysis.DefaultActiveDays, "days without training before a lift is History")
	minDays := flag.Int("min-days", analysis.DefaultMinTrainingDays, "training days before a lift stops being New")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("overload-mcp", Version)
		return
	}

	if *serverURL == "" {
		fmt.Fprintf(os.Stderr, "Usage: overload-mcp -server <URL>\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// stdout carries the MCP protocol; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	s := mcp.New(mcp.NewHTTPClient(*serverURL), mcp.Options{
		Analysis:     analysis.Options{ActiveDays: *activeDays, MinTrainingDays: *minDays},
		DefaultWeeks: *weeks,
	}, Version, log)

	log.Info("serving MCP over stdio", "server", *serverURL)
	if err := mcpserver.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}

// Package main provides the clinvar-import command-line tool.
package main

import (
	"flag"
	"fmt"
	"os"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Global flags
	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	// Parse global flags first
	flag.Parse()

	if showVersion {
		fmt.Printf("clinvar-import version %s (%s) built %s\n", version, commit, date)
		return ExitSuccess
	}

	// Check for subcommand
	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		return ExitUsage
	}

	switch args[0] {
	case "import":
		return runImport(args[1:])
	case "init":
		return runInit(args[1:])
	case "download":
		return runDownload(args[1:])
	case "config":
		return runConfig(args[1:])
	case "help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", args[0])
		printUsage()
		return ExitUsage
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `clinvar-import - ClinVar release importer for a variation store

Usage:
  clinvar-import [options] <command> [arguments]

Commands:
  import      Import a ClinVar XML release dump into the variation store
  init        Create the variation store schema and register the data source
  download    Download the latest ClinVar XML release dump
  config      Manage clinvar-import configuration
  help        Show this help message

Global Options:
  --version   Show version information

Examples:
  # Create a store and register the ClinVar source (one-time setup)
  clinvar-import init --registry registry.yaml

  # Download the current full release
  clinvar-import download

  # Import a release dump
  clinvar-import import --input ClinVarFullRelease.xml.gz --registry registry.yaml --assembly GRCh38

  # Re-run incrementally, skipping already imported accessions
  clinvar-import import --input ClinVarFullRelease.xml.gz --registry registry.yaml \
      --assembly GRCh38 --resume-list done.txt

For more information on a command, use:
  clinvar-import <command> --help
`)
}

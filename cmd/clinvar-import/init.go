package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/inodb/clinvar-import/internal/store"
)

func runInit(args []string) int {
	fs := flag.NewFlagSet("init", flag.ExitOnError)

	var (
		registryPath  string
		sourceVersion string
	)

	fs.StringVar(&registryPath, "registry", "", "Registry YAML file with store and source settings")
	fs.StringVar(&sourceVersion, "source-version", "", "Initial release version to record on the source row")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Create the variation store schema and register the data source.

This is a one-time setup step. The import command refuses to run against a
store where the configured source is not registered.

Usage:
  clinvar-import init [options]

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  clinvar-import init --registry registry.yaml
  clinvar-import init --registry registry.yaml --source-version 2026-08
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if registryPath == "" {
		fmt.Fprintf(os.Stderr, "Error: --registry is required\n\n")
		fs.Usage()
		return ExitUsage
	}

	reg, err := loadRegistry(registryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	if sourceVersion == "" {
		sourceVersion = reg.SourceVersion
	}

	db, err := store.Open(reg.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	defer db.Close()

	if err := db.CreateSchema(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	src, err := db.SourceByName(reg.SourceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	if src == nil {
		src = &store.Source{Name: reg.SourceName, Version: sourceVersion}
		if err := db.CreateSource(src); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitError
		}
		fmt.Printf("Registered source %q (id %d) in %s\n", src.Name, src.ID, reg.DatabasePath)
	} else {
		fmt.Printf("Source %q already registered (id %d) in %s\n", src.Name, src.ID, reg.DatabasePath)
	}

	return ExitSuccess
}

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/clinvar-import/internal/clinvar"
	"github.com/inodb/clinvar-import/internal/hgvs"
	"github.com/inodb/clinvar-import/internal/importer"
	"github.com/inodb/clinvar-import/internal/store"
)

// registry holds the settings read from the registry file.
type registry struct {
	DatabasePath  string
	SourceName    string
	SourceVersion string
	Assembly      string
}

// loadRegistry reads the registry YAML file with viper.
func loadRegistry(path string) (*registry, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("source.name", "ClinVar")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read registry %s: %w", path, err)
	}

	reg := &registry{
		DatabasePath:  v.GetString("database.path"),
		SourceName:    v.GetString("source.name"),
		SourceVersion: v.GetString("source.version"),
		Assembly:      v.GetString("assembly"),
	}
	if reg.DatabasePath == "" {
		return nil, fmt.Errorf("registry %s has no database.path", path)
	}
	return reg, nil
}

func runImport(args []string) int {
	fs := flag.NewFlagSet("import", flag.ExitOnError)

	var (
		inputPath      string
		registryPath   string
		assembly       string
		structuralOnly bool
		resumePath     string
		cleanup        bool
		sourceVersion  string
		verbose        bool
	)

	fs.StringVar(&inputPath, "input", "", "ClinVar XML release dump (.xml or .xml.gz, '-' for stdin)")
	fs.StringVar(&inputPath, "i", "", "ClinVar XML release dump (shorthand)")
	fs.StringVar(&registryPath, "registry", "", "Registry YAML file with store and source settings")
	fs.StringVar(&assembly, "assembly", "", "Target genome assembly (e.g. GRCh38)")
	fs.BoolVar(&structuralOnly, "structural-variants", false, "Only import structural variant records")
	fs.StringVar(&resumePath, "resume-list", "", "Done file from a previous run; listed accessions are skipped")
	fs.BoolVar(&cleanup, "cleanup", false, "Delete previously imported annotations for this source before importing")
	fs.StringVar(&sourceVersion, "source-version", "", "Release version to record on the source row (overrides registry)")
	fs.BoolVar(&verbose, "v", false, "Verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Import a ClinVar XML release dump into the variation store.

Usage:
  clinvar-import import [options]

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  clinvar-import import --input ClinVarFullRelease.xml.gz --registry registry.yaml --assembly GRCh38
  clinvar-import import -i dump.xml --registry registry.yaml --assembly GRCh37 --structural-variants
  clinvar-import import -i dump.xml.gz --registry registry.yaml --assembly GRCh38 --cleanup
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if inputPath == "" {
		fmt.Fprintf(os.Stderr, "Error: --input is required\n\n")
		fs.Usage()
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

	if assembly == "" {
		assembly = reg.Assembly
	}
	if assembly == "" {
		fmt.Fprintf(os.Stderr, "Error: --assembly is required (or set assembly in the registry)\n\n")
		fs.Usage()
		return ExitUsage
	}
	if sourceVersion == "" {
		sourceVersion = reg.SourceVersion
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: create logger: %v\n", err)
		return ExitError
	}
	defer logger.Sync()
	if !verbose {
		logger = logger.WithOptions(zap.IncreaseLevel(zap.InfoLevel))
	}

	db, err := store.Open(reg.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	defer db.Close()

	imp, err := importer.New(db, hgvs.NewParser(), importer.Config{
		SourceName:     reg.SourceName,
		SourceVersion:  sourceVersion,
		Assembly:       assembly,
		StructuralOnly: structuralOnly,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if registryPath != "" {
			fmt.Fprintf(os.Stderr, "Hint: run 'clinvar-import init --registry %s' to set up the store\n", registryPath)
		}
		return ExitError
	}
	imp.SetLogger(logger)

	if resumePath != "" {
		accessions, err := importer.LoadResumeList(resumePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitError
		}
		logger.Info("loaded resume list",
			zap.String("path", resumePath),
			zap.Int("accessions", len(accessions)))
		imp.SetResumeList(accessions)
	}

	if cleanup {
		if err := imp.Cleanup(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitError
		}
	}

	reader, err := clinvar.NewReader(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Hint: Check that the file path is correct\n")
		}
		return ExitError
	}
	defer reader.Close()

	stats, err := imp.Run(reader)
	if err != nil {
		// A mid-run failure is an operational emergency: dump enough context
		// for diagnosis and abort.
		logger.Error("import aborted",
			zap.Int("sets_read", reader.SetCount()),
			zap.Int("imported", stats.Imported),
			zap.Int("skipped", stats.Skipped),
			zap.Error(err))
		return ExitError
	}

	fmt.Printf("Imported %d records (%d skipped, %d dropped)\n",
		stats.Imported, stats.Skipped, stats.Dropped)
	return ExitSuccess
}

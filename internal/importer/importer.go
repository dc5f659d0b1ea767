// Package importer implements the ClinVar batch import pipeline.
package importer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/clinvar-import/internal/clinvar"
	"github.com/inodb/clinvar-import/internal/store"
)

// Store defines the storage operations the pipeline consumes.
type Store interface {
	SourceByName(name string) (*store.Source, error)
	UpdateSourceVersion(sourceID int64, version string) error
	VariantByName(name string) (*store.Variant, error)
	CreateVariant(v *store.Variant, alleles []*store.Allele, f *store.Feature) error
	UpdateVariantSignificance(variantID int64, significance string) error
	FeaturesByVariant(variantID int64) ([]*store.Feature, error)
	StructuralFeaturesByName(name string) ([]*store.Feature, error)
	RegionByName(name string) (string, error)
	PhenotypeByDescription(description string) (*store.Phenotype, error)
	CreatePhenotype(p *store.Phenotype) error
	AddPhenotypeXRef(phenotypeID int64, x store.PhenotypeXRef) error
	CreateAnnotationFeature(af *store.AnnotationFeature) error
	InsertSynonym(variantID, sourceID int64, name string) error
	Cleanup(sourceID int64) error
}

// AlleleParser parses genomic HGVS notation into an allele pair.
type AlleleParser interface {
	Parse(notation string) (ref, alt string, err error)
}

// RecordSource yields ClinVarSet records until exhausted (nil, nil).
type RecordSource interface {
	Next() (*clinvar.Set, error)
}

// Feature kind labels written on annotation features.
const (
	KindVariation  = "Variation"
	KindStructural = "StructuralVariation"
)

// Status classifies the handling of one record.
type Status int

const (
	// StatusImported means annotation features were written.
	StatusImported Status = iota
	// StatusSkipped means an expected recoverable condition stopped the
	// import of this record; a reason is attached.
	StatusSkipped
	// StatusDropped means the record matched neither import path and was
	// silently ignored.
	StatusDropped
)

// Outcome is the structured result of importing one record.
type Outcome struct {
	Status    Status
	Accession string
	Reason    string
}

// Stats accumulates per-run outcome counts.
type Stats struct {
	Imported int
	Skipped  int
	Dropped  int
}

// Config carries the explicit run configuration; there is no ambient state.
type Config struct {
	SourceName     string
	SourceVersion  string
	Assembly       string
	StructuralOnly bool
}

// Importer drives the sequential import of a ClinVar release dump.
type Importer struct {
	store      Store
	alleles    AlleleParser
	logger     *zap.Logger
	source     *store.Source
	assembly   string
	structural bool
	resume     map[string]bool
}

// New creates an importer bound to a registered source. A missing source row
// is a fatal configuration error. When a source version is configured it is
// overwritten on the source row immediately.
func New(st Store, alleles AlleleParser, cfg Config) (*Importer, error) {
	if cfg.SourceName == "" {
		return nil, fmt.Errorf("source name is required")
	}
	if cfg.Assembly == "" {
		return nil, fmt.Errorf("target assembly is required")
	}

	src, err := st.SourceByName(cfg.SourceName)
	if err != nil {
		return nil, fmt.Errorf("look up source: %w", err)
	}
	if src == nil {
		return nil, fmt.Errorf("source %q is not registered in the store", cfg.SourceName)
	}

	if cfg.SourceVersion != "" && cfg.SourceVersion != src.Version {
		if err := st.UpdateSourceVersion(src.ID, cfg.SourceVersion); err != nil {
			return nil, fmt.Errorf("update source version: %w", err)
		}
		src.Version = cfg.SourceVersion
	}

	return &Importer{
		store:      st,
		alleles:    alleles,
		logger:     zap.NewNop(),
		source:     src,
		assembly:   cfg.Assembly,
		structural: cfg.StructuralOnly,
	}, nil
}

// SetLogger sets the logger for warning and progress messages.
func (imp *Importer) SetLogger(l *zap.Logger) {
	imp.logger = l
}

// SetResumeList installs the set of accessions to skip, typically loaded from
// a previous run's done file.
func (imp *Importer) SetResumeList(accessions map[string]bool) {
	imp.resume = accessions
}

// Run imports every record from the source. Extraction and storage errors are
// fatal and abort the run; recoverable conditions are logged and counted.
func (imp *Importer) Run(records RecordSource) (*Stats, error) {
	stats := &Stats{}
	for {
		set, err := records.Next()
		if err != nil {
			return stats, fmt.Errorf("read record: %w", err)
		}
		if set == nil {
			break
		}

		outcome, err := imp.ImportSet(set)
		if err != nil {
			return stats, err
		}

		switch outcome.Status {
		case StatusImported:
			stats.Imported++
			imp.logger.Debug("imported record", zap.String("accession", outcome.Accession))
		case StatusSkipped:
			stats.Skipped++
			imp.logger.Warn("skipped record",
				zap.String("accession", outcome.Accession),
				zap.String("reason", outcome.Reason))
		case StatusDropped:
			stats.Dropped++
		}
	}

	imp.logger.Info("import finished",
		zap.Int("imported", stats.Imported),
		zap.Int("skipped", stats.Skipped),
		zap.Int("dropped", stats.Dropped))
	return stats, nil
}

// ImportSet imports one ClinVarSet record. A returned error is fatal for the
// whole run (malformed record or storage failure); recoverable conditions are
// reported through the outcome.
func (imp *Importer) ImportSet(set *clinvar.Set) (Outcome, error) {
	rec, err := clinvar.Extract(set, imp.assembly)
	if err != nil {
		return Outcome{}, fmt.Errorf("malformed record (title %q): %w", set.Title, err)
	}

	if imp.resume[rec.Accession] {
		return Outcome{Status: StatusSkipped, Accession: rec.Accession, Reason: "already imported"}, nil
	}

	if imp.structural {
		// Short-variant data, when present, wins; the structural path is
		// skipped for such records entirely.
		if len(rec.DbVarIDs()) == 0 || len(rec.DbSNPIDs()) > 0 {
			return Outcome{Status: StatusDropped, Accession: rec.Accession}, nil
		}
		return imp.importStructural(rec)
	}

	if len(rec.DbSNPIDs()) == 0 {
		return Outcome{Status: StatusDropped, Accession: rec.Accession}, nil
	}
	return imp.importShort(rec)
}

// importShort handles the default dbSNP-backed import path.
func (imp *Importer) importShort(rec *clinvar.Record) (Outcome, error) {
	name := "rs" + rec.DbSNPIDs()[0]

	variant, features, alt, err := imp.resolveVariant(rec, name)
	if err != nil {
		return skipOutcome(rec, err)
	}

	if err := imp.writeAnnotations(rec, KindVariation, features, alt); err != nil {
		return Outcome{}, err
	}

	if err := imp.store.InsertSynonym(variant.ID, imp.source.ID, rec.Accession); err != nil {
		return Outcome{}, err
	}
	if rec.Significance != "" {
		if err := imp.store.UpdateVariantSignificance(variant.ID, rec.Significance); err != nil {
			return Outcome{}, err
		}
	}

	return Outcome{Status: StatusImported, Accession: rec.Accession}, nil
}

// importStructural handles the structural-variant path: the positional
// features must already exist and are only read.
func (imp *Importer) importStructural(rec *clinvar.Record) (Outcome, error) {
	name := rec.DbVarIDs()[0]

	features, err := imp.store.StructuralFeaturesByName(name)
	if err != nil {
		return Outcome{}, err
	}
	if len(features) == 0 {
		return skipOutcome(rec, skipf("structural variant %s not found in store", name))
	}

	if err := imp.writeAnnotations(rec, KindStructural, features, ""); err != nil {
		return Outcome{}, err
	}
	return Outcome{Status: StatusImported, Accession: rec.Accession}, nil
}

// Cleanup removes every annotation feature, attribute row, and synonym
// written for this importer's source and clears the denormalized significance
// summary on all variants. Global, destructive, and intended as a one-time
// pre-import step.
func (imp *Importer) Cleanup() error {
	imp.logger.Info("cleaning previously imported annotations",
		zap.String("source", imp.source.Name))
	if err := imp.store.Cleanup(imp.source.ID); err != nil {
		return fmt.Errorf("cleanup source %s: %w", imp.source.Name, err)
	}
	return nil
}

// skipOutcome converts a recoverable skip error into an outcome; any other
// error stays fatal.
func skipOutcome(rec *clinvar.Record, err error) (Outcome, error) {
	var se *skipError
	if asSkip(err, &se) {
		return Outcome{Status: StatusSkipped, Accession: rec.Accession, Reason: se.reason}, nil
	}
	return Outcome{}, err
}

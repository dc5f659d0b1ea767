package store

import (
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"
)

// DB provides access to the variation schema stored in a DuckDB database.
type DB struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) a DuckDB-backed variation store at the given path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	return &DB{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *DB) Close() error {
	return s.db.Close()
}

// CreateSchema creates the variation schema tables and sequences if they do
// not exist.
func (s *DB) CreateSchema() error {
	stmts := []string{
		`CREATE SEQUENCE IF NOT EXISTS seq_source_id`,
		`CREATE SEQUENCE IF NOT EXISTS seq_variant_id`,
		`CREATE SEQUENCE IF NOT EXISTS seq_allele_id`,
		`CREATE SEQUENCE IF NOT EXISTS seq_feature_id`,
		`CREATE SEQUENCE IF NOT EXISTS seq_phenotype_id`,
		`CREATE SEQUENCE IF NOT EXISTS seq_annotation_id`,
		`CREATE SEQUENCE IF NOT EXISTS seq_region_id`,
		`CREATE TABLE IF NOT EXISTS source (
			source_id BIGINT PRIMARY KEY DEFAULT nextval('seq_source_id'),
			name VARCHAR NOT NULL UNIQUE,
			version VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS region (
			region_id BIGINT PRIMARY KEY DEFAULT nextval('seq_region_id'),
			name VARCHAR NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS variant (
			variant_id BIGINT PRIMARY KEY DEFAULT nextval('seq_variant_id'),
			name VARCHAR NOT NULL UNIQUE,
			source_id BIGINT NOT NULL,
			somatic BOOLEAN NOT NULL DEFAULT false,
			clinical_significance VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS allele (
			allele_id BIGINT PRIMARY KEY DEFAULT nextval('seq_allele_id'),
			variant_id BIGINT NOT NULL,
			sequence VARCHAR NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS variation_feature (
			feature_id BIGINT PRIMARY KEY DEFAULT nextval('seq_feature_id'),
			variant_id BIGINT NOT NULL,
			region VARCHAR NOT NULL,
			start BIGINT NOT NULL,
			end_ BIGINT NOT NULL,
			strand INTEGER NOT NULL,
			map_weight INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS structural_variation_feature (
			feature_id BIGINT PRIMARY KEY DEFAULT nextval('seq_feature_id'),
			name VARCHAR NOT NULL,
			region VARCHAR NOT NULL,
			start BIGINT NOT NULL,
			end_ BIGINT NOT NULL,
			strand INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS phenotype (
			phenotype_id BIGINT PRIMARY KEY DEFAULT nextval('seq_phenotype_id'),
			description VARCHAR NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS phenotype_xref (
			phenotype_id BIGINT NOT NULL,
			accession VARCHAR NOT NULL,
			source VARCHAR NOT NULL,
			relation VARCHAR NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS annotation_feature (
			annotation_id BIGINT PRIMARY KEY DEFAULT nextval('seq_annotation_id'),
			feature_id BIGINT NOT NULL,
			phenotype_id BIGINT NOT NULL,
			source_id BIGINT NOT NULL,
			kind VARCHAR NOT NULL,
			region VARCHAR NOT NULL,
			start BIGINT NOT NULL,
			end_ BIGINT NOT NULL,
			strand INTEGER NOT NULL,
			significant BOOLEAN NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS annotation_attrib (
			annotation_id BIGINT NOT NULL,
			code VARCHAR NOT NULL,
			value VARCHAR NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS synonym (
			variant_id BIGINT NOT NULL,
			source_id BIGINT NOT NULL,
			name VARCHAR NOT NULL,
			UNIQUE (variant_id, source_id, name)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// SourceByName returns the source row with the given name, or nil if absent.
func (s *DB) SourceByName(name string) (*Source, error) {
	row := s.db.QueryRow(`SELECT source_id, name, version FROM source WHERE name = ?`, name)

	src := &Source{}
	var version sql.NullString
	err := row.Scan(&src.ID, &src.Name, &version)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan source: %w", err)
	}
	src.Version = version.String
	return src, nil
}

// CreateSource inserts a new source row.
func (s *DB) CreateSource(src *Source) error {
	row := s.db.QueryRow(
		`INSERT INTO source (name, version) VALUES (?, ?) RETURNING source_id`,
		src.Name, src.Version,
	)
	if err := row.Scan(&src.ID); err != nil {
		return fmt.Errorf("insert source: %w", err)
	}
	return nil
}

// UpdateSourceVersion overwrites the version string of a source.
func (s *DB) UpdateSourceVersion(sourceID int64, version string) error {
	if _, err := s.db.Exec(`UPDATE source SET version = ? WHERE source_id = ?`, version, sourceID); err != nil {
		return fmt.Errorf("update source version: %w", err)
	}
	return nil
}

// VariantByName returns the variant with the given external name, or nil if absent.
func (s *DB) VariantByName(name string) (*Variant, error) {
	row := s.db.QueryRow(
		`SELECT variant_id, name, source_id, somatic, clinical_significance
		 FROM variant WHERE name = ?`, name)

	v := &Variant{}
	var sig sql.NullString
	err := row.Scan(&v.ID, &v.Name, &v.SourceID, &v.Somatic, &sig)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan variant: %w", err)
	}
	v.Significance = sig.String
	return v, nil
}

// CreateVariant persists a new variant, its alleles, and its positional
// feature, in that order. IDs are assigned on the passed structs.
func (s *DB) CreateVariant(v *Variant, alleles []*Allele, f *Feature) error {
	row := s.db.QueryRow(
		`INSERT INTO variant (name, source_id, somatic) VALUES (?, ?, ?) RETURNING variant_id`,
		v.Name, v.SourceID, v.Somatic,
	)
	if err := row.Scan(&v.ID); err != nil {
		return fmt.Errorf("insert variant: %w", err)
	}

	for _, a := range alleles {
		a.VariantID = v.ID
		row := s.db.QueryRow(
			`INSERT INTO allele (variant_id, sequence) VALUES (?, ?) RETURNING allele_id`,
			a.VariantID, a.Sequence,
		)
		if err := row.Scan(&a.ID); err != nil {
			return fmt.Errorf("insert allele: %w", err)
		}
	}

	f.VariantID = v.ID
	row = s.db.QueryRow(
		`INSERT INTO variation_feature (variant_id, region, start, end_, strand, map_weight)
		 VALUES (?, ?, ?, ?, ?, ?) RETURNING feature_id`,
		f.VariantID, f.Region, f.Start, f.End, f.Strand, f.MapWeight,
	)
	if err := row.Scan(&f.ID); err != nil {
		return fmt.Errorf("insert variation feature: %w", err)
	}
	return nil
}

// UpdateVariantSignificance overwrites the denormalized significance summary.
func (s *DB) UpdateVariantSignificance(variantID int64, significance string) error {
	if _, err := s.db.Exec(
		`UPDATE variant SET clinical_significance = ? WHERE variant_id = ?`,
		significance, variantID,
	); err != nil {
		return fmt.Errorf("update variant significance: %w", err)
	}
	return nil
}

// FeaturesByVariant returns all positional features of a variant.
func (s *DB) FeaturesByVariant(variantID int64) ([]*Feature, error) {
	rows, err := s.db.Query(
		`SELECT feature_id, variant_id, region, start, end_, strand, map_weight
		 FROM variation_feature WHERE variant_id = ? ORDER BY feature_id`, variantID)
	if err != nil {
		return nil, fmt.Errorf("query variation features: %w", err)
	}
	defer rows.Close()

	var features []*Feature
	for rows.Next() {
		f := &Feature{}
		if err := rows.Scan(&f.ID, &f.VariantID, &f.Region, &f.Start, &f.End, &f.Strand, &f.MapWeight); err != nil {
			return nil, fmt.Errorf("scan variation feature: %w", err)
		}
		features = append(features, f)
	}
	return features, rows.Err()
}

// StructuralFeaturesByName returns the pre-existing structural variation
// features registered under the given external name. This pipeline only ever
// reads them.
func (s *DB) StructuralFeaturesByName(name string) ([]*Feature, error) {
	rows, err := s.db.Query(
		`SELECT feature_id, region, start, end_, strand
		 FROM structural_variation_feature WHERE name = ? ORDER BY feature_id`, name)
	if err != nil {
		return nil, fmt.Errorf("query structural features: %w", err)
	}
	defer rows.Close()

	var features []*Feature
	for rows.Next() {
		f := &Feature{MapWeight: 1}
		if err := rows.Scan(&f.ID, &f.Region, &f.Start, &f.End, &f.Strand); err != nil {
			return nil, fmt.Errorf("scan structural feature: %w", err)
		}
		features = append(features, f)
	}
	return features, rows.Err()
}

// RegionByName resolves a chromosome name to a region handle, creating the
// region row on first use.
func (s *DB) RegionByName(name string) (string, error) {
	var got string
	err := s.db.QueryRow(`SELECT name FROM region WHERE name = ?`, name).Scan(&got)
	if err == nil {
		return got, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("scan region: %w", err)
	}
	if _, err := s.db.Exec(`INSERT INTO region (name) VALUES (?)`, name); err != nil {
		return "", fmt.Errorf("insert region: %w", err)
	}
	return name, nil
}

// PhenotypeByDescription returns the first phenotype matching the exact
// description, or nil if absent. Duplicate descriptions are a pre-existing
// data condition; first match wins.
func (s *DB) PhenotypeByDescription(description string) (*Phenotype, error) {
	row := s.db.QueryRow(
		`SELECT phenotype_id, description FROM phenotype
		 WHERE description = ? ORDER BY phenotype_id LIMIT 1`, description)

	p := &Phenotype{}
	err := row.Scan(&p.ID, &p.Description)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan phenotype: %w", err)
	}
	return p, nil
}

// CreatePhenotype inserts a new phenotype row.
func (s *DB) CreatePhenotype(p *Phenotype) error {
	row := s.db.QueryRow(
		`INSERT INTO phenotype (description) VALUES (?) RETURNING phenotype_id`,
		p.Description,
	)
	if err := row.Scan(&p.ID); err != nil {
		return fmt.Errorf("insert phenotype: %w", err)
	}
	return nil
}

// AddPhenotypeXRef appends an ontology cross-reference to a phenotype.
// No deduplication: repeated attachment of the same accession adds rows.
func (s *DB) AddPhenotypeXRef(phenotypeID int64, x PhenotypeXRef) error {
	if _, err := s.db.Exec(
		`INSERT INTO phenotype_xref (phenotype_id, accession, source, relation) VALUES (?, ?, ?, ?)`,
		phenotypeID, x.Accession, x.Source, x.Relation,
	); err != nil {
		return fmt.Errorf("insert phenotype xref: %w", err)
	}
	return nil
}

// CreateAnnotationFeature persists an annotation feature and its attribute rows.
func (s *DB) CreateAnnotationFeature(af *AnnotationFeature) error {
	row := s.db.QueryRow(
		`INSERT INTO annotation_feature
			(feature_id, phenotype_id, source_id, kind, region, start, end_, strand, significant)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING annotation_id`,
		af.FeatureID, af.PhenotypeID, af.SourceID, af.Kind,
		af.Region, af.Start, af.End, af.Strand, af.Significant,
	)
	if err := row.Scan(&af.ID); err != nil {
		return fmt.Errorf("insert annotation feature: %w", err)
	}

	for code, value := range af.Attribs {
		if _, err := s.db.Exec(
			`INSERT INTO annotation_attrib (annotation_id, code, value) VALUES (?, ?, ?)`,
			af.ID, code, value,
		); err != nil {
			return fmt.Errorf("insert annotation attrib: %w", err)
		}
	}
	return nil
}

// InsertSynonym records an (variant, source, name) synonym triple. Inserting
// an existing triple is a no-op; the uniqueness constraint makes re-runs
// idempotent.
func (s *DB) InsertSynonym(variantID, sourceID int64, name string) error {
	if _, err := s.db.Exec(
		`INSERT INTO synonym (variant_id, source_id, name) VALUES (?, ?, ?)
		 ON CONFLICT DO NOTHING`,
		variantID, sourceID, name,
	); err != nil {
		return fmt.Errorf("insert synonym: %w", err)
	}
	return nil
}

// Cleanup deletes all annotation features, their attribute rows, and synonyms
// attributable to a source, and clears the denormalized significance summary
// on every variant row. Global, not scoped to any batch.
func (s *DB) Cleanup(sourceID int64) error {
	if _, err := s.db.Exec(
		`DELETE FROM annotation_attrib WHERE annotation_id IN
			(SELECT annotation_id FROM annotation_feature WHERE source_id = ?)`,
		sourceID,
	); err != nil {
		return fmt.Errorf("delete annotation attribs: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM annotation_feature WHERE source_id = ?`, sourceID); err != nil {
		return fmt.Errorf("delete annotation features: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM synonym WHERE source_id = ?`, sourceID); err != nil {
		return fmt.Errorf("delete synonyms: %w", err)
	}
	if _, err := s.db.Exec(`UPDATE variant SET clinical_significance = NULL`); err != nil {
		return fmt.Errorf("clear variant significance: %w", err)
	}
	return nil
}

// InsertStructuralFeature registers a structural variation feature. Used by
// schema seeding and tests; the import pipeline itself never writes these.
func (s *DB) InsertStructuralFeature(name string, f *Feature) error {
	row := s.db.QueryRow(
		`INSERT INTO structural_variation_feature (name, region, start, end_, strand)
		 VALUES (?, ?, ?, ?, ?) RETURNING feature_id`,
		name, f.Region, f.Start, f.End, f.Strand,
	)
	if err := row.Scan(&f.ID); err != nil {
		return fmt.Errorf("insert structural feature: %w", err)
	}
	return nil
}

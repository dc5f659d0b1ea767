// Package store provides the variation schema storage layer.
package store

// Source is a singleton row per data provider (e.g. "ClinVar"). Its version
// is overwritten on every import run.
type Source struct {
	ID      int64
	Name    string
	Version string
}

// Variant is a catalogued genetic change, identified by its external name
// (e.g. "rs123"). Significance is a denormalized summary set on import and
// cleared by cleanup.
type Variant struct {
	ID           int64
	Name         string
	SourceID     int64
	Somatic      bool
	Significance string
}

// Allele is one allele sequence of a variant. Alleles are created in pairs
// (reference then alternate) at variant creation time and never modified.
type Allele struct {
	ID        int64
	VariantID int64
	Sequence  string
}

// Feature anchors a variant (or structural variant) to a genomic location.
type Feature struct {
	ID        int64
	VariantID int64
	Region    string
	Start     int64
	End       int64
	Strand    int
	MapWeight int
}

// Phenotype is identified by its normalized free-text description.
type Phenotype struct {
	ID          int64
	Description string
	XRefs       []PhenotypeXRef
}

// PhenotypeXRef is an ontology cross-reference attached to a phenotype.
// Attachment is append-only; identical accessions are not deduplicated.
type PhenotypeXRef struct {
	Accession string
	Source    string
	Relation  string
}

// AnnotationFeature links one positional feature to one phenotype with
// clinical metadata. Attribs is the typed attribute bag persisted alongside.
type AnnotationFeature struct {
	ID          int64
	FeatureID   int64
	PhenotypeID int64
	SourceID    int64
	Kind        string
	Region      string
	Start       int64
	End         int64
	Strand      int
	Significant bool
	Attribs     map[string]string
}

// Attribute bag codes used by the annotation writer.
const (
	AttribReviewStatus   = "review_status"
	AttribAccession      = "external_accession"
	AttribSignificance   = "clinical_significance"
	AttribRiskAllele     = "risk_allele"
	AttribAssociatedGene = "associated_gene"
	AttribCatalogID      = "catalog_id"
)

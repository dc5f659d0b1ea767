package clinvar

import (
	"fmt"
	"regexp"
	"strings"
)

// External database names as they appear in ClinVar cross-references.
const (
	DBdbSNP    = "dbSNP"
	DBdbVar    = "dbVar"
	DBOMIM     = "OMIM"
	DBHPO      = "Human Phenotype Ontology"
	DBOrphanet = "Orphanet"
)

// HGVS attribute types selected by the extractor. The preferred form is
// matched exactly; anything merely containing the fallback substring is
// accepted while no preferred match has been seen.
const (
	hgvsPreferredType = "HGVS, genomic, top level"
	hgvsFallbackType  = "HGVS, genomic, top"
)

// Record is the flat extraction of one ClinVarSet: everything the import
// pipeline needs, shorn of the XML nesting.
type Record struct {
	Accession         string
	AccessionVersion  string
	Significance      string
	ReviewStatus      string
	GeneSymbols       string
	XRefs             map[string][]string // database name -> ids in document order
	Chrom             string
	Start             int64
	Stop              int64
	Strand            int
	HGVS              string
	Disease           string
	OntologyAccession string
}

// DbSNPIDs returns the dbSNP ids referenced by the record, in document order.
func (r *Record) DbSNPIDs() []string { return r.XRefs[DBdbSNP] }

// DbVarIDs returns the dbVar (structural variant) ids referenced by the record.
func (r *Record) DbVarIDs() []string { return r.XRefs[DBdbVar] }

// OMIMIDs returns the OMIM ids referenced by the record.
func (r *Record) OMIMIDs() []string { return r.XRefs[DBOMIM] }

// HasLocation reports whether a genomic placement on the target assembly was found.
func (r *Record) HasLocation() bool { return r.Chrom != "" && r.Start > 0 }

// countRE matches parenthesized submission counts in conflict explanations,
// e.g. "Pathogenic(3)". semicolonRE swallows the separator and any trailing
// whitespace so joined labels come out comma-delimited.
var (
	countRE     = regexp.MustCompile(`\(\d+\)`)
	semicolonRE = regexp.MustCompile(`;\s*`)
)

// Extract flattens one ClinVarSet into a Record. Only the sequence location
// matching the given assembly name is kept. An error means the set is
// structurally unusable and the caller should treat the dump as malformed.
func Extract(set *Set, assembly string) (*Record, error) {
	if set == nil || set.ReferenceAssertion == nil {
		return nil, fmt.Errorf("set has no reference assertion")
	}
	ref := set.ReferenceAssertion

	rec := &Record{
		XRefs:  make(map[string][]string),
		Strand: 1,
	}

	// Later accessions overwrite earlier ones on purpose: the dump lists at
	// most one RCV per reference assertion in practice, and when it does not
	// the historical behavior is last-one-wins.
	for _, acc := range ref.Accessions {
		if acc.Type == "RCV" {
			rec.Accession = acc.Acc
			rec.AccessionVersion = acc.Version
		}
	}
	if rec.Accession == "" {
		return nil, fmt.Errorf("reference assertion has no RCV accession")
	}

	if cs := ref.ClinicalSignificance; cs != nil {
		rec.ReviewStatus = cs.ReviewStatus
		rec.Significance = extractSignificance(cs)
	}

	if ref.MeasureSet == nil {
		return nil, fmt.Errorf("record %s has no measure set", rec.Accession)
	}

	for _, m := range ref.MeasureSet.Measures {
		if symbols := extractGeneSymbols(m.Relationships); symbols != "" {
			rec.GeneSymbols = symbols
		}

		for _, x := range m.XRefs {
			if x.DB == "" || x.ID == "" {
				continue
			}
			rec.XRefs[x.DB] = append(rec.XRefs[x.DB], x.ID)
		}

		for _, loc := range m.Locations {
			if loc.Assembly == assembly {
				rec.Chrom = loc.Chr
				rec.Start = loc.Start
				rec.Stop = loc.Stop
			}
		}

		rec.HGVS = extractHGVS(m.AttributeSets, rec.HGVS)
	}

	if ref.TraitSet != nil {
		extractTrait(ref.TraitSet, rec)
	}

	return rec, nil
}

// extractSignificance returns the clinical significance label. Conflicting
// interpretations carry the useful detail in the explanation, so for those the
// first explanation is used with the per-interpretation submission counts
// stripped and semicolons turned into commas.
func extractSignificance(cs *ClinicalSignificance) string {
	if strings.Contains(strings.ToLower(cs.Description), "conflict") && len(cs.Explanations) > 0 {
		expl := strings.ToLower(cs.Explanations[0])
		expl = countRE.ReplaceAllString(expl, "")
		expl = semicolonRE.ReplaceAllString(expl, ",")
		return strings.TrimSpace(expl)
	}
	return strings.ToLower(cs.Description)
}

// extractGeneSymbols returns the associated gene symbol(s). A single
// relationship contributes its first symbol value; multiple relationships
// contribute all non-empty symbol values joined with commas.
func extractGeneSymbols(rels []MeasureRelationship) string {
	switch len(rels) {
	case 0:
		return ""
	case 1:
		return firstSymbolValue(rels[0])
	default:
		var symbols []string
		for _, rel := range rels {
			if s := firstSymbolValue(rel); s != "" {
				symbols = append(symbols, s)
			}
		}
		return strings.Join(symbols, ",")
	}
}

func firstSymbolValue(rel MeasureRelationship) string {
	for _, sym := range rel.Symbols {
		for _, ev := range sym.ElementValues {
			if ev.Value != "" {
				return ev.Value
			}
		}
	}
	return ""
}

// extractHGVS scans attribute sets for the genomic top-level HGVS notation.
// A fallback match (type merely containing "HGVS, genomic, top") keeps
// overwriting the current value until an exact preferred match is seen, after
// which the value is frozen. Last-fallback-wins when no preferred entry
// exists; this mirrors the historical import and is guarded by tests.
func extractHGVS(sets []AttributeSet, current string) string {
	preferred := false
	for _, as := range sets {
		attr, ok := secondAttribute(as)
		if !ok {
			continue
		}
		switch {
		case attr.Type == hgvsPreferredType:
			current = attr.Value
			preferred = true
		case !preferred && strings.Contains(attr.Type, hgvsFallbackType):
			current = attr.Value
		}
	}
	return current
}

// secondAttribute returns the attribute at index 1 of a set. The dump format
// this importer targets always carries the typed HGVS attribute in second
// position; sets with fewer than two attributes are ignored rather than
// falling back to index 0. Tests pin this shape assumption.
func secondAttribute(as AttributeSet) (Attribute, bool) {
	if len(as.Attributes) < 2 {
		return Attribute{}, false
	}
	return as.Attributes[1], true
}

// extractTrait fills the disease description and ontology accession from the
// preferred trait name of the first trait carrying one.
func extractTrait(ts *TraitSet, rec *Record) {
	for _, trait := range ts.Traits {
		for _, name := range trait.Names {
			if name.ElementValue.Type != "Preferred" {
				continue
			}
			if rec.Disease == "" {
				rec.Disease = name.ElementValue.Value
			}
			if acc := ontologyAccession(name); acc != "" && rec.OntologyAccession == "" {
				rec.OntologyAccession = acc
			}
		}
	}
}

// ontologyAccession reads the ontology cross-reference of a trait name.
// Only the second cross-reference position is inspected: in the targeted dump
// layout the first position holds the MedGen id and the ontology link, when
// present, sits second. Names with fewer than two cross-references yield
// nothing. Tests pin this shape assumption.
func ontologyAccession(name TraitName) string {
	if len(name.XRefs) < 2 {
		return ""
	}
	x := name.XRefs[1]
	switch x.DB {
	case DBHPO:
		return x.ID
	case DBOrphanet:
		return "Orphanet:" + x.ID
	}
	return ""
}

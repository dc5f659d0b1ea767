package importer

import (
	"fmt"
	"strings"

	"github.com/inodb/clinvar-import/internal/clinvar"
	"github.com/inodb/clinvar-import/internal/hgvs"
	"github.com/inodb/clinvar-import/internal/store"
)

// Disease values the source uses to say "nothing here".
const (
	diseaseNotProvided  = "not provided"
	diseaseNotSpecified = "not specified"
)

// defaultedDisease substitutes the default phenotype description when the
// extracted disease field is blank or a known placeholder. The match is
// exact and case-sensitive.
func (imp *Importer) defaultedDisease(disease string) string {
	switch disease {
	case "", diseaseNotProvided, diseaseNotSpecified:
		return imp.source.Name + ": phenotype not specified"
	}
	return disease
}

// buildAttribs assembles the attribute bag shared by every annotation feature
// written for one record. The risk allele is included only when the alternate
// allele is defined and not the no-sequence placeholder; the catalog id is
// the first OMIM cross-reference truncated before its first period.
func buildAttribs(rec *clinvar.Record, alt string) map[string]string {
	attribs := map[string]string{
		store.AttribReviewStatus: rec.ReviewStatus,
		store.AttribAccession:    rec.Accession,
		store.AttribSignificance: rec.Significance,
	}

	if alt != "" && alt != hgvs.NoSequence {
		attribs[store.AttribRiskAllele] = alt
	}
	if rec.GeneSymbols != "" {
		attribs[store.AttribAssociatedGene] = rec.GeneSymbols
	}
	if ids := rec.OMIMIDs(); len(ids) > 0 {
		catalogID := ids[0]
		if i := strings.Index(catalogID, "."); i >= 0 {
			catalogID = catalogID[:i]
		}
		attribs[store.AttribCatalogID] = catalogID
	}

	return attribs
}

// writeAnnotations resolves the phenotype once and persists one annotation
// feature per positional feature. A multi-location variant therefore yields
// multiple annotation features sharing one phenotype and one attribute bag.
func (imp *Importer) writeAnnotations(rec *clinvar.Record, kind string, features []*store.Feature, alt string) error {
	phenotype, err := imp.resolvePhenotype(imp.defaultedDisease(rec.Disease), rec.OntologyAccession)
	if err != nil {
		return err
	}

	attribs := buildAttribs(rec, alt)

	for _, f := range features {
		af := &store.AnnotationFeature{
			FeatureID:   f.ID,
			PhenotypeID: phenotype.ID,
			SourceID:    imp.source.ID,
			Kind:        kind,
			Region:      f.Region,
			Start:       f.Start,
			End:         f.End,
			Strand:      f.Strand,
			Significant: true,
			Attribs:     attribs,
		}
		if err := imp.store.CreateAnnotationFeature(af); err != nil {
			return fmt.Errorf("write annotation for %s: %w", rec.Accession, err)
		}
	}
	return nil
}

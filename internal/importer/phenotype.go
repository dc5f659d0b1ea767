package importer

import (
	"fmt"
	"strings"

	"github.com/inodb/clinvar-import/internal/store"
)

// normalizeDescription decodes escaped comma sequences and strips apostrophes
// so lookups match rows written by earlier loads of the same traits.
func normalizeDescription(description string) string {
	description = strings.ReplaceAll(description, `\x2c`, ",")
	description = strings.ReplaceAll(description, "'", "")
	return strings.TrimSpace(description)
}

// resolvePhenotype looks up a phenotype by normalized description, creating
// it when absent. When an ontology accession is supplied a cross-reference is
// always appended, including on a freshly created phenotype; the store does
// not deduplicate identical accessions.
func (imp *Importer) resolvePhenotype(description, ontologyAccession string) (*store.Phenotype, error) {
	desc := normalizeDescription(description)

	phenotype, err := imp.store.PhenotypeByDescription(desc)
	if err != nil {
		return nil, fmt.Errorf("look up phenotype %q: %w", desc, err)
	}

	if phenotype == nil {
		phenotype = &store.Phenotype{Description: desc}
		if err := imp.store.CreatePhenotype(phenotype); err != nil {
			return nil, fmt.Errorf("create phenotype %q: %w", desc, err)
		}
	}

	if ontologyAccession != "" {
		xref := store.PhenotypeXRef{
			Accession: ontologyAccession,
			Source:    imp.source.Name,
			Relation:  "is",
		}
		if err := imp.store.AddPhenotypeXRef(phenotype.ID, xref); err != nil {
			return nil, fmt.Errorf("attach phenotype xref %s: %w", ontologyAccession, err)
		}
	}

	return phenotype, nil
}

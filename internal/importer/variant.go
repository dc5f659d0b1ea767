package importer

import (
	"fmt"

	"github.com/inodb/clinvar-import/internal/clinvar"
	"github.com/inodb/clinvar-import/internal/store"
)

// resolveVariant looks up the variant by external name or creates it together
// with its allele pair and one positional feature. Recoverable conditions
// (unparseable or uninformative allele notation, insufficient data to create)
// are reported as skip errors; storage failures are fatal.
func (imp *Importer) resolveVariant(rec *clinvar.Record, name string) (*store.Variant, []*store.Feature, string, error) {
	ref, alt, err := imp.alleles.Parse(rec.HGVS)
	if err != nil {
		return nil, nil, "", skipf("unparseable allele notation %q for %s", rec.HGVS, name)
	}
	if ref == alt {
		return nil, nil, "", skipf("no informative allele in %q for %s", rec.HGVS, name)
	}

	variant, err := imp.store.VariantByName(name)
	if err != nil {
		return nil, nil, "", fmt.Errorf("look up variant %s: %w", name, err)
	}

	if variant != nil {
		features, err := imp.store.FeaturesByVariant(variant.ID)
		if err != nil {
			return nil, nil, "", fmt.Errorf("fetch features of %s: %w", name, err)
		}
		return variant, features, alt, nil
	}

	// The annotation catalog routinely runs ahead of the variant catalog;
	// a record we cannot place is expected, not an error.
	if !rec.HasLocation() || rec.HGVS == "" {
		return nil, nil, "", skipf("%s not in store and record carries no position or alleles", name)
	}

	region, err := imp.store.RegionByName(rec.Chrom)
	if err != nil {
		return nil, nil, "", fmt.Errorf("resolve region %s: %w", rec.Chrom, err)
	}

	variant = &store.Variant{
		Name:     name,
		SourceID: imp.source.ID,
	}
	alleles := []*store.Allele{
		{Sequence: ref},
		{Sequence: alt},
	}
	feature := &store.Feature{
		Region:    region,
		Start:     rec.Start,
		End:       rec.Stop,
		Strand:    rec.Strand,
		MapWeight: 1,
	}

	if err := imp.store.CreateVariant(variant, alleles, feature); err != nil {
		return nil, nil, "", fmt.Errorf("create variant %s: %w", name, err)
	}

	return variant, []*store.Feature{feature}, alt, nil
}

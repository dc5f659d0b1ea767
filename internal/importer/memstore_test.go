package importer

import (
	"fmt"

	"github.com/inodb/clinvar-import/internal/store"
)

// memStore is an in-memory Store used by the pipeline tests. Behavior mirrors
// the DuckDB layer: synonym inserts are idempotent by triple, phenotype xrefs
// are append-only, regions are created on first use.
type memStore struct {
	sources     map[string]*store.Source
	variants    map[string]*store.Variant
	alleles     []*store.Allele
	features    map[int64][]*store.Feature
	structural  map[string][]*store.Feature
	phenotypes  []*store.Phenotype
	xrefs       map[int64][]store.PhenotypeXRef
	annotations []*store.AnnotationFeature
	synonyms    map[string]int
	regions     map[string]bool
	nextID      int64
}

func newMemStore() *memStore {
	m := &memStore{
		sources:    make(map[string]*store.Source),
		variants:   make(map[string]*store.Variant),
		features:   make(map[int64][]*store.Feature),
		structural: make(map[string][]*store.Feature),
		xrefs:      make(map[int64][]store.PhenotypeXRef),
		synonyms:   make(map[string]int),
		regions:    make(map[string]bool),
	}
	m.sources["ClinVar"] = &store.Source{ID: m.id(), Name: "ClinVar", Version: "old"}
	return m
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) SourceByName(name string) (*store.Source, error) {
	return m.sources[name], nil
}

func (m *memStore) UpdateSourceVersion(sourceID int64, version string) error {
	for _, src := range m.sources {
		if src.ID == sourceID {
			src.Version = version
		}
	}
	return nil
}

func (m *memStore) VariantByName(name string) (*store.Variant, error) {
	return m.variants[name], nil
}

func (m *memStore) CreateVariant(v *store.Variant, alleles []*store.Allele, f *store.Feature) error {
	v.ID = m.id()
	m.variants[v.Name] = v
	for _, a := range alleles {
		a.ID = m.id()
		a.VariantID = v.ID
		m.alleles = append(m.alleles, a)
	}
	f.ID = m.id()
	f.VariantID = v.ID
	m.features[v.ID] = append(m.features[v.ID], f)
	return nil
}

func (m *memStore) UpdateVariantSignificance(variantID int64, significance string) error {
	for _, v := range m.variants {
		if v.ID == variantID {
			v.Significance = significance
		}
	}
	return nil
}

func (m *memStore) FeaturesByVariant(variantID int64) ([]*store.Feature, error) {
	return m.features[variantID], nil
}

func (m *memStore) StructuralFeaturesByName(name string) ([]*store.Feature, error) {
	return m.structural[name], nil
}

func (m *memStore) RegionByName(name string) (string, error) {
	m.regions[name] = true
	return name, nil
}

func (m *memStore) PhenotypeByDescription(description string) (*store.Phenotype, error) {
	for _, p := range m.phenotypes {
		if p.Description == description {
			return p, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreatePhenotype(p *store.Phenotype) error {
	p.ID = m.id()
	m.phenotypes = append(m.phenotypes, p)
	return nil
}

func (m *memStore) AddPhenotypeXRef(phenotypeID int64, x store.PhenotypeXRef) error {
	m.xrefs[phenotypeID] = append(m.xrefs[phenotypeID], x)
	return nil
}

func (m *memStore) CreateAnnotationFeature(af *store.AnnotationFeature) error {
	af.ID = m.id()
	m.annotations = append(m.annotations, af)
	return nil
}

func (m *memStore) InsertSynonym(variantID, sourceID int64, name string) error {
	m.synonyms[fmt.Sprintf("%d:%d:%s", variantID, sourceID, name)]++
	return nil
}

func (m *memStore) Cleanup(sourceID int64) error {
	var kept []*store.AnnotationFeature
	for _, af := range m.annotations {
		if af.SourceID != sourceID {
			kept = append(kept, af)
		}
	}
	m.annotations = kept
	for key := range m.synonyms {
		delete(m.synonyms, key)
	}
	for _, v := range m.variants {
		v.Significance = ""
	}
	return nil
}

// synonymRows returns the number of stored synonym rows; duplicate inserts of
// one triple still count as one row.
func (m *memStore) synonymRows() int {
	return len(m.synonyms)
}

// allelesOf returns the allele sequences of a variant in insertion order.
func (m *memStore) allelesOf(variantID int64) []string {
	var seqs []string
	for _, a := range m.alleles {
		if a.VariantID == variantID {
			seqs = append(seqs, a.Sequence)
		}
	}
	return seqs
}

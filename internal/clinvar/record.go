// Package clinvar provides ClinVar XML release parsing functionality.
package clinvar

import "encoding/xml"

// Set is one ClinVarSet element from a ClinVar full release dump.
// Every field is optional; the extractor decides what is required.
type Set struct {
	XMLName            xml.Name            `xml:"ClinVarSet"`
	Title              string              `xml:"Title"`
	ReferenceAssertion *ReferenceAssertion `xml:"ReferenceClinVarAssertion"`
}

// ReferenceAssertion is the reference (aggregate) assertion of a set.
type ReferenceAssertion struct {
	Accessions           []Accession           `xml:"ClinVarAccession"`
	ClinicalSignificance *ClinicalSignificance `xml:"ClinicalSignificance"`
	MeasureSet           *MeasureSet           `xml:"MeasureSet"`
	TraitSet             *TraitSet             `xml:"TraitSet"`
}

// Accession is a ClinVarAccession element (e.g. an RCV accession).
type Accession struct {
	Acc     string `xml:"Acc,attr"`
	Version string `xml:"Version,attr"`
	Type    string `xml:"Type,attr"`
}

// ClinicalSignificance holds the aggregate interpretation of a record.
type ClinicalSignificance struct {
	ReviewStatus string   `xml:"ReviewStatus"`
	Description  string   `xml:"Description"`
	Explanations []string `xml:"Explanation"`
}

// MeasureSet groups the measures (variants) asserted by a record.
type MeasureSet struct {
	Type     string    `xml:"Type,attr"`
	Measures []Measure `xml:"Measure"`
}

// Measure is one variant description within a measure set.
type Measure struct {
	Type          string                `xml:"Type,attr"`
	AttributeSets []AttributeSet        `xml:"AttributeSet"`
	Relationships []MeasureRelationship `xml:"MeasureRelationship"`
	Locations     []SequenceLocation    `xml:"SequenceLocation"`
	XRefs         []XRef                `xml:"XRef"`
}

// AttributeSet is a list of typed attributes attached to a measure.
type AttributeSet struct {
	Attributes []Attribute `xml:"Attribute"`
}

// Attribute is a typed text value.
type Attribute struct {
	Type  string `xml:"Type,attr"`
	Value string `xml:",chardata"`
}

// MeasureRelationship links a measure to a gene or other feature.
type MeasureRelationship struct {
	Type    string   `xml:"Type,attr"`
	Symbols []Symbol `xml:"Symbol"`
}

// Symbol holds gene symbol element values.
type Symbol struct {
	ElementValues []ElementValue `xml:"ElementValue"`
}

// ElementValue is a typed name string (e.g. Preferred vs Alternate).
type ElementValue struct {
	Type  string `xml:"Type,attr"`
	Value string `xml:",chardata"`
}

// SequenceLocation is a per-assembly genomic placement of a measure.
type SequenceLocation struct {
	Assembly string `xml:"Assembly,attr"`
	Chr      string `xml:"Chr,attr"`
	Start    int64  `xml:"start,attr"`
	Stop     int64  `xml:"stop,attr"`
}

// XRef is a cross-reference to an external database.
type XRef struct {
	DB   string `xml:"DB,attr"`
	ID   string `xml:"ID,attr"`
	Type string `xml:"Type,attr"`
}

// TraitSet groups the traits (diseases) asserted by a record.
type TraitSet struct {
	Type   string  `xml:"Type,attr"`
	Traits []Trait `xml:"Trait"`
}

// Trait is one disease or phenotype within a trait set.
type Trait struct {
	Type  string      `xml:"Type,attr"`
	Names []TraitName `xml:"Name"`
	XRefs []XRef      `xml:"XRef"`
}

// TraitName is one name entry of a trait with its own cross-references.
type TraitName struct {
	ElementValue ElementValue `xml:"ElementValue"`
	XRefs        []XRef       `xml:"XRef"`
}

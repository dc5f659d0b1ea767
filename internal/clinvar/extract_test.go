package clinvar

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSet(t *testing.T, doc string) *Set {
	t.Helper()
	var set Set
	require.NoError(t, xml.Unmarshal([]byte(doc), &set), "fixture must be well-formed")
	return &set
}

const pathogenicSetXML = `
<ClinVarSet>
  <ReferenceClinVarAssertion>
    <ClinVarAccession Acc="RCV000000001" Version="1" Type="RCV"/>
    <ClinicalSignificance>
      <ReviewStatus>classified by single submitter</ReviewStatus>
      <Description>Pathogenic</Description>
    </ClinicalSignificance>
    <MeasureSet Type="Variant">
      <Measure Type="single nucleotide variant">
        <AttributeSet>
          <Attribute Type="HGVS, coding">NM_000059.3:c.1234G&gt;A</Attribute>
          <Attribute Type="HGVS, genomic, top level">NC_000013.10:g.32914438G&gt;A</Attribute>
        </AttributeSet>
        <MeasureRelationship Type="variant in gene">
          <Symbol><ElementValue Type="Preferred">BRCA2</ElementValue></Symbol>
        </MeasureRelationship>
        <SequenceLocation Assembly="GRCh37" Chr="13" start="32914438" stop="32914438"/>
        <SequenceLocation Assembly="GRCh38" Chr="13" start="32340301" stop="32340301"/>
        <XRef DB="dbSNP" ID="123" Type="rs"/>
        <XRef DB="OMIM" ID="600185.0001" Type="Allelic variant"/>
      </Measure>
    </MeasureSet>
    <TraitSet Type="Disease">
      <Trait Type="Disease">
        <Name>
          <ElementValue Type="Preferred">Breast-ovarian cancer, familial 2</ElementValue>
          <XRef DB="MedGen" ID="C2675520"/>
          <XRef DB="Human Phenotype Ontology" ID="HP:0003002"/>
        </Name>
      </Trait>
    </TraitSet>
  </ReferenceClinVarAssertion>
</ClinVarSet>`

func TestExtract_PathogenicRecord(t *testing.T) {
	set := parseSet(t, pathogenicSetXML)

	rec, err := Extract(set, "GRCh37")
	require.NoError(t, err)

	assert.Equal(t, "RCV000000001", rec.Accession)
	assert.Equal(t, "1", rec.AccessionVersion)
	assert.Equal(t, "pathogenic", rec.Significance)
	assert.Equal(t, "classified by single submitter", rec.ReviewStatus)
	assert.Equal(t, "BRCA2", rec.GeneSymbols)
	assert.Equal(t, []string{"123"}, rec.DbSNPIDs())
	assert.Equal(t, []string{"600185.0001"}, rec.OMIMIDs())
	assert.Equal(t, "13", rec.Chrom)
	assert.Equal(t, int64(32914438), rec.Start)
	assert.Equal(t, int64(32914438), rec.Stop)
	assert.Equal(t, 1, rec.Strand)
	assert.Equal(t, "NC_000013.10:g.32914438G>A", rec.HGVS)
	assert.Equal(t, "Breast-ovarian cancer, familial 2", rec.Disease)
	assert.Equal(t, "HP:0003002", rec.OntologyAccession)
}

func TestExtract_TargetAssemblySelectsLocation(t *testing.T) {
	set := parseSet(t, pathogenicSetXML)

	rec, err := Extract(set, "GRCh38")
	require.NoError(t, err)

	assert.Equal(t, int64(32340301), rec.Start)

	rec, err = Extract(set, "NCBI36")
	require.NoError(t, err)
	assert.False(t, rec.HasLocation(), "no location entry for NCBI36")
}

func TestExtract_LastAccessionWins(t *testing.T) {
	set := parseSet(t, `
<ClinVarSet>
  <ReferenceClinVarAssertion>
    <ClinVarAccession Acc="RCV000000001" Version="1" Type="RCV"/>
    <ClinVarAccession Acc="SCV000000002" Version="1" Type="SCV"/>
    <ClinVarAccession Acc="RCV000000003" Version="2" Type="RCV"/>
    <MeasureSet Type="Variant"><Measure Type="single nucleotide variant"/></MeasureSet>
  </ReferenceClinVarAssertion>
</ClinVarSet>`)

	rec, err := Extract(set, "GRCh38")
	require.NoError(t, err)
	assert.Equal(t, "RCV000000003", rec.Accession, "later RCV accessions overwrite earlier ones")
	assert.Equal(t, "2", rec.AccessionVersion)
}

func TestExtract_ConflictingSignificanceUsesExplanation(t *testing.T) {
	set := parseSet(t, `
<ClinVarSet>
  <ReferenceClinVarAssertion>
    <ClinVarAccession Acc="RCV000000010" Version="1" Type="RCV"/>
    <ClinicalSignificance>
      <ReviewStatus>no assertion criteria provided</ReviewStatus>
      <Description>conflicting data from submitters</Description>
      <Explanation>Pathogenic(3); Benign(1)</Explanation>
      <Explanation>ignored second explanation</Explanation>
    </ClinicalSignificance>
    <MeasureSet Type="Variant"><Measure Type="single nucleotide variant"/></MeasureSet>
  </ReferenceClinVarAssertion>
</ClinVarSet>`)

	rec, err := Extract(set, "GRCh38")
	require.NoError(t, err)
	assert.Equal(t, "pathogenic,benign", rec.Significance)
	assert.Equal(t, "no assertion criteria provided", rec.ReviewStatus)
}

func TestExtract_GeneSymbols(t *testing.T) {
	single := parseSet(t, `
<ClinVarSet>
  <ReferenceClinVarAssertion>
    <ClinVarAccession Acc="RCV000000020" Version="1" Type="RCV"/>
    <MeasureSet Type="Variant">
      <Measure Type="single nucleotide variant">
        <MeasureRelationship Type="variant in gene">
          <Symbol><ElementValue Type="Preferred">TP53</ElementValue></Symbol>
          <Symbol><ElementValue Type="Alternate">P53</ElementValue></Symbol>
        </MeasureRelationship>
      </Measure>
    </MeasureSet>
  </ReferenceClinVarAssertion>
</ClinVarSet>`)

	rec, err := Extract(single, "GRCh38")
	require.NoError(t, err)
	assert.Equal(t, "TP53", rec.GeneSymbols, "single relationship contributes only its first symbol")

	multiple := parseSet(t, `
<ClinVarSet>
  <ReferenceClinVarAssertion>
    <ClinVarAccession Acc="RCV000000021" Version="1" Type="RCV"/>
    <MeasureSet Type="Variant">
      <Measure Type="copy number loss">
        <MeasureRelationship Type="genes overlapped by variant">
          <Symbol><ElementValue Type="Preferred">PMP22</ElementValue></Symbol>
        </MeasureRelationship>
        <MeasureRelationship Type="genes overlapped by variant">
          <Symbol><ElementValue Type="Preferred"></ElementValue></Symbol>
        </MeasureRelationship>
        <MeasureRelationship Type="genes overlapped by variant">
          <Symbol><ElementValue Type="Preferred">TEKT3</ElementValue></Symbol>
        </MeasureRelationship>
      </Measure>
    </MeasureSet>
  </ReferenceClinVarAssertion>
</ClinVarSet>`)

	rec, err = Extract(multiple, "GRCh38")
	require.NoError(t, err)
	assert.Equal(t, "PMP22,TEKT3", rec.GeneSymbols, "empty symbols are dropped from the join")
}

func TestExtract_XRefsGroupedByDatabase(t *testing.T) {
	set := parseSet(t, `
<ClinVarSet>
  <ReferenceClinVarAssertion>
    <ClinVarAccession Acc="RCV000000030" Version="1" Type="RCV"/>
    <MeasureSet Type="Variant">
      <Measure Type="single nucleotide variant">
        <XRef DB="dbSNP" ID="123" Type="rs"/>
        <XRef DB="dbVar" ID="nsv12345" Type="nsv"/>
        <XRef DB="dbSNP" ID="456" Type="rs"/>
      </Measure>
    </MeasureSet>
  </ReferenceClinVarAssertion>
</ClinVarSet>`)

	rec, err := Extract(set, "GRCh38")
	require.NoError(t, err)
	assert.Equal(t, []string{"123", "456"}, rec.DbSNPIDs(), "ids accumulate per database in document order")
	assert.Equal(t, []string{"nsv12345"}, rec.DbVarIDs())
}

func TestExtract_HGVSPreferredBeatsFallback(t *testing.T) {
	set := parseSet(t, `
<ClinVarSet>
  <ReferenceClinVarAssertion>
    <ClinVarAccession Acc="RCV000000040" Version="1" Type="RCV"/>
    <MeasureSet Type="Variant">
      <Measure Type="single nucleotide variant">
        <AttributeSet>
          <Attribute Type="ignored">x</Attribute>
          <Attribute Type="HGVS, genomic, top level, previous">NC_000001.9:g.100A&gt;T</Attribute>
        </AttributeSet>
        <AttributeSet>
          <Attribute Type="ignored">x</Attribute>
          <Attribute Type="HGVS, genomic, top level">NC_000001.10:g.200C&gt;G</Attribute>
        </AttributeSet>
        <AttributeSet>
          <Attribute Type="ignored">x</Attribute>
          <Attribute Type="HGVS, genomic, top level, other">NC_000001.8:g.300T&gt;A</Attribute>
        </AttributeSet>
      </Measure>
    </MeasureSet>
  </ReferenceClinVarAssertion>
</ClinVarSet>`)

	rec, err := Extract(set, "GRCh38")
	require.NoError(t, err)
	assert.Equal(t, "NC_000001.10:g.200C>G", rec.HGVS,
		"an exact preferred match freezes the value against later fallbacks")
}

func TestExtract_HGVSLastFallbackWins(t *testing.T) {
	set := parseSet(t, `
<ClinVarSet>
  <ReferenceClinVarAssertion>
    <ClinVarAccession Acc="RCV000000041" Version="1" Type="RCV"/>
    <MeasureSet Type="Variant">
      <Measure Type="single nucleotide variant">
        <AttributeSet>
          <Attribute Type="ignored">x</Attribute>
          <Attribute Type="HGVS, genomic, top level, previous">NC_000001.9:g.100A&gt;T</Attribute>
        </AttributeSet>
        <AttributeSet>
          <Attribute Type="ignored">x</Attribute>
          <Attribute Type="HGVS, genomic, top level, previous">NC_000001.8:g.100A&gt;T</Attribute>
        </AttributeSet>
      </Measure>
    </MeasureSet>
  </ReferenceClinVarAssertion>
</ClinVarSet>`)

	rec, err := Extract(set, "GRCh38")
	require.NoError(t, err)
	assert.Equal(t, "NC_000001.8:g.100A>T", rec.HGVS,
		"without a preferred match the last fallback seen is retained")
}

// TestExtract_HGVSSecondAttributePosition pins the fixed-index assumption:
// the typed HGVS attribute is read from position 1 of each attribute set.
// If the dump shape ever changes this must fail loudly, not silently match
// position 0.
func TestExtract_HGVSSecondAttributePosition(t *testing.T) {
	set := parseSet(t, `
<ClinVarSet>
  <ReferenceClinVarAssertion>
    <ClinVarAccession Acc="RCV000000042" Version="1" Type="RCV"/>
    <MeasureSet Type="Variant">
      <Measure Type="single nucleotide variant">
        <AttributeSet>
          <Attribute Type="HGVS, genomic, top level">NC_000001.10:g.500G&gt;C</Attribute>
        </AttributeSet>
      </Measure>
    </MeasureSet>
  </ReferenceClinVarAssertion>
</ClinVarSet>`)

	rec, err := Extract(set, "GRCh38")
	require.NoError(t, err)
	assert.Empty(t, rec.HGVS, "a set with a single attribute has no second position and is ignored")
}

// TestExtract_TraitXRefSecondPosition pins the other fixed-index assumption:
// the ontology accession is read from cross-reference position 1 of the
// preferred trait name only.
func TestExtract_TraitXRefSecondPosition(t *testing.T) {
	firstPosition := parseSet(t, `
<ClinVarSet>
  <ReferenceClinVarAssertion>
    <ClinVarAccession Acc="RCV000000050" Version="1" Type="RCV"/>
    <MeasureSet Type="Variant"><Measure Type="single nucleotide variant"/></MeasureSet>
    <TraitSet Type="Disease">
      <Trait Type="Disease">
        <Name>
          <ElementValue Type="Preferred">Some disease</ElementValue>
          <XRef DB="Human Phenotype Ontology" ID="HP:0000001"/>
        </Name>
      </Trait>
    </TraitSet>
  </ReferenceClinVarAssertion>
</ClinVarSet>`)

	rec, err := Extract(firstPosition, "GRCh38")
	require.NoError(t, err)
	assert.Equal(t, "Some disease", rec.Disease)
	assert.Empty(t, rec.OntologyAccession,
		"an ontology link in first position is not picked up; only position 1 is inspected")

	orphanet := parseSet(t, `
<ClinVarSet>
  <ReferenceClinVarAssertion>
    <ClinVarAccession Acc="RCV000000051" Version="1" Type="RCV"/>
    <MeasureSet Type="Variant"><Measure Type="single nucleotide variant"/></MeasureSet>
    <TraitSet Type="Disease">
      <Trait Type="Disease">
        <Name>
          <ElementValue Type="Alternate">Alias name</ElementValue>
          <XRef DB="Orphanet" ID="99999"/>
        </Name>
        <Name>
          <ElementValue Type="Preferred">Rare disease</ElementValue>
          <XRef DB="MedGen" ID="C0000001"/>
          <XRef DB="Orphanet" ID="12345"/>
        </Name>
      </Trait>
    </TraitSet>
  </ReferenceClinVarAssertion>
</ClinVarSet>`)

	rec, err = Extract(orphanet, "GRCh38")
	require.NoError(t, err)
	assert.Equal(t, "Rare disease", rec.Disease, "only the Preferred name provides the description")
	assert.Equal(t, "Orphanet:12345", rec.OntologyAccession)
}

func TestExtract_Malformed(t *testing.T) {
	_, err := Extract(&Set{}, "GRCh38")
	assert.Error(t, err, "set without reference assertion")

	noMeasures := parseSet(t, `
<ClinVarSet>
  <ReferenceClinVarAssertion>
    <ClinVarAccession Acc="RCV000000060" Version="1" Type="RCV"/>
  </ReferenceClinVarAssertion>
</ClinVarSet>`)
	_, err = Extract(noMeasures, "GRCh38")
	assert.Error(t, err, "reference assertion without measure set")

	noAccession := parseSet(t, `
<ClinVarSet>
  <ReferenceClinVarAssertion>
    <ClinVarAccession Acc="SCV000000061" Version="1" Type="SCV"/>
    <MeasureSet Type="Variant"><Measure Type="single nucleotide variant"/></MeasureSet>
  </ReferenceClinVarAssertion>
</ClinVarSet>`)
	_, err = Extract(noAccession, "GRCh38")
	assert.Error(t, err, "reference assertion without RCV accession")
}

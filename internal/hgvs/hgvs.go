// Package hgvs parses genomic HGVS notation into allele pairs.
package hgvs

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// NoSequence is the placeholder allele used when a side of the change has no
// bases (insertions, deletions).
const NoSequence = "-"

// ErrUnsupported is returned for notation forms the parser does not handle.
var ErrUnsupported = errors.New("unsupported hgvs notation")

var (
	substitutionRE = regexp.MustCompile(`^g\.(\d+)([ACGTN]+)>([ACGTN]+)$`)
	deletionRE     = regexp.MustCompile(`^g\.(\d+)(?:_(\d+))?del([ACGTN]*)$`)
	duplicationRE  = regexp.MustCompile(`^g\.(\d+)(?:_(\d+))?dup([ACGTN]*)$`)
	insertionRE    = regexp.MustCompile(`^g\.(\d+)_(\d+)ins([ACGTN]+)$`)
	delinsRE       = regexp.MustCompile(`^g\.(\d+)(?:_(\d+))?delins([ACGTN]+)$`)
)

// Parser parses genomic "accession:g.change" notation strings.
type Parser struct{}

// NewParser creates a genomic HGVS parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse returns the (reference, alternate) allele pair described by a genomic
// HGVS string such as "NC_000013.10:g.32914438G>A". The reference accession
// prefix is optional. Sides of the change with no bases are reported as
// NoSequence; forms where a side cannot be derived from the notation alone
// (e.g. "g.100_102del" without the deleted bases) also report NoSequence for
// that side.
func (p *Parser) Parse(notation string) (ref, alt string, err error) {
	change := notation
	if i := strings.LastIndex(notation, ":"); i >= 0 {
		change = notation[i+1:]
	}
	change = strings.TrimSpace(change)
	if change == "" {
		return "", "", fmt.Errorf("parse %q: %w", notation, ErrUnsupported)
	}

	if m := substitutionRE.FindStringSubmatch(change); m != nil {
		return m[2], m[3], nil
	}
	if m := delinsRE.FindStringSubmatch(change); m != nil {
		return NoSequence, m[3], nil
	}
	if m := deletionRE.FindStringSubmatch(change); m != nil {
		if m[3] == "" {
			return NoSequence, NoSequence, nil
		}
		return m[3], NoSequence, nil
	}
	if m := duplicationRE.FindStringSubmatch(change); m != nil {
		if m[3] == "" {
			return NoSequence, NoSequence, nil
		}
		return m[3], m[3] + m[3], nil
	}
	if m := insertionRE.FindStringSubmatch(change); m != nil {
		return NoSequence, m[3], nil
	}

	return "", "", fmt.Errorf("parse %q: %w", notation, ErrUnsupported)
}

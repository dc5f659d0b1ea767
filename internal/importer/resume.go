package importer

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadResumeList reads a done file from a previous run: a whitespace-delimited
// text file whose second column is a previously imported accession. Lines
// with fewer than two columns are ignored.
func LoadResumeList(path string) (map[string]bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open resume list: %w", err)
	}
	defer f.Close()

	accessions := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		accessions[fields[1]] = true
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read resume list: %w", err)
	}
	return accessions, nil
}

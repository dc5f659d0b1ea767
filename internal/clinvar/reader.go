package clinvar

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// Reader streams ClinVarSet records from a ClinVar full release dump.
// Supports both plain XML and gzipped XML (.xml.gz) files.
type Reader struct {
	decoder    *xml.Decoder
	file       *os.File
	gzipReader *gzip.Reader
	setCount   int
}

// NewReader creates a new reader for the given file.
func NewReader(path string) (*Reader, error) {
	if path == "-" {
		return NewReaderFromReader(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open clinvar dump: %w", err)
	}

	r := &Reader{file: file}

	buffered := bufio.NewReader(file)

	// Check for gzip magic number (0x1f, 0x8b)
	magic, err := buffered.Peek(2)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("read clinvar dump header: %w", err)
	}

	if magic[0] == 0x1f && magic[1] == 0x8b {
		r.gzipReader, err = gzip.NewReader(buffered)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		r.decoder = xml.NewDecoder(bufio.NewReader(r.gzipReader))
	} else {
		r.decoder = xml.NewDecoder(buffered)
	}

	return r, nil
}

// NewReaderFromReader creates a reader from an io.Reader (e.g. stdin or a test buffer).
func NewReaderFromReader(rd io.Reader) (*Reader, error) {
	return &Reader{decoder: xml.NewDecoder(bufio.NewReader(rd))}, nil
}

// Next returns the next ClinVarSet record, or nil when the stream is exhausted.
// A decoding failure is returned with the byte offset of the failing element;
// callers treat it as a malformed dump.
func (r *Reader) Next() (*Set, error) {
	for {
		offset := r.decoder.InputOffset()

		tok, err := r.decoder.Token()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read clinvar dump at offset %d: %w", offset, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "ClinVarSet" {
			continue
		}

		var set Set
		if err := r.decoder.DecodeElement(&set, &start); err != nil {
			return nil, fmt.Errorf("decode ClinVarSet %d at offset %d: %w", r.setCount+1, offset, err)
		}
		r.setCount++
		return &set, nil
	}
}

// SetCount returns the number of sets decoded so far.
func (r *Reader) SetCount() int {
	return r.setCount
}

// Close closes the underlying file, if any.
func (r *Reader) Close() error {
	if r.gzipReader != nil {
		r.gzipReader.Close()
	}
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

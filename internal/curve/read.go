package curve

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ReadFile reads a canonical two-column file. Files ending in .txt or .tsv
// are tab separated, everything else is comma separated.
func ReadFile(path string) (Curve, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := Read(f, Delimiter(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return c, nil
}

// Delimiter picks the field separator from the file extension.
func Delimiter(path string) rune {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".tsv":
		return '\t'
	default:
		return ','
	}
}

// Read parses rows of (x, y) from r. Rows whose first two fields are not both
// finite numbers, such as headers or unit rows, are skipped. Extra columns are
// ignored.
func Read(r io.Reader, delim rune) (Curve, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var c Curve
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) < 2 {
			continue
		}
		x, okX := parseFinite(rec[0])
		y, okY := parseFinite(rec[1])
		if !okX || !okY {
			continue
		}
		c = append(c, Point{X: x, Y: y})
	}
	if len(c) == 0 {
		return nil, ErrEmpty
	}
	return c, nil
}

func parseFinite(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !finite(v) {
		return 0, false
	}
	return v, true
}

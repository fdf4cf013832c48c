// Package modality describes the characterisation techniques whose curves
// can be compared.
package modality

import (
	"fmt"
	"strings"
)

type Modality int

const (
	Generic Modality = iota
	DSC
	FTIR
	TGA
	Rheology
)

// Normalization is the preparation applied to the dependent variable.
type Normalization string

const (
	NormalizeNone    Normalization = "none"
	NormalizeMinMax  Normalization = "minmax"
	NormalizePercent Normalization = "percent"
	NormalizeAuto    Normalization = "auto"
)

type descriptor struct {
	name       string
	extensions []string
	xLabel     string
	yLabel     string
	norm       Normalization
	metric     string
}

var descriptors = map[Modality]descriptor{
	Generic:  {"generic", []string{".csv", ".tsv", ".txt"}, "x", "y", NormalizeNone, "dtw"},
	DSC:      {"dsc", []string{".csv"}, "Temperature", "Heat Flow", NormalizeMinMax, "dtw"},
	FTIR:     {"ftir", []string{".csv"}, "Wavenumber", "Absorbance", NormalizeMinMax, "pearson"},
	TGA:      {"tga", []string{".txt"}, "Temperature", "Weight", NormalizePercent, "dtw"},
	Rheology: {"rheology", []string{".csv"}, "Shear Rate", "Viscosity", NormalizeMinMax, "euclidean"},
}

// Parse resolves a modality name, case-insensitively.
func Parse(s string) (Modality, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return Generic, nil
	}
	for m, d := range descriptors {
		if d.name == name {
			return m, nil
		}
	}
	return Generic, fmt.Errorf("unknown modality %q", s)
}

func (m Modality) String() string {
	if d, ok := descriptors[m]; ok {
		return d.name
	}
	return fmt.Sprintf("modality(%d)", int(m))
}

// Extensions lists the file extensions scanned in a directory, lower case
// with the leading dot.
func (m Modality) Extensions() []string {
	return append([]string(nil), descriptors[m].extensions...)
}

// Accepts reports whether path carries one of the modality's extensions.
func (m Modality) Accepts(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range descriptors[m].extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Axes returns the labels of the independent and dependent variables.
func (m Modality) Axes() (x, y string) {
	d := descriptors[m]
	return d.xLabel, d.yLabel
}

// DefaultNormalization is the preparation used when auto is requested.
func (m Modality) DefaultNormalization() Normalization {
	return descriptors[m].norm
}

// RecommendedMetric is the metric name used when none is configured.
func (m Modality) RecommendedMetric() string {
	return descriptors[m].metric
}

// ParseNormalization validates a normalisation name.
func ParseNormalization(s string) (Normalization, error) {
	switch n := Normalization(strings.ToLower(strings.TrimSpace(s))); n {
	case "":
		return NormalizeAuto, nil
	case NormalizeNone, NormalizeMinMax, NormalizePercent, NormalizeAuto:
		return n, nil
	default:
		return "", fmt.Errorf("unknown normalization %q", s)
	}
}

// Resolve replaces auto with the modality default.
func (n Normalization) Resolve(m Modality) Normalization {
	if n == NormalizeAuto {
		return m.DefaultNormalization()
	}
	return n
}

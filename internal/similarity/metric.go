package similarity

import (
	"fmt"
	"strings"
)

// Metric selects how two y-series are compared.
type Metric int

const (
	DTW Metric = iota
	Euclidean
	Pearson
	Cosine
)

var metricNames = [...]string{
	DTW:       "dtw",
	Euclidean: "euclidean",
	Pearson:   "pearson",
	Cosine:    "cosine",
}

// Metrics lists every supported metric.
func Metrics() []Metric {
	return []Metric{DTW, Euclidean, Pearson, Cosine}
}

// ParseMetric resolves a metric name, case-insensitively.
func ParseMetric(s string) (Metric, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for m, n := range metricNames {
		if n == name {
			return Metric(m), nil
		}
	}
	return 0, &UnsupportedMetricError{Name: s}
}

func (m Metric) String() string {
	if m.valid() {
		return metricNames[m]
	}
	return fmt.Sprintf("metric(%d)", int(m))
}

func (m Metric) valid() bool {
	return m >= DTW && m <= Cosine
}

// Elastic reports whether the metric aligns sequences of different length.
// Every other metric needs curves on a shared grid.
func (m Metric) Elastic() bool {
	return m == DTW
}

// scaled reports whether distances are max-scaled and mapped through
// 1/(1+d), as opposed to the bounded metrics mapped through 1-d.
func (m Metric) scaled() bool {
	return m == DTW || m == Euclidean
}

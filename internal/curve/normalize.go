package curve

import (
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

// MinMax rescales the dependent variable to [0, 1]. A constant curve maps to
// all zeros.
func MinMax(c Curve) (Curve, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	ys := c.Ys()
	lo, hi := floats.Min(ys), floats.Max(ys)
	out := c.Clone()
	if hi-lo == 0 {
		for i := range out {
			out[i].Y = 0
		}
		return out, nil
	}
	floats.AddConst(-lo, ys)
	floats.Scale(1/(hi-lo), ys)
	for i := range out {
		out[i].Y = ys[i]
	}
	return out, nil
}

// PercentOfInitial expresses the dependent variable as a percentage of its
// first value, the usual presentation of TGA mass loss.
func PercentOfInitial(c Curve) (Curve, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	ref := c[0].Y
	if ref == 0 {
		return nil, ErrZeroReference
	}
	out := c.Clone()
	for i := range out {
		out[i].Y = out[i].Y / ref * 100
	}
	return out, nil
}

// LowPass smooths the dependent variable by discarding high frequency FFT
// bins. keep is the fraction of the Nyquist band that survives, in (0, 1].
func LowPass(c Curve, keep float64) (Curve, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if !(keep > 0 && keep <= 1) {
		return nil, fmt.Errorf("curve: low-pass fraction %v outside (0, 1]", keep)
	}

	n := len(c)
	cutoff := int(math.Ceil(keep * float64(n/2)))
	spectrum := fft.FFTReal(c.Ys())
	for k := range spectrum {
		// bins k and n-k carry the same frequency; zero both to keep the output real
		if min(k, n-k) > cutoff {
			spectrum[k] = 0
		}
	}

	smoothed := fft.IFFT(spectrum)
	out := c.Clone()
	for i := range out {
		out[i].Y = real(smoothed[i])
	}
	return out, nil
}

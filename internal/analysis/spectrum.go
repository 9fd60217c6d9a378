package analysis

import (
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude of the one-sided FFT of a real
// signal.
func PowerSpectrum(samples []float64) []float64 {
	spectrum := fft.FFTReal(samples)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency finds the non-DC bin with the largest magnitude and
// converts it to a frequency, given the sampling interval dt.
func DominantFrequency(samples []float64, dt float64) (float64, error) {
	if len(samples) < 4 {
		return 0, fmt.Errorf("analysis: need at least 4 samples, got %d", len(samples))
	}
	if dt <= 0 {
		return 0, fmt.Errorf("analysis: sampling interval must be positive")
	}
	ps := PowerSpectrum(samples)
	best, bestMag := 0, 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > bestMag {
			best, bestMag = i, ps[i]
		}
	}
	if best == 0 {
		return 0, fmt.Errorf("analysis: no dominant frequency in flat signal")
	}
	return float64(best) / (float64(len(samples)) * dt), nil
}

// DominantPeriod is the reciprocal of the dominant frequency, useful for
// reading oscillation periods off simulated trajectories.
func DominantPeriod(samples []float64, dt float64) (float64, error) {
	f, err := DominantFrequency(samples, dt)
	if err != nil {
		return 0, err
	}
	return 1 / f, nil
}

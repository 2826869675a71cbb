package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PowerSpectrum returns the amplitude of the first len(data)/2 bins of the
// discrete Fourier transform of data.
func PowerSpectrum(data []float64) []float64 {
	spec := fft.FFTReal(data)
	ps := make([]float64, len(spec)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}
	return ps
}

// NextPow2 returns the smallest power of two >= n, and 1 for n <= 1.
func NextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Spectrum removes the mean from series, zero-pads it to a power of two and
// returns the amplitude spectrum with the frequency of each bin for a
// sample interval dt.
func Spectrum(series []float64, dt float64) (freqs, power []float64) {
	if len(series) < 2 || dt <= 0 {
		return nil, nil
	}
	n := NextPow2(len(series))
	padded := make([]float64, n)
	copy(padded, series)
	floats.AddConst(-stat.Mean(series, nil), padded[:len(series)])

	power = PowerSpectrum(padded)
	freqs = make([]float64, len(power))
	for k := range freqs {
		freqs[k] = float64(k) / (float64(n) * dt)
	}
	return freqs, power
}

// DominantFrequency is the frequency of the strongest non-DC bin of
// Spectrum. It returns zeros when the series is too short or flat.
func DominantFrequency(series []float64, dt float64) (freq, power float64) {
	freqs, ps := Spectrum(series, dt)
	if len(ps) < 2 {
		return 0, 0
	}
	k := floats.MaxIdx(ps[1:]) + 1
	if ps[k] == 0 {
		return 0, 0
	}
	return freqs[k], ps[k]
}

package analysis

import (
	"math"
	"math/cmplx"
)

func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

// PowerSpectrum returns |X[k]| for the first half of the bins. The input
// length must be a power of two; see PadPow2.
func PowerSpectrum(data []float64) []float64 {
	fft := FFT(data)
	ps := make([]float64, len(fft)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}

	return ps
}

// NextPow2 returns the smallest power of two >= n (1 for n <= 1).
func NextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// PadPow2 copies data into a zero-padded slice of power-of-two length.
func PadPow2(data []float64) []float64 {
	out := make([]float64, NextPow2(len(data)))
	copy(out, data)
	return out
}

type Spectrum struct {
	Power     []float64
	Freqs     []float64 // Hz, one per Power bin
	Dominant  float64   // Hz of the strongest non-DC bin
	Amplitude float64   // power at Dominant
}

// FlutterSpectrum removes the mean from samples taken every dt seconds,
// zero-pads to a power of two and locates the strongest oscillation.
func FlutterSpectrum(samples []float64, dt float64) Spectrum {
	if len(samples) < 2 || dt <= 0 {
		return Spectrum{}
	}

	var mean float64
	for _, v := range samples {
		mean += v
	}
	mean /= float64(len(samples))

	centred := make([]float64, len(samples))
	for i, v := range samples {
		centred[i] = v - mean
	}
	padded := PadPow2(centred)
	power := PowerSpectrum(padded)

	n := float64(len(padded))
	s := Spectrum{Power: power, Freqs: make([]float64, len(power))}
	for k := range power {
		s.Freqs[k] = float64(k) / (n * dt)
		if k > 0 && power[k] > s.Amplitude {
			s.Amplitude = power[k]
			s.Dominant = s.Freqs[k]
		}
	}
	return s
}

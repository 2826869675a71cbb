package analysis

import (
	"math"
	"testing"
)

func TestPowerSpectrum_Impulse(t *testing.T) {
	ps := PowerSpectrum([]float64{1, 0, 0, 0, 0, 0, 0, 0})
	if len(ps) != 4 {
		t.Fatalf("len = %d, want 4", len(ps))
	}
	for k, v := range ps {
		if math.Abs(v-1) > 1e-12 {
			t.Errorf("bin %d = %f, want 1", k, v)
		}
	}
}

func TestPowerSpectrum_Cosine(t *testing.T) {
	const n = 16
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Cos(2 * math.Pi * 3 * float64(i) / n)
	}

	ps := PowerSpectrum(data)
	for k, v := range ps {
		want := 0.0
		if k == 3 {
			want = n / 2
		}
		if math.Abs(v-want) > 1e-9 {
			t.Errorf("bin %d = %f, want %f", k, v, want)
		}
	}
}

func TestNextPow2(t *testing.T) {
	tests := []struct{ n, want int }{
		{0, 1}, {1, 1}, {2, 2}, {3, 4}, {64, 64}, {65, 128},
	}
	for _, tt := range tests {
		if got := NextPow2(tt.n); got != tt.want {
			t.Errorf("NextPow2(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestDominantFrequency(t *testing.T) {
	const dt = 0.1
	const f0 = 0.625 // bin 8 of a 128-sample spectrum
	series := make([]float64, 128)
	for i := range series {
		series[i] = 3 + math.Sin(2*math.Pi*f0*float64(i)*dt)
	}

	f, p := DominantFrequency(series, dt)
	if math.Abs(f-f0) > 1e-12 {
		t.Errorf("dominant frequency %f, want %f", f, f0)
	}
	if p <= 0 {
		t.Error("expected positive power")
	}
}

func TestDominantFrequency_Degenerate(t *testing.T) {
	if f, p := DominantFrequency([]float64{1}, 0.1); f != 0 || p != 0 {
		t.Error("single sample should give zero")
	}
	if f, p := DominantFrequency([]float64{2, 2, 2, 2}, 0.1); f != 0 || p != 0 {
		t.Errorf("flat series gave %f, %f", f, p)
	}
	if f, _ := DominantFrequency([]float64{1, 2, 3}, 0); f != 0 {
		t.Error("non-positive dt should give zero")
	}
}

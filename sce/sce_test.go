package sce

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func coordGrid(vals []float64) *mat.Dense {
	return mat.NewDense(1, len(vals), vals)
}

func TestAmplitudeDisabledIsUniformOne(t *testing.T) {
	p := None()
	x := coordGrid([]float64{-2, -1, 0, 1, 2})
	y := coordGrid([]float64{0, 0, 0, 0, 0})

	amp, err := p.Amplitude(x, y, 550)
	if err != nil {
		t.Fatalf("Amplitude: %v", err)
	}
	_, cols := amp.Dims()
	for j := 0; j < cols; j++ {
		if amp.At(0, j) != 1.0 {
			t.Fatalf("disabled SCE gave amplitude %g at column %d, want 1", amp.At(0, j), j)
		}
	}
}

// A multi-entry table counts as disabled only when every rho is exactly zero.
func TestDisabledRequiresAllZero(t *testing.T) {
	p := Params{WavelengthsNM: []float64{500, 600}, Rho: []float64{0, 0}}
	if !p.Disabled() {
		t.Fatalf("all-zero table should be disabled")
	}
	p.Rho[1] = -0.01
	if p.Disabled() {
		t.Fatalf("table with a nonzero entry must not be disabled")
	}
}

func TestAmplitudeFalloff(t *testing.T) {
	p := Params{
		CenterXMM:     0.5,
		CenterYMM:     -0.25,
		WavelengthsNM: []float64{550},
		Rho:           []float64{0.05},
	}
	x := coordGrid([]float64{0.5, 1.5})
	y := coordGrid([]float64{-0.25, -0.25})

	amp, err := p.Amplitude(x, y, 550)
	if err != nil {
		t.Fatalf("Amplitude: %v", err)
	}
	// At the center the falloff is exactly 1.
	if amp.At(0, 0) != 1.0 {
		t.Fatalf("amplitude at SCE center = %g, want 1", amp.At(0, 0))
	}
	// One millimeter off center: 10^(-0.05*1).
	want := math.Pow(10, -0.05)
	if math.Abs(amp.At(0, 1)-want) > 1e-15 {
		t.Fatalf("amplitude 1mm off center = %g, want %g", amp.At(0, 1), want)
	}
}

func TestRhoAtInterpolatesAndClamps(t *testing.T) {
	p := Params{
		WavelengthsNM: []float64{500, 600},
		Rho:           []float64{0.04, 0.06},
	}
	if got := p.RhoAt(550); math.Abs(got-0.05) > 1e-15 {
		t.Fatalf("RhoAt(550) = %g, want 0.05", got)
	}
	if got := p.RhoAt(400); got != 0.04 {
		t.Fatalf("RhoAt below table = %g, want clamp to 0.04", got)
	}
	if got := p.RhoAt(700); got != 0.06 {
		t.Fatalf("RhoAt above table = %g, want clamp to 0.06", got)
	}
	if got := p.RhoAt(500); got != 0.04 {
		t.Fatalf("RhoAt at table edge = %g, want 0.04", got)
	}
}

func TestValidate(t *testing.T) {
	good := Berendschot2001()
	if err := good.Validate(); err != nil {
		t.Fatalf("literature table should validate: %v", err)
	}
	bad := Params{WavelengthsNM: []float64{500, 600}, Rho: []float64{0.04}}
	if err := bad.Validate(); err == nil {
		t.Fatalf("mismatched table lengths should fail validation")
	}
	unsorted := Params{WavelengthsNM: []float64{600, 500}, Rho: []float64{0.04, 0.05}}
	if err := unsorted.Validate(); err == nil {
		t.Fatalf("unsorted wavelengths should fail validation")
	}
	empty := Params{}
	if err := empty.Validate(); err == nil {
		t.Fatalf("empty table should fail validation")
	}
}

func TestAmplitudeShapeMismatch(t *testing.T) {
	p := Berendschot2001()
	if _, err := p.Amplitude(coordGrid([]float64{0, 1}), coordGrid([]float64{0}), 550); err == nil {
		t.Fatalf("expected shape mismatch error")
	}
}

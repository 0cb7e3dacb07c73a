// Package psf converts synthesized pupil functions into point-spread
// functions by Fourier optics: the PSF at one wavelength is the squared
// magnitude of the centered 2-D Fourier transform of the complex pupil
// function, normalized to unit volume.
//
// The stage participates in the staleness contract of the optical system it
// wraps: it never reads a stale pupil function, forcing a recomputation first
// when needed, and clears the PSF-stale flag only after every wavelength has
// been transformed.
package psf

import (
	"fmt"

	"github.com/visionlab/wavefront"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Stage owns the PSF cache derived from one optical system.
type Stage struct {
	sys   *wavefront.OpticalSystem
	cache []*mat.Dense
}

// NewStage wraps an optical system.
func NewStage(sys *wavefront.OpticalSystem) *Stage {
	return &Stage{sys: sys}
}

// Compute returns one normalized PSF intensity map per calculation
// wavelength, in wavelength order. When the PSF is fresh the cached slice is
// returned unchanged; when the pupil function itself is stale it is
// recomputed first. Like the pupil-function cache, the PSF cache is replaced
// all-or-nothing.
func (st *Stage) Compute() ([]*mat.Dense, error) {
	if !st.sys.Staleness().IsPSFStale() && st.cache != nil {
		return st.cache, nil
	}

	pupils, err := st.sys.ComputePupilFunction()
	if err != nil {
		return nil, fmt.Errorf("psf: pupil function unavailable: %w", err)
	}

	results := make([]*mat.Dense, len(pupils))
	for i, pupil := range pupils {
		intensity, err := intensityFromPupil(pupil)
		if err != nil {
			return nil, fmt.Errorf("psf: wavelength index %d: %w", i, err)
		}
		results[i] = intensity
	}

	st.cache = results
	st.sys.Staleness().MarkPSFFresh()
	return results, nil
}

// intensityFromPupil transforms a single pupil function into a centered,
// unit-volume intensity map.
func intensityFromPupil(pupil *mat.CDense) (*mat.Dense, error) {
	rows, cols := pupil.Dims()
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("empty pupil function")
	}

	field := cloneComplex(pupil)
	fft2InPlace(field, true)
	fftshift(field)

	intensity := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := field.At(i, j)
			re, im := real(v), imag(v)
			intensity.Set(i, j, re*re+im*im)
		}
	}

	total := floats.Sum(intensity.RawMatrix().Data)
	if total <= 0 {
		return nil, fmt.Errorf("pupil function has zero transmission")
	}
	intensity.Scale(1/total, intensity)
	return intensity, nil
}

func cloneComplex(src *mat.CDense) *mat.CDense {
	rows, cols := src.Dims()
	dst := mat.NewCDense(rows, cols, nil)
	dst.Copy(src)
	return dst
}

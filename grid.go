package wavefront

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// PlaneSizer decides the physical size of the square pupil-plane sampling
// grid for a given calculation wavelength. Fourier-optics consumers size the
// grid per wavelength to hold the PSF sample spacing constant; the core only
// requires that the size exceed the measured pupil diameter so the aperture
// fits inside the grid.
type PlaneSizer interface {
	PlaneSizeMM(wavelengthNM float64) float64
}

// FixedPlaneSize is a PlaneSizer returning the same physical size at every
// wavelength.
type FixedPlaneSize float64

// PlaneSizeMM implements PlaneSizer.
func (s FixedPlaneSize) PlaneSizeMM(wavelengthNM float64) float64 { return float64(s) }

// ProportionalPlaneSize is a PlaneSizer that scales a reference size linearly
// with wavelength, the policy used when the downstream PSF stage wants equal
// angular sampling at every wavelength.
type ProportionalPlaneSize struct {
	RefSizeMM       float64
	RefWavelengthNM float64
}

// PlaneSizeMM implements PlaneSizer.
func (s ProportionalPlaneSize) PlaneSizeMM(wavelengthNM float64) float64 {
	return s.RefSizeMM * wavelengthNM / s.RefWavelengthNM
}

// pupilPlaneGrid builds the square coordinate grids for the pupil plane.
// Both axes span [-sizeMM/2, +sizeMM/2) with samples points; x varies along
// columns and y along rows.
func pupilPlaneGrid(samples int, sizeMM float64) (x, y *mat.Dense) {
	x = mat.NewDense(samples, samples, nil)
	y = mat.NewDense(samples, samples, nil)
	step := sizeMM / float64(samples)
	for i := 0; i < samples; i++ {
		yv := -sizeMM/2 + float64(i)*step
		for j := 0; j < samples; j++ {
			xv := -sizeMM/2 + float64(j)*step
			x.Set(i, j, xv)
			y.Set(i, j, yv)
		}
	}
	return x, y
}

// polarGrid converts pupil-plane coordinates into the normalized polar form
// the Zernike evaluator consumes. The radius is normalized to the measured
// pupil radius, never the calculation aperture, because the coefficients were
// fit over the measured disk.
func polarGrid(x, y *mat.Dense, measuredPupilDiameterMM float64) (normRadius, theta *mat.Dense) {
	rows, cols := x.Dims()
	normRadius = mat.NewDense(rows, cols, nil)
	theta = mat.NewDense(rows, cols, nil)
	radius := measuredPupilDiameterMM / 2
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			xv := x.At(i, j)
			yv := y.At(i, j)
			normRadius.Set(i, j, math.Hypot(xv, yv)/radius)
			theta.Set(i, j, math.Atan2(yv, xv))
		}
	}
	return normRadius, theta
}

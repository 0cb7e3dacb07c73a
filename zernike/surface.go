package zernike

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SurfaceMicrons evaluates the wavefront aberration surface, in microns, over
// a pupil-plane grid given in normalized polar form. normRadius holds the
// radial coordinate normalized to the measured pupil radius (values above 1
// lie outside the fitted disk but are still evaluated; masking is the
// caller's concern) and theta the corresponding atan2 angle.
//
// extraDefocusMicrons is added to the stored defocus coefficient before the
// sum; it carries the longitudinal chromatic aberration and any explicit
// observer focus correction for the wavelength being synthesized. Piston and
// tilt slots never contribute regardless of their stored values.
func SurfaceMicrons(coeffs Coefficients, normRadius, theta *mat.Dense, extraDefocusMicrons float64) (*mat.Dense, error) {
	rows, cols := normRadius.Dims()
	tr, tc := theta.Dims()
	if tr != rows || tc != cols {
		return nil, fmt.Errorf("zernike: normRadius is %dx%d but theta is %dx%d", rows, cols, tr, tc)
	}

	surface := mat.NewDense(rows, cols, nil)
	for _, md := range modes {
		c := coeffs[md.Index]
		if md.Index == DefocusIndex {
			c += extraDefocusMicrons
		}
		if c == 0 {
			continue
		}
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				rho := normRadius.At(i, j)
				th := theta.At(i, j)
				surface.Set(i, j, surface.At(i, j)+c*md.Eval(rho, th))
			}
		}
	}
	return surface, nil
}

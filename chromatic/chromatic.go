// Package chromatic converts chromatic and lens focus errors between diopters
// and equivalent wavefront-surface microns.
//
// The longitudinal chromatic aberration (LCA) model is the reduced-eye fit
// used by the wavefront literature: power error in diopters as a function of
// wavelength, with a singularity at 214.1 nm that real configurations never
// approach.
package chromatic

import (
	"fmt"
	"math"
)

// SingularityNM is the wavelength at which the LCA model divides by zero.
// Configurations must never place a wavelength here.
const SingularityNM = 214.1

// lcaConstantA and lcaConstantB are the reduced-eye model constants.
const (
	lcaConstantA = 1.8859
	lcaConstantB = 0.63346
)

// ValidateWavelength rejects wavelengths that are non-positive or that sit on
// the LCA model singularity.
func ValidateWavelength(wavelengthNM float64) error {
	if wavelengthNM <= 0 {
		return fmt.Errorf("wavelength must be positive, got %g nm", wavelengthNM)
	}
	if wavelengthNM == SingularityNM {
		return fmt.Errorf("wavelength %g nm coincides with the chromatic model singularity", wavelengthNM)
	}
	return nil
}

// LCADiopters returns the longitudinal chromatic aberration, in diopters,
// needed to shift focus from wl1NM to wl2NM. It is exactly zero when the two
// wavelengths are equal.
func LCADiopters(wl1NM, wl2NM float64) float64 {
	constant := lcaConstantA - lcaConstantB/(0.001*wl1NM-0.2141)
	return lcaConstantA - constant - lcaConstantB/(0.001*wl2NM-0.2141)
}

// DiopterToMicrons converts a defocus expressed in diopters into the
// equivalent wavefront-surface height in microns over the given pupil.
// The pupil diameter must be the one the Zernike expansion was normalized
// to (the measured aperture), not the calculation aperture.
func DiopterToMicrons(diopters, pupilDiameterMM float64) float64 {
	return diopters * pupilDiameterMM * pupilDiameterMM / (16.0 * math.Sqrt(3.0))
}

// ExplicitDefocusMicrons converts the difference between the calculation-time
// and measurement-time observer focus corrections (an external corrective
// lens, wavelength independent) into wavefront microns over the measured
// pupil.
func ExplicitDefocusMicrons(calcCorrectionD, measuredCorrectionD, measuredPupilDiameterMM float64) float64 {
	return DiopterToMicrons(calcCorrectionD-measuredCorrectionD, measuredPupilDiameterMM)
}

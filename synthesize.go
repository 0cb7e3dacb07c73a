package wavefront

import (
	"log"
	"math"
	"math/cmplx"

	"github.com/visionlab/wavefront/chromatic"
	"github.com/visionlab/wavefront/zernike"
	"gonum.org/v1/gonum/mat"
)

// ComputePupilFunction synthesizes one complex pupil function per calculation
// wavelength and replaces the cache with the full per-wavelength slice. When
// the cache is fresh the call is a memoized no-op returning the cached slice
// unchanged. Either every wavelength is produced or none is; a failure leaves
// the previous cache and staleness state untouched.
//
// On success the pupil function is marked fresh and the PSF stale.
func (sys *OpticalSystem) ComputePupilFunction() ([]*mat.CDense, error) {
	if !sys.staleness.IsPupilFunctionStale() && sys.pupilFunctions != nil {
		return sys.pupilFunctions, nil
	}

	if err := sys.validateForSynthesis(); err != nil {
		return nil, err
	}

	if sys.sceParams.Disabled() {
		log.Printf("wavefront: SCE rho table is all zero; apodization disabled, using uniform transmission")
	}

	results := make([]*mat.CDense, len(sys.wavelengthsNM))
	for i, wl := range sys.wavelengthsNM {
		pf, err := sys.synthesizeOne(wl)
		if err != nil {
			return nil, err
		}
		results[i] = pf
	}

	sys.pupilFunctions = results
	sys.computeCount++
	sys.staleness.MarkPupilFunctionFresh()
	return results, nil
}

// PupilFunctions returns the cached pupil functions without recomputing.
// Consumers that must not observe stale data should check Staleness first or
// call ComputePupilFunction instead.
func (sys *OpticalSystem) PupilFunctions() []*mat.CDense { return sys.pupilFunctions }

// validateForSynthesis fails fast, before any per-wavelength allocation, on
// configurations the synthesis cannot honor.
func (sys *OpticalSystem) validateForSynthesis() error {
	if sys.calcPupilDiameterMM > sys.measuredPupilDiameterMM {
		return configErrorf("pupil diameters",
			"calculation pupil (%g mm) exceeds measured pupil (%g mm); coefficients are only valid over the measured disk",
			sys.calcPupilDiameterMM, sys.measuredPupilDiameterMM)
	}
	if sys.spatialSamples <= 0 {
		return configErrorf("spatial samples", "must be positive, got %d", sys.spatialSamples)
	}
	if len(sys.wavelengthsNM) == 0 {
		return configErrorf("wavelengths", "at least one calculation wavelength is required")
	}
	for _, wl := range append([]float64{sys.measuredWavelengthNM, sys.nominalFocusWavelengthNM}, sys.wavelengthsNM...) {
		if err := chromatic.ValidateWavelength(wl); err != nil {
			return configErrorf("wavelengths", "%v", err)
		}
	}
	if err := sys.sceParams.Validate(); err != nil {
		return configErrorf("SCE parameters", "%v", err)
	}
	if sys.planeSizer == nil {
		return configErrorf("plane sizer", "no pupil-plane sizing policy installed")
	}
	return nil
}

// synthesizeOne produces the pupil function for a single wavelength:
// coordinate grids, Stiles-Crawford amplitude, aberration surface with the
// chromatic and observer defocus folded into the defocus coefficient, complex
// assembly, then masking to the calculation aperture.
func (sys *OpticalSystem) synthesizeOne(wavelengthNM float64) (*mat.CDense, error) {
	sizeMM := sys.planeSizer.PlaneSizeMM(wavelengthNM)
	if sizeMM <= 0 {
		return nil, configErrorf("plane sizer", "non-positive pupil-plane size %g mm at %g nm", sizeMM, wavelengthNM)
	}

	x, y := pupilPlaneGrid(sys.spatialSamples, sizeMM)

	amplitude, err := sys.sceParams.Amplitude(x, y, wavelengthNM)
	if err != nil {
		return nil, configErrorf("SCE parameters", "%v", err)
	}

	normRadius, theta := polarGrid(x, y, sys.measuredPupilDiameterMM)

	// Chromatic defocus is taken relative to the nominal in-focus wavelength;
	// when that equals the measurement wavelength this is the plain
	// measured-to-calculated LCA. The observer lens correction difference is
	// wavelength independent. Both convert over the measured aperture.
	lcaMicrons := chromatic.DiopterToMicrons(
		chromatic.LCADiopters(sys.nominalFocusWavelengthNM, wavelengthNM),
		sys.measuredPupilDiameterMM)
	explicitMicrons := chromatic.ExplicitDefocusMicrons(
		sys.calcObserverFocusCorrectionD,
		sys.measuredObserverFocusCorrectionD,
		sys.measuredPupilDiameterMM)

	surface, err := zernike.SurfaceMicrons(sys.coeffs, normRadius, theta, lcaMicrons+explicitMicrons)
	if err != nil {
		return nil, configErrorf("zernike surface", "%v", err)
	}

	// Transmission is truncated to the (possibly smaller) calculation
	// aperture even though the expansion stays normalized to the measured
	// disk.
	maskLimit := sys.calcPupilDiameterMM / sys.measuredPupilDiameterMM
	wavelengthUM := wavelengthNM / 1000.0

	n := sys.spatialSamples
	pf := mat.NewCDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if normRadius.At(i, j) > maskLimit {
				continue
			}
			phase := -2 * math.Pi * surface.At(i, j) / wavelengthUM
			pf.Set(i, j, cmplx.Rect(amplitude.At(i, j), phase))
		}
	}
	return pf, nil
}

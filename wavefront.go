// Package wavefront models the optical wavefront aberration of an eye (or a
// generic optical system) as a Zernike expansion and synthesizes the
// complex-valued pupil function that fully characterizes the system at each
// calculation wavelength.
//
// The OpticalSystem aggregate holds the measured Zernike coefficients, pupil
// geometry, wavelengths, Stiles-Crawford apodization parameters and observer
// focus state. Every setter that the synthesis depends on invalidates the
// cached pupil functions; ComputePupilFunction is memoized against that
// staleness and replaces the whole per-wavelength cache atomically.
package wavefront

import (
	"github.com/visionlab/wavefront/chromatic"
	"github.com/visionlab/wavefront/sce"
	"github.com/visionlab/wavefront/zernike"
	"gonum.org/v1/gonum/mat"
)

// Defaults for a freshly created optical system: a diffraction-limited eye
// with coefficients measured over an 8 mm pupil, calculated over 3 mm at a
// single mid-photopic wavelength.
const (
	DefaultMeasuredPupilDiameterMM = 8.0
	DefaultCalcPupilDiameterMM     = 3.0
	DefaultWavelengthNM            = 550.0
	DefaultSpatialSamples          = 201
	// DefaultPupilPlaneSizeMM pads the default pupil well past the aperture
	// so the Fourier transform of the pupil function is adequately sampled.
	DefaultPupilPlaneSizeMM = 16.212
)

// OpticalSystem is the long-lived, mutable configuration of one optical
// system together with its derived pupil-function cache and staleness state.
// It is not safe for concurrent use; serialize access externally.
type OpticalSystem struct {
	name string

	coeffs                           zernike.Coefficients
	measuredPupilDiameterMM          float64
	calcPupilDiameterMM              float64
	wavelengthsNM                    []float64
	measuredWavelengthNM             float64
	nominalFocusWavelengthNM         float64
	calcObserverFocusCorrectionD     float64
	measuredObserverFocusCorrectionD float64
	sceParams                        sce.Params
	spatialSamples                   int
	planeSizer                       PlaneSizer

	pupilFunctions []*mat.CDense
	staleness      Staleness

	// computeCount counts actual pupil-function recomputations (cache hits
	// excluded). White-box tests use it to verify memoization.
	computeCount int
}

// New returns an optical system with diffraction-limited defaults: all-zero
// coefficients, matched measurement and nominal focus wavelengths, no
// observer focus correction, and apodization disabled.
func New() *OpticalSystem {
	return &OpticalSystem{
		name:                     "default",
		measuredPupilDiameterMM:  DefaultMeasuredPupilDiameterMM,
		calcPupilDiameterMM:      DefaultCalcPupilDiameterMM,
		wavelengthsNM:            []float64{DefaultWavelengthNM},
		measuredWavelengthNM:     DefaultWavelengthNM,
		nominalFocusWavelengthNM: DefaultWavelengthNM,
		sceParams:                sce.None(),
		spatialSamples:           DefaultSpatialSamples,
		planeSizer:               FixedPlaneSize(DefaultPupilPlaneSizeMM),
		staleness:                newStaleness(),
	}
}

// Name returns the configuration's display name.
func (sys *OpticalSystem) Name() string { return sys.name }

// SetName renames the configuration. Cosmetic; does not invalidate anything.
func (sys *OpticalSystem) SetName(name string) { sys.name = name }

// Staleness exposes the recomputation state shared with downstream stages.
func (sys *OpticalSystem) Staleness() *Staleness { return &sys.staleness }

// SetZernikeCoefficients replaces the coefficient vector. Inputs shorter than
// the 65-slot container zero-pad; longer inputs are a configuration error.
func (sys *OpticalSystem) SetZernikeCoefficients(values []float64) error {
	c, err := zernike.NewCoefficients(values)
	if err != nil {
		return configErrorf("zernike coefficients", "%v", err)
	}
	sys.coeffs = c
	sys.staleness.InvalidatePupilFunction()
	return nil
}

// SetZernikeCoefficient updates a single OSA-indexed coefficient slot.
func (sys *OpticalSystem) SetZernikeCoefficient(osaIndex int, value float64) error {
	if osaIndex < 0 || osaIndex >= zernike.NumCoefficients {
		return configErrorf("zernike coefficient index", "OSA index %d outside 0..%d", osaIndex, zernike.NumCoefficients-1)
	}
	sys.coeffs[osaIndex] = value
	sys.staleness.InvalidatePupilFunction()
	return nil
}

// ZernikeCoefficients returns the current 65-slot coefficient container.
func (sys *OpticalSystem) ZernikeCoefficients() zernike.Coefficients { return sys.coeffs }

// SetMeasuredPupilDiameterMM sets the aperture the coefficients were fit
// over. The Zernike normalization radius always follows this value.
func (sys *OpticalSystem) SetMeasuredPupilDiameterMM(d float64) error {
	if d <= 0 {
		return configErrorf("measured pupil diameter", "must be positive, got %g mm", d)
	}
	sys.measuredPupilDiameterMM = d
	sys.staleness.InvalidatePupilFunction()
	return nil
}

// MeasuredPupilDiameterMM returns the measurement aperture in millimeters.
func (sys *OpticalSystem) MeasuredPupilDiameterMM() float64 { return sys.measuredPupilDiameterMM }

// SetCalcPupilDiameterMM sets the transmission aperture used at calculation
// time. It may be smaller than the measured aperture; the relation is
// enforced at synthesis time so the two setters can run in either order.
func (sys *OpticalSystem) SetCalcPupilDiameterMM(d float64) error {
	if d <= 0 {
		return configErrorf("calculation pupil diameter", "must be positive, got %g mm", d)
	}
	sys.calcPupilDiameterMM = d
	sys.staleness.InvalidatePupilFunction()
	return nil
}

// CalcPupilDiameterMM returns the calculation aperture in millimeters.
func (sys *OpticalSystem) CalcPupilDiameterMM() float64 { return sys.calcPupilDiameterMM }

// SetWavelengthsNM replaces the ordered calculation wavelength list.
// Duplicates are permitted; each produces an independent pupil function.
func (sys *OpticalSystem) SetWavelengthsNM(wls []float64) error {
	if len(wls) == 0 {
		return configErrorf("wavelengths", "at least one calculation wavelength is required")
	}
	for _, wl := range wls {
		if err := chromatic.ValidateWavelength(wl); err != nil {
			return configErrorf("wavelengths", "%v", err)
		}
	}
	sys.wavelengthsNM = append([]float64(nil), wls...)
	sys.staleness.InvalidatePupilFunction()
	return nil
}

// WavelengthsNM returns a copy of the calculation wavelengths.
func (sys *OpticalSystem) WavelengthsNM() []float64 {
	return append([]float64(nil), sys.wavelengthsNM...)
}

// SetMeasuredWavelengthNM sets the wavelength the coefficients were measured
// at.
func (sys *OpticalSystem) SetMeasuredWavelengthNM(wl float64) error {
	if err := chromatic.ValidateWavelength(wl); err != nil {
		return configErrorf("measured wavelength", "%v", err)
	}
	sys.measuredWavelengthNM = wl
	sys.staleness.InvalidatePupilFunction()
	return nil
}

// MeasuredWavelengthNM returns the measurement wavelength in nanometers.
func (sys *OpticalSystem) MeasuredWavelengthNM() float64 { return sys.measuredWavelengthNM }

// SetNominalFocusWavelengthNM sets the wavelength the system is taken to be
// in focus at. Chromatic defocus at each calculation wavelength is computed
// relative to this reference.
func (sys *OpticalSystem) SetNominalFocusWavelengthNM(wl float64) error {
	if err := chromatic.ValidateWavelength(wl); err != nil {
		return configErrorf("nominal focus wavelength", "%v", err)
	}
	sys.nominalFocusWavelengthNM = wl
	sys.staleness.InvalidatePupilFunction()
	return nil
}

// NominalFocusWavelengthNM returns the in-focus reference wavelength.
func (sys *OpticalSystem) NominalFocusWavelengthNM() float64 { return sys.nominalFocusWavelengthNM }

// SetObserverFocusCorrectionsD sets the external-lens focus state, in
// diopters, at calculation time and at measurement time. Their difference is
// folded into the effective defocus coefficient.
func (sys *OpticalSystem) SetObserverFocusCorrectionsD(calcD, measuredD float64) {
	sys.calcObserverFocusCorrectionD = calcD
	sys.measuredObserverFocusCorrectionD = measuredD
	sys.staleness.InvalidatePupilFunction()
}

// ObserverFocusCorrectionsD returns the calculation-time and measurement-time
// focus corrections in diopters.
func (sys *OpticalSystem) ObserverFocusCorrectionsD() (calcD, measuredD float64) {
	return sys.calcObserverFocusCorrectionD, sys.measuredObserverFocusCorrectionD
}

// SetSCEParams replaces the Stiles-Crawford apodization parameters.
func (sys *OpticalSystem) SetSCEParams(p sce.Params) error {
	if err := p.Validate(); err != nil {
		return configErrorf("SCE parameters", "%v", err)
	}
	sys.sceParams = p
	sys.staleness.InvalidatePupilFunction()
	return nil
}

// SCEParams returns the current Stiles-Crawford parameters.
func (sys *OpticalSystem) SCEParams() sce.Params { return sys.sceParams }

// SetSpatialSamples sets the pixel count per side of the square pupil-plane
// sampling grid.
func (sys *OpticalSystem) SetSpatialSamples(n int) error {
	if n <= 0 {
		return configErrorf("spatial samples", "must be positive, got %d", n)
	}
	sys.spatialSamples = n
	sys.staleness.InvalidatePupilFunction()
	return nil
}

// SpatialSamples returns the grid side length in pixels.
func (sys *OpticalSystem) SpatialSamples() int { return sys.spatialSamples }

// SetPlaneSizer installs the calculation-grid sizing policy. The pupil-plane
// physical size may vary per wavelength, which is why synthesis loops over
// wavelengths rather than vectorizing across them.
func (sys *OpticalSystem) SetPlaneSizer(sizer PlaneSizer) {
	sys.planeSizer = sizer
	sys.staleness.InvalidatePupilFunction()
}

// PlaneSizer returns the installed sizing policy.
func (sys *OpticalSystem) PlaneSizer() PlaneSizer { return sys.planeSizer }

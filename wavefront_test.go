package wavefront

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visionlab/wavefront/sce"
)

func TestNewDefaults(t *testing.T) {
	sys := New()
	assert.Equal(t, "default", sys.Name())
	assert.Equal(t, DefaultMeasuredPupilDiameterMM, sys.MeasuredPupilDiameterMM())
	assert.Equal(t, DefaultCalcPupilDiameterMM, sys.CalcPupilDiameterMM())
	assert.Equal(t, DefaultSpatialSamples, sys.SpatialSamples())
	assert.Equal(t, DefaultWavelengthNM, sys.MeasuredWavelengthNM())
	assert.Equal(t, DefaultWavelengthNM, sys.NominalFocusWavelengthNM())
	if diff := cmp.Diff([]float64{DefaultWavelengthNM}, sys.WavelengthsNM()); diff != "" {
		t.Fatalf("default wavelengths mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, sys.SCEParams().Disabled(), "default SCE must be disabled")
	assert.True(t, sys.Staleness().IsPupilFunctionStale(), "nothing computed yet")
}

// Every synthesis input setter must invalidate the pupil function.
func TestSettersInvalidate(t *testing.T) {
	steps := []struct {
		name string
		call func(sys *OpticalSystem) error
	}{
		{"coefficients", func(sys *OpticalSystem) error {
			return sys.SetZernikeCoefficients([]float64{0, 0, 0, 0, 0.1})
		}},
		{"single coefficient", func(sys *OpticalSystem) error {
			return sys.SetZernikeCoefficient(12, -0.05)
		}},
		{"measured pupil", func(sys *OpticalSystem) error {
			return sys.SetMeasuredPupilDiameterMM(6)
		}},
		{"calc pupil", func(sys *OpticalSystem) error {
			return sys.SetCalcPupilDiameterMM(2.5)
		}},
		{"wavelengths", func(sys *OpticalSystem) error {
			return sys.SetWavelengthsNM([]float64{450, 550, 650})
		}},
		{"measured wavelength", func(sys *OpticalSystem) error {
			return sys.SetMeasuredWavelengthNM(560)
		}},
		{"nominal focus wavelength", func(sys *OpticalSystem) error {
			return sys.SetNominalFocusWavelengthNM(580)
		}},
		{"focus corrections", func(sys *OpticalSystem) error {
			sys.SetObserverFocusCorrectionsD(0.5, 0.25)
			return nil
		}},
		{"SCE params", func(sys *OpticalSystem) error {
			return sys.SetSCEParams(sce.Berendschot2001())
		}},
		{"spatial samples", func(sys *OpticalSystem) error {
			return sys.SetSpatialSamples(64)
		}},
		{"plane sizer", func(sys *OpticalSystem) error {
			sys.SetPlaneSizer(FixedPlaneSize(12))
			return nil
		}},
	}

	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			sys := New()
			_, err := sys.ComputePupilFunction()
			require.NoError(t, err)
			require.False(t, sys.Staleness().IsPupilFunctionStale())

			require.NoError(t, step.call(sys))
			assert.True(t, sys.Staleness().IsPupilFunctionStale(),
				"setting %s must invalidate the pupil function", step.name)
		})
	}
}

func TestSetterValidation(t *testing.T) {
	sys := New()
	assert.Error(t, sys.SetMeasuredPupilDiameterMM(0))
	assert.Error(t, sys.SetCalcPupilDiameterMM(-1))
	assert.Error(t, sys.SetSpatialSamples(0))
	assert.Error(t, sys.SetWavelengthsNM(nil))
	assert.Error(t, sys.SetWavelengthsNM([]float64{550, -10}))
	assert.Error(t, sys.SetWavelengthsNM([]float64{214.1}), "chromatic singularity must be rejected")
	assert.Error(t, sys.SetMeasuredWavelengthNM(214.1))
	assert.Error(t, sys.SetNominalFocusWavelengthNM(0))
	assert.Error(t, sys.SetZernikeCoefficients(make([]float64, 66)), "over-long coefficient vector")
	assert.Error(t, sys.SetZernikeCoefficient(65, 0.1), "OSA index past the container")
	assert.Error(t, sys.SetSCEParams(sce.Params{WavelengthsNM: []float64{500}, Rho: nil}))

	// Rejected inputs must not overwrite the stored values.
	assert.Equal(t, DefaultMeasuredPupilDiameterMM, sys.MeasuredPupilDiameterMM())
	assert.Equal(t, DefaultSpatialSamples, sys.SpatialSamples())
}

func TestSetNameDoesNotInvalidate(t *testing.T) {
	sys := New()
	_, err := sys.ComputePupilFunction()
	require.NoError(t, err)

	sys.SetName("left eye, dilated")
	assert.False(t, sys.Staleness().IsPupilFunctionStale(), "renaming is cosmetic")
	assert.Equal(t, "left eye, dilated", sys.Name())
}

// Package zernike evaluates real Zernike polynomial expansions of an optical
// wavefront over the unit pupil disk, using the OSA/ANSI single-index
// convention up to the 10th radial order.
//
// The mode table is generated from the index arithmetic rather than
// transcribed term by term: OSA index j maps to radial order n and azimuthal
// frequency m through j = (n(n+2)+m)/2, and the radial polynomial R_n^{|m|}
// comes from the standard closed-form sum.
package zernike

import (
	"fmt"
	"math"
)

// NumCoefficients is the size of the coefficient container. Slot index equals
// the OSA single index, so slots 0..64 cover piston through the 10th radial
// order. Inputs longer than this are a configuration error.
const NumCoefficients = 65

// DefocusIndex is the OSA index of the n=2, m=0 defocus mode. It is the only
// mode whose effective coefficient is adjusted for chromatic and observer
// focus state during pupil-function synthesis.
const DefocusIndex = 4

// firstImagingIndex is the first OSA index that contributes to image quality.
// Piston (0) and the two tilts (1, 2) are stored for alignment but never
// enter the surface sum.
const firstImagingIndex = 3

// Mode describes one Zernike mode: its OSA index, radial order n, azimuthal
// frequency m, the orthonormal scaling factor, and the closed-form radial
// polynomial coefficients ordered from the highest power n down in steps of
// two (the k-th entry multiplies rho^(n-2k)).
type Mode struct {
	Index  int
	N      int
	M      int
	Norm   float64
	radial []float64
}

// modes holds every mode that participates in the surface sum, in OSA order.
var modes = buildModes()

// IndexToNM inverts the OSA single index into (n, m).
func IndexToNM(j int) (n, m int) {
	n = int(math.Ceil((-3.0 + math.Sqrt(9.0+8.0*float64(j))) / 2.0))
	m = 2*j - n*(n+2)
	return n, m
}

// OSAIndex returns the OSA single index for radial order n and azimuthal
// frequency m.
func OSAIndex(n, m int) int {
	return (n*(n+2) + m) / 2
}

// Norm returns the orthonormal scaling factor: sqrt(2(n+1)) for m != 0 and
// sqrt(n+1) for m == 0.
func Norm(n, m int) float64 {
	if m == 0 {
		return math.Sqrt(float64(n + 1))
	}
	return math.Sqrt(2.0 * float64(n+1))
}

func factorial(n int) float64 {
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}

// radialCoefficients returns the closed-form coefficients of R_n^{|m|}:
// sum over k of (-1)^k (n-k)! / (k! ((n+m)/2-k)! ((n-m)/2-k)!) rho^(n-2k).
func radialCoefficients(n, m int) []float64 {
	if m < 0 {
		m = -m
	}
	terms := (n-m)/2 + 1
	coeffs := make([]float64, terms)
	for k := 0; k < terms; k++ {
		c := factorial(n-k) / (factorial(k) * factorial((n+m)/2-k) * factorial((n-m)/2-k))
		if k%2 == 1 {
			c = -c
		}
		coeffs[k] = c
	}
	return coeffs
}

func buildModes() []Mode {
	var ms []Mode
	for j := firstImagingIndex; j < NumCoefficients; j++ {
		n, m := IndexToNM(j)
		ms = append(ms, Mode{
			Index:  j,
			N:      n,
			M:      m,
			Norm:   Norm(n, m),
			radial: radialCoefficients(n, m),
		})
	}
	return ms
}

// Modes returns a copy of the imaging mode table (OSA indices 3 and up).
func Modes() []Mode {
	out := make([]Mode, len(modes))
	copy(out, modes)
	return out
}

// evalRadial computes R_n^{|m|}(rho) by Horner's rule over rho^2, with a
// final factor rho^|m| carrying the parity of the polynomial.
func (md Mode) evalRadial(rho float64) float64 {
	rho2 := rho * rho
	sum := 0.0
	for _, c := range md.radial {
		sum = sum*rho2 + c
	}
	m := md.M
	if m < 0 {
		m = -m
	}
	for i := 0; i < m; i++ {
		sum *= rho
	}
	return sum
}

// Eval computes the full unnormalized-input mode value
// N(n,m) * R_n^{|m|}(rho) * {cos(m theta) | sin(|m| theta)} at one point.
func (md Mode) Eval(rho, theta float64) float64 {
	v := md.Norm * md.evalRadial(rho)
	switch {
	case md.M > 0:
		v *= math.Cos(float64(md.M) * theta)
	case md.M < 0:
		v *= math.Sin(float64(-md.M) * theta)
	}
	return v
}

// Coefficients is the fixed 65-slot Zernike coefficient container. Slot index
// equals the OSA single index; slots beyond the supplied input are zero.
type Coefficients [NumCoefficients]float64

// NewCoefficients validates and materializes a variable-length coefficient
// input. Short inputs are zero-padded; inputs longer than NumCoefficients are
// rejected rather than truncated.
func NewCoefficients(values []float64) (Coefficients, error) {
	var c Coefficients
	if len(values) > NumCoefficients {
		return c, fmt.Errorf("zernike: coefficient vector has %d entries, maximum is %d", len(values), NumCoefficients)
	}
	copy(c[:], values)
	return c, nil
}

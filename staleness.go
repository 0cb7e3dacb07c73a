package wavefront

// Staleness tracks whether the two derived artifacts of an optical system,
// the pupil function and the point-spread function, still reflect the
// configuration they were computed from. The two flags are independent: a
// configuration change marks the pupil function stale without touching the
// PSF flag, and only an actual pupil-function recomputation forces the PSF
// stale.
//
// Callers must treat check-stale, recompute, mark-fresh as one logical unit;
// the type itself does no locking.
type Staleness struct {
	pupilFunction bool
	psf           bool
}

// newStaleness starts with both artifacts stale, since nothing has been
// computed yet.
func newStaleness() Staleness {
	return Staleness{pupilFunction: true, psf: true}
}

// InvalidatePupilFunction marks the pupil function stale. Called by every
// configuration setter that the synthesis depends on.
func (s *Staleness) InvalidatePupilFunction() {
	s.pupilFunction = true
}

// IsPupilFunctionStale reports whether the cached pupil functions are
// untrustworthy and must be recomputed before use.
func (s *Staleness) IsPupilFunctionStale() bool {
	return s.pupilFunction
}

// MarkPupilFunctionFresh records a successful pupil-function recomputation.
// The PSF becomes stale unconditionally, even if the new pupil function is
// numerically identical to the old one.
func (s *Staleness) MarkPupilFunctionFresh() {
	s.pupilFunction = false
	s.psf = true
}

// InvalidatePSF marks the PSF stale without touching the pupil function.
func (s *Staleness) InvalidatePSF() {
	s.psf = true
}

// IsPSFStale reports whether a derived PSF must be recomputed. A stale pupil
// function implies a stale PSF, since the PSF is computed from it.
func (s *Staleness) IsPSFStale() bool {
	return s.psf || s.pupilFunction
}

// MarkPSFFresh records a successful PSF recomputation.
func (s *Staleness) MarkPSFFresh() {
	s.psf = false
}

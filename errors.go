package wavefront

import "fmt"

// ConfigError reports an optical-system configuration that cannot be
// synthesized. It is fatal: the synthesizer raises it before allocating any
// per-wavelength output, so the cached arrays are never partially replaced.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("wavefront: invalid %s: %s", e.Field, e.Reason)
}

func configErrorf(field, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// internal/status/constants.go
package status

// Link health codes. Published verbatim; MUST NOT be renumbered.

// HealthUnknown represents the boot state before the first connect attempt.
const HealthUnknown uint16 = 0

// HealthOK represents a live PLC link.
const HealthOK uint16 = 1

// HealthError represents a PLC link that failed its last connect.
const HealthError uint16 = 2

// SecondsInErrorMax is the saturation value for SecondsInError.
const SecondsInErrorMax = 65535

// ErrorCodeGeneric is used when an error exposes no code of its own.
const ErrorCodeGeneric uint16 = 1

// HealthName returns a stable lowercase label for a health code.
func HealthName(h uint16) string {
	switch h {
	case HealthOK:
		return "ok"
	case HealthError:
		return "error"
	default:
		return "unknown"
	}
}

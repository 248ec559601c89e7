package webhook

import "fmt"

/* Format selects how a retrieved webhook is rendered
 * JSON returns the record itself, Curl returns a replay command
 */
type Format int

const (
	JSON Format = iota + 1
	Curl
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case Curl:
		return "curl"
	default:
		return "unknown"
	}
}

// NewFormat creates a Format from a string, an empty string selects JSON
func NewFormat(s string) Format {
	switch s {
	case "json", "":
		return JSON
	case "curl":
		return Curl
	default:
		return 0
	}
}

// Validate checks if the format is valid
func (f Format) Validate() error {
	if f != JSON && f != Curl {
		return fmt.Errorf("invalid format: %d", f)
	}
	return nil
}

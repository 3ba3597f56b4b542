// Package gate validates decoded QR payloads before any navigation or
// credential automation runs against them.
package gate

import "strings"

// DefaultMarkers are the host/path fragments that identify the attendance
// portal. A scanned URL must contain at least one of them.
var DefaultMarkers = []string{"clic", "osc.mmu.edu.my"}

// Gate decides whether a decoded QR payload may be used as a navigation
// target. Payloads are untrusted input: the gate is the only check between
// a scanned code and submitting stored credentials to whatever it points at.
//
// The check is substring-based, not domain-exact. Any URL containing a
// trusted marker anywhere in its text passes, including markers appearing
// in the path of an unrelated host. Tightening this is a product decision;
// the current behavior is locked in by tests.
type Gate struct {
	markers []string
}

// New builds a Gate trusting the given markers. With no markers it falls
// back to DefaultMarkers.
func New(markers ...string) *Gate {
	if len(markers) == 0 {
		markers = DefaultMarkers
	}
	lowered := make([]string, 0, len(markers))
	for _, m := range markers {
		m = strings.ToLower(strings.TrimSpace(m))
		if m != "" {
			lowered = append(lowered, m)
		}
	}
	return &Gate{markers: lowered}
}

// Validate reports whether candidate is an absolute http(s) URL carrying at
// least one trusted marker. It fails closed: empty input, unknown schemes
// and marker-less URLs are all rejected. It never panics.
func (g *Gate) Validate(candidate string) bool {
	if candidate == "" {
		return false
	}
	lower := strings.ToLower(candidate)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return false
	}
	for _, m := range g.markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

package session

import (
	"encoding/json"

	"autoclic/internal/loginscript"
	"autoclic/internal/surface"
)

// notice is one inbound bridge notification, stamped with the attempt
// index the reporting script was evaluated for.
type notice struct {
	kind    OutcomeKind
	attempt int
	reason  string
}

// bridgePayload is the single argument the injected script passes to a
// bridge callback.
type bridgePayload struct {
	Attempt *int   `json:"attempt"`
	Reason  string `json:"reason"`
}

// parsePayload never fails: anything malformed or missing its attempt
// index becomes attempt -1, which no live attempt ever matches, so the
// notice falls out as stale.
func parsePayload(raw string) bridgePayload {
	var p bridgePayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil || p.Attempt == nil {
		stale := -1
		return bridgePayload{Attempt: &stale}
	}
	return p
}

// registerBridge exposes the two outcome callbacks on surf. The page may
// invoke them zero, one or several times per attempt, from any
// goroutine, at any point in the session; notify must cope (the
// orchestrator's loop honors the first notice per attempt and discards
// the rest).
func registerBridge(surf surface.Surface, notify func(notice)) error {
	err := surf.Expose(loginscript.BridgeSubmitted, func(raw string) {
		p := parsePayload(raw)
		notify(notice{kind: OutcomeSubmitted, attempt: *p.Attempt})
	})
	if err != nil {
		return err
	}

	return surf.Expose(loginscript.BridgeFailed, func(raw string) {
		p := parsePayload(raw)
		reason := p.Reason
		if reason == "" {
			reason = "unspecified failure"
		}
		notify(notice{kind: OutcomeFailed, attempt: *p.Attempt, reason: reason})
	})
}

package loginscript

// CSS selectors used to discover login controls on the attendance page.
// The portal markup is not under our control, so the queries are
// deliberately loose: any text-like input that smells like a username
// field, the first password input, and anything clickable that could
// plausibly submit the form.
const (
	SelectorUserField = `input[type="text"], input[name*="user"], input[id*="user"], input[placeholder*="User"]`
	SelectorPassField = `input[type="password"]`
	SelectorSubmit    = `input[type="submit"], button[type="submit"], input[value*="Sign"], button`
)

// Names under which the host registers the outcome callbacks inside the
// page. The generated script reports through these and nothing else.
const (
	BridgeSubmitted = "autoclicSubmitted"
	BridgeFailed    = "autoclicFailed"
)

// Failure reasons reported through the failed callback.
const (
	ReasonFieldsNotFound = "login fields not found"
	ReasonSubmitNotFound = "submit control not found"
)

// Package loginscript produces the page-side automation that fills and
// submits the attendance portal's login form for one account.
package loginscript

// Generate returns the fill-and-submit routine as a JavaScript function
// literal. It is meant to be evaluated with bound arguments
// (user, pass, delayMs, attempt), never with values spliced into the
// text: credentials containing quotes or backslashes must not be able to
// break out of the script.
//
// Behavior, in page terms: find a username-like input and a password
// input, clear both, wait delayMs for any field listeners to settle, then
// write the values and click a submit control. Outcome is reported
// exactly once per invocation through the host bridge, tagged with the
// attempt index so the host can drop stale signals:
//
//   - both fields and a submit control found: values written, control
//     clicked, submitted reported
//   - fields found but no submit control: values still written
//     best-effort, failure reported
//   - fields missing: failure reported immediately, nothing written
//
// The routine is safe to evaluate again on the same loaded page for the
// next account; it re-queries the DOM on every invocation.
func Generate() string {
	return fillAndSubmitJS
}

const fillAndSubmitJS = `(user, pass, delayMs, attempt) => {
	const userField = document.querySelector('` + SelectorUserField + `');
	const passField = document.querySelector('` + SelectorPassField + `');
	const submitBtn = document.querySelector('` + SelectorSubmit + `');

	if (!userField || !passField) {
		window.` + BridgeFailed + `({attempt: attempt, reason: '` + ReasonFieldsNotFound + `'});
		return;
	}

	userField.value = '';
	passField.value = '';

	setTimeout(() => {
		userField.value = user;
		passField.value = pass;
		userField.dispatchEvent(new Event('input', {bubbles: true}));
		passField.dispatchEvent(new Event('input', {bubbles: true}));

		if (submitBtn) {
			submitBtn.click();
			window.` + BridgeSubmitted + `({attempt: attempt});
		} else {
			window.` + BridgeFailed + `({attempt: attempt, reason: '` + ReasonSubmitNotFound + `'});
		}
	}, delayMs);
}`

package entity

// WindowOrder is a merchant request for a signed payment window.
// Fields left empty fall back to the gateway configuration.
type WindowOrder struct {
	// Amount in minor units (e.g., "1000" = 10.00 DKK)
	Amount string `json:"amount"`
	// Currency code, three letters (e.g., "DKK")
	Currency string `json:"currency"`
	// Reference must be unique per payment
	Reference   string `json:"reference"`
	AcceptUrl   string `json:"accept_url"`
	DeclineUrl  string `json:"decline_url"`
	CallbackUrl string `json:"callback_url"`
	// Type selects the payment type, e.g. "payment" or "subscription"
	Type string `json:"type"`
	// Method: "card" or "mobilepay"
	Method   string `json:"method"`
	Language string `json:"language"`
	Design   string `json:"design"`
	// Secure forces the 3-D Secure flow when true; nil keeps the configured default
	Secure *bool `json:"secure,omitempty"`
	// TestMode routes the payment to the sandbox; nil keeps the configured default
	TestMode *bool `json:"test_mode,omitempty"`
}

// WindowResponse carries everything needed to post the payment window form.
type WindowResponse struct {
	ActionUrl string            `json:"action_url"`
	Fields    map[string]string `json:"fields"`
	Signature string            `json:"signature"`
}

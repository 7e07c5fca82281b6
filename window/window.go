// Package window builds and verifies signed requests for the OnPay hosted payment window.
package window

import "strings"

const (
	MethodCard      = "card"
	MethodMobilePay = "mobilepay"

	// DefaultActionURL is the window protocol v3 endpoint the form fields are posted to.
	DefaultActionURL = "https://onpay.io/window/v3/"

	fieldPrefix = "onpay_"
	// SignatureField carries the hex HMAC-SHA1 of the other onpay_ fields.
	SignatureField = "onpay_hmac_sha1"

	secureForceValue = "force"
)

// SecureMode selects whether the strong customer authentication flow is forced.
type SecureMode int

const (
	SecureUnset SecureMode = iota
	SecureForced
	SecureNotForced
)

// VerifyMode selects how callback parameters are canonicalized before hashing.
type VerifyMode int

const (
	// VerifyLowercase lower-cases the canonical string, same as signing.
	VerifyLowercase VerifyMode = iota
	// VerifyExact hashes the canonical string as received.
	VerifyExact
)

// PaymentWindow holds the fields of one payment window invocation and the shared secret.
// It is not safe for concurrent mutation; use one instance per payment.
type PaymentWindow struct {
	gatewayId   *string
	currency    *string
	amount      *string
	reference   *string
	acceptUrl   *string
	paymentType *string
	method      *string
	secure      SecureMode
	language    *string
	declineUrl  *string
	callbackUrl *string
	design      *string
	testMode    *string

	secret     string
	actionUrl  string
	verifyMode VerifyMode
}

// field is one entry of the allow-list: the name used to build the form key and how to read it.
type field struct {
	name     string
	required bool
	value    func(w *PaymentWindow) *string
}

// allowList is the fixed set of signed fields, in order of definition.
var allowList = []field{
	{"gatewayId", true, func(w *PaymentWindow) *string { return w.gatewayId }},
	{"currency", true, func(w *PaymentWindow) *string { return w.currency }},
	{"amount", true, func(w *PaymentWindow) *string { return w.amount }},
	{"reference", true, func(w *PaymentWindow) *string { return w.reference }},
	{"acceptUrl", true, func(w *PaymentWindow) *string { return w.acceptUrl }},
	{"type", false, func(w *PaymentWindow) *string { return w.paymentType }},
	{"secureEnabled", false, func(w *PaymentWindow) *string { return w.secureValue() }},
	{"language", false, func(w *PaymentWindow) *string { return w.language }},
	{"declineUrl", false, func(w *PaymentWindow) *string { return w.declineUrl }},
	{"callbackUrl", false, func(w *PaymentWindow) *string { return w.callbackUrl }},
	{"design", false, func(w *PaymentWindow) *string { return w.design }},
	{"testMode", false, func(w *PaymentWindow) *string { return w.testMode }},
	{"method", false, func(w *PaymentWindow) *string { return w.method }},
}

func (f field) key() string {
	return fieldPrefix + strings.ToLower(f.name)
}

func NewPaymentWindow() *PaymentWindow {
	return &PaymentWindow{
		actionUrl: DefaultActionURL,
	}
}

func ptr(s string) *string {
	return &s
}

func get(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	return *s, true
}

func (w *PaymentWindow) SetGatewayId(gatewayId string) { w.gatewayId = ptr(gatewayId) }

func (w *PaymentWindow) GatewayId() (string, bool) { return get(w.gatewayId) }

func (w *PaymentWindow) SetCurrency(currency string) { w.currency = ptr(currency) }

func (w *PaymentWindow) Currency() (string, bool) { return get(w.currency) }

// SetAmount sets the amount in minor units, e.g. "1000" for 10.00 DKK.
func (w *PaymentWindow) SetAmount(amount string) { w.amount = ptr(amount) }

func (w *PaymentWindow) Amount() (string, bool) { return get(w.amount) }

// SetReference sets the merchant order reference; it must be unique per payment.
func (w *PaymentWindow) SetReference(reference string) { w.reference = ptr(reference) }

func (w *PaymentWindow) Reference() (string, bool) { return get(w.reference) }

func (w *PaymentWindow) SetAcceptUrl(acceptUrl string) { w.acceptUrl = ptr(acceptUrl) }

func (w *PaymentWindow) AcceptUrl() (string, bool) { return get(w.acceptUrl) }

func (w *PaymentWindow) SetType(paymentType string) { w.paymentType = ptr(paymentType) }

func (w *PaymentWindow) Type() (string, bool) { return get(w.paymentType) }

func (w *PaymentWindow) ClearType() { w.paymentType = nil }

// SetMethod selects the payment method, MethodCard or MethodMobilePay.
func (w *PaymentWindow) SetMethod(method string) { w.method = ptr(method) }

func (w *PaymentWindow) Method() (string, bool) { return get(w.method) }

func (w *PaymentWindow) ClearMethod() { w.method = nil }

// SetSecureEnabled forces (true) or explicitly does not force (false) the 3-D Secure flow.
// A false call always replaces a previous true.
func (w *PaymentWindow) SetSecureEnabled(enabled bool) {
	if enabled {
		w.secure = SecureForced
	} else {
		w.secure = SecureNotForced
	}
}

func (w *PaymentWindow) ClearSecureEnabled() { w.secure = SecureUnset }

func (w *PaymentWindow) HasSecureEnabled() bool { return w.secure == SecureForced }

func (w *PaymentWindow) SecureMode() SecureMode { return w.secure }

// only the forced state is sent to the gateway
func (w *PaymentWindow) secureValue() *string {
	if w.secure == SecureForced {
		return ptr(secureForceValue)
	}
	return nil
}

func (w *PaymentWindow) SetLanguage(language string) { w.language = ptr(language) }

func (w *PaymentWindow) Language() (string, bool) { return get(w.language) }

func (w *PaymentWindow) ClearLanguage() { w.language = nil }

func (w *PaymentWindow) SetDeclineUrl(declineUrl string) { w.declineUrl = ptr(declineUrl) }

func (w *PaymentWindow) DeclineUrl() (string, bool) { return get(w.declineUrl) }

func (w *PaymentWindow) ClearDeclineUrl() { w.declineUrl = nil }

func (w *PaymentWindow) SetCallbackUrl(callbackUrl string) { w.callbackUrl = ptr(callbackUrl) }

func (w *PaymentWindow) CallbackUrl() (string, bool) { return get(w.callbackUrl) }

func (w *PaymentWindow) ClearCallbackUrl() { w.callbackUrl = nil }

func (w *PaymentWindow) SetDesign(design string) { w.design = ptr(design) }

func (w *PaymentWindow) Design() (string, bool) { return get(w.design) }

func (w *PaymentWindow) ClearDesign() { w.design = nil }

// SetTestMode routes the payment to the sandbox when true. The flag is sent as "1" or "0".
func (w *PaymentWindow) SetTestMode(enabled bool) {
	if enabled {
		w.testMode = ptr("1")
	} else {
		w.testMode = ptr("0")
	}
}

// TestMode reports the flag and whether it has been set at all.
func (w *PaymentWindow) TestMode() (bool, bool) {
	if w.testMode == nil {
		return false, false
	}
	return *w.testMode == "1", true
}

func (w *PaymentWindow) ClearTestMode() { w.testMode = nil }

// SetSecret sets the shared HMAC key. It is never part of the signed fields.
func (w *PaymentWindow) SetSecret(secret string) { w.secret = secret }

func (w *PaymentWindow) Secret() string { return w.secret }

// SetActionURL overrides DefaultActionURL. An empty url restores the default.
func (w *PaymentWindow) SetActionURL(actionUrl string) {
	if actionUrl == "" {
		actionUrl = DefaultActionURL
	}
	w.actionUrl = actionUrl
}

// ActionURL returns the endpoint the form fields must be posted to.
func (w *PaymentWindow) ActionURL() string {
	if w.actionUrl == "" {
		return DefaultActionURL
	}
	return w.actionUrl
}

func (w *PaymentWindow) SetVerifyMode(mode VerifyMode) { w.verifyMode = mode }

func (w *PaymentWindow) VerifyMode() VerifyMode { return w.verifyMode }

// IsValid reports whether every required field is set. Values are not checked.
func (w *PaymentWindow) IsValid() bool {
	return len(w.MissingFields()) == 0
}

// MissingFields returns the names of the required fields that are not set.
func (w *PaymentWindow) MissingFields() []string {
	var missing []string
	for _, f := range allowList {
		if f.required && f.value(w) == nil {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// AvailableFields returns the set allow-listed fields keyed by their form name, sorted by key.
func (w *PaymentWindow) AvailableFields() Fields {
	fields := make(Fields, 0, len(allowList))
	for _, f := range allowList {
		if v := f.value(w); v != nil {
			fields = append(fields, Field{Key: f.key(), Value: *v})
		}
	}
	fields.sort()
	return fields
}

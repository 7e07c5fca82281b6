package window

import (
	"errors"
	"net/url"
	"sort"
	"strings"
	"testing"
)

const testSecret = "s3cr3t"

func newScenarioWindow() *PaymentWindow {
	w := NewPaymentWindow()
	w.SetGatewayId("1")
	w.SetCurrency("DKK")
	w.SetAmount("1000")
	w.SetReference("order1")
	w.SetAcceptUrl("https://x/ok")
	w.SetSecret(testSecret)
	return w
}

func TestFormFields_Scenario(t *testing.T) {
	w := newScenarioWindow()
	fields, err := w.FormFields()
	if err != nil {
		t.Fatalf("FormFields err: %v", err)
	}
	want := []string{
		"onpay_accepturl",
		"onpay_amount",
		"onpay_currency",
		"onpay_gatewayid",
		"onpay_hmac_sha1",
		"onpay_reference",
	}
	if got := strings.Join(fields.Keys(), ","); got != strings.Join(want, ",") {
		t.Fatalf("unexpected keys: %s", got)
	}
	sig, _ := fields.Get(SignatureField)
	if sig != "9e4500ee27e591f94598afd9b653e07763038560" {
		t.Fatalf("unexpected signature: %s", sig)
	}
	if v, _ := fields.Get("onpay_currency"); v != "DKK" {
		t.Fatalf("form value must not be lower-cased, got %s", v)
	}
}

func TestCanonicalString(t *testing.T) {
	w := newScenarioWindow()
	want := "onpay_accepturl=https%3a%2f%2fx%2fok&onpay_amount=1000&onpay_currency=dkk&onpay_gatewayid=1&onpay_reference=order1"
	if got := w.CanonicalString(); got != want {
		t.Fatalf("canonical string:\n got %s\nwant %s", got, want)
	}
}

func TestSignature_OptionalFields(t *testing.T) {
	w := newScenarioWindow()
	w.SetSecureEnabled(true)
	w.SetMethod(MethodCard)
	w.SetTestMode(true)
	w.SetLanguage("da")
	w.SetDesign("Dark Mode~1")

	sig, err := w.Signature()
	if err != nil {
		t.Fatalf("Signature err: %v", err)
	}
	if sig != "6f0b9ca78ed6d1594bd7f9876754fce6ab2e22d2" {
		t.Fatalf("unexpected signature: %s", sig)
	}
	if !strings.Contains(w.AvailableFields().Encode(), "onpay_design=Dark+Mode%7E1") {
		t.Fatalf("unexpected encoding: %s", w.AvailableFields().Encode())
	}
}

func TestSignature_Deterministic(t *testing.T) {
	a := newScenarioWindow()
	b := NewPaymentWindow()
	b.SetSecret(testSecret)
	b.SetAcceptUrl("https://x/ok")
	b.SetReference("order1")
	b.SetAmount("1000")
	b.SetCurrency("DKK")
	b.SetGatewayId("1")

	first, err := a.Signature()
	if err != nil {
		t.Fatalf("Signature err: %v", err)
	}
	again, _ := a.Signature()
	other, _ := b.Signature()
	if first != again || first != other {
		t.Fatalf("signatures differ: %s %s %s", first, again, other)
	}
	if len(first) != 40 {
		t.Fatalf("expected 40 hex chars, got %d", len(first))
	}
}

func TestSignature_MissingSecret(t *testing.T) {
	w := newScenarioWindow()
	w.SetSecret("")
	if _, err := w.Signature(); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
	if _, err := w.FormFields(); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret from FormFields, got %v", err)
	}
}

func TestSignature_NoFields(t *testing.T) {
	w := NewPaymentWindow()
	w.SetSecret(testSecret)
	if _, err := w.Signature(); !errors.Is(err, ErrNothingToSign) {
		t.Fatalf("expected ErrNothingToSign, got %v", err)
	}
	if w.ValidatePayment(map[string]string{SignatureField: "abc"}) {
		t.Fatalf("signature without fields validated")
	}
}

func TestAvailableFields_AllowListOnly(t *testing.T) {
	w := newScenarioWindow()
	w.SetActionURL("https://example.com/window/")
	fields := w.AvailableFields()
	for _, key := range fields.Keys() {
		if strings.Contains(key, "secret") || strings.Contains(key, "action") {
			t.Fatalf("unexpected field %s", key)
		}
	}
	if len(fields) != 5 {
		t.Fatalf("expected 5 fields, got %d", len(fields))
	}
	if !sort.StringsAreSorted(fields.Keys()) {
		t.Fatalf("keys not sorted: %v", fields.Keys())
	}
}

func TestAvailableFields_SortedRegardlessOfOrder(t *testing.T) {
	w := NewPaymentWindow()
	w.SetMethod(MethodMobilePay)
	w.SetTestMode(false)
	w.SetDesign("window1")
	w.SetCallbackUrl("https://x/cb")
	w.SetDeclineUrl("https://x/no")
	w.SetLanguage("en")
	w.SetType("payment")
	w.SetAcceptUrl("https://x/ok")
	w.SetReference("r")
	w.SetAmount("1")
	w.SetCurrency("EUR")
	w.SetGatewayId("g")

	keys := w.AvailableFields().Keys()
	if len(keys) != 12 {
		t.Fatalf("expected 12 fields, got %d: %v", len(keys), keys)
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] >= keys[i] {
			t.Fatalf("keys not strictly ascending at %d: %v", i, keys)
		}
	}
	if v, _ := w.AvailableFields().Get("onpay_testmode"); v != "0" {
		t.Fatalf("expected testmode 0, got %q", v)
	}
}

func TestSecureEnabled_ThreeState(t *testing.T) {
	w := newScenarioWindow()
	if w.SecureMode() != SecureUnset {
		t.Fatalf("expected unset secure mode")
	}
	w.SetSecureEnabled(true)
	if v, ok := w.AvailableFields().Get("onpay_secureenabled"); !ok || v != "force" {
		t.Fatalf("expected force, got %q %v", v, ok)
	}
	w.SetSecureEnabled(false)
	if w.HasSecureEnabled() || w.SecureMode() != SecureNotForced {
		t.Fatalf("false must clear a previous true")
	}
	if _, ok := w.AvailableFields().Get("onpay_secureenabled"); ok {
		t.Fatalf("secureenabled must not be sent when not forced")
	}
	w.ClearSecureEnabled()
	if w.SecureMode() != SecureUnset {
		t.Fatalf("expected unset after clear")
	}
}

func TestIsValid(t *testing.T) {
	setters := map[string]func(w *PaymentWindow){
		"gatewayId": func(w *PaymentWindow) { w.SetGatewayId("1") },
		"currency":  func(w *PaymentWindow) { w.SetCurrency("DKK") },
		"amount":    func(w *PaymentWindow) { w.SetAmount("1000") },
		"reference": func(w *PaymentWindow) { w.SetReference("order1") },
		"acceptUrl": func(w *PaymentWindow) { w.SetAcceptUrl("https://x/ok") },
	}
	for skip := range setters {
		t.Run("without "+skip, func(t *testing.T) {
			w := NewPaymentWindow()
			w.SetSecret(testSecret)
			w.SetMethod(MethodCard)
			w.SetTestMode(true)
			for name, set := range setters {
				if name != skip {
					set(w)
				}
			}
			if w.IsValid() {
				t.Fatalf("expected invalid without %s", skip)
			}
			missing := w.MissingFields()
			if len(missing) != 1 || missing[0] != skip {
				t.Fatalf("unexpected missing fields: %v", missing)
			}
			if _, err := w.FormFields(); !errors.Is(err, ErrNotReady) {
				t.Fatalf("expected ErrNotReady, got %v", err)
			}
			if _, err := w.UncheckedFormFields(); err != nil {
				t.Fatalf("unchecked signing failed: %v", err)
			}
		})
	}

	w := NewPaymentWindow()
	for _, set := range setters {
		set(w)
	}
	if !w.IsValid() {
		t.Fatalf("expected valid with all required fields")
	}
}

func TestValidatePayment_RoundTrip(t *testing.T) {
	w := newScenarioWindow()
	w.SetDeclineUrl("https://x/declined?a=1")
	w.SetSecureEnabled(true)
	fields, err := w.FormFields()
	if err != nil {
		t.Fatalf("FormFields err: %v", err)
	}

	// as decoded from the posted form
	decoded, err := url.ParseQuery(fields.Values().Encode())
	if err != nil {
		t.Fatalf("parse form: %v", err)
	}
	decoded.Set("foo", "bar")

	verifier := NewPaymentWindow()
	verifier.SetSecret(testSecret)
	if !verifier.ValidateValues(decoded) {
		t.Fatalf("expected round trip to validate")
	}
	if !verifier.ValidatePayment(fields.Map()) {
		t.Fatalf("expected map round trip to validate")
	}

	verifier.SetSecret("other")
	if verifier.ValidatePayment(fields.Map()) {
		t.Fatalf("expected failure with a different secret")
	}
}

func TestValidatePayment_Tampered(t *testing.T) {
	w := newScenarioWindow()
	fields, err := w.FormFields()
	if err != nil {
		t.Fatalf("FormFields err: %v", err)
	}
	for _, key := range fields.Keys() {
		if key == SignatureField {
			continue
		}
		received := fields.Map()
		received[key] = received[key] + "0"
		if w.ValidatePayment(received) {
			t.Fatalf("tampered %s validated", key)
		}
	}

	received := fields.Map()
	received["onpay_extra"] = "1"
	if w.ValidatePayment(received) {
		t.Fatalf("added onpay field validated")
	}
}

func TestValidatePayment_MissingSignature(t *testing.T) {
	w := newScenarioWindow()
	if w.ValidatePayment(map[string]string{}) {
		t.Fatalf("empty input validated")
	}
	if w.ValidatePayment(nil) {
		t.Fatalf("nil input validated")
	}
	fields := w.AvailableFields().Map()
	if w.ValidatePayment(fields) {
		t.Fatalf("input without signature validated")
	}
	fields[SignatureField] = "not-hex"
	if w.ValidatePayment(fields) {
		t.Fatalf("garbled signature validated")
	}
}

func TestValidatePayment_NoSecret(t *testing.T) {
	w := newScenarioWindow()
	fields, _ := w.FormFields()
	w.SetSecret("")
	if w.ValidatePayment(fields.Map()) {
		t.Fatalf("validated without a secret")
	}
}

func TestValidatePayment_ExactMode(t *testing.T) {
	received := newScenarioWindow().AvailableFields().Map()
	received[SignatureField] = "dd231d47a87c71a78dd4c2d229bff2fdf7cbc84c"

	w := NewPaymentWindow()
	w.SetSecret(testSecret)
	if w.ValidatePayment(received) {
		t.Fatalf("lowercase mode accepted an exact-case signature")
	}
	w.SetVerifyMode(VerifyExact)
	if !w.ValidatePayment(received) {
		t.Fatalf("exact mode rejected a matching signature")
	}
}

func TestActionURL(t *testing.T) {
	w := NewPaymentWindow()
	if w.ActionURL() != DefaultActionURL {
		t.Fatalf("unexpected default action url %s", w.ActionURL())
	}
	w.SetActionURL("https://sandbox.example/window/v3/")
	if w.ActionURL() != "https://sandbox.example/window/v3/" {
		t.Fatalf("override ignored")
	}
	w.SetActionURL("")
	if w.ActionURL() != DefaultActionURL {
		t.Fatalf("empty override must restore the default")
	}
	var zero PaymentWindow
	if zero.ActionURL() != DefaultActionURL {
		t.Fatalf("zero value must use the default")
	}
}

func TestEncryptor_KnownAnswer(t *testing.T) {
	sig, err := NewEncryptor("dongle", "hello world").CreateSignature()
	if err != nil {
		t.Fatalf("CreateSignature err: %v", err)
	}
	if sig != "91c103ef93ba7420902b0d1bf0903251c94b4a62" {
		t.Fatalf("unexpected digest %s", sig)
	}
}

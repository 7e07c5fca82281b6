package window

import (
	"crypto/hmac"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"gitee.com/golang-module/dongle"
)

var (
	ErrMissingSecret = errors.New("secret is not set")
	ErrNotReady      = errors.New("payment window is not ready to sign")
	ErrNothingToSign = errors.New("no fields to sign")
)

// Encryptor computes the hex HMAC-SHA1 of a canonical string.
type Encryptor struct {
	secret  string
	message string
}

func NewEncryptor(secret string, message string) *Encryptor {
	return &Encryptor{
		secret:  secret,
		message: message,
	}
}

func (e *Encryptor) CreateSignature() (string, error) {
	if e.secret == "" {
		return "", ErrMissingSecret
	}
	if e.message == "" {
		return "", ErrNothingToSign
	}
	encrypted := dongle.Encrypt.FromString(e.message).ByHmacSha1(e.secret)
	if encrypted.Error != nil {
		return "", fmt.Errorf("hmac sha1: %w", encrypted.Error)
	}
	return encrypted.ToHexString(), nil
}

// Verify compares signature with the digest of the message in constant time.
func (e *Encryptor) Verify(signature string) bool {
	expected, err := e.CreateSignature()
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(signature))
}

// CanonicalString is the lower-cased form encoding of the available fields, the exact input of the signature.
func (w *PaymentWindow) CanonicalString() string {
	return strings.ToLower(w.AvailableFields().Encode())
}

// Signature returns the hex HMAC-SHA1 of the available fields keyed with the secret.
// It does not require the window to be valid.
func (w *PaymentWindow) Signature() (string, error) {
	return NewEncryptor(w.secret, w.CanonicalString()).CreateSignature()
}

// FormFields returns the fields to post to ActionURL, signature included.
// A window with missing required fields is refused with ErrNotReady.
func (w *PaymentWindow) FormFields() (Fields, error) {
	if missing := w.MissingFields(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrNotReady, strings.Join(missing, ", "))
	}
	return w.UncheckedFormFields()
}

// UncheckedFormFields signs whatever fields are set, without the required fields check.
func (w *PaymentWindow) UncheckedFormFields() (Fields, error) {
	signature, err := w.Signature()
	if err != nil {
		return nil, err
	}
	fields := w.AvailableFields()
	fields = append(fields, Field{Key: SignatureField, Value: signature})
	fields.sort()
	return fields, nil
}

// ValidatePayment checks the onpay_hmac_sha1 value of callback parameters against the
// signature of the other onpay fields. A missing signature or secret fails validation.
func (w *PaymentWindow) ValidatePayment(received map[string]string) bool {
	fields := fieldsFromMap(received)

	var claimed string
	var found bool
	signed := make(Fields, 0, len(fields))
	for _, f := range fields {
		if f.Key == SignatureField {
			claimed, found = f.Value, true
			continue
		}
		signed = append(signed, f)
	}
	if !found || claimed == "" {
		return false
	}

	message := signed.Encode()
	if w.verifyMode == VerifyLowercase {
		message = strings.ToLower(message)
	}
	return NewEncryptor(w.secret, message).Verify(claimed)
}

// ValidateValues is ValidatePayment for decoded query or form values; the first value of each key is used.
func (w *PaymentWindow) ValidateValues(values url.Values) bool {
	received := make(map[string]string, len(values))
	for key := range values {
		received[key] = values.Get(key)
	}
	return w.ValidatePayment(received)
}

package internal

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"paywindow/config"
	"paywindow/entity"
	"paywindow/services"
	"paywindow/window"
	"time"
)

var (
	ErrNotConfigured    = errors.New("gateway not configured")
	ErrInvalidSignature = errors.New("invalid signature")
)

// Payments signs payment windows with the configured gateway account and verifies callbacks.
// Every call builds its own PaymentWindow, so concurrent requests share nothing but configuration.
type Payments struct {
	conf     *config.Config
	database services.Database
	logger   services.LogHandler
}

func NewPayments(conf *config.Config) *Payments {
	return &Payments{
		conf: conf,
	}
}

func (p *Payments) SetDatabase(database services.Database) {
	p.database = database
}

func (p *Payments) SetLogger(logger services.LogHandler) {
	p.logger = logger
	if p.conf.Gateway.TestMode {
		p.logger.Warn("test mode enabled")
	}
	if p.conf.Gateway.Secret == "" || p.conf.Gateway.GatewayId == "" {
		p.logger.Warn("gateway not configured")
	}
}

// NewWindow applies the order on top of the gateway defaults. The result is not checked for completeness.
func (p *Payments) NewWindow(order *entity.WindowOrder) *window.PaymentWindow {
	gw := p.conf.Gateway

	w := window.NewPaymentWindow()
	w.SetSecret(gw.Secret)
	w.SetActionURL(gw.ActionUrl)
	w.SetVerifyMode(verifyMode(gw.VerifyMode))
	if gw.GatewayId != "" {
		w.SetGatewayId(gw.GatewayId)
	}

	setString(w.SetCurrency, order.Currency, gw.Currency)
	setString(w.SetAmount, order.Amount, "")
	setString(w.SetReference, order.Reference, "")
	setString(w.SetAcceptUrl, order.AcceptUrl, gw.AcceptUrl)
	setString(w.SetDeclineUrl, order.DeclineUrl, gw.DeclineUrl)
	setString(w.SetCallbackUrl, order.CallbackUrl, gw.CallbackUrl)
	setString(w.SetLanguage, order.Language, gw.Language)
	setString(w.SetDesign, order.Design, gw.Design)
	setString(w.SetType, order.Type, "")
	setString(w.SetMethod, order.Method, "")

	switch {
	case order.Secure != nil:
		w.SetSecureEnabled(*order.Secure)
	case gw.Secure:
		w.SetSecureEnabled(true)
	}
	switch {
	case order.TestMode != nil:
		w.SetTestMode(*order.TestMode)
	case gw.TestMode:
		w.SetTestMode(true)
	}
	return w
}

// CreateWindow signs the order and records the issued window.
func (p *Payments) CreateWindow(ctx context.Context, order *entity.WindowOrder) (*entity.WindowResponse, error) {
	if p.conf.Gateway.Secret == "" || p.conf.Gateway.GatewayId == "" {
		return nil, ErrNotConfigured
	}

	w := p.NewWindow(order)
	fields, err := w.FormFields()
	if err != nil {
		return nil, err
	}
	signature, _ := fields.Get(window.SignatureField)

	reqID := GetRequestID(ctx)
	p.logger.Info(fmt.Sprintf("[%s] window signed: reference %s; amount %s %s", reqID, order.Reference, order.Amount, currencyOf(w)))
	p.logger.Debug(fmt.Sprintf("[%s] canonical string: %s", reqID, w.CanonicalString()))

	if p.database != nil {
		testMode, _ := w.TestMode()
		gatewayId, _ := w.GatewayId()
		amount, _ := w.Amount()
		record := &entity.WindowRecord{
			Reference: order.Reference,
			GatewayId: gatewayId,
			Amount:    amount,
			Currency:  currencyOf(w),
			Signature: signature,
			TestMode:  testMode,
			RequestId: reqID,
			Time:      time.Now(),
		}
		if err = p.database.SaveWindow(ctx, record); err != nil {
			p.logger.Error(fmt.Sprintf("[%s] save window %s", reqID, order.Reference), err)
		}
	}

	return &entity.WindowResponse{
		ActionUrl: w.ActionURL(),
		Fields:    fields.Map(),
		Signature: signature,
	}, nil
}

// Callback verifies the onpay parameters of an accept, decline or callback request.
// The record is returned with ErrInvalidSignature when verification fails.
func (p *Payments) Callback(ctx context.Context, values url.Values, remoteAddr string) (*entity.CallbackRecord, error) {
	if p.conf.Gateway.Secret == "" {
		return nil, ErrNotConfigured
	}

	w := window.NewPaymentWindow()
	w.SetSecret(p.conf.Gateway.Secret)
	w.SetVerifyMode(verifyMode(p.conf.Gateway.VerifyMode))

	received := make(map[string]string, len(values))
	for key := range values {
		received[key] = values.Get(key)
	}

	reqID := GetRequestID(ctx)
	record := &entity.CallbackRecord{
		CallbackParameters: entity.NewCallbackParameters(received),
		IsValid:            w.ValidatePayment(received),
		Fields:             received,
		RemoteAddr:         remoteAddr,
		RequestId:          reqID,
		Time:               time.Now(),
	}

	if p.database != nil {
		if err := p.database.SaveCallback(ctx, record); err != nil {
			p.logger.Error(fmt.Sprintf("[%s] save callback %s", reqID, record.Reference), err)
		}
	}

	if !record.IsValid {
		p.logger.Warn(fmt.Sprintf("[%s] callback signature mismatch: reference %s; from %s", reqID, record.Reference, remoteAddr))
		return record, ErrInvalidSignature
	}
	p.checkIssuedWindow(ctx, record)
	if record.IsDeclined() {
		p.logger.Warn(fmt.Sprintf("[%s] payment declined: reference %s; code %s", reqID, record.Reference, record.ErrorCode))
	} else {
		p.logger.Info(fmt.Sprintf("[%s] payment accepted: reference %s; amount %s %s; card %s", reqID, record.Reference, record.Amount, record.Currency, secret(record.CardMask)))
	}
	return record, nil
}

// checkIssuedWindow warns when a verified callback does not match the window signed for its reference.
func (p *Payments) checkIssuedWindow(ctx context.Context, record *entity.CallbackRecord) {
	if p.database == nil || record.Reference == "" {
		return
	}
	issued, err := p.database.GetWindow(ctx, record.Reference)
	if err != nil || issued == nil {
		p.logger.Warn(fmt.Sprintf("[%s] no window issued for reference %s", record.RequestId, record.Reference))
		return
	}
	if issued.Amount != record.Amount || issued.Currency != record.Currency {
		p.logger.Warn(fmt.Sprintf("[%s] reference %s: issued %s %s, received %s %s", record.RequestId, record.Reference, issued.Amount, issued.Currency, record.Amount, record.Currency))
	}
}

func setString(set func(string), value, fallback string) {
	if value == "" {
		value = fallback
	}
	if value != "" {
		set(value)
	}
}

func currencyOf(w *window.PaymentWindow) string {
	currency, _ := w.Currency()
	return currency
}

func verifyMode(mode string) window.VerifyMode {
	if mode == "exact" {
		return window.VerifyExact
	}
	return window.VerifyLowercase
}

func secret(some string) string {
	if len(some) > 5 {
		return fmt.Sprintf("%s***", some[0:5])
	}
	if some == "" {
		return "?"
	}
	return "***"
}

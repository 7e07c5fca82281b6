// Package entity defines data models for the payment window service.
package entity

import "time"

// WindowRecord is stored for every payment window the service signs.
type WindowRecord struct {
	Reference string    `json:"reference" bson:"reference"`
	GatewayId string    `json:"gateway_id" bson:"gateway_id"`
	Amount    string    `json:"amount" bson:"amount"`
	Currency  string    `json:"currency" bson:"currency"`
	Signature string    `json:"signature" bson:"signature"`
	TestMode  bool      `json:"test_mode" bson:"test_mode"`
	RequestId string    `json:"request_id" bson:"request_id"`
	Time      time.Time `json:"time" bson:"time"`
}

func (w *WindowRecord) DataType() string {
	return "window"
}

// CallbackRecord is stored for every received callback, valid or not.
type CallbackRecord struct {
	CallbackParameters `bson:",inline"`
	IsValid            bool              `json:"is_valid" bson:"is_valid"`
	Fields             map[string]string `json:"fields" bson:"fields"`
	RemoteAddr         string            `json:"remote_addr" bson:"remote_addr"`
	RequestId          string            `json:"request_id" bson:"request_id"`
	Time               time.Time         `json:"time" bson:"time"`
}

func (c *CallbackRecord) DataType() string {
	return "callback"
}

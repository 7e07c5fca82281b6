package entity

// CallbackParameters is the typed view of the onpay_ parameters sent back on accept, decline and callback.
type CallbackParameters struct {
	// UUID of the transaction on the gateway
	Uuid string `json:"onpay_uuid" bson:"uuid"`
	// Number is the gateway transaction number
	Number    string `json:"onpay_number" bson:"number"`
	Reference string `json:"onpay_reference" bson:"reference"`
	// Amount in minor units
	Amount   string `json:"onpay_amount" bson:"amount"`
	Currency string `json:"onpay_currency" bson:"currency"`
	Method   string `json:"onpay_method" bson:"method"`
	// CardMask: masked card number, empty for wallets
	CardMask string `json:"onpay_cardmask" bson:"card_mask"`
	Acquirer string `json:"onpay_acquirer" bson:"acquirer"`
	// ErrorCode is set on declined payments
	ErrorCode string `json:"onpay_errorcode" bson:"error_code"`
	Secure    string `json:"onpay_3dsecure" bson:"secure"`
}

// NewCallbackParameters reads the known keys of the received parameters; others are ignored.
func NewCallbackParameters(received map[string]string) CallbackParameters {
	return CallbackParameters{
		Uuid:      received["onpay_uuid"],
		Number:    received["onpay_number"],
		Reference: received["onpay_reference"],
		Amount:    received["onpay_amount"],
		Currency:  received["onpay_currency"],
		Method:    received["onpay_method"],
		CardMask:  received["onpay_cardmask"],
		Acquirer:  received["onpay_acquirer"],
		ErrorCode: received["onpay_errorcode"],
		Secure:    received["onpay_3dsecure"],
	}
}

// IsDeclined reports a callback that carries a gateway error code.
func (c CallbackParameters) IsDeclined() bool {
	return c.ErrorCode != "" && c.ErrorCode != "0"
}

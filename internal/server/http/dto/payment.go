package dto

// InitiateRequest is the storefront's payment initiation payload.
type InitiateRequest struct {
	Phone   string `json:"phone" binding:"required"`
	Amount  int64  `json:"amount" binding:"required"`
	OrderID string `json:"orderId" binding:"required"`
}

// InitiateResponse reports the outcome of a push request.
type InitiateResponse struct {
	Success           bool   `json:"success"`
	Demo              bool   `json:"demo,omitempty"`
	Message           string `json:"message,omitempty"`
	CheckoutRequestID string `json:"checkoutRequestId,omitempty"`
}

// CallbackEnvelope mirrors the gateway's native callback wire format.
type CallbackEnvelope struct {
	Body struct {
		StkCallback StkCallback `json:"stkCallback"`
	} `json:"Body"`
}

// StkCallback is the confirmation of a previously initiated push.
type StkCallback struct {
	MerchantRequestID string           `json:"MerchantRequestID"`
	CheckoutRequestID string           `json:"CheckoutRequestID"`
	ResultCode        int              `json:"ResultCode"`
	ResultDesc        string           `json:"ResultDesc"`
	CallbackMetadata  CallbackMetadata `json:"CallbackMetadata"`
}

// CallbackMetadata carries opaque confirmation details on success.
type CallbackMetadata struct {
	Item []MetadataItem `json:"Item"`
}

// MetadataItem is a single name/value pair; values may be strings or numbers.
type MetadataItem struct {
	Name  string `json:"Name"`
	Value any    `json:"Value"`
}

// CallbackAck is returned to the gateway regardless of reconciliation outcome.
type CallbackAck struct {
	ResultCode int    `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}

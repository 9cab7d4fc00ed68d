package model

// ConfirmationResultOK is the gateway result code signalling a successful payment.
const ConfirmationResultOK = 0

// PaymentConfirmation is the outcome of a previously initiated push,
// delivered out of band by the gateway callback or synthesized in demo mode.
type PaymentConfirmation struct {
	CorrelationToken string
	ResultCode       int
	ResultDesc       string
	ReceiptNumber    string
	Amount           int64
	Phone            string
	TransactionDate  string
}

// Successful reports whether the confirmation carries a successful result.
func (c PaymentConfirmation) Successful() bool {
	return c.ResultCode == ConfirmationResultOK
}

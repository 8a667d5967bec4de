package models

import (
	"github.com/shopspring/decimal"
)

// TokenFormKey is the checkout form field carrying the SecureSubmit single-use token
const TokenFormKey = "token_value"

// PaymentStatus represents the payment state reported back to the host order workflow
type PaymentStatus string

const (
	StatusAuthorized        PaymentStatus = "authorized"
	StatusCaptured          PaymentStatus = "captured"
	StatusRefunded          PaymentStatus = "refunded"
	StatusPartiallyRefunded PaymentStatus = "partially_refunded"
	StatusVoided            PaymentStatus = "voided"
	StatusFailed            PaymentStatus = "failed"
)

// BillingAddress is the customer's billing address as known by the host
type BillingAddress struct {
	Line1       string `json:"line1"`
	City        string `json:"city"`
	StateCode   string `json:"state_code"`   // State/province abbreviation
	PostalCode  string `json:"postal_code"`  // May contain a "-" (ZIP+4)
	CountryCode string `json:"country_code"` // ISO 3166 alpha-3
}

// PaymentRequest carries everything needed to authorize or charge an order.
// It is built fresh for every attempt and never persisted.
type PaymentRequest struct {
	StoreScope     int               `json:"store_scope"`
	OrderTotal     decimal.Decimal   `json:"order_total"`
	CurrencyCode   string            `json:"currency_code"`
	CustomerID     string            `json:"customer_id"`
	BillingAddress BillingAddress    `json:"billing_address"`
	CustomValues   map[string]string `json:"custom_values"`
}

// CardToken returns the opaque single-use token posted by the checkout form
func (r *PaymentRequest) CardToken() string {
	if r.CustomValues == nil {
		return ""
	}
	return r.CustomValues[TokenFormKey]
}

// CaptureRequest captures a previous authorization for the order total
type CaptureRequest struct {
	StoreScope                 int             `json:"store_scope"`
	AuthorizationTransactionID string          `json:"authorization_transaction_id"`
	OrderTotal                 decimal.Decimal `json:"order_total"`
}

// RefundRequest returns funds from a captured transaction
type RefundRequest struct {
	StoreScope           int             `json:"store_scope"`
	CaptureTransactionID string          `json:"capture_transaction_id"`
	OrderTotal           decimal.Decimal `json:"order_total"`
	AmountToRefund       decimal.Decimal `json:"amount_to_refund"`
	PreviouslyRefunded   decimal.Decimal `json:"previously_refunded"`
	CurrencyCode         string          `json:"currency_code"`
}

// RefundedTotal is the amount refunded on the order once this refund succeeds
func (r *RefundRequest) RefundedTotal() decimal.Decimal {
	return r.AmountToRefund.Add(r.PreviouslyRefunded)
}

// ExceedsOrderTotal reports whether this refund would push the refunded total past the order total
func (r *RefundRequest) ExceedsOrderTotal() bool {
	return r.RefundedTotal().GreaterThan(r.OrderTotal)
}

// RefundedStatus is Refunded only when the refunded total equals the order total exactly
func (r *RefundRequest) RefundedStatus() PaymentStatus {
	if r.RefundedTotal().Equal(r.OrderTotal) {
		return StatusRefunded
	}
	return StatusPartiallyRefunded
}

// VoidRequest cancels an order's authorization or capture
type VoidRequest struct {
	StoreScope                 int    `json:"store_scope"`
	AuthorizationTransactionID string `json:"authorization_transaction_id"`
	CaptureTransactionID       string `json:"capture_transaction_id"`
}

// TargetTransactionID returns the capture id when present, otherwise the authorization id.
// A captured order can no longer be voided by its stale authorization id.
func (r *VoidRequest) TargetTransactionID() string {
	if r.CaptureTransactionID != "" {
		return r.CaptureTransactionID
	}
	return r.AuthorizationTransactionID
}

// PaymentOutcome is the result of any payment operation. Failures are encoded
// in the value (Status=Failed plus ErrorMessages) rather than returned as errors.
type PaymentOutcome struct {
	Status               PaymentStatus `json:"status"`
	GatewayTransactionID string        `json:"gateway_transaction_id,omitempty"`
	GatewayAuthCode      string        `json:"gateway_auth_code,omitempty"`
	ResultText           string        `json:"result_text,omitempty"`
	ErrorMessages        []string      `json:"error_messages,omitempty"`
}

// FailedOutcome builds a Failed outcome carrying the given messages
func FailedOutcome(messages ...string) *PaymentOutcome {
	o := &PaymentOutcome{Status: StatusFailed}
	for _, m := range messages {
		o.AddError(m)
	}
	return o
}

// AddError appends a message and marks the outcome as failed
func (o *PaymentOutcome) AddError(msg string) {
	if msg == "" {
		msg = "payment gateway error"
	}
	o.ErrorMessages = append(o.ErrorMessages, msg)
	o.Status = StatusFailed
}

// Success returns true when the operation completed without errors
func (o *PaymentOutcome) Success() bool {
	return o.Status != StatusFailed && len(o.ErrorMessages) == 0
}

package ports

import (
	"context"

	"github.com/kevin07696/securesubmit-plugin/internal/domain/models"
	"github.com/shopspring/decimal"
)

// CardHolder is the billing identity sent with authorizations and sales
type CardHolder struct {
	Address string
	City    string
	State   string
	Zip     string // Digits only, "-" removed
	Country string
}

// GatewayAuthorization is the gateway's answer to an authorize, sale or capture call
type GatewayAuthorization struct {
	TransactionID string
	AuthCode      string
	ResponseCode  string
	ResponseText  string
}

// CreditGateway defines the SecureSubmit credit operations consumed by the payment adapter.
// Every method may fail with an error carrying a human-readable gateway message.
type CreditGateway interface {
	// Authorize reserves funds without capturing them
	Authorize(ctx context.Context, amount decimal.Decimal, currency, token string, holder CardHolder) (*GatewayAuthorization, error)

	// Charge authorizes and captures in a single call (sale)
	Charge(ctx context.Context, amount decimal.Decimal, currency, token string, holder CardHolder) (*GatewayAuthorization, error)

	// Capture settles a previous authorization
	Capture(ctx context.Context, transactionID string, amount decimal.Decimal) (*GatewayAuthorization, error)

	// Refund returns funds from a captured transaction
	Refund(ctx context.Context, amount decimal.Decimal, currency, transactionID string) error

	// Void cancels an authorization or an unsettled capture
	Void(ctx context.Context, transactionID string) error
}

// CreditGatewayFactory opens a gateway client for one operation using the resolved credentials
type CreditGatewayFactory interface {
	NewCreditGateway(settings models.Settings) (CreditGateway, error)
}

// CreditGatewayFactoryFunc adapts a function to CreditGatewayFactory
type CreditGatewayFactoryFunc func(settings models.Settings) (CreditGateway, error)

// NewCreditGateway calls f(settings)
func (f CreditGatewayFactoryFunc) NewCreditGateway(settings models.Settings) (CreditGateway, error) {
	return f(settings)
}

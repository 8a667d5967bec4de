package mocks

import (
	"context"

	"github.com/kevin07696/securesubmit-plugin/internal/domain/models"
	"github.com/kevin07696/securesubmit-plugin/internal/domain/ports"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockCreditGateway mocks ports.CreditGateway
type MockCreditGateway struct {
	mock.Mock
}

var _ ports.CreditGateway = (*MockCreditGateway)(nil)

func (m *MockCreditGateway) Authorize(ctx context.Context, amount decimal.Decimal, currency, token string, holder ports.CardHolder) (*ports.GatewayAuthorization, error) {
	args := m.Called(ctx, amount, currency, token, holder)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.GatewayAuthorization), args.Error(1)
}

func (m *MockCreditGateway) Charge(ctx context.Context, amount decimal.Decimal, currency, token string, holder ports.CardHolder) (*ports.GatewayAuthorization, error) {
	args := m.Called(ctx, amount, currency, token, holder)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.GatewayAuthorization), args.Error(1)
}

func (m *MockCreditGateway) Capture(ctx context.Context, transactionID string, amount decimal.Decimal) (*ports.GatewayAuthorization, error) {
	args := m.Called(ctx, transactionID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.GatewayAuthorization), args.Error(1)
}

func (m *MockCreditGateway) Refund(ctx context.Context, amount decimal.Decimal, currency, transactionID string) error {
	args := m.Called(ctx, amount, currency, transactionID)
	return args.Error(0)
}

func (m *MockCreditGateway) Void(ctx context.Context, transactionID string) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

// MockCreditGatewayFactory mocks ports.CreditGatewayFactory
type MockCreditGatewayFactory struct {
	mock.Mock
}

var _ ports.CreditGatewayFactory = (*MockCreditGatewayFactory)(nil)

func (m *MockCreditGatewayFactory) NewCreditGateway(settings models.Settings) (ports.CreditGateway, error) {
	args := m.Called(settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ports.CreditGateway), args.Error(1)
}

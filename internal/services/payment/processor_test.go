package payment_test

import (
	"context"
	"errors"
	"testing"

	"github.com/kevin07696/securesubmit-plugin/internal/adapters/memory"
	"github.com/kevin07696/securesubmit-plugin/internal/domain"
	"github.com/kevin07696/securesubmit-plugin/internal/domain/models"
	"github.com/kevin07696/securesubmit-plugin/internal/domain/ports"
	"github.com/kevin07696/securesubmit-plugin/internal/services/payment"
	"github.com/kevin07696/securesubmit-plugin/test/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type processorFixture struct {
	processor *payment.Processor
	settings  *mocks.MockSettingsStore
	locales   *mocks.MockLocaleResourceStore
	gateway   *mocks.MockCreditGateway
	factory   *mocks.MockCreditGatewayFactory
}

func setupProcessor(t *testing.T) *processorFixture {
	t.Helper()
	f := &processorFixture{
		settings: new(mocks.MockSettingsStore),
		locales:  new(mocks.MockLocaleResourceStore),
		gateway:  new(mocks.MockCreditGateway),
		factory:  new(mocks.MockCreditGatewayFactory),
	}
	f.factory.On("NewCreditGateway", mock.Anything).Return(f.gateway, nil).Maybe()

	logger := mocks.NewMockLogger()
	f.processor = payment.NewProcessor(f.settings, f.locales, payment.NewAdapter(f.factory, logger), logger)
	return f
}

func TestProcessor_ProcessPayment_DispatchesOnTransactMode(t *testing.T) {
	ctx := context.Background()
	req := testPaymentRequest()
	req.StoreScope = 2

	t.Run("authorize", func(t *testing.T) {
		f := setupProcessor(t)
		f.settings.On("Load", ctx, 2).Return(testSettings(models.TransactModeAuthorize), nil)
		f.gateway.On("Authorize", ctx, mock.Anything, "USD", "tok_abc", mock.Anything).
			Return(&ports.GatewayAuthorization{TransactionID: "555", AuthCode: "OK1234"}, nil)

		outcome := f.processor.ProcessPayment(ctx, req)

		assert.Equal(t, models.StatusAuthorized, outcome.Status)
		assert.Equal(t, "555", outcome.GatewayTransactionID)
		f.gateway.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("charge", func(t *testing.T) {
		f := setupProcessor(t)
		f.settings.On("Load", ctx, 2).Return(testSettings(models.TransactModeCharge), nil)
		f.gateway.On("Charge", ctx, decimal.RequireFromString("100.00"), "USD", "tok_abc", mock.Anything).
			Return(&ports.GatewayAuthorization{TransactionID: "555"}, nil)

		outcome := f.processor.ProcessPayment(ctx, req)

		assert.Equal(t, models.StatusCaptured, outcome.Status)
		assert.Equal(t, "555", outcome.GatewayTransactionID)
		f.gateway.AssertNotCalled(t, "Authorize", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProcessor_ProcessPayment_ReadsSettingsEveryCall(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSettingsStore()
	require.NoError(t, store.SaveValues(ctx, testSettings(models.TransactModeAuthorize).Values(), ports.GlobalScope))

	gateway := new(mocks.MockCreditGateway)
	factory := new(mocks.MockCreditGatewayFactory)
	factory.On("NewCreditGateway", mock.Anything).Return(gateway, nil)
	gateway.On("Authorize", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&ports.GatewayAuthorization{TransactionID: "1"}, nil)
	gateway.On("Charge", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&ports.GatewayAuthorization{TransactionID: "2"}, nil)

	logger := mocks.NewMockLogger()
	processor := payment.NewProcessor(store, memory.NewLocaleResourceStore(), payment.NewAdapter(factory, logger), logger)

	first := processor.ProcessPayment(ctx, testPaymentRequest())
	assert.Equal(t, models.StatusAuthorized, first.Status)

	require.NoError(t, store.Save(ctx, models.SettingTransactMode, "2", ports.GlobalScope))

	second := processor.ProcessPayment(ctx, testPaymentRequest())
	assert.Equal(t, models.StatusCaptured, second.Status)
	gateway.AssertNumberOfCalls(t, "Authorize", 1)
	gateway.AssertNumberOfCalls(t, "Charge", 1)
}

func TestProcessor_ProcessPayment_InvalidTransactMode(t *testing.T) {
	f := setupProcessor(t)
	ctx := context.Background()
	f.settings.On("Load", ctx, 0).Return(models.Settings{TransactMode: 7}, nil)

	outcome := f.processor.ProcessPayment(ctx, testPaymentRequest())

	assert.Equal(t, models.StatusFailed, outcome.Status)
	assert.Equal(t, []string{"invalid transaction mode"}, outcome.ErrorMessages)
	f.factory.AssertNotCalled(t, "NewCreditGateway", mock.Anything)
}

func TestProcessor_SettingsFailureFailsEveryOperation(t *testing.T) {
	f := setupProcessor(t)
	ctx := context.Background()
	f.settings.On("Load", ctx, mock.Anything).Return(models.Settings{}, errors.New("connection refused"))

	outcomes := []*models.PaymentOutcome{
		f.processor.ProcessPayment(ctx, testPaymentRequest()),
		f.processor.Capture(ctx, &models.CaptureRequest{AuthorizationTransactionID: "1", OrderTotal: decimal.NewFromInt(1)}),
		f.processor.Refund(ctx, &models.RefundRequest{CaptureTransactionID: "1", OrderTotal: decimal.NewFromInt(1), AmountToRefund: decimal.NewFromInt(1)}),
		f.processor.Void(ctx, &models.VoidRequest{AuthorizationTransactionID: "1"}),
	}

	for _, outcome := range outcomes {
		assert.Equal(t, models.StatusFailed, outcome.Status)
		assert.Equal(t, []string{domain.ErrSettingsUnavailable.Message}, outcome.ErrorMessages)
	}
	f.factory.AssertNotCalled(t, "NewCreditGateway", mock.Anything)
}

func TestProcessor_CaptureRefundVoid_UseRequestScope(t *testing.T) {
	f := setupProcessor(t)
	ctx := context.Background()
	f.settings.On("Load", ctx, 3).Return(testSettings(models.TransactModeAuthorize), nil)
	f.gateway.On("Capture", ctx, "555", mock.Anything).Return(&ports.GatewayAuthorization{TransactionID: "555"}, nil)
	f.gateway.On("Refund", ctx, mock.Anything, "USD", "555").Return(nil)
	f.gateway.On("Void", ctx, "555").Return(nil)

	capture := f.processor.Capture(ctx, &models.CaptureRequest{StoreScope: 3, AuthorizationTransactionID: "555", OrderTotal: decimal.NewFromInt(100)})
	refund := f.processor.Refund(ctx, &models.RefundRequest{
		StoreScope:           3,
		CaptureTransactionID: "555",
		OrderTotal:           decimal.NewFromInt(100),
		AmountToRefund:       decimal.NewFromInt(40),
		CurrencyCode:         "USD",
	})
	void := f.processor.Void(ctx, &models.VoidRequest{StoreScope: 3, CaptureTransactionID: "555"})

	assert.Equal(t, models.StatusCaptured, capture.Status)
	assert.Equal(t, models.StatusPartiallyRefunded, refund.Status)
	assert.Equal(t, models.StatusVoided, void.Status)
	f.settings.AssertNumberOfCalls(t, "Load", 3)
}

func TestProcessor_RecurringOperationsAreNotImplemented(t *testing.T) {
	f := setupProcessor(t)
	ctx := context.Background()

	outcome, err := f.processor.ProcessRecurringPayment(ctx, testPaymentRequest())
	assert.Nil(t, outcome)
	assert.ErrorIs(t, err, domain.ErrNotImplemented)

	err = f.processor.CancelRecurringPayment(ctx, &models.Order{ID: "1"})
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}

func TestProcessor_CanRePostProcessPayment(t *testing.T) {
	f := setupProcessor(t)

	_, err := f.processor.CanRePostProcessPayment(nil)
	assert.ErrorIs(t, err, payment.ErrOrderRequired)

	ok, err := f.processor.CanRePostProcessPayment(&models.Order{ID: "1"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProcessor_Capabilities(t *testing.T) {
	f := setupProcessor(t)
	p := f.processor

	assert.True(t, p.SupportCapture())
	assert.True(t, p.SupportPartiallyRefund())
	assert.True(t, p.SupportRefund())
	assert.True(t, p.SupportVoid())
	assert.False(t, p.SkipPaymentInfo())
	assert.False(t, p.HidePaymentMethod([]models.CartItem{{ProductID: "1", Quantity: 2}}))
	assert.Equal(t, payment.RecurringPaymentManual, p.RecurringPaymentType())
	assert.Equal(t, payment.PaymentMethodStandard, p.PaymentMethodType())
}

func TestProcessor_AdditionalHandlingFee(t *testing.T) {
	f := setupProcessor(t)
	ctx := context.Background()
	f.settings.On("Load", ctx, 1).Return(models.Settings{
		AdditionalFee:           decimal.RequireFromString("2.5"),
		AdditionalFeePercentage: true,
	}, nil)
	f.settings.On("Load", ctx, 9).Return(models.Settings{}, errors.New("down"))

	fee, err := f.processor.AdditionalHandlingFee(ctx, 1, decimal.RequireFromString("80.00"))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(2).Equal(fee), "got %s", fee)

	_, err = f.processor.AdditionalHandlingFee(ctx, 9, decimal.NewFromInt(10))
	assert.ErrorIs(t, err, domain.ErrSettingsUnavailable)
}

func TestProcessor_InstallAndUninstall(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSettingsStore()
	locales := memory.NewLocaleResourceStore()
	logger := mocks.NewMockLogger()
	processor := payment.NewProcessor(store, locales, payment.NewAdapter(new(mocks.MockCreditGatewayFactory), logger), logger)

	require.NoError(t, processor.Install(ctx))

	settings, err := store.Load(ctx, ports.GlobalScope)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings().TransactMode, settings.TransactMode)
	assert.Equal(t, "123", settings.PublicAPIKey)
	assert.Equal(t, "456", settings.SecretAPIKey)
	assert.Equal(t, len(payment.LocaleResources), locales.Len())

	value, ok, err := locales.Get(ctx, "Plugins.Payments.SecureSubmit.Fields.SecretApiKey")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Secret API Key", value)

	require.NoError(t, processor.Uninstall(ctx))

	for _, key := range models.SettingKeys {
		exists, err := store.Exists(ctx, key, ports.GlobalScope)
		require.NoError(t, err)
		assert.False(t, exists, key)
	}
	assert.Zero(t, locales.Len())
}

func TestProcessor_Install_SettingsStoreFailure(t *testing.T) {
	f := setupProcessor(t)
	ctx := context.Background()
	f.settings.On("Save", ctx, mock.Anything, mock.Anything, ports.GlobalScope).Return(errors.New("read-only"))

	err := f.processor.Install(ctx)

	assert.Error(t, err)
	f.locales.AssertNotCalled(t, "AddOrUpdate", mock.Anything, mock.Anything, mock.Anything)
}

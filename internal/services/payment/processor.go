package payment

import (
	"context"
	"errors"

	"github.com/kevin07696/securesubmit-plugin/internal/domain"
	"github.com/kevin07696/securesubmit-plugin/internal/domain/models"
	"github.com/kevin07696/securesubmit-plugin/internal/domain/ports"
	"github.com/kevin07696/securesubmit-plugin/pkg/observability"
	"github.com/shopspring/decimal"
)

// RecurringPaymentType describes how the host handles recurring orders for this method
type RecurringPaymentType string

// PaymentMethodType describes how the host presents the payment method at checkout
type PaymentMethodType string

const (
	RecurringPaymentManual RecurringPaymentType = "manual"
	PaymentMethodStandard  PaymentMethodType    = "standard"
)

// ErrOrderRequired is returned when a host callback is invoked without an order
var ErrOrderRequired = errors.New("order is required")

// Processor is the payment method the host platform talks to. It reads settings
// fresh for every operation and delegates gateway work to the Adapter.
type Processor struct {
	settings ports.SettingsStore
	locales  ports.LocaleResourceStore
	adapter  *Adapter
	logger   ports.Logger
}

// NewProcessor creates a new payment processor
func NewProcessor(
	settings ports.SettingsStore,
	locales ports.LocaleResourceStore,
	adapter *Adapter,
	logger ports.Logger,
) *Processor {
	return &Processor{
		settings: settings,
		locales:  locales,
		adapter:  adapter,
		logger:   logger,
	}
}

// ProcessPayment authorizes or charges the order depending on the configured transaction mode
func (p *Processor) ProcessPayment(ctx context.Context, req *models.PaymentRequest) *models.PaymentOutcome {
	settings, ok := p.loadSettings(ctx, req.StoreScope)
	if !ok {
		return models.FailedOutcome(domain.ErrSettingsUnavailable.Message)
	}

	switch settings.TransactMode {
	case models.TransactModeAuthorize:
		return p.adapter.Authorize(ctx, settings, req)
	case models.TransactModeCharge:
		return p.adapter.Charge(ctx, settings, req)
	default:
		p.logger.Error("unsupported transaction mode",
			ports.Int("store_scope", req.StoreScope),
			ports.Int("transact_mode", int(settings.TransactMode)))
		return models.FailedOutcome(domain.ErrInvalidTransactMode.Message)
	}
}

// PostProcessPayment runs after the order is placed. Nothing to do for a direct card method.
func (p *Processor) PostProcessPayment(ctx context.Context, order *models.Order) {}

// Capture settles an authorized order
func (p *Processor) Capture(ctx context.Context, req *models.CaptureRequest) *models.PaymentOutcome {
	settings, ok := p.loadSettings(ctx, req.StoreScope)
	if !ok {
		return models.FailedOutcome(domain.ErrSettingsUnavailable.Message)
	}
	return p.adapter.Capture(ctx, settings, req)
}

// Refund returns all or part of a captured order
func (p *Processor) Refund(ctx context.Context, req *models.RefundRequest) *models.PaymentOutcome {
	settings, ok := p.loadSettings(ctx, req.StoreScope)
	if !ok {
		return models.FailedOutcome(domain.ErrSettingsUnavailable.Message)
	}
	return p.adapter.Refund(ctx, settings, req)
}

// Void cancels an order's capture or authorization
func (p *Processor) Void(ctx context.Context, req *models.VoidRequest) *models.PaymentOutcome {
	settings, ok := p.loadSettings(ctx, req.StoreScope)
	if !ok {
		return models.FailedOutcome(domain.ErrSettingsUnavailable.Message)
	}
	return p.adapter.Void(ctx, settings, req)
}

// ProcessRecurringPayment is not supported by this payment method
func (p *Processor) ProcessRecurringPayment(ctx context.Context, req *models.PaymentRequest) (*models.PaymentOutcome, error) {
	return nil, domain.ErrNotImplemented
}

// CancelRecurringPayment is not supported by this payment method
func (p *Processor) CancelRecurringPayment(ctx context.Context, order *models.Order) error {
	return domain.ErrNotImplemented
}

// CanRePostProcessPayment is always false: this is not a redirection payment method
func (p *Processor) CanRePostProcessPayment(order *models.Order) (bool, error) {
	if order == nil {
		return false, ErrOrderRequired
	}
	return false, nil
}

// HidePaymentMethod never hides the method, whatever the cart holds
func (p *Processor) HidePaymentMethod(cart []models.CartItem) bool {
	return false
}

// AdditionalHandlingFee returns the surcharge configured for the store scope
func (p *Processor) AdditionalHandlingFee(ctx context.Context, scope int, subtotal decimal.Decimal) (decimal.Decimal, error) {
	settings, err := p.settings.Load(ctx, scope)
	observability.RecordSettingsLoad(err)
	if err != nil {
		return decimal.Zero, domain.WrapError(domain.ErrorCodeSettingsUnavailable, domain.ErrSettingsUnavailable.Message, err)
	}
	return settings.AdditionalHandlingFee(subtotal), nil
}

func (p *Processor) SupportCapture() bool                       { return true }
func (p *Processor) SupportPartiallyRefund() bool               { return true }
func (p *Processor) SupportRefund() bool                        { return true }
func (p *Processor) SupportVoid() bool                          { return true }
func (p *Processor) SkipPaymentInfo() bool                      { return false }
func (p *Processor) RecurringPaymentType() RecurringPaymentType { return RecurringPaymentManual }
func (p *Processor) PaymentMethodType() PaymentMethodType       { return PaymentMethodStandard }

// Install writes the default settings at global scope and registers the admin strings
func (p *Processor) Install(ctx context.Context) error {
	if err := ports.SaveValues(ctx, p.settings, models.DefaultSettings().Values(), ports.GlobalScope); err != nil {
		return domain.WrapError(domain.ErrorCodeInternalError, "save default settings", err)
	}
	p.settings.ClearCache()

	for name, value := range LocaleResources {
		if err := p.locales.AddOrUpdate(ctx, name, value); err != nil {
			return domain.WrapError(domain.ErrorCodeInternalError, "add locale resource "+name, err)
		}
	}

	p.logger.Info("payment method installed", ports.Int("locale_resources", len(LocaleResources)))
	return nil
}

// Uninstall removes the global settings and the admin strings
func (p *Processor) Uninstall(ctx context.Context) error {
	var errs []error
	for _, key := range models.SettingKeys {
		if err := p.settings.Delete(ctx, key, ports.GlobalScope); err != nil {
			errs = append(errs, err)
		}
	}
	p.settings.ClearCache()

	for name := range LocaleResources {
		if err := p.locales.Delete(ctx, name); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return domain.WrapError(domain.ErrorCodeInternalError, "uninstall payment method", err)
	}

	p.logger.Info("payment method uninstalled")
	return nil
}

func (p *Processor) loadSettings(ctx context.Context, scope int) (models.Settings, bool) {
	settings, err := p.settings.Load(ctx, scope)
	observability.RecordSettingsLoad(err)
	if err != nil {
		p.logger.Error("failed to load payment settings",
			ports.Int("store_scope", scope),
			ports.Err(err))
		return models.Settings{}, false
	}
	return settings, true
}

package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kevin07696/securesubmit-plugin/internal/domain"
	"github.com/kevin07696/securesubmit-plugin/internal/domain/models"
	"github.com/kevin07696/securesubmit-plugin/internal/domain/ports"
	"github.com/kevin07696/securesubmit-plugin/pkg/observability"
	"github.com/shopspring/decimal"
)

// Adapter translates host payment requests into SecureSubmit gateway calls.
// It holds no per-order state: every call receives the settings snapshot and the
// prior transaction ids it needs, and every call returns an outcome instead of an error.
type Adapter struct {
	gateways ports.CreditGatewayFactory
	logger   ports.Logger
}

// NewAdapter creates a new payment operation adapter
func NewAdapter(gateways ports.CreditGatewayFactory, logger ports.Logger) *Adapter {
	return &Adapter{
		gateways: gateways,
		logger:   logger,
	}
}

// Authorize reserves the order total on the card without capturing it
func (a *Adapter) Authorize(ctx context.Context, settings models.Settings, req *models.PaymentRequest) *models.PaymentOutcome {
	return a.guard("authorize", func() (*models.PaymentOutcome, error) {
		token, err := validatePayment(req)
		if err != nil {
			return nil, err
		}

		gateway, err := a.gateways.NewCreditGateway(settings)
		if err != nil {
			return nil, err
		}

		auth, err := gateway.Authorize(ctx, req.OrderTotal, req.CurrencyCode, token, cardHolderFrom(req.BillingAddress))
		if err != nil {
			return nil, err
		}

		return &models.PaymentOutcome{
			Status:               models.StatusAuthorized,
			GatewayTransactionID: auth.TransactionID,
			GatewayAuthCode:      auth.AuthCode,
			ResultText:           auth.ResponseText,
		}, nil
	})
}

// Charge authorizes and captures the order total in one gateway call
func (a *Adapter) Charge(ctx context.Context, settings models.Settings, req *models.PaymentRequest) *models.PaymentOutcome {
	return a.guard("charge", func() (*models.PaymentOutcome, error) {
		token, err := validatePayment(req)
		if err != nil {
			return nil, err
		}

		gateway, err := a.gateways.NewCreditGateway(settings)
		if err != nil {
			return nil, err
		}

		sale, err := gateway.Charge(ctx, req.OrderTotal, req.CurrencyCode, token, cardHolderFrom(req.BillingAddress))
		if err != nil {
			return nil, err
		}

		return &models.PaymentOutcome{
			Status:               models.StatusCaptured,
			GatewayTransactionID: sale.TransactionID,
			GatewayAuthCode:      sale.AuthCode,
			ResultText:           sale.ResponseText,
		}, nil
	})
}

// Capture settles a previous authorization for the order total
func (a *Adapter) Capture(ctx context.Context, settings models.Settings, req *models.CaptureRequest) *models.PaymentOutcome {
	return a.guard("capture", func() (*models.PaymentOutcome, error) {
		if strings.TrimSpace(req.AuthorizationTransactionID) == "" {
			return nil, domain.ErrTransactionIDRequired
		}
		if err := requirePositive(req.OrderTotal); err != nil {
			return nil, err
		}

		gateway, err := a.gateways.NewCreditGateway(settings)
		if err != nil {
			return nil, err
		}

		capture, err := gateway.Capture(ctx, req.AuthorizationTransactionID, req.OrderTotal)
		if err != nil {
			return nil, err
		}

		return &models.PaymentOutcome{
			Status:               models.StatusCaptured,
			GatewayTransactionID: capture.TransactionID,
			ResultText:           capture.ResponseText,
		}, nil
	})
}

// Refund returns funds from a captured transaction. The outcome is Refunded only when
// this refund brings the refunded total exactly to the order total.
func (a *Adapter) Refund(ctx context.Context, settings models.Settings, req *models.RefundRequest) *models.PaymentOutcome {
	return a.guard("refund", func() (*models.PaymentOutcome, error) {
		if strings.TrimSpace(req.CaptureTransactionID) == "" {
			return nil, domain.ErrTransactionIDRequired
		}
		if err := requirePositive(req.AmountToRefund); err != nil {
			return nil, err
		}
		if req.ExceedsOrderTotal() {
			return nil, domain.ErrRefundExceedsBalance
		}

		gateway, err := a.gateways.NewCreditGateway(settings)
		if err != nil {
			return nil, err
		}

		if err := gateway.Refund(ctx, req.AmountToRefund, req.CurrencyCode, req.CaptureTransactionID); err != nil {
			return nil, err
		}

		return &models.PaymentOutcome{
			Status:               req.RefundedStatus(),
			GatewayTransactionID: req.CaptureTransactionID,
		}, nil
	})
}

// Void cancels the capture when one exists, otherwise the authorization
func (a *Adapter) Void(ctx context.Context, settings models.Settings, req *models.VoidRequest) *models.PaymentOutcome {
	return a.guard("void", func() (*models.PaymentOutcome, error) {
		target := strings.TrimSpace(req.TargetTransactionID())
		if target == "" {
			return nil, domain.ErrTransactionIDRequired
		}

		gateway, err := a.gateways.NewCreditGateway(settings)
		if err != nil {
			return nil, err
		}

		if err := gateway.Void(ctx, target); err != nil {
			return nil, err
		}

		return &models.PaymentOutcome{
			Status:               models.StatusVoided,
			GatewayTransactionID: target,
		}, nil
	})
}

// guard is the single failure boundary of the adapter. Declines, transport failures,
// validation errors and panics all become a Failed outcome carrying the error message.
func (a *Adapter) guard(operation string, fn func() (*models.PaymentOutcome, error)) (outcome *models.PaymentOutcome) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("payment operation panicked",
				ports.String("operation", operation),
				ports.String("panic", fmt.Sprint(r)))
			outcome = models.FailedOutcome(fmt.Sprintf("payment gateway error: %v", r))
		}
		observability.RecordOperation(operation, string(outcome.Status), time.Since(start))
	}()

	result, err := fn()
	if err != nil {
		a.logger.Warn("payment operation failed",
			ports.String("operation", operation),
			ports.Err(err))
		return models.FailedOutcome(err.Error())
	}

	a.logger.Info("payment operation completed",
		ports.String("operation", operation),
		ports.String("status", string(result.Status)),
		ports.String("gateway_transaction_id", result.GatewayTransactionID))
	return result
}

func validatePayment(req *models.PaymentRequest) (string, error) {
	token := strings.TrimSpace(req.CardToken())
	if token == "" {
		return "", domain.ErrCardTokenRequired
	}
	if err := requirePositive(req.OrderTotal); err != nil {
		return "", err
	}
	return token, nil
}

func requirePositive(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domain.ErrValidationAmountInvalid
	}
	return nil
}

func cardHolderFrom(addr models.BillingAddress) ports.CardHolder {
	return ports.CardHolder{
		Address: addr.Line1,
		City:    addr.City,
		State:   addr.StateCode,
		Zip:     strings.ReplaceAll(addr.PostalCode, "-", ""),
		Country: addr.CountryCode,
	}
}

package paymentinfo

import (
	"context"
	"net/http"
	"net/url"

	"github.com/kevin07696/securesubmit-plugin/internal/domain/models"
	"github.com/kevin07696/securesubmit-plugin/internal/handlers"
	"github.com/kevin07696/securesubmit-plugin/internal/services/settings"
	"go.uber.org/zap"
)

// Route is the checkout payment-info endpoint
const Route = "/plugins/securesubmit/payment-info"

// Service builds the checkout form model
type Service interface {
	PaymentInfo(ctx context.Context, scope int, token string) (*settings.PaymentInfoModel, error)
}

// FormResult is returned when the checkout form is posted back
type FormResult struct {
	Errors         []string               `json:"errors"`
	PaymentRequest *models.PaymentRequest `json:"payment_request"`
}

// Handler serves the payment-info form model and binds its postback
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new payment-info handler
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// ServeHTTP returns the form model on GET. On POST it validates the form and
// returns the payment request the host should place the order with.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	scope, err := handlers.StoreScope(r)
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.paymentInfo(w, r, scope, "")
	case http.MethodPost:
		r.Body = http.MaxBytesReader(w, r.Body, handlers.MaxBodyBytes)
		if err := r.ParseForm(); err != nil {
			handlers.WriteError(w, http.StatusBadRequest, "invalid form body")
			return
		}

		if r.URL.Query().Get("redisplay") == "true" {
			h.paymentInfo(w, r, scope, r.PostForm.Get(models.TokenFormKey))
			return
		}

		req := GetPaymentInfo(r.PostForm)
		req.StoreScope = scope
		handlers.WriteJSON(w, http.StatusOK, FormResult{
			Errors:         ValidatePaymentForm(r.PostForm),
			PaymentRequest: req,
		})
	default:
		w.Header().Set("Allow", "GET, POST")
		handlers.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) paymentInfo(w http.ResponseWriter, r *http.Request, scope int, token string) {
	model, err := h.service.PaymentInfo(r.Context(), scope, token)
	if err != nil {
		h.logger.Error("Failed to build payment info", zap.Int("store_scope", scope), zap.Error(err))
		handlers.WriteDomainError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, model)
}

// ValidatePaymentForm never reports errors: the card is validated by the
// tokenization widget in the browser and the token by the payment adapter.
func ValidatePaymentForm(form url.Values) []string {
	return []string{}
}

// GetPaymentInfo copies the card token from the form into a new payment request
func GetPaymentInfo(form url.Values) *models.PaymentRequest {
	return &models.PaymentRequest{
		CustomValues: map[string]string{
			models.TokenFormKey: form.Get(models.TokenFormKey),
		},
	}
}

package payment

import (
	"context"
	"net/http"

	"github.com/kevin07696/securesubmit-plugin/internal/domain/models"
	"github.com/kevin07696/securesubmit-plugin/internal/handlers"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Routes served by the payment bridge
const (
	RouteProcess   = "/plugins/securesubmit/payments"
	RouteCapture   = "/plugins/securesubmit/payments/capture"
	RouteRefund    = "/plugins/securesubmit/payments/refund"
	RouteVoid      = "/plugins/securesubmit/payments/void"
	RouteFee       = "/plugins/securesubmit/fee"
	RouteInstall   = "/plugins/securesubmit/install"
	RouteUninstall = "/plugins/securesubmit/uninstall"
)

// Processor is the payment method behaviour the host bridge exposes
type Processor interface {
	ProcessPayment(ctx context.Context, req *models.PaymentRequest) *models.PaymentOutcome
	Capture(ctx context.Context, req *models.CaptureRequest) *models.PaymentOutcome
	Refund(ctx context.Context, req *models.RefundRequest) *models.PaymentOutcome
	Void(ctx context.Context, req *models.VoidRequest) *models.PaymentOutcome
	AdditionalHandlingFee(ctx context.Context, scope int, subtotal decimal.Decimal) (decimal.Decimal, error)
	Install(ctx context.Context) error
	Uninstall(ctx context.Context) error
}

// FeeResponse is the body returned by the fee endpoint
type FeeResponse struct {
	StoreScope int             `json:"store_scope"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Fee        decimal.Decimal `json:"fee"`
}

// Handler bridges host order workflow calls to the payment processor.
// Failed payments are a normal 200 response whose outcome status is "failed";
// only malformed requests get a 4xx.
type Handler struct {
	processor Processor
	logger    *zap.Logger
}

// NewHandler creates a new payment bridge handler
func NewHandler(processor Processor, logger *zap.Logger) *Handler {
	return &Handler{
		processor: processor,
		logger:    logger,
	}
}

// Register mounts every bridge route on mux
func (h *Handler) Register(mux *http.ServeMux, wrap func(route string, next http.Handler) http.Handler) {
	routes := map[string]http.HandlerFunc{
		RouteProcess:   h.ProcessPayment,
		RouteCapture:   h.Capture,
		RouteRefund:    h.Refund,
		RouteVoid:      h.Void,
		RouteFee:       h.AdditionalFee,
		RouteInstall:   h.Install,
		RouteUninstall: h.Uninstall,
	}
	for route, fn := range routes {
		mux.Handle(route, wrap(route, fn))
	}
}

// ProcessPayment authorizes or charges an order.
// Endpoint: POST /plugins/securesubmit/payments
func (h *Handler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	var req models.PaymentRequest
	if !h.decodePost(w, r, &req) {
		return
	}
	h.writeOutcome(w, "process", h.processor.ProcessPayment(r.Context(), &req))
}

// Capture settles an authorized order.
// Endpoint: POST /plugins/securesubmit/payments/capture
func (h *Handler) Capture(w http.ResponseWriter, r *http.Request) {
	var req models.CaptureRequest
	if !h.decodePost(w, r, &req) {
		return
	}
	h.writeOutcome(w, "capture", h.processor.Capture(r.Context(), &req))
}

// Refund returns funds on a captured order.
// Endpoint: POST /plugins/securesubmit/payments/refund
func (h *Handler) Refund(w http.ResponseWriter, r *http.Request) {
	var req models.RefundRequest
	if !h.decodePost(w, r, &req) {
		return
	}
	h.writeOutcome(w, "refund", h.processor.Refund(r.Context(), &req))
}

// Void cancels an order's capture or authorization.
// Endpoint: POST /plugins/securesubmit/payments/void
func (h *Handler) Void(w http.ResponseWriter, r *http.Request) {
	var req models.VoidRequest
	if !h.decodePost(w, r, &req) {
		return
	}
	h.writeOutcome(w, "void", h.processor.Void(r.Context(), &req))
}

// AdditionalFee returns the surcharge for a cart subtotal.
// Endpoint: GET /plugins/securesubmit/fee?store=N&subtotal=99.99
func (h *Handler) AdditionalFee(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		handlers.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	scope, err := handlers.StoreScope(r)
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	subtotal, err := decimal.NewFromString(r.URL.Query().Get("subtotal"))
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "subtotal must be a valid decimal")
		return
	}

	fee, err := h.processor.AdditionalHandlingFee(r.Context(), scope, subtotal)
	if err != nil {
		h.logger.Error("Failed to compute additional fee", zap.Int("store_scope", scope), zap.Error(err))
		handlers.WriteDomainError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, FeeResponse{StoreScope: scope, Subtotal: subtotal, Fee: fee})
}

// Install writes default settings and locale resources.
// Endpoint: POST /plugins/securesubmit/install
func (h *Handler) Install(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, "install", h.processor.Install)
}

// Uninstall removes settings and locale resources.
// Endpoint: POST /plugins/securesubmit/uninstall
func (h *Handler) Uninstall(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, "uninstall", h.processor.Uninstall)
}

func (h *Handler) lifecycle(w http.ResponseWriter, r *http.Request, action string, fn func(context.Context) error) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		handlers.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := fn(r.Context()); err != nil {
		h.logger.Error("Plugin lifecycle action failed", zap.String("action", action), zap.Error(err))
		handlers.WriteDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodePost(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		handlers.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	if err := handlers.DecodeJSON(w, r, v); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (h *Handler) writeOutcome(w http.ResponseWriter, operation string, outcome *models.PaymentOutcome) {
	if !outcome.Success() {
		h.logger.Info("Payment operation returned failed outcome",
			zap.String("operation", operation),
			zap.Strings("errors", outcome.ErrorMessages),
		)
	}
	handlers.WriteJSON(w, http.StatusOK, outcome)
}

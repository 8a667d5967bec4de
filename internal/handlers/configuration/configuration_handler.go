package configuration

import (
	"context"
	"net/http"

	"github.com/kevin07696/securesubmit-plugin/internal/handlers"
	"github.com/kevin07696/securesubmit-plugin/internal/services/settings"
	"go.uber.org/zap"
)

// Route is the admin configuration endpoint
const Route = "/plugins/securesubmit/configure"

// Service is the settings behaviour the configuration screen needs
type Service interface {
	Configuration(ctx context.Context, scope int) (*settings.ConfigurationModel, error)
	SaveConfiguration(ctx context.Context, scope int, model *settings.ConfigurationModel) error
}

// Handler serves the admin configuration screen as JSON
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new configuration handler
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// ServeHTTP handles GET (load) and POST (save then reload) for ?store=N
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	scope, err := handlers.StoreScope(r)
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.configure(w, r, scope)
	case http.MethodPost:
		h.save(w, r, scope)
	default:
		w.Header().Set("Allow", "GET, POST")
		handlers.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) configure(w http.ResponseWriter, r *http.Request, scope int) {
	model, err := h.service.Configuration(r.Context(), scope)
	if err != nil {
		h.logger.Error("Failed to load configuration", zap.Int("store_scope", scope), zap.Error(err))
		handlers.WriteDomainError(w, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, model)
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request, scope int) {
	var model settings.ConfigurationModel
	if err := handlers.DecodeJSON(w, r, &model); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.SaveConfiguration(r.Context(), scope, &model); err != nil {
		h.logger.Warn("Failed to save configuration", zap.Int("store_scope", scope), zap.Error(err))
		handlers.WriteDomainError(w, err)
		return
	}

	h.configure(w, r, scope)
}

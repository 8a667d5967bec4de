// Package settings implements the admin configuration screen and the checkout
// payment-info form on top of the settings store.
package settings

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kevin07696/securesubmit-plugin/internal/domain"
	"github.com/kevin07696/securesubmit-plugin/internal/domain/models"
	"github.com/kevin07696/securesubmit-plugin/internal/domain/ports"
)

const expireYearCount = 15

// Service reads and writes plugin settings with per-store override semantics
type Service struct {
	store  ports.SettingsStore
	logger ports.Logger
	now    func() time.Time
}

// NewService creates a new settings service. store must not resolve secret references,
// so the admin screen shows what is actually persisted.
func NewService(store ports.SettingsStore, logger ports.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Configuration builds the admin model for the scope
func (s *Service) Configuration(ctx context.Context, scope int) (*ConfigurationModel, error) {
	current, err := s.store.Load(ctx, scope)
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeSettingsUnavailable, "load settings", err)
	}

	model := &ConfigurationModel{
		ActiveStoreScope:        scope,
		TransactModeID:          int(current.TransactMode),
		TransactModeValues:      transactModeValues(current.TransactMode),
		PublicAPIKey:            current.PublicAPIKey,
		SecretAPIKey:            current.SecretAPIKey,
		AdditionalFee:           current.AdditionalFee,
		AdditionalFeePercentage: current.AdditionalFeePercentage,
	}

	if scope > ports.GlobalScope {
		overrides := map[string]*bool{
			models.SettingTransactMode:            &model.TransactModeIDOverrideForStore,
			models.SettingPublicAPIKey:            &model.PublicAPIKeyOverrideForStore,
			models.SettingSecretAPIKey:            &model.SecretAPIKeyOverrideForStore,
			models.SettingAdditionalFee:           &model.AdditionalFeeOverrideForStore,
			models.SettingAdditionalFeePercentage: &model.AdditionalFeePercentageOverrideForStore,
		}
		for key, flag := range overrides {
			exists, err := s.store.Exists(ctx, key, scope)
			if err != nil {
				return nil, domain.WrapError(domain.ErrorCodeSettingsUnavailable, "check override for "+key, err)
			}
			*flag = exists
		}
	}

	return model, nil
}

// SaveConfiguration persists the model at the scope. At a store scope, a field without
// its override flag drops the store value so the global one applies again.
func (s *Service) SaveConfiguration(ctx context.Context, scope int, model *ConfigurationModel) error {
	if scope < ports.GlobalScope {
		return domain.NewDomainError(domain.ErrorCodeValidationFailed, fmt.Sprintf("invalid store scope %d", scope))
	}
	mode := models.TransactMode(model.TransactModeID)
	if !mode.Valid() {
		return domain.NewDomainError(domain.ErrorCodeValidationFailed, fmt.Sprintf("invalid transaction mode %d", model.TransactModeID))
	}
	if model.AdditionalFee.IsNegative() {
		return domain.NewDomainError(domain.ErrorCodeValidationAmountInvalid, "additional fee must not be negative")
	}

	values := models.Settings{
		TransactMode:            mode,
		PublicAPIKey:            strings.TrimSpace(model.PublicAPIKey),
		SecretAPIKey:            strings.TrimSpace(model.SecretAPIKey),
		AdditionalFee:           model.AdditionalFee,
		AdditionalFeePercentage: model.AdditionalFeePercentage,
	}.Values()

	fields := []struct {
		key      string
		override bool
	}{
		{models.SettingTransactMode, model.TransactModeIDOverrideForStore},
		{models.SettingPublicAPIKey, model.PublicAPIKeyOverrideForStore},
		{models.SettingSecretAPIKey, model.SecretAPIKeyOverrideForStore},
		{models.SettingAdditionalFee, model.AdditionalFeeOverrideForStore},
		{models.SettingAdditionalFeePercentage, model.AdditionalFeePercentageOverrideForStore},
	}

	for _, f := range fields {
		var err error
		if f.override || scope == ports.GlobalScope {
			err = s.store.Save(ctx, f.key, values[f.key], scope)
		} else {
			err = s.store.Delete(ctx, f.key, scope)
		}
		if err != nil {
			return domain.WrapError(domain.ErrorCodeInternalError, "save setting "+f.key, err)
		}
	}

	s.store.ClearCache()

	s.logger.Info("payment settings saved",
		ports.Int("store_scope", scope),
		ports.Stringer("transact_mode", mode))
	return nil
}

// PaymentInfo builds the checkout form model. token is the postback value of the
// token_value field, if the form is being redisplayed.
func (s *Service) PaymentInfo(ctx context.Context, scope int, token string) (*PaymentInfoModel, error) {
	current, err := s.store.Load(ctx, scope)
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeSettingsUnavailable, "load settings", err)
	}

	year := s.now().Year()
	model := &PaymentInfoModel{
		PublicAPIKey:      strings.TrimSpace(current.PublicAPIKey),
		ExpireYears:       make([]SelectListItem, 0, expireYearCount),
		ExpireMonths:      make([]SelectListItem, 0, 12),
		SecureSubmitToken: token,
	}
	for i := 0; i < expireYearCount; i++ {
		y := strconv.Itoa(year + i)
		model.ExpireYears = append(model.ExpireYears, SelectListItem{Text: y, Value: y})
	}
	for m := 1; m <= 12; m++ {
		model.ExpireMonths = append(model.ExpireMonths, SelectListItem{
			Text:  fmt.Sprintf("%02d", m),
			Value: strconv.Itoa(m),
		})
	}

	return model, nil
}

func transactModeValues(selected models.TransactMode) []SelectListItem {
	modes := []models.TransactMode{models.TransactModeAuthorize, models.TransactModeCharge}
	items := make([]SelectListItem, 0, len(modes))
	for _, m := range modes {
		items = append(items, SelectListItem{
			Text:     m.String(),
			Value:    strconv.Itoa(int(m)),
			Selected: m == selected,
		})
	}
	return items
}

package models

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// TransactMode selects between auth-then-capture and immediate sale
type TransactMode int

const (
	TransactModeAuthorize TransactMode = 1
	TransactModeCharge    TransactMode = 2
)

func (m TransactMode) String() string {
	switch m {
	case TransactModeAuthorize:
		return "Authorize"
	case TransactModeCharge:
		return "Charge"
	default:
		return "Unknown"
	}
}

// Valid reports whether m is a known transaction mode
func (m TransactMode) Valid() bool {
	return m == TransactModeAuthorize || m == TransactModeCharge
}

// ParseTransactMode parses the numeric id used by the settings store and the admin form
func ParseTransactMode(s string) (TransactMode, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid transact mode %q: %w", s, err)
	}
	mode := TransactMode(n)
	if !mode.Valid() {
		return 0, fmt.Errorf("unknown transact mode %d", n)
	}
	return mode, nil
}

// Setting keys as persisted by the settings store
const (
	SettingTransactMode            = "securesubmitpaymentsettings.transactmode"
	SettingPublicAPIKey            = "securesubmitpaymentsettings.publicapikey"
	SettingSecretAPIKey            = "securesubmitpaymentsettings.secretapikey"
	SettingAdditionalFee           = "securesubmitpaymentsettings.additionalfee"
	SettingAdditionalFeePercentage = "securesubmitpaymentsettings.additionalfeepercentage"
)

// SettingKeys lists every persisted key in display order
var SettingKeys = []string{
	SettingTransactMode,
	SettingPublicAPIKey,
	SettingSecretAPIKey,
	SettingAdditionalFee,
	SettingAdditionalFeePercentage,
}

// Settings is a snapshot of the plugin configuration resolved for one store scope.
// It is immutable for the duration of one operation.
type Settings struct {
	TransactMode            TransactMode
	PublicAPIKey            string
	SecretAPIKey            string
	AdditionalFee           decimal.Decimal
	AdditionalFeePercentage bool
}

// DefaultSettings returns the values written on install
func DefaultSettings() Settings {
	return Settings{
		TransactMode:  TransactModeAuthorize,
		PublicAPIKey:  "123",
		SecretAPIKey:  "456",
		AdditionalFee: decimal.Zero,
	}
}

// Values encodes the settings as store key/value pairs
func (s Settings) Values() map[string]string {
	return map[string]string{
		SettingTransactMode:            strconv.Itoa(int(s.TransactMode)),
		SettingPublicAPIKey:            s.PublicAPIKey,
		SettingSecretAPIKey:            s.SecretAPIKey,
		SettingAdditionalFee:           s.AdditionalFee.String(),
		SettingAdditionalFeePercentage: strconv.FormatBool(s.AdditionalFeePercentage),
	}
}

// SettingsFromValues decodes store key/value pairs. Missing keys keep their zero value.
func SettingsFromValues(values map[string]string) (Settings, error) {
	var s Settings

	if v, ok := values[SettingTransactMode]; ok && v != "" {
		mode, err := ParseTransactMode(v)
		if err != nil {
			return s, err
		}
		s.TransactMode = mode
	}

	s.PublicAPIKey = values[SettingPublicAPIKey]
	s.SecretAPIKey = values[SettingSecretAPIKey]

	if v, ok := values[SettingAdditionalFee]; ok && v != "" {
		fee, err := decimal.NewFromString(v)
		if err != nil {
			return s, fmt.Errorf("invalid additional fee %q: %w", v, err)
		}
		s.AdditionalFee = fee
	}

	if v, ok := values[SettingAdditionalFeePercentage]; ok && v != "" {
		pct, err := strconv.ParseBool(v)
		if err != nil {
			return s, fmt.Errorf("invalid additional fee percentage flag %q: %w", v, err)
		}
		s.AdditionalFeePercentage = pct
	}

	return s, nil
}

// AdditionalHandlingFee computes the surcharge shown before payment.
// Percentage fees apply to the cart subtotal; the result is rounded to cents and never negative.
func (s Settings) AdditionalHandlingFee(subtotal decimal.Decimal) decimal.Decimal {
	fee := s.AdditionalFee
	if s.AdditionalFeePercentage {
		fee = subtotal.Mul(s.AdditionalFee).Div(decimal.NewFromInt(100))
	}
	fee = fee.Round(2)
	if fee.IsNegative() {
		return decimal.Zero
	}
	return fee
}

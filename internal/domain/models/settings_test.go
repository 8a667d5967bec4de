package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTransactMode(t *testing.T) {
	mode, err := ParseTransactMode("1")
	require.NoError(t, err)
	assert.Equal(t, TransactModeAuthorize, mode)

	mode, err = ParseTransactMode("2")
	require.NoError(t, err)
	assert.Equal(t, TransactModeCharge, mode)

	_, err = ParseTransactMode("3")
	assert.Error(t, err)

	_, err = ParseTransactMode("charge")
	assert.Error(t, err)
}

func TestSettings_ValuesRoundTrip(t *testing.T) {
	s := Settings{
		TransactMode:            TransactModeCharge,
		PublicAPIKey:            "pkapi_cert_abc",
		SecretAPIKey:            "skapi_cert_xyz",
		AdditionalFee:           decimal.RequireFromString("2.5"),
		AdditionalFeePercentage: true,
	}

	decoded, err := SettingsFromValues(s.Values())
	require.NoError(t, err)
	assert.Equal(t, s.TransactMode, decoded.TransactMode)
	assert.Equal(t, s.PublicAPIKey, decoded.PublicAPIKey)
	assert.Equal(t, s.SecretAPIKey, decoded.SecretAPIKey)
	assert.True(t, s.AdditionalFee.Equal(decoded.AdditionalFee))
	assert.True(t, decoded.AdditionalFeePercentage)
}

func TestSettingsFromValues_Invalid(t *testing.T) {
	_, err := SettingsFromValues(map[string]string{SettingAdditionalFee: "abc"})
	assert.Error(t, err)

	_, err = SettingsFromValues(map[string]string{SettingAdditionalFeePercentage: "maybe"})
	assert.Error(t, err)

	_, err = SettingsFromValues(map[string]string{SettingTransactMode: "9"})
	assert.Error(t, err)
}

func TestSettings_AdditionalHandlingFee(t *testing.T) {
	tests := []struct {
		name       string
		fee        string
		percentage bool
		subtotal   string
		want       string
	}{
		{name: "fixed_fee", fee: "5.00", subtotal: "100.00", want: "5"},
		{name: "percentage_fee", fee: "2.5", percentage: true, subtotal: "80.00", want: "2"},
		{name: "percentage_rounds_to_cents", fee: "3", percentage: true, subtotal: "19.99", want: "0.6"},
		{name: "zero_fee", fee: "0", subtotal: "50", want: "0"},
		{name: "negative_fee_clamped", fee: "-1", subtotal: "50", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Settings{
				AdditionalFee:           decimal.RequireFromString(tt.fee),
				AdditionalFeePercentage: tt.percentage,
			}
			got := s.AdditionalHandlingFee(decimal.RequireFromString(tt.subtotal))
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, TransactModeAuthorize, s.TransactMode)
	assert.Equal(t, "123", s.PublicAPIKey)
	assert.Equal(t, "456", s.SecretAPIKey)
	assert.True(t, s.AdditionalFee.IsZero())
}

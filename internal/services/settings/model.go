package settings

import "github.com/shopspring/decimal"

// SelectListItem is one option of a select element
type SelectListItem struct {
	Text     string `json:"text"`
	Value    string `json:"value"`
	Selected bool   `json:"selected,omitempty"`
}

// ConfigurationModel is the admin view of the plugin settings for one store scope.
// Each OverrideForStore flag tells whether the scope holds its own value for the field.
type ConfigurationModel struct {
	ActiveStoreScope int `json:"active_store_scope"`

	TransactModeID                 int              `json:"transact_mode_id"`
	TransactModeIDOverrideForStore bool             `json:"transact_mode_id_override_for_store"`
	TransactModeValues             []SelectListItem `json:"transact_mode_values,omitempty"`

	PublicAPIKey                 string `json:"public_api_key"`
	PublicAPIKeyOverrideForStore bool   `json:"public_api_key_override_for_store"`

	SecretAPIKey                 string `json:"secret_api_key"`
	SecretAPIKeyOverrideForStore bool   `json:"secret_api_key_override_for_store"`

	AdditionalFee                 decimal.Decimal `json:"additional_fee"`
	AdditionalFeeOverrideForStore bool            `json:"additional_fee_override_for_store"`

	AdditionalFeePercentage                 bool `json:"additional_fee_percentage"`
	AdditionalFeePercentageOverrideForStore bool `json:"additional_fee_percentage_override_for_store"`
}

// PaymentInfoModel feeds the checkout form that tokenizes the card in the browser
type PaymentInfoModel struct {
	PublicAPIKey      string           `json:"public_api_key"`
	ExpireYears       []SelectListItem `json:"expire_years"`
	ExpireMonths      []SelectListItem `json:"expire_months"`
	SecureSubmitToken string           `json:"securesubmit_token,omitempty"`
}

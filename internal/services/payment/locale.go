package payment

// LocaleResources are the admin strings registered on install, keyed by resource name
var LocaleResources = map[string]string{
	"Plugins.Payments.SecureSubmit.Notes":                               "If you're using this gateway, ensure that your primary store currency is set to USD.",
	"Plugins.Payments.SecureSubmit.Fields.TransactModeValues":           "Transaction mode",
	"Plugins.Payments.SecureSubmit.Fields.TransactModeValues.Hint":      "Choose transaction mode",
	"Plugins.Payments.SecureSubmit.Fields.PublicApiKey":                 "Public API Key",
	"Plugins.Payments.SecureSubmit.Fields.PublicApiKey.Hint":            "Public API Key",
	"Plugins.Payments.SecureSubmit.Fields.SecretApiKey":                 "Secret API Key",
	"Plugins.Payments.SecureSubmit.Fields.SecretApiKey.Hint":            "Specify your Secret API Key.",
	"Plugins.Payments.SecureSubmit.Fields.AdditionalFee":                "Additional fee",
	"Plugins.Payments.SecureSubmit.Fields.AdditionalFee.Hint":           "Enter additional fee to charge your customers.",
	"Plugins.Payments.SecureSubmit.Fields.AdditionalFeePercentage":      "Additional fee. Use percentage",
	"Plugins.Payments.SecureSubmit.Fields.AdditionalFeePercentage.Hint": "Determines whether to apply a percentage additional fee to the order total. If not enabled, a fixed value is used.",
}

package common

const (
	// AuthorizationHeaderName carries "Bearer <access token>" on API requests.
	AuthorizationHeaderName = "Authorization"

	// TxRefPrefix prefixes every transaction reference sent to the provider.
	TxRefPrefix = "booking-"
)

package constants

const (
	API_VERSION_PREFIX               = "/api/v1"
	MAX_TRANSACTIONS_PER_REQUEST     = 1000
	MAX_CHECK_RESULTS_PER_COMPARISON = 200
)

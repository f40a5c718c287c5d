package domain

import "time"

const (
	// PROPERTY_RULE_PREFIX is reserved for check results produced by property verification
	PROPERTY_RULE_PREFIX = "PV-"

	// DEFAULT_PROPERTY_CACHE_TTL is how long provider payloads are reused for an address
	DEFAULT_PROPERTY_CACHE_TTL = 7 * 24 * time.Hour

	// SYSTEM_ACTOR is recorded as performed_by for events written by the engine itself
	SYSTEM_ACTOR = "system"

	// DATE_LAYOUT is the wire format for policy term dates
	DATE_LAYOUT = "2006-01-02"
)

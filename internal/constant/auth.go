package constant

import "time"

const (
	JWT_TYPE_ACCESS  = "access"
	JWT_TYPE_REFRESH = "refresh"
)

const (
	OAUTH_PROVIDER_OIDC = "oidc"

	OAUTH_STATE_LENGTH = 32
	OAUTH_STATE_EXPIRY = 10 * time.Minute
)

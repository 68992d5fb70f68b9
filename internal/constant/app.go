package constant

import "time"

const (
	APP_NAME = "Annotator"

	REQUEST_SUCCESSFUL   = "Request successful"
	REQUEST_UNSUCCESSFUL = "Request unsuccessful"

	QUERY_TIMEOUT_DURATION = 10 * time.Second

	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Keys used to share values between middleware and controllers through gin.Context
const (
	CTX_USER       = "user"
	CTX_COLLECTION = "collection"
	CTX_REQUEST_ID = "requestId"
)

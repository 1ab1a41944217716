package constant

import (
	"time"
)

const (
	RoleAdmin    = "admin"
	RoleVendor   = "vendor"
	RoleCustomer = "customer"

	ContextGuest = "guest"
)

const (
	RequestParamID      = "id"
	RequestParamPage    = "page"
	RequestParamLimit   = "limit"
	RequestParamSortBy  = "sort_by"
	RequestParamSortDir = "sort_dir"

	RequestMaxMemory = 32 << 20
)

const (
	DefaultValuePage  = 1
	DefaultValueLimit = 10
	MaxValueLimit     = 100
)

// Audit columns shared by every table.
const (
	FieldCreatedAt  = "created_at"
	FieldModifiedAt = "modified_at"
	FieldModifiedBy = "modified_by"
)

const PqErrorCodeUniqueViolation = "23505"

const (
	DateFormat      = time.RFC3339
	DateOnlyFormat  = "2006-01-02"
	TimeOnlyFormat  = "15:04"
	DefaultTokenTTL = 24 * time.Hour
)

const (
	OtelHandlerScopeName    = "handler"
	OtelServiceScopeName    = "service"
	OtelPolicyScopeName     = "policy"
	OtelRepositoryScopeName = "repository"
	OtelStorageScopeName    = "storage"
	OtelEventScopeName      = "event"
	OtelS3ScopeName         = "s3"

	OtelQueryAttributeKey = "query"
)

const (
	RequestHeaderAuthorization      = "Authorization"
	RequestHeaderUserAgent          = "User-Agent"
	RequestHeaderContentType        = "Content-Type"
	RequestHeaderContentDisposition = "Content-Disposition"
	RequestHeaderCacheControl       = "Cache-Control"
	RequestHeaderForwardedFor       = "X-Forwarded-For"
	RequestHeaderRealIP             = "X-Real-IP"
	RequestHeaderRateLimit          = "X-RateLimit-Limit"
	RequestHeaderRateLimitRemaining = "X-RateLimit-Remaining"
	RequestHeaderRateLimitWindow    = "X-RateLimit-Window"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

const (
	ResponseErrorPrepareShutdown      = "SERVER PREPARING TO SHUT DOWN"
	ResponseErrorUnhealthy            = "SERVER UNHEALTHY"
	ResponseErrorRequestLimitExceeded = "REQUEST LIMIT EXCEEDED"
	ResponseErrorInternal             = "Server error"
)

const (
	ServerEnvDevelopment = "development"
	ServerEnvProduction  = "production"
)

// Uploads and cookies.
const (
	DefaultCookieName  = "token"
	DefaultUploadDir   = "uploads"
	DefaultPublicPath  = "/uploads"
	DefaultImage       = "Logo.jpg"
	DefaultMaxFileSize = 5
	DefaultMaxFiles    = 5
	DefaultCacheMaxAge = 31536000

	UploadBackendLocal = "local"
	UploadBackendS3    = "s3"
	UploadDirVendors   = "vendors"
	UploadDirProducts  = "products"
)

const CacheKeyRevokedToken = "auth:revoked:"

const Empty = ""

// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Authentication
	KeyAuthRequired             = "auth.required"
	KeyAuthInvalidToken         = "auth.invalid_token"
	KeyAuthInvalidCredentials   = "auth.invalid_credentials"
	KeyAuthAdminRequired        = "auth.admin_required"
	KeyAuthRegistrationDisabled = "auth.registration_disabled"
	KeyAuthEmailExists          = "auth.email_exists"

	// Validation
	KeyValidationInvalid    = "validation.invalid"
	KeyValidationPagination = "validation.pagination"

	// Resources; NotFoundResponse appends ".not_found" to these.
	ResourceProduct  = "product"
	ResourceCategory = "category"
	ResourceOrder    = "order"
	ResourceUser     = "user"

	// Catalog
	KeyProductSlugExists  = "product.slug_exists"
	KeyProductDeleted     = "product.deleted"
	KeyCategorySlugExists = "category.slug_exists"
	KeyCategoryDeleted    = "category.deleted"

	// Orders
	KeyOrderDeleted             = "order.deleted"
	KeyOrderLineItemUnavailable = "order.line_item_unavailable"

	// Payments
	KeyPaymentDisabled = "payment.disabled"
	KeyPaymentFailed   = "payment.failed"

	// Uploads
	KeyUploadNoFiles     = "upload.no_files"
	KeyUploadInvalidFile = "upload.invalid_file"

	// System
	KeyRateLimitExceeded = "rate_limit.exceeded"
	KeyInternalError     = "system.internal_error"
)

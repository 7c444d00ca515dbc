package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldReferer    = "referer"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldListing    = "listing"
	FieldSort       = "sort"
	FieldPage       = "page"
	FieldSearch     = "search"
	FieldResults    = "results"
	FieldAccountID  = "account_id"
	FieldNickname   = "nickname"
	FieldPrice      = "price"
	FieldCurrency   = "currency"
	FieldChannel    = "channel"
	FieldIntentID   = "intent_id"
	FieldGeneration = "generation"
	FieldAccounts   = "accounts"
	FieldCover      = "cover"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentCatalog   = "catalog"
	ComponentInventory = "inventory"
	ComponentPurchase  = "purchase"
	ComponentIntent    = "intent"
	ComponentCovers    = "covers"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentNotify    = "notify"
	ComponentJobs      = "jobs"
	ComponentCache     = "cache"
	ComponentSecurity  = "security"
	ComponentRateLimit = "rate_limit"
	ComponentTrace     = "trace"
	ComponentBackend   = "backend"
	ComponentTemplate  = "template"
)

// Operations defines standard operation names
const (
	OpList     = "list"
	OpRead     = "read"
	OpRefresh  = "refresh"
	OpPublish  = "publish"
	OpConsume  = "consume"
	OpNotify   = "notify"
	OpDownload = "download"
	OpRename   = "rename"
	OpCleanup  = "cleanup"
	OpValidate = "validate"
	OpParse    = "parse"
	OpRender   = "render"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeDatabase      = "database_error"
	ErrorTypeNetwork       = "network_error"
	ErrorTypeTimeout       = "timeout_error"
	ErrorTypeNotFound      = "not_found_error"
	ErrorTypeInternal      = "internal_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithRequestID adds request ID field
func (f LogFields) WithRequestID(requestID string) LogFields {
	f[FieldRequestID] = requestID
	return f
}

// WithClientIP adds client IP field
func (f LogFields) WithClientIP(ip string) LogFields {
	f[FieldClientIP] = ip
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithView adds the catalog view being rendered.
func (f LogFields) WithView(listing, sort string, page int, search string) LogFields {
	f[FieldListing] = listing
	f[FieldSort] = sort
	f[FieldPage] = page
	if search != "" {
		f[FieldSearch] = search
	}
	return f
}

// WithAccount adds account identity fields.
func (f LogFields) WithAccount(id, nickname string) LogFields {
	f[FieldAccountID] = id
	if nickname != "" {
		f[FieldNickname] = nickname
	}
	return f
}

// WithPurchase adds purchase intent fields
func (f LogFields) WithPurchase(intentID, price, currency, channel string) LogFields {
	f[FieldIntentID] = intentID
	f[FieldPrice] = price
	f[FieldCurrency] = currency
	f[FieldChannel] = channel
	return f
}

// WithHTTPRequest adds HTTP request fields
func (f LogFields) WithHTTPRequest(method, path, query, userAgent, referer string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldQuery] = query
	f[FieldUserAgent] = userAgent
	f[FieldReferer] = referer
	return f
}

// WithHTTPResponse adds HTTP response fields
func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64, success bool) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = success
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}

package logx

const (
	FieldAppName    = "app-name"
	FieldAppVersion = "app-version"
	FieldCycle      = "cycle"
	FieldCurrencyID = "currency-id"
	FieldDurationMs = "duration-ms"
	FieldError      = "error"
	FieldHTTPMethod = "http-method"
	FieldInterval   = "interval"
	FieldItemID     = "item-id"
	FieldPrice      = "price"
	FieldSeed       = "seed"
	FieldStack      = "stack"
	FieldTraceID    = "trace-id"
	FieldURL        = "url"
	FieldVendorID   = "vendor-id"
	FieldVendorName = "vendor-name"
)

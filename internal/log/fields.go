package log

import "sort"

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldScope      = "scope"
	FieldBackend    = "backend"
	FieldUserID     = "user_id"
	FieldView       = "view"
	FieldReason     = "reason"
)

// Components
const (
	ComponentApp      = "app"
	ComponentSession  = "session"
	ComponentKeystore = "keystore"
	ComponentClient   = "client"
	ComponentTUI      = "tui"
)

// Operations
const (
	OpLoad      = "load"
	OpSave      = "save"
	OpClear     = "clear"
	OpLogin     = "login"
	OpLogout    = "logout"
	OpReconcile = "reconcile"
	OpRestore   = "restore"
	OpUpdate    = "update"
	OpMigrate   = "migrate"
)

// Fields is a builder for structured log attributes.
type Fields map[string]any

// NewFields creates an empty Fields.
func NewFields() Fields {
	return make(Fields)
}

// WithOperation adds the operation field.
func (f Fields) WithOperation(op string) Fields {
	f[FieldOperation] = op
	return f
}

// WithError adds the error field when err is non-nil.
func (f Fields) WithError(err error) Fields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithScope adds the session scope and store backend.
func (f Fields) WithScope(scope, backend string) Fields {
	f[FieldScope] = scope
	if backend != "" {
		f[FieldBackend] = backend
	}
	return f
}

// WithUser adds the user id. Usernames and tokens are never logged.
func (f Fields) WithUser(id int64) Fields {
	if id > 0 {
		f[FieldUserID] = id
	}
	return f
}

// ToSlice converts Fields to key/value pairs for slog, ordered by key.
func (f Fields) ToSlice() []any {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	slice := make([]any, 0, len(f)*2)
	for _, k := range keys {
		slice = append(slice, k, f[k])
	}
	return slice
}

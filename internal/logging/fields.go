package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldInput      = "input"
	FieldWorkingDir = "working_dir"

	// Pattern fields.
	FieldPattern    = "pattern"
	FieldName       = "name"
	FieldComparison = "comparison"
	FieldCulture    = "culture"

	// Execution fields.
	FieldKind    = "kind"
	FieldAction  = "action"
	FieldOffset  = "offset"
	FieldWindow  = "window"
	FieldResults = "results"
	FieldJobs    = "jobs"

	// Statistics fields.
	FieldInputsDiscovered = "inputs_discovered"
	FieldInputsProcessed  = "inputs_processed"
	FieldInputsFailed     = "inputs_failed"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)

package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config Errors (E120-E149)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The configuration file could not be read or parsed.",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is out of range or malformed.",
	},
	"E141": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No store.json was found in the given directory.",
	},

	// ============================================
	// Store Runtime Errors (E200-E249)
	// ============================================

	"E201": {
		Category: CategoryRuntime,
		Message:  "State set during store initialization",
		Detail:   "The initializer passed to store.New runs before the store has any state. Call the setter from closures stored in the state, not from the initializer body.",
	},
	"E202": {
		Category: CategoryRuntime,
		Message:  "Snapshot type mismatch",
		Detail:   "The host returned a snapshot whose type does not match the selector's result type.",
	},
	"E203": {
		Category: CategoryRuntime,
		Message:  "Render flush did not settle",
		Detail:   "Components kept marking each other dirty for more passes than allowed. A render or listener is probably updating the store unconditionally.",
	},
	"E204": {
		Category: CategoryRuntime,
		Message:  "Component is unmounted",
		Detail:   "The component's owner has been disposed and it can no longer render.",
	},

	// ============================================
	// CLI Errors (E300-E349)
	// ============================================

	"E301": {
		Category: CategoryCLI,
		Message:  "Unknown demo scenario",
		Detail:   "The requested scenario is not one of the built-in demos.",
	},
	"E302": {
		Category: CategoryCLI,
		Message:  "Metrics server failed",
		Detail:   "The HTTP listener for /metrics stopped with an error.",
	},
}

// Lookup returns the template for a code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Usage Errors (E001-E019)
	// ============================================

	"E001": {
		Category: CategoryUsage,
		Message:  "Unclosed element at end of patch",
		Detail:   "Every Open must be balanced by a Close before the render function returns.",
	},
	"E002": {
		Category: CategoryUsage,
		Message:  "Close without matching Open",
		Detail:   "Close was called at the top level of a patch, where no element is open.",
	},
	"E003": {
		Category: CategoryUsage,
		Message:  "Close does not match the open element",
		Detail:   "CloseKind was called with a kind different from the element being closed.",
	},
	"E004": {
		Category: CategoryUsage,
		Message:  "Skip called after children were declared",
		Detail:   "Skip keeps an element's existing children and must be the first and only call inside the element.",
	},
	"E005": {
		Category: CategoryUsage,
		Message:  "Declaration after Skip",
		Detail:   "No children may be declared between Skip and the Close of the same element.",
	},
	"E006": {
		Category: CategoryUsage,
		Message:  "Called outside of a patch",
		Detail:   "Declaration and introspection calls are only valid while a patch function is running.",
	},
	"E007": {
		Category: CategoryUsage,
		Message:  "Called inside attribute scope",
		Detail:   "Declarations and introspection are not allowed between BeginAttributes and EndAttributes.",
	},
	"E008": {
		Category: CategoryUsage,
		Message:  "Attribute scope not closed",
		Detail:   "BeginAttributes was called without a matching EndAttributes before the patch finished.",
	},
	"E009": {
		Category: CategoryUsage,
		Message:  "Outer patch must declare exactly one top-level node",
		Detail:   "The render function of an outer patch declared more than one node at the top level.",
	},
	"E010": {
		Category: CategoryUsage,
		Message:  "Outer patch target has no parent",
		Detail:   "An outer patch replaces its target in place, so the target must be attached to a parent.",
	},
	"E011": {
		Category: CategoryUsage,
		Message:  "Attribute scope not open",
		Detail:   "EndAttributes was called without a preceding BeginAttributes.",
	},
	"E012": {
		Category: CategoryUsage,
		Message:  "Declaration with the zero Kind",
		Detail:   "Open was called with Kind{}. Use TextKind, ElementKind or CustomKind.",
	},

	// ============================================
	// Scenario Errors (E020-E029)
	// ============================================

	"E020": {
		Category: CategoryScenario,
		Message:  "Cannot read scenario file",
		Detail:   "The scenario file does not exist or is not readable.",
	},
	"E021": {
		Category: CategoryScenario,
		Message:  "Invalid scenario node",
		Detail:   "A node must declare exactly one of 'open', 'custom' or 'text'.",
	},
	"E022": {
		Category: CategoryScenario,
		Message:  "Scenario has no passes",
		Detail:   "A scenario needs at least one pass to replay.",
	},
	"E023": {
		Category: CategoryScenario,
		Message:  "Invalid scenario YAML",
		Detail:   "The scenario file could not be parsed.",
	},
	"E024": {
		Category: CategoryScenario,
		Message:  "No passes left",
		Detail:   "Every pass of the scenario has already been applied.",
	},
	"E025": {
		Category: CategoryScenario,
		Message:  "Invalid outer pass",
		Detail:   "An outer pass patches the first child of the root and must declare at most one top-level node.",
	},

	// ============================================
	// Config Errors (E030-E039)
	// ============================================

	"E030": {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Detail:   "No incdom.json was found in the given directory or its parents.",
	},
	"E031": {
		Category: CategoryConfig,
		Message:  "Invalid config JSON",
		Detail:   "incdom.json could not be parsed.",
	},
	"E032": {
		Category: CategoryConfig,
		Message:  "Invalid config value",
		Detail:   "A configuration value is out of range.",
	},

	// ============================================
	// CLI Errors (E040-E049)
	// ============================================

	"E040": {
		Category: CategoryCLI,
		Message:  "Invalid flag value",
		Detail:   "A command-line flag has an unsupported value.",
	},
	"E041": {
		Category: CategoryCLI,
		Message:  "Server failed",
		Detail:   "The inspector server stopped with an error.",
	},
}

// GetAllCodes returns all registered error codes in ascending order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}

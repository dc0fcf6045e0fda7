package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Compile Errors (E100-E199)
	// ============================================

	"E101": {
		Category: CategoryCompile,
		Message:  "Template hole in tag name position",
		Detail:   "A value hole appears where an element's tag name belongs. Holes are supported in child content, attribute values, and whole-attribute (property bag) positions only.",
		DocURL:   "https://vango.dev/weft/errors/E101",
	},
	"E102": {
		Category: CategoryCompile,
		Message:  "Template hole lost during parsing",
		Detail:   "The markup parser discarded or relocated one or more value holes, so the compiled wires do not cover every interpolated value. This usually means a hole sits in an unsupported position, or the surrounding markup is invalid for the template's parse context.",
		DocURL:   "https://vango.dev/weft/errors/E102",
	},
	"E103": {
		Category: CategoryCompile,
		Message:  "Template produced no parse output",
		Detail:   "The literal segments parsed to an empty fragment. The parse context may be wrong for this markup (for example, table rows need SplitIn(\"table\", ...)).",
		DocURL:   "https://vango.dev/weft/errors/E103",
	},

	// ============================================
	// Runtime Errors (E200-E299)
	// ============================================

	"E201": {
		Category: CategoryRuntime,
		Message:  "No conversion for value",
		Detail:   "The value is not an Action and no registered factory for the placement kind accepted it. Register a factory with Define, or pass a value of a supported type.",
		DocURL:   "https://vango.dev/weft/errors/E201",
	},
	"E202": {
		Category: CategoryRuntime,
		Message:  "Wired node missing from skeleton clone",
		Detail:   "A compiled wire's structural path did not resolve inside a fresh clone of the template skeleton. The skeleton was mutated out-of-band between clone and wiring.",
		DocURL:   "https://vango.dev/weft/errors/E202",
	},
	"E203": {
		Category: CategoryRuntime,
		Message:  "Render target is not a container node",
		Detail:   "Target requires an element, document, or fragment node that can hold children.",
		DocURL:   "https://vango.dev/weft/errors/E203",
	},
	"E204": {
		Category: CategoryRuntime,
		Message:  "Value count does not match template holes",
		Detail:   "The number of interpolated values differs from the number of holes in the template's literal segments.",
		DocURL:   "https://vango.dev/weft/errors/E204",
	},

	// ============================================
	// Live Host Errors (E300-E399)
	// ============================================

	"E301": {
		Category: CategoryLive,
		Message:  "Snapshot store failure",
		Detail:   "The configured snapshot store rejected a rendered document.",
		DocURL:   "https://vango.dev/weft/errors/E301",
	},
	"E302": {
		Category: CategoryLive,
		Message:  "Live render failed",
		Detail:   "The view's value could not be rendered into the live document.",
		DocURL:   "https://vango.dev/weft/errors/E302",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
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

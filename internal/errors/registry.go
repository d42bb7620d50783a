package errors

import "sort"

// Template defines a registered error type.
type Template struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// Configuration (E100-E119)

	"E100": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The configuration file could not be parsed.",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is out of range or malformed.",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Configuration file not readable",
		Detail:   "The configuration file exists but could not be read.",
	},

	// Documents (E120-E139)

	"E120": {
		Category: CategoryDocument,
		Message:  "Document not readable",
		Detail:   "The document file does not exist or could not be read.",
	},
	"E121": {
		Category: CategoryDocument,
		Message:  "Invalid document syntax",
		Detail:   "Documents are YAML or JSON with a root mapping holding a 'root' node.",
	},
	"E122": {
		Category: CategoryDocument,
		Message:  "Invalid node",
		Detail:   "A node must be a scalar, a list, or a mapping with one of 'tag', 'text', 'component', 'prop', 'context', 'slot' or 'expr'.",
	},
	"E123": {
		Category: CategoryDocument,
		Message:  "Unknown component",
		Detail:   "The node refers to a component that is not declared under 'components'.",
	},
	"E124": {
		Category: CategoryDocument,
		Message:  "Invalid component definition",
		Detail:   "A component needs a 'render' node and may declare 'context' as a mapping.",
	},
	"E125": {
		Category: CategoryDocument,
		Message:  "Placeholder outside component",
		Detail:   "'prop', 'context', 'slot' and 'expr' placeholders resolve only inside a component.",
	},
	"E126": {
		Category: CategoryDocument,
		Message:  "Expression failed",
		Detail:   "An 'expr' placeholder could not be compiled or evaluated. Expressions see 'props' and 'context'.",
	},
	"E127": {
		Category: CategoryDocument,
		Message:  "Component cycle",
		Detail:   "A component renders itself, directly or through other components.",
	},

	// Rendering (E140-E149)

	"E140": {
		Category: CategoryRender,
		Message:  "Render failed",
		Detail:   "A component returned an error while the document was rendered.",
	},

	// Publishing (E150-E169)

	"E150": {
		Category: CategoryPublish,
		Message:  "Invalid publish target",
		Detail:   "Targets are '-' for stdout, a file path, or s3://bucket/key.",
	},
	"E151": {
		Category: CategoryPublish,
		Message:  "Write failed",
		Detail:   "The rendered markup could not be written to the target file.",
	},
	"E152": {
		Category: CategoryPublish,
		Message:  "Upload failed",
		Detail:   "The rendered markup could not be uploaded to S3.",
	},
	"E153": {
		Category: CategoryPublish,
		Message:  "History unavailable",
		Detail:   "The publish history database could not be opened or updated.",
	},

	// CLI (E180-E199)

	"E180": {
		Category: CategoryCLI,
		Message:  "Preview server failed",
		Detail:   "The preview server stopped with an error.",
	},
	"E181": {
		Category: CategoryCLI,
		Message:  "Invalid port",
		Detail:   "Ports must be between 1 and 65535.",
	},
}

// Codes returns all registered error codes in order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Lookup returns the template for an error code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}

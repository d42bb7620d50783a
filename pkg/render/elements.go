package render

// voidElements are elements that cannot have children and have no closing
// tag. Tags missing from the set render as regular open/close pairs.
var voidElements = map[string]bool{
	"area":    true,
	"base":    true,
	"br":      true,
	"col":     true,
	"command": true,
	"embed":   true,
	"hr":      true,
	"img":     true,
	"input":   true,
	"keygen":  true,
	"link":    true,
	"meta":    true,
	"param":   true,
	"source":  true,
	"track":   true,
	"wbr":     true,
}

// isVoidElement returns true if the tag is a void element.
func isVoidElement(tag string) bool {
	return voidElements[tag]
}

// IsVoidElement reports whether tag self-closes.
func IsVoidElement(tag string) bool {
	return isVoidElement(tag)
}

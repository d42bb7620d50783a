package vdom

import (
	"math"
	"strconv"
	"strings"
)

// unitlessProperties are style properties whose numeric values take no unit.
// Keys are in camelCase; CSSName converts them for output.
var unitlessProperties = map[string]bool{
	"animationIterationCount": true,
	"borderImageOutset":       true,
	"borderImageSlice":        true,
	"borderImageWidth":        true,
	"boxFlex":                 true,
	"boxFlexGroup":            true,
	"boxOrdinalGroup":         true,
	"columnCount":             true,
	"columns":                 true,
	"flex":                    true,
	"flexGrow":                true,
	"flexPositive":            true,
	"flexShrink":              true,
	"flexNegative":            true,
	"flexOrder":               true,
	"gridArea":                true,
	"gridRow":                 true,
	"gridRowEnd":              true,
	"gridRowSpan":             true,
	"gridRowStart":            true,
	"gridColumn":              true,
	"gridColumnEnd":           true,
	"gridColumnSpan":          true,
	"gridColumnStart":         true,
	"fontWeight":              true,
	"lineClamp":               true,
	"lineHeight":              true,
	"opacity":                 true,
	"order":                   true,
	"orphans":                 true,
	"tabSize":                 true,
	"widows":                  true,
	"zIndex":                  true,
	"zoom":                    true,
	"fillOpacity":             true,
	"floodOpacity":            true,
	"stopOpacity":             true,
	"strokeDasharray":         true,
	"strokeDashoffset":        true,
	"strokeMiterlimit":        true,
	"strokeOpacity":           true,
	"strokeWidth":             true,
}

// IsUnitless reports whether numeric values of the style property take no
// px suffix. Both camelCase and hyphenated names are accepted.
func IsUnitless(name string) bool {
	if strings.Contains(name, "-") {
		name = camelize(name)
	}
	if unitlessProperties[name] {
		return true
	}
	for _, prefix := range vendorPrefixes {
		if len(name) <= len(prefix) || !strings.EqualFold(name[:len(prefix)], prefix) {
			continue
		}
		rest := name[len(prefix):]
		if rest[0] >= 'A' && rest[0] <= 'Z' {
			return unitlessProperties[string(rest[0]+'a'-'A')+rest[1:]]
		}
	}
	return false
}

var vendorPrefixes = []string{"Webkit", "ms", "Moz", "O"}

// StyleValue formats a single style declaration value. ok is false when the
// declaration must be dropped (nil, NaN or a non-scalar value).
func StyleValue(name string, value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	}
	num, ok := FormatNumber(value)
	if !ok {
		return "", false
	}
	if IsUnitless(name) {
		return num, true
	}
	return num + "px", true
}

// FormatNumber formats integer and float values. NaN and non-numbers report
// false.
func FormatNumber(value any) (string, bool) {
	switch v := value.(type) {
	case int:
		return strconv.Itoa(v), true
	case int8:
		return strconv.FormatInt(int64(v), 10), true
	case int16:
		return strconv.FormatInt(int64(v), 10), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint8:
		return strconv.FormatUint(uint64(v), 10), true
	case uint16:
		return strconv.FormatUint(uint64(v), 10), true
	case uint32:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float32:
		if math.IsNaN(float64(v)) {
			return "", false
		}
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case float64:
		if math.IsNaN(v) {
			return "", false
		}
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}

// IsNumber reports whether value is an integer or float.
func IsNumber(value any) bool {
	switch value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}

// Truthy reports whether value counts as set: nil, false, "", zero and NaN
// do not.
func Truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float32:
		return v != 0 && !math.IsNaN(float64(v))
	case float64:
		return v != 0 && !math.IsNaN(v)
	}
	if s, ok := FormatNumber(value); ok {
		return s != "0"
	}
	return true
}

// CSSName converts a camelCase style property to its hyphenated form.
// A leading "ms" vendor prefix becomes "-ms-".
func CSSName(name string) string {
	if strings.Contains(name, "-") {
		return strings.ToLower(name)
	}
	var b strings.Builder
	b.Grow(len(name) + 4)
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'A' && c <= 'Z' {
			b.WriteByte('-')
			b.WriteByte(c + ('a' - 'A'))
			continue
		}
		b.WriteByte(c)
	}
	out := b.String()
	if strings.HasPrefix(out, "ms-") {
		out = "-" + out
	}
	return out
}

func camelize(name string) string {
	name = strings.TrimPrefix(name, "-")
	var b strings.Builder
	upper := false
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '-' {
			upper = true
			continue
		}
		if upper && c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		upper = false
		b.WriteByte(c)
	}
	return b.String()
}

func formatScalar(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	}
	if s, ok := FormatNumber(value); ok {
		return s
	}
	return ""
}

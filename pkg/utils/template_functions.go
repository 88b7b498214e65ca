package utils

import (
	"html/template"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

func GetTemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int { return a + b },

		"upper":     strings.ToUpper,
		"trim":      strings.TrimSpace,
		"hasPrefix": strings.HasPrefix,
		"contains":  strings.Contains,
		"truncate": func(s string, length int) string {
			runes := []rune(s)
			if len(runes) <= length {
				return s
			}
			return string(runes[:length]) + "..."
		},

		"default": func(defaultValue, value interface{}) interface{} {
			if isEmpty(value) {
				return defaultValue
			}
			return value
		},

		"px":       func(v float64) string { return FormatFloat(v) + "px" },
		"mm":       func(v float64) string { return FormatFloat(v) + "mm" },
		"imageURL": SafeImageURL,
	}
}

// FormatFloat renders v without trailing zeros, e.g. 148 or 0.5.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// IsHexColor accepts #rgb, #rgba, #rrggbb and #rrggbbaa.
func IsHexColor(value string) bool {
	return hexColorPattern.MatchString(strings.TrimSpace(value))
}

// SafeImageURL lets through the image sources a poster may reference:
// http(s) URLs, site-relative paths and base64 image data URIs. Anything else
// renders as an empty source.
func SafeImageURL(raw string) template.URL {
	value := strings.TrimSpace(raw)
	lower := strings.ToLower(value)

	switch {
	case value == "":
		return ""
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
	case strings.HasPrefix(value, "/") && !strings.HasPrefix(value, "//"):
	case strings.HasPrefix(lower, "data:image/") && strings.Contains(lower, ";base64,"):
	default:
		return ""
	}

	if strings.ContainsAny(value, "\"'<>\\ \n\r\t") {
		return ""
	}
	return template.URL(value)
}

func isEmpty(value interface{}) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)

	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Bool:
		return false
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Slice, reflect.Array, reflect.Map:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	}

	zero := reflect.Zero(v.Type())
	return reflect.DeepEqual(value, zero.Interface())
}

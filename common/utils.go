package common

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// EnsureString 把 provider 返回的任意 JSON 值压成字符串
func EnsureString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "Yes"
		}
		return "No"
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, EnsureString(item))
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(v))
		for _, k := range keys {
			parts = append(parts, EnsureString(v[k]))
		}
		return strings.Join(parts, " | ")
	default:
		return fmt.Sprintf("%v", v)
	}
}

var codeFencePattern = regexp.MustCompile("```json|```")

// StripCodeFence removes markdown code fence markers around a JSON body.
func StripCodeFence(s string) string {
	return strings.TrimSpace(codeFencePattern.ReplaceAllString(s, ""))
}

package audit

import "strings"

// Redacted replaces the value of every sensitive field in a persisted record
const Redacted = "[REDACTED]"

// DefaultSensitiveFields are redacted unless the configuration overrides them
var DefaultSensitiveFields = []string{"password", "token", "authToken", "apiKey"}

/* Redact walks a decoded body/query map and replaces the value of any
 * field whose name matches the sensitive list (case-insensitive).
 * Nested objects are walked recursively; the input map is not modified.
 */
func Redact(fields map[string]any, sensitive []string) map[string]any {
	if fields == nil {
		return nil
	}
	if len(sensitive) == 0 {
		sensitive = DefaultSensitiveFields
	}

	out := make(map[string]any, len(fields))
	for key, value := range fields {
		if isSensitive(key, sensitive) {
			out[key] = Redacted
			continue
		}
		if nested, ok := value.(map[string]any); ok {
			out[key] = Redact(nested, sensitive)
			continue
		}
		out[key] = value
	}
	return out
}

// RedactValues redacts a flat string map, such as query parameters
func RedactValues(values map[string]string, sensitive []string) map[string]string {
	if values == nil {
		return nil
	}
	if len(sensitive) == 0 {
		sensitive = DefaultSensitiveFields
	}

	out := make(map[string]string, len(values))
	for key, value := range values {
		if isSensitive(key, sensitive) {
			out[key] = Redacted
			continue
		}
		out[key] = value
	}
	return out
}

func isSensitive(field string, sensitive []string) bool {
	for _, name := range sensitive {
		if strings.EqualFold(field, name) {
			return true
		}
	}
	return false
}

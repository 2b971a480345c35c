// Package getsafe reads typed values out of decoded JSON payloads
// without panicking on missing or mistyped keys.
package getsafe

func String(payload map[string]any, key string) string {
	if v, ok := payload[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

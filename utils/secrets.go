package utils

// MaskSecret renders an API key safe for display: first three characters,
// a fixed filler, last three. Keys shorter than six characters (or empty)
// are reported as not set rather than partially leaked.
func MaskSecret(key string) string {
	if len(key) < 6 {
		return "Not Set"
	}
	return key[:3] + "*****" + key[len(key)-3:]
}

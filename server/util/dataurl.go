package util

import (
	"encoding/base64"
	"fmt"
	"regexp"
)

var dataURLPattern = regexp.MustCompile(`^data:([a-zA-Z0-9.+/-]+);base64,(.+)$`)

// ParseDataURL decodes a "data:<mime>;base64,<data>" payload into its MIME
// type and raw bytes. The MIME type is returned as declared; callers decide
// whether it is acceptable.
func ParseDataURL(raw string) (string, []byte, error) {
	m := dataURLPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", nil, fmt.Errorf("not a base64 data url")
	}

	data, err := base64.StdEncoding.DecodeString(m[2])
	if err != nil {
		return "", nil, fmt.Errorf("invalid base64 payload: %w", err)
	}

	return m[1], data, nil
}

// EncodeDataURL is the inverse of ParseDataURL.
func EncodeDataURL(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

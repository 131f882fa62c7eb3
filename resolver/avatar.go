package resolver

import (
	"fmt"
	"net/url"
	"strings"
)

var avatarPalette = []string{
	"1abc9c", "2ecc71", "3498db", "9b59b6", "34495e",
	"16a085", "27ae60", "2980b9", "8e44ad", "2c3e50",
	"f1c40f", "e67e22", "e74c3c", "f39c12", "d35400",
}

// PlaceholderURL synthesizes a deterministic avatar URL from a display name.
// The same name always yields the same URL, so a user whose image can no
// longer be found keeps a stable generated avatar instead of seeing an error.
func PlaceholderURL(displayName string) string {
	name := strings.TrimSpace(displayName)
	if name == "" {
		name = "Player"
	}

	sum := 0
	for _, r := range name {
		sum += int(r)
	}
	color := avatarPalette[sum%len(avatarPalette)]

	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=%s&color=fff&size=256",
		url.QueryEscape(name), color)
}

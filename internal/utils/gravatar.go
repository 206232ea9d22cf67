package utils

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// GravatarURL returns the avatar image URL for an email address.
// Gravatar hashes the trimmed, lowercased address with MD5; unknown
// addresses fall back to a generated "retro" image.
func GravatarURL(email string, size int) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	hash := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=%d&d=retro&r=g", hash, size)
}

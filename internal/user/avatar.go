package user

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"
)

// AvatarFunc derives an avatar reference from an email address
type AvatarFunc func(email string) string

// Gravatar builds protocol-relative Gravatar URLs. No request is made; the
// URL is a pure function of the email.
func Gravatar(size int, rating, fallback string) AvatarFunc {
	query := url.Values{}
	query.Set("s", fmt.Sprintf("%d", size))
	query.Set("r", rating)
	query.Set("d", fallback)
	encoded := query.Encode()

	return func(email string) string {
		sum := md5.Sum([]byte(NormalizeEmail(email)))
		return "//www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?" + encoded
	}
}

// DefaultAvatar matches the 200px, pg-rated, mystery-man fallback
var DefaultAvatar = Gravatar(200, "pg", "mm")

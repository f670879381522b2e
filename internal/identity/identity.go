// Package identity derives avatar identifiers and normalizes profile links.
package identity

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"
)

var schemePattern = regexp.MustCompile(`(?i)^(f|ht)tps?://`)

// Hash returns the hex md5 digest of the trimmed, lowercased input.
// Applied to an email address it yields the account's picture id.
func Hash(s string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(s))))
	return hex.EncodeToString(sum[:])
}

// AvatarURL builds the avatar location for a picture id. A size <= 0
// omits the size parameter.
func AvatarURL(server, pictureID string, size int) string {
	url := strings.TrimRight(server, "/") + "/avatar/" + pictureID
	if size > 0 {
		url += "?s=" + strconv.Itoa(size)
	}
	return url
}

// AddHTTP prefixes a scheme-less link with http://. Empty input stays empty.
func AddHTTP(link string) string {
	link = strings.TrimSpace(link)
	if link == "" || schemePattern.MatchString(link) {
		return link
	}
	return "http://" + link
}

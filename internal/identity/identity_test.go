package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHash(t *testing.T) {
	// md5("")
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", Hash(""))
	assert.Equal(t, Hash("user@example.com"), Hash("  User@Example.COM "))
	assert.Len(t, Hash("someone@example.com"), 32)
}

func TestAvatarURL(t *testing.T) {
	assert.Equal(t, "http://gravatar.com/avatar/abc", AvatarURL("http://gravatar.com", "abc", 0))
	assert.Equal(t, "http://gravatar.com/avatar/abc?s=80", AvatarURL("http://gravatar.com/", "abc", 80))
}

func TestAddHTTP(t *testing.T) {
	tests := map[string]string{
		"":                     "",
		"example.com":          "http://example.com",
		"http://example.com":   "http://example.com",
		"HTTPS://example.com":  "HTTPS://example.com",
		"ftp://files.example":  "ftp://files.example",
		" www.example.com/me ": "http://www.example.com/me",
	}
	for in, want := range tests {
		if got := AddHTTP(in); got != want {
			t.Errorf("AddHTTP(%q) = %q, want %q", in, got, want)
		}
	}
}

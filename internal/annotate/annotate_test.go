package annotate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		mentions []string
		tags     []string
	}{
		{"plain text", "no tokens here", []string{}, []string{}},
		{"ordered", "hello @a @b #x #y", []string{"a", "b"}, []string{"x", "y"}},
		{"duplicates kept", "@bob hi @bob", []string{"bob", "bob"}, []string{}},
		{"adjacent", "#tag@user", []string{"user"}, []string{"tag"}},
		{"repeated marker", "@@alice and ##go", []string{"alice"}, []string{"go"}},
		{"charset", "@john_doe-1! #go-lang.", []string{"john_doe-1"}, []string{"go-lang"}},
		{"lone markers", "@ # @!", []string{}, []string{}},
		{"case preserved", "@Alice #GoLang", []string{"Alice"}, []string{"GoLang"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.text)
			assert.Equal(t, tt.mentions, got.Mentions)
			assert.Equal(t, tt.tags, got.Tags)
		})
	}
}

func TestMentionsAndTags(t *testing.T) {
	text := "ping @Ann about #release and #Release"
	require.Equal(t, []string{"Ann"}, Mentions(text))
	require.Equal(t, []string{"release", "Release"}, Tags(text))
}

func TestCanonicalSet(t *testing.T) {
	got := CanonicalSet([]string{"Go", "go", "Rust", "", " GO "})
	assert.Equal(t, []string{"go", "rust"}, got)
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "a,b", Join([]string{"a", "b"}, ","))
	assert.Equal(t, "", Join(nil, ","))
}

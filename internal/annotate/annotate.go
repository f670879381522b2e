// Package annotate extracts @mentions and #hashtags from post text.
package annotate

import (
	"regexp"
	"strings"
)

var (
	mentionPattern = regexp.MustCompile(`@+[A-Za-z0-9_-]+`)
	tagPattern     = regexp.MustCompile(`#+[A-Za-z0-9_-]+`)
)

// Annotations holds the raw tokens found in a piece of text, in order of
// appearance. Duplicates are kept; stores deduplicate on write.
type Annotations struct {
	Mentions []string
	Tags     []string
}

// Parse returns the mentions and hashtags contained in text.
func Parse(text string) Annotations {
	return Annotations{
		Mentions: extract(mentionPattern, text, '@'),
		Tags:     extract(tagPattern, text, '#'),
	}
}

// Mentions returns the account handles mentioned in text.
func Mentions(text string) []string {
	return extract(mentionPattern, text, '@')
}

// Tags returns the hashtags contained in text.
func Tags(text string) []string {
	return extract(tagPattern, text, '#')
}

func extract(re *regexp.Regexp, text string, marker byte) []string {
	matches := re.FindAllString(text, -1)
	if len(matches) == 0 {
		return []string{}
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.TrimLeft(m, string(marker)))
	}
	return out
}

// Canonical is the form used for storage and comparison of handles and tags.
func Canonical(token string) string {
	return strings.ToLower(strings.TrimSpace(token))
}

// CanonicalSet lowercases tokens and drops duplicates and empty values,
// keeping first-seen order.
func CanonicalSet(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		c := Canonical(t)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// Join renders tokens as delimited text.
func Join(tokens []string, sep string) string {
	return strings.Join(tokens, sep)
}

// Package title turns raw media folder names into search queries.
package title

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Rule is a single pure string transform in the cleaning pipeline.
type Rule func(string) string

var (
	bracketRegex     = regexp.MustCompile(`\[.*?\]`)
	seasonRegex      = regexp.MustCompile(`S\d{2}`)
	yearParenRegex   = regexp.MustCompile(`\s*\(\d{4}\)`)
	releaseTagRegex  = regexp.MustCompile(`(?:WEB-DL|HDR|2160p|H\.265|SDR|1080p)`)
	whitespaceRegex  = regexp.MustCompile(`\s+`)
	dotRunRegex      = regexp.MustCompile(`\.\.+`)
	parenthesesRegex = regexp.MustCompile(`\(.*?\)`)
	yearRegex        = regexp.MustCompile(`\((\d{4})\)`)
)

// NormalizeUnicode composes decomposed characters (NFC) so names read from
// HFS+ volumes clean the same as names typed by hand.
func NormalizeUnicode(s string) string {
	return norm.NFC.String(s)
}

// StripBrackets removes every [...] group, e.g. "[1080p]" or "[WEB]".
func StripBrackets(s string) string {
	return bracketRegex.ReplaceAllString(s, "")
}

// StripSeasons removes season markers such as "S01".
func StripSeasons(s string) string {
	return seasonRegex.ReplaceAllString(s, "")
}

// StripYear removes the first "(YYYY)" annotation and any whitespace before it.
func StripYear(s string) string {
	loc := yearParenRegex.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + s[loc[1]:]
}

// StripReleaseTags removes known quality tokens. Matching is case-sensitive.
func StripReleaseTags(s string) string {
	return releaseTagRegex.ReplaceAllString(s, "")
}

// CollapseWhitespace folds whitespace runs into a single space.
func CollapseWhitespace(s string) string {
	return whitespaceRegex.ReplaceAllString(s, " ")
}

// CollapseDots folds runs of two or more dots into one.
func CollapseDots(s string) string {
	return dotRunRegex.ReplaceAllString(s, ".")
}

// DefaultRules is the cleaning pipeline applied by Clean, in order.
var DefaultRules = []Rule{
	NormalizeUnicode,
	StripBrackets,
	StripSeasons,
	StripYear,
	StripReleaseTags,
	CollapseWhitespace,
	CollapseDots,
	strings.TrimSpace,
}

// Apply runs s through rules in order.
func Apply(s string, rules []Rule) string {
	for _, rule := range rules {
		s = rule(s)
	}
	return s
}

// Clean derives the search title from a raw folder name.
//
//	Clean("Show.Name.[1080p].S01.(2021)") == "Show.Name."
func Clean(folderName string) string {
	return Apply(folderName, DefaultRules)
}

// Year returns the first "(YYYY)" year in s, or 0 if there is none.
func Year(s string) int {
	m := yearRegex.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return year
}

// StripParentheses removes every (...) group and trims the result.
// Used on queries right before they are sent to the provider.
func StripParentheses(s string) string {
	return strings.TrimSpace(parenthesesRegex.ReplaceAllString(s, ""))
}

// FallbackQuery returns the first space-delimited token of a clean title.
func FallbackQuery(cleanTitle string) string {
	token, _, _ := strings.Cut(cleanTitle, " ")
	return token
}

// Info is everything derived locally from a folder name.
type Info struct {
	Raw      string `json:"raw"`
	Clean    string `json:"clean_title"`
	Year     int    `json:"year,omitempty"`
	Fallback string `json:"fallback"`
}

// Parse derives the clean title, target year, and fallback token for a folder name.
func Parse(folderName string) Info {
	clean := Clean(folderName)
	return Info{
		Raw:      folderName,
		Clean:    clean,
		Year:     Year(folderName),
		Fallback: FallbackQuery(clean),
	}
}

// MatchesYear reports whether date (e.g. "2019-03-01") begins with year.
// This is a string-prefix check; dates are never parsed.
func MatchesYear(date string, year int) bool {
	if year == 0 {
		return false
	}
	return strings.HasPrefix(date, strconv.Itoa(year))
}

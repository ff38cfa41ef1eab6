package market

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Bucket is a coarse market segment grouping free-text sector labels
type Bucket struct {
	Key      string
	Label    string
	Keywords []string // lowercase fragments matched at the start of a word
}

// Buckets is the fixed sector classification table
var Buckets = []Bucket{
	{Key: "tmt", Label: "TMT", Keywords: []string{"technology", "communication", "media", "telecom",
		"semiconductor", "software", "internet"}},
	{Key: "defensive", Label: "Defensive", Keywords: []string{"healthcare", "health care", "pharma", "biopharma", "utilities",
		"consumer staples", "consumer"}},
	{Key: "macro", Label: "Macroeconomics", Keywords: []string{"broad market", "bonds", "treasur", "commodit",
		"crypto", "currenc", "forex"}},
	{Key: "cyclical", Label: "Cyclical", Keywords: []string{"financ", "bank", "energy", "oil", "industrial",
		"real estate", "materials", "mining"}},
}

// LookupBucket finds a bucket by key, case-insensitive
func LookupBucket(key string) (Bucket, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, b := range Buckets {
		if b.Key == key {
			return b, true
		}
	}
	return Bucket{}, false
}

// Classify returns keys of all buckets matched by any of the sector labels, in table order.
// Classification is not exclusive, unmatched labels are ignored.
func Classify(sectors []string) []string {
	res := []string{}
	for _, b := range Buckets {
		if b.matches(sectors) {
			res = append(res, b.Key)
		}
	}
	return res
}

func (b Bucket) matches(sectors []string) bool {
	for _, s := range sectors {
		label := strings.ToLower(s)
		for _, kw := range b.Keywords {
			if hasWordPrefix(label, kw) {
				return true
			}
		}
	}
	return false
}

// hasWordPrefix reports whether kw occurs in label starting at a word boundary,
// so "oil" matches "Oil & Gas" but not "turmoil"
func hasWordPrefix(label, kw string) bool {
	for from := 0; from < len(label); {
		idx := strings.Index(label[from:], kw)
		if idx < 0 {
			return false
		}
		pos := from + idx
		if pos == 0 {
			return true
		}
		if prev, _ := utf8.DecodeLastRuneInString(label[:pos]); !unicode.IsLetter(prev) && !unicode.IsDigit(prev) {
			return true
		}
		from = pos + 1
	}
	return false
}

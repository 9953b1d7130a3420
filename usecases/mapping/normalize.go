package mapping

import (
	"strings"
	"unicode"
)

// normalizeFieldName folds case and strips whitespace, punctuation and the
// usual separators (-, _, ., /) so that "Order-ID", "order id" and "order_id"
// all compare equal. Letters and digits of any script are kept.
func normalizeFieldName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

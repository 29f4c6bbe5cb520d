package helpers

import (
	"sort"
	"strings"

	"robosnap_server/schemas"
)

// PairSeparator joins the two participant names of a thread id; names cannot contain it
const PairSeparator = ":"

// PairKey returns the canonical thread id for two users, independent of order
func PairKey(a string, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + PairSeparator + b
}

// SortMessages orders a thread by ascending timestamp, ties broken by id
func SortMessages(chain []schemas.MessageSchema) {
	sort.SliceStable(chain, func(i, j int) bool {
		if chain[i].Timestamp != chain[j].Timestamp {
			return chain[i].Timestamp < chain[j].Timestamp
		}
		return chain[i].ID < chain[j].ID
	})
}

// BlankText reports whether a message body has nothing but whitespace
func BlankText(text string) bool {
	return strings.TrimSpace(text) == ""
}

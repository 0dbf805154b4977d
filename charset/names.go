package charset

import "strings"

// NameAlias is one entry of the decoder registry's name table: a decoder's
// canonical name plus the aliases accepted when resolving a user-supplied
// encoding string (spec.md §4.3). Adapted from zxinggo/charset's ECI
// value/name/alias table, which served the same "many names, one
// canonical identity" role for QR Code Extended Channel Interpretations.
type NameAlias struct {
	Name    string
	Aliases []string
}

// Resolve normalizes a user-supplied encoding descriptor against the given
// table of (name, aliases) records: exact case-insensitive name match
// first, then prefix match against aliases (case-sensitive for
// single-character aliases, case-insensitive otherwise). Returns the
// canonical name and true on success.
func Resolve(table []NameAlias, query string) (string, bool) {
	if query == "" {
		return "", false
	}
	lowerQuery := strings.ToLower(query)
	for _, rec := range table {
		if strings.ToLower(rec.Name) == lowerQuery {
			return rec.Name, true
		}
	}
	for _, rec := range table {
		for _, alias := range rec.Aliases {
			if len(alias) == 1 {
				if strings.HasPrefix(query, alias) {
					return rec.Name, true
				}
				continue
			}
			if strings.HasPrefix(lowerQuery, strings.ToLower(alias)) {
				return rec.Name, true
			}
		}
	}
	return "", false
}

package corrade

import (
	"net/url"
	"strings"

	"github.com/example/curator/internal/ports/secondary"
)

// parseResponse decodes Corrade's URL-encoded key=value response body.
// Pairs are joined with '&'; both halves arrive percent-encoded.
func parseResponse(body string) map[string]string {
	result := make(map[string]string)
	for _, pair := range strings.Split(body, "&") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		result[unescape(key)] = unescape(value)
	}
	return result
}

// parseInventoryData decodes the CSV payload of an inventory ls response.
// The payload is a flat field,value sequence: name,<name>,item,<uuid>,
// type,<type>,... repeating per entry. Values may be quoted and contain
// commas; names additionally arrive URL-encoded.
func parseInventoryData(data, parentID string) []*secondary.RemoteEntry {
	if data == "" {
		return nil
	}

	fields := splitQuoted(data)

	var entries []*secondary.RemoteEntry
	var current *secondary.RemoteEntry

	flush := func() {
		if current != nil && current.ID != "" && current.Name != "" {
			entries = append(entries, current)
		}
	}

	for i := 0; i+1 < len(fields); i += 2 {
		field := strings.ToLower(strings.TrimSpace(fields[i]))
		value := strings.Trim(strings.TrimSpace(fields[i+1]), `"`)

		switch field {
		case "name":
			// A name field starts the next entry
			flush()
			current = &secondary.RemoteEntry{ParentID: parentID, Name: unescape(value)}
		case "item":
			if current != nil {
				current.ID = value
			}
		case "type":
			if current != nil {
				current.Folder = strings.EqualFold(value, "Folder")
			}
		}
	}
	flush()

	return entries
}

// splitQuoted splits on commas outside double quotes.
func splitQuoted(s string) []string {
	var fields []string
	var b strings.Builder
	inQuotes := false

	for _, r := range s {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			b.WriteRune(r)
		case r == ',' && !inQuotes:
			fields = append(fields, b.String())
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	fields = append(fields, b.String())

	return fields
}

// unescape reverses URL encoding, keeping the raw text when it is not
// valid encoding (names can legitimately contain stray '%').
func unescape(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return s
}

package twse

import (
	"regexp"
	"strings"
)

// innerToken captures the text between an opening and a closing tag, e.g.
// `<p style= color:red>+</p>`.
var innerToken = regexp.MustCompile(`>([^<>]*)<`)

// ExtractDirection unwraps the exchange's decorated UpsOrDowns value.
//
// "" and "X" (no comparison available) come back unchanged. A value without any
// markup is returned trimmed.
func ExtractDirection(raw string) string {
	if raw == "" || raw == "X" {
		return raw
	}
	m := innerToken.FindStringSubmatch(raw)
	if m == nil {
		return strings.TrimSpace(raw)
	}
	return strings.TrimSpace(m[1])
}

package queryflexi

import "strings"

// annotation is a selection suffix that only means something to the wire
// protocol and is cut before the field list is sent as detail=custom:...
type annotation struct {
	suffix string
	strip  int
}

// annotations is checked in order; the first matching suffix wins.
var annotations = []annotation{
	{suffix: "@removeAll", strip: 10},
	{suffix: "@showAs", strip: 7},
	{suffix: "@action", strip: 7},
}

// EscapeSelection strips protocol annotations from selection fields.
//
// Matching is on the exact suffix, so a field whose real name happens to end
// in one of the annotations is cut as well.
func EscapeSelection(fields []string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = escapeField(f)
	}
	return out
}

func escapeField(f string) string {
	for _, a := range annotations {
		if strings.HasSuffix(f, a.suffix) {
			return f[:len(f)-a.strip]
		}
	}
	return f
}

package document

import "strings"

// CodePrefix marks an identifier as a business code rather than the
// provider's internal numeric id.
const CodePrefix = "code:"

// ExternalIDsField holds the list of alternative identifiers of a row.
const ExternalIDsField = "external-ids"

// AliasIdentity promotes code aliases to row identifiers.
//
// For every row of the resource collection whose external-ids[0] starts with
// "code:", the row's id is overwritten with that prefixed value. Rows without
// a code alias are left untouched. Rows are rewritten in place and the same
// document is returned.
//
// Returns MalformedResponseError if the document has no collection keyed by
// resource.
func AliasIdentity(doc Document, resource string) (Document, error) {
	rows, ok := doc.Collection(resource)
	if !ok {
		return nil, &MalformedResponseError{Resource: resource}
	}

	for _, row := range rows {
		if code, ok := codeAlias(row); ok {
			row["id"] = code
		}
	}
	return doc, nil
}

// codeAlias returns external-ids[0] when it is a code alias.
func codeAlias(row Record) (string, bool) {
	raw, ok := row[ExternalIDsField]
	if !ok {
		return "", false
	}

	var first any
	switch ids := raw.(type) {
	case []any:
		if len(ids) == 0 {
			return "", false
		}
		first = ids[0]
	case []string:
		if len(ids) == 0 {
			return "", false
		}
		first = ids[0]
	default:
		return "", false
	}

	s, ok := first.(string)
	if !ok || !strings.HasPrefix(s, CodePrefix) {
		return "", false
	}
	return s, true
}

package db

import "strings"

// jsonPathRoot prefixes attribute identifiers of JSON indexes.
const jsonPathRoot = "$."

// IndexAttribute is one field of an FT index as reported by FT.INFO.
type IndexAttribute struct {
	Identifier string // hash field or JSON path
	Attribute  string // AS alias, equals Identifier when no alias is set
	Type       string // TAG, TEXT, NUMERIC, VECTOR, GEO ...
}

// FieldName returns the name queries use for the attribute:
// the alias when present, else the identifier without a leading "$.".
func (a IndexAttribute) FieldName() string {
	if a.Attribute != "" {
		return a.Attribute
	}
	return strings.TrimPrefix(a.Identifier, jsonPathRoot)
}

// IndexInfo is the subset of FT.INFO needed to reconstruct an index's field contract.
type IndexInfo struct {
	Name       string
	Attributes []IndexAttribute
}

// IsValidIdentifier returns true if s matches [a-zA-Z0-9_:-]+.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		isSpecial := r == '_' || r == ':' || r == '-'
		if !isAlpha && !isDigit && !isSpecial {
			return false
		}
	}
	return true
}

package services

import (
	"regexp"
	"strings"
)

// DocumentKindNationalID is the single document kind the automatic check
// supports. Everything else goes straight to manual review.
const DocumentKindNationalID = "national_id"

// documentTypeMarker is the institutional header every supported document
// carries. Without it field extraction is pointless: the field patterns would
// each fail and bury the real problem under four misleading reasons.
const documentTypeMarker = "NATIONAL IDENTITY CARD"

// FieldMatchResult maps each recognized document field to its matched value.
// An empty string means the field was not found, which is a validation
// concern, not a matching error.
type FieldMatchResult struct {
	WrongDocumentType bool   `json:"wrongDocumentType"`
	Identifier        string `json:"identifier"`
	IssueDate         string `json:"issueDate"`
	ExpiryDate        string `json:"expiryDate"`
	HolderName        string `json:"holderName"`
}

// fieldPattern is one entry of the pattern table: a labeled prefix with
// optional punctuation, then the value up to a line or next-field boundary.
// Patterns are data so each field can be unit-tested on its own.
type fieldPattern struct {
	field  string
	re     *regexp.Regexp
	assign func(*FieldMatchResult, string)
}

var fieldPatterns = []fieldPattern{
	{
		field: "identifier",
		re:    regexp.MustCompile(`(?i)ID\s*(?:NUMBER|NO)\.?\s*[:#]?\s*([A-Z0-9][A-Z0-9-]*)`),
		assign: func(m *FieldMatchResult, v string) {
			m.Identifier = v
		},
	},
	{
		field: "issueDate",
		re:    regexp.MustCompile(`(?i)DATE\s+OF\s+ISSUE\s*:?\s*([0-9]{1,2}[./-][0-9]{1,2}[./-][0-9]{2,4})`),
		assign: func(m *FieldMatchResult, v string) {
			m.IssueDate = v
		},
	},
	{
		field: "expiryDate",
		re:    regexp.MustCompile(`(?i)DATE\s+OF\s+EXPIRY\s*:?\s*([0-9]{1,2}[./-][0-9]{1,2}[./-][0-9]{2,4})`),
		assign: func(m *FieldMatchResult, v string) {
			m.ExpiryDate = v
		},
	},
	{
		field: "holderName",
		// Value runs until a newline or the label of another field.
		re: regexp.MustCompile(`(?i)(?:FULL\s+)?NAME\s*:?\s*([A-Za-z][A-Za-z ,.'-]*?)\s*(?:\n|$|ID\s*(?:NUMBER|NO)|DATE\s+OF\s+(?:ISSUE|EXPIRY))`),
		assign: func(m *FieldMatchResult, v string) {
			m.HolderName = strings.TrimSpace(v)
		},
	},
}

// MatchFields runs the pattern table against the extracted full text. It is a
// pure function of its input: same text, same result.
//
// When the document-type marker is missing the result is flagged and no field
// patterns run at all; the validator turns that into a single reason instead
// of four field-not-found ones.
func MatchFields(fullText string) FieldMatchResult {
	var result FieldMatchResult

	if !strings.Contains(strings.ToUpper(fullText), documentTypeMarker) {
		result.WrongDocumentType = true
		return result
	}

	for _, p := range fieldPatterns {
		// First match only; later occurrences are ignored.
		if m := p.re.FindStringSubmatch(fullText); m != nil {
			p.assign(&result, m[1])
		}
	}
	return result
}

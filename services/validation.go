package services

import (
	"strings"
)

// Reason strings are user-facing; the client shows them verbatim, so they
// double as the failure taxonomy.
const (
	ReasonWrongDocumentType = "Document is not a recognized national identity card"
	ReasonIdentifierMissing = "ID number not found"
	ReasonIssueDateMissing  = "Issue date not found"
	ReasonExpiryDateMissing = "Expiry date not found"
	ReasonNameMismatch      = "Name on document does not match your profile name"
)

// ValidationVerdict is the outcome of checking matched fields against the
// structural requirements and the requester's on-file name.
type ValidationVerdict struct {
	Valid     bool             `json:"valid"`
	NameMatch bool             `json:"nameMatch"`
	Fields    FieldMatchResult `json:"fields"`
	Reasons   []string         `json:"reasons"`
}

// ValidateDocument evaluates the rules in fixed order, appending one reason
// per failed rule so the user sees the complete list, not just the first
// problem. The wrong-document-type case is the one exception: it returns
// immediately with that single reason, since the field checks would only
// restate it four ways.
//
// profileName may be empty (nothing on file); the name rule is skipped then,
// and NameMatch stays false, which keeps the automatic-approval path closed.
func ValidateDocument(fields FieldMatchResult, profileName string) ValidationVerdict {
	verdict := ValidationVerdict{Fields: fields, Reasons: []string{}}

	if fields.WrongDocumentType {
		verdict.Reasons = append(verdict.Reasons, ReasonWrongDocumentType)
		return verdict
	}

	if fields.Identifier == "" {
		verdict.Reasons = append(verdict.Reasons, ReasonIdentifierMissing)
	}
	if fields.IssueDate == "" {
		verdict.Reasons = append(verdict.Reasons, ReasonIssueDateMissing)
	}
	if fields.ExpiryDate == "" {
		verdict.Reasons = append(verdict.Reasons, ReasonExpiryDateMissing)
	}

	if profileName != "" {
		verdict.NameMatch = nameTokensMatch(profileName, fields.HolderName)
		if !verdict.NameMatch {
			verdict.Reasons = append(verdict.Reasons, ReasonNameMismatch)
		}
	}

	verdict.Valid = len(verdict.Reasons) == 0
	return verdict
}

// nameTokensMatch checks the on-file name against the holder name printed on
// the document. Token-based and order-insensitive: every on-file token must
// appear as a substring of some holder token, so "Jane Q. Public" matches
// "PUBLIC, JANE Q" and middle names or suffixes on the document don't hurt.
// The containment is deliberately asymmetric and tolerant of OCR noise; the
// manual-review queue is the backstop for anything it waves through.
func nameTokensMatch(profileName, holderName string) bool {
	profileTokens := nameTokens(profileName)
	holderTokens := nameTokens(holderName)
	if len(profileTokens) == 0 || len(holderTokens) == 0 {
		return false
	}

	for _, want := range profileTokens {
		found := false
		for _, have := range holderTokens {
			if strings.Contains(have, want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// nameTokens splits on whitespace and commas, trims edge punctuation, and
// lowercases, discarding anything that ends up empty.
func nameTokens(name string) []string {
	raw := strings.FieldsFunc(name, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.ToLower(strings.Trim(t, ".'-"))
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

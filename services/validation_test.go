package services

import (
	"reflect"
	"testing"
)

func completeFields() FieldMatchResult {
	return FieldMatchResult{
		Identifier: "AB-123456",
		IssueDate:  "01/02/2020",
		ExpiryDate: "01/02/2030",
		HolderName: "PUBLIC, JANE Q",
	}
}

func TestValidateDocumentAllGood(t *testing.T) {
	verdict := ValidateDocument(completeFields(), "Jane Q. Public")

	if !verdict.Valid {
		t.Fatalf("expected valid verdict, got reasons %v", verdict.Reasons)
	}
	if !verdict.NameMatch {
		t.Fatal("expected name match")
	}
	if len(verdict.Reasons) != 0 {
		t.Fatalf("expected no reasons, got %v", verdict.Reasons)
	}
}

func TestValidateDocumentMissingExpiryOnly(t *testing.T) {
	fields := completeFields()
	fields.ExpiryDate = ""

	verdict := ValidateDocument(fields, "Jane Q. Public")

	if verdict.Valid {
		t.Fatal("expected invalid verdict")
	}
	if !verdict.NameMatch {
		t.Fatal("expected name match to still hold")
	}
	want := []string{"Expiry date not found"}
	if !reflect.DeepEqual(verdict.Reasons, want) {
		t.Fatalf("expected reasons %v, got %v", want, verdict.Reasons)
	}
}

func TestValidateDocumentReasonOrder(t *testing.T) {
	verdict := ValidateDocument(FieldMatchResult{}, "Jane Q. Public")

	want := []string{
		ReasonIdentifierMissing,
		ReasonIssueDateMissing,
		ReasonExpiryDateMissing,
		ReasonNameMismatch,
	}
	if !reflect.DeepEqual(verdict.Reasons, want) {
		t.Fatalf("expected reasons in fixed order %v, got %v", want, verdict.Reasons)
	}
}

func TestValidateDocumentWrongTypeShortCircuits(t *testing.T) {
	verdict := ValidateDocument(FieldMatchResult{WrongDocumentType: true}, "Jane Q. Public")

	if verdict.Valid {
		t.Fatal("expected invalid verdict")
	}
	want := []string{ReasonWrongDocumentType}
	if !reflect.DeepEqual(verdict.Reasons, want) {
		t.Fatalf("expected the single wrong-type reason, got %v", verdict.Reasons)
	}
}

func TestValidateDocumentEmptyProfileNameSkipsNameRule(t *testing.T) {
	verdict := ValidateDocument(completeFields(), "")

	if !verdict.Valid {
		t.Fatalf("expected valid verdict with no name on file, got reasons %v", verdict.Reasons)
	}
	if verdict.NameMatch {
		t.Fatal("expected NameMatch false when no name is on file")
	}
}

func TestNameTokensMatch(t *testing.T) {
	tests := []struct {
		name    string
		profile string
		holder  string
		want    bool
	}{
		{"reordered with punctuation", "Jane Q. Public", "PUBLIC, JANE Q", true},
		{"extra middle name on document", "Jane Public", "JANE MARIE PUBLIC", true},
		{"initial as substring", "Jane Q Public", "PUBLIC, JANE QUINN", true},
		{"different surname", "Jane Public", "JANE PRIVATE", false},
		{"empty holder", "Jane Public", "", false},
		{"holder missing a profile token", "Jane Marie Public", "JANE PUBLIC", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := nameTokensMatch(tc.profile, tc.holder)
			if got != tc.want {
				t.Fatalf("nameTokensMatch(%q, %q) = %v, expected %v", tc.profile, tc.holder, got, tc.want)
			}
		})
	}
}

func TestNameTokens(t *testing.T) {
	got := nameTokens(" Public,  Jane Q. ")
	want := []string{"public", "jane", "q"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected tokens %v, got %v", want, got)
	}
}

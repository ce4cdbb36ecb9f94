package services

import (
	"reflect"
	"testing"
)

const sampleCardText = `NATIONAL IDENTITY CARD
NAME: PUBLIC, JANE Q
ID NUMBER: AB-123456
DATE OF ISSUE: 01/02/2020
DATE OF EXPIRY: 01/02/2030`

func TestMatchFieldsCompleteDocument(t *testing.T) {
	result := MatchFields(sampleCardText)

	if result.WrongDocumentType {
		t.Fatal("expected document type to be recognized")
	}
	if result.Identifier != "AB-123456" {
		t.Errorf("expected identifier AB-123456, got %q", result.Identifier)
	}
	if result.IssueDate != "01/02/2020" {
		t.Errorf("expected issue date 01/02/2020, got %q", result.IssueDate)
	}
	if result.ExpiryDate != "01/02/2030" {
		t.Errorf("expected expiry date 01/02/2030, got %q", result.ExpiryDate)
	}
	if result.HolderName != "PUBLIC, JANE Q" {
		t.Errorf("expected holder name PUBLIC, JANE Q, got %q", result.HolderName)
	}
}

func TestMatchFieldsIsPure(t *testing.T) {
	first := MatchFields(sampleCardText)
	second := MatchFields(sampleCardText)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results for identical input, got %+v then %+v", first, second)
	}
}

func TestMatchFieldsMissingMarkerSkipsFields(t *testing.T) {
	result := MatchFields(`DRIVER LICENSE
NAME: PUBLIC, JANE Q
ID NUMBER: AB-123456`)

	if !result.WrongDocumentType {
		t.Fatal("expected WrongDocumentType for a document without the marker")
	}
	// No field patterns run once the marker is missing.
	if result.Identifier != "" || result.HolderName != "" {
		t.Errorf("expected no field matches, got %+v", result)
	}
}

func TestMatchFieldsMarkerIsCaseInsensitive(t *testing.T) {
	result := MatchFields("national identity card\nID NUMBER: X99")
	if result.WrongDocumentType {
		t.Fatal("expected lowercase marker to be recognized")
	}
	if result.Identifier != "X99" {
		t.Errorf("expected identifier X99, got %q", result.Identifier)
	}
}

func TestMatchFieldsLabelVariants(t *testing.T) {
	tests := []struct {
		name string
		text string
		want FieldMatchResult
	}{
		{
			name: "id no abbreviation",
			text: "NATIONAL IDENTITY CARD\nID NO. C-42",
			want: FieldMatchResult{Identifier: "C-42"},
		},
		{
			name: "hash separator",
			text: "NATIONAL IDENTITY CARD\nID NUMBER # 778899",
			want: FieldMatchResult{Identifier: "778899"},
		},
		{
			name: "full name label",
			text: "NATIONAL IDENTITY CARD\nFULL NAME: John Smith\n",
			want: FieldMatchResult{HolderName: "John Smith"},
		},
		{
			name: "name runs until next label",
			text: "NATIONAL IDENTITY CARD NAME: John Smith ID NUMBER: 5",
			want: FieldMatchResult{HolderName: "John Smith", Identifier: "5"},
		},
		{
			name: "dotted dates",
			text: "NATIONAL IDENTITY CARD\nDATE OF ISSUE 1.2.2019\nDATE OF EXPIRY 1.2.29",
			want: FieldMatchResult{IssueDate: "1.2.2019", ExpiryDate: "1.2.29"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := MatchFields(tc.text)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestMatchFieldsFirstOccurrenceWins(t *testing.T) {
	result := MatchFields("NATIONAL IDENTITY CARD\nID NUMBER: FIRST1\nID NUMBER: SECOND2")
	if result.Identifier != "FIRST1" {
		t.Fatalf("expected first match to win, got %q", result.Identifier)
	}
}

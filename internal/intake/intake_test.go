package intake

import (
	"testing"
)

func TestNewStateAllFieldsMissing(t *testing.T) {
	st := NewState()
	if st.Status != StatusIdle {
		t.Errorf("expected idle, got %s", st.Status)
	}
	if len(st.Missing) != len(RequiredFields) {
		t.Errorf("expected %d missing fields, got %d", len(RequiredFields), len(st.Missing))
	}
	if st.CanStart() {
		t.Error("fresh intake must not allow starting")
	}
}

func TestSetParsedComputesMissing(t *testing.T) {
	st := NewState()
	st.StartParsing("resume.pdf")
	st.SetParsed("some text", ContactFields{Email: "jane@example.com"})

	if st.Status != StatusParsed {
		t.Fatalf("expected parsed, got %s", st.Status)
	}
	want := []Field{FieldName, FieldPhone}
	if len(st.Missing) != len(want) {
		t.Fatalf("missing = %v, want %v", st.Missing, want)
	}
	for i, f := range want {
		if st.Missing[i] != f {
			t.Errorf("missing[%d] = %s, want %s", i, st.Missing[i], f)
		}
	}
	if st.CanStart() {
		t.Error("intake with missing fields must not allow starting")
	}
}

func TestConversationalFillToCanStart(t *testing.T) {
	st := NewState()
	st.StartParsing("resume.txt")
	st.SetParsed("text", ContactFields{Email: "jane@example.com"})

	next, ok := st.NextMissing()
	if !ok || next != FieldName {
		t.Fatalf("first missing field = %s, want name", next)
	}
	st.SetField(FieldName, "Jane Doe")

	next, ok = st.NextMissing()
	if !ok || next != FieldPhone {
		t.Fatalf("second missing field = %s, want phone", next)
	}
	st.SetField(FieldPhone, "+1 555 0100")

	if _, ok := st.NextMissing(); ok {
		t.Error("no field should be missing")
	}
	if !st.CanStart() {
		t.Error("fully collected intake should allow starting")
	}
}

func TestSetFieldNeverOverwrites(t *testing.T) {
	st := NewState()
	st.SetField(FieldName, "Jane Doe")
	st.SetField(FieldName, "Someone Else")
	if st.Fields.Name != "Jane Doe" {
		t.Errorf("name overwritten to %q", st.Fields.Name)
	}

	st.SetField(FieldEmail, "")
	if st.Fields.Email != "" {
		t.Error("empty value should be ignored")
	}
}

func TestSetParsedKeepsExistingFields(t *testing.T) {
	st := NewState()
	st.SetField(FieldName, "Jane Doe")
	st.StartParsing("resume.pdf")
	st.SetParsed("text", ContactFields{Name: "Parsed Name", Email: "jane@example.com"})

	if st.Fields.Name != "Jane Doe" {
		t.Errorf("re-parse replaced an existing field: %q", st.Fields.Name)
	}
	if st.Fields.Email != "jane@example.com" {
		t.Error("re-parse should still fill empty fields")
	}
}

func TestSetErrorAndReset(t *testing.T) {
	st := NewState()
	st.StartParsing("broken.pdf")
	st.SetError("pdftotext failed")

	if st.Status != StatusError || st.Error == "" {
		t.Error("parse failure not recorded")
	}

	st.Reset()
	if st.Status != StatusIdle || st.FileName != "" || len(st.Missing) != 3 {
		t.Error("reset did not restore the initial state")
	}
}

func TestExtractFields(t *testing.T) {
	tests := []struct {
		name string
		text string
		want ContactFields
	}{
		{
			name: "labeled fields",
			text: "Name: John Smith\nEmail: john.smith@example.com\nPhone: +1 (415) 555-0132\n",
			want: ContactFields{Name: "John Smith", Email: "john.smith@example.com", Phone: "+1 (415) 555-0132"},
		},
		{
			name: "name from heading line",
			text: "Jane Doe\nSoftware Engineer\njane.doe@mail.dev\n415 555 09876\n",
			want: ContactFields{Name: "Jane Doe", Email: "jane.doe@mail.dev", Phone: "415 555 09876"},
		},
		{
			name: "heading with trailing title",
			text: "Alan Turing, Computer Scientist\nalan@bletchley.org\n",
			want: ContactFields{Name: "Alan Turing", Email: "alan@bletchley.org"},
		},
		{
			name: "nothing extractable",
			text: "just some unstructured notes without contact details",
			want: ContactFields{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractFields(tt.text)
			if got.Name != tt.want.Name {
				t.Errorf("name = %q, want %q", got.Name, tt.want.Name)
			}
			if got.Email != tt.want.Email {
				t.Errorf("email = %q, want %q", got.Email, tt.want.Email)
			}
			if got.Phone != tt.want.Phone {
				t.Errorf("phone = %q, want %q", got.Phone, tt.want.Phone)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"john doe", "John Doe"},
		{"JOHN DOE", "John Doe"},
		{"  jane   doe  ", "Jane Doe"},
		{"Connor McAllister", "Connor McAllister"},
	}
	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParserFor(t *testing.T) {
	if p, err := ParserFor("cv.pdf"); err != nil {
		t.Errorf("pdf: %v", err)
	} else if _, ok := p.(*PDFParser); !ok {
		t.Errorf("pdf resolved to %T", p)
	}

	if p, err := ParserFor("cv.TXT"); err != nil {
		t.Errorf("txt: %v", err)
	} else if _, ok := p.(*TextParser); !ok {
		t.Errorf("txt resolved to %T", p)
	}

	if _, err := ParserFor("cv.docx"); err == nil {
		t.Error("docx should be rejected")
	}
}

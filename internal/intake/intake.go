// Package intake tracks the resume upload lifecycle and which contact
// fields still have to be collected before an interview can start.
package intake

// Field identifies one of the contact fields required to start an interview.
// Using a closed type here means asking for an unknown field is a compile
// error, not a runtime surprise.
type Field string

const (
	FieldName  Field = "name"
	FieldEmail Field = "email"
	FieldPhone Field = "phone"
)

// RequiredFields is the collection order for missing contact details
var RequiredFields = []Field{FieldName, FieldEmail, FieldPhone}

// Status is the resume parse lifecycle state
type Status string

const (
	StatusIdle    Status = "idle"
	StatusParsing Status = "parsing"
	StatusParsed  Status = "parsed"
	StatusError   Status = "error"
)

// ContactFields holds the contact details extracted from a resume or
// collected conversationally
type ContactFields struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Get returns the value of a contact field
func (c ContactFields) Get(f Field) string {
	switch f {
	case FieldName:
		return c.Name
	case FieldEmail:
		return c.Email
	case FieldPhone:
		return c.Phone
	}
	return ""
}

func (c *ContactFields) set(f Field, value string) {
	switch f {
	case FieldName:
		c.Name = value
	case FieldEmail:
		c.Email = value
	case FieldPhone:
		c.Phone = value
	}
}

// State is the resume intake sub-tree of the persisted application state
type State struct {
	Status   Status        `json:"status"`
	FileName string        `json:"file_name,omitempty"`
	FullText string        `json:"full_text,omitempty"`
	Fields   ContactFields `json:"fields"`
	Missing  []Field       `json:"missing"`
	Error    string        `json:"error,omitempty"`
}

// NewState returns the documented initial intake state: nothing uploaded,
// all contact fields missing.
func NewState() State {
	return State{
		Status:  StatusIdle,
		Missing: append([]Field(nil), RequiredFields...),
	}
}

// StartParsing marks the beginning of a new upload attempt
func (s *State) StartParsing(fileName string) {
	s.Status = StatusParsing
	s.FileName = fileName
	s.Error = ""
}

// SetParsed records the parse result. Extracted values fill empty fields
// only; a field that is already present is never replaced or removed.
func (s *State) SetParsed(fullText string, fields ContactFields) {
	s.Status = StatusParsed
	s.FullText = fullText
	for _, f := range RequiredFields {
		if s.Fields.Get(f) == "" && fields.Get(f) != "" {
			s.Fields.set(f, fields.Get(f))
		}
	}
	s.recomputeMissing()
}

// SetError records a parse failure. The user retries by re-uploading.
func (s *State) SetError(msg string) {
	s.Status = StatusError
	s.Error = msg
}

// SetField records a manually collected value for a missing field.
// Empty values and fields that are already present are ignored.
func (s *State) SetField(f Field, value string) {
	if value == "" || s.Fields.Get(f) != "" {
		return
	}
	s.Fields.set(f, value)
	s.recomputeMissing()
}

// NextMissing returns the first field still to be collected
func (s *State) NextMissing() (Field, bool) {
	if len(s.Missing) == 0 {
		return "", false
	}
	return s.Missing[0], true
}

// CanStart reports whether the resume is parsed and all contact fields
// are present, i.e. an interview may begin.
func (s *State) CanStart() bool {
	return s.Status == StatusParsed && len(s.Missing) == 0
}

// Reset returns the intake to its initial state for a fresh upload
func (s *State) Reset() {
	*s = NewState()
}

func (s *State) recomputeMissing() {
	missing := make([]Field, 0, len(RequiredFields))
	for _, f := range RequiredFields {
		if s.Fields.Get(f) == "" {
			missing = append(missing, f)
		}
	}
	s.Missing = missing
}

// Prompt returns the conversational question used to collect a field
func Prompt(f Field) string {
	switch f {
	case FieldName:
		return "What is your full name?"
	case FieldEmail:
		return "What is your email address?"
	default:
		return "What is your phone number?"
	}
}

package form

import "github.com/agropricing/waitlist-api/pkg/validation"

// Kind selects the formatting and validation rules of a field.
type Kind int

const (
	KindText Kind = iota
	KindName
	KindEmail
	KindPhone
	KindCheckbox
)

// Standard field names of the waitlist form.
const (
	FieldName  = "name"
	FieldEmail = "email"
	FieldPhone = "phone"
)

const MsgRequired = "Campo obrigatório"

type Field struct {
	Name     string
	Kind     Kind
	Required bool
}

// Schema describes one rendition of the waitlist form. Name, email and phone
// are always required; page variants add their own fields on top.
type Schema struct {
	FormName string
	Location string
	Source   string
	Fields   []Field
}

// DefaultSchema is the form used by the current landing page.
func DefaultSchema() Schema {
	return Schema{
		FormName: "lista_espera",
		Location: "waitlist",
		Fields: []Field{
			{Name: FieldName, Kind: KindName, Required: true},
			{Name: FieldEmail, Kind: KindEmail, Required: true},
			{Name: FieldPhone, Kind: KindPhone, Required: true},
		},
	}
}

// With returns a copy of s with extra fields appended, e.g. the experience
// and state selectors of older page variants.
func (s Schema) With(fields ...Field) Schema {
	out := s
	out.Fields = make([]Field, 0, len(s.Fields)+len(fields))
	out.Fields = append(out.Fields, s.Fields...)
	out.Fields = append(out.Fields, fields...)
	return out
}

func (s Schema) field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// validate returns the error message for a field value, "" when valid.
// Optional fields are only checked once they hold something.
func (f Field) validate(value string, checked bool) string {
	if f.Kind == KindCheckbox {
		if f.Required && !checked {
			return MsgRequired
		}
		return ""
	}

	if !f.Required && value == "" {
		return ""
	}

	switch f.Kind {
	case KindName:
		return validation.ValidateName(value)
	case KindEmail:
		return validation.ValidateEmail(value)
	case KindPhone:
		return validation.ValidatePhone(value)
	default:
		if value == "" {
			return MsgRequired
		}
		return ""
	}
}

func (f Field) filled(value string, checked bool) bool {
	if f.Kind == KindCheckbox {
		return checked
	}
	return value != ""
}

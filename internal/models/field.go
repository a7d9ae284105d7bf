package models

// FieldKind selects how a field is rendered and compared
type FieldKind int

const (
	KindText FieldKind = iota
	KindEnumeration
	KindNumeric
	KindDateRange
)

func (k FieldKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindEnumeration:
		return "enumeration"
	case KindNumeric:
		return "numeric"
	case KindDateRange:
		return "dateRange"
	default:
		return "unknown"
	}
}

// Option is one choice of an enumeration field
type Option struct {
	Label string `yaml:"label" json:"label"`
	Value string `yaml:"value" json:"value"`
}

// FieldSchema declares one filterable field of a tab
type FieldSchema struct {
	Key     string
	Label   string
	Kind    FieldKind
	Options []Option // only for KindEnumeration
}

// FieldKeys returns the keys of fields in order
func FieldKeys(fields []FieldSchema) []string {
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.Key
	}
	return keys
}

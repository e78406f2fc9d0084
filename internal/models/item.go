package models

// Canonical item fields. Normalized items never carry any other key.
const (
	FieldMaterialName = "material_name"
	FieldPartNumber   = "part_number"
	FieldDescription  = "description"
	FieldVendorName   = "vendor_name"
	FieldUOM          = "uom"
)

// CanonicalFields is ordered the way items are rendered.
var CanonicalFields = []string{FieldMaterialName, FieldPartNumber, FieldDescription, FieldVendorName, FieldUOM}

func IsCanonicalField(name string) bool {
	for _, f := range CanonicalFields {
		if f == name {
			return true
		}
	}
	return false
}

// Item is a normalized record: canonical field name to value. Fields missing
// from the source are absent, not empty.
type Item map[string]string

// Get returns the value of a canonical field, or "" when absent.
func (i Item) Get(field string) string {
	return i[field]
}

// Table is a raw tabular source: a header row and data rows in source order.
type Table struct {
	Header []string
	Rows   [][]string
}

// MatchResult pairs an extracted item with its best knowledge base entry.
type MatchResult struct {
	OriginalItem Item                `json:"original_item"`
	KBMatch      *KnowledgeBaseEntry `json:"kb_match"`
}

package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AliasTable maps source column names to canonical field names. Lookups are
// case-sensitive. The table must stay conflict-free: one source name, one target.
type AliasTable map[string]string

// DefaultAliasTable returns the built-in column aliases for item master files.
func DefaultAliasTable() AliasTable {
	return AliasTable{
		"Part Number":                   FieldPartNumber,
		"Item Code":                     FieldPartNumber,
		"Description":                   FieldDescription,
		"Item Name":                     FieldMaterialName,
		"Proposed Registered Item Name": FieldMaterialName,
		"Vendor":                        FieldVendorName,
		"Supplier":                      FieldVendorName,
		"UoM":                           FieldUOM,
		FieldMaterialName:               FieldMaterialName,
		FieldPartNumber:                 FieldPartNumber,
		FieldDescription:                FieldDescription,
		FieldVendorName:                 FieldVendorName,
		FieldUOM:                        FieldUOM,
	}
}

// Resolve returns the canonical field for a source column.
func (t AliasTable) Resolve(column string) (string, bool) {
	field, ok := t[column]
	return field, ok
}

// Validate checks that every alias has a name and points at a canonical field.
func (t AliasTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("alias table is empty")
	}
	for source, target := range t {
		if source == "" {
			return fmt.Errorf("alias table has an empty source column name")
		}
		if !IsCanonicalField(target) {
			return fmt.Errorf("alias %q targets unknown field %q", source, target)
		}
	}
	return nil
}

// Merge returns a copy of t extended with extra. Re-targeting an alias that
// already exists is a conflict.
func (t AliasTable) Merge(extra AliasTable) (AliasTable, error) {
	merged := make(AliasTable, len(t)+len(extra))
	for k, v := range t {
		merged[k] = v
	}
	for k, v := range extra {
		if existing, ok := merged[k]; ok && existing != v {
			return nil, fmt.Errorf("alias %q already maps to %q, cannot remap to %q", k, existing, v)
		}
		merged[k] = v
	}
	return merged, nil
}

// aliasFile is the YAML layout of an alias extension file:
//
//	aliases:
//	  "Maker": vendor_name
//	  "Unit": uom
type aliasFile struct {
	Aliases map[string]string `yaml:"aliases"`
}

// ParseAliasYAML decodes an alias extension document. yaml.v3 rejects
// duplicate keys, which keeps a single file conflict-free.
func ParseAliasYAML(raw []byte) (AliasTable, error) {
	var f aliasFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse alias file: %w", err)
	}
	return AliasTable(f.Aliases), nil
}

// LoadAliasTable builds the alias table used at runtime: defaults, optionally
// extended from a YAML file, then validated.
func LoadAliasTable(path string) (AliasTable, error) {
	table := DefaultAliasTable()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read alias file %s: %w", path, err)
		}
		extra, err := ParseAliasYAML(raw)
		if err != nil {
			return nil, err
		}
		table, err = table.Merge(extra)
		if err != nil {
			return nil, err
		}
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

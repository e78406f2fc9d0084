package service

import (
	"testing"

	"material-kb/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestNormalizer(t *testing.T) *ItemNormalizer {
	t.Helper()
	n, err := NewItemNormalizer(models.DefaultAliasTable(), zaptest.NewLogger(t))
	require.NoError(t, err)
	return n
}

func TestNormalize_MapsAliases(t *testing.T) {
	n := newTestNormalizer(t)

	items := n.Normalize(models.Table{
		Header: []string{"Item Code", "Supplier"},
		Rows:   [][]string{{"X1", "Acme"}},
	})

	require.Len(t, items, 1)
	assert.Equal(t, models.Item{models.FieldPartNumber: "X1", models.FieldVendorName: "Acme"}, items[0])
}

func TestNormalize_Rows(t *testing.T) {
	header := []string{"Part Number", "Item Name", "Colour", "UoM"}

	tests := []struct {
		name string
		rows [][]string
		want []models.Item
	}{
		{
			name: "unknown columns dropped",
			rows: [][]string{{"P-1", "Bolt", "red", "pcs"}},
			want: []models.Item{{"part_number": "P-1", "material_name": "Bolt", "uom": "pcs"}},
		},
		{
			name: "empty cells omitted",
			rows: [][]string{{"P-1", "  ", "red", ""}},
			want: []models.Item{{"part_number": "P-1"}},
		},
		{
			name: "short row keeps present cells",
			rows: [][]string{{"P-1", "Bolt"}},
			want: []models.Item{{"part_number": "P-1", "material_name": "Bolt"}},
		},
		{
			name: "long row with extra data skipped",
			rows: [][]string{{"P-1", "Bolt", "red", "pcs", "extra"}, {"P-2", "Nut", "", ""}},
			want: []models.Item{{"part_number": "P-2", "material_name": "Nut"}},
		},
		{
			name: "trailing empty cells kept",
			rows: [][]string{{"P-4", "Washer", "", "pcs", ""}, {"P-5", "Pin", "", "", " ", ""}},
			want: []models.Item{
				{"part_number": "P-4", "material_name": "Washer", "uom": "pcs"},
				{"part_number": "P-5", "material_name": "Pin"},
			},
		},
		{
			name: "blank row skipped",
			rows: [][]string{{"", "", "", ""}, {"P-3", "", "", "kg"}},
			want: []models.Item{{"part_number": "P-3", "uom": "kg"}},
		},
		{
			name: "no rows",
			rows: nil,
			want: []models.Item{},
		},
	}

	n := newTestNormalizer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Normalize(models.Table{Header: header, Rows: tt.rows})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_FirstAliasedColumnWins(t *testing.T) {
	n := newTestNormalizer(t)

	items := n.Normalize(models.Table{
		Header: []string{"Vendor", "Supplier"},
		Rows:   [][]string{{"Acme", "Globex"}},
	})

	require.Len(t, items, 1)
	assert.Equal(t, "Acme", items[0].Get(models.FieldVendorName))
}

func TestNormalize_OnlyCanonicalKeys(t *testing.T) {
	n := newTestNormalizer(t)

	items := n.Normalize(models.Table{
		Header: []string{"Proposed Registered Item Name", "Description", "Vendor", "Weight"},
		Rows:   [][]string{{"Hex bolt", "M8 zinc", "Acme", "10g"}},
	})

	require.Len(t, items, 1)
	for key := range items[0] {
		assert.True(t, models.IsCanonicalField(key), "unexpected key %q", key)
	}
}

func TestNormalize_BadTableYieldsNothing(t *testing.T) {
	log := zaptest.NewLogger(t)

	assert.Empty(t, Normalize(models.Table{Rows: [][]string{{"x"}}}, models.DefaultAliasTable(), log))
	assert.Empty(t, Normalize(models.Table{Header: []string{"Colour"}, Rows: [][]string{{"red"}}}, models.DefaultAliasTable(), log))
	assert.Empty(t, Normalize(
		models.Table{Header: []string{"Item Code"}, Rows: [][]string{{"X1"}}},
		models.AliasTable{"Item Code": "sku"},
		log,
	))
}

func TestNewItemNormalizer_RejectsInvalidAliases(t *testing.T) {
	_, err := NewItemNormalizer(models.AliasTable{}, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestNormalizeAll_ConcatenatesInOrder(t *testing.T) {
	n := newTestNormalizer(t)

	items := n.NormalizeAll([]models.Table{
		{Header: []string{"Item Code"}, Rows: [][]string{{"A"}, {"B"}}},
		{Header: []string{"Part Number"}, Rows: [][]string{{"C"}}},
	})

	require.Len(t, items, 3)
	assert.Equal(t, "A", items[0].Get(models.FieldPartNumber))
	assert.Equal(t, "B", items[1].Get(models.FieldPartNumber))
	assert.Equal(t, "C", items[2].Get(models.FieldPartNumber))
}

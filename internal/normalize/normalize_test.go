package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1,23", 1.23, true},
		{"1.23", 1.23, true},
		{" 42 ", 42, true},
		{"1.234,5", 1234.5, true},
		{"1,234.5", 1234.5, true},
		{"-0,7", -0.7, true},
		{"", 0, false},
		{"NA", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDecimal(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	layouts := []string{DateLayout, "02/01/2006"}

	got, ok := ParseDate("2024-03-05", layouts)
	require.True(t, ok)
	assert.Equal(t, "2024-03-05", got)

	got, ok = ParseDate("05/03/2024", layouts)
	require.True(t, ok)
	assert.Equal(t, "2024-03-05", got)

	// 45356 is 2024-03-05 in the 1900 date system.
	got, ok = ParseDate("45356", layouts)
	require.True(t, ok)
	assert.Equal(t, "2024-03-05", got)

	_, ok = ParseDate("not-a-date", layouts)
	assert.False(t, ok)
	_, ok = ParseDate("", layouts)
	assert.False(t, ok)
}

func TestNormalizeDropsBadTimestampAndCoercesComma(t *testing.T) {
	table := [][]string{
		{"Fecha", "Valor"},
		{"2024-01-02", "1,23"},
		{"not-a-date", "5,00"},
		{"2024-01-03", "810,5"},
	}
	res := Normalize(table, Schema{
		Dataset:         "exchange_rate",
		Source:          "test",
		SkipRows:        1,
		TimestampColumn: 0,
		ValueColumn:     1,
		TimestampKind:   KindDate,
		DateLayouts:     []string{DateLayout},
	})

	require.Len(t, res.Records, 2)
	assert.Equal(t, 1, res.Dropped)
	assert.Equal(t, "2024-01-02", res.Records[0].Timestamp)
	require.NotNil(t, res.Records[0].Value)
	assert.InDelta(t, 1.23, *res.Records[0].Value, 1e-9)
	assert.Equal(t, "exchange_rate", res.Records[1].Dataset)
}

func TestNormalizeBadValuePerDatasetRule(t *testing.T) {
	table := [][]string{
		{"Periodo", "v"},
		{"202401", "20,6"},
		{"202402", "NA"},
	}
	base := Schema{
		Dataset:         "inflation",
		SkipRows:        1,
		TimestampColumn: 0,
		ValueColumn:     1,
		TimestampKind:   KindPeriod,
	}

	t.Run("drop", func(t *testing.T) {
		res := Normalize(table, base)
		assert.Len(t, res.Records, 1)
		assert.Equal(t, 1, res.Dropped)
	})

	t.Run("null", func(t *testing.T) {
		s := base
		s.NullOnBadValue = true
		res := Normalize(table, s)
		require.Len(t, res.Records, 2)
		assert.Zero(t, res.Dropped)
		assert.Nil(t, res.Records[1].Value)
		assert.Equal(t, "202402", res.Records[1].Timestamp)
	})
}

func TestNormalizeFiltersAndShortRows(t *testing.T) {
	table := [][]string{
		{"Descripcion", "Periodo", "v", "Region"},
		{"NIVEL GENERAL", "202401", "20,6", "Nacional"},
		{"Alimentos", "202401", "18,1", "Nacional"},
		{"NIVEL GENERAL", "202401", "19,0", "GBA"},
		{"NIVEL GENERAL", "202402", "13,2", "Nacional"},
		{"NIVEL GENERAL", "202403"},
		{"", "", "", ""},
	}
	res := Normalize(table, Schema{
		SkipRows:        1,
		TimestampColumn: 1,
		ValueColumn:     2,
		TimestampKind:   KindPeriod,
		Filters:         map[int]string{0: "NIVEL GENERAL", 3: "Nacional"},
	})

	require.Len(t, res.Records, 2)
	// the short row fails the Region filter before its length is checked
	assert.Equal(t, 3, res.Skipped)
	assert.Zero(t, res.Dropped)
}

func TestNormalizeSkipBeyondTable(t *testing.T) {
	res := Normalize([][]string{{"a"}}, Schema{SkipRows: 3})
	assert.Empty(t, res.Records)
	assert.Zero(t, res.Dropped)
}

func worldBankTable() [][]string {
	return [][]string{
		{"Data Source", "Indicadores del desarrollo mundial"},
		{"Last Updated Date", "2024-06-28"},
		{"Country Name", "Country Code", "Indicator Name", "Indicator Code", "1990", "1991", "1992", "2025", ""},
		{"Argentina", "ARG", "Desempleo", "SL.UEM.TOTL.ZS", "", "5,44", "6.36", "7", ""},
		{"Chile", "CHL", "Desempleo", "SL.UEM.TOTL.ZS", "", "", "6,6", "", ""},
		{"", "", "", "", "", "1", "", "", ""},
	}
}

func TestWide(t *testing.T) {
	ws := WideSchema{
		Dataset:         "employment",
		HeaderMarker:    "Country Name",
		MaxHeaderRow:    4,
		FirstYearColumn: 4,
		TrailingColumns: 1,
		Dimensions: map[string]int{
			DimCountryName:   0,
			DimCountryCode:   1,
			DimIndicatorName: 2,
			DimIndicatorCode: 3,
		},
		KeyDimension:   DimCountryCode,
		FirstYear:      1991,
		LastYear:       2023,
		NullOnBadValue: true,
	}

	res := Wide(worldBankTable(), ws)

	// 1990 and 2025 fall outside the year range; the keyless row is dropped.
	require.Len(t, res.Records, 4)
	assert.Equal(t, 1, res.Dropped)

	first := res.Records[0]
	assert.Equal(t, "1991", first.Timestamp)
	assert.Equal(t, "ARG", first.Dimensions[DimCountryCode])
	assert.Equal(t, "SL.UEM.TOTL.ZS", first.Dimensions[DimIndicatorCode])
	require.NotNil(t, first.Value)
	assert.InDelta(t, 5.44, *first.Value, 1e-9)

	chile1991 := res.Records[2]
	assert.Equal(t, "CHL", chile1991.Dimensions[DimCountryCode])
	assert.Nil(t, chile1991.Value)
}

func TestWideWithoutHeader(t *testing.T) {
	ws := WideSchema{HeaderMarker: "Country Name", MaxHeaderRow: 0}
	res := Wide(worldBankTable(), ws)
	assert.Empty(t, res.Records)
}

func TestBetweenAndSort(t *testing.T) {
	records := []Record{
		{Timestamp: "202403"},
		{Timestamp: "202401"},
		{Timestamp: "202312"},
		{Timestamp: "202402"},
	}
	SortByTimestamp(records)
	assert.Equal(t, "202312", records[0].Timestamp)
	assert.Equal(t, "202403", records[3].Timestamp)

	in := Between(records, "202401", "202402")
	require.Len(t, in, 2)
	assert.Equal(t, "202401", in[0].Timestamp)

	assert.Len(t, Between(records, "", ""), 4)
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"2024", 2024, true},
		{" 1999 ", 1999, true},
		{"+202", 0, false},
		{"-202", 0, false},
		{"20a4", 0, false},
		{"0000", 0, false},
		{"202", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseYear(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

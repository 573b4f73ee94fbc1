package sources

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Cotizaciones"
	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}

	path := filepath.Join(t.TempDir(), "fx.xlsx")
	require.NoError(t, f.SaveAs(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func requireFormatError(t *testing.T, err error) *FormatError {
	t.Helper()
	var fe *FormatError
	require.True(t, errors.As(err, &fe), "expected FormatError, got %v", err)
	return fe
}

func TestDecodeWorkbook(t *testing.T) {
	body := buildWorkbook(t, [][]any{
		{"Tipo de Cambio"},
		{""},
		{"", "", "Fecha", "Valor"},
		{"", "", "2024-01-02", 808.45},
	})

	rows, err := DecodeWorkbook("exchange_rate", body, 4)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Fecha", rows[2][2])
	assert.Equal(t, "808.45", rows[3][3])
}

func TestDecodeWorkbookBIFF(t *testing.T) {
	body, err := os.ReadFile(filepath.Join("testdata", "com3500.xls"))
	require.NoError(t, err)

	rows, err := DecodeWorkbook("exchange_rate", body, 4)
	require.NoError(t, err)
	require.Len(t, rows, 7)

	assert.Equal(t, "Tipo de Cambio de Referencia Comunicación A 3500", rows[0][0])
	assert.Empty(t, rows[1])
	assert.Equal(t, []string{"", "", "Fecha", "Tipo de Cambio de Referencia"}, rows[2])
	assert.Equal(t, []string{"", "", "02/01/2024", "808.45"}, rows[3])
	// numeric date cells keep their serial
	assert.Equal(t, "45294", rows[4][2])
	assert.Equal(t, "830.2", rows[6][3])

	_, err = DecodeWorkbook("exchange_rate", body, 8)
	fe := requireFormatError(t, err)
	assert.Contains(t, fe.Reason, "need at least 8")
}

func TestDecodeWorkbookPreconditions(t *testing.T) {
	t.Run("too few rows", func(t *testing.T) {
		body := buildWorkbook(t, [][]any{{"only"}})
		_, err := DecodeWorkbook("exchange_rate", body, 4)
		fe := requireFormatError(t, err)
		assert.Contains(t, fe.Reason, "need at least 4")
	})

	t.Run("corrupt xls", func(t *testing.T) {
		body := append([]byte{}, oleMagic...)
		body = append(body, make([]byte, 64)...)
		_, err := DecodeWorkbook("exchange_rate", body, 1)
		fe := requireFormatError(t, err)
		assert.Contains(t, fe.Reason, "BIFF")
	})

	t.Run("not a workbook", func(t *testing.T) {
		_, err := DecodeWorkbook("exchange_rate", []byte("<html>maintenance</html>"), 1)
		requireFormatError(t, err)
	})
}

func latin1(t *testing.T, s string) []byte {
	t.Helper()
	b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	require.NoError(t, err)
	return b
}

func TestDecodeDelimitedLatin1(t *testing.T) {
	body := latin1(t, "Codigo;Descripcion;Periodo;v_m_IPC;Region\n0;NIVEL GENERAL;202401;20,6;Nacional\n1;Educación;202401;25,1;Nacional\n")

	rows, err := DecodeDelimited("inflation", body, DelimitedOptions{Charset: "latin1", Comma: ';', MinRows: 2})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Educación", rows[2][1])
	assert.Equal(t, "20,6", rows[1][3])
}

func TestDecodeDelimitedPreconditions(t *testing.T) {
	_, err := DecodeDelimited("inflation", []byte("only-header\n"), DelimitedOptions{Comma: ';', MinRows: 2})
	requireFormatError(t, err)

	_, err = DecodeDelimited("inflation", []byte("a;b\n"), DelimitedOptions{Charset: "ebcdic"})
	requireFormatError(t, err)
}

func TestDecodeDelimitedStripsBOM(t *testing.T) {
	rows, err := DecodeDelimited("x", []byte("\ufeffName,Code\nA,B\n"), DelimitedOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Name", rows[0][0])
}

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDecodeArchiveSelectsDataFiles(t *testing.T) {
	body := buildZip(t, map[string]string{
		"API_SL.UEM.TOTL.ZS_DS2_es_csv_v2_1.csv":           "\"Country Name\",\"Country Code\"\n\"Argentina\",\"ARG\"\n",
		"Metadata_Country_API_SL.UEM.TOTL.ZS_DS2_es.csv":   "\"Country Code\",\"Region\"\n",
		"Metadata_Indicator_API_SL.UEM.TOTL.ZS_DS2_es.csv": "\"INDICATOR_CODE\"\n",

		"readme.txt": "ignored",
	})

	members, err := DecodeArchive("employment", body, ArchiveOptions{Suffix: ".csv", Exclude: "Metadata"})
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.True(t, strings.HasPrefix(members[0].Name, "API_"))
	assert.Equal(t, "ARG", members[0].Table[1][1])
}

func TestDecodeArchivePreconditions(t *testing.T) {
	_, err := DecodeArchive("employment", []byte("not a zip"), ArchiveOptions{Suffix: ".csv"})
	requireFormatError(t, err)

	body := buildZip(t, map[string]string{"Metadata_Country.csv": "x\n"})
	_, err = DecodeArchive("employment", body, ArchiveOptions{Suffix: ".csv", Exclude: "Metadata"})
	fe := requireFormatError(t, err)
	assert.Contains(t, fe.Reason, "no member")
}

func TestDecodeArchiveRemovesWorkDir(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	body := buildZip(t, map[string]string{"data.csv": "a,b\n1,2\n"})
	_, err := DecodeArchive("employment", body, ArchiveOptions{Suffix: ".csv"})
	require.NoError(t, err)

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWithTempDirReleasesOnError(t *testing.T) {
	var seen string
	boom := errors.New("boom")
	err := WithTempDir("indicators-test-", func(dir string) error {
		seen = dir
		return boom
	})
	assert.ErrorIs(t, err, boom)
	_, statErr := os.Stat(seen)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCheckLayout(t *testing.T) {
	table := [][]string{
		{"Codigo", "Descripcion", "Clasificador", "Periodo"},
		{"0", "NIVEL GENERAL", "Nivel general", "202401"},
	}

	assert.NoError(t, CheckLayout("inflation", table, Layout{MinRows: 2, Columns: map[int]string{1: "descripcion", 3: "Periodo"}}))

	err := CheckLayout("inflation", table, Layout{MinRows: 2, Columns: map[int]string{2: "Periodo"}})
	requireFormatError(t, err)

	err = CheckLayout("inflation", table, Layout{MinRows: 2, Columns: map[int]string{9: "Region"}})
	requireFormatError(t, err)

	err = CheckLayout("inflation", table, Layout{MinRows: 5})
	requireFormatError(t, err)
}

package sources

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Upper bound on a single extracted archive member.
const maxMemberSize = 256 << 20

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// DecodeWorkbook reads the first sheet of a workbook. OOXML payloads are read
// with raw cell values so numbers and dates arrive unformatted. Legacy BIFF
// payloads are told apart by their OLE2 signature.
func DecodeWorkbook(source string, body []byte, minRows int) ([][]string, error) {
	switch {
	case bytes.HasPrefix(body, zipMagic):
	case bytes.HasPrefix(body, oleMagic):
		rows, err := decodeBIFF(source, body)
		if err != nil {
			return nil, err
		}
		if len(rows) < minRows {
			return nil, NewFormatError(source, "sheet has %d rows, need at least %d", len(rows), minRows)
		}
		return rows, nil
	default:
		return nil, NewFormatError(source, "payload is not a workbook")
	}

	f, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		return nil, &FormatError{Source: source, Reason: "cannot open workbook", Cause: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, NewFormatError(source, "workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &FormatError{Source: source, Reason: "cannot read sheet " + sheets[0], Cause: err}
	}
	if len(rows) < minRows {
		return nil, NewFormatError(source, "sheet %q has %d rows, need at least %d", sheets[0], len(rows), minRows)
	}
	return rows, nil
}

// DelimitedOptions describes a delimited text payload.
type DelimitedOptions struct {
	// Charset of the payload; empty means UTF-8.
	Charset string
	Comma   rune
	MinRows int
}

// DecodeDelimited transcodes and splits a delimited text payload.
func DecodeDelimited(source string, body []byte, opts DelimitedOptions) ([][]string, error) {
	enc, err := lookupCharset(opts.Charset)
	if err != nil {
		return nil, NewFormatError(source, "%v", err)
	}
	return readDelimited(source, bytes.NewReader(body), enc, opts)
}

func readDelimited(source string, r io.Reader, enc encoding.Encoding, opts DelimitedOptions) ([][]string, error) {
	if enc != nil {
		r = transform.NewReader(r, enc.NewDecoder())
	}

	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, &FormatError{Source: source, Reason: "malformed delimited text", Cause: err}
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	if len(rows) < opts.MinRows {
		return nil, NewFormatError(source, "got %d rows, need at least %d", len(rows), opts.MinRows)
	}
	return rows, nil
}

func lookupCharset(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "latin1", "latin-1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	default:
		return nil, fmt.Errorf("unsupported charset %q", name)
	}
}

// ArchiveOptions selects and decodes members of a zip archive.
type ArchiveOptions struct {
	Suffix    string
	Exclude   string
	Delimited DelimitedOptions
}

// Member is one decoded archive entry.
type Member struct {
	Name  string
	Table [][]string
}

// Selects reports whether an archive member name is relevant.
func (o ArchiveOptions) Selects(name string) bool {
	base := filepath.Base(name)
	if o.Suffix != "" && !strings.HasSuffix(strings.ToLower(base), strings.ToLower(o.Suffix)) {
		return false
	}
	if o.Exclude != "" && strings.Contains(base, o.Exclude) {
		return false
	}
	return true
}

// DecodeArchive extracts the selected members of a zip payload into a
// scoped temporary directory and decodes each one. Members are returned in
// name order.
func DecodeArchive(source string, body []byte, opts ArchiveOptions) ([]Member, error) {
	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, &FormatError{Source: source, Reason: "payload is not a zip archive", Cause: err}
	}

	var selected []*zip.File
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() || !opts.Selects(zf.Name) {
			continue
		}
		selected = append(selected, zf)
	}
	if len(selected) == 0 {
		return nil, NewFormatError(source, "archive has no member matching *%s", opts.Suffix)
	}
	sort.Slice(selected, func(i, j int) bool { return selected[i].Name < selected[j].Name })

	enc, err := lookupCharset(opts.Delimited.Charset)
	if err != nil {
		return nil, NewFormatError(source, "%v", err)
	}

	var members []Member
	err = WithTempDir("indicators-"+source+"-", func(dir string) error {
		for _, zf := range selected {
			path, err := extract(zf, dir)
			if err != nil {
				return fmt.Errorf("extract %s: %w", zf.Name, err)
			}
			table, err := decodeFile(source, path, enc, opts.Delimited)
			if err != nil {
				return err
			}
			members = append(members, Member{Name: filepath.Base(zf.Name), Table: table})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return members, nil
}

// extract writes a member under dir using only its base name.
func extract(zf *zip.File, dir string) (string, error) {
	rc, err := zf.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	path := filepath.Join(dir, filepath.Base(zf.Name))
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	n, err := io.Copy(out, io.LimitReader(rc, maxMemberSize+1))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", err
	}
	if n > maxMemberSize {
		return "", fmt.Errorf("member exceeds %d bytes", maxMemberSize)
	}
	return path, nil
}

func decodeFile(source, path string, enc encoding.Encoding, opts DelimitedOptions) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readDelimited(source, f, enc, opts)
}

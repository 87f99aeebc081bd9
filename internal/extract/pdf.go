package extract

import (
	"bytes"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/probegapp/probeg/internal/domain/protocol"
)

// PDF extracts tabular rows from a PDF protocol. Text is pulled out of
// the page content streams, reassembled into lines, and each line is
// split into cells on tab stops or runs of two and more spaces. The
// header row is row 0 of each page's table unless opts.HeaderRow says
// otherwise; labels are lower-cased and whitespace-normalized.
func PDF(path string, opts Options) ([]protocol.RawRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open pdf %s", path)
	}
	defer file.Close()

	ctx, err := api.ReadValidateAndOptimize(file, model.NewDefaultConfiguration())
	if err != nil {
		return nil, errors.Wrap(err, "read pdf")
	}

	first, last := 1, ctx.PageCount
	if opts.Page > 0 {
		first, last = opts.Page, opts.Page
	}

	var rows []protocol.RawRow
	for pageNr := first; pageNr <= last && pageNr <= ctx.PageCount; pageNr++ {
		lines := pageLines(ctx, pageNr)
		table := linesToTable(lines)
		if len(table) <= opts.HeaderRow {
			continue
		}

		headers := make([]string, len(table[opts.HeaderRow]))
		for i, label := range table[opts.HeaderRow] {
			headers[i] = normalizeLabel(label)
		}

		for _, cells := range table[opts.HeaderRow+1:] {
			if row := assembleRow(headers, cells); row != nil {
				rows = append(rows, row)
			}
		}
	}

	return FilterRows(rows), nil
}

func pageLines(ctx *model.Context, pageNr int) []string {
	reader, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	if err != nil {
		return nil
	}
	data, err := io.ReadAll(reader)
	if err != nil || len(data) == 0 {
		return nil
	}
	return streamLines(data)
}

var pdfStringRegex = regexp.MustCompile(`\(([^)]*)\)`)

// streamLines walks the content stream operators and groups shown text
// into visual lines: Td/TD/T* start a new line, Tj/TJ/' append to the
// current one. Cell gaps inside a TJ array survive as tab characters.
func streamLines(data []byte) []string {
	var lines []string
	var current strings.Builder

	flush := func() {
		if line := strings.TrimSpace(current.String()); line != "" {
			lines = append(lines, line)
		}
		current.Reset()
	}

	for _, raw := range bytes.Split(data, []byte{'\n'}) {
		line := bytes.TrimSpace(raw)
		if len(line) == 0 {
			continue
		}

		switch {
		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")),
			bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")):
			matches := pdfStringRegex.FindAllSubmatch(line, -1)
			for i, match := range matches {
				if i > 0 {
					current.WriteByte('\t')
				}
				current.WriteString(decodePDFString(match[1]))
			}
		case bytes.HasSuffix(line, []byte("Td")), bytes.HasSuffix(line, []byte("TD")),
			bytes.Equal(line, []byte("T*")), bytes.HasSuffix(line, []byte("ET")):
			flush()
		}
	}
	flush()

	return lines
}

func decodePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteByte(raw[i])
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\', '(', ')':
			sb.WriteByte(raw[i])
		default:
			if raw[i] >= '0' && raw[i] <= '7' {
				value := int(raw[i] - '0')
				for digits := 1; digits < 3 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; digits++ {
					i++
					value = value*8 + int(raw[i]-'0')
				}
				sb.WriteByte(byte(value))
			} else {
				sb.WriteByte(raw[i])
			}
		}
	}
	return sb.String()
}

var cellSplitRegex = regexp.MustCompile(`\t|\s{2,}`)

// linesToTable splits text lines into cell slices. Lines that produce a
// single cell are kept too: protocols often carry one-cell category
// headers that the noise filter removes later.
func linesToTable(lines []string) [][]string {
	table := make([][]string, 0, len(lines))
	for _, line := range lines {
		cells := cellSplitRegex.Split(line, -1)
		trimmed := make([]string, 0, len(cells))
		for _, cell := range cells {
			trimmed = append(trimmed, strings.TrimSpace(cell))
		}
		table = append(table, trimmed)
	}
	return table
}

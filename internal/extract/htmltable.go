package extract

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/probegapp/probeg/internal/domain/protocol"
)

// HTMLTables parses rendered page markup and extracts rows from the
// first table that yields anything. Header cells come from the thead
// row when present, else from the table's first row, and are mapped
// onto canonical keys by keyword.
func HTMLTables(markup string) ([]protocol.RawRow, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}

	for _, table := range findAll(root, atom.Table) {
		if rows := tableRows(table); len(rows) > 0 {
			return FilterRows(rows), nil
		}
	}
	return nil, nil
}

func tableRows(table *html.Node) []protocol.RawRow {
	trs := findAll(table, atom.Tr)
	if len(trs) < 2 {
		return nil
	}

	headers := make([]string, 0, 8)
	for _, cell := range cellsOf(trs[0]) {
		headers = append(headers, nodeText(cell))
	}

	rows := make([]protocol.RawRow, 0, len(trs)-1)
	for _, tr := range trs[1:] {
		cells := cellsOf(tr)
		if len(cells) == 0 {
			continue
		}
		values := make([]string, 0, len(cells))
		for _, cell := range cells {
			values = append(values, nodeText(cell))
		}
		if row := assembleRow(headers, values); row != nil {
			rows = append(rows, row)
		}
	}
	return rows
}

func cellsOf(tr *html.Node) []*html.Node {
	cells := findAll(tr, atom.Th)
	if len(cells) == 0 {
		cells = findAll(tr, atom.Td)
	} else {
		cells = append(cells, findAll(tr, atom.Td)...)
	}
	return cells
}

func findAll(node *html.Node, target atom.Atom) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == target {
			found = append(found, n)
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		walk(child)
	}
	return found
}

func nodeText(node *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)
	return strings.Join(strings.Fields(sb.String()), " ")
}

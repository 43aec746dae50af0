package soccerstats

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// columnIndex locates header labels by position. Repeated labels belong to
// the home side first, away side second; the unlabeled cells between the
// two side blocks hold home team, kickoff and away team.
type columnIndex map[string][]int

func buildColumnIndex(header *goquery.Selection) columnIndex {
	index := columnIndex{}
	header.Find("th, td").Each(func(i int, cell *goquery.Selection) {
		label := strings.ToLower(cleanCell(cell.Text()))
		index[label] = append(index[label], i)
	})
	return index
}

// at returns the position of the nth occurrence of a label.
func (c columnIndex) at(label string, occurrence int) (int, bool) {
	positions := c[strings.ToLower(label)]
	if occurrence >= len(positions) {
		return 0, false
	}
	return positions[occurrence], true
}

func (c columnIndex) has(labels ...string) bool {
	for _, label := range labels {
		if len(c[strings.ToLower(label)]) == 0 {
			return false
		}
	}
	return true
}

// findStatsTable picks the fixture table of a listing page: the one whose
// header row carries all required labels. The pages carry several layout
// tables around it, so position in the document is not reliable.
func findStatsTable(doc *goquery.Document, required ...string) (*goquery.Selection, columnIndex, error) {
	var table *goquery.Selection
	var index columnIndex

	doc.Find("table").EachWithBreak(func(_ int, candidate *goquery.Selection) bool {
		header := candidate.Find("tr").First()
		if header.Length() == 0 {
			return true
		}
		candidateIndex := buildColumnIndex(header)
		if !candidateIndex.has(required...) {
			return true
		}
		table = candidate
		index = candidateIndex
		return false
	})

	if table == nil {
		return nil, nil, fmt.Errorf("no table with headers %v", required)
	}
	return table, index, nil
}

func cellTexts(row *goquery.Selection) []string {
	var out []string
	row.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		out = append(out, cleanCell(cell.Text()))
	})
	return out
}

func cellAt(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return cells[i]
}

func cleanCell(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}

// parsePercent reads values like "78%", "78,5 %" or "78.5". Missing and
// placeholder cells come back nil.
func parsePercent(raw string) *float64 {
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "%")
	return parseFloat(raw)
}

// parseFloat accepts the site's decimal comma.
func parseFloat(raw string) *float64 {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if raw == "" || raw == "-" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseInt(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "-" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

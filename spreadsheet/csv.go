// spreadsheet/csv.go
package spreadsheet

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gewnthar/routeboard/models"
	"github.com/jszwec/csvutil"
)

// utf8BOM lets spreadsheet applications detect the encoding of Cyrillic text.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes routes as CSV with a header row, prefixed by a UTF-8 BOM.
func WriteCSV(w io.Writer, routes []models.Route) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write CSV BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)

	rows := make([]models.CSVRoute, 0, len(routes))
	for _, r := range routes {
		rows = append(rows, r.ToCSV())
	}
	var err error
	if len(rows) == 0 {
		err = enc.EncodeHeader(models.CSVRoute{})
	} else {
		err = enc.Encode(rows)
	}
	if err != nil {
		return fmt.Errorf("failed to encode routes CSV: %w", err)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush routes CSV: %w", err)
	}
	return nil
}

// ReadCSV parses an uploaded CSV file. Files carrying the export header are
// decoded by column name; anything else goes through the generic row parser.
func ReadCSV(r io.Reader) (ParseResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ParseResult{}, fmt.Errorf("failed to read CSV: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return ParseResult{Records: []Record{}}, nil
	}

	firstLine, err := bufio.NewReader(bytes.NewReader(data)).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return ParseResult{}, fmt.Errorf("failed to read CSV header: %w", err)
	}
	header, err := csv.NewReader(bytes.NewReader([]byte(firstLine))).Read()
	if err != nil {
		return ParseResult{}, fmt.Errorf("failed to parse CSV header: %w", err)
	}

	if isExportHeader(header) {
		return decodeExportCSV(data)
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return ParseResult{}, fmt.Errorf("failed to parse CSV rows: %w", err)
	}
	return ParseRows(rows), nil
}

func isExportHeader(header []string) bool {
	seen := map[string]bool{}
	for _, h := range header {
		seen[strings.TrimSpace(h)] = true
	}
	return seen[keyName] && seen[keyTrackLane] && seen[keyDifficulty]
}

func decodeExportCSV(data []byte) (ParseResult, error) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	dec, err := csvutil.NewDecoder(cr)
	if err != nil {
		return ParseResult{}, fmt.Errorf("failed to create CSV decoder for routes: %w", err)
	}

	var rows []models.CSVRoute
	if err := dec.Decode(&rows); err != nil && !errors.Is(err, io.EOF) {
		return ParseResult{}, fmt.Errorf("failed to decode routes CSV data: %w", err)
	}

	res := ParseResult{Records: make([]Record, 0, len(rows))}
	for i, c := range rows {
		if isBlank([]string{c.Name, c.TrackLane, c.Difficulty, c.Author}) {
			continue
		}
		route := models.Route{
			RouteNumber:  c.RouteNumber,
			TrackLane:    c.TrackLane,
			Name:         c.Name,
			Difficulty:   c.Difficulty,
			Color:        c.Color,
			Author:       c.Author,
			SetupDate:    c.SetupDate,
			TakedownDate: c.TakedownDate,
			Description:  c.Description,
		}
		route.IsActive = parseActive(c.IsActive, c.TakedownDate)
		res.Records = append(res.Records, Record{Row: i + 2, Route: route})
	}
	return res, nil
}

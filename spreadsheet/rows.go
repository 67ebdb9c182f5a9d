// spreadsheet/rows.go
package spreadsheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gewnthar/routeboard/models"
	"github.com/gewnthar/routeboard/utils"
)

// Record is one importable row. Row is the 1-based row number in the file.
type Record struct {
	Row   int
	Route models.Route
}

// ParseResult holds the importable rows of a file and how many were skipped.
type ParseResult struct {
	Records []Record
	Skipped int
}

// Canonical column keys, shared by the CSV and XLSX exports.
const (
	keyRouteNumber  = "route_number"
	keyTrackLane    = "track_lane"
	keyName         = "name"
	keyDifficulty   = "difficulty"
	keyColor        = "color"
	keyAuthor       = "author"
	keySetupDate    = "setup_date"
	keyTakedownDate = "takedown_date"
	keyDescription  = "description"
	keyIsActive     = "is_active"
)

// Header is the column order written by the exports.
var Header = []string{
	keyRouteNumber, keyTrackLane, keyName, keyDifficulty, keyColor,
	keyAuthor, keySetupDate, keyTakedownDate, keyDescription, keyIsActive,
}

// headerAliases maps normalized header titles to canonical keys. Russian titles
// come from the gym's own sheets and the upstream server's exports.
var headerAliases = map[string]string{
	"route_number": keyRouteNumber, "номер трассы": keyRouteNumber, "номер": keyRouteNumber,
	"track_lane": keyTrackLane, "track_number": keyTrackLane, "дорожка": keyTrackLane, "№ дорожки": keyTrackLane,
	"name": keyName, "название": keyName,
	"difficulty": keyDifficulty, "сложность": keyDifficulty, "категория": keyDifficulty,
	"color": keyColor, "цвет": keyColor, "цвет зацеп": keyColor,
	"author": keyAuthor, "автор": keyAuthor, "автор трассы": keyAuthor,
	"setup_date": keySetupDate, "дата накрутки": keySetupDate,
	"takedown_date": keyTakedownDate, "дата скрутки": keyTakedownDate,
	"description": keyDescription, "описание": keyDescription,
	"is_active": keyIsActive, "статус": keyIsActive,
}

// Positional layout of the gym's difficulty sheet, which has no usable header:
// lane, author, name, setup date, hold color, grade, takedown mark.
const (
	posLane = iota
	posAuthor
	posName
	posSetupDate
	posColor
	posDifficulty
	posTakedown
)

const positionalMinCells = posDifficulty + 1

// headerKeywords mark title and legend rows inside the difficulty sheet.
var headerKeywords = []string{"категории", "дорожки", "автор", "название", "дата"}

const importedDescription = "Импортировано из файла"

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(utils.CollapseSpace(h))
}

// headerIndex maps canonical keys to column positions, or returns nil when row
// is not a recognizable header.
func headerIndex(row []string) map[string]int {
	idx := map[string]int{}
	for i, cell := range row {
		if key, ok := headerAliases[normalizeHeader(cell)]; ok {
			if _, seen := idx[key]; !seen {
				idx[key] = i
			}
		}
	}
	_, hasName := idx[keyName]
	_, hasLane := idx[keyTrackLane]
	if !hasName || !hasLane {
		return nil
	}
	return idx
}

// ParseRows turns raw spreadsheet rows into import records. A first row that
// names the columns selects header mode; otherwise the positional difficulty
// sheet layout is assumed.
func ParseRows(rows [][]string) ParseResult {
	if len(rows) == 0 {
		return ParseResult{Records: []Record{}}
	}
	if idx := headerIndex(rows[0]); idx != nil {
		return parseWithHeader(rows[1:], idx)
	}
	return parsePositional(rows)
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseWithHeader(rows [][]string, idx map[string]int) ParseResult {
	res := ParseResult{Records: []Record{}}
	get := func(row []string, key string) string {
		i, ok := idx[key]
		if !ok {
			return ""
		}
		return cellAt(row, i)
	}

	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		r := models.Route{
			RouteNumber:  get(row, keyRouteNumber),
			TrackLane:    get(row, keyTrackLane),
			Name:         get(row, keyName),
			Difficulty:   get(row, keyDifficulty),
			Color:        get(row, keyColor),
			Author:       get(row, keyAuthor),
			SetupDate:    get(row, keySetupDate),
			TakedownDate: get(row, keyTakedownDate),
			Description:  get(row, keyDescription),
		}
		r.IsActive = parseActive(get(row, keyIsActive), r.TakedownDate)
		res.Records = append(res.Records, Record{Row: i + 2, Route: r})
	}
	return res
}

func parsePositional(rows [][]string) ParseResult {
	res := ParseResult{Records: []Record{}}
	number := 1
	for i, row := range rows {
		if len(row) < positionalMinCells || isBlank(row[:positionalMinCells]) {
			continue
		}
		if isLegendRow(row) {
			continue
		}
		author := cellAt(row, posAuthor)
		difficulty := cellAt(row, posDifficulty)
		if author == "" || difficulty == "" {
			res.Skipped++
			continue
		}

		lane := cellAt(row, posLane)
		if _, err := strconv.Atoi(lane); err != nil {
			lane = ""
		}
		name := cellAt(row, posName)
		if name == "" {
			name = fmt.Sprintf("Трасса %d", number)
		}
		takedownMark := cellAt(row, posTakedown)

		res.Records = append(res.Records, Record{
			Row: i + 1,
			Route: models.Route{
				RouteNumber: strconv.Itoa(number),
				TrackLane:   lane,
				Name:        name,
				Difficulty:  difficulty,
				Color:       cellAt(row, posColor),
				Author:      author,
				SetupDate:   cellAt(row, posSetupDate),
				Description: importedDescription,
				IsActive:    takedownMark == "",
			},
		})
		number++
	}
	return res
}

func isLegendRow(row []string) bool {
	joined := strings.ToLower(strings.Join(row, " "))
	for _, kw := range headerKeywords {
		if strings.Contains(joined, kw) {
			return true
		}
	}
	return false
}

func parseActive(value, takedownDate string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "да", "активна", "active":
		return true
	case "false", "0", "no", "нет", "скручена", "inactive":
		return false
	}
	return models.DeriveActive(takedownDate)
}

// routeRow renders r in Header order.
func routeRow(r models.Route) []string {
	c := r.ToCSV()
	return []string{
		c.RouteNumber, c.TrackLane, c.Name, c.Difficulty, c.Color,
		c.Author, c.SetupDate, c.TakedownDate, c.Description, c.IsActive,
	}
}

package transport

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dharmasatrya/flightchat/internal/models"
)

//go:embed data/transport.json
var embeddedTable []byte

// Table is the airport-to-city-centre transport lookup. It never touches the network.
type Table struct {
	airports map[string]models.AirportTransportInfo
}

func NewTable(entries []models.AirportTransportInfo) *Table {
	t := &Table{airports: make(map[string]models.AirportTransportInfo, len(entries))}
	for _, e := range entries {
		code := strings.ToUpper(e.AirportCode)
		e.AirportCode = code
		t.airports[code] = e
	}
	return t
}

func Default() (*Table, error) {
	return parse(embeddedTable, "embedded transport table")
}

// Load reads a replacement table from path, or falls back to Default when path is empty.
func Load(path string) (*Table, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transport file: %w", err)
	}
	return parse(raw, path)
}

// Lookup returns a copy of the entry for code, or nil when the code is not in the table.
func (t *Table) Lookup(code string) *models.AirportTransportInfo {
	info, ok := t.airports[strings.ToUpper(code)]
	if !ok {
		return nil
	}
	info.Options = append([]models.TransportOption(nil), info.Options...)
	return &info
}

func (t *Table) Codes() []string {
	codes := make([]string, 0, len(t.airports))
	for code := range t.airports {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func parse(raw []byte, source string) (*Table, error) {
	var entries []models.AirportTransportInfo
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}
	return NewTable(entries), nil
}

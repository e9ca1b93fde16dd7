package locations

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dharmasatrya/flightchat/internal/models"
)

//go:embed data/*.json
var embedded embed.FS

// Resolver maps location codes to display names and city-centre coordinates.
type Resolver struct {
	names  map[string]string
	coords map[string]models.Coordinates
}

// table is the on-disk shape of a LOCATIONS_FILE override.
type table struct {
	Names       map[string]string             `json:"names"`
	Coordinates map[string]models.Coordinates `json:"coordinates"`
}

func NewResolver(names map[string]string, coords map[string]models.Coordinates) *Resolver {
	r := &Resolver{
		names:  make(map[string]string, len(names)),
		coords: make(map[string]models.Coordinates, len(coords)),
	}
	for code, name := range names {
		r.names[strings.ToUpper(code)] = name
	}
	for code, c := range coords {
		r.coords[strings.ToUpper(code)] = c
	}
	return r
}

// Default returns the resolver backed by the tables compiled into the binary.
func Default() (*Resolver, error) {
	var names map[string]string
	if err := decodeEmbedded("data/names.json", &names); err != nil {
		return nil, err
	}
	var coords map[string]models.Coordinates
	if err := decodeEmbedded("data/coordinates.json", &coords); err != nil {
		return nil, err
	}
	return NewResolver(names, coords), nil
}

// Load reads a replacement table from path, or falls back to Default when path is empty.
func Load(path string) (*Resolver, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read locations file: %w", err)
	}
	var t table
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("parse locations file %s: %w", path, err)
	}
	return NewResolver(t.Names, t.Coordinates), nil
}

// Name returns the display name for code, or code itself when unknown.
func (r *Resolver) Name(code string) string {
	if name, ok := r.names[strings.ToUpper(code)]; ok {
		return name
	}
	return code
}

// Coordinates returns the known pair for code or the zero sentinel.
func (r *Resolver) Coordinates(code string) models.Coordinates {
	return r.coords[strings.ToUpper(code)]
}

func (r *Resolver) Codes() []string {
	codes := make([]string, 0, len(r.names))
	for code := range r.names {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func decodeEmbedded(name string, v any) error {
	raw, err := embedded.ReadFile(name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

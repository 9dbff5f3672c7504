package reference

import (
	_ "embed"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/rep-lookup/app/models"
)

// Bundled point-in-time snapshot of sitting legislators. Refreshing the
// data means rebuilding the binary; there is no runtime invalidation.
// The checked-in file is a deliberately trimmed subset; a production
// build drops in a full congress-legislators export with the same
// columns, and seats absent from the snapshot degrade gracefully to
// API-sourced records.
//
//go:embed data/legislators.csv
var legislatorsCSV []byte

// Legislator is one row of the bundled snapshot. Only lower-chamber rows
// survive indexing.
type Legislator struct {
	FirstName string
	LastName  string
	FullName  string
	Suffix    string
	State     string
	District  string
	Party     string
	URL       string
	Address   string
	Phone     string
}

// Subdivision returns the seat this legislator holds.
func (l Legislator) Subdivision() models.Subdivision {
	return models.NewSubdivision(l.State, l.District)
}

// DisplayName returns the full name when the snapshot has one, falling
// back to "First Last".
func (l Legislator) DisplayName() string {
	if l.FullName != "" {
		return l.FullName
	}
	name := strings.TrimSpace(l.FirstName + " " + l.LastName)
	if l.Suffix != "" {
		name += " " + l.Suffix
	}
	return name
}

// Headers the snapshot must carry. Column positions are resolved by
// name, so a reordered export still parses.
var requiredHeaders = []string{"type", "state", "district", "last_name"}

// Index maps subdivision keys to the legislators holding the seat. The
// snapshot is parsed at most once per process, on first lookup; the
// parsed form is immutable afterwards.
type Index struct {
	logger *zap.Logger

	once  sync.Once
	byKey map[string][]Legislator
}

// NewIndex creates an unparsed index over the bundled snapshot.
func NewIndex(logger *zap.Logger) *Index {
	return &Index{logger: logger}
}

// Lookup returns the legislators for a subdivision, building the index
// on first use. The returned slice must not be mutated.
func (ix *Index) Lookup(sub models.Subdivision) []Legislator {
	ix.once.Do(ix.build)
	return ix.byKey[sub.Key()]
}

// Size returns the number of indexed subdivisions, forcing a build.
func (ix *Index) Size() int {
	ix.once.Do(ix.build)
	return len(ix.byKey)
}

func (ix *Index) build() {
	ix.byKey = parseSnapshot(legislatorsCSV, ix.logger)
}

func parseSnapshot(data []byte, logger *zap.Logger) map[string][]Legislator {
	byKey := make(map[string][]Legislator)

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		logger.Warn("Reference snapshot is unreadable", zap.Error(err))
		return byKey
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredHeaders {
		if _, ok := col[name]; !ok {
			// A snapshot with missing headers yields an empty index
			// rather than a crash; lookups degrade to API records.
			logger.Warn("Reference snapshot is missing a required header",
				zap.String("header", name))
			return byKey
		}
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rows, kept := 0, 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Malformed row: skip, not fatal.
			rows++
			continue
		}
		rows++

		if !strings.EqualFold(field(row, "type"), "rep") {
			continue
		}
		leg := Legislator{
			FirstName: field(row, "first_name"),
			LastName:  field(row, "last_name"),
			FullName:  field(row, "full_name"),
			Suffix:    field(row, "suffix"),
			State:     field(row, "state"),
			District:  field(row, "district"),
			Party:     field(row, "party"),
			URL:       field(row, "url"),
			Address:   field(row, "address"),
			Phone:     field(row, "phone"),
		}
		if leg.LastName == "" || leg.State == "" {
			continue
		}

		key := leg.Subdivision().Key()
		byKey[key] = append(byKey[key], leg)
		kept++
	}

	logger.Info("Built reference legislator index",
		zap.Int("rows", rows),
		zap.Int("representatives", kept),
		zap.Int("subdivisions", len(byKey)))

	return byKey
}

package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/agriclim/meteo-extract/internal/domain"
)

// Input defaults applied to records that omit the optional fields.
const (
	defaultCountry   = "France"
	defaultLanguage  = "fr"
	defaultParameter = "temperature"
)

// LoadQueries reads the ordered batch input: a JSON array of location
// records, each minimally carrying a place name and a department code.
// Optional fields get the documented defaults; order is preserved.
func LoadQueries(path string) ([]domain.LocationQuery, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch input: %w", err)
	}

	var queries []domain.LocationQuery
	if err := json.Unmarshal(raw, &queries); err != nil {
		return nil, &domain.DecodeError{Op: "parse batch input", Err: err}
	}

	for i := range queries {
		if queries[i].Country == "" {
			queries[i].Country = defaultCountry
		}
		if queries[i].Language == "" {
			queries[i].Language = defaultLanguage
		}
		if queries[i].Parameter == "" {
			queries[i].Parameter = defaultParameter
		}
	}
	return queries, nil
}

package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/benjamincrom/hikewithben-search/internal/domain/entities"
	apperrors "github.com/benjamincrom/hikewithben-search/pkg/errors"
)

// Query parameter names accepted by ParseSearchQuery.
const (
	ParamHomeAddress       = "home_address_str"
	ParamNameContains      = "name_contains_str"
	ParamMinDistance       = "min_distance"
	ParamMaxDistance       = "max_distance"
	ParamMinTemp           = "min_temp"
	ParamMaxTemp           = "max_temp"
	ParamStartDate         = "start_date"
	ParamFinishDate        = "finish_date"
	ParamWeekendsOnly      = "weekends_only"
	ParamShowOnlyAvailable = "show_only_available"
)

const (
	DefaultMinDistance = 0
	DefaultMaxDistance = 100000
	DefaultMinTemp     = -1000
	DefaultMaxTemp     = 1000
)

// ParseSearchQuery validates raw parameters and applies defaults. Empty values
// are treated as absent. Default dates span the calendar year of now.
func ParseSearchQuery(params map[string]string, now time.Time) (entities.SearchQuery, error) {
	get := func(name string) string {
		return strings.TrimSpace(params[name])
	}

	query := entities.SearchQuery{
		HomeAddress:  get(ParamHomeAddress),
		NameContains: params[ParamNameContains],
		StartDate:    time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC),
		FinishDate:   time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, time.UTC),
	}
	if query.HomeAddress == "" {
		return entities.SearchQuery{}, apperrors.NewValidationError(ParamHomeAddress + " is required")
	}

	var err error
	if query.MinDistance, err = parseInt(get(ParamMinDistance), ParamMinDistance, DefaultMinDistance); err != nil {
		return entities.SearchQuery{}, err
	}
	if query.MaxDistance, err = parseInt(get(ParamMaxDistance), ParamMaxDistance, DefaultMaxDistance); err != nil {
		return entities.SearchQuery{}, err
	}
	if query.MinTemp, err = parseInt(get(ParamMinTemp), ParamMinTemp, DefaultMinTemp); err != nil {
		return entities.SearchQuery{}, err
	}
	if query.MaxTemp, err = parseInt(get(ParamMaxTemp), ParamMaxTemp, DefaultMaxTemp); err != nil {
		return entities.SearchQuery{}, err
	}
	if query.StartDate, err = parseDate(get(ParamStartDate), ParamStartDate, query.StartDate); err != nil {
		return entities.SearchQuery{}, err
	}
	if query.FinishDate, err = parseDate(get(ParamFinishDate), ParamFinishDate, query.FinishDate); err != nil {
		return entities.SearchQuery{}, err
	}
	if query.WeekendsOnly, err = parseFlag(get(ParamWeekendsOnly), ParamWeekendsOnly); err != nil {
		return entities.SearchQuery{}, err
	}
	if query.ShowOnlyAvailable, err = parseFlag(get(ParamShowOnlyAvailable), ParamShowOnlyAvailable); err != nil {
		return entities.SearchQuery{}, err
	}

	if query.MinDistance > query.MaxDistance {
		return entities.SearchQuery{}, apperrors.NewValidationError(
			fmt.Sprintf("%s (%d) exceeds %s (%d)", ParamMinDistance, query.MinDistance, ParamMaxDistance, query.MaxDistance))
	}
	if query.MinTemp > query.MaxTemp {
		return entities.SearchQuery{}, apperrors.NewValidationError(
			fmt.Sprintf("%s (%d) exceeds %s (%d)", ParamMinTemp, query.MinTemp, ParamMaxTemp, query.MaxTemp))
	}
	if query.StartDate.After(query.FinishDate) {
		return entities.SearchQuery{}, apperrors.NewValidationError(
			fmt.Sprintf("%s is after %s", ParamStartDate, ParamFinishDate))
	}

	return query, nil
}

func parseInt(value, name string, def int) (int, error) {
	if value == "" {
		return def, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, apperrors.NewValidationError(fmt.Sprintf("%s must be an integer, got %q", name, value))
	}
	return n, nil
}

func parseDate(value, name string, def time.Time) (time.Time, error) {
	if value == "" {
		return def, nil
	}
	t, err := time.Parse(entities.DateLayout, value)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError(fmt.Sprintf("%s must be a YYYY-MM-DD date, got %q", name, value))
	}
	return t, nil
}

// parseFlag accepts the strconv.ParseBool spellings plus HTML checkbox "on"
// and "yes".
func parseFlag(value, name string) (bool, error) {
	if value == "" {
		return false, nil
	}
	switch strings.ToLower(value) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, apperrors.NewValidationError(fmt.Sprintf("%s must be a boolean flag, got %q", name, value))
	}
	return b, nil
}

package shared

import (
	"strconv"
	"strings"

	"todoapp/shared/dto"

	"github.com/rs/zerolog/log"
)

// ConvertStringToBool parses a query flag. An empty value yields nil without error.
func ConvertStringToBool(value string) (*bool, error) {
	if value == "" {
		return nil, nil //nolint:nilnil
	}

	boolValue, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		log.Debug().Err(err).Str("value", value).Msg("failed to convert string to bool")

		return nil, err //nolint:wrapcheck
	}

	return &boolValue, nil
}

// ParseID parses a positive integer identifier from a path segment. Only plain digits are accepted,
// so a leading sign is rejected.
func ParseID(raw string) (int64, bool) {
	id, err := strconv.ParseUint(raw, 10, 63)
	if err != nil || id == 0 {
		return 0, false
	}

	return int64(id), true
}

func FilterByID(id any, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

func Ptr[T any](v T) *T {
	return &v
}

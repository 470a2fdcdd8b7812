package tax

import (
	"fmt"
	"strings"

	"github.com/nurpe/hvut-filing/internal/model"
)

// Partition splits a flat fleet into one MonthGroup per distinct
// first-used month, preserving the order months are first encountered.
// Each group is filed independently; there is no cross-month aggregation.
//
// A vehicle without a month takes defaultMonth. If that is empty too the
// whole submission is rejected: a filing is keyed on its month, so a
// vehicle without one has nowhere valid to go.
func Partition(business model.Business, vehicles []model.Vehicle, defaultMonth string) ([]model.MonthGroup, error) {
	groups := make([]model.MonthGroup, 0, 4)
	index := make(map[string]int, 4)

	for _, vehicle := range vehicles {
		month := strings.TrimSpace(vehicle.FirstUsedMonth)
		if month == "" {
			month = strings.TrimSpace(defaultMonth)
		}
		if month == "" {
			return nil, fmt.Errorf("%w: vin %s", ErrMissingMonth, vehicle.VIN)
		}
		vehicle.FirstUsedMonth = month

		pos, ok := index[month]
		if !ok {
			groups = append(groups, model.MonthGroup{
				Month:    month,
				Business: business,
			})
			pos = len(groups) - 1
			index[month] = pos
		}
		groups[pos].Vehicles = append(groups[pos].Vehicles, vehicle)
	}

	return groups, nil
}

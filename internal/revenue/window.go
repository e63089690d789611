package revenue

import (
	"time"

	"github.com/nurpe/partner-contracts/internal/model"
)

// ResolvePeriod clips the requested window to the contract's own dates and
// widens it to whole UTC days, the same calendar bulk months are keyed in.
// ok is false when nothing overlaps.
func ResolvePeriod(contract model.Contract, calcStart, calcEnd *time.Time) (model.Period, bool) {
	start := contract.StartDate
	if calcStart != nil && calcStart.After(start) {
		start = *calcStart
	}
	end := contract.EndDate
	if calcEnd != nil && calcEnd.Before(end) {
		end = *calcEnd
	}

	period := model.Period{
		Start: model.StartOfDay(start.UTC()),
		End:   model.EndOfDay(end.UTC()),
	}
	return period, !period.Start.After(period.End)
}

package reporting

import (
	"sort"
	"time"

	"github.com/shifty/shifty-backend/internal/shiftplan/domain"
	"github.com/shifty/shifty-backend/pkg/calendar"
)

type contractSpan struct {
	contract *domain.WorkingHours
	from     time.Time
	to       time.Time
}

// ContractResolver picks the contract in force for a day or week.
//
// When contracts overlap, the one with the latest start wins. Ties go to the
// most recently created contract, then to the larger id.
type ContractResolver struct {
	spans []contractSpan
}

// NewContractResolver indexes the non-deleted contracts. It fails when a
// contract holds an impossible week date.
func NewContractResolver(contracts []domain.WorkingHours) (*ContractResolver, error) {
	spans := make([]contractSpan, 0, len(contracts))
	for i := range contracts {
		c := &contracts[i]
		if c.IsDeleted() {
			continue
		}
		from, err := c.FromDate()
		if err != nil {
			return nil, err
		}
		to, err := c.ToDate()
		if err != nil {
			return nil, err
		}
		spans = append(spans, contractSpan{contract: c, from: from, to: to})
	}

	sort.SliceStable(spans, func(i, j int) bool {
		a, b := spans[i], spans[j]
		if !a.from.Equal(b.from) {
			return a.from.After(b.from)
		}
		if !a.contract.Created.Equal(b.contract.Created) {
			return a.contract.Created.After(b.contract.Created)
		}
		return a.contract.ID.String() > b.contract.ID.String()
	})

	return &ContractResolver{spans: spans}, nil
}

// ForDate returns the contract covering day, or nil.
func (r *ContractResolver) ForDate(day time.Time) *domain.WorkingHours {
	day = calendar.Truncate(day)
	for _, s := range r.spans {
		if !day.Before(s.from) && !day.After(s.to) {
			return s.contract
		}
	}
	return nil
}

// ForWeek returns the contract whose week range contains week, or nil.
func (r *ContractResolver) ForWeek(week calendar.Week) *domain.WorkingHours {
	for _, s := range r.spans {
		if s.contract.CoversWeek(week) {
			return s.contract
		}
	}
	return nil
}

// Contracts returns the indexed contracts in precedence order.
func (r *ContractResolver) Contracts() []*domain.WorkingHours {
	out := make([]*domain.WorkingHours, len(r.spans))
	for i, s := range r.spans {
		out[i] = s.contract
	}
	return out
}

// Workday bounds the nominal working day used to pro-rate short days.
type Workday struct {
	Start calendar.TimeOfDay
	End   calendar.TimeOfDay
}

// DefaultWorkday is 08:00 to 16:00.
var DefaultWorkday = Workday{
	Start: calendar.TimeOfDay{Hour: 8},
	End:   calendar.TimeOfDay{Hour: 16},
}

// ShortDayFactor is the share of the day worked before cutoff, clamped to
// [0, 1]. A short day without cutoff counts as half a day.
func (w Workday) ShortDayFactor(cutoff *calendar.TimeOfDay) float32 {
	span := w.End.Minutes() - w.Start.Minutes()
	if cutoff == nil || span <= 0 {
		return 0.5
	}
	f := float32(cutoff.Minutes()-w.Start.Minutes()) / float32(span)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// ExpectedHours returns the hours contract c expects on day, after special
// day adjustments. A nil contract expects nothing.
func (w Workday) ExpectedHours(c *domain.WorkingHours, day time.Time, special *domain.SpecialDay) float32 {
	if c == nil || !c.WorksOn(calendar.FromWeekday(day.Weekday())) {
		return 0
	}
	perDay := c.HoursPerDay()
	if special == nil {
		return perDay
	}
	switch special.DayType {
	case domain.SpecialDayHoliday:
		return 0
	case domain.SpecialDayShortDay:
		return perDay * w.ShortDayFactor(special.TimeOfDay)
	}
	return perDay
}

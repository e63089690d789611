package revenue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nurpe/partner-contracts/internal/model"
	"github.com/nurpe/partner-contracts/internal/testutil"
)

func ptr(t time.Time) *time.Time { return &t }

func TestResolvePeriod(t *testing.T) {
	contract := model.Contract{
		StartDate: time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC),
		EndDate:   time.Date(2024, time.September, 20, 15, 0, 0, 0, time.UTC),
	}
	endOf := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), time.UTC)
	}

	cases := []struct {
		name      string
		start     *time.Time
		end       *time.Time
		wantStart time.Time
		wantEnd   time.Time
		wantOK    bool
	}{
		{
			name:      "defaults to contract dates",
			wantStart: testutil.Date(2024, time.March, 10),
			wantEnd:   endOf(2024, time.September, 20),
			wantOK:    true,
		},
		{
			name:      "clips wider request",
			start:     ptr(testutil.Date(2024, time.January, 1)),
			end:       ptr(testutil.Date(2025, time.January, 1)),
			wantStart: testutil.Date(2024, time.March, 10),
			wantEnd:   endOf(2024, time.September, 20),
			wantOK:    true,
		},
		{
			name:      "narrower request wins",
			start:     ptr(time.Date(2024, time.May, 5, 18, 0, 0, 0, time.UTC)),
			end:       ptr(time.Date(2024, time.May, 31, 1, 0, 0, 0, time.UTC)),
			wantStart: testutil.Date(2024, time.May, 5),
			wantEnd:   endOf(2024, time.May, 31),
			wantOK:    true,
		},
		{
			name:      "same day after normalization overlaps",
			start:     ptr(time.Date(2024, time.May, 5, 18, 0, 0, 0, time.UTC)),
			end:       ptr(time.Date(2024, time.May, 5, 6, 0, 0, 0, time.UTC)),
			wantStart: testutil.Date(2024, time.May, 5),
			wantEnd:   endOf(2024, time.May, 5),
			wantOK:    true,
		},
		{
			name:      "non-utc request floors on utc days",
			start:     ptr(time.Date(2024, time.May, 1, 2, 0, 0, 0, time.FixedZone("ALMT", 6*3600))),
			end:       ptr(time.Date(2024, time.May, 31, 23, 0, 0, 0, time.FixedZone("EST", -5*3600))),
			wantStart: testutil.Date(2024, time.April, 30),
			wantEnd:   endOf(2024, time.June, 1),
			wantOK:    true,
		},
		{
			name:      "request after contract end",
			start:     ptr(testutil.Date(2024, time.October, 1)),
			wantStart: testutil.Date(2024, time.October, 1),
			wantEnd:   endOf(2024, time.September, 20),
			wantOK:    false,
		},
		{
			name:      "request before contract start",
			end:       ptr(testutil.Date(2024, time.February, 1)),
			wantStart: testutil.Date(2024, time.March, 10),
			wantEnd:   endOf(2024, time.February, 1),
			wantOK:    false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			period, ok := ResolvePeriod(contract, tc.start, tc.end)
			assert.Equal(t, tc.wantOK, ok)
			assert.True(t, tc.wantStart.Equal(period.Start), "start %s", period.Start)
			assert.True(t, tc.wantEnd.Equal(period.End), "end %s", period.End)
			assert.Equal(t, time.UTC, period.Start.Location())
			assert.Equal(t, time.UTC, period.End.Location())
		})
	}
}

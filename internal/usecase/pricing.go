package usecase

import (
	"math"
	"time"

	"golocal-spaces/internal/data/entity"
	"golocal-spaces/pkg/apperror"
)

const (
	// PlatformFeeRate is the share of every booking total kept by the marketplace.
	PlatformFeeRate = 0.10
	Currency        = "usd"

	daysPerMonth = 30
	day          = 24 * time.Hour
)

// Quote is a priced stay. All amounts are integer cents and
// LandlordAmountCents + PlatformFeeCents == TotalCents.
type Quote struct {
	Days                int
	TotalCents          int64
	PlatformFeeCents    int64
	LandlordAmountCents int64
}

// StayDays returns the number of started days in [start, end).
func StayDays(start, end time.Time) int {
	d := end.Sub(start)
	if d <= 0 {
		return 0
	}
	days := int(d / day)
	if d%day != 0 {
		days++
	}
	return days
}

// CalculateQuote prices [start, end) against the space's rates. A stay of at least
// one month bills whole months when a monthly rate exists; otherwise the daily rate
// applies, falling back to a pro-rated monthly rate.
func CalculateQuote(space *entity.Space, start, end time.Time) (*Quote, error) {
	days := StayDays(start, end)
	if days <= 0 {
		return nil, apperror.Validation("end_date must be after start_date")
	}
	if !space.HasRate() {
		return nil, apperror.Validation("space has no daily or monthly rate")
	}

	monthly := rate(space.PricePerMonthCents)
	daily := rate(space.PricePerDayCents)

	var total int64
	switch {
	case monthly > 0 && days >= daysPerMonth:
		months := int64((days + daysPerMonth - 1) / daysPerMonth)
		total = monthly * months
	case daily > 0:
		total = daily * int64(days)
	default:
		// round half up to the cent
		total = (monthly*int64(days) + daysPerMonth/2) / daysPerMonth
	}

	fee := PlatformFee(total)
	return &Quote{
		Days:                days,
		TotalCents:          total,
		PlatformFeeCents:    fee,
		LandlordAmountCents: total - fee,
	}, nil
}

// PlatformFee is PlatformFeeRate of total, rounded to the cent.
func PlatformFee(totalCents int64) int64 {
	return int64(math.Round(float64(totalCents) * PlatformFeeRate))
}

func rate(cents *int64) int64 {
	if cents == nil || *cents <= 0 {
		return 0
	}
	return *cents
}

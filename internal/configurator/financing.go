package configurator

import (
	"fmt"
	"math"
)

// LeaseTerm is a supported lease duration and its APR in percent
type LeaseTerm struct {
	Months int     `json:"months"`
	APR    float64 `json:"apr"`
}

const (
	DefaultLeaseTermMonths = 36

	DefaultDownPaymentRatio = 0.2
	MinDownPaymentRatio     = 0.1
	MaxDownPaymentRatio     = 0.8

	// SidebarEstimateMonths is the divisor of the running monthly estimate
	SidebarEstimateMonths = 36

	// ShowcaseMonthlyFactor converts a list price into the showcase card's
	// "from" monthly price.
	ShowcaseMonthlyFactor = 0.018871
)

var leaseTerms = []LeaseTerm{
	{Months: 24, APR: 3.9},
	{Months: 36, APR: 3.5},
	{Months: 48, APR: 3.7},
	{Months: 60, APR: 4.0},
}

// LeaseTerms returns the supported terms, shortest first
func LeaseTerms() []LeaseTerm {
	out := make([]LeaseTerm, len(leaseTerms))
	copy(out, leaseTerms)
	return out
}

// FindLeaseTerm looks up a term by months
func FindLeaseTerm(months int) (LeaseTerm, bool) {
	for _, t := range leaseTerms {
		if t.Months == months {
			return t, true
		}
	}
	return LeaseTerm{}, false
}

// Financing is the lease choice attached to an order or quote
type Financing struct {
	LeaseTerm      int     `json:"leaseTerm"`
	APR            float64 `json:"apr"`
	DownPayment    float64 `json:"downPayment"`
	MonthlyPayment float64 `json:"monthlyPayment"`
}

// FinancingQuote is a Financing plus the bounds it was computed within
type FinancingQuote struct {
	Financing
	VehiclePrice   float64 `json:"vehiclePrice"`
	FinancedAmount float64 `json:"financedAmount"`
	MinDownPayment float64 `json:"minDownPayment"`
	MaxDownPayment float64 `json:"maxDownPayment"`
}

// MonthlyPayment amortises principal over months at apr percent per year,
// rounded to whole currency units.
func MonthlyPayment(principal, apr float64, months int) float64 {
	if months <= 0 || principal <= 0 {
		return 0
	}
	r := apr / 100 / 12
	if r == 0 {
		return math.Round(principal / float64(months))
	}
	growth := math.Pow(1+r, float64(months))
	return math.Round(principal * r * growth / (growth - 1))
}

// DownPaymentBounds returns the rounded minimum and maximum down payment
func DownPaymentBounds(total float64) (float64, float64) {
	return math.Round(total * MinDownPaymentRatio), math.Round(total * MaxDownPaymentRatio)
}

// Finance prices a lease for total. months 0 selects the default term; a
// nil downPayment selects 20% of total. The down payment is clamped to the
// allowed bounds.
func Finance(total float64, months int, downPayment *float64) (FinancingQuote, error) {
	if months == 0 {
		months = DefaultLeaseTermMonths
	}
	term, ok := FindLeaseTerm(months)
	if !ok {
		return FinancingQuote{}, fmt.Errorf("%w: %d months", ErrUnknownLeaseTerm, months)
	}

	minDown, maxDown := DownPaymentBounds(total)

	down := math.Round(total * DefaultDownPaymentRatio)
	if downPayment != nil {
		down = math.Round(*downPayment)
	}
	down = math.Max(minDown, math.Min(maxDown, down))

	financed := total - down

	return FinancingQuote{
		Financing: Financing{
			LeaseTerm:      term.Months,
			APR:            term.APR,
			DownPayment:    down,
			MonthlyPayment: MonthlyPayment(financed, term.APR, term.Months),
		},
		VehiclePrice:   total,
		FinancedAmount: financed,
		MinDownPayment: minDown,
		MaxDownPayment: maxDown,
	}, nil
}

// SidebarEstimate is the running monthly figure shown next to the total
func SidebarEstimate(total float64) float64 {
	return math.Round(total / SidebarEstimateMonths)
}

// ShowcaseMonthly is the "from" monthly price on a showcase card, rounded
// to cents. Non-positive prices yield 0.
func ShowcaseMonthly(price float64) float64 {
	if price <= 0 {
		return 0
	}
	return math.Round(price*ShowcaseMonthlyFactor*100) / 100
}

package report

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"businessathi/internal/domain"
)

// calendarIndex maps full month names to their position in the year.
var calendarIndex = func() map[string]int {
	m := make(map[string]int, 12)
	for mo := time.January; mo <= time.December; mo++ {
		m[mo.String()] = int(mo)
	}
	return m
}()

// ComputeStatistics derives the dashboard summary from a tenant's invoice
// amounts. now selects the current month (full English name) and year.
// Empty or unparsable amounts count as zero; the number of unparsable,
// non-empty amounts is returned so callers can log them.
//
// The breakdown has one row per month present in the current year, ordered
// by calendar month. Labels that are not month names sort last.
func ComputeStatistics(now time.Time, amounts []domain.InvoiceAmount) (stats domain.InvoiceStatistics, invalid int) {
	currentMonth := now.Month().String()
	currentYear := now.Format("2006")

	monthTotal := decimal.Zero
	allTotal := decimal.Zero

	type bucket struct {
		total decimal.Decimal
		count int
	}
	byMonth := make(map[string]*bucket)

	for _, a := range amounts {
		v, ok := domain.ParseAmount(a.TotalInvoiceValue)
		if !ok && strings.TrimSpace(a.TotalInvoiceValue) != "" {
			invalid++
		}

		allTotal = allTotal.Add(v)
		if a.YearOf != currentYear {
			continue
		}
		if a.MonthOf == currentMonth {
			monthTotal = monthTotal.Add(v)
		}
		b, exists := byMonth[a.MonthOf]
		if !exists {
			b = &bucket{}
			byMonth[a.MonthOf] = b
		}
		b.total = b.total.Add(v)
		b.count++
	}

	breakdown := make([]domain.MonthlyTotal, 0, len(byMonth))
	for month, b := range byMonth {
		breakdown = append(breakdown, domain.MonthlyTotal{
			Month: month,
			Total: domain.NewMoney(b.total),
			Count: b.count,
		})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		return monthLess(breakdown[i].Month, breakdown[j].Month)
	})

	return domain.InvoiceStatistics{
		CurrentMonth:      currentMonth,
		CurrentYear:       currentYear,
		CurrentMonthTotal: domain.NewMoney(monthTotal),
		TotalInvoices:     len(amounts),
		TotalValue:        domain.NewMoney(allTotal),
		MonthlyBreakdown:  breakdown,
	}, invalid
}

func monthLess(a, b string) bool {
	ia, okA := calendarIndex[a]
	ib, okB := calendarIndex[b]
	switch {
	case okA && okB:
		return ia < ib
	case okA:
		return true
	case okB:
		return false
	default:
		return a < b
	}
}

// SortMonths orders distinct month labels by calendar month, unknown labels
// last, and drops empty labels.
func SortMonths(months []string) []string {
	out := make([]string, 0, len(months))
	seen := make(map[string]bool, len(months))
	for _, m := range months {
		if strings.TrimSpace(m) == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return monthLess(out[i], out[j]) })
	return out
}

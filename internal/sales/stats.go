package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/ventaflow/ventaflow-backend/pkg/errors"
)

// StatsDTO aggregates the sales window for dashboards. Refunded sales
// are excluded. TotalRevenue and TodayRevenue are independent of the
// requested window: total spans the full history, today spans the
// caller-local calendar day.
type StatsDTO struct {
	From            time.Time                  `json:"from"`
	To              time.Time                  `json:"to"`
	SaleCount       int                        `json:"sale_count"`
	ItemsSold       int                        `json:"items_sold"`
	Revenue         decimal.Decimal            `json:"revenue"`
	TaxCollected    decimal.Decimal            `json:"tax_collected"`
	DiscountGiven   decimal.Decimal            `json:"discount_given"`
	AverageTicket   decimal.Decimal            `json:"average_ticket"`
	ByPaymentMethod map[string]decimal.Decimal `json:"by_payment_method"`
	TotalRevenue    decimal.Decimal            `json:"total_revenue"`
	TotalSaleCount  int                        `json:"total_sale_count"`
	TodayRevenue    decimal.Decimal            `json:"today_revenue"`
	TodaySaleCount  int                        `json:"today_sale_count"`
}

// Stats aggregates committed sales between from (inclusive) and to
// (exclusive). Sums run over the loaded rows in decimal space so the
// result matches the persisted cent values exactly. loc anchors the
// "today" partition; nil means UTC.
func (s *service) Stats(ctx context.Context, companyID uuid.UUID, from, to time.Time, loc *time.Location) (*StatsDTO, error) {
	if companyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id is required")
	}
	if !to.After(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stats window must end after it starts")
	}

	rows, err := s.repo.ListBetween(ctx, companyID, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list sales for stats")
	}

	stats := &StatsDTO{
		From:            from,
		To:              to,
		Revenue:         decimal.Zero,
		TaxCollected:    decimal.Zero,
		DiscountGiven:   decimal.Zero,
		AverageTicket:   decimal.Zero,
		ByPaymentMethod: make(map[string]decimal.Decimal),
	}

	for i := range rows {
		sale := &rows[i]
		stats.SaleCount++
		stats.Revenue = stats.Revenue.Add(sale.Total)
		stats.TaxCollected = stats.TaxCollected.Add(sale.Tax)
		stats.DiscountGiven = stats.DiscountGiven.Add(sale.Discount)
		for _, item := range sale.Items {
			stats.ItemsSold += item.Quantity
		}

		method := string(sale.PaymentMethod)
		current, ok := stats.ByPaymentMethod[method]
		if !ok {
			current = decimal.Zero
		}
		stats.ByPaymentMethod[method] = current.Add(sale.Total)
	}

	if stats.SaleCount > 0 {
		stats.AverageTicket = stats.Revenue.Div(decimal.NewFromInt(int64(stats.SaleCount))).Round(2)
	}

	if loc == nil {
		loc = time.UTC
	}
	now := time.Now().In(loc)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	stats.TotalRevenue, stats.TotalSaleCount, err = s.repo.Summarize(ctx, companyID, time.Time{}, time.Time{})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: summarize sales")
	}
	stats.TodayRevenue, stats.TodaySaleCount, err = s.repo.Summarize(ctx, companyID, dayStart, time.Time{})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: summarize today")
	}
	return stats, nil
}

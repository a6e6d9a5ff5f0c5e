package performance

import (
	"time"

	deliveryModel "delivery-backend/models/delivery"
	reviewModel "delivery-backend/models/review"

	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

// windows holds the aggregation window starts. Weeks start on Monday.
type windows struct {
	Day   time.Time
	Week  time.Time
	Month time.Time
	Year  time.Time
}

func windowsAt(t time.Time) windows {
	cfg := &now.Config{WeekStartDay: time.Monday}
	n := cfg.With(t)
	return windows{
		Day:   n.BeginningOfDay(),
		Week:  n.BeginningOfWeek(),
		Month: n.BeginningOfMonth(),
		Year:  n.BeginningOfYear(),
	}
}

// ReviewStats aggregates reviews inside one window.
type ReviewStats struct {
	Count   int64   `json:"count"`
	Average float64 `json:"average"`
}

// DeliveryStats counts deliveries by outcome inside one window.
// Ongoing covers Pending and Processing.
type DeliveryStats struct {
	Total     int64 `json:"total"`
	Ongoing   int64 `json:"ongoing"`
	Delivered int64 `json:"delivered"`
	Cancelled int64 `json:"cancelled"`
}

// WindowReport is one aggregation window. Revenue is only filled on
// fleet-wide reports.
type WindowReport struct {
	Reviews    ReviewStats   `json:"reviews"`
	Deliveries DeliveryStats `json:"deliveries"`
	Revenue    float64       `json:"revenue,omitempty"`
}

// MonthlyStat is one month of the current year's delivered/cancelled
// breakdown.
type MonthlyStat struct {
	Month     int   `json:"month"`
	Delivered int64 `json:"delivered"`
	Cancelled int64 `json:"cancelled"`
}

// Report covers the five standard windows plus the month-by-month
// breakdown for the current year. Everything is recomputed from the
// base tables on each request.
type Report struct {
	Today   WindowReport  `json:"today"`
	Week    WindowReport  `json:"week"`
	Month   WindowReport  `json:"month"`
	Year    WindowReport  `json:"year"`
	AllTime WindowReport  `json:"all_time"`
	Monthly []MonthlyStat `json:"monthly"`
}

// Service computes driver and fleet performance reports.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// DriverReport aggregates one driver's reviews and deliveries.
// driverID 0 aggregates the whole fleet.
func (s *Service) DriverReport(driverID uint) (*Report, error) {
	return s.report(driverID, false)
}

// FleetReport aggregates every driver plus delivered revenue per
// window.
func (s *Service) FleetReport() (*Report, error) {
	return s.report(0, true)
}

func (s *Service) report(driverID uint, withRevenue bool) (*Report, error) {
	w := windowsAt(time.Now())

	report := &Report{}
	targets := []struct {
		out   *WindowReport
		since time.Time
	}{
		{&report.Today, w.Day},
		{&report.Week, w.Week},
		{&report.Month, w.Month},
		{&report.Year, w.Year},
		{&report.AllTime, time.Time{}},
	}

	for _, target := range targets {
		reviews, err := s.reviewStats(driverID, target.since)
		if err != nil {
			return nil, err
		}
		deliveries, err := s.deliveryStats(driverID, target.since)
		if err != nil {
			return nil, err
		}
		target.out.Reviews = reviews
		target.out.Deliveries = deliveries

		if withRevenue {
			revenue, err := s.revenue(target.since)
			if err != nil {
				return nil, err
			}
			target.out.Revenue = revenue
		}
	}

	monthly, err := s.monthlyBreakdown(driverID, w.Year)
	if err != nil {
		return nil, err
	}
	report.Monthly = monthly

	return report, nil
}

func (s *Service) reviewStats(driverID uint, since time.Time) (ReviewStats, error) {
	q := s.db.Model(&reviewModel.Review{})
	if driverID != 0 {
		q = q.Where("driver_id = ?", driverID)
	}
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}

	var stats ReviewStats
	err := q.Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS average").Scan(&stats).Error
	return stats, err
}

func (s *Service) deliveryStats(driverID uint, since time.Time) (DeliveryStats, error) {
	q := s.db.Model(&deliveryModel.Delivery{})
	if driverID != 0 {
		q = q.Where("driver_id = ?", driverID)
	}
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}

	var rows []struct {
		Status deliveryModel.Status
		Count  int64
	}
	if err := q.Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return DeliveryStats{}, err
	}

	var stats DeliveryStats
	for _, row := range rows {
		stats.Total += row.Count
		switch row.Status {
		case deliveryModel.StatusPending, deliveryModel.StatusProcessing:
			stats.Ongoing += row.Count
		case deliveryModel.StatusDelivered:
			stats.Delivered += row.Count
		case deliveryModel.StatusCancelled:
			stats.Cancelled += row.Count
		}
	}
	return stats, nil
}

func (s *Service) revenue(since time.Time) (float64, error) {
	q := s.db.Model(&deliveryModel.Delivery{}).
		Where("status = ?", deliveryModel.StatusDelivered)
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}

	var total float64
	err := q.Select("COALESCE(SUM(price), 0)").Scan(&total).Error
	return total, err
}

func (s *Service) monthlyBreakdown(driverID uint, yearStart time.Time) ([]MonthlyStat, error) {
	q := s.db.Model(&deliveryModel.Delivery{}).
		Where("created_at >= ?", yearStart).
		Where("status IN ?", []deliveryModel.Status{deliveryModel.StatusDelivered, deliveryModel.StatusCancelled})
	if driverID != 0 {
		q = q.Where("driver_id = ?", driverID)
	}

	var rows []struct {
		Month  int
		Status deliveryModel.Status
		Count  int64
	}
	err := q.Select("EXTRACT(MONTH FROM created_at)::int AS month, status, COUNT(*) AS count").
		Group("month, status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	// Twelve fixed slots so the client can chart the year directly.
	monthly := make([]MonthlyStat, 12)
	for i := range monthly {
		monthly[i].Month = i + 1
	}
	for _, row := range rows {
		if row.Month < 1 || row.Month > 12 {
			continue
		}
		switch row.Status {
		case deliveryModel.StatusDelivered:
			monthly[row.Month-1].Delivered = row.Count
		case deliveryModel.StatusCancelled:
			monthly[row.Month-1].Cancelled = row.Count
		}
	}
	return monthly, nil
}

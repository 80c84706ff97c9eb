package service

import (
	"context"
	"time"

	"github.com/tekstilpro/proforma-api/internal/domain/entity"
	"github.com/tekstilpro/proforma-api/internal/domain/enum"
	"github.com/tekstilpro/proforma-api/internal/domain/repository"
)

// DashboardService provides back-office statistics over requests and quotes
type DashboardService struct {
	requestRepo repository.ProductionRequestRepository
	quoteRepo   repository.QuoteRepository
	productRepo repository.ProductRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	requestRepo repository.ProductionRequestRepository,
	quoteRepo repository.QuoteRepository,
	productRepo repository.ProductRepository,
) *DashboardService {
	return &DashboardService{
		requestRepo: requestRepo,
		quoteRepo:   quoteRepo,
		productRepo: productRepo,
	}
}

// DashboardStats represents back-office statistics
type DashboardStats struct {
	PendingRequests  int64             `json:"pending_requests"`
	ReviewRequests   int64             `json:"review_requests"`
	ApprovedRequests int64             `json:"approved_requests"`
	RejectedRequests int64             `json:"rejected_requests"`
	ArchivedRequests int64             `json:"archived_requests"`
	TotalProducts    int64             `json:"total_products"`
	QuotedTotal      float64           `json:"quoted_total"`
	ApprovedTotal    float64           `json:"approved_total"`
	MonthlyQuoted    float64           `json:"monthly_quoted"`
	DailyQuotedData  []DailyQuotePoint `json:"daily_quoted_data"`
}

// DailyQuotePoint represents one day of quoted amounts
type DailyQuotePoint struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
	Quotes int     `json:"quotes"`
}

// GetDashboardStats returns back-office statistics
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	statusCounts := []struct {
		status enum.RequestStatus
		target *int64
	}{
		{enum.RequestStatusPending, &stats.PendingRequests},
		{enum.RequestStatusReview, &stats.ReviewRequests},
		{enum.RequestStatusApproved, &stats.ApprovedRequests},
		{enum.RequestStatusRejected, &stats.RejectedRequests},
		{enum.RequestStatusArchived, &stats.ArchivedRequests},
	}
	for _, sc := range statusCounts {
		count, err := s.requestRepo.CountByStatus(ctx, sc.status)
		if err != nil {
			return nil, err
		}
		*sc.target = count
	}

	productCount, err := s.productRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalProducts = productCount

	// Revenue figures come from quote snapshots of the last 90 days.
	// QuotedTotal counts each request's latest quote once; ApprovedTotal
	// restricts that to approved requests.
	quotes, err := s.quoteRepo.ListSince(ctx, 90)
	if err != nil {
		return nil, err
	}

	latestByRequest := latestQuotes(quotes)

	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	for _, q := range latestByRequest {
		stats.QuotedTotal += q.TotalWithVAT
		if q.CreatedAt.After(startOfMonth) {
			stats.MonthlyQuoted += q.TotalWithVAT
		}

		request, err := s.requestRepo.GetByID(ctx, q.RequestID)
		if err != nil {
			return nil, err
		}
		if request == nil {
			continue
		}
		if request.Status == enum.RequestStatusApproved {
			stats.ApprovedTotal += q.TotalWithVAT
		}
	}

	// Daily quoted amounts for the last 7 days, every snapshot counted
	stats.DailyQuotedData = make([]DailyQuotePoint, 0, 7)
	for i := 6; i >= 0; i-- {
		date := now.AddDate(0, 0, -i)
		dateStr := date.Format("2006-01-02")

		var dayAmount float64
		var dayCount int
		for _, q := range quotes {
			if q.CreatedAt.Format("2006-01-02") == dateStr {
				dayAmount += q.TotalWithVAT
				dayCount++
			}
		}

		stats.DailyQuotedData = append(stats.DailyQuotedData, DailyQuotePoint{
			Date:   date.Format("Jan 02"),
			Amount: dayAmount,
			Quotes: dayCount,
		})
	}

	return stats, nil
}

// latestQuotes reduces a quote list to the newest snapshot per request
func latestQuotes(quotes []entity.Quote) map[string]entity.Quote {
	latest := make(map[string]entity.Quote)
	for _, q := range quotes {
		key := q.RequestID.String()
		if prev, ok := latest[key]; !ok || q.CreatedAt.After(prev.CreatedAt) {
			latest[key] = q
		}
	}
	return latest
}

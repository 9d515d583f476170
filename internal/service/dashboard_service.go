package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendfleet/campaigner/internal/domain"
	"github.com/sendfleet/campaigner/internal/repository"
	"golang.org/x/sync/errgroup"
)

const (
	statsWindow     = 7 * 24 * time.Hour
	recentItemLimit = 3
	chartWindowDays = 7
)

// DashboardStats is the headline card data for the dashboard.
type DashboardStats struct {
	TotalContacts  int64   `json:"total_contacts"`
	TotalCampaigns int64   `json:"total_campaigns"`
	TotalMessages  int64   `json:"total_messages"`
	SentMessages   int     `json:"sent_messages"`
	FailedMessages int     `json:"failed_messages"`
	SuccessRate    float64 `json:"success_rate"`
	NewContacts    int64   `json:"new_contacts"`
}

// RecentActivity lists the latest campaigns and contacts.
type RecentActivity struct {
	Campaigns []domain.Campaign `json:"campaigns"`
	Contacts  []domain.Contact  `json:"contacts"`
}

// ChartPoint is one day of message volume split by outcome.
type ChartPoint struct {
	Date   string `json:"date"`
	Sent   int    `json:"sent"`
	Failed int    `json:"failed"`
}

// Analytics is the full analytics page payload.
type Analytics struct {
	TotalCampaigns  int64          `json:"total_campaigns"`
	TotalMessages   int64          `json:"total_messages"`
	SuccessRate     float64        `json:"success_rate"`
	StatusBreakdown map[string]int `json:"status_breakdown"`
	Weekly          []ChartPoint   `json:"weekly"`
}

type DashboardService struct {
	campaigns repository.CampaignRepository
	contacts  repository.ContactRepository
	messages  repository.MessageRepository
	now       func() time.Time
}

func NewDashboardService(
	campaigns repository.CampaignRepository,
	contacts repository.ContactRepository,
	messages repository.MessageRepository,
) (*DashboardService, error) {
	if campaigns == nil || contacts == nil || messages == nil {
		return nil, fmt.Errorf("campaign, contact, and message repositories are required")
	}

	return &DashboardService{
		campaigns: campaigns,
		contacts:  contacts,
		messages:  messages,
		now:       time.Now,
	}, nil
}

// Stats gathers the dashboard counters concurrently.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	var statusCounts []repository.StatusCount

	g, groupCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := s.contacts.Count(groupCtx)
		stats.TotalContacts = total
		return err
	})
	g.Go(func() error {
		total, err := s.campaigns.Count(groupCtx)
		stats.TotalCampaigns = total
		return err
	})
	g.Go(func() error {
		total, err := s.messages.Count(groupCtx)
		stats.TotalMessages = total
		return err
	})
	g.Go(func() error {
		counts, err := s.messages.CountByStatus(groupCtx)
		statusCounts = counts
		return err
	})
	g.Go(func() error {
		count, err := s.contacts.CountCreatedSince(groupCtx, s.now().Add(-statsWindow))
		stats.NewContacts = count
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to gather dashboard stats: %w", err)
	}

	for _, sc := range statusCounts {
		switch sc.Status {
		case domain.MessageStatusSent:
			stats.SentMessages = sc.Count
		case domain.MessageStatusFailed:
			stats.FailedMessages = sc.Count
		}
	}
	stats.SuccessRate = successRate(stats.SentMessages, stats.FailedMessages)

	return stats, nil
}

func (s *DashboardService) RecentActivity(ctx context.Context) (*RecentActivity, error) {
	activity := &RecentActivity{}

	g, groupCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		campaigns, err := s.campaigns.ListRecent(groupCtx, recentItemLimit)
		activity.Campaigns = campaigns
		return err
	})
	g.Go(func() error {
		contacts, err := s.contacts.ListRecent(groupCtx, recentItemLimit)
		activity.Contacts = contacts
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to gather recent activity: %w", err)
	}

	if activity.Campaigns == nil {
		activity.Campaigns = []domain.Campaign{}
	}
	if activity.Contacts == nil {
		activity.Contacts = []domain.Contact{}
	}
	return activity, nil
}

// ChartData returns the trailing week of message volume, one point per day
// including empty days.
func (s *DashboardService) ChartData(ctx context.Context) ([]ChartPoint, error) {
	since := s.now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -(chartWindowDays - 1))

	counts, err := s.messages.CountByDay(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart data: %w", err)
	}

	byDay := make(map[string]*ChartPoint, chartWindowDays)
	points := make([]ChartPoint, 0, chartWindowDays)
	for i := 0; i < chartWindowDays; i++ {
		date := since.AddDate(0, 0, i).Format("2006-01-02")
		points = append(points, ChartPoint{Date: date})
		byDay[date] = &points[len(points)-1]
	}

	for _, dc := range counts {
		point, ok := byDay[dc.Day.UTC().Format("2006-01-02")]
		if !ok {
			continue
		}
		switch dc.Status {
		case domain.MessageStatusSent:
			point.Sent += dc.Count
		case domain.MessageStatusFailed:
			point.Failed += dc.Count
		}
	}

	return points, nil
}

func (s *DashboardService) Analytics(ctx context.Context) (*Analytics, error) {
	analytics := &Analytics{StatusBreakdown: make(map[string]int)}
	var statusCounts []repository.StatusCount
	var weekly []ChartPoint

	g, groupCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := s.campaigns.Count(groupCtx)
		analytics.TotalCampaigns = total
		return err
	})
	g.Go(func() error {
		total, err := s.messages.Count(groupCtx)
		analytics.TotalMessages = total
		return err
	})
	g.Go(func() error {
		counts, err := s.messages.CountByStatus(groupCtx)
		statusCounts = counts
		return err
	})
	g.Go(func() error {
		points, err := s.ChartData(groupCtx)
		weekly = points
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to gather analytics: %w", err)
	}

	var sent, failed int
	for _, sc := range statusCounts {
		analytics.StatusBreakdown[sc.Status.String()] = sc.Count
		switch sc.Status {
		case domain.MessageStatusSent:
			sent = sc.Count
		case domain.MessageStatusFailed:
			failed = sc.Count
		}
	}
	analytics.SuccessRate = successRate(sent, failed)
	analytics.Weekly = weekly

	return analytics, nil
}

// successRate is the percentage of settled messages that were delivered.
// Pending and in-flight rows are excluded so a half-sent campaign does not
// drag the rate down.
func successRate(sent int, failed int) float64 {
	settled := sent + failed
	if settled == 0 {
		return 0
	}
	return float64(sent) / float64(settled) * 100
}

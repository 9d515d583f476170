package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sendfleet/campaigner/internal/service"
)

func TestDashboardIntegration_Stats(t *testing.T) {
	t.Parallel()

	svc := &stubDashboardService{
		statsFn: func(ctx context.Context) (*service.DashboardStats, error) {
			return &service.DashboardStats{
				TotalContacts:  120,
				TotalCampaigns: 8,
				TotalMessages:  400,
				SentMessages:   300,
				FailedMessages: 100,
				SuccessRate:    75,
				NewContacts:    12,
			}, nil
		},
	}

	app := newDashboardTestApp(t, svc)

	resp, body := performRequest(t, app, http.MethodGet, "/v1/dashboard/stats", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", resp.StatusCode, string(body))
	}

	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if parsed["success_rate"] != float64(75) {
		t.Fatalf("success_rate = %v, want 75", parsed["success_rate"])
	}
	if parsed["new_contacts"] != float64(12) {
		t.Fatalf("new_contacts = %v, want 12", parsed["new_contacts"])
	}
}

func TestDashboardIntegration_ChartData(t *testing.T) {
	t.Parallel()

	svc := &stubDashboardService{
		chartDataFn: func(ctx context.Context) ([]service.ChartPoint, error) {
			return []service.ChartPoint{
				{Date: "2026-08-22"},
				{Date: "2026-08-23", Sent: 4, Failed: 1},
			}, nil
		},
	}

	app := newDashboardTestApp(t, svc)

	resp, body := performRequest(t, app, http.MethodGet, "/v1/dashboard/chart-data", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", resp.StatusCode, string(body))
	}

	var parsed struct {
		Data []service.ChartPoint `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if len(parsed.Data) != 2 {
		t.Fatalf("data len = %d, want 2", len(parsed.Data))
	}
	if parsed.Data[1].Sent != 4 || parsed.Data[1].Failed != 1 {
		t.Fatalf("point = %+v, want sent=4 failed=1", parsed.Data[1])
	}
}

func TestDashboardIntegration_AnalyticsError(t *testing.T) {
	t.Parallel()

	svc := &stubDashboardService{
		analyticsFn: func(ctx context.Context) (*service.Analytics, error) {
			return nil, errors.New("db down")
		},
	}

	app := newDashboardTestApp(t, svc)

	resp, _ := performRequest(t, app, http.MethodGet, "/v1/analytics", "")
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
}

type stubDashboardService struct {
	statsFn          func(ctx context.Context) (*service.DashboardStats, error)
	recentActivityFn func(ctx context.Context) (*service.RecentActivity, error)
	chartDataFn      func(ctx context.Context) ([]service.ChartPoint, error)
	analyticsFn      func(ctx context.Context) (*service.Analytics, error)
}

func (s *stubDashboardService) Stats(ctx context.Context) (*service.DashboardStats, error) {
	if s.statsFn != nil {
		return s.statsFn(ctx)
	}
	return &service.DashboardStats{}, nil
}

func (s *stubDashboardService) RecentActivity(ctx context.Context) (*service.RecentActivity, error) {
	if s.recentActivityFn != nil {
		return s.recentActivityFn(ctx)
	}
	return &service.RecentActivity{}, nil
}

func (s *stubDashboardService) ChartData(ctx context.Context) ([]service.ChartPoint, error) {
	if s.chartDataFn != nil {
		return s.chartDataFn(ctx)
	}
	return nil, nil
}

func (s *stubDashboardService) Analytics(ctx context.Context) (*service.Analytics, error) {
	if s.analyticsFn != nil {
		return s.analyticsFn(ctx)
	}
	return &service.Analytics{}, nil
}

func newDashboardTestApp(t *testing.T, svc DashboardService) *fiber.App {
	t.Helper()

	app := newHandlerTestApp()
	if err := RegisterDashboardRoutes(app, svc); err != nil {
		t.Fatalf("RegisterDashboardRoutes() error = %v", err)
	}
	return app
}

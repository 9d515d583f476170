package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sendfleet/campaigner/internal/domain"
	"github.com/sendfleet/campaigner/internal/gateway"
	"github.com/sendfleet/campaigner/internal/observability"
	"github.com/sendfleet/campaigner/internal/ratelimit"
	"github.com/sendfleet/campaigner/internal/repository"
	"go.uber.org/zap"
)

// DefaultBatchSize is used when a send-batch request carries no batch size.
const DefaultBatchSize = 5

// Detail statuses reported per dispatched message. "failed" means the
// gateway (or a precondition check) refused the send; "error" means the
// call itself never completed.
const (
	DetailStatusSent   = "sent"
	DetailStatusFailed = "failed"
	DetailStatusError  = "error"
)

// SendDetail is the per-message outcome of one batch run.
type SendDetail struct {
	Phone  string `json:"phone"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// BatchResult is the outcome of one RunBatch call. Completed is true only
// when the campaign has no pending messages left; callers poll RunBatch
// until it flips.
type BatchResult struct {
	Completed bool         `json:"completed"`
	Processed int          `json:"processed"`
	Details   []SendDetail `json:"details,omitempty"`
}

// MediaLoader resolves a stored media path into a payload for the gateway.
type MediaLoader interface {
	Load(path string) (fileName string, mimeType string, data []byte, err error)
}

// Dispatcher drives campaign delivery one bounded batch at a time. It holds
// no background state; every send happens inside the RunBatch call.
type Dispatcher struct {
	campaigns   repository.CampaignRepository
	messages    repository.MessageRepository
	contacts    repository.ContactRepository
	gateway     gateway.Client
	media       MediaLoader
	rateLimiter ratelimit.RateLimiter
	logger      *zap.Logger
	metrics     *observability.Metrics
	batchSize   int
	now         func() time.Time
}

func NewDispatcher(
	campaigns repository.CampaignRepository,
	messages repository.MessageRepository,
	contacts repository.ContactRepository,
	gatewayClient gateway.Client,
	mediaLoader MediaLoader,
	rateLimiter ratelimit.RateLimiter,
	batchSize int,
	logger *zap.Logger,
) (*Dispatcher, error) {
	if campaigns == nil || messages == nil || contacts == nil {
		return nil, fmt.Errorf("campaign, message, and contact repositories are required")
	}
	if gatewayClient == nil {
		return nil, fmt.Errorf("gateway client is required")
	}
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Dispatcher{
		campaigns:   campaigns,
		messages:    messages,
		contacts:    contacts,
		gateway:     gatewayClient,
		media:       mediaLoader,
		rateLimiter: rateLimiter,
		logger:      logger,
		batchSize:   batchSize,
		now:         time.Now,
	}, nil
}

func (d *Dispatcher) SetMetrics(metrics *observability.Metrics) {
	if d == nil {
		return
	}
	d.metrics = metrics
}

// RunBatch claims up to batchSize of the campaign's oldest pending messages
// and sends them sequentially through the gateway. An empty claim re-counts
// pending rows: zero means the campaign is done and gets marked completed;
// nonzero means a concurrent run holds the remaining rows and the caller
// should simply call again.
func (d *Dispatcher) RunBatch(ctx context.Context, campaignID string, batchSize int) (*BatchResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	campaign, err := d.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: campaign %s", domain.ErrNotFound, campaignID)
		}
		return nil, fmt.Errorf("failed to load campaign: %w", err)
	}

	if batchSize < 1 {
		batchSize = d.batchSize
	}

	if d.metrics != nil {
		d.metrics.IncDispatchInFlight()
		defer d.metrics.DecDispatchInFlight()
	}

	claimed, err := d.messages.ClaimPendingBatch(ctx, campaign.ID, batchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to claim pending messages: %w", err)
	}

	if len(claimed) == 0 {
		return d.finishOrRetry(ctx, campaign)
	}

	if campaign.Status == domain.CampaignStatusDraft {
		if err := d.campaigns.UpdateStatus(ctx, campaign.ID, domain.CampaignStatusActive); err != nil {
			return nil, fmt.Errorf("failed to activate campaign: %w", err)
		}
		campaign.Status = domain.CampaignStatusActive
	}

	payload, mediaErr := d.loadMedia(campaign)

	result := &BatchResult{Details: make([]SendDetail, 0, len(claimed))}
	for i := range claimed {
		msg := &claimed[i]

		var detail SendDetail
		switch {
		case mediaErr != nil:
			detail = d.resolveFailure(ctx, msg, "", DetailStatusError, mediaErr.Error(), "media")
		default:
			detail = d.dispatchOne(ctx, campaign, msg, payload)
		}

		result.Details = append(result.Details, detail)
		result.Processed++
	}

	if d.metrics != nil {
		d.metrics.IncBatch("dispatched")
	}

	d.logger.Info("batch dispatched",
		zap.String("campaignId", campaign.ID),
		zap.Int("processed", result.Processed),
	)

	return result, nil
}

// finishOrRetry handles the empty-claim branch. The pending re-count
// distinguishes a finished campaign from rows claimed by a concurrent run.
func (d *Dispatcher) finishOrRetry(ctx context.Context, campaign *domain.Campaign) (*BatchResult, error) {
	pending, err := d.messages.CountPending(ctx, campaign.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending messages: %w", err)
	}

	if pending > 0 {
		if d.metrics != nil {
			d.metrics.IncBatch("contended")
		}
		return &BatchResult{Completed: false, Processed: 0}, nil
	}

	if campaign.Status != domain.CampaignStatusCompleted {
		if err := d.campaigns.UpdateStatus(ctx, campaign.ID, domain.CampaignStatusCompleted); err != nil {
			return nil, fmt.Errorf("failed to complete campaign: %w", err)
		}
	}

	if d.metrics != nil {
		d.metrics.IncBatch("completed")
	}

	d.logger.Info("campaign completed", zap.String("campaignId", campaign.ID))
	return &BatchResult{Completed: true, Processed: 0}, nil
}

func (d *Dispatcher) dispatchOne(
	ctx context.Context,
	campaign *domain.Campaign,
	msg *domain.Message,
	payload *gateway.Media,
) SendDetail {
	contact, err := d.contacts.GetByID(ctx, msg.ContactID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return d.resolveFailure(ctx, msg, "unknown", DetailStatusFailed, "contact no longer exists", "contact_missing")
		}
		return d.resolveFailure(ctx, msg, "unknown", DetailStatusError, err.Error(), "contact_lookup")
	}
	if !contact.HasUsablePhone() {
		return d.resolveFailure(ctx, msg, contact.Phone, DetailStatusFailed, "contact has no phone number", "contact_no_phone")
	}

	if d.rateLimiter != nil {
		// Pacing is best effort; a limiter outage never blocks the batch.
		if err := d.rateLimiter.Wait(ctx, ratelimit.GatewayKey); err != nil {
			d.logger.Warn("rate limiter wait failed, continuing",
				zap.String("messageId", msg.ID),
				zap.Error(err),
			)
		}
	}

	req := gateway.SendRequest{
		To:    contact.Phone,
		Body:  domain.RenderBody(msg.Body, contact.Name),
		Media: payload,
	}

	sendStart := d.now()
	resp, sendErr := d.gateway.Send(ctx, req)
	if d.metrics != nil {
		d.metrics.ObserveGatewaySendDuration(msg.Type.String(), d.now().Sub(sendStart))
	}

	if sendErr == nil {
		messageID := ""
		if resp != nil {
			messageID = resp.MessageID
		}
		if err := d.messages.MarkSent(ctx, msg.ID, messageID, d.now().UTC()); err != nil {
			d.logger.Error("failed to mark message sent",
				zap.String("messageId", msg.ID),
				zap.Error(err),
			)
		}
		if d.metrics != nil {
			d.metrics.IncMessageSent()
		}
		return SendDetail{Phone: contact.Phone, Status: DetailStatusSent}
	}

	if gateway.IsRejected(sendErr) {
		return d.resolveFailure(ctx, msg, contact.Phone, DetailStatusFailed, sendErr.Error(), "rejected")
	}
	return d.resolveFailure(ctx, msg, contact.Phone, DetailStatusError, sendErr.Error(), "transport")
}

// resolveFailure marks the claimed message failed and builds its detail row.
// Status write errors are logged, not surfaced; the batch keeps moving.
func (d *Dispatcher) resolveFailure(
	ctx context.Context,
	msg *domain.Message,
	phone string,
	detailStatus string,
	detailErr string,
	reason string,
) SendDetail {
	if err := d.messages.MarkFailed(ctx, msg.ID); err != nil {
		d.logger.Error("failed to mark message failed",
			zap.String("messageId", msg.ID),
			zap.Error(err),
		)
	}
	if d.metrics != nil {
		d.metrics.IncMessageFailed(reason)
	}

	d.logger.Warn("message not delivered",
		zap.String("messageId", msg.ID),
		zap.String("reason", reason),
		zap.String("error", detailErr),
	)

	return SendDetail{Phone: phone, Status: detailStatus, Error: detailErr}
}

// loadMedia resolves the campaign's stored media once per batch. Campaigns
// without media return a nil payload and nil error.
func (d *Dispatcher) loadMedia(campaign *domain.Campaign) (*gateway.Media, error) {
	if !campaign.HasMedia() {
		return nil, nil
	}
	if d.media == nil {
		return nil, fmt.Errorf("media store is not configured")
	}

	fileName, mimeType, data, err := d.media.Load(*campaign.MediaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load campaign media: %w", err)
	}

	return &gateway.Media{FileName: fileName, MimeType: mimeType, Data: data}, nil
}

package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sendfleet/campaigner/internal/domain"
	"github.com/sendfleet/campaigner/internal/repository"
	"github.com/sendfleet/campaigner/internal/service"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
)

type CampaignService interface {
	Create(ctx context.Context, input service.CreateCampaignInput) (*domain.Campaign, int, error)
	List(ctx context.Context, page int, pageSize int) ([]repository.CampaignWithCounts, int64, error)
	Get(ctx context.Context, id string) (*service.CampaignDetail, error)
	Delete(ctx context.Context, id string) error
	Duplicate(ctx context.Context, id string) (*domain.Campaign, int, error)
}

type BatchDispatcher interface {
	RunBatch(ctx context.Context, campaignID string, batchSize int) (*service.BatchResult, error)
}

type CampaignHandler struct {
	service    CampaignService
	dispatcher BatchDispatcher
}

func NewCampaignHandler(campaignService CampaignService, dispatcher BatchDispatcher) (*CampaignHandler, error) {
	if campaignService == nil {
		return nil, fmt.Errorf("campaign service is required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("batch dispatcher is required")
	}
	return &CampaignHandler{service: campaignService, dispatcher: dispatcher}, nil
}

func RegisterCampaignRoutes(router fiber.Router, campaignService CampaignService, dispatcher BatchDispatcher) error {
	h, err := NewCampaignHandler(campaignService, dispatcher)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Post("/campaigns", h.CreateCampaign)
	v1.Get("/campaigns", h.ListCampaigns)
	v1.Get("/campaigns/:id", h.GetCampaign)
	v1.Delete("/campaigns/:id", h.DeleteCampaign)
	v1.Post("/campaigns/:id/duplicate", h.DuplicateCampaign)
	v1.Post("/campaigns/:id/send-batch", h.SendBatch)

	return nil
}

type createCampaignRequest struct {
	Name         string `json:"name" form:"name"`
	TemplateBody string `json:"template_body" form:"template_body"`
	TargetGroup  string `json:"target_group" form:"target_group"`
}

type campaignResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	TemplateBody string    `json:"template_body"`
	MediaPath    *string   `json:"media_path,omitempty"`
	TargetGroup  string    `json:"target_group"`
	Status       string    `json:"status"`
	MessageCount int       `json:"message_count"`
	SentCount    int       `json:"sent_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type campaignDetailResponse struct {
	campaignResponse
	Messages []messageResponse `json:"messages"`
}

type listCampaignsResponse struct {
	Data []campaignResponse `json:"data"`
	Meta listMeta           `json:"meta"`
}

type listMeta struct {
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Total    int64 `json:"total"`
}

type sendBatchRequest struct {
	BatchSize int `json:"batch_size"`
}

func (h *CampaignHandler) CreateCampaign(c *fiber.Ctx) error {
	var req createCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	input := service.CreateCampaignInput{
		Name:         req.Name,
		TemplateBody: req.TemplateBody,
		TargetGroup:  req.TargetGroup,
	}

	if upload, err := readMediaUpload(c); err != nil {
		return toHTTPError(err)
	} else if upload != nil {
		input.Media = upload
	}

	campaign, messageCount, err := h.service.Create(c.Context(), input)
	if err != nil {
		return toHTTPError(err)
	}

	resp := toCampaignResponse(campaign)
	resp.MessageCount = messageCount
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *CampaignHandler) ListCampaigns(c *fiber.Ctx) error {
	page := c.QueryInt("page", defaultPage)
	pageSize := c.QueryInt("pageSize", defaultPageSize)
	if page < 1 {
		return toHTTPError(fmt.Errorf("%w: page must be >= 1", domain.ErrValidation))
	}
	if pageSize < 1 || pageSize > maxPageSize {
		return toHTTPError(fmt.Errorf("%w: pageSize must be between 1 and %d", domain.ErrValidation, maxPageSize))
	}

	campaigns, total, err := h.service.List(c.Context(), page, pageSize)
	if err != nil {
		return toHTTPError(err)
	}

	data := make([]campaignResponse, 0, len(campaigns))
	for i := range campaigns {
		resp := toCampaignResponse(&campaigns[i].Campaign)
		resp.MessageCount = campaigns[i].MessageCount
		resp.SentCount = campaigns[i].SentCount
		data = append(data, resp)
	}

	return c.Status(fiber.StatusOK).JSON(listCampaignsResponse{
		Data: data,
		Meta: listMeta{Page: page, PageSize: pageSize, Total: total},
	})
}

func (h *CampaignHandler) GetCampaign(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	detail, err := h.service.Get(c.Context(), id)
	if err != nil {
		return toHTTPError(err)
	}

	resp := campaignDetailResponse{
		campaignResponse: toCampaignResponse(&detail.Campaign),
		Messages:         toMessageResponses(detail.Messages),
	}
	resp.MessageCount = len(detail.Messages)
	for i := range detail.Messages {
		if detail.Messages[i].Status == domain.MessageStatusSent {
			resp.SentCount++
		}
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *CampaignHandler) DeleteCampaign(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if err := h.service.Delete(c.Context(), id); err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"deleted": id,
	})
}

func (h *CampaignHandler) DuplicateCampaign(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	campaign, messageCount, err := h.service.Duplicate(c.Context(), id)
	if err != nil {
		return toHTTPError(err)
	}

	resp := toCampaignResponse(campaign)
	resp.MessageCount = messageCount
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// SendBatch runs one dispatch batch and returns its outcome. Clients poll
// this endpoint until completed is true.
func (h *CampaignHandler) SendBatch(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))

	var req sendBatchRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
	}
	if req.BatchSize < 0 {
		return toHTTPError(fmt.Errorf("%w: batch_size must be >= 0", domain.ErrValidation))
	}

	result, err := h.dispatcher.RunBatch(c.Context(), id, req.BatchSize)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// readMediaUpload pulls an optional "media" file out of a multipart request.
func readMediaUpload(c *fiber.Ctx) (*service.MediaUpload, error) {
	fileHeader, err := c.FormFile("media")
	if err != nil {
		// Not a multipart request, or no media part attached.
		return nil, nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable media upload", domain.ErrValidation)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable media upload", domain.ErrValidation)
	}

	return &service.MediaUpload{FileName: fileHeader.Filename, Data: data}, nil
}

func toCampaignResponse(campaign *domain.Campaign) campaignResponse {
	if campaign == nil {
		return campaignResponse{}
	}

	return campaignResponse{
		ID:           campaign.ID,
		Name:         campaign.Name,
		TemplateBody: campaign.TemplateBody,
		MediaPath:    campaign.MediaPath,
		TargetGroup:  campaign.TargetGroup,
		Status:       campaign.Status.String(),
		CreatedAt:    campaign.CreatedAt,
		UpdatedAt:    campaign.UpdatedAt,
	}
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return err
	}
}

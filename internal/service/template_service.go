package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sendfleet/campaigner/internal/domain"
	"github.com/sendfleet/campaigner/internal/repository"
)

// CreateTemplateInput carries a new or updated template.
type CreateTemplateInput struct {
	Title    string
	Body     string
	Category string
}

type TemplateService struct {
	templates repository.TemplateRepository
	newID     func() string
}

func NewTemplateService(templates repository.TemplateRepository) (*TemplateService, error) {
	if templates == nil {
		return nil, fmt.Errorf("template repository is required")
	}
	return &TemplateService{templates: templates, newID: uuid.NewString}, nil
}

func (s *TemplateService) Create(ctx context.Context, input CreateTemplateInput) (*domain.Template, error) {
	template := s.buildTemplate(input)
	template.ID = s.newID()
	if err := template.Validate(); err != nil {
		return nil, err
	}

	if err := s.templates.Create(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	return template, nil
}

func (s *TemplateService) Get(ctx context.Context, id string) (*domain.Template, error) {
	return s.templates.GetByID(ctx, id)
}

func (s *TemplateService) List(ctx context.Context) ([]domain.Template, error) {
	return s.templates.List(ctx)
}

func (s *TemplateService) Update(ctx context.Context, id string, input CreateTemplateInput) (*domain.Template, error) {
	template := s.buildTemplate(input)
	template.ID = id
	if err := template.Validate(); err != nil {
		return nil, err
	}

	if err := s.templates.Update(ctx, template); err != nil {
		return nil, err
	}
	return template, nil
}

func (s *TemplateService) Delete(ctx context.Context, id string) error {
	return s.templates.Delete(ctx, id)
}

func (s *TemplateService) buildTemplate(input CreateTemplateInput) *domain.Template {
	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = domain.DefaultTemplateCategory
	}

	return &domain.Template{
		Title:    strings.TrimSpace(input.Title),
		Body:     input.Body,
		Category: category,
	}
}

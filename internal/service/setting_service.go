package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sendfleet/campaigner/internal/domain"
	"github.com/sendfleet/campaigner/internal/repository"
)

type SettingService struct {
	settings repository.SettingRepository
}

func NewSettingService(settings repository.SettingRepository) (*SettingService, error) {
	if settings == nil {
		return nil, fmt.Errorf("setting repository is required")
	}
	return &SettingService{settings: settings}, nil
}

// GetAll returns every stored setting with defaults applied.
func (s *SettingService) GetAll(ctx context.Context) (map[string]string, error) {
	return s.settings.GetAll(ctx)
}

// Update upserts the given settings. The sending_delay value must be a
// non-negative integer because the UI sleeps that many seconds between
// send-batch calls.
func (s *SettingService) Update(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return fmt.Errorf("%w: no settings given", domain.ErrValidation)
	}

	for key, value := range values {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("%w: setting key is required", domain.ErrValidation)
		}

		if key == domain.SettingKeySendingDelay {
			delay, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil || delay < 0 {
				return fmt.Errorf("%w: sending_delay must be a non-negative integer", domain.ErrValidation)
			}
		}

		if err := s.settings.Set(ctx, key, strings.TrimSpace(value)); err != nil {
			return fmt.Errorf("failed to save setting %s: %w", key, err)
		}
	}

	return nil
}

// SendingDelay returns the configured inter-batch delay in seconds.
func (s *SettingService) SendingDelay(ctx context.Context) (int, error) {
	settings, err := s.settings.GetAll(ctx)
	if err != nil {
		return 0, err
	}

	delay, err := strconv.Atoi(settings[domain.SettingKeySendingDelay])
	if err != nil {
		delay, _ = strconv.Atoi(domain.DefaultSendingDelay)
	}
	return delay, nil
}

package service

import (
	"context"
	"time"

	"github.com/sendfleet/campaigner/internal/domain"
	"github.com/sendfleet/campaigner/internal/gateway"
	"github.com/sendfleet/campaigner/internal/ratelimit"
	"github.com/sendfleet/campaigner/internal/repository"
)

type fakeCampaignRepo struct {
	createFn       func(ctx context.Context, c *domain.Campaign) error
	getByIDFn      func(ctx context.Context, id string) (*domain.Campaign, error)
	listFn         func(ctx context.Context, page int, pageSize int) ([]repository.CampaignWithCounts, int64, error)
	updateStatusFn func(ctx context.Context, id string, status domain.CampaignStatus) error
	deleteFn       func(ctx context.Context, id string) error
	countFn        func(ctx context.Context) (int64, error)
	listRecentFn   func(ctx context.Context, limit int) ([]domain.Campaign, error)
}

var _ repository.CampaignRepository = (*fakeCampaignRepo)(nil)

func (f *fakeCampaignRepo) Create(ctx context.Context, c *domain.Campaign) error {
	if f.createFn != nil {
		return f.createFn(ctx, c)
	}
	return nil
}

func (f *fakeCampaignRepo) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCampaignRepo) List(ctx context.Context, page int, pageSize int) ([]repository.CampaignWithCounts, int64, error) {
	if f.listFn != nil {
		return f.listFn(ctx, page, pageSize)
	}
	return nil, 0, nil
}

func (f *fakeCampaignRepo) UpdateStatus(ctx context.Context, id string, status domain.CampaignStatus) error {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, id, status)
	}
	return nil
}

func (f *fakeCampaignRepo) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeCampaignRepo) Count(ctx context.Context) (int64, error) {
	if f.countFn != nil {
		return f.countFn(ctx)
	}
	return 0, nil
}

func (f *fakeCampaignRepo) ListRecent(ctx context.Context, limit int) ([]domain.Campaign, error) {
	if f.listRecentFn != nil {
		return f.listRecentFn(ctx, limit)
	}
	return nil, nil
}

type fakeMessageRepo struct {
	createFn            func(ctx context.Context, m *domain.Message) error
	createBatchFn       func(ctx context.Context, messages []*domain.Message) error
	getByIDFn           func(ctx context.Context, id string) (*domain.Message, error)
	listByContactFn     func(ctx context.Context, contactID string) ([]domain.Message, error)
	listByCampaignFn    func(ctx context.Context, campaignID string) ([]domain.Message, error)
	claimPendingBatchFn func(ctx context.Context, campaignID string, limit int) ([]domain.Message, error)
	countPendingFn      func(ctx context.Context, campaignID string) (int64, error)
	updateStatusFn      func(ctx context.Context, id string, status domain.MessageStatus) error
	markSentFn          func(ctx context.Context, id string, providerMessageID string, sentAt time.Time) error
	markFailedFn        func(ctx context.Context, id string) error
	countFn             func(ctx context.Context) (int64, error)
	countByStatusFn     func(ctx context.Context) ([]repository.StatusCount, error)
	countByDayFn        func(ctx context.Context, since time.Time) ([]repository.DayCount, error)
}

var _ repository.MessageRepository = (*fakeMessageRepo)(nil)

func (f *fakeMessageRepo) Create(ctx context.Context, m *domain.Message) error {
	if f.createFn != nil {
		return f.createFn(ctx, m)
	}
	return nil
}

func (f *fakeMessageRepo) CreateBatch(ctx context.Context, messages []*domain.Message) error {
	if f.createBatchFn != nil {
		return f.createBatchFn(ctx, messages)
	}
	return nil
}

func (f *fakeMessageRepo) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (f *fakeMessageRepo) ListByContact(ctx context.Context, contactID string) ([]domain.Message, error) {
	if f.listByContactFn != nil {
		return f.listByContactFn(ctx, contactID)
	}
	return nil, nil
}

func (f *fakeMessageRepo) ListByCampaign(ctx context.Context, campaignID string) ([]domain.Message, error) {
	if f.listByCampaignFn != nil {
		return f.listByCampaignFn(ctx, campaignID)
	}
	return nil, nil
}

func (f *fakeMessageRepo) ClaimPendingBatch(ctx context.Context, campaignID string, limit int) ([]domain.Message, error) {
	if f.claimPendingBatchFn != nil {
		return f.claimPendingBatchFn(ctx, campaignID, limit)
	}
	return nil, nil
}

func (f *fakeMessageRepo) CountPending(ctx context.Context, campaignID string) (int64, error) {
	if f.countPendingFn != nil {
		return f.countPendingFn(ctx, campaignID)
	}
	return 0, nil
}

func (f *fakeMessageRepo) UpdateStatus(ctx context.Context, id string, status domain.MessageStatus) error {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, id, status)
	}
	return nil
}

func (f *fakeMessageRepo) MarkSent(ctx context.Context, id string, providerMessageID string, sentAt time.Time) error {
	if f.markSentFn != nil {
		return f.markSentFn(ctx, id, providerMessageID, sentAt)
	}
	return nil
}

func (f *fakeMessageRepo) MarkFailed(ctx context.Context, id string) error {
	if f.markFailedFn != nil {
		return f.markFailedFn(ctx, id)
	}
	return nil
}

func (f *fakeMessageRepo) Count(ctx context.Context) (int64, error) {
	if f.countFn != nil {
		return f.countFn(ctx)
	}
	return 0, nil
}

func (f *fakeMessageRepo) CountByStatus(ctx context.Context) ([]repository.StatusCount, error) {
	if f.countByStatusFn != nil {
		return f.countByStatusFn(ctx)
	}
	return nil, nil
}

func (f *fakeMessageRepo) CountByDay(ctx context.Context, since time.Time) ([]repository.DayCount, error) {
	if f.countByDayFn != nil {
		return f.countByDayFn(ctx, since)
	}
	return nil, nil
}

type fakeContactRepo struct {
	createFn            func(ctx context.Context, c *domain.Contact) error
	getByIDFn           func(ctx context.Context, id string) (*domain.Contact, error)
	listFn              func(ctx context.Context, filter repository.ContactFilter) ([]domain.Contact, error)
	listByGroupFn       func(ctx context.Context, group string) ([]domain.Contact, error)
	updateFn            func(ctx context.Context, c *domain.Contact) error
	deleteFn            func(ctx context.Context, id string) error
	deleteManyFn        func(ctx context.Context, ids []string) (int64, error)
	existsByPhoneFn     func(ctx context.Context, phone string) (bool, error)
	countFn             func(ctx context.Context) (int64, error)
	countCreatedSinceFn func(ctx context.Context, since time.Time) (int64, error)
	listRecentFn        func(ctx context.Context, limit int) ([]domain.Contact, error)
}

var _ repository.ContactRepository = (*fakeContactRepo)(nil)

func (f *fakeContactRepo) Create(ctx context.Context, c *domain.Contact) error {
	if f.createFn != nil {
		return f.createFn(ctx, c)
	}
	return nil
}

func (f *fakeContactRepo) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (f *fakeContactRepo) List(ctx context.Context, filter repository.ContactFilter) ([]domain.Contact, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakeContactRepo) ListByGroup(ctx context.Context, group string) ([]domain.Contact, error) {
	if f.listByGroupFn != nil {
		return f.listByGroupFn(ctx, group)
	}
	return nil, nil
}

func (f *fakeContactRepo) Update(ctx context.Context, c *domain.Contact) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, c)
	}
	return nil
}

func (f *fakeContactRepo) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeContactRepo) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if f.deleteManyFn != nil {
		return f.deleteManyFn(ctx, ids)
	}
	return 0, nil
}

func (f *fakeContactRepo) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	if f.existsByPhoneFn != nil {
		return f.existsByPhoneFn(ctx, phone)
	}
	return false, nil
}

func (f *fakeContactRepo) Count(ctx context.Context) (int64, error) {
	if f.countFn != nil {
		return f.countFn(ctx)
	}
	return 0, nil
}

func (f *fakeContactRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	if f.countCreatedSinceFn != nil {
		return f.countCreatedSinceFn(ctx, since)
	}
	return 0, nil
}

func (f *fakeContactRepo) ListRecent(ctx context.Context, limit int) ([]domain.Contact, error) {
	if f.listRecentFn != nil {
		return f.listRecentFn(ctx, limit)
	}
	return nil, nil
}

type fakeTemplateRepo struct {
	createFn  func(ctx context.Context, t *domain.Template) error
	getByIDFn func(ctx context.Context, id string) (*domain.Template, error)
	listFn    func(ctx context.Context) ([]domain.Template, error)
	updateFn  func(ctx context.Context, t *domain.Template) error
	deleteFn  func(ctx context.Context, id string) error
}

var _ repository.TemplateRepository = (*fakeTemplateRepo)(nil)

func (f *fakeTemplateRepo) Create(ctx context.Context, t *domain.Template) error {
	if f.createFn != nil {
		return f.createFn(ctx, t)
	}
	return nil
}

func (f *fakeTemplateRepo) GetByID(ctx context.Context, id string) (*domain.Template, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTemplateRepo) List(ctx context.Context) ([]domain.Template, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return nil, nil
}

func (f *fakeTemplateRepo) Update(ctx context.Context, t *domain.Template) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, t)
	}
	return nil
}

func (f *fakeTemplateRepo) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

type fakeSettingRepo struct {
	getAllFn func(ctx context.Context) (map[string]string, error)
	setFn    func(ctx context.Context, key string, value string) error
}

var _ repository.SettingRepository = (*fakeSettingRepo)(nil)

func (f *fakeSettingRepo) GetAll(ctx context.Context) (map[string]string, error) {
	if f.getAllFn != nil {
		return f.getAllFn(ctx)
	}
	return map[string]string{}, nil
}

func (f *fakeSettingRepo) Set(ctx context.Context, key string, value string) error {
	if f.setFn != nil {
		return f.setFn(ctx, key, value)
	}
	return nil
}

type fakeGateway struct {
	sendFn func(ctx context.Context, req gateway.SendRequest) (*gateway.SendResponse, error)
}

var _ gateway.Client = (*fakeGateway)(nil)

func (f *fakeGateway) Send(ctx context.Context, req gateway.SendRequest) (*gateway.SendResponse, error) {
	if f.sendFn != nil {
		return f.sendFn(ctx, req)
	}
	return &gateway.SendResponse{StatusCode: 200}, nil
}

type fakeMediaStore struct {
	saveFn   func(fileName string, data []byte) (string, error)
	loadFn   func(path string) (string, string, []byte, error)
	removeFn func(path string) error
}

func (f *fakeMediaStore) Save(fileName string, data []byte) (string, error) {
	if f.saveFn != nil {
		return f.saveFn(fileName, data)
	}
	return fileName, nil
}

func (f *fakeMediaStore) Load(path string) (string, string, []byte, error) {
	if f.loadFn != nil {
		return f.loadFn(path)
	}
	return path, "application/octet-stream", []byte("media"), nil
}

func (f *fakeMediaStore) Remove(path string) error {
	if f.removeFn != nil {
		return f.removeFn(path)
	}
	return nil
}

type fakeRateLimiter struct {
	allowFn func(ctx context.Context, key string) (bool, error)
	waitFn  func(ctx context.Context, key string) error
}

var _ ratelimit.RateLimiter = (*fakeRateLimiter)(nil)

func (f *fakeRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if f.allowFn != nil {
		return f.allowFn(ctx, key)
	}
	return true, nil
}

func (f *fakeRateLimiter) Wait(ctx context.Context, key string) error {
	if f.waitFn != nil {
		return f.waitFn(ctx, key)
	}
	return nil
}

package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/sendfleet/campaigner/internal/domain"
	"github.com/sendfleet/campaigner/internal/repository"
	"go.uber.org/zap"
)

// CreateContactInput carries a new or updated contact.
type CreateContactInput struct {
	Name  string
	Phone string
	Group string
	Email string
}

// ImportResult summarizes one CSV import run.
type ImportResult struct {
	Imported   int `json:"imported"`
	Duplicates int `json:"duplicates"`
	Errors     int `json:"errors"`
}

type ContactService struct {
	contacts repository.ContactRepository
	messages repository.MessageRepository
	logger   *zap.Logger
	newID    func() string
}

func NewContactService(
	contacts repository.ContactRepository,
	messages repository.MessageRepository,
	logger *zap.Logger,
) (*ContactService, error) {
	if contacts == nil {
		return nil, fmt.Errorf("contact repository is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ContactService{
		contacts: contacts,
		messages: messages,
		logger:   logger,
		newID:    uuid.NewString,
	}, nil
}

func (s *ContactService) Create(ctx context.Context, input CreateContactInput) (*domain.Contact, error) {
	contact, err := s.buildContact(input)
	if err != nil {
		return nil, err
	}

	exists, err := s.contacts.ExistsByPhone(ctx, contact.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to check phone uniqueness: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: phone %s already exists", domain.ErrConflict, contact.Phone)
	}

	if err := s.contacts.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	return contact, nil
}

func (s *ContactService) Get(ctx context.Context, id string) (*domain.Contact, error) {
	return s.contacts.GetByID(ctx, id)
}

func (s *ContactService) List(ctx context.Context, group string, search string) ([]domain.Contact, error) {
	return s.contacts.List(ctx, repository.ContactFilter{
		Group:  strings.TrimSpace(group),
		Search: strings.TrimSpace(search),
	})
}

func (s *ContactService) Update(ctx context.Context, id string, input CreateContactInput) (*domain.Contact, error) {
	existing, err := s.contacts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.buildContact(input)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID

	if updated.Phone != existing.Phone {
		exists, err := s.contacts.ExistsByPhone(ctx, updated.Phone)
		if err != nil {
			return nil, fmt.Errorf("failed to check phone uniqueness: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("%w: phone %s already exists", domain.ErrConflict, updated.Phone)
		}
	}

	if err := s.contacts.Update(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	return s.contacts.Delete(ctx, id)
}

func (s *ContactService) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: no contact ids given", domain.ErrValidation)
	}
	return s.contacts.DeleteMany(ctx, ids)
}

// History lists a contact's messages oldest first.
func (s *ContactService) History(ctx context.Context, contactID string) ([]domain.Message, error) {
	if s.messages == nil {
		return nil, nil
	}
	if _, err := s.contacts.GetByID(ctx, contactID); err != nil {
		return nil, err
	}
	return s.messages.ListByContact(ctx, contactID)
}

// ImportCSV reads contacts from a CSV stream. The header row is sniffed for
// name/phone/group/email columns; without a recognizable header the first two
// columns are taken as name and phone. Rows whose normalized phone already
// exists count as duplicates, unusable rows count as errors, neither aborts
// the run.
func (s *ContactService) ImportCSV(ctx context.Context, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	first, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: csv file is empty", domain.ErrValidation)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: invalid csv: %v", domain.ErrValidation, err)
	}

	columns, isHeader := sniffColumns(first)

	result := &ImportResult{}
	seen := make(map[string]struct{})

	process := func(record []string) {
		input := CreateContactInput{
			Name:  fieldAt(record, columns.name),
			Phone: fieldAt(record, columns.phone),
			Group: fieldAt(record, columns.group),
			Email: fieldAt(record, columns.email),
		}

		contact, err := s.buildContact(input)
		if err != nil {
			result.Errors++
			return
		}

		if _, dup := seen[contact.Phone]; dup {
			result.Duplicates++
			return
		}
		seen[contact.Phone] = struct{}{}

		exists, err := s.contacts.ExistsByPhone(ctx, contact.Phone)
		if err != nil {
			result.Errors++
			return
		}
		if exists {
			result.Duplicates++
			return
		}

		if err := s.contacts.Create(ctx, contact); err != nil {
			result.Errors++
			return
		}
		result.Imported++
	}

	if !isHeader {
		process(first)
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			result.Errors++
			continue
		}
		process(record)
	}

	s.logger.Info("contact import finished",
		zap.Int("imported", result.Imported),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("errors", result.Errors),
	)

	return result, nil
}

func (s *ContactService) buildContact(input CreateContactInput) (*domain.Contact, error) {
	phone := domain.NormalizePhone(input.Phone)
	if phone == "" {
		return nil, fmt.Errorf("%w: contact phone is required", domain.ErrValidation)
	}

	group := strings.TrimSpace(input.Group)
	if group == "" {
		group = domain.DefaultContactGroup
	}

	contact := &domain.Contact{
		ID:    s.newID(),
		Name:  strings.TrimSpace(input.Name),
		Phone: phone,
		Group: group,
	}
	if email := strings.TrimSpace(input.Email); email != "" {
		contact.Email = &email
	}

	if err := contact.Validate(); err != nil {
		return nil, err
	}
	return contact, nil
}

// columnIndexes maps CSV columns to contact fields; -1 means absent.
type columnIndexes struct {
	name  int
	phone int
	group int
	email int
}

// sniffColumns inspects the first CSV row. When it looks like a header the
// matching column positions are returned; otherwise positional defaults
// (name, phone, group, email) apply and the row is treated as data.
func sniffColumns(row []string) (columnIndexes, bool) {
	columns := columnIndexes{name: 0, phone: 1, group: 2, email: 3}

	isHeader := false
	for i, cell := range row {
		switch normalizeHeaderCell(cell) {
		case "name", "contactname", "fullname":
			columns.name = i
			isHeader = true
		case "phone", "phonenumber", "mobile", "number", "whatsapp":
			columns.phone = i
			isHeader = true
		case "group", "contactgroup", "category", "segment":
			columns.group = i
			isHeader = true
		case "email", "emailaddress", "mail":
			columns.email = i
			isHeader = true
		}
	}

	return columns, isHeader
}

func normalizeHeaderCell(cell string) string {
	cleaned := strings.ToLower(strings.TrimSpace(cell))
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "_", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	return cleaned
}

func fieldAt(record []string, index int) string {
	if index < 0 || index >= len(record) {
		return ""
	}
	return record[index]
}

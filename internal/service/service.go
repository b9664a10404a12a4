// Package service implements the business rules of the register: register
// number assignment, entry validation and the aggregate used by reports.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/patric-chuzhbe/docreg/internal/db/storage"
	"github.com/patric-chuzhbe/docreg/internal/models"
)

// ErrNotFound is returned when an update or delete targets a missing record.
var ErrNotFound = models.ErrNotFound

// ErrInvalidReturnInfo is returned when an outward entry's return flag,
// status and return date/reason disagree.
var ErrInvalidReturnInfo = errors.New("a returned entry requires status RETURNED, a return date and a return reason")

const dateLayout = "2006-01-02"

// Service is the business layer over the register storage.
type Service struct {
	db storage.Storage
}

// New creates a Service over the given storage.
func New(db storage.Storage) *Service {
	return &Service{db: db}
}

// Ping checks the health of the storage layer.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func registerNumber(prefix string, year, sequence int) string {
	return fmt.Sprintf("%s/%d/%04d", prefix, year, sequence)
}

func yearOf(date string) (int, error) {
	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return 0, err
	}

	return parsed.Year(), nil
}

// CreateInwardEntry assigns an identifier and the next inward register number
// for the entry's year, then stores the entry.
func (s *Service) CreateInwardEntry(ctx context.Context, entry models.InwardEntry) (models.InwardEntry, error) {
	year, err := yearOf(entry.InwardDate)
	if err != nil {
		return models.InwardEntry{}, err
	}

	sequence, err := s.db.NextSequence(ctx, models.EntryInward, year)
	if err != nil {
		return models.InwardEntry{}, err
	}

	entry.ID = uuid.New().String()
	entry.InwardNo = registerNumber("INW", year, sequence)
	if entry.ReceivedDate == "" {
		entry.ReceivedDate = entry.InwardDate
	}

	return s.db.CreateInwardEntry(ctx, entry)
}

// CreateOutwardEntry validates the return invariant, assigns an identifier
// and the next outward register number, then stores the entry.
func (s *Service) CreateOutwardEntry(ctx context.Context, entry models.OutwardEntry) (models.OutwardEntry, error) {
	returned := entry.Status == models.StatusReturned &&
		entry.ReturnDate != "" &&
		entry.ReturnReason != ""
	if entry.IsReturned != returned {
		return models.OutwardEntry{}, ErrInvalidReturnInfo
	}

	year, err := yearOf(entry.DispatchDate)
	if err != nil {
		return models.OutwardEntry{}, err
	}

	sequence, err := s.db.NextSequence(ctx, models.EntryOutward, year)
	if err != nil {
		return models.OutwardEntry{}, err
	}

	entry.ID = uuid.New().String()
	entry.OutwardNo = registerNumber("OUT", year, sequence)

	return s.db.CreateOutwardEntry(ctx, entry)
}

// ListInwardEntries returns the inward register filtered by filter.
func (s *Service) ListInwardEntries(ctx context.Context, filter models.EntryFilter) ([]models.InwardEntry, error) {
	return s.db.ListInwardEntries(ctx, filter)
}

// ListOutwardEntries returns the outward register filtered by filter.
func (s *Service) ListOutwardEntries(ctx context.Context, filter models.EntryFilter) ([]models.OutwardEntry, error) {
	return s.db.ListOutwardEntries(ctx, filter)
}

// QueryEntries searches both registers and returns flat summaries.
func (s *Service) QueryEntries(ctx context.Context, filter models.EntryFilter) ([]models.EntrySummary, error) {
	return s.db.QueryEntries(ctx, filter)
}

// GetSummary aggregates entry counts for the reports surface.
func (s *Service) GetSummary(ctx context.Context) (models.SummaryResponse, error) {
	inward, err := s.db.GetNumberOfEntries(ctx, models.EntryInward)
	if err != nil {
		return models.SummaryResponse{}, err
	}

	outward, err := s.db.GetNumberOfEntries(ctx, models.EntryOutward)
	if err != nil {
		return models.SummaryResponse{}, err
	}

	byStatus, err := s.db.GetNumberOfEntriesByStatus(ctx)
	if err != nil {
		return models.SummaryResponse{}, err
	}

	return models.SummaryResponse{
		Inward:   inward,
		Outward:  outward,
		ByStatus: byStatus,
	}, nil
}

// ListMasters returns the named master collection.
// The caller must have checked the kind.
func (s *Service) ListMasters(ctx context.Context, kind models.MasterKind) (interface{}, error) {
	switch kind {
	case models.KindOffices:
		return s.db.ListOffices(ctx)
	case models.KindModes:
		return s.db.ListModes(ctx)
	case models.KindEntities:
		return s.db.ListEntities(ctx)
	case models.KindCouriers:
		return s.db.ListCouriers(ctx)
	}

	return nil, fmt.Errorf("unknown master kind %q", kind)
}

// CreateOffice stores a new office.
func (s *Service) CreateOffice(ctx context.Context, office models.Office) (models.Office, error) {
	return s.db.CreateOffice(ctx, office)
}

// UpdateOffice merges a patch into an office, returning ErrNotFound
// for a missing id.
func (s *Service) UpdateOffice(ctx context.Context, id string, patch models.OfficePatch) (models.Office, error) {
	office, found, err := s.db.UpdateOffice(ctx, id, patch)
	if err != nil {
		return models.Office{}, err
	}
	if !found {
		return models.Office{}, ErrNotFound
	}

	return office, nil
}

// DeleteOffice removes an office, returning ErrNotFound for a missing id.
func (s *Service) DeleteOffice(ctx context.Context, id string) error {
	found, err := s.db.DeleteOffice(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}

	return nil
}

// CreateMode stores a new mode.
func (s *Service) CreateMode(ctx context.Context, mode models.Mode) (models.Mode, error) {
	return s.db.CreateMode(ctx, mode)
}

// UpdateMode merges a patch into a mode, returning ErrNotFound
// for a missing id.
func (s *Service) UpdateMode(ctx context.Context, id string, patch models.ModePatch) (models.Mode, error) {
	mode, found, err := s.db.UpdateMode(ctx, id, patch)
	if err != nil {
		return models.Mode{}, err
	}
	if !found {
		return models.Mode{}, ErrNotFound
	}

	return mode, nil
}

// DeleteMode removes a mode, returning ErrNotFound for a missing id.
func (s *Service) DeleteMode(ctx context.Context, id string) error {
	found, err := s.db.DeleteMode(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}

	return nil
}

// CreateEntity stores a new entity.
func (s *Service) CreateEntity(ctx context.Context, entity models.Entity) (models.Entity, error) {
	return s.db.CreateEntity(ctx, entity)
}

// UpdateEntity merges a patch into an entity, returning ErrNotFound
// for a missing id.
func (s *Service) UpdateEntity(ctx context.Context, id string, patch models.EntityPatch) (models.Entity, error) {
	entity, found, err := s.db.UpdateEntity(ctx, id, patch)
	if err != nil {
		return models.Entity{}, err
	}
	if !found {
		return models.Entity{}, ErrNotFound
	}

	return entity, nil
}

// DeleteEntity removes an entity, returning ErrNotFound for a missing id.
func (s *Service) DeleteEntity(ctx context.Context, id string) error {
	found, err := s.db.DeleteEntity(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}

	return nil
}

// CreateCourier stores a new courier.
func (s *Service) CreateCourier(ctx context.Context, courier models.Courier) (models.Courier, error) {
	return s.db.CreateCourier(ctx, courier)
}

// UpdateCourier merges a patch into a courier, returning ErrNotFound
// for a missing id.
func (s *Service) UpdateCourier(ctx context.Context, id string, patch models.CourierPatch) (models.Courier, error) {
	courier, found, err := s.db.UpdateCourier(ctx, id, patch)
	if err != nil {
		return models.Courier{}, err
	}
	if !found {
		return models.Courier{}, ErrNotFound
	}

	return courier, nil
}

// DeleteCourier removes a courier, returning ErrNotFound for a missing id.
func (s *Service) DeleteCourier(ctx context.Context, id string) error {
	found, err := s.db.DeleteCourier(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}

	return nil
}

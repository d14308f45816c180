package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/spacedesk/internal/domain/activity"
	"github.com/rpggio/spacedesk/internal/domain/entity"
	"github.com/rpggio/spacedesk/internal/repository"
)

// Service handles order operations.
type Service struct {
	repo       Repository
	spaces     SpaceReader
	offerings  OfferingReader
	ids        IDAllocator
	validator  Validator
	activities ActivityLogger
	logger     *slog.Logger
}

// NewService creates a new order service.
func NewService(
	repo Repository,
	spaces SpaceReader,
	offerings OfferingReader,
	ids IDAllocator,
	validator Validator,
	activities ActivityLogger,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		repo:       repo,
		spaces:     spaces,
		offerings:  offerings,
		ids:        ids,
		validator:  validator,
		activities: activities,
		logger:     logger,
	}
}

// Create places a pending order. The space must exist; a referenced offering must
// exist and fills in price and tax rate the input leaves unset.
func (s *Service) Create(ctx context.Context, in Input) (*Order, error) {
	if err := s.validator.Check(entity.KindOrder, &in); err != nil {
		return nil, err
	}
	if _, err := s.spaces.Get(ctx, in.SpaceID); err != nil {
		return nil, err
	}

	var unitPrice, taxRate float64
	if in.ServiceID != "" {
		svc, err := s.offerings.Get(ctx, in.ServiceID)
		if err != nil {
			return nil, err
		}
		unitPrice, taxRate = svc.Price, svc.TaxRate
	}
	if in.UnitPrice != nil {
		unitPrice = *in.UnitPrice
	}
	if in.TaxRate != nil {
		taxRate = *in.TaxRate
	}

	id, err := s.ids.AllocateNow(ctx, entity.KindOrder)
	if err != nil {
		return nil, fmt.Errorf("allocating order id: %w", err)
	}

	now := time.Now()
	o := &Order{
		ID:           id,
		SpaceID:      in.SpaceID,
		ServiceID:    in.ServiceID,
		CustomerName: strings.TrimSpace(in.CustomerName),
		Quantity:     in.Quantity,
		UnitPrice:    unitPrice,
		TaxRate:      taxRate,
		Status:       StatusPending,
		Notes:        in.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	o.Subtotal, o.Tax, o.Total = Amounts(o.Quantity, o.UnitPrice, o.TaxRate)

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("creating order: %w", err)
	}
	s.record(ctx, o.ID, activity.TypeEntityCreated, fmt.Sprintf("created order %s for space %s (total %.2f)", o.ID, o.SpaceID, o.Total))
	return o, nil
}

// Get fetches an order by ID.
func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("getting order: %w", err)
	}
	return o, nil
}

// List returns one page of orders and the total match count.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Order, int, error) {
	if opts.Status != "" && !opts.Status.Valid() {
		return nil, 0, ErrInvalidInput
	}
	opts.Page = opts.Page.Normalize()
	return s.repo.List(ctx, opts)
}

// Transition moves an order to a new status. The repository update is conditional on
// the status read here, so a concurrent change surfaces as ErrInvalidTransition.
func (s *Service) Transition(ctx context.Context, id string, to Status) (*Order, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ValidateTransition(current.Status, to); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, id, current.Status, to); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrOrderNotFound
		case errors.Is(err, repository.ErrConflict):
			return nil, ErrInvalidTransition
		}
		return nil, fmt.Errorf("updating order status: %w", err)
	}

	updated := *current
	updated.Status = to
	updated.UpdatedAt = time.Now()
	s.record(ctx, id, activity.TypeStatusChanged, fmt.Sprintf("order %s %s -> %s", id, current.Status, to))
	return &updated, nil
}

// Delete removes a pending or cancelled order.
func (s *Service) Delete(ctx context.Context, id string) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !Deletable(current.Status) {
		return ErrNotDeletable
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("deleting order: %w", err)
	}
	s.record(ctx, id, activity.TypeEntityDeleted, fmt.Sprintf("deleted order %s", id))
	return nil
}

func (s *Service) record(ctx context.Context, id string, typ activity.ActivityType, summary string) {
	if s.activities == nil {
		return
	}
	if err := s.activities.LogActivity(ctx, &activity.ActivityEntry{
		EntityType: entity.KindOrder,
		EntityID:   id,
		Type:       typ,
		Summary:    summary,
	}); err != nil {
		s.logger.Warn("failed to record activity", "order_id", id, "error", err)
	}
}

package mocks

import (
	"context"

	"github.com/rpggio/spacedesk/internal/domain/activity"
	"github.com/rpggio/spacedesk/internal/domain/building"
	"github.com/rpggio/spacedesk/internal/domain/city"
	"github.com/rpggio/spacedesk/internal/domain/entity"
	"github.com/rpggio/spacedesk/internal/domain/offering"
	"github.com/rpggio/spacedesk/internal/domain/order"
	"github.com/rpggio/spacedesk/internal/domain/sequence"
	"github.com/rpggio/spacedesk/internal/domain/space"
	"github.com/rpggio/spacedesk/internal/domain/stats"
	"github.com/stretchr/testify/mock"
)

// SequenceRepository is a mock for sequence.Repository.
type SequenceRepository struct {
	mock.Mock
}

func (m *SequenceRepository) Next(ctx context.Context, kind entity.Kind, scope int) (int64, error) {
	args := m.Called(ctx, kind, scope)
	return args.Get(0).(int64), args.Error(1)
}

func (m *SequenceRepository) Get(ctx context.Context, kind entity.Kind, scope int) (sequence.Counter, error) {
	args := m.Called(ctx, kind, scope)
	return args.Get(0).(sequence.Counter), args.Error(1)
}

func (m *SequenceRepository) List(ctx context.Context) ([]sequence.Counter, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]sequence.Counter); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// StatisticsRepository is a mock for stats.Repository.
type StatisticsRepository struct {
	mock.Mock
}

func (m *StatisticsRepository) Apply(ctx context.Context, ev stats.Event, d stats.Delta) (stats.ApplyResult, error) {
	args := m.Called(ctx, ev, d)
	return args.Get(0).(stats.ApplyResult), args.Error(1)
}

func (m *StatisticsRepository) Get(ctx context.Context, cityID string) (stats.Statistics, error) {
	args := m.Called(ctx, cityID)
	return args.Get(0).(stats.Statistics), args.Error(1)
}

func (m *StatisticsRepository) Events(ctx context.Context, cityID string, limit int) ([]stats.EventRecord, error) {
	args := m.Called(ctx, cityID, limit)
	if list, ok := args.Get(0).([]stats.EventRecord); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// CityRepository is a mock for city.Repository.
type CityRepository struct {
	mock.Mock
}

func (m *CityRepository) Create(ctx context.Context, c *city.City) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CityRepository) Get(ctx context.Context, id string) (*city.City, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*city.City); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CityRepository) FindByName(ctx context.Context, name string) (*city.City, error) {
	args := m.Called(ctx, name)
	if c, ok := args.Get(0).(*city.City); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CityRepository) List(ctx context.Context, opts city.ListOptions) ([]city.City, int, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]city.City); ok {
		return list, args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *CityRepository) Update(ctx context.Context, c *city.City) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CityRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *CityRepository) CountBuildings(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

// BuildingRepository is a mock for building.Repository.
type BuildingRepository struct {
	mock.Mock
}

func (m *BuildingRepository) Create(ctx context.Context, b *building.Building) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *BuildingRepository) Get(ctx context.Context, id string) (*building.Building, error) {
	args := m.Called(ctx, id)
	if b, ok := args.Get(0).(*building.Building); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *BuildingRepository) List(ctx context.Context, opts building.ListOptions) ([]building.Building, int, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]building.Building); ok {
		return list, args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *BuildingRepository) Update(ctx context.Context, b, read *building.Building) error {
	args := m.Called(ctx, b, read)
	return args.Error(0)
}

func (m *BuildingRepository) Delete(ctx context.Context, id string) (*building.Building, error) {
	args := m.Called(ctx, id)
	if b, ok := args.Get(0).(*building.Building); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *BuildingRepository) CountSpaces(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

// SpaceRepository is a mock for space.Repository.
type SpaceRepository struct {
	mock.Mock
}

func (m *SpaceRepository) Create(ctx context.Context, sp *space.Space) error {
	args := m.Called(ctx, sp)
	return args.Error(0)
}

func (m *SpaceRepository) Get(ctx context.Context, id string) (*space.Space, error) {
	args := m.Called(ctx, id)
	if sp, ok := args.Get(0).(*space.Space); ok {
		return sp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SpaceRepository) List(ctx context.Context, opts space.ListOptions) ([]space.Space, int, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]space.Space); ok {
		return list, args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *SpaceRepository) Update(ctx context.Context, sp, read *space.Space) error {
	args := m.Called(ctx, sp, read)
	return args.Error(0)
}

func (m *SpaceRepository) Delete(ctx context.Context, id string) (*space.Space, error) {
	args := m.Called(ctx, id)
	if sp, ok := args.Get(0).(*space.Space); ok {
		return sp, args.Error(1)
	}
	return nil, args.Error(1)
}

// OfferingRepository is a mock for offering.Repository.
type OfferingRepository struct {
	mock.Mock
}

func (m *OfferingRepository) Create(ctx context.Context, o *offering.Offering) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *OfferingRepository) Get(ctx context.Context, id string) (*offering.Offering, error) {
	args := m.Called(ctx, id)
	if o, ok := args.Get(0).(*offering.Offering); ok {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *OfferingRepository) List(ctx context.Context, opts offering.ListOptions) ([]offering.Offering, int, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]offering.Offering); ok {
		return list, args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *OfferingRepository) Update(ctx context.Context, o *offering.Offering) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *OfferingRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// OrderRepository is a mock for order.Repository.
type OrderRepository struct {
	mock.Mock
}

func (m *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *OrderRepository) Get(ctx context.Context, id string) (*order.Order, error) {
	args := m.Called(ctx, id)
	if o, ok := args.Get(0).(*order.Order); ok {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *OrderRepository) List(ctx context.Context, opts order.ListOptions) ([]order.Order, int, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]order.Order); ok {
		return list, args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *OrderRepository) UpdateStatus(ctx context.Context, id string, from, to order.Status) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *OrderRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// Allocator is a mock for the IDAllocator interfaces of the collection services.
type Allocator struct {
	mock.Mock
}

func (m *Allocator) AllocateNow(ctx context.Context, kind entity.Kind) (string, error) {
	args := m.Called(ctx, kind)
	return args.String(0), args.Error(1)
}

// Aggregator is a mock for the StatisticsAggregator interfaces of building and space.
type Aggregator struct {
	mock.Mock
}

func (m *Aggregator) OnChildCreated(ctx context.Context, cityID string, child stats.ChildType, isActive bool) (stats.Statistics, error) {
	args := m.Called(ctx, cityID, child, isActive)
	return args.Get(0).(stats.Statistics), args.Error(1)
}

func (m *Aggregator) OnChildActiveChanged(ctx context.Context, cityID string, child stats.ChildType, isActive bool) (stats.Statistics, error) {
	args := m.Called(ctx, cityID, child, isActive)
	return args.Get(0).(stats.Statistics), args.Error(1)
}

func (m *Aggregator) OnChildDeleted(ctx context.Context, cityID string, child stats.ChildType, wasActive bool) (stats.Statistics, error) {
	args := m.Called(ctx, cityID, child, wasActive)
	return args.Get(0).(stats.Statistics), args.Error(1)
}

package service_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/iyhunko/platforma-manager/internal/model"
	"github.com/iyhunko/platforma-manager/internal/service"
)

// MockStore is a mock implementation of repository.ProductStore
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Load(ctx context.Context) ([]*model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Product), args.Error(1)
}

func (m *MockStore) Save(ctx context.Context, products []*model.Product) error {
	args := m.Called(ctx, products)
	return args.Error(0)
}

// MockSheet is a mock implementation of sheets.Sheet
type MockSheet struct {
	mock.Mock
}

func (m *MockSheet) GetAllRows(ctx context.Context) ([][]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]string), args.Error(1)
}

func (m *MockSheet) AppendRow(ctx context.Context, values []string) error {
	args := m.Called(ctx, values)
	return args.Error(0)
}

func (m *MockSheet) UpdateRow(ctx context.Context, rowIndex int, values []string) error {
	args := m.Called(ctx, rowIndex, values)
	return args.Error(0)
}

// MockPublisher is a mock implementation of service.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishEvent(ctx context.Context, event model.CatalogEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockImages is a mock implementation of service.ImageStore
type MockImages struct {
	mock.Mock
}

func (m *MockImages) Import(id string, sources []string) ([]string, error) {
	args := m.Called(id, sources)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockImages) RemoveProductDir(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockSite is a mock implementation of service.SiteExporter
type MockSite struct {
	mock.Mock
}

func (m *MockSite) Write(products []*model.Product) (int, error) {
	args := m.Called(products)
	return args.Int(0), args.Error(1)
}

// MockSyncer is a mock implementation of service.Syncer
type MockSyncer struct {
	mock.Mock
}

func (m *MockSyncer) SyncFromSheet(ctx context.Context) (service.SyncResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(service.SyncResult), args.Error(1)
}

func eventWithAction(action model.EventAction) any {
	return mock.MatchedBy(func(e model.CatalogEvent) bool { return e.Action == action })
}

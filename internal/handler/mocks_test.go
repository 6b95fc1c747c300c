package handler

import (
	"context"
	"net/http"
	"sync"

	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/middleware"
	"github.com/invisiedge/Atreo-sub001/internal/usecase"
	"github.com/stretchr/testify/mock"
)

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*usecase.LoginResult, error) {
	args := m.Called(ctx, email, password)
	res, _ := args.Get(0).(*usecase.LoginResult)
	return res, args.Error(1)
}

func (m *MockAuthService) SendOTP(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAuthService) VerifyOTP(ctx context.Context, email, code string) (*usecase.LoginResult, error) {
	args := m.Called(ctx, email, code)
	res, _ := args.Get(0).(*usecase.LoginResult)
	return res, args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, actor *domain.Actor) error {
	return m.Called(ctx, actor).Error(0)
}

func (m *MockAuthService) Me(ctx context.Context, actor *domain.Actor) (*domain.User, error) {
	args := m.Called(ctx, actor)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, actor *domain.Actor, oldPassword, newPassword string) error {
	return m.Called(ctx, actor, oldPassword, newPassword).Error(0)
}

type MockAssetService struct{ mock.Mock }

func (m *MockAssetService) List(ctx context.Context, actor *domain.Actor, filter domain.AssetFilter) (*domain.Page[*domain.Asset], error) {
	args := m.Called(ctx, actor, filter)
	p, _ := args.Get(0).(*domain.Page[*domain.Asset])
	return p, args.Error(1)
}

func (m *MockAssetService) Get(ctx context.Context, actor *domain.Actor, id string) (*domain.Asset, error) {
	args := m.Called(ctx, actor, id)
	a, _ := args.Get(0).(*domain.Asset)
	return a, args.Error(1)
}

func (m *MockAssetService) Create(ctx context.Context, actor *domain.Actor, in usecase.AssetInput) (*domain.Asset, error) {
	args := m.Called(ctx, actor, in)
	a, _ := args.Get(0).(*domain.Asset)
	return a, args.Error(1)
}

func (m *MockAssetService) Update(ctx context.Context, actor *domain.Actor, id string, in usecase.AssetInput) (*domain.Asset, error) {
	args := m.Called(ctx, actor, id, in)
	a, _ := args.Get(0).(*domain.Asset)
	return a, args.Error(1)
}

func (m *MockAssetService) Delete(ctx context.Context, actor *domain.Actor, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockAssetService) Assign(ctx context.Context, actor *domain.Actor, id, employeeID string) (*domain.Asset, error) {
	args := m.Called(ctx, actor, id, employeeID)
	a, _ := args.Get(0).(*domain.Asset)
	return a, args.Error(1)
}

func (m *MockAssetService) Unassign(ctx context.Context, actor *domain.Actor, id string) (*domain.Asset, error) {
	args := m.Called(ctx, actor, id)
	a, _ := args.Get(0).(*domain.Asset)
	return a, args.Error(1)
}

type MockFileService struct{ mock.Mock }

func (m *MockFileService) Upload(ctx context.Context, actor *domain.Actor, organizationID string, in usecase.UploadInput) (*domain.StoredObject, error) {
	args := m.Called(ctx, actor, organizationID, in)
	obj, _ := args.Get(0).(*domain.StoredObject)
	return obj, args.Error(1)
}

func (m *MockFileService) PresignedURL(ctx context.Context, actor *domain.Actor, key string) (string, error) {
	args := m.Called(ctx, actor, key)
	return args.String(0), args.Error(1)
}

func (m *MockFileService) MaxBytes() int64 {
	return int64(m.Called().Int(0))
}

type MockInvoiceService struct{ mock.Mock }

func (m *MockInvoiceService) List(ctx context.Context, actor *domain.Actor, filter domain.InvoiceFilter) (*domain.Page[*domain.Invoice], error) {
	args := m.Called(ctx, actor, filter)
	p, _ := args.Get(0).(*domain.Page[*domain.Invoice])
	return p, args.Error(1)
}

func (m *MockInvoiceService) Get(ctx context.Context, actor *domain.Actor, id string) (*domain.Invoice, error) {
	args := m.Called(ctx, actor, id)
	inv, _ := args.Get(0).(*domain.Invoice)
	return inv, args.Error(1)
}

func (m *MockInvoiceService) Create(ctx context.Context, actor *domain.Actor, in usecase.InvoiceInput) (*domain.Invoice, error) {
	args := m.Called(ctx, actor, in)
	inv, _ := args.Get(0).(*domain.Invoice)
	return inv, args.Error(1)
}

func (m *MockInvoiceService) Update(ctx context.Context, actor *domain.Actor, id string, in usecase.InvoiceInput) (*domain.Invoice, error) {
	args := m.Called(ctx, actor, id, in)
	inv, _ := args.Get(0).(*domain.Invoice)
	return inv, args.Error(1)
}

func (m *MockInvoiceService) SetStatus(ctx context.Context, actor *domain.Actor, id string, status domain.InvoiceStatus) (*domain.Invoice, error) {
	args := m.Called(ctx, actor, id, status)
	inv, _ := args.Get(0).(*domain.Invoice)
	return inv, args.Error(1)
}

func (m *MockInvoiceService) Delete(ctx context.Context, actor *domain.Actor, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockInvoiceService) Attach(ctx context.Context, actor *domain.Actor, id string, in usecase.UploadInput) (*domain.StoredObject, error) {
	args := m.Called(ctx, actor, id, in)
	obj, _ := args.Get(0).(*domain.StoredObject)
	return obj, args.Error(1)
}

type recordingAuditStore struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
}

func (s *recordingAuditStore) Record(_ context.Context, entry *domain.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *recordingAuditStore) last() *domain.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == 0 {
		return nil
	}
	return s.entries[len(s.entries)-1]
}

func testActor() *domain.Actor {
	return &domain.Actor{UserID: "u-1", Email: "admin@acme.test", Role: domain.RoleAdmin, OrganizationID: "org-1"}
}

func withActor(r *http.Request, actor *domain.Actor) *http.Request {
	return r.WithContext(middleware.WithActor(r.Context(), actor))
}

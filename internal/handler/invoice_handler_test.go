package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/middleware"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"github.com/invisiedge/Atreo-sub001/internal/usecase"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func invoiceRouter(h *InvoiceHandler) *chi.Mux {
	mux := chi.NewRouter()
	mux.Get("/api/invoices", h.HandleList)
	mux.Post("/api/invoices", h.HandleCreate)
	mux.Patch("/api/invoices/{id}/status", h.HandleSetStatus)
	mux.Post("/api/invoices/{id}/attachment", h.HandleAttach)
	return mux
}

func TestInvoiceHandler_ListDateRange(t *testing.T) {
	svc := new(MockInvoiceService)
	actor := testActor()
	svc.On("List", mock.Anything, actor, mock.MatchedBy(func(f domain.InvoiceFilter) bool {
		return f.Status == domain.InvoiceOverdue &&
			f.From != nil && f.From.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) &&
			f.To != nil && f.To.Day() == 31 && f.To.Hour() == 23
	})).Return(domain.NewPage[*domain.Invoice](nil, 0, domain.ListFilter{Page: 1, Limit: 20}), nil)

	mux := invoiceRouter(NewInvoiceHandler(svc, nil, nil, 1<<20, logger.NewNop()))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, withActor(httptest.NewRequest(http.MethodGet, "/api/invoices?status=overdue&from=2024-01-01&to=2024-01-31", nil), actor))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"items":[],"total":0,"page":1,"limit":20}`, rr.Body.String())

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, withActor(httptest.NewRequest(http.MethodGet, "/api/invoices?from=yesterday", nil), actor))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNumberOfCalls(t, "List", 1)
}

func TestInvoiceHandler_Create(t *testing.T) {
	svc := new(MockInvoiceService)
	actor := testActor()
	svc.On("Create", mock.Anything, actor, mock.MatchedBy(func(in usecase.InvoiceInput) bool {
		return in.InvoiceNumber != nil && *in.InvoiceNumber == "INV-7" &&
			len(in.Items) == 1 && in.Items[0].UnitPrice.Equal(decimal.RequireFromString("49.50")) &&
			in.DueDate != nil && in.DueDate.Format("2006-01-02") == "2024-05-01"
	})).Return(&domain.Invoice{ID: "inv-7", InvoiceNumber: "INV-7", Total: decimal.RequireFromString("99")}, nil)

	body := `{"invoice_number":"INV-7","vendor_name":"Figma","items":[{"description":"Seats","quantity":"2","unit_price":"49.50"}],"due_date":"2024-05-01"}`
	rr := httptest.NewRecorder()
	invoiceRouter(NewInvoiceHandler(svc, nil, nil, 1<<20, logger.NewNop())).ServeHTTP(rr,
		withActor(httptest.NewRequest(http.MethodPost, "/api/invoices", strings.NewReader(body)), actor))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"id":"inv-7"`)
	svc.AssertExpectations(t)
}

func TestInvoiceHandler_SetStatus(t *testing.T) {
	svc := new(MockInvoiceService)
	actor := testActor()
	svc.On("SetStatus", mock.Anything, actor, "inv-1", domain.InvoicePending).Return(nil, domain.ErrConflict)
	mux := invoiceRouter(NewInvoiceHandler(svc, nil, nil, 1<<20, logger.NewNop()))

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, withActor(httptest.NewRequest(http.MethodPatch, "/api/invoices/inv-1/status", strings.NewReader(`{"status":"pending"}`)), actor))
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, withActor(httptest.NewRequest(http.MethodPatch, "/api/invoices/inv-1/status", strings.NewReader(`{}`)), actor))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestInvoiceHandler_AttachIsAuditedOnce(t *testing.T) {
	svc := new(MockInvoiceService)
	store := &recordingAuditStore{}
	auditor := middleware.NewAuditor(store, nil, logger.NewNop())
	actor := testActor()
	svc.On("Attach", mock.Anything, actor, "inv-1", mock.AnythingOfType("usecase.UploadInput")).
		Return(&domain.StoredObject{Key: "org-1/invoices/inv-1/x.pdf", ContentType: "application/pdf"}, nil)

	h := NewInvoiceHandler(svc, auditor, nil, 1<<20, logger.NewNop())
	mux := chi.NewRouter()
	mux.With(auditor.Audit(domain.ModuleInvoices)).Post("/api/invoices/{id}/attachment", h.HandleAttach)

	body, contentType := multipartBody(t, "file", "x.pdf", []byte("%PDF-1.4\n"), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/invoices/inv-1/attachment", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, withActor(req, actor))

	require.Equal(t, http.StatusCreated, rr.Code)
	require.Len(t, store.entries, 1)
	assert.Equal(t, domain.ActionUpload, store.entries[0].Action)
	assert.Equal(t, "inv-1", store.entries[0].ResourceID)
}

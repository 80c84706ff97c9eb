package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/tekstilpro/proforma-api/internal/domain/entity"
	"github.com/tekstilpro/proforma-api/internal/domain/enum"
	"github.com/tekstilpro/proforma-api/internal/domain/repository"
	"github.com/tekstilpro/proforma-api/pkg/pagination"
)

func listAllParams() *repository.RequestFilterParams {
	return &repository.RequestFilterParams{Pagination: pagination.DefaultPagination()}
}

func TestSearchProducts_ShortQueryReturnsEmptyPage(t *testing.T) {
	productRepo := newFakeProductRepo(entity.Product{Name: "Polo Shirt", Code: "PS-001"})
	svc := NewManualInvoiceService(newFakeRequestRepo(), newFakeQuoteRepo(), productRepo)

	for _, query := range []string{"", "p"} {
		result, err := svc.SearchProducts(context.Background(), query, pagination.DefaultPagination())
		if err != nil {
			t.Fatalf("SearchProducts(%q): %v", query, err)
		}
		if len(result.Items) != 0 {
			t.Fatalf("SearchProducts(%q) returned %d items, want 0", query, len(result.Items))
		}
		if result.Pagination.Total != 0 {
			t.Fatalf("SearchProducts(%q) total = %d, want 0", query, result.Pagination.Total)
		}
	}
	if productRepo.searchCalls != 0 {
		t.Fatalf("catalog was queried %d times for short queries", productRepo.searchCalls)
	}
}

func TestSearchProducts_QueriesCatalogAtMinLength(t *testing.T) {
	productRepo := newFakeProductRepo(entity.Product{Name: "Polo Shirt", Code: "PS-001"})
	svc := NewManualInvoiceService(newFakeRequestRepo(), newFakeQuoteRepo(), productRepo)

	result, err := svc.SearchProducts(context.Background(), "po", pagination.DefaultPagination())
	if err != nil {
		t.Fatalf("SearchProducts: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(result.Items))
	}
	if productRepo.searchCalls != 1 {
		t.Fatalf("search calls = %d, want 1", productRepo.searchCalls)
	}
}

func validManualInput() *CreateManualInvoiceInput {
	return &CreateManualInvoiceInput{
		CustomerName: "Fatma Şahin",
		Items: []ManualItemInput{
			{ProductName: "Polo Shirt", Quantity: 10, UnitCost: 100, PrintingCost: 50},
		},
		ProfitMargin:       20,
		VATRate:            10,
		SharedShippingCost: 100,
	}
}

func TestCreateManualInvoice_TwoStepSave(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	quoteRepo := newFakeQuoteRepo()
	svc := NewManualInvoiceService(requestRepo, quoteRepo, newFakeProductRepo())

	detail, err := svc.CreateManualInvoice(context.Background(), validManualInput())
	if err != nil {
		t.Fatalf("CreateManualInvoice: %v", err)
	}

	if detail.Request.RequestNumber != "MNL-000001" {
		t.Fatalf("request number = %s, want MNL-000001", detail.Request.RequestNumber)
	}
	if detail.Request.Source != enum.RequestSourceManual {
		t.Fatalf("source = %v, want manual", detail.Request.Source)
	}
	if detail.Request.Status != enum.RequestStatusReview {
		t.Fatalf("status = %v, want review", detail.Request.Status)
	}
	if detail.LatestQuote == nil {
		t.Fatal("expected a quote snapshot")
	}
	if len(detail.LatestQuote.Items) != 1 {
		t.Fatalf("quote items = %d, want 1", len(detail.LatestQuote.Items))
	}
	// Quote rows must reference the persisted item IDs
	if detail.LatestQuote.Items[0].RequestItemID != detail.Request.Items[0].ID.String() {
		t.Fatal("quote item does not reference the persisted request item")
	}
}

func TestCreateManualInvoice_Validation(t *testing.T) {
	svc := NewManualInvoiceService(newFakeRequestRepo(), newFakeQuoteRepo(), newFakeProductRepo())

	input := validManualInput()
	input.CustomerName = ""
	_, err := svc.CreateManualInvoice(context.Background(), input)
	wantAppErrorCode(t, err, http.StatusBadRequest)

	input = validManualInput()
	input.Items = nil
	_, err = svc.CreateManualInvoice(context.Background(), input)
	wantAppErrorCode(t, err, http.StatusBadRequest)
}

func TestCreateManualInvoice_UnquotableInputCreatesNothing(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	quoteRepo := newFakeQuoteRepo()
	svc := NewManualInvoiceService(requestRepo, quoteRepo, newFakeProductRepo())

	input := validManualInput()
	input.Items[0].Quantity = 0

	_, err := svc.CreateManualInvoice(context.Background(), input)
	wantAppErrorCode(t, err, http.StatusUnprocessableEntity)

	// The pre-check must reject before step 1, leaving no orphan behind
	list, total, _ := requestRepo.List(context.Background(), listAllParams())
	if total != 0 || len(list) != 0 {
		t.Fatalf("a request was created for unquotable input: %d stored", total)
	}
}

func TestCreateManualInvoice_QuoteFailureLeavesOrphan(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	quoteRepo := newFakeQuoteRepo()
	quoteRepo.createErr = errors.New("connection reset")
	svc := NewManualInvoiceService(requestRepo, quoteRepo, newFakeProductRepo())

	_, err := svc.CreateManualInvoice(context.Background(), validManualInput())
	if err == nil {
		t.Fatal("expected an error when the quote save fails")
	}
	if !strings.Contains(err.Error(), "MNL-000001") {
		t.Fatalf("error should name the orphaned invoice, got: %v", err)
	}
	if !strings.Contains(err.Error(), "re-quote or delete") {
		t.Fatalf("error should tell the operator how to recover, got: %v", err)
	}

	// The request record stays behind in pending for the operator
	list, total, _ := requestRepo.List(context.Background(), listAllParams())
	if total != 1 {
		t.Fatalf("stored requests = %d, want the orphan to remain", total)
	}
	if list[0].Status != enum.RequestStatusPending {
		t.Fatalf("orphan status = %v, want pending", list[0].Status)
	}
}

package service

import (
	"context"
	"math"
	"net/http"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/tekstilpro/proforma-api/internal/domain/entity"
	"github.com/tekstilpro/proforma-api/internal/domain/enum"
	"github.com/tekstilpro/proforma-api/pkg/apperror"
)

func seedRequest(t *testing.T, repo *fakeRequestRepo, items ...entity.RequestItem) *entity.ProductionRequest {
	t.Helper()
	request := &entity.ProductionRequest{
		RequestNumber: "REQ-000001",
		CustomerName:  "Ayşe Yılmaz",
		Status:        enum.RequestStatusPending,
		Source:        enum.RequestSourceIntake,
		Items:         items,
	}
	if err := repo.Create(context.Background(), request); err != nil {
		t.Fatalf("seed request: %v", err)
	}
	return request
}

func wantAppErrorCode(t *testing.T, err error, code int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected an error with code %d, got nil", code)
	}
	appErr := apperror.GetAppError(err)
	if appErr.Code != code {
		t.Fatalf("error code = %d, want %d (message: %s)", appErr.Code, code, appErr.Message)
	}
}

func TestSaveQuote_CreatesSnapshotAndMovesToReview(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	quoteRepo := newFakeQuoteRepo()
	svc := NewQuotationService(requestRepo, quoteRepo)

	request := seedRequest(t, requestRepo,
		entity.RequestItem{ProductName: "Polo Shirt", Quantity: 10},
	)

	quote, err := svc.SaveQuote(context.Background(), &SaveQuoteInput{
		RequestID: request.ID,
		ItemCosts: []ItemCostInput{
			{ItemID: request.Items[0].ID, UnitCost: 100, PrintingCost: 50},
		},
		ProfitMargin:       20,
		VATRate:            10,
		SharedShippingCost: 100,
	})
	if err != nil {
		t.Fatalf("SaveQuote: %v", err)
	}
	if quote == nil {
		t.Fatal("expected a quote, got nil")
	}
	if len(quote.Items) != 1 {
		t.Fatalf("quote items = %d, want 1", len(quote.Items))
	}
	if quote.VATRate != enum.VATRateLow {
		t.Fatalf("vat rate = %d, want %d", quote.VATRate, enum.VATRateLow)
	}
	if math.Abs(quote.TotalWithVAT-1485) > 1e-6 {
		t.Fatalf("total with VAT = %v, want 1485", quote.TotalWithVAT)
	}

	stored, _ := requestRepo.GetByID(context.Background(), request.ID)
	if stored.Status != enum.RequestStatusReview {
		t.Fatalf("status after save = %v, want review", stored.Status)
	}
}

func TestSaveQuote_SanitizesCostsBeforePersisting(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	quoteRepo := newFakeQuoteRepo()
	svc := NewQuotationService(requestRepo, quoteRepo)

	request := seedRequest(t, requestRepo,
		entity.RequestItem{ProductName: "Hoodie", Quantity: 5},
	)

	_, err := svc.SaveQuote(context.Background(), &SaveQuoteInput{
		RequestID: request.ID,
		ItemCosts: []ItemCostInput{
			{ItemID: request.Items[0].ID, UnitCost: -80, PrintingCost: math.NaN(), EmbroideryCost: 30},
		},
		ProfitMargin: 10,
		VATRate:      20,
	})
	if err != nil {
		t.Fatalf("SaveQuote: %v", err)
	}

	stored, _ := requestRepo.GetWithItems(context.Background(), request.ID)
	item := stored.Items[0]
	if item.UnitCost != 0 || item.PrintingCost != 0 {
		t.Fatalf("invalid costs were persisted: unit=%v printing=%v", item.UnitCost, item.PrintingCost)
	}
	if item.EmbroideryCost != 30 {
		t.Fatalf("embroidery cost = %v, want 30", item.EmbroideryCost)
	}
}

func TestSaveQuote_NormalizesUnknownVATRate(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	quoteRepo := newFakeQuoteRepo()
	svc := NewQuotationService(requestRepo, quoteRepo)

	request := seedRequest(t, requestRepo,
		entity.RequestItem{ProductName: "Cap", Quantity: 3, UnitCost: 10},
	)

	quote, err := svc.SaveQuote(context.Background(), &SaveQuoteInput{
		RequestID: request.ID,
		VATRate:   7,
	})
	if err != nil {
		t.Fatalf("SaveQuote: %v", err)
	}
	if quote.VATRate != enum.VATRateStandard {
		t.Fatalf("vat rate = %d, want standard %d", quote.VATRate, enum.VATRateStandard)
	}
}

func TestSaveQuote_RequestNotFound(t *testing.T) {
	svc := NewQuotationService(newFakeRequestRepo(), newFakeQuoteRepo())

	_, err := svc.SaveQuote(context.Background(), &SaveQuoteInput{RequestID: uuid.New()})
	wantAppErrorCode(t, err, http.StatusNotFound)
}

func TestSaveQuote_NoPricedQuantity(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	quoteRepo := newFakeQuoteRepo()
	svc := NewQuotationService(requestRepo, quoteRepo)

	request := seedRequest(t, requestRepo,
		entity.RequestItem{ProductName: "Sweatshirt", Quantity: 0},
	)

	_, err := svc.SaveQuote(context.Background(), &SaveQuoteInput{RequestID: request.ID})
	wantAppErrorCode(t, err, http.StatusUnprocessableEntity)

	stored, _ := requestRepo.GetByID(context.Background(), request.ID)
	if stored.Status != enum.RequestStatusPending {
		t.Fatalf("status = %v, want pending after failed save", stored.Status)
	}
	if quoteRepo.countByRequestID(request.ID) != 0 {
		t.Fatal("no quote should be stored for an unquotable request")
	}
}

func TestSaveQuote_SecondSaveKeepsHistory(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	quoteRepo := newFakeQuoteRepo()
	svc := NewQuotationService(requestRepo, quoteRepo)

	request := seedRequest(t, requestRepo,
		entity.RequestItem{ProductName: "T-Shirt", Quantity: 8, UnitCost: 40},
	)

	input := &SaveQuoteInput{RequestID: request.ID, ProfitMargin: 15, VATRate: 20}
	if _, err := svc.SaveQuote(context.Background(), input); err != nil {
		t.Fatalf("first save: %v", err)
	}
	input.ProfitMargin = 25
	second, err := svc.SaveQuote(context.Background(), input)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}

	if quoteRepo.countByRequestID(request.ID) != 2 {
		t.Fatalf("quotes stored = %d, want 2 snapshots", quoteRepo.countByRequestID(request.ID))
	}
	latest, _ := quoteRepo.GetLatestByRequestID(context.Background(), request.ID)
	if latest.ID != second.ID {
		t.Fatal("latest quote is not the second snapshot")
	}
	if latest.ProfitMargin != 25 {
		t.Fatalf("latest margin = %v, want 25", latest.ProfitMargin)
	}
}

func TestTransitions_FromAnyState(t *testing.T) {
	approve := func(svc *QuotationService, id uuid.UUID) error { return svc.Approve(context.Background(), id) }
	reject := func(svc *QuotationService, id uuid.UUID) error { return svc.Reject(context.Background(), id) }
	archive := func(svc *QuotationService, id uuid.UUID) error { return svc.Archive(context.Background(), id) }

	tests := []struct {
		name string
		from enum.RequestStatus
		call func(svc *QuotationService, id uuid.UUID) error
		want enum.RequestStatus
	}{
		{"approve from pending", enum.RequestStatusPending, approve, enum.RequestStatusApproved},
		{"approve from review", enum.RequestStatusReview, approve, enum.RequestStatusApproved},
		{"reject from review", enum.RequestStatusReview, reject, enum.RequestStatusRejected},
		{"archive from approved", enum.RequestStatusApproved, archive, enum.RequestStatusArchived},
		{"archive from rejected", enum.RequestStatusRejected, archive, enum.RequestStatusArchived},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requestRepo := newFakeRequestRepo()
			svc := NewQuotationService(requestRepo, newFakeQuoteRepo())
			request := seedRequest(t, requestRepo, entity.RequestItem{ProductName: "Vest", Quantity: 1})
			requestRepo.UpdateStatus(context.Background(), request.ID, tt.from)

			if err := tt.call(svc, request.ID); err != nil {
				t.Fatalf("transition: %v", err)
			}
			stored, _ := requestRepo.GetByID(context.Background(), request.ID)
			if stored.Status != tt.want {
				t.Fatalf("status = %v, want %v", stored.Status, tt.want)
			}
		})
	}
}

func TestTransition_UnknownRequest(t *testing.T) {
	svc := NewQuotationService(newFakeRequestRepo(), newFakeQuoteRepo())
	wantAppErrorCode(t, svc.Approve(context.Background(), uuid.New()), http.StatusNotFound)
}

func TestRequestRevision_SetsNotesAndResetsStatus(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	svc := NewQuotationService(requestRepo, newFakeQuoteRepo())

	request := seedRequest(t, requestRepo, entity.RequestItem{ProductName: "Jacket", Quantity: 2})
	requestRepo.UpdateStatus(context.Background(), request.ID, enum.RequestStatusReview)

	if err := svc.RequestRevision(context.Background(), request.ID, "Customer wants navy instead of black"); err != nil {
		t.Fatalf("RequestRevision: %v", err)
	}

	stored, _ := requestRepo.GetByID(context.Background(), request.ID)
	if stored.Status != enum.RequestStatusPending {
		t.Fatalf("status = %v, want pending", stored.Status)
	}
	if stored.RevisionNotes == nil || *stored.RevisionNotes != "Customer wants navy instead of black" {
		t.Fatal("revision notes were not stored")
	}
}

func TestDeleteRequest_RemovesQuotes(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	quoteRepo := newFakeQuoteRepo()
	svc := NewQuotationService(requestRepo, quoteRepo)

	request := seedRequest(t, requestRepo,
		entity.RequestItem{ProductName: "Polo Shirt", Quantity: 4, UnitCost: 25},
	)
	if _, err := svc.SaveQuote(context.Background(), &SaveQuoteInput{RequestID: request.ID, VATRate: 20}); err != nil {
		t.Fatalf("SaveQuote: %v", err)
	}

	if err := svc.DeleteRequest(context.Background(), request.ID); err != nil {
		t.Fatalf("DeleteRequest: %v", err)
	}

	if got, _ := requestRepo.GetByID(context.Background(), request.ID); got != nil {
		t.Fatal("request still exists after delete")
	}
	if quoteRepo.countByRequestID(request.ID) != 0 {
		t.Fatal("quotes still exist after delete")
	}
}

func TestCreateRequest_Validation(t *testing.T) {
	svc := NewQuotationService(newFakeRequestRepo(), newFakeQuoteRepo())

	_, err := svc.CreateRequest(context.Background(), &CreateRequestInput{
		Items: []RequestItemInput{{ProductName: "Polo Shirt", Quantity: 1}},
	})
	wantAppErrorCode(t, err, http.StatusBadRequest)

	_, err = svc.CreateRequest(context.Background(), &CreateRequestInput{CustomerName: "Mehmet Kaya"})
	wantAppErrorCode(t, err, http.StatusBadRequest)
}

func TestCreateRequest_AssignsSequentialNumber(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	svc := NewQuotationService(requestRepo, newFakeQuoteRepo())

	first, err := svc.CreateRequest(context.Background(), &CreateRequestInput{
		CustomerName: "Mehmet Kaya",
		Items:        []RequestItemInput{{ProductName: "T-Shirt", Quantity: 50}},
	})
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	if first.RequestNumber != "REQ-000001" {
		t.Fatalf("request number = %s, want REQ-000001", first.RequestNumber)
	}
	if first.Source != enum.RequestSourceIntake {
		t.Fatalf("source = %v, want intake", first.Source)
	}

	second, err := svc.CreateRequest(context.Background(), &CreateRequestInput{
		CustomerName: "Zeynep Demir",
		Items:        []RequestItemInput{{ProductName: "Hoodie", Quantity: 20}},
	})
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	if second.RequestNumber != "REQ-000002" {
		t.Fatalf("request number = %s, want REQ-000002", second.RequestNumber)
	}
}

func TestTransitions_ConcurrentOnSameRequest(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	svc := NewQuotationService(requestRepo, newFakeQuoteRepo())

	request := seedRequest(t, requestRepo,
		entity.RequestItem{ProductName: "T-Shirt", Quantity: 10, UnitCost: 30},
	)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			switch i % 3 {
			case 0:
				svc.SaveQuote(context.Background(), &SaveQuoteInput{RequestID: request.ID, VATRate: 20})
			case 1:
				svc.Approve(context.Background(), request.ID)
			default:
				svc.Archive(context.Background(), request.ID)
			}
		}(i)
	}
	wg.Wait()

	// All transitions went through the per-request lock; the request must
	// land in one of the states the calls produce.
	stored, _ := requestRepo.GetByID(context.Background(), request.ID)
	switch stored.Status {
	case enum.RequestStatusReview, enum.RequestStatusApproved, enum.RequestStatusArchived:
	default:
		t.Fatalf("unexpected final status %v", stored.Status)
	}
}

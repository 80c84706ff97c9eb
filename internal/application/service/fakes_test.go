package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tekstilpro/proforma-api/internal/domain/entity"
	"github.com/tekstilpro/proforma-api/internal/domain/enum"
	"github.com/tekstilpro/proforma-api/internal/domain/repository"
	"github.com/tekstilpro/proforma-api/pkg/pagination"
)

// fakeRequestRepo is an in-memory ProductionRequestRepository.
type fakeRequestRepo struct {
	mu       sync.Mutex
	requests map[uuid.UUID]*entity.ProductionRequest

	createErr       error
	updateStatusErr error
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[uuid.UUID]*entity.ProductionRequest)}
}

func (r *fakeRequestRepo) Create(ctx context.Context, request *entity.ProductionRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	for i := range request.Items {
		if request.Items[i].ID == uuid.Nil {
			request.Items[i].ID = uuid.New()
		}
		request.Items[i].RequestID = request.ID
	}
	request.CreatedAt = time.Now()
	cp := *request
	r.requests[request.ID] = &cp
	return nil
}

func (r *fakeRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.ProductionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, nil
	}
	cp := *req
	cp.Items = nil
	return &cp, nil
}

func (r *fakeRequestRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.ProductionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, nil
	}
	cp := *req
	cp.Items = append([]entity.RequestItem(nil), req.Items...)
	return &cp, nil
}

func (r *fakeRequestRepo) Update(ctx context.Context, request *entity.ProductionRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.requests[request.ID]
	if !ok {
		return nil
	}
	items := stored.Items
	cp := *request
	cp.Items = items
	r.requests[request.ID] = &cp
	return nil
}

func (r *fakeRequestRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.RequestStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateStatusErr != nil {
		return r.updateStatusErr
	}
	if req, ok := r.requests[id]; ok {
		req.Status = status
	}
	return nil
}

func (r *fakeRequestRepo) UpdateItemCosts(ctx context.Context, items []entity.RequestItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range items {
		req, ok := r.requests[it.RequestID]
		if !ok {
			continue
		}
		for i := range req.Items {
			if req.Items[i].ID == it.ID {
				req.Items[i].UnitCost = it.UnitCost
				req.Items[i].PrintingCost = it.PrintingCost
				req.Items[i].EmbroideryCost = it.EmbroideryCost
			}
		}
	}
	return nil
}

func (r *fakeRequestRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.requests, id)
	return nil
}

func (r *fakeRequestRepo) List(ctx context.Context, params *repository.RequestFilterParams) ([]entity.ProductionRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.ProductionRequest
	for _, req := range r.requests {
		if params.Status != nil && req.Status != *params.Status {
			continue
		}
		if params.Source != nil && req.Source != *params.Source {
			continue
		}
		out = append(out, *req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequestNumber < out[j].RequestNumber })
	return out, int64(len(out)), nil
}

func (r *fakeRequestRepo) CountByStatus(ctx context.Context, status enum.RequestStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, req := range r.requests {
		if req.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *fakeRequestRepo) GetNextRequestNumber(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests) + 1, nil
}

// fakeQuoteRepo is an in-memory QuoteRepository. Quotes are kept in
// insertion order so "latest" is the last one created.
type fakeQuoteRepo struct {
	mu     sync.Mutex
	quotes []*entity.Quote

	createErr error
}

func newFakeQuoteRepo() *fakeQuoteRepo {
	return &fakeQuoteRepo{}
}

func (r *fakeQuoteRepo) Create(ctx context.Context, quote *entity.Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if quote.ID == uuid.Nil {
		quote.ID = uuid.New()
	}
	for i := range quote.Items {
		if quote.Items[i].ID == uuid.Nil {
			quote.Items[i].ID = uuid.New()
		}
		quote.Items[i].QuoteID = quote.ID
	}
	quote.CreatedAt = time.Now()
	cp := *quote
	r.quotes = append(r.quotes, &cp)
	return nil
}

func (r *fakeQuoteRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.quotes {
		if q.ID == id {
			cp := *q
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeQuoteRepo) GetLatestByRequestID(ctx context.Context, requestID uuid.UUID) (*entity.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.quotes) - 1; i >= 0; i-- {
		if r.quotes[i].RequestID == requestID {
			cp := *r.quotes[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeQuoteRepo) ListByRequestID(ctx context.Context, requestID uuid.UUID) ([]entity.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Quote
	for i := len(r.quotes) - 1; i >= 0; i-- {
		if r.quotes[i].RequestID == requestID {
			out = append(out, *r.quotes[i])
		}
	}
	return out, nil
}

func (r *fakeQuoteRepo) ListSince(ctx context.Context, sinceDays int) ([]entity.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := time.Now().AddDate(0, 0, -sinceDays)
	var out []entity.Quote
	for _, q := range r.quotes {
		if q.CreatedAt.After(cutoff) {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (r *fakeQuoteRepo) DeleteByRequestID(ctx context.Context, requestID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.quotes[:0]
	for _, q := range r.quotes {
		if q.RequestID != requestID {
			kept = append(kept, q)
		}
	}
	r.quotes = kept
	return nil
}

func (r *fakeQuoteRepo) countByRequestID(requestID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, q := range r.quotes {
		if q.RequestID == requestID {
			n++
		}
	}
	return n
}

// fakeProductRepo is an in-memory ProductRepository.
type fakeProductRepo struct {
	mu       sync.Mutex
	products []entity.Product

	searchCalls int
}

func newFakeProductRepo(products ...entity.Product) *fakeProductRepo {
	return &fakeProductRepo{products: products}
}

func (r *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	r.products = append(r.products, *product)
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Code == code {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.products {
		if r.products[i].ID == product.ID {
			r.products[i] = *product
		}
	}
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.products[:0]
	for _, p := range r.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	r.products = kept
	return nil
}

func (r *fakeProductRepo) List(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]entity.Product(nil), r.products...)
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) Search(ctx context.Context, query string, params *pagination.PaginationParams) ([]entity.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.searchCalls++
	out := append([]entity.Product(nil), r.products...)
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.products)), nil
}

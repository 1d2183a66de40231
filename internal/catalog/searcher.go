package catalog

import (
	"context"
	"strings"
	"sync"

	"orderdesk/internal/cart"
	"orderdesk/internal/dataapi"
	"orderdesk/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Source is the part of the data API the searcher reads from.
type Source interface {
	SearchProducts(ctx context.Context, term string) ([]dataapi.Product, error)
	SearchCustomers(ctx context.Context, term string) ([]dataapi.Customer, error)
}

// NewLimiter builds the limiter shared by every Searcher. A non-positive rate disables throttling.
func NewLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// Searcher keeps the current product and customer search terms and their last results, so a
// later selection can be resolved against what the user actually saw.
type Searcher struct {
	src     Source
	limiter *rate.Limiter

	mu sync.RWMutex
	// Sequence of the latest product/customer search issued. Replies from older calls are
	// returned to their caller but never stored.
	productSeq   uint64
	customerSeq  uint64
	productTerm  string
	customerTerm string
	products     []cart.Product
	customers    []cart.Customer
}

func NewSearcher(src Source, limiter *rate.Limiter) *Searcher {
	return &Searcher{src: src, limiter: limiter}
}

// SearchProducts runs a product search. A blank term clears the results without calling out.
func (s *Searcher) SearchProducts(ctx context.Context, term string) ([]cart.Product, error) {
	term = strings.TrimSpace(term)
	s.mu.Lock()
	s.productSeq++
	seq := s.productSeq
	if term == "" {
		s.productTerm, s.products = "", nil
	}
	s.mu.Unlock()
	if term == "" {
		return []cart.Product{}, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	found, err := s.src.SearchProducts(ctx, term)
	if err != nil {
		logger.FromCtx(ctx).Error("product search failed",
			zap.String("layer", "catalog"),
			zap.String("term", term),
			zap.Error(err),
		)
		return nil, err
	}

	products := toCartProducts(found)
	s.mu.Lock()
	if seq == s.productSeq {
		s.productTerm, s.products = term, products
	}
	s.mu.Unlock()

	return append([]cart.Product(nil), products...), nil
}

// SearchCustomers runs a customer search. A blank term clears the results without calling out.
func (s *Searcher) SearchCustomers(ctx context.Context, term string) ([]cart.Customer, error) {
	term = strings.TrimSpace(term)
	s.mu.Lock()
	s.customerSeq++
	seq := s.customerSeq
	if term == "" {
		s.customerTerm, s.customers = "", nil
	}
	s.mu.Unlock()
	if term == "" {
		return []cart.Customer{}, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	found, err := s.src.SearchCustomers(ctx, term)
	if err != nil {
		logger.FromCtx(ctx).Error("customer search failed",
			zap.String("layer", "catalog"),
			zap.String("term", term),
			zap.Error(err),
		)
		return nil, err
	}

	customers := toCartCustomers(found)
	s.mu.Lock()
	if seq == s.customerSeq {
		s.customerTerm, s.customers = term, customers
	}
	s.mu.Unlock()

	return append([]cart.Customer(nil), customers...), nil
}

func (s *Searcher) ProductTerm() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.productTerm
}

func (s *Searcher) CustomerTerm() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.customerTerm
}

// Product picks a product from the last product search.
func (s *Searcher) Product(id string) (cart.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return cart.Product{}, ErrProductNotInResults
}

// Customer picks a customer from the last customer search.
func (s *Searcher) Customer(id string) (cart.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return cart.Customer{}, ErrCustomerNotInResults
}

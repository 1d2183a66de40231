package cart

import (
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Store holds one order-in-progress: line items, the attached customer, tags and notes.
// Every mutation is synchronous and visible to the next read.
type Store struct {
	mu       sync.RWMutex
	items    []LineItem
	customer *Customer
	tags     []string
	notes    string

	collectPaymentLater bool

	newCustomID func() string
}

func NewStore() *Store {
	return &Store{
		newCustomID: func() string { return customIDPrefix + uuid.NewString() },
	}
}

// AddLineItem appends item. The caller supplies the id; a colliding id is rejected.
func (s *Store) AddLineItem(item LineItem) error {
	if err := validateLineItem(item); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(item.ID) >= 0 {
		return ErrDuplicateLineItem
	}
	if item.Source == "" {
		item.Source = SourceCatalog
	}
	s.items = append(s.items, item)
	return nil
}

// AddCatalogItem adds one unit of a catalog product. Adding a product that is already in
// the cart bumps its quantity instead of creating a second row.
func (s *Store) AddCatalogItem(p Product) (LineItem, error) {
	item := LineItem{
		ID:          p.ID,
		ProductID:   p.ID,
		Name:        p.Name,
		Description: p.Description,
		UnitPrice:   p.Price,
		Quantity:    1,
		Source:      SourceCatalog,
	}
	if err := validateLineItem(item); err != nil {
		return LineItem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(item.ID); i >= 0 {
		s.items[i].Quantity++
		return s.items[i], nil
	}
	s.items = append(s.items, item)
	return item, nil
}

// AddCustomItem adds an ad-hoc entry under a freshly generated id.
func (s *Store) AddCustomItem(in CustomItemInput) (LineItem, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return LineItem{}, ErrMissingItemName
	}

	item := LineItem{
		ID:          s.newCustomID(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		UnitPrice:   in.Price,
		Quantity:    in.Quantity,
		Source:      SourceCustom,
	}
	if err := s.AddLineItem(item); err != nil {
		return LineItem{}, err
	}
	return item, nil
}

// RemoveLineItem drops the entry with the given id. Unknown ids are ignored.
func (s *Store) RemoveLineItem(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		s.items = slices.Delete(s.items, i, i+1)
	}
}

func (s *Store) SetQuantity(id string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrLineItemNotFound
	}
	s.items[i].Quantity = quantity
	return nil
}

// AddTag adds tag once. Blank tags and repeats are no-ops.
func (s *Store) AddTag(tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !slices.Contains(s.tags, tag) {
		s.tags = append(s.tags, tag)
	}
}

func (s *Store) RemoveTag(tag string) {
	tag = strings.TrimSpace(tag)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tags = slices.DeleteFunc(s.tags, func(t string) bool { return t == tag })
}

func (s *Store) SetCustomer(c Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.customer = &c
}

func (s *Store) ClearCustomer() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.customer = nil
}

func (s *Store) SetNotes(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notes = text
}

// SetCollectPaymentLater marks the order as payable after creation.
func (s *Store) SetCollectPaymentLater(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.collectPaymentLater = v
}

// Snapshot returns a deep copy of the current contents.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Items: slices.Clone(s.items),
		Tags:  slices.Clone(s.tags),
		Notes: s.notes,

		CollectPaymentLater: s.collectPaymentLater,
	}
	if snap.Items == nil {
		snap.Items = []LineItem{}
	}
	if snap.Tags == nil {
		snap.Tags = []string{}
	}
	if s.customer != nil {
		c := *s.customer
		snap.Customer = &c
	}
	return snap
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(it LineItem) bool { return it.ID == id })
}

func validateLineItem(item LineItem) error {
	switch {
	case strings.TrimSpace(item.ID) == "":
		return ErrMissingItemID
	case strings.TrimSpace(item.Name) == "":
		return ErrMissingItemName
	case item.Quantity < 1:
		return ErrInvalidQuantity
	case item.UnitPrice.IsNegative():
		return ErrNegativePrice
	}
	return nil
}

package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/origenapp/origen-core/internal/origen"
)

// writeThrough is the single mutation contract: gateway first, memory on
// success, then one sync signal. A gateway failure propagates unchanged
// and leaves every piece of local state exactly as it was.
func (s *Store) writeThrough(ctx context.Context, write func() error, apply func()) error {
	if err := write(); err != nil {
		return err
	}
	s.mu.Lock()
	apply()
	s.mu.Unlock()
	s.notifier.Publish(ctx)
	return nil
}

func (s *Store) AddProduct(ctx context.Context, p origen.Product) error {
	if p.CreationDate.IsZero() {
		p.CreationDate = time.Now().UTC()
	}
	return s.writeThrough(ctx,
		func() error { return s.gw.AddProduct(ctx, p) },
		func() { s.products = append(s.products, p) })
}

// RemoveProduct deletes unconditionally. Movements referencing the code
// stay in the ledger and keep answering stock queries; whether deletion
// should instead block on history is a product decision, not enforced
// here.
func (s *Store) RemoveProduct(ctx context.Context, code string) error {
	return s.writeThrough(ctx,
		func() error { return s.gw.DeleteProduct(ctx, code) },
		func() {
			kept := s.products[:0:0]
			for _, p := range s.products {
				if p.Code != code {
					kept = append(kept, p)
				}
			}
			s.products = kept
		})
}

// UpdateGlobalPrice reprices every product of a type. One gateway call,
// one full remap: the batch can never half-apply locally.
func (s *Store) UpdateGlobalPrice(ctx context.Context, t origen.ProductType, price float64) error {
	return s.writeThrough(ctx,
		func() error { return s.gw.UpdateProductPricesByType(ctx, t, price) },
		func() {
			for i, p := range s.products {
				if p.Type == t {
					s.products[i].Price = price
				}
			}
		})
}

func (s *Store) AddMovement(ctx context.Context, m origen.Movement) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Date.IsZero() {
		m.Date = time.Now().UTC()
	}
	return s.writeThrough(ctx,
		func() error { return s.gw.AddMovement(ctx, m) },
		func() { s.movements = append(s.movements, m) })
}

func (s *Store) AddBaptism(ctx context.Context, b origen.Baptism) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	if b.Pending == "" {
		b.Pending = origen.PendingYes
	}
	return s.writeThrough(ctx,
		func() error { return s.gw.AddBaptism(ctx, b) },
		func() { s.baptisms = append(s.baptisms, b) })
}

func (s *Store) EditBaptism(ctx context.Context, b origen.Baptism) error {
	return s.writeThrough(ctx,
		func() error { return s.gw.UpdateBaptism(ctx, b) },
		func() {
			for i, cur := range s.baptisms {
				if cur.ID == b.ID {
					s.baptisms[i] = b
				}
			}
		})
}

func (s *Store) RemoveBaptism(ctx context.Context, id string) error {
	return s.writeThrough(ctx,
		func() error { return s.gw.DeleteBaptism(ctx, id) },
		func() {
			kept := s.baptisms[:0:0]
			for _, b := range s.baptisms {
				if b.ID != id {
					kept = append(kept, b)
				}
			}
			s.baptisms = kept
		})
}

// UpdateBaptismStatus flips the pending flag. CompletedAt is set exactly
// when the record leaves pending and cleared when it reverts; the same
// rule applies to presentations. Unknown ids are a no-op.
func (s *Store) UpdateBaptismStatus(ctx context.Context, id string, status origen.PendingStatus) error {
	s.mu.RLock()
	var updated *origen.Baptism
	for _, b := range s.baptisms {
		if b.ID == id {
			c := b
			updated = &c
			break
		}
	}
	s.mu.RUnlock()
	if updated == nil {
		return nil
	}
	updated.Pending = status
	updated.CompletedAt = completionTime(status)
	return s.EditBaptism(ctx, *updated)
}

func (s *Store) AddPresentation(ctx context.Context, p origen.Presentation) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if p.Pending == "" {
		p.Pending = origen.PendingYes
	}
	return s.writeThrough(ctx,
		func() error { return s.gw.AddPresentation(ctx, p) },
		func() { s.presentations = append(s.presentations, p) })
}

func (s *Store) EditPresentation(ctx context.Context, p origen.Presentation) error {
	return s.writeThrough(ctx,
		func() error { return s.gw.UpdatePresentation(ctx, p) },
		func() {
			for i, cur := range s.presentations {
				if cur.ID == p.ID {
					s.presentations[i] = p
				}
			}
		})
}

func (s *Store) RemovePresentation(ctx context.Context, id string) error {
	return s.writeThrough(ctx,
		func() error { return s.gw.DeletePresentation(ctx, id) },
		func() {
			kept := s.presentations[:0:0]
			for _, p := range s.presentations {
				if p.ID != id {
					kept = append(kept, p)
				}
			}
			s.presentations = kept
		})
}

func (s *Store) UpdatePresentationStatus(ctx context.Context, id string, status origen.PendingStatus) error {
	s.mu.RLock()
	var updated *origen.Presentation
	for _, p := range s.presentations {
		if p.ID == id {
			c := p
			updated = &c
			break
		}
	}
	s.mu.RUnlock()
	if updated == nil {
		return nil
	}
	updated.Pending = status
	updated.CompletedAt = completionTime(status)
	return s.EditPresentation(ctx, *updated)
}

func (s *Store) AddLoan(ctx context.Context, l origen.Loan) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.LoanDate.IsZero() {
		l.LoanDate = time.Now().UTC()
	}
	if l.Status == "" {
		l.Status = origen.PendingYes
	}
	return s.writeThrough(ctx,
		func() error { return s.gw.AddLoan(ctx, l) },
		func() { s.loans = append(s.loans, l) })
}

// UpdateLoanStatus marks a loan returned or outstanding. ReturnDate is
// set only on the transition to returned and cleared when the loan goes
// back out. Unknown ids are a no-op.
func (s *Store) UpdateLoanStatus(ctx context.Context, id string, status origen.PendingStatus) error {
	s.mu.RLock()
	var updated *origen.Loan
	for _, l := range s.loans {
		if l.ID == id {
			c := l
			updated = &c
			break
		}
	}
	s.mu.RUnlock()
	if updated == nil {
		return nil
	}
	updated.Status = status
	updated.ReturnDate = completionTime(status)
	return s.writeThrough(ctx,
		func() error { return s.gw.UpdateLoan(ctx, *updated) },
		func() {
			for i, cur := range s.loans {
				if cur.ID == id {
					s.loans[i] = *updated
				}
			}
		})
}

func (s *Store) RemoveLoan(ctx context.Context, id string) error {
	return s.writeThrough(ctx,
		func() error { return s.gw.DeleteLoan(ctx, id) },
		func() {
			kept := s.loans[:0:0]
			for _, l := range s.loans {
				if l.ID != id {
					kept = append(kept, l)
				}
			}
			s.loans = kept
		})
}

func (s *Store) AddEvent(ctx context.Context, e origen.Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	return s.writeThrough(ctx,
		func() error { return s.gw.AddEvent(ctx, e) },
		func() { s.events = append(s.events, e) })
}

func (s *Store) EditEvent(ctx context.Context, e origen.Event) error {
	return s.writeThrough(ctx,
		func() error { return s.gw.UpdateEvent(ctx, e) },
		func() {
			for i, cur := range s.events {
				if cur.ID == e.ID {
					s.events[i].Name = e.Name
					s.events[i].Link = e.Link
				}
			}
		})
}

func (s *Store) RemoveEvent(ctx context.Context, id string) error {
	return s.writeThrough(ctx,
		func() error { return s.gw.DeleteEvent(ctx, id) },
		func() {
			kept := s.events[:0:0]
			for _, e := range s.events {
				if e.ID != id {
					kept = append(kept, e)
				}
			}
			s.events = kept
		})
}

// completionTime: now when the record leaves pending, nil when it goes
// back to pending.
func completionTime(status origen.PendingStatus) *time.Time {
	if status == origen.PendingNo {
		now := time.Now().UTC()
		return &now
	}
	return nil
}

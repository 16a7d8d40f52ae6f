// Package billing runs every billing event as one unit of work: receivable
// state, payment record and journal posting commit together or not at all.
package billing

import (
	"context"
	"time"

	"github.com/aashishkarki002/tenant-management-sub004/internal/accounts"
	"github.com/aashishkarki002/tenant-management-sub004/internal/journal"
	"github.com/aashishkarki002/tenant-management-sub004/internal/posting"
	"github.com/aashishkarki002/tenant-management-sub004/internal/store"
)

type ledgerPoster interface {
	PostJournalEntry(ctx context.Context, w posting.LedgerWriter, p journal.Payload) (*posting.Posted, error)
	Post(ctx context.Context, uow posting.UnitOfWork, p journal.Payload) (*posting.Posted, error)
}

type Service struct {
	store    store.Store
	poster   ledgerPoster
	registry *accounts.Registry
	requests *requestValidator
	now      func() time.Time
}

func NewService(st store.Store, poster ledgerPoster, registry *accounts.Registry) *Service {
	return &Service{
		store:    st,
		poster:   poster,
		registry: registry,
		requests: newRequestValidator(),
		now:      time.Now,
	}
}

// post records a journal that touches no receivable or payment state.
func (s *Service) post(ctx context.Context, p journal.Payload) (*posting.Posted, error) {
	return s.poster.Post(ctx, s.store, p)
}

func (s *Service) dateOr(t time.Time) time.Time {
	if t.IsZero() {
		return s.now().UTC()
	}
	return t
}

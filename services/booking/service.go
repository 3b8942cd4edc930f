package booking

import (
	"context"
	"errors"
	"time"

	catalogRepo "choreify/database/repository/catalog"
	"choreify/models"
	"choreify/services/pricing"
	"choreify/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Backend is the part of the REST backend a booking needs.
type Backend interface {
	GetProfile(ctx context.Context, token string) (*models.Profile, error)
	CreateChore(ctx context.Context, token string, chore models.Chore) (*models.ChoreReceipt, error)
}

// CheckoutRequest carries what a cart checkout needs beyond the cart items.
type CheckoutRequest struct {
	Address      *models.Address `json:"address,omitempty"`
	ScheduledFor *time.Time      `json:"scheduledFor,omitempty"`
	Notes        string          `json:"notes,omitempty"`
}

// Service runs the quote, cart and confirmation flow.
type Service struct {
	catalog catalogRepo.CatalogRepository
	store   Store
	backend Backend
	logger  *zap.Logger
	now     func() time.Time
}

func NewService(catalog catalogRepo.CatalogRepository, store Store, backend Backend, logger *zap.Logger) *Service {
	return &Service{
		catalog: catalog,
		store:   store,
		backend: backend,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *Service) lookupService(ctx context.Context, id string) (*models.Service, error) {
	svc, err := s.catalog.GetByID(ctx, id)
	if errors.Is(err, catalogRepo.ErrNotFound) {
		return nil, ErrServiceNotFound
	}
	return svc, err
}

// StartQuote prices a selection and opens a quote session for it.
func (s *Service) StartQuote(ctx context.Context, req models.QuoteRequest) (*models.QuoteSession, error) {
	svc, err := s.lookupService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	q := &models.QuoteSession{
		ID:        uuid.New().String(),
		ServiceID: svc.ID,
		CreatedAt: now,
	}
	s.reprice(q, svc, req.Selection, req.Details)

	if err := s.store.PutQuote(ctx, q, utils.QuoteTTL); err != nil {
		return nil, err
	}
	s.logger.Debug("Quote session started", zap.String("quoteID", q.ID), zap.String("serviceID", svc.ID))
	return q, nil
}

// UpdateQuote replaces the selection and details of a quote and reprices it.
// A non-empty ServiceID switches the quote to another service.
func (s *Service) UpdateQuote(ctx context.Context, id string, req models.QuoteRequest) (*models.QuoteSession, error) {
	q, err := s.GetQuote(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ServiceID != "" {
		q.ServiceID = req.ServiceID
	}
	svc, err := s.lookupService(ctx, q.ServiceID)
	if err != nil {
		return nil, err
	}

	s.reprice(q, svc, req.Selection, req.Details)
	if err := s.store.PutQuote(ctx, q, utils.QuoteTTL); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *Service) GetQuote(ctx context.Context, id string) (*models.QuoteSession, error) {
	q, err := s.store.GetQuote(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, ErrQuoteNotFound
	}
	return q, nil
}

func (s *Service) reprice(q *models.QuoteSession, svc *models.Service, sel models.OptionSelection, details models.BookingDetails) {
	q.Selection = sel
	q.Details = details
	q.Breakdown = pricing.CalculateServicePrice(svc, sel, details)
	q.Formatted = pricing.FormatAmount(q.Breakdown.Total, q.Breakdown.Currency)
	q.UpdatedAt = s.now()
}

// Confirm submits a quote as a chore for the signed-in user. The price is
// recomputed against the current catalog. The quote survives a failed
// submission so the user can retry.
func (s *Service) Confirm(ctx context.Context, session *models.Session, req models.ConfirmRequest) (*models.ChoreReceipt, error) {
	q, err := s.GetQuote(ctx, req.QuoteID)
	if err != nil {
		return nil, err
	}
	svc, err := s.lookupService(ctx, q.ServiceID)
	if err != nil {
		return nil, err
	}
	addr, err := s.resolveAddress(ctx, session, req.Address)
	if err != nil {
		return nil, err
	}

	chore := newChore(svc, q.Selection, q.Details, addr)
	chore.ScheduledFor = req.ScheduledFor
	chore.Notes = req.Notes

	receipt, err := s.backend.CreateChore(ctx, session.AccessToken, chore)
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteQuote(ctx, q.ID); err != nil {
		s.logger.Warn("Failed to delete confirmed quote", zap.String("quoteID", q.ID), zap.Error(err))
	}
	s.logger.Info("Chore submitted",
		zap.String("choreID", receipt.ID),
		zap.String("serviceID", svc.ID),
		zap.String("userID", session.User.ID))
	return receipt, nil
}

// resolveAddress prefers an explicit address and falls back to the profile.
func (s *Service) resolveAddress(ctx context.Context, session *models.Session, explicit *models.Address) (models.Address, error) {
	if explicit != nil && explicit.Complete() {
		return *explicit, nil
	}
	profile := session.Profile
	if profile == nil {
		p, err := s.backend.GetProfile(ctx, session.AccessToken)
		if err != nil {
			return models.Address{}, err
		}
		profile = p
	}
	addr := profile.Address()
	if !addr.Complete() {
		return models.Address{}, ErrAddressRequired
	}
	return addr, nil
}

func newChore(svc *models.Service, sel models.OptionSelection, details models.BookingDetails, addr models.Address) models.Chore {
	chore := models.Chore{
		ServiceID:   svc.ID,
		ServiceName: svc.Name,
		Details:     details,
		Address:     addr,
		Price:       pricing.CalculateServicePrice(svc, sel, details),
	}
	if opt := pricing.FindOption(svc.Options, sel); opt != nil {
		chore.Option = opt.Name
	}
	return chore
}

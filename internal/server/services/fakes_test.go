package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/travelapp/internal/common"
	"github.com/dmitrijs2005/travelapp/internal/dbx"
	"github.com/dmitrijs2005/travelapp/internal/server/models"
	"github.com/dmitrijs2005/travelapp/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/travelapp/internal/server/repositories/bookings"
	"github.com/dmitrijs2005/travelapp/internal/server/repositories/listings"
	"github.com/dmitrijs2005/travelapp/internal/server/repositories/payments"
	"github.com/dmitrijs2005/travelapp/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/travelapp/internal/server/repositories/reviews"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory backing for every repository. The fake
// repositories are views over it so joins (booking details) work.
type memStore struct {
	mu       sync.Mutex
	seq      int
	accounts map[string]*models.Account
	tokens   map[string]*models.RefreshToken
	listings map[string]*models.Listing
	bookings map[string]*models.Booking
	payments map[string]*models.Payment
	reviews  map[string]*models.Review

	// calls counts mutating calls per "repo.Method".
	calls map[string]int
}

func newMemStore() *memStore {
	return &memStore{
		accounts: map[string]*models.Account{},
		tokens:   map[string]*models.RefreshToken{},
		listings: map[string]*models.Listing{},
		bookings: map[string]*models.Booking{},
		payments: map[string]*models.Payment{},
		reviews:  map[string]*models.Review{},
		calls:    map[string]int{},
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memStore) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

type fakeRepoManager struct{ s *memStore }

func (f *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (f *fakeRepoManager) Accounts(dbx.DBTX) accounts.Repository         { return memAccounts{f.s} }
func (f *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository {
	return memTokens{f.s}
}
func (f *fakeRepoManager) Listings(dbx.DBTX) listings.Repository { return memListings{f.s} }
func (f *fakeRepoManager) Bookings(dbx.DBTX) bookings.Repository { return memBookings{f.s} }
func (f *fakeRepoManager) Payments(dbx.DBTX) payments.Repository { return memPayments{f.s} }
func (f *fakeRepoManager) Reviews(dbx.DBTX) reviews.Repository   { return memReviews{f.s} }

// --- accounts ---

type memAccounts struct{ s *memStore }

func (r memAccounts) Create(_ context.Context, a *models.Account) (*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.accounts {
		if x.Email == a.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	a.ID = r.s.nextID("acc")
	a.CreatedAt = time.Now()
	cp := *a
	r.s.accounts[a.ID] = &cp
	return a, nil
}

func (r memAccounts) GetByID(_ context.Context, id string) (*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *a
	return &cp, nil
}

func (r memAccounts) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.accounts {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memAccounts) List(context.Context) ([]*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Account, 0, len(r.s.accounts))
	for _, a := range r.s.accounts {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memAccounts) Update(_ context.Context, a *models.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.accounts[a.ID]; !ok {
		return common.ErrorNotFound
	}
	cp := *a
	r.s.accounts[a.ID] = &cp
	return nil
}

func (r memAccounts) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.accounts[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.accounts, id)
	return nil
}

// --- refresh tokens ---

type memTokens struct{ s *memStore }

func (r memTokens) Create(_ context.Context, accountID, token string, validity time.Duration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.tokens[token] = &models.RefreshToken{AccountID: accountID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (r memTokens) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *t
	return &cp, nil
}

func (r memTokens) Delete(_ context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.tokens, token)
	return nil
}

func (r memTokens) DeleteForAccount(_ context.Context, accountID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for k, t := range r.s.tokens {
		if t.AccountID == accountID {
			delete(r.s.tokens, k)
		}
	}
	return nil
}

// --- listings ---

type memListings struct{ s *memStore }

func (r memListings) Create(_ context.Context, l *models.Listing) (*models.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.accounts[l.HostID]; !ok {
		return nil, common.ValidationError("host does not exist")
	}
	l.ID = r.s.nextID("lst")
	l.CreatedAt = time.Now()
	cp := *l
	r.s.listings[l.ID] = &cp
	return l, nil
}

func (r memListings) GetByID(_ context.Context, id string) (*models.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.listings[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *l
	return &cp, nil
}

func (r memListings) List(_ context.Context, f listings.Filter) ([]*models.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Listing, 0)
	for _, l := range r.s.listings {
		if f.HostID != "" && l.HostID != f.HostID {
			continue
		}
		if f.AvailableOnly && !l.Available {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

func (r memListings) Update(_ context.Context, l *models.Listing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.listings[l.ID]; !ok {
		return common.ErrorNotFound
	}
	cp := *l
	r.s.listings[l.ID] = &cp
	return nil
}

func (r memListings) SetPhotoKey(_ context.Context, id, key string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.listings[id]
	if !ok {
		return common.ErrorNotFound
	}
	l.PhotoKey = key
	return nil
}

func (r memListings) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.listings[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.listings, id)
	return nil
}

// --- bookings ---

type memBookings struct{ s *memStore }

func (r memBookings) Create(_ context.Context, b *models.Booking) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.calls["bookings.Create"]++
	if _, ok := r.s.listings[b.ListingID]; !ok {
		return nil, common.ErrorNotFound
	}
	b.ID = r.s.nextID("bkg")
	b.CreatedAt = time.Now()
	cp := *b
	r.s.bookings[b.ID] = &cp
	return b, nil
}

func (r memBookings) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *b
	return &cp, nil
}

func (r memBookings) details(b *models.Booking) *models.BookingDetails {
	d := &models.BookingDetails{Booking: *b}
	if l, ok := r.s.listings[b.ListingID]; ok {
		d.ListingTitle = l.Title
		d.PricePerNight = l.PricePerNight
	}
	if a, ok := r.s.accounts[b.GuestID]; ok {
		d.GuestEmail = a.Email
	}
	return d
}

func (r memBookings) GetDetails(_ context.Context, id string) (*models.BookingDetails, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.details(b), nil
}

func (r memBookings) List(_ context.Context, guestID string) ([]*models.BookingDetails, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.BookingDetails, 0)
	for _, b := range r.s.bookings {
		if guestID == "" || b.GuestID == guestID {
			out = append(out, r.details(b))
		}
	}
	return out, nil
}

func (r memBookings) Update(_ context.Context, b *models.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.bookings[b.ID]; !ok {
		return common.ErrorNotFound
	}
	cp := *b
	r.s.bookings[b.ID] = &cp
	return nil
}

func (r memBookings) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.bookings[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.bookings, id)
	return nil
}

// --- payments ---

type memPayments struct{ s *memStore }

func (r memPayments) Create(_ context.Context, p *models.Payment) (*models.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.calls["payments.Create"]++
	for _, x := range r.s.payments {
		if x.BookingID == p.BookingID || x.TxRef == p.TxRef {
			return nil, common.ErrorAlreadyExists
		}
	}
	p.ID = r.s.nextID("pay")
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	r.s.payments[p.ID] = &cp
	return p, nil
}

func (r memPayments) find(match func(*models.Payment) bool) (*models.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.payments {
		if match(p) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memPayments) GetByID(_ context.Context, id string) (*models.Payment, error) {
	return r.find(func(p *models.Payment) bool { return p.ID == id })
}

func (r memPayments) GetByTxRef(_ context.Context, txRef string) (*models.Payment, error) {
	return r.find(func(p *models.Payment) bool { return p.TxRef == txRef })
}

func (r memPayments) GetByBookingID(_ context.Context, bookingID string) (*models.Payment, error) {
	return r.find(func(p *models.Payment) bool { return p.BookingID == bookingID })
}

func (r memPayments) List(context.Context) ([]*models.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Payment, 0)
	for _, p := range r.s.payments {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r memPayments) ApplyVerification(_ context.Context, txRef string, v payments.Verification) (*models.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.calls["payments.ApplyVerification"]++
	for _, p := range r.s.payments {
		if p.TxRef == txRef {
			p.Status = v.Status
			if v.ProviderTxID != "" {
				id := v.ProviderTxID
				p.ProviderTxID = &id
			} else {
				p.ProviderTxID = nil
			}
			p.ResponseLog = v.ResponseLog
			p.UpdatedAt = time.Now()
			cp := *p
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memPayments) Update(_ context.Context, id string, status models.PaymentStatus, amount decimal.Decimal) (*models.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	p.Status = status
	p.Amount = amount
	cp := *p
	return &cp, nil
}

func (r memPayments) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.payments[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.payments, id)
	return nil
}

// --- reviews ---

type memReviews struct{ s *memStore }

func (r memReviews) Create(_ context.Context, rv *models.Review) (*models.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rv.ID = r.s.nextID("rev")
	rv.CreatedAt = time.Now()
	cp := *rv
	r.s.reviews[rv.ID] = &cp
	return rv, nil
}

func (r memReviews) GetByID(_ context.Context, id string) (*models.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rv, ok := r.s.reviews[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *rv
	return &cp, nil
}

func (r memReviews) List(_ context.Context, listingID string) ([]*models.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Review, 0)
	for _, rv := range r.s.reviews {
		if listingID == "" || rv.ListingID == listingID {
			cp := *rv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r memReviews) Update(_ context.Context, rv *models.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reviews[rv.ID]; !ok {
		return common.ErrorNotFound
	}
	cp := *rv
	r.s.reviews[rv.ID] = &cp
	return nil
}

func (r memReviews) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reviews[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.reviews, id)
	return nil
}

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func seedAccount(t *testing.T, s *memStore, email string, role models.Role) *Actor {
	t.Helper()
	a, err := memAccounts{s}.Create(context.Background(), &models.Account{
		Email: email, FirstName: "F", LastName: "L", PhoneNumber: "0911000000", Role: role, IsActive: true,
	})
	require.NoError(t, err)
	return &Actor{ID: a.ID, Role: role}
}

func seedListing(t *testing.T, s *memStore, host *Actor, price string) *models.Listing {
	t.Helper()
	l, err := memListings{s}.Create(context.Background(), &models.Listing{
		HostID: host.ID, Title: "Urban Loft", Location: "Addis Ababa",
		PricePerNight: decimal.RequireFromString(price), Available: true,
	})
	require.NoError(t, err)
	return l
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(models.DateLayout, s)
	require.NoError(t, err)
	return d
}

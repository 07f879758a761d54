package httpapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/travelapp/internal/common"
	"github.com/dmitrijs2005/travelapp/internal/logging"
	"github.com/dmitrijs2005/travelapp/internal/server/auth"
	"github.com/dmitrijs2005/travelapp/internal/server/models"
	"github.com/dmitrijs2005/travelapp/internal/server/repositories/listings"
	"github.com/dmitrijs2005/travelapp/internal/server/services"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

// issuedRoles is the stored role of every account tokenFor signed for.
var issuedRoles sync.Map

type fakeAccounts struct {
	resolve  func(id string) (*services.Actor, error)
	register func(actor *services.Actor, in services.RegisterInput) (*models.Account, error)
	list     func(actor *services.Actor) ([]*models.Account, error)
	login    func(email, password string) (*services.TokenPair, error)
}

func (f *fakeAccounts) Register(_ context.Context, actor *services.Actor, in services.RegisterInput) (*models.Account, error) {
	return f.register(actor, in)
}
func (f *fakeAccounts) List(_ context.Context, actor *services.Actor) ([]*models.Account, error) {
	return f.list(actor)
}
func (f *fakeAccounts) Get(context.Context, *services.Actor, string) (*models.Account, error) {
	return nil, common.ErrorNotFound
}
func (f *fakeAccounts) Update(context.Context, *services.Actor, string, services.AccountUpdate) (*models.Account, error) {
	return nil, common.ErrorNotFound
}
func (f *fakeAccounts) Delete(context.Context, *services.Actor, string) error {
	return common.ErrorForbidden
}
func (f *fakeAccounts) Login(_ context.Context, email, password string) (*services.TokenPair, error) {
	return f.login(email, password)
}
func (f *fakeAccounts) RefreshToken(context.Context, string) (*services.TokenPair, error) {
	return nil, common.ErrRefreshTokenExpired
}
func (f *fakeAccounts) ResolveActor(_ context.Context, id string) (*services.Actor, error) {
	if f.resolve != nil {
		return f.resolve(id)
	}
	role, ok := issuedRoles.Load(id)
	if !ok {
		return nil, common.ErrorUnauthorized
	}
	return &services.Actor{ID: id, Role: role.(models.Role)}, nil
}

type fakeListings struct {
	lastFilter listings.Filter
	items      []*models.Listing
}

func (f *fakeListings) Create(_ context.Context, actor *services.Actor, in services.ListingInput) (*models.Listing, error) {
	if !actor.CanHost() {
		return nil, common.ErrorForbidden
	}
	return &models.Listing{ID: "l-new", HostID: actor.ID, Title: in.Title, PricePerNight: in.PricePerNight, Available: true}, nil
}
func (f *fakeListings) List(_ context.Context, filter listings.Filter) ([]*models.Listing, error) {
	f.lastFilter = filter
	return f.items, nil
}
func (f *fakeListings) Get(_ context.Context, id string) (*models.Listing, error) {
	for _, l := range f.items {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, common.ErrorNotFound
}
func (f *fakeListings) Update(context.Context, *services.Actor, string, services.ListingUpdate) (*models.Listing, error) {
	return nil, common.ErrorNotFound
}
func (f *fakeListings) Delete(context.Context, *services.Actor, string) error { return nil }
func (f *fakeListings) PhotoUploadURL(_ context.Context, _ *services.Actor, id string) (*services.PhotoUpload, error) {
	return &services.PhotoUpload{Key: "listings/" + id + "/photo", URL: "https://s3.example/put"}, nil
}
func (f *fakeListings) PhotoURL(context.Context, string) (string, error) {
	return "https://s3.example/get", nil
}

type fakeBookings struct {
	lastInput services.BookingInput
	create    func(actor *services.Actor, in services.BookingInput) (*models.BookingDetails, error)
}

func (f *fakeBookings) Create(_ context.Context, actor *services.Actor, in services.BookingInput) (*models.BookingDetails, error) {
	f.lastInput = in
	return f.create(actor, in)
}
func (f *fakeBookings) List(context.Context, *services.Actor) ([]*models.BookingDetails, error) {
	return nil, nil
}
func (f *fakeBookings) Get(context.Context, *services.Actor, string) (*models.BookingDetails, error) {
	return nil, common.ErrorNotFound
}
func (f *fakeBookings) Update(context.Context, *services.Actor, string, services.BookingUpdate) (*models.BookingDetails, error) {
	return nil, common.ErrorNotFound
}
func (f *fakeBookings) Delete(context.Context, *services.Actor, string) error { return nil }

type fakePayments struct {
	initiate func(actor *services.Actor, bookingID, phone string) (*services.InitiateResult, error)
	verify   func(txRef string) (*models.Payment, error)
}

func (f *fakePayments) Initiate(_ context.Context, actor *services.Actor, bookingID, phone string) (*services.InitiateResult, error) {
	return f.initiate(actor, bookingID, phone)
}
func (f *fakePayments) Verify(_ context.Context, txRef string) (*models.Payment, error) {
	return f.verify(txRef)
}
func (f *fakePayments) List(_ context.Context, actor *services.Actor) ([]*models.Payment, error) {
	if !actor.IsAdmin() {
		return nil, common.ErrorForbidden
	}
	return []*models.Payment{}, nil
}
func (f *fakePayments) Get(context.Context, *services.Actor, string) (*models.Payment, error) {
	return nil, common.ErrorNotFound
}
func (f *fakePayments) Update(context.Context, *services.Actor, string, services.PaymentUpdate) (*models.Payment, error) {
	return nil, common.ErrorNotFound
}
func (f *fakePayments) Delete(context.Context, *services.Actor, string) error { return nil }

type fakeReviews struct{}

func (fakeReviews) Create(_ context.Context, actor *services.Actor, listingID string, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, common.ValidationError("rating must be between 1 and 5")
	}
	return &models.Review{ID: "r1", ListingID: listingID, UserID: actor.ID, Rating: rating, Comment: comment}, nil
}
func (fakeReviews) List(context.Context, string) ([]*models.Review, error) { return nil, nil }
func (fakeReviews) Get(context.Context, string) (*models.Review, error) {
	return nil, common.ErrorNotFound
}
func (fakeReviews) Update(context.Context, *services.Actor, string, *int, *string) (*models.Review, error) {
	return nil, common.ErrorNotFound
}
func (fakeReviews) Delete(context.Context, *services.Actor, string) error { return nil }

type fixture struct {
	accounts *fakeAccounts
	listings *fakeListings
	bookings *fakeBookings
	payments *fakePayments
	handler  http.Handler
}

func newFixture() *fixture {
	f := &fixture{
		accounts: &fakeAccounts{},
		listings: &fakeListings{},
		bookings: &fakeBookings{},
		payments: &fakePayments{},
	}
	f.handler = NewRouter(Services{
		Accounts: f.accounts,
		Listings: f.listings,
		Bookings: f.bookings,
		Payments: f.payments,
		Reviews:  fakeReviews{},
	}, testSecret, logging.NewNopLogger())
	return f
}

func tokenFor(t *testing.T, id string, role models.Role) string {
	t.Helper()
	tok, err := auth.GenerateToken(id, role, testSecret, time.Minute)
	require.NoError(t, err)
	issuedRoles.Store(id, role)
	return tok
}

func (f *fixture) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

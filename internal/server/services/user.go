package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/travelapp/internal/common"
	"github.com/dmitrijs2005/travelapp/internal/dbx"
	"github.com/dmitrijs2005/travelapp/internal/server/auth"
	"github.com/dmitrijs2005/travelapp/internal/server/config"
	"github.com/dmitrijs2005/travelapp/internal/server/models"
	"github.com/dmitrijs2005/travelapp/internal/server/repositories/repomanager"
)

const minPasswordLength = 8

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type RegisterInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
	Role        models.Role
}

// AccountUpdate is a partial update; nil fields are left as they are.
type AccountUpdate struct {
	FirstName   *string
	LastName    *string
	PhoneNumber *string
	Password    *string
	Role        *models.Role
	IsActive    *bool
}

// AccountService handles the account directory and authentication:
// registration, login and issuing/refreshing JWTs plus server-stored
// refresh tokens.
type AccountService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AccountService {
	return &AccountService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// NormalizeEmail trims the address and lower-cases its domain part.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}

// Register creates an account. Only an admin caller may pick a role other
// than guest; actor may be nil for self-registration.
func (s *AccountService) Register(ctx context.Context, actor *Actor, in RegisterInput) (*models.Account, error) {
	email := NormalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, common.ValidationError("enter a valid email address")
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, common.ValidationError("first_name and last_name are required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, common.ValidationError("password must be at least %d characters", minPasswordLength)
	}

	role := models.RoleGuest
	if actor.IsAdmin() && in.Role != "" {
		if !in.Role.Valid() {
			return nil, common.ValidationError("unknown role %q", in.Role)
		}
		role = in.Role
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	account := &models.Account{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
		Role:         role,
		IsActive:     true,
	}

	a, err := s.repomanager.Accounts(s.db).Create(ctx, account)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, fmt.Errorf("account with email %s: %w", email, common.ErrorAlreadyExists)
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}
	return a, nil
}

func (s *AccountService) List(ctx context.Context, actor *Actor) ([]*models.Account, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, common.ErrorForbidden
	}
	return s.repomanager.Accounts(s.db).List(ctx)
}

// Get returns the caller's own account, or any account for admins.
func (s *AccountService) Get(ctx context.Context, actor *Actor, id string) (*models.Account, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !actor.owns(id) {
		return nil, common.ErrorForbidden
	}
	return s.repomanager.Accounts(s.db).GetByID(ctx, id)
}

// Update applies in to the account. Role and activity changes need an admin.
func (s *AccountService) Update(ctx context.Context, actor *Actor, id string, in AccountUpdate) (*models.Account, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !actor.owns(id) {
		return nil, common.ErrorForbidden
	}
	if (in.Role != nil || in.IsActive != nil) && !actor.IsAdmin() {
		return nil, common.ErrorForbidden
	}

	repo := s.repomanager.Accounts(s.db)
	a, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		a.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		a.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.PhoneNumber != nil {
		a.PhoneNumber = strings.TrimSpace(*in.PhoneNumber)
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, common.ValidationError("unknown role %q", *in.Role)
		}
		a.Role = *in.Role
	}
	if in.IsActive != nil {
		a.IsActive = *in.IsActive
	}
	if in.Password != nil {
		if len(*in.Password) < minPasswordLength {
			return nil, common.ValidationError("password must be at least %d characters", minPasswordLength)
		}
		if a.PasswordHash, err = auth.HashPassword(*in.Password); err != nil {
			return nil, common.ErrorInternal
		}
	}
	if a.FirstName == "" || a.LastName == "" {
		return nil, common.ValidationError("first_name and last_name are required")
	}

	if err := repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AccountService) Delete(ctx context.Context, actor *Actor, id string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return common.ErrorForbidden
	}
	return s.repomanager.Accounts(s.db).Delete(ctx, id)
}

// Login verifies email and password and, on success, returns a new TokenPair.
// Unknown emails, wrong passwords and inactive accounts are all
// ErrorUnauthorized.
func (s *AccountService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	a, err := s.repomanager.Accounts(s.db).GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	ok, err := auth.CheckPassword(a.PasswordHash, password)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if !ok || !a.IsActive {
		return nil, common.ErrorUnauthorized
	}
	return s.generateTokenPair(ctx, a, s.db)
}

// ResolveActor loads the current role of the account behind an access token.
// Tokens outlive role changes and deactivation; the stored account wins.
func (s *AccountService) ResolveActor(ctx context.Context, id string) (*Actor, error) {
	a, err := s.repomanager.Accounts(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}
	if !a.IsActive {
		return nil, common.ErrorUnauthorized
	}
	return &Actor{ID: a.ID, Role: a.Role}, nil
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *AccountService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	token, err := s.repomanager.RefreshTokens(s.db).Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	account, err := s.repomanager.Accounts(s.db).GetByID(ctx, token.AccountID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if !account.IsActive {
		return nil, common.ErrorUnauthorized
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, account, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// EnsureAdmin creates the bootstrap admin unless an account with the email
// already exists. created is false in that case.
func (s *AccountService) EnsureAdmin(ctx context.Context, in RegisterInput) (created bool, err error) {
	email := NormalizeEmail(in.Email)
	if email == "" {
		return false, common.ValidationError("admin email is not configured")
	}

	_, err = s.repomanager.Accounts(s.db).GetByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return false, err
	}

	in.Role = models.RoleAdmin
	if _, err := s.Register(ctx, &Actor{Role: models.RoleAdmin}, in); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *AccountService) generateTokenPair(ctx context.Context, a *models.Account, db dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(a.ID, a.Role, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.repomanager.RefreshTokens(db).Create(ctx, a.ID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"foodrunner-api/apperror"
	"foodrunner-api/logger"
	"foodrunner-api/models"
	"foodrunner-api/policy"
	"foodrunner-api/store"
	"foodrunner-api/uploads"
)

const (
	minPasswordLength = 6
	// bcrypt refuses longer inputs.
	maxPasswordBytes = 72
)

var validate = validator.New()

type TokenIssuer interface {
	Issue(u *models.User) (string, error)
}

type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
}

type AuthService struct {
	users    store.Users
	hasher   *PasswordHasher
	tokens   TokenIssuer
	revoker  TokenRevoker
	uploader uploads.Uploader
	log      *logger.Logger
	now      func() time.Time
}

// NewAuthService wires the auth workflow. revoker may be nil, in which case
// logout cannot invalidate issued tokens.
func NewAuthService(users store.Users, hasher *PasswordHasher, tokens TokenIssuer, revoker TokenRevoker, uploader uploads.Uploader, log *logger.Logger) *AuthService {
	if uploader == nil {
		uploader = uploads.Disabled{}
	}
	return &AuthService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		revoker:  revoker,
		uploader: uploader,
		log:      log,
		now:      time.Now,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     models.UserRole
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validate.Var(email, "required,email"); err != nil {
		return "", apperror.InvalidInput("Please add a valid email")
	}
	return email, nil
}

// Register creates a customer or restaurant account and signs the caller in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, "", apperror.InvalidInput("Please add a name")
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, "", err
	}
	if err := checkPassword(in.Password); err != nil {
		return nil, "", err
	}
	role := in.Role
	if role == "" {
		role = models.RoleCustomer
	}
	if role != models.RoleCustomer && role != models.RoleRestaurant {
		return nil, "", apperror.InvalidInput("Invalid role. Must be: customer or restaurant")
	}

	if _, err := s.users.UserByEmail(ctx, email); err == nil {
		return nil, "", apperror.Conflict("Email already registered")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, "", storeErr(err, "")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, "", apperror.Wrap(err, "failed to hash password")
	}

	user := &models.User{
		Name:                       name,
		Email:                      email,
		Phone:                      strings.TrimSpace(in.Phone),
		PasswordHash:               hash,
		Role:                       role,
		Addresses:                  []models.UserAddress{},
		DocumentVerificationStatus: models.VerificationNotSubmitted,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, "", apperror.Conflict("Email already registered")
		}
		return nil, "", storeErr(err, "")
	}

	s.log.Info("user_registered", "", "User registered",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)
	return s.withToken(user)
}

// Login verifies credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", apperror.InvalidInput("Please provide an email and password")
	}

	user, err := s.users.UserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, "", apperror.Unauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, "", storeErr(err, "")
	}

	ok, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		s.log.Warn("password_verify_failed", "", err.Error(), slog.String("user_id", user.ID))
	}
	if !ok {
		return nil, "", apperror.Unauthorized("Invalid credentials")
	}
	return s.withToken(user)
}

func (s *AuthService) withToken(user *models.User) (*models.User, string, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", apperror.Wrap(err, "failed to generate token")
	}
	return user, token, nil
}

// Logout revokes the token identified by jti until it would have expired.
func (s *AuthService) Logout(ctx context.Context, jti string, until time.Time) error {
	if s.revoker == nil || jti == "" {
		return nil
	}
	if err := s.revoker.Revoke(ctx, jti, until); err != nil {
		return apperror.Wrap(err, "failed to revoke token")
	}
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.UserByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "User not found")
	}
	return user, nil
}

type DetailsInput struct {
	Name      *string
	Email     *string
	Phone     *string
	Addresses []models.UserAddress
}

func (s *AuthService) UpdateDetails(ctx context.Context, userID string, in DetailsInput) (*models.User, error) {
	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperror.InvalidInput("Name cannot be empty")
		}
		user.Name = name
	}
	if in.Email != nil {
		email, err := normalizeEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		if email != user.Email {
			if _, err := s.users.UserByEmail(ctx, email); err == nil {
				return nil, apperror.Conflict("Email already registered")
			}
			user.Email = email
		}
	}
	if in.Phone != nil {
		user.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Addresses != nil {
		defaults := 0
		for _, a := range in.Addresses {
			if a.AddressLine1 == "" || a.City == "" {
				return nil, apperror.InvalidInput("Each address needs address_line1 and city")
			}
			if a.IsDefault {
				defaults++
			}
		}
		if defaults > 1 {
			return nil, apperror.InvalidInput("Only one address can be the default")
		}
		user.Addresses = in.Addresses
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, storeErr(err, "User not found")
	}
	return user, nil
}

func checkPassword(password string) error {
	if len(password) < minPasswordLength {
		return apperror.InvalidInput(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}
	if len(password) > maxPasswordBytes {
		return apperror.InvalidInput(fmt.Sprintf("Password must be at most %d bytes", maxPasswordBytes))
	}
	return nil
}

// UpdatePassword checks the current password and returns a fresh token.
func (s *AuthService) UpdatePassword(ctx context.Context, userID, current, next string) (*models.User, string, error) {
	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if ok, _ := s.hasher.Verify(user.PasswordHash, current); !ok {
		return nil, "", apperror.Unauthorized("Password is incorrect")
	}
	if err := checkPassword(next); err != nil {
		return nil, "", err
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return nil, "", apperror.Wrap(err, "failed to hash password")
	}
	user.PasswordHash = hash
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, "", storeErr(err, "User not found")
	}
	return s.withToken(user)
}

// UploadDocument stores a verification document for a restaurant user and
// puts the account back into review.
func (s *AuthService) UploadDocument(ctx context.Context, p policy.Principal, kind models.DocumentKind, file io.Reader) (*models.User, error) {
	if !kind.Valid() {
		return nil, apperror.InvalidInput("Unknown document type " + string(kind))
	}
	if err := policy.Authorize(p, policy.UploadDocuments, policy.Resource{UserID: p.UserID}); err != nil {
		return nil, err
	}
	user, err := s.Me(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	url, err := s.uploader.Upload(ctx, file, "documents/"+user.ID, string(kind))
	if errors.Is(err, uploads.ErrNotConfigured) {
		return nil, apperror.Unavailable("Document uploads are not available")
	}
	if err != nil {
		return nil, apperror.Wrap(err, "failed to upload document")
	}

	uploadedAt := s.now().UTC()
	user.Documents.Set(kind, &models.Document{URL: url, UploadedAt: &uploadedAt})
	user.DocumentVerificationStatus = models.VerificationPending
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, storeErr(err, "User not found")
	}
	return user, nil
}

// SetVerification records an admin's review of a user's documents.
func (s *AuthService) SetVerification(ctx context.Context, p policy.Principal, userID string, status models.VerificationStatus) (*models.User, error) {
	if err := policy.Authorize(p, policy.VerifyDocuments, policy.Resource{UserID: userID}); err != nil {
		return nil, err
	}
	if status != models.VerificationVerified && status != models.VerificationRejected {
		return nil, apperror.InvalidInput("Status must be verified or rejected")
	}
	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.DocumentVerificationStatus == models.VerificationNotSubmitted {
		return nil, apperror.Unprocessable("User has not submitted any documents")
	}

	user.DocumentVerificationStatus = status
	user.Documents.MarkVerified(status == models.VerificationVerified)
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, storeErr(err, "User not found")
	}
	return user, nil
}

// EnsureAdmin creates the bootstrap admin account if it does not exist yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.users.UserByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	admin := &models.User{
		Name:                       "Administrator",
		Email:                      email,
		PasswordHash:               hash,
		Role:                       models.RoleAdmin,
		Addresses:                  []models.UserAddress{},
		DocumentVerificationStatus: models.VerificationNotSubmitted,
	}
	if err := s.users.CreateUser(ctx, admin); err != nil {
		return err
	}
	s.log.Info("admin_created", "", "Bootstrap admin account created", slog.String("email", email))
	return nil
}

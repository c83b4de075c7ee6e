package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodrunner-api/apperror"
	"foodrunner-api/config"
	"foodrunner-api/logger"
	"foodrunner-api/models"
	"foodrunner-api/policy"
	"foodrunner-api/store/gormstore"
)

type stubTokens struct{ issued int }

func (s *stubTokens) Issue(u *models.User) (string, error) {
	s.issued++
	return "token-for-" + u.ID, nil
}

type stubRevoker struct{ revoked map[string]time.Time }

func (s *stubRevoker) Revoke(_ context.Context, jti string, until time.Time) error {
	s.revoked[jti] = until
	return nil
}

type stubUploader struct {
	folder, publicID string
	content          string
	err              error
}

func (s *stubUploader) Upload(_ context.Context, file io.Reader, folder, publicID string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	b, _ := io.ReadAll(file)
	s.folder, s.publicID, s.content = folder, publicID, string(b)
	return "https://res.cloudinary.com/demo/" + folder + "/" + publicID, nil
}

func newAuth(t *testing.T, scheme string) (*AuthService, *stubRevoker, *stubUploader) {
	t.Helper()
	db, err := config.OpenSQLite("file::memory:")
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	st := gormstore.New(db)
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	revoker := &stubRevoker{revoked: map[string]time.Time{}}
	uploader := &stubUploader{}
	svc := NewAuthService(st, NewPasswordHasher(scheme), &stubTokens{}, revoker, uploader, logger.Discard())
	return svc, revoker, uploader
}

func TestPasswordHasher_DetectsScheme(t *testing.T) {
	bcryptHash, err := NewPasswordHasher("bcrypt").Hash("s3cret!")
	require.NoError(t, err)
	argonHash, err := NewPasswordHasher("argon2").Hash("s3cret!")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(argonHash, "$argon2"))

	// either hasher verifies both schemes
	h := NewPasswordHasher("bcrypt")
	for _, hash := range []string{bcryptHash, argonHash} {
		ok, err := h.Verify(hash, "s3cret!")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, _ = h.Verify(hash, "wrong")
		assert.False(t, ok)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	for _, scheme := range []string{"bcrypt", "argon2"} {
		t.Run(scheme, func(t *testing.T) {
			svc, _, _ := newAuth(t, scheme)
			ctx := context.Background()

			u, token, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: " Ada@Example.com ", Password: "hunter22"})
			require.NoError(t, err)
			assert.Equal(t, "ada@example.com", u.Email)
			assert.Equal(t, models.RoleCustomer, u.Role)
			assert.Equal(t, "token-for-"+u.ID, token)
			assert.NotEqual(t, "hunter22", u.PasswordHash)

			_, _, err = svc.Register(ctx, RegisterInput{Name: "Ada 2", Email: "ada@example.com", Password: "hunter22"})
			assert.True(t, apperror.Is(err, apperror.KindConflict))

			logged, _, err := svc.Login(ctx, "ADA@example.com", "hunter22")
			require.NoError(t, err)
			assert.Equal(t, u.ID, logged.ID)

			_, _, err = svc.Login(ctx, "ada@example.com", "wrong")
			assert.True(t, apperror.Is(err, apperror.KindUnauthorized))
			_, _, err = svc.Login(ctx, "nobody@example.com", "hunter22")
			assert.True(t, apperror.Is(err, apperror.KindUnauthorized))
		})
	}
}

func TestRegister_Rejects(t *testing.T) {
	svc, _, _ := newAuth(t, "bcrypt")

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{"no name", RegisterInput{Email: "a@b.co", Password: "123456"}},
		{"bad email", RegisterInput{Name: "A", Email: "not-mail", Password: "123456"}},
		{"short password", RegisterInput{Name: "A", Email: "a@b.co", Password: "123"}},
		{"password over bcrypt limit", RegisterInput{Name: "A", Email: "a@b.co", Password: strings.Repeat("a", 80)}},
		{"self-declared admin", RegisterInput{Name: "A", Email: "a@b.co", Password: "123456", Role: models.RoleAdmin}},
		{"unknown role", RegisterInput{Name: "A", Email: "a@b.co", Password: "123456", Role: "driver"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(context.Background(), tt.in)
			assert.True(t, apperror.Is(err, apperror.KindInvalidInput), "%v", err)
		})
	}
}

func TestUpdateDetailsAndPassword(t *testing.T) {
	svc, _, _ := newAuth(t, "bcrypt")
	ctx := context.Background()
	u, _, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "hunter22"})
	require.NoError(t, err)
	_, _, err = svc.Register(ctx, RegisterInput{Name: "Bob", Email: "bob@example.com", Password: "hunter22"})
	require.NoError(t, err)

	updated, err := svc.UpdateDetails(ctx, u.ID, DetailsInput{
		Phone:     ptr("555-0100"),
		Addresses: []models.UserAddress{{AddressLine1: "1 Main St", City: "Springfield", IsDefault: true}},
	})
	require.NoError(t, err)
	assert.Equal(t, "555-0100", updated.Phone)
	assert.Equal(t, "Ada", updated.Name)
	require.Len(t, updated.Addresses, 1)

	_, err = svc.UpdateDetails(ctx, u.ID, DetailsInput{Email: ptr("bob@example.com")})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	_, err = svc.UpdateDetails(ctx, u.ID, DetailsInput{Addresses: []models.UserAddress{
		{AddressLine1: "a", City: "b", IsDefault: true},
		{AddressLine1: "c", City: "d", IsDefault: true},
	}})
	assert.True(t, apperror.Is(err, apperror.KindInvalidInput))

	_, _, err = svc.UpdatePassword(ctx, u.ID, "wrong", "newpass1")
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))

	_, _, err = svc.UpdatePassword(ctx, u.ID, "hunter22", strings.Repeat("a", 80))
	assert.True(t, apperror.Is(err, apperror.KindInvalidInput), "%v", err)

	_, _, err = svc.UpdatePassword(ctx, u.ID, "hunter22", strings.Repeat("a", 72))
	require.NoError(t, err)
	_, _, err = svc.Login(ctx, "ada@example.com", strings.Repeat("a", 72))
	require.NoError(t, err)
	_, _, err = svc.UpdatePassword(ctx, u.ID, strings.Repeat("a", 72), "hunter22")
	require.NoError(t, err)

	_, token, err := svc.UpdatePassword(ctx, u.ID, "hunter22", "newpass1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, _, err = svc.Login(ctx, "ada@example.com", "newpass1")
	assert.NoError(t, err)
}

func TestLogoutRevokes(t *testing.T) {
	svc, revoker, _ := newAuth(t, "bcrypt")
	exp := time.Now().Add(time.Hour)

	require.NoError(t, svc.Logout(context.Background(), "jti-1", exp))
	assert.Equal(t, exp, revoker.revoked["jti-1"])
}

func TestDocumentsAndVerification(t *testing.T) {
	svc, _, uploader := newAuth(t, "bcrypt")
	ctx := context.Background()

	owner, _, err := svc.Register(ctx, RegisterInput{Name: "Chef", Email: "chef@example.com", Password: "hunter22", Role: models.RoleRestaurant})
	require.NoError(t, err)
	cust, _, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "hunter22"})
	require.NoError(t, err)

	ownerP := policy.Principal{UserID: owner.ID, Role: models.RoleRestaurant}
	custP := policy.Principal{UserID: cust.ID, Role: models.RoleCustomer}
	adminP := policy.Principal{UserID: "admin-1", Role: models.RoleAdmin}

	_, err = svc.SetVerification(ctx, adminP, owner.ID, models.VerificationVerified)
	assert.True(t, apperror.Is(err, apperror.KindUnprocessable), "nothing submitted yet")

	_, err = svc.UploadDocument(ctx, custP, models.DocBusinessLicense, strings.NewReader("pdf"))
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	_, err = svc.UploadDocument(ctx, ownerP, "tax_return", strings.NewReader("pdf"))
	assert.True(t, apperror.Is(err, apperror.KindInvalidInput))

	u, err := svc.UploadDocument(ctx, ownerP, models.DocBusinessLicense, strings.NewReader("pdf-bytes"))
	require.NoError(t, err)
	assert.Equal(t, models.VerificationPending, u.DocumentVerificationStatus)
	require.NotNil(t, u.Documents.BusinessLicense)
	assert.Contains(t, u.Documents.BusinessLicense.URL, "business_license")
	assert.Equal(t, "pdf-bytes", uploader.content)
	assert.Equal(t, "documents/"+owner.ID, uploader.folder)

	_, err = svc.SetVerification(ctx, ownerP, owner.ID, models.VerificationVerified)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	_, err = svc.SetVerification(ctx, adminP, owner.ID, "maybe")
	assert.True(t, apperror.Is(err, apperror.KindInvalidInput))

	verified, err := svc.SetVerification(ctx, adminP, owner.ID, models.VerificationVerified)
	require.NoError(t, err)
	assert.Equal(t, models.VerificationVerified, verified.DocumentVerificationStatus)
	assert.True(t, verified.Documents.BusinessLicense.Verified)

	reloaded, err := svc.Me(ctx, owner.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Documents.BusinessLicense.Verified)

	uploader.err = errors.New("cloudinary down")
	_, err = svc.UploadDocument(ctx, ownerP, models.DocIdentityProof, strings.NewReader("x"))
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	svc, _, _ := newAuth(t, "bcrypt")
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, "Root@Example.com", "rootpass"))
	require.NoError(t, svc.EnsureAdmin(ctx, "root@example.com", "other"))

	admin, _, err := svc.Login(ctx, "root@example.com", "rootpass")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	assert.NoError(t, svc.EnsureAdmin(ctx, "", ""))
}

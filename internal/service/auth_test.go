package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shopit/internal/apperr"
	"github.com/Skotchmaster/shopit/internal/models"
	"github.com/Skotchmaster/shopit/internal/repo"
)

func requireAppErr(t *testing.T, err error, kind apperr.Kind, msg string) {
	t.Helper()
	require.Error(t, err)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, kind, ae.Kind)
	assert.Equal(t, msg, ae.Message)
}

func TestAuthService_Register_StoresDigest(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	res, err := f.svc.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: "secret123"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	assert.Empty(t, res.User.PasswordHash)
	assert.Equal(t, models.RoleUser, res.User.Role)
	assert.Equal(t, models.DefaultAvatar, res.User.Avatar)

	stored, err := f.store.GetUser(ctx, res.User.ID, repo.WithPassword())
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.PasswordHash)
	assert.True(t, f.hasher.Check(stored.PasswordHash, "secret123"))
	assert.False(t, f.hasher.Check(stored.PasswordHash, "secret124"))

	claims, err := f.issuer.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.Subject)
	assert.Contains(t, f.pub.types(), "user.registered")
}

func TestAuthService_Register_Errors(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.register(t, "A", "a@x.com", "secret123")

	_, err := f.svc.Register(ctx, RegisterInput{Name: "B", Email: "a@x.com", Password: "secret123"})
	assert.ErrorIs(t, err, repo.ErrDuplicate)

	_, err = f.svc.Register(ctx, RegisterInput{Email: "b@x.com", Password: "123"})
	requireAppErr(t, err, apperr.KindValidation, "Please enter your name, Your password must be longer than 6 characters")
}

func TestAuthService_Login_SameErrorForUnknownAndWrong(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.register(t, "A", "a@x.com", "secret123")

	_, errWrong := f.svc.Login(ctx, "a@x.com", "wrong-password")
	_, errUnknown := f.svc.Login(ctx, "nobody@x.com", "secret123")

	requireAppErr(t, errWrong, apperr.KindUnauthenticated, MsgInvalidCredentials)
	requireAppErr(t, errUnknown, apperr.KindUnauthenticated, MsgInvalidCredentials)

	_, err := f.svc.Login(ctx, "", "secret123")
	requireAppErr(t, err, apperr.KindValidation, MsgMissingCredentials)

	res, err := f.svc.Login(ctx, "a@x.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Empty(t, res.User.PasswordHash)
}

func TestAuthService_ForgotPassword_UnknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	err := f.svc.ForgotPassword(context.Background(), "nobody@x.com", "http://localhost:8080")
	requireAppErr(t, err, apperr.KindNotFound, MsgUserNotFoundEmail)
	assert.Empty(t, f.mail.sent)
}

func TestAuthService_ResetFlow_SingleUse(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	u := f.register(t, "A", "a@x.com", "secret123")

	require.NoError(t, f.svc.ForgotPassword(ctx, "a@x.com", "http://localhost:8080"))
	require.Len(t, f.mail.sent, 1)
	assert.Equal(t, "a@x.com", f.mail.sent[0].To)
	assert.Equal(t, "ShopIT Password Recovery", f.mail.sent[0].Subject)
	assert.Contains(t, f.mail.sent[0].Body, "http://localhost:8080/api/v1/password/reset/")
	token := f.mail.lastToken(t)

	stored, err := f.store.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ResetPasswordToken)
	assert.NotEqual(t, token, *stored.ResetPasswordToken)

	_, err = f.svc.ResetPassword(ctx, token, "newpass1", "newpass2")
	requireAppErr(t, err, apperr.KindValidation, MsgPasswordMismatch)

	res, err := f.svc.ResetPassword(ctx, token, "newpass1", "newpass1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)

	_, err = f.svc.ResetPassword(ctx, token, "newpass1", "newpass1")
	requireAppErr(t, err, apperr.KindValidation, MsgResetInvalid)

	_, err = f.svc.Login(ctx, "a@x.com", "newpass1")
	require.NoError(t, err)
}

func TestAuthService_ResetPassword_Expired(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.register(t, "A", "a@x.com", "secret123")

	require.NoError(t, f.svc.ForgotPassword(ctx, "a@x.com", "http://localhost"))
	token := f.mail.lastToken(t)

	f.svc.now = func() time.Time { return time.Now().Add(31 * time.Minute) }
	_, err := f.svc.ResetPassword(ctx, token, "newpass1", "newpass1")
	requireAppErr(t, err, apperr.KindValidation, MsgResetInvalid)
}

func TestAuthService_ForgotPassword_MailFailureRollsBack(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	u := f.register(t, "A", "a@x.com", "secret123")
	f.mail.err = errSMTP

	err := f.svc.ForgotPassword(ctx, "a@x.com", "http://localhost")
	requireAppErr(t, err, apperr.KindUpstream, MsgEmailNotSent)
	assert.ErrorIs(t, err, errSMTP)

	stored, err := f.store.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ResetPasswordToken)
	assert.Nil(t, stored.ResetPasswordExpire)
}

func TestAuthService_ForgotPassword_UsesFrontendURL(t *testing.T) {
	f := newAuthFixture(t)
	f.svc.cfg.FrontendURL = "https://shop.example.com/"
	f.register(t, "A", "a@x.com", "secret123")

	require.NoError(t, f.svc.ForgotPassword(context.Background(), "a@x.com", "http://ignored"))
	assert.Contains(t, f.mail.sent[0].Body, "https://shop.example.com/password/reset/")
}

func TestAuthService_UpdatePassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	u := f.register(t, "A", "a@x.com", "secret123")

	_, err := f.svc.UpdatePassword(ctx, u.ID, "wrong-old", "another1")
	requireAppErr(t, err, apperr.KindUnauthenticated, MsgOldPasswordWrong)

	_, err = f.svc.Login(ctx, "a@x.com", "secret123")
	require.NoError(t, err, "password must be unchanged after a failed update")

	res, err := f.svc.UpdatePassword(ctx, u.ID, "secret123", "another1")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	_, err = f.svc.Login(ctx, "a@x.com", "another1")
	require.NoError(t, err)
}

func TestAuthService_ProfileAndMe(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	u := f.register(t, "A", "a@x.com", "secret123")
	f.register(t, "B", "b@x.com", "secret123")

	updated, err := f.svc.UpdateProfile(ctx, u.ID, "Alice", "")
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.Name)
	assert.Equal(t, "a@x.com", updated.Email)

	_, err = f.svc.UpdateProfile(ctx, u.ID, "", "b@x.com")
	assert.ErrorIs(t, err, repo.ErrDuplicate)

	me, err := f.svc.Me(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", me.Name)
	assert.Empty(t, me.PasswordHash)
}

func TestAuthService_RejectsOverlongPasswords(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	long := strings.Repeat("p", 80)

	_, err := f.svc.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: long})
	requireAppErr(t, err, apperr.KindValidation, MsgPasswordTooLong)

	u := f.register(t, "A", "a@x.com", "secret123")

	_, err = f.svc.UpdatePassword(ctx, u.ID, "secret123", long)
	requireAppErr(t, err, apperr.KindValidation, MsgPasswordTooLong)

	require.NoError(t, f.svc.ForgotPassword(ctx, "a@x.com", "http://localhost"))
	token := f.mail.lastToken(t)
	_, err = f.svc.ResetPassword(ctx, token, long, long)
	requireAppErr(t, err, apperr.KindValidation, MsgPasswordTooLong)

	_, err = f.svc.Login(ctx, "a@x.com", "secret123")
	require.NoError(t, err)

	exact := strings.Repeat("p", 72)
	_, err = f.svc.ResetPassword(ctx, token, exact, exact)
	require.NoError(t, err)
	_, err = f.svc.Login(ctx, "a@x.com", exact)
	require.NoError(t, err)
}

func TestAuthService_TrimsEmailOnLookup(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.register(t, "A", " a@x.com ", "secret123")

	res, err := f.svc.Login(ctx, "  a@x.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", res.User.Email)

	_, err = f.svc.Login(ctx, "   ", "secret123")
	requireAppErr(t, err, apperr.KindValidation, MsgMissingCredentials)

	require.NoError(t, f.svc.ForgotPassword(ctx, "a@x.com\t", "http://localhost"))
	require.Len(t, f.mail.sent, 1)
	assert.Equal(t, "a@x.com", f.mail.sent[0].To)
}

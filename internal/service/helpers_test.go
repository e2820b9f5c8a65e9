package service

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/shopit/internal/events"
	"github.com/Skotchmaster/shopit/internal/hash"
	"github.com/Skotchmaster/shopit/internal/models"
	"github.com/Skotchmaster/shopit/internal/repo"
	"github.com/Skotchmaster/shopit/internal/tokens"
)

func newTestStore(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	r := &repo.GormRepo{DB: db}
	require.NoError(t, r.Migrate(context.Background()))
	return r
}

type sentMail struct {
	To, Subject, Body string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

var resetLinkRe = regexp.MustCompile(`/password/reset/([0-9a-f]+)`)

func (m *fakeMailer) lastToken(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent)
	match := resetLinkRe.FindStringSubmatch(m.sent[len(m.sent)-1].Body)
	require.Len(t, match, 2)
	return match[1]
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type authFixture struct {
	svc    *AuthService
	store  *repo.GormRepo
	mail   *fakeMailer
	pub    *recordingPublisher
	hasher *hash.Hasher
	issuer *tokens.Issuer
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	store := newTestStore(t)
	hasher, err := hash.New(hash.AlgBcrypt, 4)
	require.NoError(t, err)
	issuer, err := tokens.NewIssuer("test-jwt-secret", time.Hour)
	require.NoError(t, err)

	mail := &fakeMailer{}
	pub := &recordingPublisher{}
	svc := NewAuthService(store, hasher, issuer, mail, pub, AuthConfig{ResetTokenTTL: 30 * time.Minute})
	return &authFixture{svc: svc, store: store, mail: mail, pub: pub, hasher: hasher, issuer: issuer}
}

func (f *authFixture) register(t *testing.T, name, email, password string) *models.User {
	t.Helper()
	res, err := f.svc.Register(context.Background(), RegisterInput{Name: name, Email: email, Password: password})
	require.NoError(t, err)
	return res.User
}

func (f *authFixture) makeAdmin(t *testing.T, u *models.User) *models.User {
	t.Helper()
	role := models.RoleAdmin
	updated, err := f.store.UpdateUser(context.Background(), u.ID, repo.UpdateUserParams{Role: &role})
	require.NoError(t, err)
	return updated
}

type fakeIndex struct {
	indexed map[string]models.Product
	deleted []string
	err     error
}

func newFakeIndex() *fakeIndex { return &fakeIndex{indexed: map[string]models.Product{}} }

func (f *fakeIndex) IndexProduct(_ context.Context, p *models.Product) error {
	if f.err != nil {
		return f.err
	}
	f.indexed[p.ID] = *p
	return nil
}

func (f *fakeIndex) DeleteProduct(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.indexed, id)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, _ string, _, _ int) (int64, []models.Product, error) {
	if f.err != nil {
		return 0, nil, f.err
	}
	out := make([]models.Product, 0, len(f.indexed))
	for _, p := range f.indexed {
		out = append(out, p)
	}
	return int64(len(out)), out, nil
}

var errSMTP = errors.New("smtp: connection refused")

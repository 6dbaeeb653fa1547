package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/techlab_admin/internal/events"
	"github.com/Skotchmaster/techlab_admin/internal/models"
	"github.com/Skotchmaster/techlab_admin/internal/repo"
	"github.com/Skotchmaster/techlab_admin/pkg/apperr"
	"github.com/Skotchmaster/techlab_admin/pkg/db"
	"github.com/Skotchmaster/techlab_admin/pkg/tokens"
)

type sentEvent struct {
	topic string
	key   string
	ev    events.Event
}

type recordingPublisher struct {
	mu   sync.Mutex
	sent []sentEvent
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, topic, key string, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, sentEvent{topic: topic, key: key, ev: ev})
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.sent))
	for _, s := range p.sent {
		out = append(out, s.ev.Type)
	}
	return out
}

type fakeIndex struct {
	docs      map[string]models.Product
	searchErr error
	indexErr  error
}

func newFakeIndex() *fakeIndex { return &fakeIndex{docs: map[string]models.Product{}} }

func (f *fakeIndex) IndexProduct(_ context.Context, p models.Product) error {
	if f.indexErr != nil {
		return f.indexErr
	}
	f.docs[p.ID] = p
	return nil
}

func (f *fakeIndex) DeleteProduct(_ context.Context, id string) error {
	delete(f.docs, id)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, q string, from, size int) (int64, []models.Product, error) {
	if f.searchErr != nil {
		return 0, nil, f.searchErr
	}
	var out []models.Product
	for _, p := range f.docs {
		if p.Name == q {
			out = append(out, p)
		}
	}
	return int64(len(out)), out, nil
}

func newStore(t *testing.T) *repo.GormRepo {
	t.Helper()
	gdb, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := repo.New(gdb)
	require.NoError(t, r.Migrate(context.Background()))
	return r
}

func strPtr(s string) *string { return &s }

func TestUserService_CreateAndLogin(t *testing.T) {
	store := newStore(t)
	pub := &recordingPublisher{}
	users := &UserService{Store: store, Events: pub}
	issuer := tokens.NewIssuer([]byte("test-secret"), time.Hour)
	auth := &AuthService{Users: store, Tokens: issuer}
	ctx := context.Background()

	u, err := users.Create(ctx, CreateUserInput{Email: "ann@example.com", Password: "secret1", Name: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.Equal(t, []string{events.UserRegistered}, pub.types())

	creds, err := store.FindCredentials(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", creds.PasswordHash)

	res, err := auth.ValidateCredentials(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, u.ID, res.User.ID)

	claims, err := auth.VerifyToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "ann@example.com", claims.Email)
	assert.Equal(t, "Ann", claims.Name)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.WithinDuration(t, res.ExpiresAt, claims.ExpiresAt.Time, time.Second)
}

func TestAuthService_RejectsBadCredentials(t *testing.T) {
	store := newStore(t)
	users := &UserService{Store: store}
	auth := &AuthService{Users: store, Tokens: tokens.NewIssuer([]byte("s"), 0)}
	ctx := context.Background()

	_, err := users.Create(ctx, CreateUserInput{Email: "bob@example.com", Password: "secret1", Name: "Bob"})
	require.NoError(t, err)

	res, err := auth.ValidateCredentials(ctx, "bob@example.com", "wrong-password")
	require.NoError(t, err)
	assert.Nil(t, res)

	res, err = auth.ValidateCredentials(ctx, "nobody@example.com", "secret1")
	require.NoError(t, err)
	assert.Nil(t, res)

	_, err = auth.Login(ctx, "bob@example.com", "wrong-password")
	assert.ErrorIs(t, err, apperr.ErrAuth)
}

func TestAuthService_UserWithoutHashFailsClosed(t *testing.T) {
	store := newStore(t)
	auth := &AuthService{Users: store, Tokens: tokens.NewIssuer([]byte("s"), 0)}
	ctx := context.Background()

	_, err := store.CreateUser(ctx, models.NewUser{Email: "nohash@example.com", Name: "N", Role: "user"})
	require.NoError(t, err)

	res, err := auth.ValidateCredentials(ctx, "nohash@example.com", "")
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestUserService_DuplicateEmail(t *testing.T) {
	store := newStore(t)
	users := &UserService{Store: store}
	ctx := context.Background()

	_, err := users.Create(ctx, CreateUserInput{Email: "dup@example.com", Password: "secret1", Name: "A"})
	require.NoError(t, err)

	_, err = users.Create(ctx, CreateUserInput{Email: "dup@example.com", Password: "secret1", Name: "B"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, "user with this email already exists", err.Error())
}

func TestUserService_PublishFailureDoesNotFailCreate(t *testing.T) {
	store := newStore(t)
	users := &UserService{Store: store, Events: &recordingPublisher{err: errors.New("broker down")}}

	u, err := users.Create(context.Background(), CreateUserInput{Email: "e@example.com", Password: "secret1", Name: "E", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
}

func TestUserService_Update(t *testing.T) {
	store := newStore(t)
	users := &UserService{Store: store}
	ctx := context.Background()

	u, err := users.Create(ctx, CreateUserInput{Email: "f@example.com", Password: "secret1", Name: "F"})
	require.NoError(t, err)

	got, err := users.Update(ctx, u.ID, models.UserPatch{Role: strPtr(models.RoleCustomer)})
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, got.Role)
	assert.Equal(t, "F", got.Name)

	_, err = users.Update(ctx, "missing", models.UserPatch{Name: strPtr("x")})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = users.Get(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	list, err := users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestProductService_Lifecycle(t *testing.T) {
	store := newStore(t)
	pub := &recordingPublisher{}
	idx := newFakeIndex()
	products := &ProductService{Store: store, Events: pub, Index: idx}
	ctx := context.Background()

	p, err := products.Create(ctx, CreateProductInput{Name: "Desk Lamp", Price: 25})
	require.NoError(t, err)
	assert.Equal(t, "desk-lamp", p.Slug)
	assert.Contains(t, idx.docs, p.ID)

	newName := "Floor Lamp"
	got, err := products.Update(ctx, p.ID, models.ProductPatch{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "floor-lamp", got.Slug)
	assert.Equal(t, "Floor Lamp", idx.docs[p.ID].Name)

	require.NoError(t, products.Delete(ctx, p.ID))
	assert.NotContains(t, idx.docs, p.ID)
	assert.ErrorIs(t, products.Delete(ctx, p.ID), apperr.ErrNotFound)

	assert.Equal(t, []string{events.ProductCreated, events.ProductUpdated, events.ProductDeleted}, pub.types())
}

func TestProductService_RejectsInvalidInput(t *testing.T) {
	products := &ProductService{Store: newStore(t)}
	ctx := context.Background()

	_, err := products.Create(ctx, CreateProductInput{Name: "X", Price: 1})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = products.Create(ctx, CreateProductInput{Name: "Widget", Price: -1})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	stock := -2
	_, err = products.Create(ctx, CreateProductInput{Name: "Widget", Price: 1, Stock: &stock})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestProductService_SearchFallsBackToStore(t *testing.T) {
	store := newStore(t)
	idx := newFakeIndex()
	idx.searchErr = errors.New("cluster unavailable")
	products := &ProductService{Store: store, Index: idx}
	ctx := context.Background()

	_, err := products.Create(ctx, CreateProductInput{Name: "Office Chair", Price: 99})
	require.NoError(t, err)

	total, items, err := products.Search(ctx, "chair", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Office Chair", items[0].Name)

	_, _, err = products.Search(ctx, "  ", 0, 10)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestProductService_SearchUsesIndex(t *testing.T) {
	idx := newFakeIndex()
	idx.docs["x"] = models.Product{ID: "x", Name: "Indexed"}
	products := &ProductService{Store: newStore(t), Index: idx}

	total, items, err := products.Search(context.Background(), "Indexed", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "x", items[0].ID)
}

func TestProductService_ReindexBackfillsExistingProducts(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	plain := &ProductService{Store: store}

	chair, err := plain.Create(ctx, CreateProductInput{Name: "Office Chair", Price: 80})
	require.NoError(t, err)
	lamp, err := plain.Create(ctx, CreateProductInput{Name: "Lamp", Price: 20})
	require.NoError(t, err)

	n, err := plain.Reindex(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	idx := newFakeIndex()
	products := &ProductService{Store: store, Index: idx}

	total, _, err := products.Search(ctx, "Lamp", 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)

	n, err = products.Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Contains(t, idx.docs, chair.ID)
	assert.Contains(t, idx.docs, lamp.ID)

	total, items, err := products.Search(ctx, "Lamp", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, lamp.ID, items[0].ID)
}

func TestProductService_ReindexReportsIndexFailure(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	_, err := (&ProductService{Store: store}).Create(ctx, CreateProductInput{Name: "Desk", Price: 150})
	require.NoError(t, err)

	idx := newFakeIndex()
	idx.indexErr = errors.New("cluster read-only")
	n, err := (&ProductService{Store: store, Index: idx}).Reindex(ctx)

	assert.Zero(t, n)
	assert.ErrorIs(t, err, apperr.ErrUpstream)
	assert.Empty(t, idx.docs)
}

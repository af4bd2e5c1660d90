package usecase_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	"worklinkph/internal/database/connect"
	"worklinkph/internal/database/sqldb"
	"worklinkph/internal/domain/job"
	"worklinkph/internal/domain/resource"
	"worklinkph/internal/domain/user"
	"worklinkph/internal/infrastructure/supabase"
	"worklinkph/internal/pkg/jwt"
	"worklinkph/internal/repository"
	"worklinkph/internal/usecase"
	ucauth "worklinkph/internal/usecase/auth"

	"github.com/google/uuid"
)

type fakeCache struct {
	mu      sync.Mutex
	items   map[string][]byte
	gets    int
	hits    int
	deletes []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: map[string][]byte{}}
}

func (c *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	b, ok := c.items[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(b, out)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.items[key] = b
	return nil
}

func (c *fakeCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes = append(c.deletes, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
		}
	}
	return nil
}

type recordedEvent struct {
	Type string
	ID   uuid.UUID
}

type fakeEvents struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (e *fakeEvents) Publish(eventType string, id uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, recordedEvent{Type: eventType, ID: id})
}

type fakeStorage struct {
	key     string
	body    string
	removed []string
}

func (s *fakeStorage) RemoveAvatar(_ context.Context, url string) error {
	s.removed = append(s.removed, url)
	return nil
}

func (s *fakeStorage) PutAvatar(_ context.Context, userID uuid.UUID, filename, _ string, r io.Reader, _ int64) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.key = userID.String() + "/" + filename
	s.body = string(b)
	return "https://cdn.example.com/avatars/" + s.key, nil
}

type fixture struct {
	users     *repository.SQLUserRepository
	jobs      *repository.SQLJobRepository
	resources *repository.SQLResourceRepository
	provider  ucauth.Provider
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	db, err := sqldb.OpenSQLite(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := connect.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return fixture{
		users:     repository.NewSQLUserRepository(db),
		jobs:      repository.NewSQLJobRepository(db),
		resources: repository.NewSQLResourceRepository(db),
		provider:  ucauth.NewLocal(jwt.NewHMACService("test-secret", time.Hour)),
	}
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func register(t *testing.T, a *usecase.Auth, email, phone string) usecase.AuthResult {
	t.Helper()
	res, err := a.Register(context.Background(), usecase.RegisterInput{
		FirstName: "Maria",
		LastName:  "Santos",
		Email:     email,
		Phone:     phone,
		Password:  "Secret1",
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return res
}

func TestAuth_RegisterLoginAuthenticate(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	a := usecase.NewAuthUsecase(fx.users, fx.provider, quietLogger())

	res := register(t, a, "  Maria@Example.com ", "09171234567")
	if res.Token == "" {
		t.Fatalf("expected a token")
	}
	if res.User.Email != "maria@example.com" {
		t.Fatalf("expected normalized email, got %q", res.User.Email)
	}
	if res.User.FullName != "Maria Santos" {
		t.Fatalf("unexpected full name %q", res.User.FullName)
	}
	var notif map[string]bool
	if err := json.Unmarshal(res.User.NotificationPreferences, &notif); err != nil {
		t.Fatalf("notification prefs: %v", err)
	}
	if !notif["email"] || notif["sms"] || !notif["inApp"] {
		t.Fatalf("unexpected default notifications %v", notif)
	}

	if _, err := a.Register(ctx, usecase.RegisterInput{FirstName: "Al", LastName: "Bo", Email: "maria@example.com", Phone: "09170000000", Password: "Secret1"}); !errors.Is(err, usecase.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if _, err := a.Register(ctx, usecase.RegisterInput{FirstName: "Al", LastName: "Bo", Email: "other@example.com", Phone: "09171234567", Password: "Secret1"}); !errors.Is(err, usecase.ErrPhoneTaken) {
		t.Fatalf("expected ErrPhoneTaken, got %v", err)
	}

	byEmail, err := a.Login(ctx, usecase.LoginInput{EmailOrPhone: "MARIA@example.com", Password: "Secret1"})
	if err != nil {
		t.Fatalf("login by email: %v", err)
	}
	if byEmail.User.ID != res.User.ID {
		t.Fatalf("login returned another user")
	}
	if _, err := a.Login(ctx, usecase.LoginInput{EmailOrPhone: "0917-123-4567", Password: "Secret1"}); err != nil {
		t.Fatalf("login by phone: %v", err)
	}
	if _, err := a.Login(ctx, usecase.LoginInput{EmailOrPhone: "maria@example.com", Password: "nope"}); !errors.Is(err, usecase.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := a.Login(ctx, usecase.LoginInput{EmailOrPhone: "ghost@example.com", Password: "Secret1"}); !errors.Is(err, usecase.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}

	me, err := a.Authenticate(ctx, res.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if me.ID != res.User.ID {
		t.Fatalf("authenticate resolved %s, want %s", me.ID, res.User.ID)
	}
	if _, err := a.Authenticate(ctx, "not-a-token"); !errors.Is(err, usecase.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	if err := a.ForgotPassword(ctx, "ghost@example.com"); err != nil {
		t.Fatalf("forgot password must not reveal unknown emails: %v", err)
	}
}

func TestUser_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	a := usecase.NewAuthUsecase(fx.users, fx.provider, quietLogger())
	u := usecase.NewUserUsecase(fx.users, fx.provider, nil, nil, nil, quietLogger())
	reg := register(t, a, "maria@example.com", "09171234567")

	updated, err := u.UpdateProfile(ctx, reg.User.ID, map[string]json.RawMessage{
		"firstName":      json.RawMessage(`"Ana"`),
		"city":           json.RawMessage(`"Cebu City"`),
		"jobPreferences": json.RawMessage(`{"remote": true}`),
		"favoriteColor":  json.RawMessage(`"blue"`),
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.FullName != "Ana Santos" {
		t.Fatalf("full name not recomputed: %q", updated.FullName)
	}
	if updated.City == nil || *updated.City != "Cebu City" {
		t.Fatalf("city not stored: %v", updated.City)
	}
	if string(updated.JobPreferences) != `{"remote":true}` {
		t.Fatalf("unexpected job preferences %s", updated.JobPreferences)
	}

	_, err = u.UpdateProfile(ctx, reg.User.ID, map[string]json.RawMessage{"phone": json.RawMessage(`"12345"`)})
	var verr *usecase.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Error() != "Please provide a valid phone number (09XXXXXXXXX)" {
		t.Fatalf("unexpected message %q", verr.Error())
	}
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("validation errors must wrap ErrInvalidInput")
	}

	if _, err := u.UpdateProfile(ctx, reg.User.ID, map[string]json.RawMessage{"role": json.RawMessage(`"admin"`)}); !errors.Is(err, usecase.ErrNoFieldsToUpdate) {
		t.Fatalf("expected ErrNoFieldsToUpdate, got %v", err)
	}

	register(t, a, "juan@example.com", "09179999999")
	if _, err := u.UpdateProfile(ctx, reg.User.ID, map[string]json.RawMessage{"email": json.RawMessage(`"juan@example.com"`)}); !errors.Is(err, usecase.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

type gotrueAccount struct {
	email    string
	password string
}

// memGoTrue keys accounts by id and signs in by email, like Supabase Auth.
type memGoTrue struct {
	mu       sync.Mutex
	next     int
	accounts map[string]gotrueAccount
}

func newMemGoTrue() *memGoTrue {
	return &memGoTrue{accounts: map[string]gotrueAccount{}}
}

func (g *memGoTrue) emailInUse(email, except string) bool {
	for id, acc := range g.accounts {
		if id != except && acc.email == email {
			return true
		}
	}
	return false
}

func (g *memGoTrue) AdminCreateUser(_ context.Context, email, password string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.emailInUse(email, "") {
		return "", supabase.ErrEmailExists
	}
	g.next++
	id := fmt.Sprintf("auth-%d", g.next)
	g.accounts[id] = gotrueAccount{email: email, password: password}
	return id, nil
}

func (g *memGoTrue) AdminGetUser(_ context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.accounts[id]; !ok {
		return supabase.ErrUserNotFound
	}
	return nil
}

func (g *memGoTrue) AdminUpdateEmail(_ context.Context, id, email string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	acc, ok := g.accounts[id]
	if !ok {
		return supabase.ErrUserNotFound
	}
	if g.emailInUse(email, id) {
		return supabase.ErrEmailExists
	}
	acc.email = email
	g.accounts[id] = acc
	return nil
}

func (g *memGoTrue) AdminDeleteUser(_ context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.accounts, id)
	return nil
}

func (g *memGoTrue) SignInWithPassword(_ context.Context, email, password string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for id, acc := range g.accounts {
		if acc.email == email && acc.password == password {
			return "token-" + id, nil
		}
	}
	return "", supabase.ErrInvalidCredentials
}

func (g *memGoTrue) Recover(context.Context, string) error { return nil }

type rejectAllTokens struct{}

func (rejectAllTokens) Verify(string) (jwt.SupabaseClaims, error) {
	return jwt.SupabaseClaims{}, jwt.ErrTokenInvalid
}

func TestUser_ChangeEmailKeepsSupabaseLoginWorking(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	gt := newMemGoTrue()
	provider := ucauth.NewSupabase(gt, rejectAllTokens{}, 1, 0, quietLogger())
	a := usecase.NewAuthUsecase(fx.users, provider, quietLogger())
	u := usecase.NewUserUsecase(fx.users, provider, nil, nil, nil, quietLogger())

	reg := register(t, a, "maria@example.com", "09171234567")
	if _, err := u.UpdateProfile(ctx, reg.User.ID, map[string]json.RawMessage{"email": json.RawMessage(`"New@Example.com"`)}); err != nil {
		t.Fatalf("change email: %v", err)
	}

	for _, ident := range []string{"new@example.com", "09171234567"} {
		res, err := a.Login(ctx, usecase.LoginInput{EmailOrPhone: ident, Password: "Secret1"})
		if err != nil {
			t.Fatalf("login as %s after email change: %v", ident, err)
		}
		if res.User.ID != reg.User.ID {
			t.Fatalf("login as %s resolved another user", ident)
		}
	}
	if _, err := a.Login(ctx, usecase.LoginInput{EmailOrPhone: "maria@example.com", Password: "Secret1"}); !errors.Is(err, usecase.ErrInvalidCredentials) {
		t.Fatalf("old email must stop working, got %v", err)
	}

	// a profile owns the address but the auth side does not: the auth
	// email must be restored when the profile write is rejected
	local := usecase.NewAuthUsecase(fx.users, fx.provider, quietLogger())
	register(t, local, "juan@example.com", "09179999999")
	if _, err := u.UpdateProfile(ctx, reg.User.ID, map[string]json.RawMessage{"email": json.RawMessage(`"juan@example.com"`)}); !errors.Is(err, usecase.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if _, err := a.Login(ctx, usecase.LoginInput{EmailOrPhone: "new@example.com", Password: "Secret1"}); err != nil {
		t.Fatalf("login after rejected change: %v", err)
	}

	other := register(t, a, "ana@example.com", "09178888888")
	if _, err := u.UpdateProfile(ctx, other.User.ID, map[string]json.RawMessage{"email": json.RawMessage(`"new@example.com"`)}); !errors.Is(err, usecase.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken from the provider, got %v", err)
	}
}

func TestUser_OnboardingAvatarAndDelete(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	a := usecase.NewAuthUsecase(fx.users, fx.provider, quietLogger())
	reg := register(t, a, "maria@example.com", "09171234567")

	noStorage := usecase.NewUserUsecase(fx.users, fx.provider, nil, nil, nil, quietLogger())
	done, err := noStorage.SaveOnboarding(ctx, reg.User.ID, nil, nil)
	if err != nil {
		t.Fatalf("save onboarding: %v", err)
	}
	if !done.OnboardingCompleted {
		t.Fatalf("empty onboarding body must mark completion")
	}

	no := false
	partial, err := noStorage.SaveOnboarding(ctx, reg.User.ID, &no, json.RawMessage(`{"step":2}`))
	if err != nil {
		t.Fatalf("save progress: %v", err)
	}
	if partial.OnboardingCompleted || string(partial.OnboardingProgress) != `{"step":2}` {
		t.Fatalf("unexpected onboarding state %v %s", partial.OnboardingCompleted, partial.OnboardingProgress)
	}

	if _, err := noStorage.UploadAvatar(ctx, reg.User.ID, usecase.AvatarUpload{Filename: "me.png", Size: 3, Body: bytes.NewReader([]byte("png"))}); !errors.Is(err, usecase.ErrStorageDisabled) {
		t.Fatalf("expected ErrStorageDisabled, got %v", err)
	}
	if _, err := noStorage.SetAvatarURL(ctx, reg.User.ID, "  "); !errors.Is(err, usecase.ErrAvatarRequired) {
		t.Fatalf("expected ErrAvatarRequired, got %v", err)
	}

	store := &fakeStorage{}
	listings := newFakeCache()
	withStorage := usecase.NewUserUsecase(fx.users, fx.provider, store, listings, nil, quietLogger())
	withAvatar, err := withStorage.UploadAvatar(ctx, reg.User.ID, usecase.AvatarUpload{Filename: "me.png", ContentType: "image/png", Size: 3, Body: bytes.NewReader([]byte("png"))})
	if err != nil {
		t.Fatalf("upload avatar: %v", err)
	}
	if withAvatar.AvatarURL == nil || !strings.HasSuffix(*withAvatar.AvatarURL, "/me.png") {
		t.Fatalf("avatar url not stored: %v", withAvatar.AvatarURL)
	}
	if store.body != "png" {
		t.Fatalf("storage received %q", store.body)
	}
	first := *withAvatar.AvatarURL
	if _, err := withStorage.UploadAvatar(ctx, reg.User.ID, usecase.AvatarUpload{Filename: "new.png", ContentType: "image/png", Size: 3, Body: bytes.NewReader([]byte("png"))}); err != nil {
		t.Fatalf("replace avatar: %v", err)
	}
	if len(store.removed) == 0 || store.removed[len(store.removed)-1] != first {
		t.Fatalf("previous avatar not removed: %v", store.removed)
	}

	jobs := usecase.NewJobUsecase(fx.jobs, listings, time.Minute, nil, quietLogger())
	posted, err := jobs.CreateJob(ctx, reg.User.ID, usecase.CreateJobInput{Title: "Encoder", Company: "Acme", Description: "Encode"})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	if before, err := jobs.ListJobs(ctx, job.Filter{}); err != nil || len(before) != 1 || before[0].PostedBy == nil {
		t.Fatalf("list before delete: %+v %v", before, err)
	}

	if err := withStorage.DeleteAccount(ctx, reg.User.ID); err != nil {
		t.Fatalf("delete account: %v", err)
	}
	if _, err := withStorage.GetProfile(ctx, reg.User.ID); !errors.Is(err, usecase.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	after, err := jobs.ListJobs(ctx, job.Filter{})
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(after) != 1 || after[0].ID != posted.ID || after[0].PostedBy != nil {
		t.Fatalf("cached listing still names the deleted poster: %+v", after)
	}
}

type brokenUpdates struct {
	user.Repository
}

func (brokenUpdates) Update(context.Context, uuid.UUID, user.Changes, time.Time) (user.User, error) {
	return user.User{}, errors.New("disk full")
}

func TestUser_UploadAvatarRemovesOrphanOnSaveFailure(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	a := usecase.NewAuthUsecase(fx.users, fx.provider, quietLogger())
	reg := register(t, a, "maria@example.com", "09171234567")

	store := &fakeStorage{}
	u := usecase.NewUserUsecase(brokenUpdates{fx.users}, fx.provider, store, nil, nil, quietLogger())
	if _, err := u.UploadAvatar(ctx, reg.User.ID, usecase.AvatarUpload{Filename: "me.png", ContentType: "image/png", Size: 3, Body: bytes.NewReader([]byte("png"))}); err == nil {
		t.Fatalf("expected the profile write to fail")
	}
	want := "https://cdn.example.com/avatars/" + reg.User.ID.String() + "/me.png"
	if len(store.removed) != 1 || store.removed[0] != want {
		t.Fatalf("uploaded object left behind: removed=%v", store.removed)
	}
}

func TestJobs_CreateListUpdateDelete(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	a := usecase.NewAuthUsecase(fx.users, fx.provider, quietLogger())
	owner := register(t, a, "owner@example.com", "09171111111").User
	other := register(t, a, "other@example.com", "09172222222").User

	cache := newFakeCache()
	events := &fakeEvents{}
	jobs := usecase.NewJobUsecase(fx.jobs, cache, time.Minute, events, quietLogger())

	_, err := jobs.CreateJob(ctx, owner.ID, usecase.CreateJobInput{Title: "Encoder", Company: "  "})
	var verr *usecase.ValidationError
	if !errors.As(err, &verr) || verr.Error() != "Title, company, and description are required" {
		t.Fatalf("expected required-fields validation error, got %v", err)
	}

	created, err := jobs.CreateJob(ctx, owner.ID, usecase.CreateJobInput{
		Title:       "Data Encoder",
		Company:     "Acme PH",
		Location:    "Quezon City",
		Description: "Encode records",
		Tags:        []string{"PWDs"},
	})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	if created.Type != job.DefaultType || created.Source != job.SourceLocal {
		t.Fatalf("defaults not applied: type=%q source=%q", created.Type, created.Source)
	}
	if created.PostedBy == nil || *created.PostedBy != owner.ID {
		t.Fatalf("posted_by not set to caller")
	}

	first, err := jobs.ListJobs(ctx, job.Filter{Search: "encoder"})
	if err != nil {
		t.Fatalf("list jobs: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("expected 1 job, got %d", len(first))
	}
	second, err := jobs.ListJobs(ctx, job.Filter{Search: "  ENCODER "})
	if err != nil {
		t.Fatalf("list jobs again: %v", err)
	}
	if cache.hits != 1 || len(second) != 1 || second[0].ID != created.ID {
		t.Fatalf("expected second list to be a cache hit, hits=%d", cache.hits)
	}

	title := "Senior Data Encoder"
	if _, err := jobs.UpdateJob(ctx, other.ID, created.ID, job.Patch{Title: &title}); !errors.Is(err, usecase.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}
	if _, err := jobs.UpdateJob(ctx, owner.ID, created.ID, job.Patch{}); !errors.Is(err, usecase.ErrNoFieldsToUpdate) {
		t.Fatalf("expected ErrNoFieldsToUpdate, got %v", err)
	}
	updated, err := jobs.UpdateJob(ctx, owner.ID, created.ID, job.Patch{Title: &title})
	if err != nil {
		t.Fatalf("update job: %v", err)
	}
	if updated.Title != title {
		t.Fatalf("title not updated: %q", updated.Title)
	}
	if len(cache.items) != 0 {
		t.Fatalf("list cache must be invalidated after update")
	}

	if err := jobs.DeleteJob(ctx, other.ID, created.ID); !errors.Is(err, usecase.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on delete, got %v", err)
	}
	if err := jobs.DeleteJob(ctx, owner.ID, created.ID); err != nil {
		t.Fatalf("delete job: %v", err)
	}
	if _, err := jobs.GetJob(ctx, created.ID); !errors.Is(err, usecase.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}

	want := []string{usecase.EventJobCreated, usecase.EventJobUpdated, usecase.EventJobDeleted}
	if len(events.events) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(events.events))
	}
	for i, w := range want {
		if events.events[i].Type != w || events.events[i].ID != created.ID {
			t.Fatalf("event %d: got %+v want %s", i, events.events[i], w)
		}
	}
}

func TestJobs_ImportSkipsDuplicates(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	jobs := usecase.NewJobUsecase(fx.jobs, nil, 0, nil, quietLogger())

	ext := "js-123"
	j := job.Job{
		Title:       "Call Center Agent",
		Company:     "BPO Inc",
		Location:    "Pasig",
		Description: "Night shift",
		Tags:        []string{"Full-time"},
		Source:      "jobstreet",
		ExternalID:  &ext,
	}
	inserted, err := jobs.ImportJob(ctx, j)
	if err != nil || !inserted {
		t.Fatalf("first import: inserted=%v err=%v", inserted, err)
	}
	inserted, err = jobs.ImportJob(ctx, j)
	if err != nil || inserted {
		t.Fatalf("second import must be skipped: inserted=%v err=%v", inserted, err)
	}
	if _, err := jobs.ImportJob(ctx, job.Job{Title: "x", Company: "y", Source: "jobstreet"}); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without external id, got %v", err)
	}

	n, err := fx.jobs.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 job, got %d", n)
	}
}

func TestResources_Lifecycle(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	cache := newFakeCache()
	events := &fakeEvents{}
	res := usecase.NewResourceUsecase(fx.resources, cache, time.Minute, events, quietLogger())

	if _, err := res.CreateResource(ctx, usecase.CreateResourceInput{Title: "DOLE"}); err == nil || err.Error() != "Title, organization, and description are required" {
		t.Fatalf("expected required-fields error, got %v", err)
	}
	if _, err := res.CreateResource(ctx, usecase.CreateResourceInput{Title: "a", Organization: "b", Description: "c", ContactInfo: json.RawMessage(`[1]`)}); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected invalid contact info to be rejected, got %v", err)
	}

	created, err := res.CreateResource(ctx, usecase.CreateResourceInput{
		Title:        "PWD Employment Desk",
		Organization: "DOLE",
		Category:     "Government",
		Description:  "Job matching for PWDs",
		ContactInfo:  json.RawMessage(`{"phone": "1349"}`),
	})
	if err != nil {
		t.Fatalf("create resource: %v", err)
	}
	if created.Type != resource.DefaultType {
		t.Fatalf("expected default type, got %q", created.Type)
	}

	list, err := res.ListResources(ctx, resource.Filter{Category: "govern"})
	if err != nil || len(list) != 1 {
		t.Fatalf("list resources: n=%d err=%v", len(list), err)
	}

	link := "https://dole.gov.ph"
	updated, err := res.UpdateResource(ctx, created.ID, resource.Patch{Link: &link})
	if err != nil {
		t.Fatalf("update resource: %v", err)
	}
	if updated.Link == nil || *updated.Link != link {
		t.Fatalf("link not updated")
	}
	if len(cache.deletes) != 1 || cache.deletes[0] != "resources:list:*" {
		t.Fatalf("unexpected invalidations %v", cache.deletes)
	}

	if err := res.DeleteResource(ctx, created.ID); err != nil {
		t.Fatalf("delete resource: %v", err)
	}
	if err := res.DeleteResource(ctx, created.ID); !errors.Is(err, usecase.ErrResourceNotFound) {
		t.Fatalf("expected ErrResourceNotFound, got %v", err)
	}
	if len(events.events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events.events))
	}
}

func TestListJobs_CachedResultMatchesRepository(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	cache := newFakeCache()
	jobs := usecase.NewJobUsecase(fx.jobs, cache, time.Minute, nil, quietLogger())
	resources := usecase.NewResourceUsecase(fx.resources, cache, time.Minute, nil, quietLogger())
	poster := register(t, usecase.NewAuthUsecase(fx.users, fx.provider, quietLogger()), "poster@example.com", "09175555555").User

	if _, err := jobs.CreateJob(ctx, poster.ID, usecase.CreateJobInput{Title: "Data Entry Clerk", Company: "Bayan Corp", Location: "Las Piñas", Description: "Encode"}); err != nil {
		t.Fatalf("create job: %v", err)
	}
	if _, err := resources.CreateResource(ctx, usecase.CreateResourceInput{Title: "Desk", Organization: "DOLE", Category: "Skills Training", Description: "Help"}); err != nil {
		t.Fatalf("create resource: %v", err)
	}

	jobFilters := []job.Filter{
		{Search: "data entry"},
		{Search: "data  entry"},
		{Search: "DATA\tENTRY "},
		{Location: "las  piñas"},
		{Location: "LAS PIÑAS"},
	}
	for _, f := range jobFilters {
		direct, err := fx.jobs.List(ctx, f)
		if err != nil {
			t.Fatalf("repo list %q: %v", f.Search, err)
		}
		viaCache, err := jobs.ListJobs(ctx, f)
		if err != nil {
			t.Fatalf("usecase list %q: %v", f.Search, err)
		}
		if len(direct) != len(viaCache) {
			t.Fatalf("filter %+v: repository=%d cached=%d", f, len(direct), len(viaCache))
		}
	}

	for _, c := range []string{"skills training", "skills   training", " SKILLS TRAINING"} {
		f := resource.Filter{Category: c}
		direct, err := fx.resources.List(ctx, f)
		if err != nil {
			t.Fatalf("repo list: %v", err)
		}
		viaCache, err := resources.ListResources(ctx, f)
		if err != nil {
			t.Fatalf("usecase list: %v", err)
		}
		if len(direct) != 1 || len(viaCache) != 1 {
			t.Fatalf("category %q: repository=%d cached=%d", c, len(direct), len(viaCache))
		}
	}
	if cache.hits == 0 {
		t.Fatalf("expected equivalent filters to hit the cache")
	}
}

func TestListCacheKeys(t *testing.T) {
	a := usecase.JobsListCacheKey(job.Filter{Search: " Encoder  Job ", Tags: []string{"Youth", "pwds"}})
	b := usecase.JobsListCacheKey(job.Filter{Search: "encoder job", Tags: []string{"PWDs", "youth"}, Limit: job.DefaultLimit})
	if a != b {
		t.Fatalf("equivalent filters must share a key: %s != %s", a, b)
	}
	if !strings.HasPrefix(a, "jobs:list:") {
		t.Fatalf("unexpected prefix %s", a)
	}
	if c := usecase.JobsListCacheKey(job.Filter{Search: "encoder job", Offset: 50}); c == a {
		t.Fatalf("offset must change the key")
	}

	r := usecase.ResourcesListCacheKey(resource.Filter{Category: "Health"})
	if !strings.HasPrefix(r, "resources:list:") {
		t.Fatalf("unexpected prefix %s", r)
	}
	if r2 := usecase.ResourcesListCacheKey(resource.Filter{Category: "health", Limit: 500}); r2 != usecase.ResourcesListCacheKey(resource.Filter{Category: "HEALTH", Limit: resource.MaxLimit}) {
		t.Fatalf("limit must be clamped before hashing")
	}
}

package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dsaheb/dsahebapi/internal/models"
	"github.com/dsaheb/dsahebapi/internal/repository"
	"github.com/sirupsen/logrus"
)

var errBoom = errors.New("boom")

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type fakeUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{users: make(map[string]*models.User)}
	for _, u := range users {
		f.users[u.Mobile] = u
	}
	return f
}

func (f *fakeUsers) GetByMobile(_ context.Context, mobile string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[mobile]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.Mobile]; ok {
		return repository.ErrUserExists
	}
	cp := *user
	f.users[user.Mobile] = &cp
	return nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, mobile string, patch models.ProfilePatch) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[mobile]
	if !ok {
		return nil, nil
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) SetVerified(_ context.Context, mobile string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[mobile]; ok {
		u.IsVerified = true
	}
	return nil
}

func (f *fakeUsers) SetPassword(_ context.Context, mobile, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[mobile]; ok {
		u.PasswordHash = hash
	}
	return nil
}

type fakeCodes struct {
	mu    sync.Mutex
	codes []*models.OneTimeCode
}

func (f *fakeCodes) Create(_ context.Context, code *models.OneTimeCode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *code
	f.codes = append(f.codes, &cp)
	return nil
}

func (f *fakeCodes) LatestUnverified(_ context.Context, phone string) (*models.OneTimeCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *models.OneTimeCode
	for _, c := range f.codes {
		if c.PhoneNumber != phone || c.IsVerified {
			continue
		}
		if latest == nil || c.GetSK() > latest.GetSK() {
			latest = c
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (f *fakeCodes) MarkSent(_ context.Context, code *models.OneTimeCode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.codes {
		if c.ID == code.ID {
			c.IsSent = true
		}
	}
	return nil
}

func (f *fakeCodes) MarkVerified(_ context.Context, code *models.OneTimeCode) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.codes {
		if c.ID == code.ID {
			if c.IsVerified {
				return false, nil
			}
			c.IsVerified = true
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCodes) get(id string) models.OneTimeCode {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.codes {
		if c.ID == id {
			return *c
		}
	}
	return models.OneTimeCode{}
}

// fakeAttempts counts failures strictly after the window start, like the
// sort-key range query does.
type fakeAttempts struct {
	mu       sync.Mutex
	attempts []*models.LoginAttempt
}

func (f *fakeAttempts) Append(_ context.Context, a *models.LoginAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *a
	f.attempts = append(f.attempts, &cp)
	return nil
}

func (f *fakeAttempts) CountFailuresSince(_ context.Context, userID string, since time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, a := range f.attempts {
		if a.UserID == userID && !a.Successful && a.AttemptedAt.After(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeAttempts) MarkAllSuccessful(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.attempts {
		if a.UserID == userID {
			a.Successful = true
		}
	}
	return nil
}

type fakeTokens struct {
	mu     sync.Mutex
	tokens map[string]models.OutstandingToken
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{tokens: make(map[string]models.OutstandingToken)}
}

func (f *fakeTokens) Store(_ context.Context, t *models.OutstandingToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[t.JTI] = *t
	return nil
}

func (f *fakeTokens) ListByUser(_ context.Context, userID string) ([]models.OutstandingToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.OutstandingToken
	for _, t := range f.tokens {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTokens) Delete(_ context.Context, _ string, jti string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, jti)
	return nil
}

type fakeBlacklist struct {
	mu      sync.Mutex
	entries map[string]time.Duration
	err     error
}

func newFakeBlacklist() *fakeBlacklist {
	return &fakeBlacklist{entries: make(map[string]time.Duration)}
}

func (f *fakeBlacklist) Add(_ context.Context, jti string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if ttl > 0 {
		f.entries[jti] = ttl
	}
	return nil
}

func (f *fakeBlacklist) Contains(_ context.Context, jti string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.entries[jti]
	return ok, nil
}

type sentMessage struct {
	phone, body string
}

// captureMessenger records messages instead of sending them.
type captureMessenger struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (m *captureMessenger) Send(_ context.Context, phone, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMessage{phone: phone, body: message})
	return nil
}

func (m *captureMessenger) last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return ""
	}
	return m.sent[len(m.sent)-1].body
}

type publishedEvent struct {
	subject string
	data    interface{}
}

type capturePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *capturePublisher) Publish(_ context.Context, subject string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{subject: subject, data: data})
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func (p *capturePublisher) subjects() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.subject)
	}
	return out
}

// fakeScoped keeps rows in memory, keyed by the accessors it is built with.
type fakeScoped[T any] struct {
	mu      sync.Mutex
	rows    []*T
	nextID  uint
	scopeOf func(*T) any
	idOf    func(*T) any
	setID   func(*T, uint)
}

func (f *fakeScoped[T]) Create(_ context.Context, row *T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	if f.setID != nil {
		f.setID(row, f.nextID)
	}
	cp := *row
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeScoped[T]) List(_ context.Context, scope any) ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []T
	for _, r := range f.rows {
		if f.scopeOf(r) == scope {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeScoped[T]) Get(_ context.Context, scope, id any) (*T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if f.scopeOf(r) == scope && f.idOf(r) == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeScoped[T]) Save(_ context.Context, row *T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.rows {
		if f.idOf(r) == f.idOf(row) {
			cp := *row
			f.rows[i] = &cp
			return nil
		}
	}
	return errors.New("row not found")
}

func (f *fakeScoped[T]) Delete(_ context.Context, scope, id any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.rows {
		if f.scopeOf(r) == scope && f.idOf(r) == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeScoped[T]) FindMany(_ context.Context, scope any, ids []uint) ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := idSet(ids)
	var out []T
	for _, r := range f.rows {
		id, ok := f.idOf(r).(uint)
		if !ok || f.scopeOf(r) != scope {
			continue
		}
		if _, hit := want[id]; hit {
			out = append(out, *r)
		}
	}
	return out, nil
}

func newFakeEducations() *fakeScoped[models.Education] {
	return &fakeScoped[models.Education]{
		scopeOf: func(r *models.Education) any { return r.UserID },
		idOf:    func(r *models.Education) any { return r.ID },
		setID:   func(r *models.Education, id uint) { r.ID = id },
	}
}

func newFakeExperiences() *fakeScoped[models.Experience] {
	return &fakeScoped[models.Experience]{
		scopeOf: func(r *models.Experience) any { return r.UserID },
		idOf:    func(r *models.Experience) any { return r.ID },
		setID:   func(r *models.Experience, id uint) { r.ID = id },
	}
}

func newFakeRegistrations() *fakeScoped[models.RegistrationEntry] {
	return &fakeScoped[models.RegistrationEntry]{
		scopeOf: func(r *models.RegistrationEntry) any { return r.UserID },
		idOf:    func(r *models.RegistrationEntry) any { return r.ID },
		setID:   func(r *models.RegistrationEntry, id uint) { r.ID = id },
	}
}

type fakeListings struct {
	mu       sync.Mutex
	listings map[uint]*models.Listing
	nextID   uint
}

func newFakeListings() *fakeListings {
	return &fakeListings{listings: make(map[uint]*models.Listing)}
}

func (f *fakeListings) Create(_ context.Context, l *models.Listing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	l.ID = f.nextID
	cp := *l
	f.listings[l.ID] = &cp
	return nil
}

func (f *fakeListings) Get(_ context.Context, id uint, activeOnly bool) (*models.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.listings[id]
	if !ok || (activeOnly && !l.Status) {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (f *fakeListings) Save(_ context.Context, l *models.Listing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *l
	f.listings[l.ID] = &cp
	return nil
}

func (f *fakeListings) Deactivate(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l, ok := f.listings[id]; ok {
		l.Status = false
	}
	return nil
}

func (f *fakeListings) SetImage(_ context.Context, id uint, kind models.ImageKind, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.listings[id]
	if !ok {
		return nil
	}
	if kind == models.ImageProfile {
		l.ProfileImage = key
	} else {
		l.BannerImage = key
	}
	return nil
}

func (f *fakeListings) ListByUser(_ context.Context, userID string) ([]models.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Listing
	for _, l := range f.listings {
		if l.UserID == userID && l.Status {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeListings) Search(_ context.Context, userID, query string, limit int) ([]models.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	query = strings.ToLower(strings.TrimSpace(query))
	var out []models.Listing
	for _, l := range f.listings {
		if !l.Status || (userID != "" && l.UserID != userID) {
			continue
		}
		if strings.Contains(l.SearchTags, query) {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeListings) SlugTaken(_ context.Context, slug string, excludeID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.listings {
		if l.Slug == slug && l.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type fakeRefs struct {
	services        map[uint]models.Service
	specializations map[uint]models.Specialization
	memberships     map[uint]models.Membership
	states          map[uint]models.State
	cities          map[uint]models.City
	locations       map[uint]models.Location
}

func newFakeRefs() *fakeRefs {
	return &fakeRefs{
		services: map[uint]models.Service{
			1: {ID: 1, Name: "Cardiology Consult"},
			2: {ID: 2, Name: "ECG"},
		},
		specializations: map[uint]models.Specialization{
			1: {ID: 1, Name: "Cardiologist"},
		},
		memberships: map[uint]models.Membership{
			1: {ID: 1, Name: "IMA"},
		},
		states:    map[uint]models.State{1: {ID: 1, Name: "Maharashtra"}},
		cities:    map[uint]models.City{1: {ID: 1, Name: "Pune", StateID: 1}},
		locations: map[uint]models.Location{1: {ID: 1, Name: "Kothrud", CityID: 1}},
	}
}

func pick[T any](rows map[uint]T, ids []uint) []T {
	var out []T
	for id := range idSet(ids) {
		if row, ok := rows[id]; ok {
			out = append(out, row)
		}
	}
	return out
}

func lookup[T any](rows map[uint]T, id uint) *T {
	row, ok := rows[id]
	if !ok {
		return nil
	}
	return &row
}

func (f *fakeRefs) ServicesByIDs(_ context.Context, ids []uint) ([]models.Service, error) {
	return pick(f.services, ids), nil
}

func (f *fakeRefs) SpecializationsByIDs(_ context.Context, ids []uint) ([]models.Specialization, error) {
	return pick(f.specializations, ids), nil
}

func (f *fakeRefs) MembershipsByIDs(_ context.Context, ids []uint) ([]models.Membership, error) {
	return pick(f.memberships, ids), nil
}

func (f *fakeRefs) State(_ context.Context, id uint) (*models.State, error) {
	return lookup(f.states, id), nil
}

func (f *fakeRefs) City(_ context.Context, id uint) (*models.City, error) {
	return lookup(f.cities, id), nil
}

func (f *fakeRefs) Location(_ context.Context, id uint) (*models.Location, error) {
	return lookup(f.locations, id), nil
}

type storedObject struct {
	contentType string
	body        []byte
}

type fakeMedia struct {
	mu      sync.Mutex
	objects map[string]storedObject
	err     error
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{objects: make(map[string]storedObject)}
}

func (m *fakeMedia) Put(_ context.Context, key, contentType string, body io.Reader, _ int64) error {
	if m.err != nil {
		return m.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = storedObject{contentType: contentType, body: data}
	return nil
}

func (m *fakeMedia) URL(key string) string {
	return "https://media.example.test/" + key
}

func ptr[T any](v T) *T {
	return &v
}

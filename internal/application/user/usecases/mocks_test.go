package usecases

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/orris-inc/deskhub/internal/domain/user"
	vo "github.com/orris-inc/deskhub/internal/domain/user/valueobjects"
	"github.com/orris-inc/deskhub/internal/infrastructure/auth"
	"github.com/orris-inc/deskhub/internal/infrastructure/cache"
	"github.com/orris-inc/deskhub/internal/shared/logger"
)

// mockUserRepository keeps users in memory; any Func field overrides the default.
type mockUserRepository struct {
	mu     sync.Mutex
	users  map[uint]*user.User
	nextID uint

	CreateFunc     func(ctx context.Context, u *user.User) error
	GetByEmailFunc func(ctx context.Context, email string) (*user.User, error)
	UpdateFunc     func(ctx context.Context, u *user.User) error

	updates int
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: map[uint]*user.User{}}
}

func (m *mockUserRepository) Create(ctx context.Context, u *user.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, u)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email().String() == u.Email().String() {
			return user.ErrEmailTaken
		}
		if existing.Username().String() == u.Username().String() {
			return user.ErrUsernameTaken
		}
	}
	m.nextID++
	if err := u.SetID(m.nextID); err != nil {
		return err
	}
	m.users[u.ID()] = u
	return nil
}

func (m *mockUserRepository) GetByID(_ context.Context, id uint) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id], nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email().String() == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepository) GetByUsername(_ context.Context, username string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username().String() == username {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, err := m.GetByEmail(ctx, email)
	return u != nil, err
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	u, err := m.GetByUsername(ctx, username)
	return u != nil, err
}

func (m *mockUserRepository) Update(ctx context.Context, u *user.User) error {
	m.mu.Lock()
	m.updates++
	m.mu.Unlock()
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, u)
	}
	return nil
}

// mockSessionRepository keeps sessions in memory and enforces the unique token hash.
type mockSessionRepository struct {
	mu       sync.Mutex
	sessions map[uint]*user.Session
	nextID   uint

	CreateFunc          func(ctx context.Context, s *user.Session) error
	GetByIDFunc         func(ctx context.Context, id uint) (*user.Session, error)
	DeleteAllExceptFunc func(ctx context.Context, userID, keepID uint) (int64, error)
}

func newMockSessionRepository() *mockSessionRepository {
	return &mockSessionRepository{sessions: map[uint]*user.Session{}}
}

func (m *mockSessionRepository) Create(ctx context.Context, s *user.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, s)
	}
	return m.insert(s)
}

func (m *mockSessionRepository) insert(s *user.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.sessions {
		if existing.TokenHash == s.TokenHash {
			return user.ErrDuplicateSessionToken
		}
	}
	m.nextID++
	s.ID = m.nextID
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *mockSessionRepository) GetByID(ctx context.Context, id uint) (*user.Session, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, user.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *mockSessionRepository) GetByTokenHash(_ context.Context, tokenHash string) (*user.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.TokenHash == tokenHash {
			cp := *s
			return &cp, nil
		}
	}
	return nil, user.ErrSessionNotFound
}

func (m *mockSessionRepository) ListByUser(_ context.Context, userID uint) ([]*user.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*user.Session
	for _, s := range m.sessions {
		if s.UserID == userID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *mockSessionRepository) TouchLastUsed(_ context.Context, id uint, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok && s.LastUsedAt.Before(at) {
		s.LastUsedAt = at
	}
	return nil
}

func (m *mockSessionRepository) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *mockSessionRepository) DeleteAllExcept(ctx context.Context, userID, keepID uint) (int64, error) {
	if m.DeleteAllExceptFunc != nil {
		return m.DeleteAllExceptFunc(ctx, userID, keepID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.sessions {
		if s.UserID == userID && id != keepID {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

func (m *mockSessionRepository) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.sessions {
		if !s.ExpiresAt.After(before) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

func (m *mockSessionRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// stubHasher stores "hashed:<password>" so tests stay fast.
type stubHasher struct {
	mu         sync.Mutex
	dummyCalls int
}

func (h *stubHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (h *stubHasher) Verify(password, hash string) error {
	if hash != "hashed:"+password {
		return fmt.Errorf("password verification failed")
	}
	return nil
}

func (h *stubHasher) VerifyDummy(string) {
	h.mu.Lock()
	h.dummyCalls++
	h.mu.Unlock()
}

type stubTokenIssuer struct {
	IssueFunc func(subjectID uint, ttl time.Duration) (string, time.Time, error)
	issued    int
}

func (s *stubTokenIssuer) Issue(subjectID uint, ttl time.Duration) (string, time.Time, error) {
	s.issued++
	if s.IssueFunc != nil {
		return s.IssueFunc(subjectID, ttl)
	}
	return fmt.Sprintf("token-%d-%d", subjectID, s.issued), testNow.Add(ttl), nil
}

type sentAlert struct {
	to, username, device, ip, when string
}

type mockAlertSender struct {
	alerts chan sentAlert
}

func newMockAlertSender() *mockAlertSender {
	return &mockAlertSender{alerts: make(chan sentAlert, 4)}
}

func (m *mockAlertSender) SendLoginAlert(to, username, device, ipAddress, when string) error {
	m.alerts <- sentAlert{to: to, username: username, device: device, ip: ipAddress, when: when}
	return nil
}

type mockOAuthClient struct {
	GetAuthURLFunc   func(state string) (string, string, error)
	ExchangeCodeFunc func(ctx context.Context, code, verifier string) (string, error)
	GetUserInfoFunc  func(ctx context.Context, accessToken string) (*auth.OAuthUserInfo, error)
}

func (m *mockOAuthClient) GetAuthURL(state string) (string, string, error) {
	if m.GetAuthURLFunc != nil {
		return m.GetAuthURLFunc(state)
	}
	return "https://accounts.example.com/auth?state=" + state, "verifier-" + state, nil
}

func (m *mockOAuthClient) ExchangeCode(ctx context.Context, code, verifier string) (string, error) {
	if m.ExchangeCodeFunc != nil {
		return m.ExchangeCodeFunc(ctx, code, verifier)
	}
	return "access-" + code, nil
}

func (m *mockOAuthClient) GetUserInfo(ctx context.Context, accessToken string) (*auth.OAuthUserInfo, error) {
	if m.GetUserInfoFunc != nil {
		return m.GetUserInfoFunc(ctx, accessToken)
	}
	return &auth.OAuthUserInfo{
		Email:         "grace@example.com",
		Name:          "Grace",
		EmailVerified: true,
		Provider:      "google",
		ProviderID:    "g-1",
	}, nil
}

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func testLogger() logger.Interface {
	return logger.NewNopLogger()
}

func newTestStateStore() *cache.MemoryStateStore {
	return cache.NewMemoryStateStore(cache.NewMemoryStore(), "oauth:state:", 10*time.Minute)
}

func newTestOpener(repo user.SessionRepository, tokens TokenIssuer) *SessionOpener {
	return NewSessionOpener(repo, tokens, 7*24*time.Hour, nil, testLogger()).WithClock(func() time.Time { return testNow })
}

// seedUser stores an active user with the given password.
func seedUser(repo *mockUserRepository, username, email, password string) *user.User {
	un, err := vo.NewUsername(username)
	if err != nil {
		panic(err)
	}
	em, err := vo.NewEmail(email)
	if err != nil {
		panic(err)
	}
	u, err := user.NewUser(un, em, "Europe/Berlin")
	if err != nil {
		panic(err)
	}
	if password != "" {
		pw, err := vo.NewPassword(password)
		if err != nil {
			panic(err)
		}
		if err := u.SetPassword(pw, &stubHasher{}); err != nil {
			panic(err)
		}
	}
	if err := repo.Create(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}

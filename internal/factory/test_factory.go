package factory

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/rconstore/internal/api/sse"
	"github.com/mcoot/rconstore/internal/dependencies/mocks"
	"github.com/mcoot/rconstore/internal/events"
	"github.com/mcoot/rconstore/internal/locking"
	"github.com/mcoot/rconstore/internal/services/auth"
	"github.com/mcoot/rconstore/internal/storage/memory"
	"github.com/mcoot/rconstore/internal/testutil"
)

// Credentials of the operator every TestApp accepts
const (
	TestOperator = "admin"
	TestPassword = "correct-horse"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock     *mocks.MockClock
	MockIDs       *mocks.MockIDs
	MockPublisher *mocks.MockPublisher
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockIDs := mocks.NewMockIDs()
	mockPublisher := mocks.NewMockPublisher()
	logger := testutil.NopLogger()

	hub := sse.NewHub(logger)
	go hub.Run()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	authCfg := auth.DefaultConfig()
	authCfg.Secret = "test-secret"
	authCfg.Operators = map[string]string{TestOperator: string(hash)}

	publisher := events.Multi{mockPublisher, hub}
	app, err := newWithDependencies(store, locking.NewKeyedMutex(), publisher, mockClock, mockIDs, authCfg, 0, logger)
	if err != nil {
		panic(err)
	}
	app.Hub = hub
	app.closers = []func() error{func() error { hub.Close(); return nil }}

	return &TestApp{
		App:           app,
		MockClock:     mockClock,
		MockIDs:       mockIDs,
		MockPublisher: mockPublisher,
	}
}

// Login returns a session token for the test operator
func (t *TestApp) Login() string {
	session, err := t.AuthService.Login(TestOperator, TestPassword)
	if err != nil {
		panic(err)
	}
	return session.Token
}

package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/rconstore/internal/api"
	"github.com/mcoot/rconstore/internal/factory"
	"github.com/mcoot/rconstore/internal/services/auth"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "rconctl-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/rconctl")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	// Create temp token file
	tokenFile := filepath.Join(t.TempDir(), "token")

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  tokenFile,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) runWithToken(token string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token", token,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	server   *http.Server
	addr     string
	shutdown func()
}

const (
	operator = "admin"
	password = "e2e-password"
	steamID  = "76561198000000077"
)

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	// Create application
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	app, err := factory.New(context.Background(), factory.Config{
		Logger: logger,
		AuthConfig: auth.Config{
			Secret:          "e2e-secret",
			SessionDuration: time.Hour,
			Operators:       map[string]string{operator: string(hash)},
		},
	})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		Clock:           app.Clock,
		AuthService:     app.AuthService,
		PlayerService:   app.PlayerService,
		NameService:     app.NameService,
		SessionService:  app.SessionService,
		PenaltyService:  app.PenaltyService,
		AuditService:    app.AuditService,
		MapService:      app.MapService,
		LogService:      app.LogService,
		SettingsService: app.SettingsService,
		Hub:             app.Hub,
		SessionLimit:    app.SessionLimit,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		server: server,
		addr:   serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
			_ = app.Close()
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// login runs the login command so later commands pick the token up from the token file
func login(t *testing.T, cli *cliRunner) {
	t.Helper()
	output, err := cli.run("login", "--user", operator, "--pass", password)
	require.NoError(t, err, "output: %s", output)
}

// Response types for JSON parsing
type authResponse struct {
	Operator     string `json:"operator"`
	SessionToken string `json:"session_token"`
}

type playerResponse struct {
	ID        int64  `json:"id"`
	SteamID64 string `json:"steam_id_64"`
}

type snapshotResponse struct {
	SteamID64     string `json:"steam_id_64"`
	SessionsCount int    `json:"sessions_count"`
	Names         []struct {
		Name string `json:"name"`
	} `json:"names"`
	PenaltyCount map[string]int `json:"penalty_count"`
	Blacklist    *struct {
		IsBlacklisted bool   `json:"is_blacklisted"`
		By            string `json:"by"`
	} `json:"blacklist"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_Login(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("login", "--user", operator, "--pass", password)
	require.NoError(t, err, "output: %s", output)

	var resp authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, operator, resp.Operator)
	assert.NotEmpty(t, resp.SessionToken)

	// Token passed explicitly works too
	output, err = cli.runWithToken(resp.SessionToken, "player", "create", steamID)
	require.NoError(t, err, "output: %s", output)

	// Wrong password fails
	_, err = cli.run("login", "--user", operator, "--pass", "wrong")
	assert.Error(t, err)
}

func TestCLI_RequiresLogin(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("player", "get", steamID)
	assert.Error(t, err)
	assert.Contains(t, output, "UNAUTHORIZED")
}

func TestCLI_PlayerCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)
	login(t, cli)

	output, err := cli.run("player", "create", steamID)
	require.NoError(t, err, "output: %s", output)
	var player playerResponse
	require.NoError(t, json.Unmarshal([]byte(output), &player))
	assert.Equal(t, steamID, player.SteamID64)

	output, err = cli.run("player", "seen", steamID, "Gunner")
	require.NoError(t, err, "output: %s", output)
	var msg messageResponse
	require.NoError(t, json.Unmarshal([]byte(output), &msg))
	assert.Equal(t, "Name recorded", msg.Message)

	output, err = cli.run("player", "session", "start", steamID)
	require.NoError(t, err, "output: %s", output)
	output, err = cli.run("player", "session", "end", steamID)
	require.NoError(t, err, "output: %s", output)

	// No session left to end
	output, err = cli.run("player", "session", "end", steamID)
	assert.Error(t, err)
	assert.Contains(t, output, "NO_OPEN_SESSION")

	output, err = cli.run("mod", "action", steamID, "KICK", "--reason", "afk")
	require.NoError(t, err, "output: %s", output)
	output, err = cli.run("mod", "blacklist", steamID, "--reason", "cheating")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("player", "get", steamID)
	require.NoError(t, err, "output: %s", output)
	var snap snapshotResponse
	require.NoError(t, json.Unmarshal([]byte(output), &snap))
	assert.Equal(t, steamID, snap.SteamID64)
	assert.Equal(t, 1, snap.SessionsCount)
	require.Len(t, snap.Names, 1)
	assert.Equal(t, "Gunner", snap.Names[0].Name)
	assert.Equal(t, 1, snap.PenaltyCount["KICK"])
	require.NotNil(t, snap.Blacklist)
	assert.True(t, snap.Blacklist.IsBlacklisted)
	assert.Equal(t, operator, snap.Blacklist.By)

	output, err = cli.run("player", "delete", steamID)
	require.NoError(t, err, "output: %s", output)
	output, err = cli.run("player", "get", steamID)
	assert.Error(t, err)
	assert.Contains(t, output, "PLAYER_NOT_FOUND")
}

func TestCLI_AuditTrail(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)
	login(t, cli)

	_, err := cli.run("player", "create", steamID)
	require.NoError(t, err)

	output, err := cli.run("audit", "--user", operator)
	require.NoError(t, err, "output: %s", output)

	var entries []struct {
		Username string `json:"username"`
		Command  string `json:"command"`
		Result   string `json:"command_result"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "PUT /api/v1/players/"+steamID, entries[0].Command)
	assert.Equal(t, "200", entries[0].Result)
}

func TestCLI_SettingsCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)
	login(t, cli)

	output, err := cli.run("settings", "set", "welcome_message", `"Have fun"`)
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("settings", "get", "welcome_message")
	require.NoError(t, err, "output: %s", output)
	assert.JSONEq(t, `"Have fun"`, output)

	output, err = cli.run("settings", "set", "votekick", `{"enabled": true, "threshold_percentage": 500}`)
	assert.Error(t, err)
	assert.Contains(t, output, "INVALID_SETTING_VALUE")
}

func TestCLI_MapCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)
	login(t, cli)

	output, err := cli.run("maps", "start", "stmereeglise_warfare", "--server", "2")
	require.NoError(t, err, "output: %s", output)
	output, err = cli.run("maps", "end", "--server", "2")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("maps", "list", "--server", "2")
	require.NoError(t, err, "output: %s", output)
	var maps []struct {
		MapName string  `json:"map_name"`
		End     *string `json:"end"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &maps))
	require.Len(t, maps, 1)
	assert.Equal(t, "stmereeglise_warfare", maps[0].MapName)
	assert.NotNil(t, maps[0].End)
}

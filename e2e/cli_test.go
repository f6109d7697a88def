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
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/classgold/internal/api"
	"github.com/mcoot/classgold/internal/api/response"
	"github.com/mcoot/classgold/internal/factory"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	projectRoot := findProjectRoot(t)

	binaryPath := filepath.Join(t.TempDir(), "classgold-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/classgold")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  filepath.Join(t.TempDir(), "token"),
	}
}

// withTokenFile returns a runner sharing the binary but keeping its own session
func (r *cliRunner) withTokenFile(t *testing.T) *cliRunner {
	return &cliRunner{
		binaryPath: r.binaryPath,
		serverURL:  r.serverURL,
		tokenFile:  filepath.Join(t.TempDir(), "token"),
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

// runJSON runs a command expected to succeed and decodes its output
func (r *cliRunner) runJSON(t *testing.T, v any, args ...string) {
	t.Helper()
	output, err := r.run(args...)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), v), "output: %s", output)
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

func startTestServer(t *testing.T) string {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:             logger,
		AuthService:        app.AuthService,
		CatalogStore:       app.CatalogStore,
		Reconciler:         app.Reconciler,
		LeaderboardService: app.LeaderboardService,
		WalletService:      app.WalletService,
		GameBridge:         app.GameBridge,
		HubManager:         app.HubManager,
	})

	server := &http.Server{Handler: router}
	go func() {
		if err := server.Serve(listener); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
		_ = app.Close()
	})

	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")
	return serverURL
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

func TestCLI_HealthCheck(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	var resp struct {
		Status string `json:"status"`
	}
	cli.runJSON(t, &resp, "health")
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_AccountCommands(t *testing.T) {
	cli := newCLIRunner(t, startTestServer(t))

	var auth response.AuthResponse
	cli.runJSON(t, &auth, "account", "register",
		"--name", "Alice", "--user", "alice", "--pass", "secret123", "--class", "5-A")
	assert.Equal(t, "student", auth.Account.Role)
	assert.NotEmpty(t, auth.SessionToken)

	// Token is saved in the token file
	var me response.MeResponse
	cli.runJSON(t, &me, "account", "me")
	assert.Equal(t, auth.Account.ID, me.Account.ID)
	assert.True(t, me.WelcomeGrantApplied)
	assert.Equal(t, 100, me.Account.Balance)

	output, err := cli.run("account", "logout")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("account", "me")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "unauthorized")

	cli.runJSON(t, &auth, "account", "login", "--user", "alice", "--pass", "secret123")
	cli.runJSON(t, &me, "account", "me")
	assert.False(t, me.WelcomeGrantApplied)
	assert.Equal(t, 100, me.Account.Balance)
}

func TestCLI_ClassroomFlow(t *testing.T) {
	serverURL := startTestServer(t)
	teacher := newCLIRunner(t, serverURL)
	student := teacher.withTokenFile(t)

	var auth response.AuthResponse
	teacher.runJSON(t, &auth, "account", "register",
		"--name", "Ms Frizzle", "--user", "frizzle", "--pass", "secret123", "--role", "teacher", "--class", "5-A")
	student.runJSON(t, &auth, "account", "register",
		"--name", "Alice", "--user", "alice", "--pass", "secret123", "--class", "5-A")
	studentID := auth.Account.ID

	var me response.MeResponse
	student.runJSON(t, &me, "account", "me")
	require.Equal(t, 100, me.Account.Balance)

	// Earn gold through a game session
	var game response.GameSession
	student.runJSON(t, &game, "game", "start")
	var msg response.GameMessageResponse
	student.runJSON(t, &msg, "game", "send", game.ID, "ADD_COINS|150")
	require.NotNil(t, msg.Account)
	assert.Equal(t, 250, msg.Account.Balance)
	student.runJSON(t, &msg, "game", "send", game.ID, "CLOSE_GAME")
	assert.True(t, msg.Closed)

	var catalog response.Catalog
	student.runJSON(t, &catalog, "shop", "catalog")
	require.Len(t, catalog.Tiers, 3)
	assert.Equal(t, 200, catalog.Tiers[1].Items[0].Price)

	// Teacher raises the price after the student loaded the catalog
	var item response.Item
	teacher.runJSON(t, &item, "shop", "price", "m1", "240")
	assert.Equal(t, 240, item.Price)

	output, err := student.run("shop", "buy", "m1", "--price", "200")
	assert.Error(t, err)
	assert.Contains(t, output, "PRICE_CHANGED")

	var purchase response.PurchaseResponse
	student.runJSON(t, &purchase, "shop", "buy", "m1", "--price", "240")
	assert.Equal(t, "purchased", purchase.Outcome)
	assert.Equal(t, 10, purchase.Account.Balance)

	output, err = student.run("shop", "buy", "m1", "--price", "240")
	assert.Error(t, err)
	assert.Contains(t, output, "INSUFFICIENT_FUNDS")

	output, err = teacher.run("shop", "price", "m1", "cheap")
	assert.Error(t, err)
	assert.Contains(t, output, "INVALID_PRICE")

	var board response.Leaderboard
	student.runJSON(t, &board, "class", "leaderboard", "5-A")
	require.Len(t, board.Entries, 1)
	assert.Equal(t, studentID, board.Entries[0].AccountID)
	assert.True(t, board.Entries[0].IsSelf)

	var activity response.ClassActivity
	teacher.runJSON(t, &activity, "class", "activity", "5-A")
	require.Len(t, activity.Students, 1)
	assert.Len(t, activity.Students[0].Activity, 3)

	output, err = student.run("class", "activity", "5-A")
	assert.Error(t, err)
	assert.Contains(t, output, "NOT_TEACHER")
}

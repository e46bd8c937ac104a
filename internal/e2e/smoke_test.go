package e2e

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listedPool struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`
	Members  int    `json:"members"`
	Joined   bool   `json:"joined"`
}

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)

	stdout, stderr, err := runPoolify(t, binaryPath, home, "dashboard", "--once")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "-> login")

	_, stderr, err = runPoolify(t, binaryPath, home, "login", "--email", "neha@example.com", "--hostel", "Hostel A")
	require.NoError(t, err, "stderr: %s", stderr)

	stdout, stderr, err = runPoolify(t, binaryPath, home, "pool", "list", "--output", "json")
	require.NoError(t, err, "stderr: %s", stderr)

	var pools []listedPool
	require.NoError(t, json.Unmarshal([]byte(stdout), &pools))
	require.Len(t, pools, 3)

	stdout, stderr, err = runPoolify(t, binaryPath, home, "pool", "join", pools[1].ID)
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Joined Blinkit pool!")

	stdout, stderr, err = runPoolify(t, binaryPath, home, "dashboard", "--once")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Hi, neha (Hostel A)")
	assert.Contains(t, stdout, "[joined]")
	assert.FileExists(t, filepath.Join(home, ".poolify", "store.toml"))
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "poolify-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/poolify")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build poolify binary: %s", string(output))
	return binaryPath
}

func runPoolify(t *testing.T, binaryPath, home string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "HOME="+home)
	cmd.Dir = home

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}

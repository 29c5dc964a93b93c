package cmd

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"frontdesk/ai"
	"frontdesk/configs"
	"frontdesk/events"
	"frontdesk/routes"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSeedAndImportTables(t *testing.T) {
	dir := t.TempDir()
	dbFile := filepath.Join(dir, "fd.db")

	out, err := run(t, "seed-tables", "--db-source", dbFile, "--from", "101", "--to", "103")
	require.NoError(t, err)
	assert.Contains(t, out, "created 3 tables")

	_, err = run(t, "seed-tables", "--db-source", dbFile, "--from", "103", "--to", "104")
	assert.Error(t, err)

	csvPath := filepath.Join(dir, "tables.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("name,capacity\nPatio 1,2\nPatio 2,6\n"), 0o644))
	out, err = run(t, "import-tables", "--db-source", dbFile, csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 2 tables")
}

func TestRemoteCommands(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dbFile := filepath.Join(t.TempDir(), "remote.db")
	scfg := &configs.Config{
		DBDriver:      "sqlite",
		DBSource:      dbFile,
		JWTSecret:     "cli-secret",
		JWTTTL:        time.Hour,
		AdminEmail:    "admin@example.com",
		AdminPassword: "admin-pass",
	}
	db, err := configs.ConnectionDB(scfg)
	require.NoError(t, err)
	require.NoError(t, configs.SetupDatabase(db))
	require.NoError(t, configs.SeedCounters(db))
	require.NoError(t, configs.SeedAdmin(db, scfg))

	r := gin.New()
	routes.RegisterRoutes(r, routes.NewApp(db, scfg, events.Nop{}, ai.New(nil), nil))
	srv := httptest.NewServer(r)
	defer srv.Close()

	auth := []string{"--api", srv.URL, "--email", "admin@example.com", "--password", "admin-pass"}

	out, err := run(t, append([]string{"waitlist", "add", "Ali", "--guests", "4"}, auth...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "token #1 for Ali (4)")

	out, err = run(t, append([]string{"waitlist", "list"}, auth...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Ali")

	snap := filepath.Join(t.TempDir(), "snap.json")
	_, err = run(t, append([]string{"snapshot", "pull", "--out", snap}, auth...)...)
	require.NoError(t, err)
	_, err = os.Stat(snap)
	assert.NoError(t, err)

	_, err = run(t, "tables", "click", "missing", "--api", srv.URL, "--token", "bogus")
	assert.Error(t, err)
}

package main

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMemberCommands(t *testing.T) {
	t.Setenv("KNJIZNICA_DB", "")
	dbPath := filepath.Join(t.TempDir(), "test.sqlite3")
	envFile := filepath.Join(t.TempDir(), "none.env")

	out, err := run(t, "init", "--env", envFile, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "4 book statuses, 12 book classes.")

	out, err = run(t, "member", "add", "0001", "Ana", "Ana Novak", "--env", envFile, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Member 0001 added.")

	_, err = run(t, "member", "add", "0001", "Again", "--env", envFile, "--db", dbPath)
	assert.ErrorContains(t, err, "already exists")

	_, err = run(t, "member", "add", "0002", "Bojan", "--env", envFile, "--db", dbPath)
	require.NoError(t, err)

	out, err = run(t, "member", "list", "--env", envFile, "--db", dbPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	var rows []string
	for _, line := range lines {
		if strings.HasPrefix(line, "ID") || strings.HasPrefix(line, "000") {
			rows = append(rows, line)
		}
	}
	require.Len(t, rows, 3)
	assert.Contains(t, rows[1], "Ana Novak")
	assert.True(t, strings.HasPrefix(rows[2], "0002"))
}

func TestMemberAddArgs(t *testing.T) {
	_, err := run(t, "member", "add", "only-id", "--env", "", "--db", filepath.Join(t.TempDir(), "x.sqlite3"))
	assert.Error(t, err)
}

func TestLevelRouter(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := slog.New(&levelRouter{
		stdout: slog.NewTextHandler(&stdout, nil),
		stderr: slog.NewTextHandler(&stderr, nil),
	})

	logger.Info("hello")
	logger.Warn("careful")
	logger.Error("broken")
	logger.Debug("hidden")

	assert.Contains(t, stdout.String(), "hello")
	assert.Contains(t, stdout.String(), "careful")
	assert.NotContains(t, stdout.String(), "broken")
	assert.Contains(t, stderr.String(), "broken")
	assert.NotContains(t, stdout.String()+stderr.String(), "hidden")
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

func TestSetupLoggerJSON(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var stdout, stderr bytes.Buffer
	cleanup, err := setupLogger(&stdout, &stderr, "", false)
	require.NoError(t, err)
	defer cleanup()

	slog.Info("book added", "book", 7)
	assert.Contains(t, stdout.String(), `"msg":"book added"`)
	assert.Contains(t, stdout.String(), `"book":7`)
}

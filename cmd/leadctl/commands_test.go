package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/intent-score/internal/bootstrap"
	"github.com/spec-kit/intent-score/internal/config"
)

func newTestRuntime(t *testing.T) *bootstrap.Runtime {
	t.Helper()
	cfg := &config.Config{
		Storage: config.StorageConfig{Driver: config.StorageDriverMemory, Slot: "lead-storage"},
	}
	rt, err := bootstrap.New(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	return rt
}

func run(t *testing.T, rt *bootstrap.Runtime, args ...string) (string, error) {
	t.Helper()
	out, _, err := runWithStderr(t, rt, args...)
	return out, err
}

func runWithStderr(t *testing.T, rt *bootstrap.Runtime, args ...string) (string, string, error) {
	t.Helper()
	var out, stderr bytes.Buffer
	cmd := newRootCommand(&out, func(context.Context) (*bootstrap.Runtime, error) { return rt, nil })
	cmd.SetArgs(args)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return out.String(), stderr.String(), err
}

func TestScoreCommand_FallsBackWithoutScorer(t *testing.T) {
	rt := newTestRuntime(t)

	out, err := run(t, rt, "score", "--credit", "500", "--income", "50000", "--age", "51+", "--family", "Single")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "fallback", decoded["source"])
	assert.EqualValues(t, 29, decoded["initialScore"])
	assert.NotEmpty(t, decoded["reason"])
	assert.Empty(t, rt.Store.Leads())
}

func TestAddListRemoveClear(t *testing.T) {
	rt := newTestRuntime(t)
	lead := []string{"add", "--phone", "+15551234567", "--email", "a@example.com", "--credit", "760",
		"--income", "1200000", "--age", "26-35", "--family", "Married with Kids"}

	_, err := run(t, rt, lead...)
	require.Error(t, err, "consent is required")
	assert.Empty(t, rt.Store.Leads())

	out, err := run(t, rt, append(lead, "--consent")...)
	require.NoError(t, err)
	var added map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &added))
	assert.EqualValues(t, 100, added["initialScore"])
	id := added["id"].(string)

	out, err = run(t, rt, "list", "--search", "EXAMPLE", "--sort", "creditScore", "--direction", "asc")
	require.NoError(t, err)
	var items []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0]["id"])

	_, err = run(t, rt, "list", "--sort", "nope")
	assert.Error(t, err)

	out, err = run(t, rt, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, `"total": 1`)

	out, err = run(t, rt, "remove", "missing")
	require.NoError(t, err)
	assert.Contains(t, out, `"removed": false`)

	out, err = run(t, rt, "remove", id)
	require.NoError(t, err)
	assert.Contains(t, out, `"removed": true`)

	_, err = run(t, rt, append(lead, "--consent")...)
	require.NoError(t, err)
	out, err = run(t, rt, "clear")
	require.NoError(t, err)
	assert.Contains(t, out, `"removed": 1`)
	assert.Empty(t, rt.Store.Leads())
}

func TestMutatingCommandsWarnOnMemoryDriver(t *testing.T) {
	rt := newTestRuntime(t)

	_, stderr, err := runWithStderr(t, rt, "clear")
	require.NoError(t, err)
	assert.Contains(t, stderr, "STORAGE_DRIVER=memory")

	_, stderr, err = runWithStderr(t, rt, "stats")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "STORAGE_DRIVER=memory")
}

func TestRuntimeClosedWhenCommandFails(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{
		Redis:   config.RedisConfig{Addr: mr.Addr()},
		Storage: config.StorageConfig{Driver: config.StorageDriverRedis, Slot: "lead-storage"},
	}
	rt, err := bootstrap.New(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, rt.Redis.Ping(context.Background()))

	_, stderr, err := runWithStderr(t, rt, "list", "--sort", "nope")
	require.Error(t, err)
	assert.NotContains(t, stderr, "STORAGE_DRIVER=memory")

	assert.Error(t, rt.Redis.Ping(context.Background()))
}

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lotus/internal/itinerary"
	"lotus/pkg/utils"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestNormalizeCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "completion.txt")
	raw := "```json\n{\"title\":\"杭州三日游\",\"destination\":\"杭州\",\"days\":[{\"activities\":[{\"title\":\"西湖游览\",\"category\":\"景点\"},]}]}\n```"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	out, err := run(t, "", "normalize", path, "--timezone", "UTC")
	require.NoError(t, err)

	var outcome itinerary.Outcome
	require.NoError(t, json.Unmarshal([]byte(out), &outcome))
	assert.False(t, outcome.Fallback)
	assert.Equal(t, itinerary.StageGeneral, outcome.RepairStage)
	require.Len(t, outcome.Itinerary.Days, 1)
	assert.Len(t, outcome.Itinerary.Days[0].Activities, 4)
}

func TestNormalizeCommand_stdinFallback(t *testing.T) {
	out, err := run(t, "抱歉，无法回答", "normalize", "-", "--prompt", "去成都玩两天", "--today", "2025-05-01")
	require.NoError(t, err)

	var outcome itinerary.Outcome
	require.NoError(t, json.Unmarshal([]byte(out), &outcome))
	assert.True(t, outcome.Fallback)
	assert.Equal(t, "成都", outcome.Itinerary.Destination)
	assert.Equal(t, "2025-05-01", *outcome.Itinerary.StartDate)
	assert.Len(t, outcome.Itinerary.Days, 2)
}

func TestFallbackCommand(t *testing.T) {
	out, err := run(t, "", "fallback", "去杭州玩三天", "--today", "2025-05-01")
	require.NoError(t, err)

	var it itinerary.Itinerary
	require.NoError(t, json.Unmarshal([]byte(out), &it))
	assert.Equal(t, "杭州", it.Destination)
	assert.Len(t, it.Days, 3)
	assert.Equal(t, "2025-05-03", *it.EndDate)
}

func TestCommands_invalidFlags(t *testing.T) {
	_, err := run(t, "", "fallback", "去杭州", "--timezone", "Mars/Olympus")
	assert.Error(t, err)

	_, err = run(t, "", "fallback", "去杭州", "--today", "tomorrow")
	assert.Error(t, err)

	_, err = run(t, "", "normalize", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestTokenCommand(t *testing.T) {
	out, err := run(t, "", "token", "--secret", "s3cret", "--user", "5f1c7a9e-3c2b-4d6a-9f7e-2b8c1d0e4a6f")
	require.NoError(t, err)

	claims, err := utils.NewTokenVerifier("s3cret").ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "5f1c7a9e-3c2b-4d6a-9f7e-2b8c1d0e4a6f", claims.UserID)

	t.Setenv("JWT_SECRET", "")
	_, err = run(t, "", "token")
	assert.ErrorIs(t, err, utils.ErrUnauthorized)
}

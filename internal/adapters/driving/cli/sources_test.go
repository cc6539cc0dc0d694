package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/objecta-labs/knowsync/internal/core/domain"
)

func TestSourcesCmd_List_Empty(t *testing.T) {
	cleanup := setupCLITest()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"sources", "list"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No sources configured.")
}

func TestSourcesCmd_List(t *testing.T) {
	cleanup := setupCLITest()
	defer cleanup()

	require.NoError(t, sourceStore.Save(context.Background(), domain.DataSource{
		ID:            "src-1",
		Name:          "Docs",
		Type:          domain.SourceTypeGitHub,
		SyncFrequency: domain.FrequencyDaily,
		Status:        domain.StatusActive,
		Enabled:       true,
	}))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"sources", "list"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "src-1")
	assert.Contains(t, out, "Docs")
	assert.Contains(t, out, "frequency: daily")
	assert.Contains(t, out, "last sync: never")
}

func TestSourcesCmd_Add(t *testing.T) {
	cleanup := setupCLITest()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{
		"sources", "add",
		"--name", "Docs Repo",
		"--type", "github",
		"--frequency", "daily",
		"--credential", "token=ghp_abc",
		"--set", "repository=acme/docs",
		"--sync-deletes",
	})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Source added:")

	sources, err := sourceStore.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "Docs Repo", sources[0].Name)
	assert.Equal(t, domain.SourceTypeGitHub, sources[0].Type)
	assert.Equal(t, domain.FrequencyDaily, sources[0].SyncFrequency)
	assert.Equal(t, "acme/docs", sources[0].Config.Settings["repository"])
	assert.True(t, sources[0].Config.SyncDeletes)
	assert.True(t, sources[0].Enabled)
}

func TestSourcesCmd_Add_MissingRequiredSetting(t *testing.T) {
	cleanup := setupCLITest()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{
		"sources", "add",
		"--name", "Broken",
		"--type", "github",
		"--credential", "token=ghp_abc",
	})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSourcesCmd_Add_InvalidFrequency(t *testing.T) {
	cleanup := setupCLITest()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{
		"sources", "add",
		"--name", "Broken",
		"--type", "github",
		"--frequency", "fortnightly",
	})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fortnightly")
}

func TestSourcesCmd_Disable(t *testing.T) {
	cleanup := setupCLITest()
	defer cleanup()

	require.NoError(t, sourceStore.Save(context.Background(), domain.DataSource{
		ID: "src-1", Enabled: true,
	}))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"sources", "disable", "src-1"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())

	source, err := sourceStore.Get(context.Background(), "src-1")
	require.NoError(t, err)
	assert.False(t, source.Enabled)
}

func TestSourcesCmd_Remove(t *testing.T) {
	cleanup := setupCLITest()
	defer cleanup()

	require.NoError(t, sourceStore.Save(context.Background(), domain.DataSource{ID: "src-1"}))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"sources", "remove", "src-1"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())

	_, err := sourceStore.Get(context.Background(), "src-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestParseKeyValues(t *testing.T) {
	parsed, err := parseKeyValues([]string{"token=abc", "url=https://x.test/?a=b"})
	require.NoError(t, err)
	assert.Equal(t, "abc", parsed["token"])
	// Values may themselves contain '='.
	assert.Equal(t, "https://x.test/?a=b", parsed["url"])

	parsed, err = parseKeyValues(nil)
	require.NoError(t, err)
	assert.Nil(t, parsed)

	_, err = parseKeyValues([]string{"no-separator"})
	assert.Error(t, err)

	_, err = parseKeyValues([]string{"=value"})
	assert.Error(t, err)
}

package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes into dir for the duration of the test; it stands in for
// t.Chdir, which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()

	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(old))
	})
}

func writeConfig(t *testing.T, content string) {
	t.Helper()

	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile("config.yaml", []byte(content), 0644))
}

func TestLoad_DefaultsApplied(t *testing.T) {
	writeConfig(t, `
openai:
  token: sk-test
discord:
  bot_token: bot-test
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "https://api.openai.com/v1", cfg.OpenAI.BaseURL)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, 500, cfg.OpenAI.MaxTokens)
	assert.Equal(t, "combined.md", cfg.Context.Path)
	assert.Zero(t, cfg.Context.MaxInjectChars)
}

func TestLoad_EnvOverrides(t *testing.T) {
	writeConfig(t, `
openai:
  token: file-token
discord:
  bot_token: file-bot-token
`)

	t.Setenv("OPENAI_API_KEY", "env-token")
	t.Setenv("DISCORD_BOT_TOKEN", "env-bot-token")
	t.Setenv("DISCORD_PUBLIC_KEY", "env-public-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.OpenAI.Token)
	assert.Equal(t, "env-bot-token", cfg.Discord.BotToken)
	assert.Equal(t, "env-public-key", cfg.Discord.PublicKey)
}

func TestLoad_MissingCredentials(t *testing.T) {
	writeConfig(t, `
server:
  port: 8080
`)

	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("DISCORD_BOT_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load()
	require.Error(t, err)
}

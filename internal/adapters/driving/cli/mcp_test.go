package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/pagespin/internal/core/ports/driving"
)

func resetMCPFlags(t *testing.T) {
	t.Helper()
	reset := func() {
		mcpPort = 0
		mcpHost = "localhost"
	}
	reset()
	t.Cleanup(reset)
}

func TestMCPServe_RequiresFactory(t *testing.T) {
	resetMCPFlags(t)
	useServices(t, &mockSessionService{}, nil)
	newSession = nil

	_, _, err := runCLI(t, "mcp", "serve")

	assert.EqualError(t, err, "session factory not configured")
}

func TestMCPServe_InvalidPort(t *testing.T) {
	resetMCPFlags(t)
	useServices(t, &mockSessionService{}, nil)
	SetSessionFactory(func() driving.SessionService { return &mockSessionService{} })

	_, _, err := runCLI(t, "mcp", "serve", "--port", "70000")

	assert.EqualError(t, err, "invalid port 70000")
}

func TestMCPCmd_Registered(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"mcp", "serve"})

	assert.NoError(t, err)
	assert.Equal(t, mcpServeCmd, cmd)
}

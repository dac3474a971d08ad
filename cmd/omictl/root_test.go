package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"connect", "status", "disconnect", "snapshot", "assess", "alert"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestAlertCommand_Flags(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"alert"})
	require.NoError(t, err)
	require.NotNil(t, cmd.Flags().Lookup("email"))
	require.NotNil(t, cmd.Flags().Lookup("message"))
}

func TestConnectCommand_Defaults(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"connect"})
	require.NoError(t, err)
	f := cmd.Flags().Lookup("timeout")
	require.NotNil(t, f)
	assert.Equal(t, "5m0s", f.DefValue)
	assert.Equal(t, "false", cmd.Flags().Lookup("no-browser").DefValue)
}

func TestParseRedirect(t *testing.T) {
	u, err := parseRedirect("http://localhost:8088")
	require.NoError(t, err)
	assert.Equal(t, "/", u.Path)
	assert.Equal(t, "localhost:8088", u.Host)

	u, err = parseRedirect("http://127.0.0.1:9000/oauth/callback")
	require.NoError(t, err)
	assert.Equal(t, "/oauth/callback", u.Path)

	_, err = parseRedirect("/oauth/callback")
	assert.Error(t, err)
}

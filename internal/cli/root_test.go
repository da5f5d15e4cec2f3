package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teriyakichild/mcp-condenser/internal/cerrors"
)

func TestExecute_UnknownCommandReturnsExitError(t *testing.T) {
	rootCmd.SetArgs([]string{"not-a-real-command"})
	defer rootCmd.SetArgs(nil)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	defer rootCmd.SetOut(nil)
	defer rootCmd.SetErr(nil)

	code := Execute()
	assert.Equal(t, cerrors.ExitError, code)
}

func TestRootCmd_HasConfigAndLoggingFlags(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("quiet"))
}

func TestRootCmd_Name(t *testing.T) {
	assert.Equal(t, "mcp-condenser", rootCmd.Use)
}

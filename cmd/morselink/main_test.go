package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestTranslateCommand(t *testing.T) {
	out, _, err := execute(t, "", "translate", "--table", "itu", "hello", "world")
	require.NoError(t, err)
	assert.Equal(t, ".... . .-.. .-.. --- / .-- --- .-. .-.. -..\n", out)
}

func TestTranslateCommand_Stdin(t *testing.T) {
	out, errOut, err := execute(t, "sos\na#b\n", "translate", "--table", "default")
	assert.Error(t, err)
	assert.Equal(t, "... --- ...\n", out)
	assert.Contains(t, errOut, "Invalid characters: #")
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "morselink version "))
}

func TestGraphCommand(t *testing.T) {
	out, _, err := execute(t, "", "graph")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "stateDiagram-v2\n"))
}

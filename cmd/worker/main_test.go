package main

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	root := newRootCommand()

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"process", "sweep", "migrate", "issue-invite", "issue-activation"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestIssueInviteRequiresEmail(t *testing.T) {
	root := newRootCommand()
	root.SetArgs([]string{"issue-invite"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"email" not set`)
}

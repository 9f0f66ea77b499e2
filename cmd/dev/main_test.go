package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommands(t *testing.T) {
	root := newRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"build", "changelog", "test", "lint", "smoke"}, names)
}

func TestBuildDefaults(t *testing.T) {
	build, _, err := newRootCmd().Find([]string{"build"})
	require.NoError(t, err)
	assert.Equal(t, "dist/grovepi", build.Flag("output").DefValue)
	assert.Equal(t, "false", build.Flag("pi").DefValue)
}

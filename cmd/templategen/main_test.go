package main

import (
	"bytes"
	"testing"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GivenHelpArgument_WhenExecuted_ThenPrintsHelp(t *testing.T) {
	for _, arg := range []string{"-h", "--help", "help"} {
		t.Run(arg, func(t *testing.T) {
			// Given
			var out bytes.Buffer
			cmd := newCommand(log.NewLogger())
			cmd.SetOut(&out)
			cmd.SetArgs([]string{arg})

			// When
			err := cmd.Execute()

			// Then
			require.NoError(t, err)
			assert.Contains(t, out.String(), "Template Gen Tool, Help:")
		})
	}
}

func Test_GivenNoArguments_WhenExecuted_ThenFailsAndPrintsHelp(t *testing.T) {
	// Given
	var out bytes.Buffer
	cmd := newCommand(log.NewLogger())
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	// When
	err := cmd.Execute()

	// Then
	require.Error(t, err)
	assert.Contains(t, out.String(), "Template Gen Tool, Help:")
}

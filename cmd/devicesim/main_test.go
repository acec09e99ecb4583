package main

import (
	"testing"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/stretchr/testify/require"
)

func Test_GivenInvalidRFIDState_WhenExecuted_ThenFailsBeforeConnecting(t *testing.T) {
	// Given
	cmd := newRootCommand(log.NewLogger())
	cmd.SetArgs([]string{"rfid", "--device", "PCT-01", "--state", "xx"})

	// When
	err := cmd.Execute()

	// Then
	require.ErrorContains(t, err, "invalid RFID state")
}

func Test_GivenMissingStation_WhenTrolleyExecuted_ThenFails(t *testing.T) {
	// Given
	cmd := newRootCommand(log.NewLogger())
	cmd.SetArgs([]string{"trolley", "--trolley", "12"})

	// When
	err := cmd.Execute()

	// Then
	require.ErrorContains(t, err, "station")
}

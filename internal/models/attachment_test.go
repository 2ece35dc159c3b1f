package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransferStateTransitions(t *testing.T) {
	tests := []struct {
		from     TransferState
		to       TransferState
		expected bool
	}{
		{TransferStatePending, TransferStateDone, true},
		{TransferStatePending, TransferStateFailed, true},
		{TransferStatePending, TransferStatePending, false},
		{TransferStateDone, TransferStateFailed, false},
		{TransferStateFailed, TransferStateDone, false},
		{TransferStateFailed, TransferStatePending, false},
		{TransferStateDone, TransferStateDone, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestTransferStateValid(t *testing.T) {
	assert.True(t, TransferStatePending.Valid())
	assert.True(t, TransferStateDone.Valid())
	assert.True(t, TransferStateFailed.Valid())
	assert.False(t, TransferState("retrying").Valid())
	assert.False(t, TransferStatePending.IsFinal())
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommissionStatusValid(t *testing.T) {
	assert.True(t, StatusCredited.Valid())
	assert.True(t, StatusApproved.Valid())
	assert.True(t, StatusClaimed.Valid())
	assert.False(t, CommissionStatus("pending").Valid())
	assert.False(t, CommissionStatus("").Valid())
}

func TestCommissionStatusTransitions(t *testing.T) {
	tests := []struct {
		from    CommissionStatus
		to      CommissionStatus
		allowed bool
	}{
		{StatusCredited, StatusApproved, true},
		{StatusApproved, StatusClaimed, true},
		{StatusCredited, StatusClaimed, false},
		{StatusApproved, StatusCredited, false},
		{StatusClaimed, StatusApproved, false},
		{StatusClaimed, StatusCredited, false},
		{StatusClaimed, StatusClaimed, false},
		{StatusCredited, StatusCredited, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

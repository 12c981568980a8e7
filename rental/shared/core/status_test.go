package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/onelib/rentalengine/rental/shared/core"
)

func Test_NextStatus_FollowsTransitionTable(t *testing.T) {
	tests := []struct {
		from   core.Status
		action core.Action
		to     core.Status
	}{
		{core.StatusPending, core.ActionApprove, core.StatusApproved},
		{core.StatusApproved, core.ActionDispatch, core.StatusDispatched},
		{core.StatusDispatched, core.ActionDeliver, core.StatusDelivered},
		{core.StatusDelivered, core.ActionRequestReturn, core.StatusReturnRequested},
		{core.StatusReturnRequested, core.ActionScheduleReturn, core.StatusReturnScheduled},
		{core.StatusReturnScheduled, core.ActionConfirmReturn, core.StatusReturned},
		{core.StatusPending, core.ActionReject, core.StatusRejected},
		{core.StatusPending, core.ActionExpire, core.StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.action), func(t *testing.T) {
			next, ok := core.NextStatus(tt.from, tt.action)

			assert.True(t, ok)
			assert.Equal(t, tt.to, next)
		})
	}
}

func Test_NextStatus_Rejects_WhenPairIsNotListed(t *testing.T) {
	tests := []struct {
		from   core.Status
		action core.Action
	}{
		{core.StatusReturned, core.ActionApprove},
		{core.StatusApproved, core.ActionApprove},
		{core.StatusApproved, core.ActionReject},
		{core.StatusApproved, core.ActionExpire},
		{core.StatusDelivered, core.ActionConfirmReturn},
		{core.StatusCancelled, core.ActionExpire},
		{core.StatusRejected, core.ActionReject},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.action), func(t *testing.T) {
			_, ok := core.NextStatus(tt.from, tt.action)

			assert.False(t, ok)
		})
	}
}

func Test_Status_ReleasesStock_OnlyForTerminalStatuses(t *testing.T) {
	for _, status := range core.AllStatuses {
		switch status {
		case core.StatusReturned, core.StatusRejected, core.StatusCancelled:
			assert.True(t, status.ReleasesStock(), status)
			assert.True(t, status.IsTerminal(), status)
		default:
			assert.False(t, status.ReleasesStock(), status)
			assert.False(t, status.IsTerminal(), status)
		}
	}
}

func Test_ParseAction_Fails_WhenActionIsReservedOrUnknown(t *testing.T) {
	_, expireErr := core.ParseAction("expire")
	_, unknownErr := core.ParseAction("force")
	approve, approveErr := core.ParseAction("approve")

	assert.ErrorIs(t, expireErr, core.ErrInvalidInput)
	assert.ErrorIs(t, unknownErr, core.ErrInvalidInput)
	assert.NoError(t, approveErr)
	assert.Equal(t, core.ActionApprove, approve)
}

func Test_ParseStatus_Fails_WhenStatusIsComputed(t *testing.T) {
	_, err := core.ParseStatus(string(core.StatusOverdue))

	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func Test_Action_Location_DependsOnActor(t *testing.T) {
	assert.Equal(t, core.LocationSystemUpdate, core.ActionApprove.Location())
	assert.Equal(t, core.LocationSystemUpdate, core.ActionConfirmReturn.Location())
	assert.Equal(t, core.LocationUserDashboard, core.ActionRequestReturn.Location())
	assert.Equal(t, core.LocationSystem, core.ActionExpire.Location())
}

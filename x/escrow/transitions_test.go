package escrow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActions(t *testing.T) {
	cases := map[string]struct {
		status Status
		role   Role
		want   []Action
	}{
		"initiated creator": {
			status: Status_INITIATED, role: RoleCreator,
			want: []Action{ActionAccept, ActionCancel},
		},
		"initiated broker": {
			status: Status_INITIATED, role: RoleBroker,
			want: []Action{ActionAcceptParticipation, ActionRejectParticipation},
		},
		"pending creator": {
			status: Status_PENDING, role: RoleCreator,
			want: []Action{ActionAccept, ActionOpenDispute},
		},
		"pending broker": {
			status: Status_PENDING, role: RoleBroker,
			want: []Action{ActionAccept},
		},
		"dispute creator": {
			status: Status_DISPUTE, role: RoleCreator,
			want: []Action{ActionAccept},
		},
		"dispute broker": {
			status: Status_DISPUTE, role: RoleBroker,
			want: []Action{ActionCommit, ActionRevoke},
		},
		"success is terminal": {
			status: Status_SUCCESS, role: RoleCreator,
			want: nil,
		},
		"cancelled is terminal": {
			status: Status_CANCELLED, role: RoleBroker,
			want: nil,
		},
		"rejected is unreachable and allows nothing": {
			status: Status_REJECTED, role: RoleBroker,
			want: nil,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, Actions(tc.status, tc.role))
		})
	}
}

func TestTerminal(t *testing.T) {
	assert.False(t, Status_INITIATED.Terminal())
	assert.False(t, Status_PENDING.Terminal())
	assert.False(t, Status_DISPUTE.Terminal())
	assert.True(t, Status_CANCELLED.Terminal())
	assert.True(t, Status_SUCCESS.Terminal())
	assert.True(t, Status_REJECTED.Terminal())
}

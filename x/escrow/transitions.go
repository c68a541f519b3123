package escrow

import "sort"

// Action is a protocol step one of the parties can request on an escrow.
type Action string

const (
	ActionAccept              Action = "accept"
	ActionCancel              Action = "cancel"
	ActionOpenDispute         Action = "open_dispute"
	ActionAcceptParticipation Action = "accept_participation"
	ActionRejectParticipation Action = "reject_participation"
	ActionCommit              Action = "commit"
	ActionRevoke              Action = "revoke"
)

// Role names the party acting on an escrow. The recipient is passive and
// never acts.
type Role int

const (
	RoleCreator Role = iota
	RoleBroker
)

func (r Role) String() string {
	switch r {
	case RoleCreator:
		return "creator"
	case RoleBroker:
		return "broker"
	default:
		return "invalid"
	}
}

// effect describes the ledger movement a transition triggers. All amounts
// come out of the creator's locked balance.
type effect int

const (
	// No funds move.
	effectNone effect = iota
	// The whole locked amount goes to the recipient. Happens when the
	// broker never engaged, so the broker fee is not earned.
	effectPayAll
	// The whole locked amount goes back to the creator.
	effectRefund
	// Net to the recipient, fee to the broker.
	effectSplit
	// Net back to the creator, but the broker still earned the fee by
	// engaging with the dispute.
	effectRevoke
)

type transition struct {
	roles  []Role
	effect effect
	next   Status
}

func (t transition) allows(role Role) bool {
	for _, r := range t.roles {
		if r == role {
			return true
		}
	}
	return false
}

// transitions is the full protocol. An action missing for a status is an
// invalid transition, no matter who asks.
var transitions = map[Status]map[Action]transition{
	Status_INITIATED: {
		ActionAccept:              {roles: []Role{RoleCreator}, effect: effectPayAll, next: Status_SUCCESS},
		ActionCancel:              {roles: []Role{RoleCreator}, effect: effectRefund, next: Status_CANCELLED},
		ActionAcceptParticipation: {roles: []Role{RoleBroker}, effect: effectNone, next: Status_PENDING},
		ActionRejectParticipation: {roles: []Role{RoleBroker}, effect: effectRefund, next: Status_CANCELLED},
	},
	Status_PENDING: {
		ActionAccept:      {roles: []Role{RoleCreator, RoleBroker}, effect: effectSplit, next: Status_SUCCESS},
		ActionOpenDispute: {roles: []Role{RoleCreator}, effect: effectNone, next: Status_DISPUTE},
	},
	Status_DISPUTE: {
		ActionAccept: {roles: []Role{RoleCreator}, effect: effectSplit, next: Status_SUCCESS},
		ActionCommit: {roles: []Role{RoleBroker}, effect: effectSplit, next: Status_SUCCESS},
		ActionRevoke: {roles: []Role{RoleBroker}, effect: effectRevoke, next: Status_CANCELLED},
	},
}

// Actions returns the actions the given role may take in the given status,
// in alphabetical order. Terminal statuses allow nothing.
func Actions(status Status, role Role) []Action {
	var out []Action
	for action, t := range transitions[status] {
		if t.allows(role) {
			out = append(out, action)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

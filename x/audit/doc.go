/*
Package audit keeps the append-only event trail of the escrow engine.

Every escrow creation and every status change is recorded as one Event.
Events are written in the same atomic commit as the state mutation they
describe, so replaying the trail for an escrow reconstructs its history
in commit order.
*/
package audit

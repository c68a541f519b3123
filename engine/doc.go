/*
Package engine wires the wallet ledger, the escrow protocol, the audit
trail and the token supply into one serialized facade.

All calls run under a single mutex and inside a cache wrap, so every
operation is atomic: it either commits every balance change, record
update and audit entry together, or leaves the store untouched.
*/
package engine

/*
Package escrow implements the conditional payment protocol.

A creator locks funds for a recipient and names a broker to mediate.
Depending on whether the broker engages, the escrow settles directly,
after broker confirmation, or through a dispute. The transition table
in transitions.go is the complete protocol; the controller enforces it,
moves the money and writes the audit trail.
*/
package escrow

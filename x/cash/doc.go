/*
Package cash keeps the internal ledger of the payment engine.

Every account is a Wallet with an available and a locked balance.
Deposits credit the available balance, opening an escrow locks funds,
and resolving an escrow releases locked funds either back to the owner
or to another party. The controller enforces that no balance ever goes
negative and that releases never exceed what was locked.
*/
package cash

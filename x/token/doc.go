/*
Package token is the fungible supply backing the payment engine.

It follows the allowance model: a holder approves a spender, the spender
pulls tokens with TransferFrom. Minting is restricted to the minter role,
pausing to the pauser role, and the whole supply can be frozen with one
switch. The engine treats this package as an external collaborator and
only touches it through deposit and withdraw.
*/
package token

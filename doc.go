/*
Package brokerpay defines the shared primitives of the brokered
conditional-payment engine.

The root package is kept intentionally small. It holds the types that
every other package needs: addresses and conditions to identify
accounts, the key-value store contracts that all state flows through,
and the genesis options used to seed initial state.

The machinery lives in the subpackages:

  errors   coded, wrappable errors
  store    btree-backed cache-wrapped key-value store
  orm      prefixed buckets and sequences over a KVStore
  x/cash   custodial wallets with available and locked balances
  x/escrow escrow records, fee split and the transition table
  x/audit  append-only trail of escrow lifecycle events
  x/token  the backing token supply with roles and pausing
  engine   serialized facade combining all of the above
*/
package brokerpay

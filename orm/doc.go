/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called buckets.
Each bucket contains only one type of entity, serialized with
its Persistent implementation, addressed by a primary key.
Sequences generate monotonically increasing primary keys.
*/
package orm

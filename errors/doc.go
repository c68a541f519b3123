/*
Package errors implements custom error interfaces for the payment engine.

The idea is to reuse as many standard interfaces as we can and still
provide a coded classification of failures, so that a client observing
an error can match it against a well known kind without string
comparison. Use Register to declare a new kind, Wrap/Wrapf to add
context while preserving the kind, and (*Error).Is to test for it.
*/
package errors

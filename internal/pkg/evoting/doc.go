// Package evoting is a client for the deployed EVoting smart contract.
//
// Reads are eth_call invocations. Writes are signed with the configured
// operator key and awaited until their receipt is mined, so a nil error from
// a write means the transaction was included and did not revert.
package evoting

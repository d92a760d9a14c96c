// Package identity owns the admin account model: lookup, provisioning,
// status transitions, and password hashing.
//
// Accounts are never deleted while session rows still reference them;
// DeleteAccount removes the sessions and the account in one transaction.
package identity

// Package mail delivers plain-text transactional email such as one-time
// passwords.
package mail

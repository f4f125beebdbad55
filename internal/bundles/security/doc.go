// Package security is the user account bundle.
//
// It contributes the User and Role models with their serializers, the
// "auth" blueprint (register, login, logout, check, me) mounted under
// /auth, and the "users" CLI command group. Accounts live in Postgres
// when the database extension is enabled and in memory otherwise.
package security

// Package site is the public pages bundle: an index route and a contact
// form whose submissions are stored in Postgres when available.
package site

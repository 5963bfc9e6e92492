// Package testutil contains helpers used across tests: a scriptable language
// model fake and small recording loggers. They are not intended for
// production usage.
package testutil

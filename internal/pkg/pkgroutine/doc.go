// Package pkgroutine contains helpers for running goroutines safely.
//
// The Manager type limits concurrency and collects returned errors. Panics are
// logged with their stack and reported from Wait as ErrPanic. The app runs its
// HTTP listener through a Manager so shutdown can wait for it.
package pkgroutine

// Package orchestration owns the compression session. It accepts commands
// from the front ends, submits at most one file at a time to the service and
// reports every state transition to observers. Presentation stays behind the
// StateObserver and ResultPresenter interfaces.
package orchestration

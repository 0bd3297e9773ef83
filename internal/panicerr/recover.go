package panicerr

// Recover runs f in a new goroutine, wrapped in defer logic that turns any
// abnormal exit or panic into a non-nil error return instead of crashing
// the caller. This is what lets Interpret guarantee it never panics across
// its public API, even if a malformed expression trips a slice-index panic
// deep in the evaluator.
func Recover(name string, f func() error) error {
	errch := make(chan error, 1)
	go func() {
		defer close(errch)
		defer recoverExitError(name, errch)
		defer recoverPanicError(name, errch)
		errch <- f()
	}()
	return <-errch
}

// Package patch installs a wrapper over a UI action callback owned by a
// third party, without touching the code that registered it.
//
// The Installer is polled until the target action exists. On the first match
// it captures the original callback into a keyed Record, builds a wrapper
// closed over it and binds the wrapper in place of the original. After that
// the installer is permanently installed and never scans or wraps again.
//
// The wrapper runs Interceptor.Observe, then the original exactly once, then
// Interceptor.Intercept. A fault in the original is contained and the
// interception is skipped.
package patch

// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It
// translates CLI flags into the application's configuration; engine flags
// left at their zero value defer to the scene file.
package cli

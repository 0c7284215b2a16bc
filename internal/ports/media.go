package ports

import "context"

// MediaRunner invokes the external media-processing executable.
type MediaRunner interface {
	// Check reports whether the tool is reachable at all. A failing Check
	// aborts the whole batch: no file can succeed without the tool.
	Check() error
	// Run executes one invocation with the given arguments. On a non-zero
	// exit the returned error carries the useful tail of stderr.
	Run(ctx context.Context, args []string) error
}

package director

import "github.com/nathoo/dirt/types"

// Resume is what a suspended script receives when the Director advances it.
// After a choose command Chosen is true and Index holds the confirmed
// selection. Say and big_message commands resume with the zero value.
type Resume struct {
	Index  int
	Chosen bool
}

// Task is one run of a dialogue script. Resume runs the script from its
// last suspension point to its next command; ok is false once the script
// has finished. The first call starts the script and its Resume value is
// ignored.
//
// Abandon discards the task without running the rest of the script. It
// must be safe to call at any point, including on a finished task, and
// must not return while any of the script's code is still running.
type Task interface {
	Resume(r Resume) (cmd types.Command, ok bool)
	Abandon()
}

// Factory creates a fresh Task each time a script is started, so the same
// script can run any number of times.
type Factory func() Task

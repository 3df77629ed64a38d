package director

import (
	"runtime"
	"slices"

	"github.com/nathoo/dirt/types"
)

// Script is a dialogue written as straight-line Go. Each call on y blocks
// the script until the Director resumes it, so ordinary loops and
// conditionals can wrap the presentation calls.
type Script func(y *Yield)

// Yield is the script's handle on the Director.
type Yield struct {
	t *funcTask
}

// Say shows text in a timed bubble and returns once it has timed out.
func (y *Yield) Say(text string) {
	y.t.suspend(types.Command{Kind: types.CommandSay, Text: text})
}

// BigMessage shows text full-screen and returns once the player confirms.
func (y *Yield) BigMessage(text string) {
	y.t.suspend(types.Command{Kind: types.CommandBigMessage, Text: text})
}

// Choose offers choices and returns the index the player confirmed.
func (y *Yield) Choose(choices ...string) int {
	r := y.t.suspend(types.Command{Kind: types.CommandChoose, Choices: slices.Clone(choices)})
	return r.Index
}

// Emit yields an arbitrary command. The Director panics on kinds it does
// not know.
func (y *Yield) Emit(cmd types.Command) Resume {
	return y.t.suspend(cmd)
}

// Func adapts a Script into a Factory. Each task runs its script on its own
// goroutine, but control is handed back and forth over unbuffered channels
// so the script and the caller of Resume never run at the same time.
//
// Abandoning a task stops its script at the call it is suspended in: the
// statements after that call never run. The script's deferred calls do run
// as it unwinds, and Abandon waits for them, so they never overlap the
// caller. A script that abandons its own task, by starting another script,
// unwinds when it next suspends or returns.
func Func(script Script) Factory {
	return func() Task {
		return &funcTask{
			script: script,
			resume: make(chan Resume),
			yield:  make(chan step),
			quit:   make(chan struct{}),
			exited: make(chan struct{}),
		}
	}
}

type step struct {
	cmd      types.Command
	ok       bool
	panicked any
}

type funcTask struct {
	script  Script
	started bool
	done    bool
	running bool // the script goroutine has control

	resume chan Resume
	yield  chan step
	quit   chan struct{}
	exited chan struct{}
}

func (t *funcTask) Resume(r Resume) (types.Command, bool) {
	if t.done {
		return types.Command{}, false
	}
	t.running = true
	if !t.started {
		t.started = true
		go t.run()
	} else {
		t.resume <- r
	}

	var s step
	select {
	case s = <-t.yield:
	case <-t.exited:
		// The script abandoned its own task, e.g. by starting another one.
		return types.Command{}, false
	}
	if s.panicked != nil {
		t.done = true
		panic(s.panicked)
	}
	if !s.ok {
		t.done = true
		return types.Command{}, false
	}
	return s.cmd, true
}

func (t *funcTask) Abandon() {
	if t.done {
		return
	}
	t.done = true
	if !t.started {
		return
	}
	close(t.quit)
	if !t.running {
		<-t.exited
	}
}

func (t *funcTask) run() {
	defer close(t.exited)
	final := step{}
	defer func() {
		if r := recover(); r != nil {
			final = step{panicked: r}
		}
		t.running = false
		select {
		case t.yield <- final:
		case <-t.quit:
		}
	}()
	t.script(&Yield{t: t})
}

// suspend hands cmd to the caller of Resume and parks the script goroutine
// until the next Resume. An abandoned script exits here without returning.
func (t *funcTask) suspend(cmd types.Command) Resume {
	t.running = false
	select {
	case t.yield <- step{cmd: cmd, ok: true}:
	case <-t.quit:
		runtime.Goexit()
	}
	select {
	case r := <-t.resume:
		return r
	case <-t.quit:
		runtime.Goexit()
	}
	return Resume{}
}

// Package director runs dialogue scripts in step with the frame loop.
//
// A script is a Task that yields presentation commands: say (a timed
// message), choose (a list of options) and big_message (full-screen text
// awaiting confirmation). The Director shows the current command and
// resumes the task when the command is finished with: a say when its
// display time runs out, a choose when the player confirms a selection, a
// big_message when the player confirms it. Scripts only ever run inside a
// Director call, never alongside the frame loop.
package director

import (
	"fmt"
	"io"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/dirt/types"
)

// DefaultSayTicks is how many frames a say command stays on screen.
const DefaultSayTicks = 30

// Option configures a Director.
type Option func(*Director)

// WithSayTicks sets the display duration of say commands, in frames.
func WithSayTicks(n int) Option {
	return func(d *Director) {
		if n > 0 {
			d.sayTicks = n
		}
	}
}

// WithLogger sets the logger used for mode transitions.
func WithLogger(l logrus.FieldLogger) Option {
	return func(d *Director) {
		d.log = l
	}
}

// Director presents one dialogue script at a time. Only the fields of the
// current mode are meaningful: Text and Remaining while saying, Choices and
// Selection while choosing, Text during a big message.
type Director struct {
	sayTicks int
	log      logrus.FieldLogger

	task     Task
	mode     types.Mode
	backdrop *types.Image

	text      string
	remaining int
	choices   []string
	selection int
}

// New creates an inactive Director.
func New(opts ...Option) *Director {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	d := &Director{sayTicks: DefaultSayTicks, log: quiet}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start runs a fresh task from f up to its first command. A script that is
// already running is abandoned: the rest of it never runs.
func (d *Director) Start(f Factory, backdrop *types.Image) {
	if d.task != nil {
		d.log.WithField("mode", d.mode).Debug("abandoning active dialogue script")
		d.task.Abandon()
		d.task = nil
	}
	d.clear()
	d.mode = types.ModeInactive
	d.task = f()
	d.backdrop = backdrop
	d.resume(Resume{})
}

// Stop abandons the running script, if any, and goes inactive.
func (d *Director) Stop() {
	if d.task == nil {
		return
	}
	d.task.Abandon()
	d.finish()
}

// Advance resumes the script with no value. It does nothing when no script
// is running.
func (d *Director) Advance() {
	d.resume(Resume{})
}

// AdvanceWith resumes the script with a chosen index.
func (d *Director) AdvanceWith(index int) {
	d.resume(Resume{Index: index, Chosen: true})
}

// OnTick counts down a say command and resumes the script when it expires.
// It does nothing in other modes.
func (d *Director) OnTick() {
	if d.mode != types.ModeSaying {
		return
	}
	d.remaining--
	if d.remaining <= 0 {
		d.text = ""
		d.Advance()
	}
}

// OnKey handles a key press. In choosing mode Up and Down move the
// selection without wrapping and Confirm resumes the script with it; in
// big message mode Confirm resumes the script. It reports whether the key
// was used; keys are never used while saying or inactive.
func (d *Director) OnKey(k types.Key) bool {
	switch d.mode {
	case types.ModeChoosing:
		switch k {
		case types.KeyUp:
			if d.selection > 0 {
				d.selection--
			}
			return true
		case types.KeyDown:
			if d.selection < len(d.choices)-1 {
				d.selection++
			}
			return true
		case types.KeyConfirm:
			i := d.selection
			d.choices = nil
			d.selection = 0
			d.AdvanceWith(i)
			return true
		}
	case types.ModeBigMessage:
		if k == types.KeyConfirm {
			d.Advance()
			return true
		}
	}
	return false
}

// IsActive reports whether a script is being presented.
func (d *Director) IsActive() bool { return d.mode != types.ModeInactive }

// Mode returns the current presentation mode.
func (d *Director) Mode() types.Mode { return d.mode }

// Backdrop returns the image behind the dialogue, or nil.
func (d *Director) Backdrop() *types.Image { return d.backdrop }

// Text returns the message of a say or big_message command.
func (d *Director) Text() string { return d.text }

// Remaining returns the frames left before a say command expires.
func (d *Director) Remaining() int { return d.remaining }

// Choices returns a copy of the pending choices.
func (d *Director) Choices() []string { return slices.Clone(d.choices) }

// Selection returns the index of the highlighted choice.
func (d *Director) Selection() int { return d.selection }

func (d *Director) resume(r Resume) {
	task := d.task
	if task == nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			if d.task == task {
				task.Abandon()
				d.finish()
			}
			panic(p)
		}
	}()

	cmd, ok := task.Resume(r)
	if d.task != task {
		// The script started another script, which now owns the Director.
		return
	}
	if !ok {
		d.log.Debug("dialogue script finished")
		d.finish()
		return
	}

	d.clear()
	switch cmd.Kind {
	case types.CommandSay:
		d.mode = types.ModeSaying
		d.text = cmd.Text
		d.remaining = d.sayTicks
	case types.CommandChoose:
		if len(cmd.Choices) == 0 {
			panic("choose command with no choices")
		}
		d.mode = types.ModeChoosing
		d.choices = slices.Clone(cmd.Choices)
		d.selection = 0
	case types.CommandBigMessage:
		d.mode = types.ModeBigMessage
		d.text = cmd.Text
	default:
		panic(fmt.Sprintf("no such dialogue command: %s", cmd.Kind))
	}
	d.log.WithField("mode", d.mode).Debug("dialogue command")
}

func (d *Director) finish() {
	d.task = nil
	d.mode = types.ModeInactive
	d.backdrop = nil
	d.clear()
}

func (d *Director) clear() {
	d.text = ""
	d.remaining = 0
	d.choices = nil
	d.selection = 0
}

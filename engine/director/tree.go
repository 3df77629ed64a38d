package director

import (
	"fmt"

	"github.com/nathoo/dirt/types"
)

// Tree adapts a data-authored node tree into a Factory. The tree is walked
// by a small stack machine: sequences and loops push frames, a choose node
// pushes the body of the confirmed option, and break pops frames up to and
// including the innermost loop. A break outside any loop ends the script.
//
// A do node hands its effects to do and moves on without suspending; a nil
// do skips them. Node kinds the machine does not know are passed through as
// commands of the same kind, so the Director rejects them like any other
// bad command.
//
// A loop that comes round again without having yielded a command would spin
// forever, so it panics as an authoring error. Resuming a pending choose
// without a choice panics too.
func Tree(body []types.Node, do func([]types.Effect)) Factory {
	return func() Task {
		return &treeTask{stack: []frame{{nodes: body}}, do: do}
	}
}

type frame struct {
	nodes []types.Node
	pc    int
	loop  bool
	mark  int // t.yielded when the frame last started a pass
}

type treeTask struct {
	do      func([]types.Effect)
	stack   []frame
	pending []types.Option // options of the choose node awaiting a selection
	yielded int            // commands returned so far
}

func (t *treeTask) Resume(r Resume) (types.Command, bool) {
	if t.pending != nil {
		opts := t.pending
		t.pending = nil
		if !r.Chosen {
			panic(fmt.Sprintf("choose of %d options resumed without a choice", len(opts)))
		}
		if r.Index < 0 || r.Index >= len(opts) {
			panic(fmt.Sprintf("choice %d out of range for %d options", r.Index, len(opts)))
		}
		t.push(opts[r.Index].Body, false)
	}

	for len(t.stack) > 0 {
		top := &t.stack[len(t.stack)-1]
		if top.pc >= len(top.nodes) {
			if top.loop && len(top.nodes) > 0 {
				if top.mark == t.yielded {
					panic("dialogue loop never waits for the player")
				}
				top.pc = 0
				top.mark = t.yielded
				continue
			}
			t.pop()
			continue
		}

		n := top.nodes[top.pc]
		top.pc++

		switch n.Kind {
		case types.NodeSay:
			return t.yield(types.Command{Kind: types.CommandSay, Text: n.Text})

		case types.NodeBigMessage:
			return t.yield(types.Command{Kind: types.CommandBigMessage, Text: n.Text})

		case types.NodeChoose:
			labels := make([]string, len(n.Options))
			for i, o := range n.Options {
				labels[i] = o.Label
			}
			t.pending = n.Options
			return t.yield(types.Command{Kind: types.CommandChoose, Choices: labels})

		case types.NodeSequence:
			t.push(n.Body, false)

		case types.NodeLoop:
			t.push(n.Body, true)

		case types.NodeBreak:
			t.breakLoop()

		case types.NodeDo:
			if t.do != nil {
				t.do(n.Effects)
			}

		default:
			return t.yield(types.Command{Kind: types.CommandKind(n.Kind), Text: n.Text})
		}
	}
	return types.Command{}, false
}

func (t *treeTask) yield(cmd types.Command) (types.Command, bool) {
	t.yielded++
	return cmd, true
}

func (t *treeTask) Abandon() {
	t.stack = nil
	t.pending = nil
}

func (t *treeTask) push(nodes []types.Node, loop bool) {
	t.stack = append(t.stack, frame{nodes: nodes, loop: loop, mark: t.yielded})
}

func (t *treeTask) pop() {
	t.stack = t.stack[:len(t.stack)-1]
}

func (t *treeTask) breakLoop() {
	for len(t.stack) > 0 {
		f := t.stack[len(t.stack)-1]
		t.pop()
		if f.loop {
			return
		}
	}
}

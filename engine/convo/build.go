package convo

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/dirt/engine/effects"
	"github.com/nathoo/dirt/types"
)

// Build turns a compiled conversation definition into a Conversation.
// Verb rules look their verb up in verbs by name. Effect errors raised
// during play are logged, not returned, since a failed reply must not
// end the conversation.
func Build(def types.ConversationDef, verbs map[string]types.VerbDef, log logrus.FieldLogger) (*Conversation, error) {
	name := def.Name
	if name == "" {
		name = def.ID
	}
	c := New(name)
	log = log.WithField("conversation", def.ID)

	for i, rd := range def.Rules {
		switch rd.Kind {
		case types.RuleTopic:
			effs := rd.Effects
			topic := rd.Canonical
			c.Topic(rd.Canonical, rd.Synonyms, func(c *Conversation, p types.Player) {
				if err := effects.Apply(effs, c, p, types.Args{}); err != nil {
					log.WithError(err).WithField("topic", topic).Warn("topic effects failed")
				}
			})

		case types.RuleVerb:
			vd, ok := verbs[rd.Verb]
			if !ok {
				return nil, fmt.Errorf("conversation %q rule %d: unknown verb %q", def.ID, i+1, rd.Verb)
			}
			v, err := compileVerb(vd)
			if err != nil {
				return nil, fmt.Errorf("conversation %q rule %d: %w", def.ID, i+1, err)
			}
			effs := rd.Effects
			verb := rd.Verb
			c.Verb(v, func(c *Conversation, p types.Player, args types.Args) {
				if err := effects.Apply(effs, c, p, args); err != nil {
					log.WithError(err).WithField("verb", verb).Warn("verb effects failed")
				}
			})

		default:
			return nil, fmt.Errorf("conversation %q rule %d: unknown rule kind %q", def.ID, i+1, rd.Kind)
		}
	}

	for _, bd := range def.Begin {
		want := bd.Circumstance
		effs := bd.Effects
		c.OnBegin(func(c *Conversation, p types.Player, circumstance string) {
			if want != "" && want != circumstance {
				return
			}
			if err := effects.Apply(effs, c, p, types.Args{}); err != nil {
				log.WithError(err).WithField("circumstance", circumstance).Warn("begin effects failed")
			}
		})
	}

	return c, nil
}

func compileVerb(vd types.VerbDef) (Verb, error) {
	if vd.Pattern != "" {
		return NewPatternVerb(vd.Pattern)
	}
	if len(vd.Phrases) == 0 {
		return nil, fmt.Errorf("verb %q has no phrases", vd.Name)
	}
	return NewSimpleMatchingVerb(vd.Phrases...), nil
}

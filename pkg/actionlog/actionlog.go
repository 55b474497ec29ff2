// Package actionlog reads replay files: YAML lists of actions in their wire
// form, optionally stamped with free-form timestamps, and applies them to a
// store.
package actionlog

import (
	"os"
	"time"

	"github.com/araddon/dateparse"
	"github.com/go-go-golems/statekit/pkg/state"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// File is the on-disk layout:
//
//	theme: light
//	actions:
//	  - kind: ADD_TODO
//	    payload: {id: t1, text: buy milk}
//	    at: "2026-01-02 10:00"
type File struct {
	Theme   string  `yaml:"theme,omitempty"`
	Actions []Entry `yaml:"actions"`
}

type Entry struct {
	Kind    string         `yaml:"kind"`
	Payload map[string]any `yaml:"payload,omitempty"`
	At      string         `yaml:"at,omitempty"`
}

// Step is a decoded entry ready to dispatch.
type Step struct {
	Index  int
	At     time.Time
	Action state.Action
}

func Load(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read action log")
	}
	return Parse(b)
}

func Parse(b []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, errors.Wrap(err, "parse action log")
	}
	return &f, nil
}

// Steps decodes every entry. Timestamps are parsed with dateparse and must not
// go backwards; entries without one are not checked.
func (f *File) Steps() ([]Step, error) {
	steps := make([]Step, 0, len(f.Actions))
	var last time.Time
	for i, e := range f.Actions {
		a, err := state.DecodeAction(e.Kind, e.Payload)
		if err != nil {
			return nil, errors.Wrapf(err, "action %d", i)
		}
		step := Step{Index: i, Action: a}
		if e.At != "" {
			at, err := dateparse.ParseAny(e.At)
			if err != nil {
				return nil, errors.Wrapf(err, "action %d: parse at %q", i, e.At)
			}
			if at.Before(last) {
				return nil, errors.Errorf("action %d: at %s is before previous action", i, at.Format(time.RFC3339))
			}
			last = at
			step.At = at
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func (f *File) InitialState() (*state.AppState, error) {
	return state.InitialWithTheme(state.Theme(f.Theme))
}

// Rejection records a step whose dispatch the reducer refused.
type Rejection struct {
	Step Step
	Err  error
}

type Report struct {
	Applied   int
	Unchanged int
	Rejected  []Rejection
}

type Options struct {
	// KeepGoing continues after a rejected dispatch instead of stopping.
	KeepGoing bool
	// OnStep is called after each step with the store's state.
	OnStep func(step Step, s *state.AppState, err error)
}

// Apply dispatches steps in order on st.
func Apply(st *state.Store, steps []Step, opts Options) (Report, error) {
	var r Report
	for _, step := range steps {
		before := st.Dispatched()
		err := st.Dispatch(step.Action)
		if opts.OnStep != nil {
			opts.OnStep(step, st.State(), err)
		}
		if err != nil {
			r.Rejected = append(r.Rejected, Rejection{Step: step, Err: err})
			if !opts.KeepGoing {
				return r, errors.Wrapf(err, "action %d", step.Index)
			}
			continue
		}
		if st.Dispatched() == before {
			r.Unchanged++
		} else {
			r.Applied++
		}
	}
	return r, nil
}

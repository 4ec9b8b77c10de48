package app

import (
	"strconv"
	"strings"

	"go.trai.ch/stagehand/internal/core/domain"
	"go.trai.ch/zerr"
)

// StepKind names one scripted lifecycle action.
type StepKind string

const (
	// StepSwitch switches to a key and caches the outgoing instance.
	StepSwitch StepKind = "switch"
	// StepSwitchNoCache switches to a key and disposes the outgoing instance.
	StepSwitchNoCache StepKind = "switch-nocache"
	// StepPreload starts a background load of a key.
	StepPreload StepKind = "preload"
	// StepClear empties both caches.
	StepClear StepKind = "clear"
	// StepCapacity changes the capacity of one cache.
	StepCapacity StepKind = "capacity"
	// StepTick advances the executor by a number of ticks.
	StepTick StepKind = "tick"
)

// Step is a parsed run step.
type Step struct {
	Kind  StepKind
	Key   domain.ResourceKey
	Cache domain.CacheKind
	N     int
}

// ParseStep parses one step of the form kind[=argument].
func ParseStep(s string) (Step, error) {
	kind, arg, hasArg := strings.Cut(s, "=")
	step := Step{Kind: StepKind(kind)}

	switch step.Kind {
	case StepSwitch, StepSwitchNoCache, StepPreload:
		if arg == "" {
			return Step{}, invalidStep(s, "missing key")
		}
		step.Key = domain.NewResourceKey(arg)
	case StepClear:
		if hasArg {
			return Step{}, invalidStep(s, "clear takes no argument")
		}
	case StepCapacity:
		which, n, ok := strings.Cut(arg, ":")
		if !ok {
			return Step{}, invalidStep(s, "expected capacity=<cache>:<n>")
		}
		size, err := strconv.Atoi(n)
		if err != nil {
			return Step{}, invalidStep(s, "capacity is not a number")
		}
		step.Cache = domain.CacheKind(which)
		step.N = size
	case StepTick:
		ticks, err := strconv.Atoi(arg)
		if err != nil || ticks < 0 {
			return Step{}, invalidStep(s, "tick count must be a non-negative number")
		}
		step.N = ticks
	default:
		return Step{}, invalidStep(s, "unknown step")
	}
	return step, nil
}

// ParseSteps parses every step, failing on the first invalid one.
func ParseSteps(args []string) ([]Step, error) {
	steps := make([]Step, 0, len(args))
	for _, arg := range args {
		step, err := ParseStep(arg)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func invalidStep(s, reason string) error {
	return zerr.With(zerr.Wrap(domain.ErrInvalidStep, reason), "step", s)
}

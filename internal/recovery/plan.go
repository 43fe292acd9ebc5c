package recovery

import "strings"

// Action is what the engine does, or would do, to one artifact.
type Action string

// Actions. Every mutating action has a "would_" counterpart reported in dry-run mode.
const (
	ActionRemove          Action = "removed"
	ActionRegenerate      Action = "regenerated"
	ActionCreate          Action = "created"
	ActionSkipMissing     Action = "already_absent"
	ActionWouldRemove     Action = "would_remove"
	ActionWouldRegenerate Action = "would_regenerate"
	ActionWouldCreate     Action = "would_create"
)

//nolint:gochecknoglobals // fixed mapping
var previews = map[Action]Action{
	ActionRemove:     ActionWouldRemove,
	ActionRegenerate: ActionWouldRegenerate,
	ActionCreate:     ActionWouldCreate,
}

// Preview returns the dry-run form of a; non-mutating actions are unchanged.
func (a Action) Preview() Action {
	if p, ok := previews[a]; ok {
		return p
	}
	return a
}

// Live returns the action a dry-run action stands for.
func (a Action) Live() Action {
	for live, preview := range previews {
		if preview == a {
			return live
		}
	}
	return a
}

// IsPreview reports whether a is a dry-run action.
func (a Action) IsPreview() bool {
	return strings.HasPrefix(string(a), "would_")
}

// Mutates reports whether executing a changes the filesystem.
func (a Action) Mutates() bool {
	_, ok := previews[a]
	return ok
}

// State is a step in the per-artifact recovery state machine:
// detected, backed_up, replaced or removed, then confirmed or failed_post_check.
type State string

// Recovery states
const (
	StateDetected        State = "detected"
	StateBackedUp        State = "backed_up"
	StateReplaced        State = "replaced"
	StateRemoved         State = "removed"
	StateConfirmed       State = "confirmed"
	StateFailedPostCheck State = "failed_post_check"
	StateFailed          State = "failed"
)

// planRemoval decides what cleanup does to an artifact. It is shared by the
// dry-run and live paths.
func planRemoval(exists bool) Action {
	if !exists {
		return ActionSkipMissing
	}
	return ActionRemove
}

// planRegeneration decides what regeneration does to a profile. It is shared
// by the dry-run and live paths.
func planRegeneration(exists bool) Action {
	if !exists {
		return ActionCreate
	}
	return ActionRegenerate
}

func decide(action Action, dryRun bool) Action {
	if dryRun {
		return action.Preview()
	}
	return action
}

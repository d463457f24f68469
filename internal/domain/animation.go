package domain

// Animation contract shared by the sequencer and presentation adapters.
const (
	ParamIsLeftLeg       = "IsLeftLeg"
	TriggerStartExercise = "StartExercise"
	TriggerIdle          = "Idle"

	StateIdle          = "Idle"
	StateOneStandLeft  = "OneStand_Left"
	StateOneStandRight = "OneStand_Right"
)

// PoseFor returns the animation state of a single-leg stance on the given leg.
func PoseFor(leg Leg) string {
	if leg == LegRight {
		return StateOneStandRight
	}
	return StateOneStandLeft
}

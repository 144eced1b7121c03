package localize

// StepReward returns the shaping reward for a geometric edit that
// moved the box from oldBox to newBox: +1 when the edit strictly
// improved the overlap with the target and -1 otherwise. A zero change
// in overlap counts as -1, penalizing moves that accomplish nothing.
func StepReward(newBox, oldBox, target Box) float64 {
	if IoU(newBox, target)-IoU(oldBox, target) > 0 {
		return 1
	}
	return -1
}

// TriggerReward returns the terminal reward for firing the trigger
// with the box at b: +nu when the overlap with the target is at least
// threshold (boundary inclusive) and -nu otherwise.
func TriggerReward(b, target Box, threshold, nu float64) float64 {
	if IoU(b, target) >= threshold {
		return nu
	}
	return -nu
}

package integrator

import "fmt"

type stageType uint8

// The list of stages that implement the integrator. Stages are run in
// this order and each one completes for every pixel before the next starts.
const (
	resetSample stageType = iota
	generatePrimaryRays
	findIntersections
	chooseLights
	testVisibility
	accumulateRadiance
	continuePaths
	lowerCameraSensitivity
	//
	numStages
)

// Implements Stringer; map stage type to the name used in stage statistics.
func (st stageType) String() string {
	switch st {
	case resetSample:
		return "resetSample"
	case generatePrimaryRays:
		return "generatePrimaryRays"
	case findIntersections:
		return "findIntersections"
	case chooseLights:
		return "chooseLights"
	case testVisibility:
		return "testVisibility"
	case accumulateRadiance:
		return "accumulateRadiance"
	case continuePaths:
		return "continuePaths"
	case lowerCameraSensitivity:
		return "lowerCameraSensitivity"
	default:
		panic(fmt.Sprintf("Unsupported stage type: %d", st))
	}
}

package courseService

import (
	courseModels "chainlearn/models/course"
	"math"
)

// DeriveProgress computes the aggregate percentage from the completed count.
// Progress is always this derived value; it is never stored independently.
func DeriveProgress(completedCount, totalModules int) int {
	if totalModules <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(completedCount) / float64(totalModules)))
}

// IsLocked reports whether the module at index is locked for the enrollment.
// Position 0 is never locked; any later module is locked until its
// predecessor is in the completed set. Pure function, no I/O.
func IsLocked(enrollment *courseModels.Enrollment, modules []courseModels.Module, index int) bool {
	if index <= 0 || index >= len(modules) {
		return false
	}
	if enrollment == nil {
		return true
	}
	return !enrollment.HasCompleted(modules[index-1].ID)
}

package courseService

import (
	courseModels "chainlearn/models/course"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveProgress(t *testing.T) {
	cases := []struct {
		name      string
		completed int
		total     int
		want      int
	}{
		{"empty course", 0, 0, 0},
		{"nothing done", 0, 4, 0},
		{"quarter", 1, 4, 25},
		{"rounds up", 1, 3, 33},
		{"two thirds", 2, 3, 67},
		{"complete", 4, 4, 100},
		{"seven modules", 5, 7, 71},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveProgress(tc.completed, tc.total))
		})
	}
}

func TestIsLocked(t *testing.T) {
	modules := []courseModels.Module{}
	for i := 0; i < 3; i++ {
		module := courseModels.Module{OrderIndex: i}
		module.ID = uint(i + 1)
		modules = append(modules, module)
	}

	fresh := &courseModels.Enrollment{CompletedModuleIDs: courseModels.EncodeModuleIDs(nil)}

	// position 0 is never locked, even with no enrollment at all
	assert.False(t, IsLocked(nil, modules, 0))
	assert.False(t, IsLocked(fresh, modules, 0))

	// every later module is locked until its predecessor completes
	assert.True(t, IsLocked(fresh, modules, 1))
	assert.True(t, IsLocked(fresh, modules, 2))

	afterFirst := &courseModels.Enrollment{CompletedModuleIDs: courseModels.EncodeModuleIDs([]uint{1})}
	assert.False(t, IsLocked(afterFirst, modules, 1))
	assert.True(t, IsLocked(afterFirst, modules, 2))

	// completing out of band does not unlock gaps
	skipped := &courseModels.Enrollment{CompletedModuleIDs: courseModels.EncodeModuleIDs([]uint{2})}
	assert.True(t, IsLocked(skipped, modules, 1))
	assert.False(t, IsLocked(skipped, modules, 2))
}

func TestModuleStates(t *testing.T) {
	modules := []courseModels.Module{}
	for i := 0; i < 3; i++ {
		module := courseModels.Module{Title: "M", OrderIndex: i}
		module.ID = uint(i + 1)
		modules = append(modules, module)
	}

	enrollment := &courseModels.Enrollment{CompletedModuleIDs: courseModels.EncodeModuleIDs([]uint{1})}
	states := ModuleStates(enrollment, modules)

	assert.True(t, states[0].Completed)
	assert.False(t, states[0].Locked)
	assert.False(t, states[1].Completed)
	assert.False(t, states[1].Locked)
	assert.True(t, states[2].Locked)
}

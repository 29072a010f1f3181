package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"checklists/internal/model"
)

func TestComputeStats(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tasks := []model.Task{
		{State: model.StateActive, Completed: true, DueDate: &future},
		{State: model.StateActive, DueDate: &future},
		{State: model.StateActive, DueDate: &past},
		{State: model.StateActive, DueDate: &now},
		{State: model.StateActive},
		{State: model.StateTrashed, DueDate: &future},
		{State: model.StateTrashed, Completed: true},
	}

	assert.Equal(t, model.ListStats{Total: 5, Completed: 1, UpcomingDue: 1}, ComputeStats(tasks, now))
}

func TestComputeStats_Empty(t *testing.T) {
	assert.Equal(t, model.ListStats{}, ComputeStats(nil, time.Now()))
}

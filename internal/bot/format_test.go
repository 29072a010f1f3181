package bot

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checklists/internal/apperr"
	"checklists/internal/model"
)

func TestCallbackDataRoundTrip(t *testing.T) {
	id := uuid.NewString()
	for prefix := range callbackPrefixes {
		data := callbackData(prefix, id)
		assert.LessOrEqual(t, len(data), 64)

		gotPrefix, gotID, ok := parseCallback(data)
		require.True(t, ok)
		assert.Equal(t, prefix, gotPrefix)
		assert.Equal(t, id, gotID)
	}

	for _, bad := range []string{"", "tdone", "tdone:", "nope:" + id} {
		_, _, ok := parseCallback(bad)
		assert.Falsef(t, ok, "%q", bad)
	}
}

func TestParsePositions(t *testing.T) {
	got, err := parsePositions([]string{"1", " 3", "2"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 2}, got)

	for _, bad := range [][]string{nil, {"0"}, {"-1"}, {"x"}} {
		_, err := parsePositions(bad)
		assert.Error(t, err)
	}
}

func TestReorderIDs(t *testing.T) {
	tasks := []model.Task{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	ids, err := reorderIDs(tasks, []int{3, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, ids)

	_, err = reorderIDs(tasks, []int{4})
	assert.Error(t, err)
}

func TestParseDueDate(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)

	got, err := parseDueDate("2025-11-30 18:00", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 11, 30, 18, 0, 0, 0, loc), got)

	got, err = parseDueDate("2025-11-30", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 11, 30, 23, 59, 0, 0, loc), got)

	_, err = parseDueDate("30.11.2025", loc)
	assert.Error(t, err)
}

func TestParsePriority(t *testing.T) {
	cases := map[string]model.Priority{
		btnPriorityLow:  model.PriorityLow,
		"Средний":       model.PriorityMedium,
		"high":          model.PriorityHigh,
		btnPriorityHigh: model.PriorityHigh,
	}
	for in, want := range cases {
		got, ok := parsePriority(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := parsePriority("urgent")
	assert.False(t, ok)
}

func TestMatchList(t *testing.T) {
	lists := []model.ListWithStats{
		{TodoList: model.TodoList{ID: "1", Title: "Home"}},
		{TodoList: model.TodoList{ID: "2", Title: "Work"}},
	}

	assert.Equal(t, "2", matchList(lists, "2 · Work").ID)
	assert.Equal(t, "1", matchList(lists, "1").ID)
	assert.Equal(t, "2", matchList(lists, "work").ID)
	assert.Nil(t, matchList(lists, "3"))
	assert.Nil(t, matchList(lists, "Garden"))
}

func TestFormatTaskLine(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	soon := now.Add(time.Hour)

	overdue := formatTaskLine(1, model.Task{Title: "pay <bill>", DueDate: &past, Priority: model.PriorityHigh}, now)
	assert.Contains(t, overdue, iconOverdue)
	assert.Contains(t, overdue, "Pay &lt;bill&gt;")
	assert.Contains(t, overdue, "🔴")
	assert.Contains(t, overdue, "просрочено")

	upcoming := formatTaskLine(2, model.Task{Title: "call", DueDate: &soon, Labels: model.Labels{"family"}}, now)
	assert.Contains(t, upcoming, iconDue)
	assert.Contains(t, upcoming, "family")

	done := formatTaskLine(3, model.Task{Title: "done", Completed: true, DueDate: &past}, now)
	assert.Contains(t, done, iconDone)
	assert.NotContains(t, done, "просрочено")
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Список не найден.", userMessage(apperr.NotFound(apperr.CodeListNotFound, "checklist not found")))
	assert.Contains(t, userMessage(apperr.Conflict(apperr.CodeListTrashed, "x")), "/trash")
	assert.Contains(t, userMessage(apperr.Validation(apperr.CodeTitleTooLong, "too <long>")), "too &lt;long&gt;")
	assert.Equal(t, "Что-то пошло не так. Попробуй ещё раз.", userMessage(apperr.Internal("boom", nil)))
}

func TestShortTitle(t *testing.T) {
	assert.Equal(t, "Milk", shortTitle(" milk ", 10))
	assert.Equal(t, "Очень дли…", shortTitle("очень длинное название", 10))
}

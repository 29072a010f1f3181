package service

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"checklists/internal/model"
	"checklists/internal/repository"
)

// upcomingWindow is how far ahead the report looks for due tasks.
const upcomingWindow = 48 * time.Hour

// ReminderService builds human-readable summaries for daily notifications.
type ReminderService struct {
	store *repository.Store
}

func NewReminderService(store *repository.Store) *ReminderService {
	return &ReminderService{store: store}
}

// DailySummary renders per-list stats followed by overdue and soon-due open
// tasks. Only active lists and tasks are included.
func (s *ReminderService) DailySummary(ctx context.Context, user model.User, now time.Time) (string, error) {
	var (
		lists []model.TodoList
		tasks []model.Task
	)
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		lists, err = tx.Lists.ListByUser(ctx, user.ID, model.StateActive)
		if err != nil {
			return err
		}
		tasks, err = tx.Tasks.List(ctx, repository.TaskFilter{
			UserID: user.ID,
			States: []model.LifecycleState{model.StateActive},
		})
		return err
	})
	if err != nil {
		return "", fmt.Errorf("load report data: %w", err)
	}

	listNames := make(map[string]string, len(lists))
	for _, list := range lists {
		listNames[list.ID] = list.Title
	}

	var overdue, upcoming []model.Task
	for _, task := range tasks {
		if task.Completed || task.DueDate == nil {
			continue
		}
		if _, ok := listNames[task.ListID]; !ok {
			continue
		}
		d := *task.DueDate
		switch {
		case !d.After(now):
			overdue = append(overdue, task)
		case d.Sub(now) <= upcomingWindow:
			upcoming = append(upcoming, task)
		}
	}
	byDue := func(ts []model.Task) {
		sort.SliceStable(ts, func(i, j int) bool { return ts[i].DueDate.Before(*ts[j].DueDate) })
	}
	byDue(overdue)
	byDue(upcoming)

	var builder strings.Builder
	builder.WriteString("📋 <b>Ежедневный отчёт</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format("02.01.2006")))

	builder.WriteString("🗂 <b>Списки</b>\n")
	if len(lists) == 0 {
		builder.WriteString("— списков пока нет\n")
	} else {
		for _, item := range withStats(lists, tasks, now) {
			builder.WriteString(formatListLine(item))
		}
	}

	builder.WriteString("\n⚠️ <b>Просрочено</b>\n")
	if len(overdue) == 0 {
		builder.WriteString("— нет просроченных задач\n")
	} else {
		for _, task := range overdue {
			builder.WriteString(formatTask(task, listNames, now))
		}
	}

	builder.WriteString("\n⏳ <b>Скоро срок</b>\n")
	if len(upcoming) == 0 {
		builder.WriteString("— ближайшие 48 часов свободны\n")
	} else {
		for _, task := range upcoming {
			builder.WriteString(formatTask(task, listNames, now))
		}
	}

	return strings.TrimSpace(builder.String()), nil
}

func formatListLine(item model.ListWithStats) string {
	title := html.EscapeString(strings.TrimSpace(item.Title))
	line := fmt.Sprintf("• %s: %d/%d выполнено", title, item.Stats.Completed, item.Stats.Total)
	if item.Stats.UpcomingDue > 0 {
		line += fmt.Sprintf(", со сроком: %d", item.Stats.UpcomingDue)
	}
	return line + "\n"
}

func formatTask(task model.Task, listNames map[string]string, now time.Time) string {
	var sb strings.Builder

	icon := "🟢"
	switch task.Priority {
	case model.PriorityHigh:
		icon = "🔴"
	case model.PriorityMedium:
		icon = "🟡"
	}

	title := html.EscapeString(strings.TrimSpace(task.Title))
	sb.WriteString(fmt.Sprintf("%s %s", icon, title))

	if name := strings.TrimSpace(listNames[task.ListID]); name != "" {
		sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(name)))
	}

	if task.DueDate != nil {
		d := task.DueDate.In(now.Location())
		if !d.After(now) {
			sb.WriteString(fmt.Sprintf("\n   ⏰ до %s — <b>просрочено</b>", d.Format("2006-01-02 15:04")))
		} else {
			hoursLeft := int(d.Sub(now).Hours())
			sb.WriteString(fmt.Sprintf("\n   ⏰ до %s · осталось ≈%d ч.", d.Format("2006-01-02 15:04"), hoursLeft))
		}
	}

	if len(task.Labels) > 0 {
		sb.WriteString(fmt.Sprintf("\n   🏷 %s", html.EscapeString(strings.Join(task.Labels, ", "))))
	}

	sb.WriteByte('\n')
	return sb.String()
}

package bot

import (
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"
	"unicode"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"checklists/internal/apperr"
	"checklists/internal/model"
)

// Callback data is "<prefix>:<id>" and stays under Telegram's 64 byte limit
// for uuid ids.
const (
	cbOpenList    = "lopen"
	cbTrashList   = "ltrash"
	cbRestoreList = "lrest"
	cbPurgeList   = "lpurge"
	cbDoneTask    = "tdone"
	cbTrashTask   = "ttrash"
	cbRestoreTask = "trest"
	cbPurgeTask   = "tpurge"
)

var callbackPrefixes = map[string]bool{
	cbOpenList: true, cbTrashList: true, cbRestoreList: true, cbPurgeList: true,
	cbDoneTask: true, cbTrashTask: true, cbRestoreTask: true, cbPurgeTask: true,
}

const (
	btnSkip          = "⏭️ Пропустить"
	btnConfirm       = "✅ Подтвердить"
	btnCancel        = "↩️ Отмена"
	btnCancelDialog  = "⏪ Отменить ввод"
	btnPriorityLow   = "🟢 Низкий"
	btnPriorityMid   = "🟡 Средний"
	btnPriorityHigh  = "🔴 Высокий"
	iconDefault      = "⬜️"
	iconDone         = "✔️"
	iconDue          = "⏳"
	iconOverdue      = "⚠️"
	menuLabelNewTask = "➕ Новая задача"
	menuLabelLists   = "🗂 Списки"
	menuLabelTrash   = "🗑 Корзина"
	menuLabelHelp    = "ℹ️ Помощь"
)

func callbackData(prefix, id string) string {
	return prefix + ":" + id
}

func parseCallback(data string) (prefix, id string, ok bool) {
	prefix, id, found := strings.Cut(data, ":")
	if !found || id == "" || !callbackPrefixes[prefix] {
		return "", "", false
	}
	return prefix, id, true
}

// parsePositions parses 1-based positions.
func parsePositions(args []string) ([]int, error) {
	if len(args) == 0 {
		return nil, errors.New("no positions")
	}
	out := make([]int, 0, len(args))
	for _, arg := range args {
		n, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid position %q", arg)
		}
		out = append(out, n)
	}
	return out, nil
}

// reorderIDs maps 1-based positions in tasks to task ids. Completeness is
// left to the task service.
func reorderIDs(tasks []model.Task, positions []int) ([]string, error) {
	ids := make([]string, 0, len(positions))
	for _, pos := range positions {
		if pos < 1 || pos > len(tasks) {
			return nil, fmt.Errorf("position %d out of range", pos)
		}
		ids = append(ids, tasks[pos-1].ID)
	}
	return ids, nil
}

// parseDueDate accepts "2006-01-02 15:04" or a bare date, which means the
// end of that day.
func parseDueDate(text string, loc *time.Location) (time.Time, error) {
	text = strings.TrimSpace(text)
	if t, err := time.ParseInLocation("2006-01-02 15:04", text, loc); err == nil {
		return t, nil
	}
	d, err := time.ParseInLocation("2006-01-02", text, loc)
	if err != nil {
		return time.Time{}, err
	}
	return d.Add(23*time.Hour + 59*time.Minute), nil
}

func parsePriority(text string) (model.Priority, bool) {
	switch strings.TrimSpace(strings.ToLower(text)) {
	case strings.ToLower(btnPriorityLow), "низкий", "low":
		return model.PriorityLow, true
	case strings.ToLower(btnPriorityMid), "средний", "medium":
		return model.PriorityMedium, true
	case strings.ToLower(btnPriorityHigh), "высокий", "high":
		return model.PriorityHigh, true
	}
	return "", false
}

func priorityLabel(p model.Priority) string {
	switch p {
	case model.PriorityLow:
		return btnPriorityLow
	case model.PriorityMedium:
		return btnPriorityMid
	case model.PriorityHigh:
		return btnPriorityHigh
	default:
		return "—"
	}
}

// matchList picks a list by the "N · title" keyboard label, a bare number or
// a case-insensitive title.
func matchList(lists []model.ListWithStats, text string) *model.ListWithStats {
	text = strings.TrimSpace(text)
	head, _, _ := strings.Cut(text, " ")
	if n, err := strconv.Atoi(strings.TrimSuffix(head, ".")); err == nil && n >= 1 && n <= len(lists) {
		return &lists[n-1]
	}
	for i := range lists {
		if strings.EqualFold(strings.TrimSpace(lists[i].Title), text) {
			return &lists[i]
		}
	}
	return nil
}

func formatListLine(pos int, list model.ListWithStats) string {
	line := fmt.Sprintf("%d. <b>%s</b> · %d/%d", pos, escape(list.Title), list.Stats.Completed, list.Stats.Total)
	if list.Stats.UpcomingDue > 0 {
		line += fmt.Sprintf(" · %s %d", iconDue, list.Stats.UpcomingDue)
	}
	return line + "\n"
}

func formatTaskLine(pos int, task model.Task, now time.Time) string {
	var b strings.Builder
	icon := iconDefault
	switch {
	case task.Completed:
		icon = iconDone
	case task.DueDate != nil && !task.DueDate.After(now):
		icon = iconOverdue
	case task.DueDate != nil && task.DueDate.Sub(now) <= 48*time.Hour:
		icon = iconDue
	}
	b.WriteString(fmt.Sprintf("%s <b>%d.</b> %s", icon, pos, escape(normalizeTitle(task.Title))))
	if task.Priority != model.PriorityNone {
		b.WriteString(" " + strings.Fields(priorityLabel(task.Priority))[0])
	}
	b.WriteByte('\n')
	if task.DueDate != nil && !task.Completed {
		d := task.DueDate.In(now.Location())
		if !d.After(now) {
			b.WriteString(fmt.Sprintf("   ⏰ %s — <b>просрочено</b>\n", d.Format("2006-01-02 15:04")))
		} else {
			b.WriteString(fmt.Sprintf("   ⏰ %s\n", d.Format("2006-01-02 15:04")))
		}
	}
	if len(task.Labels) > 0 {
		b.WriteString(fmt.Sprintf("   🏷 %s\n", escape(strings.Join(task.Labels, ", "))))
	}
	return b.String()
}

// userMessage turns a service error into chat text.
func userMessage(err error) string {
	switch apperr.CodeOf(err) {
	case apperr.CodeListNotFound:
		return "Список не найден."
	case apperr.CodeTodoNotFound:
		return "Задача не найдена."
	case apperr.CodeListTrashed:
		return "Список в корзине. Сначала восстанови его через /trash."
	case apperr.CodeTodoNotInTrash, apperr.CodeListNotInTrash:
		return "Сначала перемести это в корзину."
	case apperr.CodeIncompleteReorderSet, apperr.CodeReorderDuplicateTodo, apperr.CodeReorderUnknownTodo:
		return "Перечисли все задачи списка, каждую ровно один раз."
	}
	if apperr.KindOf(err) == apperr.KindValidation {
		return "Не получилось: " + escape(apperr.PublicMessage(err))
	}
	return "Что-то пошло не так. Попробуй ещё раз."
}

func shortTitle(title string, maxLen int) string {
	clean := strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	clean = normalizeTitle(clean)
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

func normalizeTitle(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	runes := []rune(value)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func escape(s string) string {
	return html.EscapeString(s)
}

func isSkipInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == "-" || value == strings.ToLower(btnSkip) || value == "пропустить" || value == "skip"
}

func isConfirmInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnConfirm) || value == "подтвердить" || value == "да"
}

func isCancelInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancel) || value == "отмена"
}

func isCancelDialogInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancelDialog) || value == "отменить ввод"
}

func confirmKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnConfirm),
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelNewTask),
			tgbotapi.NewKeyboardButton(menuLabelLists),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelTrash),
			tgbotapi.NewKeyboardButton(menuLabelHelp),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancelDialog)),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func skipKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnSkip)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancelDialog)),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func priorityKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnPriorityLow),
			tgbotapi.NewKeyboardButton(btnPriorityMid),
			tgbotapi.NewKeyboardButton(btnPriorityHigh),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnSkip),
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func listKeyboard(lists []model.ListWithStats) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	for i, list := range lists {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(fmt.Sprintf("%d · %s", i+1, shortTitle(list.Title, 30))),
		))
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancelDialog)))
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"checklists/internal/model"
	"checklists/internal/service"
)

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}

	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "друг"
	}

	text := fmt.Sprintf("👋 Привет, %s!\n<b>Я веду твои списки дел.</b>\n\n%s", escape(name), helpText)
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	return b.sendText(msg.Chat.ID, "ℹ️ <b>Подсказки</b>\n"+helpText)
}

func (b *Bot) handleReport(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	text, err := b.reminder.DailySummary(ctx, *user, time.Now())
	if err != nil {
		return b.sendFailure(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleLists(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	return b.sendLists(ctx, msg.Chat.ID, user)
}

func (b *Bot) sendLists(ctx context.Context, chatID int64, user *model.User) error {
	lists, err := b.lists.ListLists(ctx, user.ID, false)
	if err != nil {
		return b.sendFailure(chatID, err)
	}
	if len(lists) == 0 {
		return b.sendText(chatID, "Списков пока нет. Создай первый: /newlist Покупки")
	}

	var builder strings.Builder
	builder.WriteString("🗂 <b>Твои списки</b>\n")
	builder.WriteString("Открыть список: /tasks &lt;номер&gt;\n\n")

	var buttons [][]tgbotapi.InlineKeyboardButton
	for i, list := range lists {
		builder.WriteString(formatListLine(i+1, list))
		buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("📋 %d · %s", i+1, shortTitle(list.Title, 20)), callbackData(cbOpenList, list.ID)),
			tgbotapi.NewInlineKeyboardButtonData("🗑 В корзину", callbackData(cbTrashList, list.ID)),
		))
	}

	out := tgbotapi.NewMessage(chatID, strings.TrimSpace(builder.String()))
	out.ParseMode = tgbotapi.ModeHTML
	out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	_, err = b.api.Send(out)
	return err
}

func (b *Bot) handleNewList(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	title := strings.TrimSpace(msg.CommandArguments())
	if title == "" {
		b.setConversation(msg.From.ID, &conversationState{stage: stageListTitle})
		return b.sendWithReplyMarkup(msg.Chat.ID, "🆕 Как назвать новый список?", cancelKeyboard())
	}
	return b.createList(ctx, msg.Chat.ID, user, title)
}

func (b *Bot) createList(ctx context.Context, chatID int64, user *model.User, title string) error {
	list, err := b.lists.CreateList(ctx, user.ID, title)
	if err != nil {
		return b.sendFailure(chatID, err)
	}
	if err := b.sendText(chatID, fmt.Sprintf("✅ Список «%s» создан.", escape(list.Title))); err != nil {
		return err
	}
	return b.sendLists(ctx, chatID, user)
}

func (b *Bot) handleTasks(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	positions, err := parsePositions(strings.Fields(msg.CommandArguments()))
	if err != nil || len(positions) != 1 {
		return b.sendText(msg.Chat.ID, "Укажи номер списка: /tasks 1")
	}
	list, err := b.listAt(ctx, user, positions[0])
	if err != nil {
		return b.sendFailure(msg.Chat.ID, err)
	}
	if list == nil {
		return b.sendText(msg.Chat.ID, "Нет списка с таким номером. Посмотри /lists.")
	}
	return b.sendTaskList(ctx, msg.Chat.ID, user, list.ID)
}

func (b *Bot) handleDone(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	positions, err := parsePositions(strings.Fields(msg.CommandArguments()))
	if err != nil || len(positions) != 2 {
		return b.sendText(msg.Chat.ID, "Укажи номер списка и задачи: /done 1 3")
	}
	task, err := b.taskAt(ctx, user, positions[0], positions[1])
	if err != nil {
		return b.sendFailure(msg.Chat.ID, err)
	}
	if task == nil {
		return b.sendText(msg.Chat.ID, "Задача не найдена. Посмотри /lists и /tasks.")
	}
	if task.Completed {
		return b.sendText(msg.Chat.ID, "Задача уже выполнена.")
	}
	done, err := b.tasks.CompleteTask(ctx, user.ID, task.ID)
	if err != nil {
		return b.sendFailure(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("✅ Задача «%s» выполнена.", escape(normalizeTitle(done.Title))))
}

func (b *Bot) handleReorder(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	args := strings.Fields(msg.CommandArguments())
	if len(args) < 2 {
		return b.sendText(msg.Chat.ID, "Формат: /reorder &lt;список&gt; &lt;новый порядок&gt;, например /reorder 1 3 1 2")
	}
	positions, err := parsePositions(args)
	if err != nil {
		return b.sendText(msg.Chat.ID, "Номера должны быть положительными числами.")
	}
	list, err := b.listAt(ctx, user, positions[0])
	if err != nil {
		return b.sendFailure(msg.Chat.ID, err)
	}
	if list == nil {
		return b.sendText(msg.Chat.ID, "Нет списка с таким номером. Посмотри /lists.")
	}
	tasks, err := b.tasks.ListTasks(ctx, user.ID, service.TaskQuery{ListID: list.ID})
	if err != nil {
		return b.sendFailure(msg.Chat.ID, err)
	}
	ids, err := reorderIDs(tasks, positions[1:])
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("В списке %d задач, а номер вне диапазона.", len(tasks)))
	}
	if err := b.tasks.ReorderTasks(ctx, user.ID, list.ID, ids); err != nil {
		return b.sendFailure(msg.Chat.ID, err)
	}
	return b.sendTaskList(ctx, msg.Chat.ID, user, list.ID)
}

func (b *Bot) handleTrash(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	return b.sendTrash(ctx, msg.Chat.ID, user)
}

func (b *Bot) sendTrash(ctx context.Context, chatID int64, user *model.User) error {
	lists, err := b.lists.ListLists(ctx, user.ID, true)
	if err != nil {
		return b.sendFailure(chatID, err)
	}
	tasks, err := b.tasks.ListTrashedTasks(ctx, user.ID)
	if err != nil {
		return b.sendFailure(chatID, err)
	}

	titles := make(map[string]string, len(lists))
	var trashedLists []model.ListWithStats
	for _, list := range lists {
		titles[list.ID] = list.Title
		if list.IsTrashed() {
			trashedLists = append(trashedLists, list)
		}
	}

	if len(trashedLists) == 0 && len(tasks) == 0 {
		return b.sendText(chatID, "🗑 Корзина пуста.")
	}

	var builder strings.Builder
	var buttons [][]tgbotapi.InlineKeyboardButton
	builder.WriteString("🗑 <b>Корзина</b>\n")

	if len(trashedLists) > 0 {
		builder.WriteString("\n<b>Списки</b>\n")
		for _, list := range trashedLists {
			builder.WriteString(fmt.Sprintf("📁 %s\n", escape(list.Title)))
			buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("♻️ "+shortTitle(list.Title, 18), callbackData(cbRestoreList, list.ID)),
				tgbotapi.NewInlineKeyboardButtonData("❌ Навсегда", callbackData(cbPurgeList, list.ID)),
			))
		}
	}

	if len(tasks) > 0 {
		builder.WriteString("\n<b>Задачи</b>\n")
		for _, task := range tasks {
			builder.WriteString(fmt.Sprintf("• %s <i>(%s)</i>\n", escape(normalizeTitle(task.Title)), escape(titles[task.ListID])))
			buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("♻️ "+shortTitle(task.Title, 18), callbackData(cbRestoreTask, task.ID)),
				tgbotapi.NewInlineKeyboardButtonData("❌ Навсегда", callbackData(cbPurgeTask, task.ID)),
			))
		}
	}

	out := tgbotapi.NewMessage(chatID, strings.TrimSpace(builder.String()))
	out.ParseMode = tgbotapi.ModeHTML
	out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	_, err = b.api.Send(out)
	return err
}

func (b *Bot) sendTaskList(ctx context.Context, chatID int64, user *model.User, listID string) error {
	list, err := b.lists.GetList(ctx, user.ID, listID)
	if err != nil {
		return b.sendFailure(chatID, err)
	}
	tasks, err := b.tasks.ListTasks(ctx, user.ID, service.TaskQuery{ListID: listID})
	if err != nil {
		return b.sendFailure(chatID, err)
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("📋 <b>%s</b> · %d/%d выполнено\n\n", escape(list.Title), list.Stats.Completed, list.Stats.Total))
	if len(tasks) == 0 {
		builder.WriteString("Задач нет. Добавь через /add.")
		return b.sendText(chatID, builder.String())
	}

	now := time.Now()
	var buttons [][]tgbotapi.InlineKeyboardButton
	for i, task := range tasks {
		builder.WriteString(formatTaskLine(i+1, task, now))
		var row []tgbotapi.InlineKeyboardButton
		if !task.Completed {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("✅ %d · %s", i+1, shortTitle(task.Title, 20)), callbackData(cbDoneTask, task.ID)))
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("🗑", callbackData(cbTrashTask, task.ID)))
		buttons = append(buttons, row)
	}

	out := tgbotapi.NewMessage(chatID, strings.TrimSpace(builder.String()))
	out.ParseMode = tgbotapi.ModeHTML
	out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	_, err = b.api.Send(out)
	return err
}

// listAt returns the active list at 1-based position pos, or nil.
func (b *Bot) listAt(ctx context.Context, user *model.User, pos int) (*model.ListWithStats, error) {
	lists, err := b.lists.ListLists(ctx, user.ID, false)
	if err != nil {
		return nil, err
	}
	if pos < 1 || pos > len(lists) {
		return nil, nil
	}
	return &lists[pos-1], nil
}

// taskAt returns the active task at position taskPos in list listPos, or nil.
func (b *Bot) taskAt(ctx context.Context, user *model.User, listPos, taskPos int) (*model.Task, error) {
	list, err := b.listAt(ctx, user, listPos)
	if err != nil || list == nil {
		return nil, err
	}
	tasks, err := b.tasks.ListTasks(ctx, user.ID, service.TaskQuery{ListID: list.ID})
	if err != nil {
		return nil, err
	}
	if taskPos < 1 || taskPos > len(tasks) {
		return nil, nil
	}
	return &tasks[taskPos-1], nil
}

const helpText = "• /lists — твои списки\n" +
	"• /newlist &lt;название&gt; — создать список\n" +
	"• /tasks &lt;номер&gt; — задачи списка\n" +
	"• /add — добавить задачу пошагово\n" +
	"• /done &lt;список&gt; &lt;задача&gt; — отметить выполненной\n" +
	"• /reorder &lt;список&gt; &lt;порядок…&gt; — переставить задачи, например /reorder 1 3 1 2\n" +
	"• /trash — корзина: восстановить или удалить навсегда\n" +
	"• /report — отчёт прямо сейчас\n" +
	"• /cancel — отменить текущий ввод"

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

func (b *Bot) startAddConversation(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	lists, err := b.lists.ListLists(ctx, user.ID, false)
	if err != nil {
		return b.sendFailure(msg.Chat.ID, err)
	}
	if len(lists) == 0 {
		return b.sendText(msg.Chat.ID, "Сначала создай список: /newlist Покупки")
	}

	b.log.Debug().Int64("from", msg.From.ID).Msg("start add conversation")
	b.setConversation(msg.From.ID, &conversationState{stage: stageTaskList})
	return b.sendWithReplyMarkup(msg.Chat.ID, "🆕 Новая задача.\n<b>Шаг 1:</b> в какой список?", listKeyboard(lists))
}

func (b *Bot) handleConversation(ctx context.Context, msg *tgbotapi.Message) error {
	state := b.getConversation(msg.From.ID)
	if state == nil {
		return nil
	}
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	text := strings.TrimSpace(msg.Text)
	switch state.stage {
	case stageListTitle:
		b.clearConversation(msg.From.ID)
		return b.createList(ctx, msg.Chat.ID, user, text)
	case stageTaskList:
		lists, err := b.lists.ListLists(ctx, user.ID, false)
		if err != nil {
			return b.sendFailure(msg.Chat.ID, err)
		}
		list := matchList(lists, text)
		if list == nil {
			return b.sendWithReplyMarkup(msg.Chat.ID, "Не нашёл такой список. Выбери кнопкой.", listKeyboard(lists))
		}
		state.input.ListID = list.ID
		state.stage = stageTaskTitle
		return b.sendWithReplyMarkup(msg.Chat.ID, "<b>Шаг 2:</b> как назвать задачу?", cancelKeyboard())
	case stageTaskTitle:
		if text == "" {
			return b.sendWithReplyMarkup(msg.Chat.ID, "Название не может быть пустым.", cancelKeyboard())
		}
		state.input.Title = text
		state.stage = stageTaskDue
		return b.sendWithReplyMarkup(msg.Chat.ID, "⏰ Срок в формате <code>2025-11-30</code> или <code>2025-11-30 18:00</code> (или «Пропустить»).", skipKeyboard())
	case stageTaskDue:
		if !isSkipInput(text) {
			due, err := parseDueDate(text, time.Local)
			if err != nil {
				return b.sendWithReplyMarkup(msg.Chat.ID, "Не могу распознать дату. Используй формат <code>2025-11-30</code> или «Пропустить».", skipKeyboard())
			}
			state.input.DueDate = &due
		}
		state.stage = stageTaskPriority
		return b.sendWithReplyMarkup(msg.Chat.ID, "🎯 Приоритет?", priorityKeyboard())
	case stageTaskPriority:
		if !isSkipInput(text) {
			p, ok := parsePriority(text)
			if !ok {
				return b.sendWithReplyMarkup(msg.Chat.ID, "Выбери приоритет кнопкой или «Пропустить».", priorityKeyboard())
			}
			state.input.Priority = p
		}
		b.clearConversation(msg.From.ID)
		return b.finishTaskCreation(ctx, msg.Chat.ID, user, state.input)
	default:
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "Диалог сброшен. Попробуй ещё раз через /add.")
	}
}

func (b *Bot) finishTaskCreation(ctx context.Context, chatID int64, user *model.User, input service.TaskInput) error {
	task, err := b.tasks.CreateTask(ctx, user.ID, input)
	if err != nil {
		return b.sendFailure(chatID, err)
	}

	var summary strings.Builder
	summary.WriteString("✅ <b>Задача сохранена</b>\n")
	summary.WriteString(fmt.Sprintf("• <b>Название:</b> %s\n", escape(normalizeTitle(task.Title))))
	if task.DueDate != nil {
		summary.WriteString(fmt.Sprintf("• <b>Срок:</b> %s\n", task.DueDate.In(time.Local).Format("2006-01-02 15:04")))
	}
	if task.Priority != model.PriorityNone {
		summary.WriteString(fmt.Sprintf("• <b>Приоритет:</b> %s\n", priorityLabel(task.Priority)))
	}

	if err := b.sendText(chatID, strings.TrimSpace(summary.String())); err != nil {
		return err
	}
	return b.sendTaskList(ctx, chatID, user, task.ListID)
}

package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"checklists/internal/model"
)

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil {
		return nil
	}

	prefix, id, ok := parseCallback(cb.Data)
	if !ok {
		b.ack(cb, "")
		return nil
	}
	b.log.Debug().Int64("from", cb.From.ID).Str("action", prefix).Str("id", id).Msg("callback")

	user, err := b.ensureUser(ctx, cb.From)
	if err != nil {
		b.ack(cb, "")
		return err
	}
	chatID := cb.Message.Chat.ID

	switch prefix {
	case cbOpenList:
		b.ack(cb, "")
		return b.sendTaskList(ctx, chatID, user, id)
	case cbDoneTask:
		task, err := b.tasks.CompleteTask(ctx, user.ID, id)
		if err != nil {
			b.ack(cb, "")
			return b.sendFailure(chatID, err)
		}
		b.ack(cb, "Выполнено ✅")
		return b.sendTaskList(ctx, chatID, user, task.ListID)
	case cbTrashTask:
		task, err := b.tasks.GetTask(ctx, user.ID, id)
		if err == nil {
			err = b.tasks.SoftDeleteTask(ctx, user.ID, id)
		}
		if err != nil {
			b.ack(cb, "")
			return b.sendFailure(chatID, err)
		}
		b.ack(cb, "Перемещено в корзину")
		return b.sendTaskList(ctx, chatID, user, task.ListID)
	case cbRestoreTask:
		if err := b.tasks.RestoreTask(ctx, user.ID, id); err != nil {
			b.ack(cb, "")
			return b.sendFailure(chatID, err)
		}
		b.ack(cb, "Восстановлено ♻️")
		return b.sendTrash(ctx, chatID, user)
	case cbPurgeTask:
		b.ack(cb, "")
		task, err := b.tasks.GetTask(ctx, user.ID, id)
		if err != nil {
			return b.sendFailure(chatID, err)
		}
		b.setConfirmation(cb.From.ID, confirmationRequest{id: task.ID, action: actionPurgeTask})
		text := fmt.Sprintf("Удалить задачу «%s» навсегда? Это нельзя отменить.", escape(normalizeTitle(task.Title)))
		return b.sendWithReplyMarkup(chatID, text, confirmKeyboard())
	case cbTrashList:
		if err := b.lists.SoftDeleteList(ctx, user.ID, id); err != nil {
			b.ack(cb, "")
			return b.sendFailure(chatID, err)
		}
		b.ack(cb, "Список в корзине")
		return b.sendLists(ctx, chatID, user)
	case cbRestoreList:
		if err := b.lists.RestoreList(ctx, user.ID, id); err != nil {
			b.ack(cb, "")
			return b.sendFailure(chatID, err)
		}
		b.ack(cb, "Список восстановлен ♻️")
		return b.sendTrash(ctx, chatID, user)
	case cbPurgeList:
		b.ack(cb, "")
		list, err := b.lists.GetList(ctx, user.ID, id)
		if err != nil {
			return b.sendFailure(chatID, err)
		}
		b.setConfirmation(cb.From.ID, confirmationRequest{id: list.ID, action: actionPurgeList})
		text := fmt.Sprintf("Удалить список «%s» и все его задачи навсегда? Это нельзя отменить.", escape(list.Title))
		return b.sendWithReplyMarkup(chatID, text, confirmKeyboard())
	default:
		b.ack(cb, "")
		return nil
	}
}

func (b *Bot) purgeTaskAndRefresh(ctx context.Context, chatID int64, user *model.User, taskID string) error {
	if err := b.tasks.PurgeTask(ctx, user.ID, taskID); err != nil {
		return b.sendFailure(chatID, err)
	}
	if err := b.sendText(chatID, "❌ Задача удалена навсегда."); err != nil {
		return err
	}
	return b.sendTrash(ctx, chatID, user)
}

func (b *Bot) purgeListAndRefresh(ctx context.Context, chatID int64, user *model.User, listID string) error {
	if err := b.lists.PurgeList(ctx, user.ID, listID); err != nil {
		return b.sendFailure(chatID, err)
	}
	if err := b.sendText(chatID, "❌ Список удалён навсегда."); err != nil {
		return err
	}
	return b.sendTrash(ctx, chatID, user)
}

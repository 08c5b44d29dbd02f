package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"task-tracker/internal/model"
	"task-tracker/internal/notify"
	"task-tracker/internal/service"
)

type conversationStage int

const (
	stageNone conversationStage = iota
	stageText
	stagePriority
	stageReminder
	stageEditReminder
)

const (
	cbTogglePrefix = "toggle:"
	cbDeletePrefix = "delete:"
	cbRemindPrefix = "remind:"
)

const (
	btnSkip        = "⏭ Skip"
	btnCancel      = "⏪ Cancel"
	btnPrioLow     = "🟢 Low"
	btnPrioMedium  = "🟡 Medium"
	btnPrioHigh    = "🔴 High"
	reminderLayout = "2006-01-02 15:04"
)

type conversationState struct {
	stage    conversationStage
	raw      string
	priority model.Priority
	taskID   string
}

// Bot is the interactive surface: it turns Telegram updates into calls on
// the auth gate and the task store, and renders the view pipeline back.
type Bot struct {
	api      *tgbotapi.BotAPI
	auth     *service.AuthService
	tasks    *service.TaskService
	scanner  *service.ReminderScanner
	notifier *notify.Telegram
	log      *zap.Logger

	mu            sync.Mutex
	conversations map[int64]*conversationState
	filters       map[int64]*service.ViewFilter
}

func New(api *tgbotapi.BotAPI, auth *service.AuthService, tasks *service.TaskService, scanner *service.ReminderScanner, notifier *notify.Telegram, logger *zap.Logger) *Bot {
	return &Bot{
		api:           api,
		auth:          auth,
		tasks:         tasks,
		scanner:       scanner,
		notifier:      notifier,
		log:           logger,
		conversations: make(map[int64]*conversationState),
		filters:       make(map[int64]*service.ViewFilter),
	}
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.log.Info("start polling updates", zap.String("account", b.api.Self.UserName))

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				b.log.Warn("handle callback", zap.Error(err))
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				b.log.Warn("handle message", zap.Error(err))
			}
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	// A restored session has no delivery channel until the user shows up.
	if _, ok := b.auth.Current(); ok {
		b.notifier.Bind(msg.Chat.ID)
	}

	if !msg.IsCommand() && isCancelInput(msg.Text) {
		b.clearConversation(msg.Chat.ID)
		return b.sendTextWithRemove(msg.Chat.ID, "⏪ Cancelled.")
	}

	if msg.IsCommand() {
		b.log.Info("command", zap.String("command", msg.Command()))
		return b.handleCommand(ctx, msg)
	}

	if b.hasConversation(msg.Chat.ID) {
		return b.handleConversation(ctx, msg)
	}

	return b.sendText(msg.Chat.ID, "I did not get that. Try /add to create a task or /help for the command list.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(msg)
	case "help":
		return b.handleHelp(msg)
	case "login":
		return b.handleLogin(ctx, msg)
	case "register":
		return b.handleRegister(ctx, msg)
	case "logout":
		return b.handleLogout(ctx, msg)
	case "add":
		return b.handleAdd(msg)
	case "tasks":
		if !b.requireSession(msg.Chat.ID) {
			return nil
		}
		return b.sendTaskList(msg.Chat.ID)
	case "search":
		return b.handleSearch(msg)
	case "priority":
		return b.handlePriorityFilter(msg)
	case "status":
		return b.handleStatusFilter(msg)
	case "sort":
		return b.handleSort(msg)
	case "labels":
		return b.handleLabels(msg)
	case "stats":
		return b.handleStats(msg)
	case "cancel":
		b.clearConversation(msg.Chat.ID)
		return b.sendTextWithRemove(msg.Chat.ID, "⏪ Cancelled.")
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. See /help.")
	}
}

func (b *Bot) handleStart(msg *tgbotapi.Message) error {
	if identity, ok := b.auth.Current(); ok {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("👋 Welcome back, <b>%s</b>! /tasks shows your list, /add creates a task.", html.EscapeString(identity.Username)))
	}
	return b.sendText(msg.Chat.ID, "👋 Hi! I keep track of your tasks, labels and reminders.\nLog in first: <code>/login &lt;username&gt; &lt;password&gt;</code>")
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	text := "ℹ️ <b>Commands</b>\n" +
		"• /login &lt;username&gt; &lt;password&gt; — open your session\n" +
		"• /logout — close the session and clear the list\n" +
		"• /add &lt;text with #labels&gt; — create a task (priority and reminder follow)\n" +
		"• /tasks — show the list with the current filters\n" +
		"• /search &lt;text|off&gt; — filter by text\n" +
		"• /priority &lt;all|low|medium|high&gt; — filter by priority\n" +
		"• /status &lt;all|active|completed&gt; — filter by state\n" +
		"• /sort &lt;date|priority&gt; — pick the ordering\n" +
		"• /labels [name] — show label filters, or toggle one\n" +
		"• /stats — counters over the whole list\n" +
		"• /cancel — abort the current dialog\n\n" +
		"Buttons under each task toggle it (✔), edit its reminder (⏰) or delete it (🗑)."
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleLogin(ctx context.Context, msg *tgbotapi.Message) error {
	fields := strings.Fields(msg.CommandArguments())
	if len(fields) != 2 {
		return b.sendText(msg.Chat.ID, "Usage: <code>/login &lt;username&gt; &lt;password&gt;</code>")
	}

	identity, err := b.auth.Login(ctx, fields[0], fields[1])
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return b.sendText(msg.Chat.ID, "❌ Invalid credentials. Try again.")
		}
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Login failed: %s", html.EscapeString(err.Error())))
	}

	b.notifier.Bind(msg.Chat.ID)
	if err := b.scanner.Start(); err != nil {
		b.log.Warn("start reminder scanner", zap.Error(err))
	}

	if err := b.sendText(msg.Chat.ID, fmt.Sprintf("✅ Logged in as <b>%s</b>.", html.EscapeString(identity.Username))); err != nil {
		return err
	}
	return b.sendTaskList(msg.Chat.ID)
}

func (b *Bot) handleRegister(ctx context.Context, msg *tgbotapi.Message) error {
	fields := strings.Fields(msg.CommandArguments())
	username, password := "", ""
	if len(fields) == 2 {
		username, password = fields[0], fields[1]
	}
	if err := b.auth.Register(ctx, username, password); err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("🚫 %s", html.EscapeString(err.Error())))
	}
	return nil
}

func (b *Bot) handleLogout(ctx context.Context, msg *tgbotapi.Message) error {
	if _, ok := b.auth.Current(); !ok {
		return b.sendText(msg.Chat.ID, "You are not logged in.")
	}

	b.scanner.Stop()
	b.auth.Logout(ctx)
	b.notifier.Unbind()
	b.clearConversation(msg.Chat.ID)

	b.mu.Lock()
	delete(b.filters, msg.Chat.ID)
	b.mu.Unlock()

	return b.sendTextWithRemove(msg.Chat.ID, "👋 Logged out. Your list is cleared until the next login.")
}

func (b *Bot) handleAdd(msg *tgbotapi.Message) error {
	if !b.requireSession(msg.Chat.ID) {
		return nil
	}

	raw := strings.TrimSpace(msg.CommandArguments())
	if raw == "" {
		b.setConversation(msg.Chat.ID, &conversationState{stage: stageText})
		return b.sendWithReplyMarkup(msg.Chat.ID, "🆕 What needs doing? Use <code>#label</code> tokens to tag the task.", cancelKeyboard())
	}

	b.setConversation(msg.Chat.ID, &conversationState{stage: stagePriority, raw: raw})
	return b.sendWithReplyMarkup(msg.Chat.ID, "How urgent is it?", priorityKeyboard())
}

func (b *Bot) handleConversation(ctx context.Context, msg *tgbotapi.Message) error {
	state := b.getConversation(msg.Chat.ID)
	if state == nil {
		return nil
	}

	text := strings.TrimSpace(msg.Text)
	switch state.stage {
	case stageText:
		state.raw = text
		state.stage = stagePriority
		return b.sendWithReplyMarkup(msg.Chat.ID, "How urgent is it?", priorityKeyboard())
	case stagePriority:
		if !isSkipInput(text) {
			prio, ok := parsePriorityInput(text)
			if !ok {
				return b.sendWithReplyMarkup(msg.Chat.ID, "Pick a priority button, or Skip for medium.", priorityKeyboard())
			}
			state.priority = prio
		}
		state.stage = stageReminder
		return b.sendWithReplyMarkup(msg.Chat.ID, "⏰ When should I remind you? Send <code>2026-09-01 09:00</code>, or Skip.", skipKeyboard())
	case stageReminder:
		var reminder *time.Time
		if !isSkipInput(text) {
			parsed, err := parseReminder(text)
			if err != nil {
				return b.sendWithReplyMarkup(msg.Chat.ID, "I could not read that time. Use <code>2026-09-01 09:00</code> or Skip.", skipKeyboard())
			}
			reminder = parsed
		}
		err := b.finishTaskCreation(ctx, msg.Chat.ID, state.raw, reminder, state.priority)
		b.clearConversation(msg.Chat.ID)
		return err
	case stageEditReminder:
		return b.finishReminderEdit(ctx, msg.Chat.ID, state.taskID, text)
	default:
		b.clearConversation(msg.Chat.ID)
		return b.sendText(msg.Chat.ID, "Dialog reset. Try /add again.")
	}
}

func (b *Bot) finishTaskCreation(ctx context.Context, chatID int64, raw string, reminder *time.Time, prio model.Priority) error {
	task, err := b.tasks.Add(ctx, raw, reminder, prio)
	switch {
	case errors.Is(err, service.ErrEmptyInput):
		return b.sendTextWithRemove(chatID, "The task needs some text or at least one #label.")
	case errors.Is(err, service.ErrNoSession):
		return b.sendTextWithRemove(chatID, "Session expired. /login again, please.")
	case err != nil:
		return b.sendTextWithRemove(chatID, fmt.Sprintf("Could not save the task: %s", html.EscapeString(err.Error())))
	}

	b.log.Info("task created", zap.String("task_id", task.ID), zap.Int("labels", len(task.Labels)))

	var summary strings.Builder
	summary.WriteString("✅ <b>Task saved</b>\n")
	summary.WriteString(fmt.Sprintf("• %s\n", html.EscapeString(service.DisplayText(task))))
	summary.WriteString(fmt.Sprintf("• Priority: %s\n", priorityLabel(task.Priority)))
	if len(task.Labels) > 0 {
		summary.WriteString(fmt.Sprintf("• Labels: %s\n", html.EscapeString("#"+strings.Join(task.Labels, " #"))))
	}
	if task.Reminder != nil {
		summary.WriteString(fmt.Sprintf("• Reminder: %s\n", task.Reminder.Format(reminderLayout)))
	}

	if err := b.sendTextWithRemove(chatID, strings.TrimSpace(summary.String())); err != nil {
		return err
	}
	return b.sendTaskList(chatID)
}

func (b *Bot) finishReminderEdit(ctx context.Context, chatID int64, taskID, text string) error {
	var reminder *time.Time
	if !isOffInput(text) {
		parsed, err := parseReminder(text)
		if err != nil {
			return b.sendWithReplyMarkup(chatID, "I could not read that time. Use <code>2026-09-01 09:00</code>, or <code>off</code> to clear.", cancelKeyboard())
		}
		reminder = parsed
	}

	b.clearConversation(chatID)

	err := b.tasks.SetReminder(ctx, taskID, reminder)
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		return b.sendTextWithRemove(chatID, "That task is gone already.")
	case errors.Is(err, service.ErrNoSession):
		return b.sendTextWithRemove(chatID, "Session expired. /login again, please.")
	case err != nil:
		return b.sendTextWithRemove(chatID, fmt.Sprintf("Could not update the reminder: %s", html.EscapeString(err.Error())))
	}

	if reminder == nil {
		if err := b.sendTextWithRemove(chatID, "⏰ Reminder cleared."); err != nil {
			return err
		}
	} else if err := b.sendTextWithRemove(chatID, fmt.Sprintf("⏰ Reminder set for %s.", reminder.Format(reminderLayout))); err != nil {
		return err
	}
	return b.sendTaskList(chatID)
}

func (b *Bot) handleSearch(msg *tgbotapi.Message) error {
	if !b.requireSession(msg.Chat.ID) {
		return nil
	}
	args := strings.TrimSpace(msg.CommandArguments())
	filter := b.filterFor(msg.Chat.ID)
	if args == "" || strings.EqualFold(args, "off") {
		filter.Search = ""
	} else {
		filter.Search = args
	}
	return b.sendTaskList(msg.Chat.ID)
}

func (b *Bot) handlePriorityFilter(msg *tgbotapi.Message) error {
	if !b.requireSession(msg.Chat.ID) {
		return nil
	}
	args := strings.ToLower(strings.TrimSpace(msg.CommandArguments()))
	filter := b.filterFor(msg.Chat.ID)
	switch args {
	case "", "all":
		filter.Priority = ""
	case "low", "medium", "high":
		filter.Priority = model.Priority(args)
	default:
		return b.sendText(msg.Chat.ID, "Usage: /priority all|low|medium|high")
	}
	return b.sendTaskList(msg.Chat.ID)
}

func (b *Bot) handleStatusFilter(msg *tgbotapi.Message) error {
	if !b.requireSession(msg.Chat.ID) {
		return nil
	}
	args := strings.ToLower(strings.TrimSpace(msg.CommandArguments()))
	filter := b.filterFor(msg.Chat.ID)
	switch service.StatusFilter(args) {
	case service.StatusActive, service.StatusCompleted:
		filter.Status = service.StatusFilter(args)
	case service.StatusAll, "":
		filter.Status = service.StatusAll
	default:
		return b.sendText(msg.Chat.ID, "Usage: /status all|active|completed")
	}
	return b.sendTaskList(msg.Chat.ID)
}

func (b *Bot) handleSort(msg *tgbotapi.Message) error {
	if !b.requireSession(msg.Chat.ID) {
		return nil
	}
	args := strings.ToLower(strings.TrimSpace(msg.CommandArguments()))
	filter := b.filterFor(msg.Chat.ID)
	switch service.SortMode(args) {
	case service.SortByPriority:
		filter.Sort = service.SortByPriority
	case service.SortByDate, "":
		filter.Sort = service.SortByDate
	default:
		return b.sendText(msg.Chat.ID, "Usage: /sort date|priority")
	}
	return b.sendTaskList(msg.Chat.ID)
}

func (b *Bot) handleLabels(msg *tgbotapi.Message) error {
	if !b.requireSession(msg.Chat.ID) {
		return nil
	}

	filter := b.filterFor(msg.Chat.ID)
	args := strings.TrimSpace(msg.CommandArguments())
	if args != "" {
		filter.ToggleLabel(strings.TrimPrefix(args, "#"))
		return b.sendTaskList(msg.Chat.ID)
	}

	universe := b.tasks.Labels()
	if len(universe) == 0 {
		return b.sendText(msg.Chat.ID, "No labels yet. Add tasks with <code>#label</code> tokens first.")
	}

	var builder strings.Builder
	builder.WriteString("🏷 <b>Labels</b> — selected ones must ALL match. Toggle with <code>/labels name</code>.\n")
	for _, label := range universe {
		mark := "▫️"
		for _, selected := range filter.Labels {
			if selected == label {
				mark = "🔸"
				break
			}
		}
		builder.WriteString(fmt.Sprintf("%s #%s\n", mark, html.EscapeString(label)))
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(builder.String()))
}

func (b *Bot) handleStats(msg *tgbotapi.Message) error {
	if !b.requireSession(msg.Chat.ID) {
		return nil
	}

	view := service.BuildView(b.tasks.Tasks(), service.ViewFilter{}, time.Now())
	text := fmt.Sprintf(
		"📊 <b>Stats</b>\n• Total: %d\n• Completed: %d\n• High priority open: %d\n• Upcoming reminders: %d",
		view.Stats.Total, view.Stats.Completed, view.Stats.HighPriority, view.Stats.Upcoming,
	)
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) sendTaskList(chatID int64) error {
	filter := b.filterFor(chatID)
	view := service.BuildView(b.tasks.Tasks(), *filter, time.Now())

	var builder strings.Builder
	builder.WriteString("📋 <b>My Tasks</b>\n")
	builder.WriteString(fmt.Sprintf("%d total · %d done · %d high open · %d upcoming\n", view.Stats.Total, view.Stats.Completed, view.Stats.HighPriority, view.Stats.Upcoming))
	if line := filterLine(*filter); line != "" {
		builder.WriteString(line + "\n")
	}
	builder.WriteByte('\n')

	if len(view.Tasks) == 0 {
		builder.WriteString("Nothing here. Adjust the filters or /add a task.")
		return b.sendText(chatID, strings.TrimSpace(builder.String()))
	}

	now := time.Now()
	var buttons [][]tgbotapi.InlineKeyboardButton
	for _, task := range view.Tasks {
		builder.WriteString(formatTask(task, now))
		toggleLabel := "✔ Done"
		if task.Completed {
			toggleLabel = "↩ Reopen"
		}
		buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%s · %s", toggleLabel, shortText(service.DisplayText(task), 16)), cbTogglePrefix+task.ID),
			tgbotapi.NewInlineKeyboardButtonData("⏰", cbRemindPrefix+task.ID),
			tgbotapi.NewInlineKeyboardButtonData("🗑", cbDeletePrefix+task.ID),
		))
	}

	msg := tgbotapi.NewMessage(chatID, strings.TrimSpace(builder.String()))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil {
		return nil
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.log.Warn("callback ack", zap.Error(err))
	}

	chatID := cb.Message.Chat.ID
	if _, ok := b.auth.Current(); !ok {
		return b.sendText(chatID, "Session is closed. /login first.")
	}

	data := cb.Data
	switch {
	case strings.HasPrefix(data, cbTogglePrefix):
		id := strings.TrimPrefix(data, cbTogglePrefix)
		if err := b.tasks.Toggle(ctx, id); err != nil {
			if errors.Is(err, service.ErrTaskNotFound) {
				return b.sendText(chatID, "That task is gone already.")
			}
			return err
		}
		return b.sendTaskList(chatID)
	case strings.HasPrefix(data, cbDeletePrefix):
		id := strings.TrimPrefix(data, cbDeletePrefix)
		if err := b.tasks.Delete(ctx, id); err != nil {
			if errors.Is(err, service.ErrTaskNotFound) {
				return b.sendText(chatID, "That task is gone already.")
			}
			return err
		}
		return b.sendTaskList(chatID)
	case strings.HasPrefix(data, cbRemindPrefix):
		id := strings.TrimPrefix(data, cbRemindPrefix)
		task, ok := b.tasks.Get(id)
		if !ok {
			return b.sendText(chatID, "That task is gone already.")
		}
		b.setConversation(chatID, &conversationState{stage: stageEditReminder, taskID: id})
		prompt := fmt.Sprintf("⏰ New reminder for «%s»? Send <code>2026-09-01 09:00</code>, or <code>off</code> to clear.", html.EscapeString(service.DisplayText(task)))
		return b.sendWithReplyMarkup(chatID, prompt, cancelKeyboard())
	default:
		return nil
	}
}

func (b *Bot) requireSession(chatID int64) bool {
	if _, ok := b.auth.Current(); ok {
		return true
	}
	if err := b.sendText(chatID, "🔐 Log in first: <code>/login &lt;username&gt; &lt;password&gt;</code>"); err != nil {
		b.log.Warn("send login prompt", zap.Error(err))
	}
	return false
}

func (b *Bot) filterFor(chatID int64) *service.ViewFilter {
	b.mu.Lock()
	defer b.mu.Unlock()

	filter, ok := b.filters[chatID]
	if !ok {
		filter = &service.ViewFilter{Status: service.StatusAll, Sort: service.SortByDate}
		b.filters[chatID] = filter
	}
	return filter
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendTextWithRemove(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) setConversation(chatID int64, state *conversationState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations[chatID] = state
}

func (b *Bot) getConversation(chatID int64) *conversationState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversations[chatID]
}

func (b *Bot) hasConversation(chatID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.conversations[chatID]
	return ok
}

func (b *Bot) clearConversation(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conversations, chatID)
}

func formatTask(task model.Task, now time.Time) string {
	var b strings.Builder

	text := html.EscapeString(service.DisplayText(task))
	if task.Completed {
		b.WriteString(fmt.Sprintf("✅ <s>%s</s>\n", text))
	} else {
		b.WriteString(fmt.Sprintf("%s %s\n", priorityIcon(task.Priority), text))
	}

	if len(task.Labels) > 0 && task.Text != "" {
		b.WriteString(fmt.Sprintf("   🏷 %s\n", html.EscapeString("#"+strings.Join(task.Labels, " #"))))
	}
	if task.Reminder != nil {
		when := task.Reminder.In(now.Location())
		if !task.Completed && now.After(when) {
			b.WriteString(fmt.Sprintf("   ⏰ %s — <b>due</b>\n", when.Format(reminderLayout)))
		} else {
			b.WriteString(fmt.Sprintf("   ⏰ %s\n", when.Format(reminderLayout)))
		}
	}
	b.WriteByte('\n')
	return b.String()
}

func filterLine(f service.ViewFilter) string {
	var parts []string
	if f.Search != "" {
		parts = append(parts, fmt.Sprintf("search «%s»", html.EscapeString(f.Search)))
	}
	if f.Priority != "" {
		parts = append(parts, string(f.Priority)+" priority")
	}
	if f.Status != "" && f.Status != service.StatusAll {
		parts = append(parts, string(f.Status))
	}
	if len(f.Labels) > 0 {
		parts = append(parts, html.EscapeString("#"+strings.Join(f.Labels, " #")))
	}
	if f.Sort == service.SortByPriority {
		parts = append(parts, "sorted by priority")
	}
	if len(parts) == 0 {
		return ""
	}
	return "🔎 " + strings.Join(parts, " · ")
}

func priorityIcon(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "🔴"
	case model.PriorityLow:
		return "🟢"
	default:
		return "🟡"
	}
}

func priorityLabel(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return btnPrioHigh
	case model.PriorityLow:
		return btnPrioLow
	default:
		return btnPrioMedium
	}
}

func parsePriorityInput(text string) (model.Priority, bool) {
	value := strings.ToLower(strings.TrimSpace(text))
	switch {
	case strings.Contains(value, "high"):
		return model.PriorityHigh, true
	case strings.Contains(value, "medium"):
		return model.PriorityMedium, true
	case strings.Contains(value, "low"):
		return model.PriorityLow, true
	default:
		return "", false
	}
}

func parseReminder(text string) (*time.Time, error) {
	value := strings.TrimSpace(text)
	for _, layout := range []string{reminderLayout, time.RFC3339, "2006-01-02"} {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return &parsed, nil
		}
	}
	return nil, fmt.Errorf("unrecognized time %q", text)
}

func shortText(text string, maxLen int) string {
	clean := strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

func isSkipInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == "-" || value == strings.ToLower(btnSkip) || value == "skip"
}

func isCancelInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancel) || value == "cancel"
}

func isOffInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == "off" || value == "none" || value == "-"
}

func priorityKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnPrioHigh),
			tgbotapi.NewKeyboardButton(btnPrioMedium),
			tgbotapi.NewKeyboardButton(btnPrioLow),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnSkip),
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func skipKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnSkip),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

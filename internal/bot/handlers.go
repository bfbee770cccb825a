// Package bot is the conversation layer: it maps commands, menu buttons,
// and callbacks onto the registry, tracker, quiz, and dispenser services.
package bot

import (
	"errors"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/graphenelabs/graphbot/core/logger"
	"github.com/graphenelabs/graphbot/core/telegram"
	"github.com/graphenelabs/graphbot/core/telegram/callbacks"
	"github.com/graphenelabs/graphbot/core/telegram/commands"
	"github.com/graphenelabs/graphbot/core/telegram/helpers"
	"github.com/graphenelabs/graphbot/core/telegram/sender"
	"github.com/graphenelabs/graphbot/core/telegram/state"
	"github.com/graphenelabs/graphbot/internal/model"
	"github.com/graphenelabs/graphbot/internal/service"
)

// FlowWallet means the bot is waiting for a wallet address as plain text.
const FlowWallet state.Flow = "wallet_input"

type channelRecipient string

func (r channelRecipient) Recipient() string { return string(r) }

// Handlers owns the conversation layer's dependencies.
type Handlers struct {
	users   *service.Users
	tasks   *service.Tasks
	quiz    *service.Quiz
	rewards *service.Rewards
	states  *state.Manager
	channel string
	notify  *sender.Dispatcher
}

// New builds the conversation layer. channel is the public channel the
// join_channel task checks, e.g. "@graphene_channel".
func New(users *service.Users, tasks *service.Tasks, quiz *service.Quiz, rewards *service.Rewards, states *state.Manager, channel string) *Handlers {
	return &Handlers{
		users:   users,
		tasks:   tasks,
		quiz:    quiz,
		rewards: rewards,
		states:  states,
		channel: channel,
	}
}

// SetNotifier installs the async dispatcher used for out-of-band
// notifications (referral bonus notices). Called once the bot client
// exists, before polling starts.
func (h *Handlers) SetNotifier(d *sender.Dispatcher) {
	h.notify = d
}

// Register binds every command, callback, and text flow.
func (h *Handlers) Register(reg *telegram.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.handleStart,
		Description: "Главное меню",
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     h.handleHelp,
		Description: "Справка",
	})

	reg.RegisterCallback(cbTask, h.onTaskButton)
	reg.RegisterCallback(cbClaimAirdrop, h.onClaimAirdrop)
	reg.RegisterCallback(cbConfirmTwit, h.onConfirmTwitter)
	reg.RegisterCallback(cbQuizAnswer, h.onQuizAnswer)
	reg.RegisterCallback(cbRestartQuiz, h.onRestartQuiz)
	reg.RegisterCallback(cbCancelWallet, h.onCancelWallet)
	reg.RegisterCallback(cbCheckBalance, h.onShowBalance)
	reg.RegisterCallback(cbRefreshBal, h.onRefreshBalance)
	reg.RegisterCallback(cbConnectWallet, h.onConnectWallet)
	reg.RegisterCallback(cbTokenomics, h.onTokenomics)
	reg.RegisterCallback(cbBackToAbout, h.onAbout)
	reg.RegisterCallback(cbBuyWithSol, h.onBuyWithSol)
	reg.RegisterCallback(cbBuyGuide, h.onBuyInstructions)
	reg.RegisterCallback(cbBackToBuy, h.onBuyTokens)
	reg.RegisterCallback(cbCopyRefLink, h.onCopyReferralLink)
	reg.RegisterCallback(cbExitToMenu, h.onExitToMenu)

	reg.RegisterTextFlow(FlowWallet, h.onWalletInput)
	reg.TextFallback = h.onMenuText
}

// ensure registers the sender on first contact and returns the row.
func (h *Handlers) ensure(c tele.Context) (*model.User, error) {
	from := c.Sender()
	return h.users.EnsureRegistered(helpers.LoggingContext(c), from.ID, service.Profile{
		Username:  from.Username,
		FirstName: from.FirstName,
		LastName:  from.LastName,
	})
}

// fail sends the generic apology and propagates the error for logging.
func fail(c tele.Context, err error) error {
	helpers.Respond(c)
	_ = c.Send(textGenericError)
	return err
}

func (h *Handlers) handleStart(c tele.Context) error {
	user, err := h.ensure(c)
	if err != nil {
		return fail(c, err)
	}

	// Starting over resets any half-finished conversation.
	h.states.Clear(user.TelegramID)
	h.quiz.Abandon(user.TelegramID)

	if code := c.Message().Payload; code != "" {
		if err := h.linkReferral(c, user.TelegramID, code); err != nil {
			return fail(c, err)
		}
	}

	return c.Send(welcomeText(c.Sender().FirstName), mainMenuKeyboard())
}

// linkReferral applies a /start payload. NotApplicable outcomes are
// silent, matching the original flow: the user just proceeds to the menu.
func (h *Handlers) linkReferral(c tele.Context, userID int64, code string) error {
	ctx := helpers.LoggingContext(c)
	outcome, referrer, err := h.rewards.LinkReferral(ctx, userID, code)
	if err != nil {
		return err
	}
	if outcome != model.LinkEstablished {
		return nil
	}
	if h.notify != nil {
		h.notify.Notify(referrer.TelegramID, textReferralNotice)
	} else {
		logger.Warn(ctx, "tg", "referral.notice_skipped",
			slog.Int64("referrer_id", referrer.TelegramID),
		)
	}
	return c.Send(textReferralJoined)
}

func (h *Handlers) handleHelp(c tele.Context) error {
	return c.Send(textHelp)
}

func (h *Handlers) onMenuText(c tele.Context) error {
	switch c.Text() {
	case menuBalance:
		return h.showBalance(c)
	case menuAirdrop:
		return h.showAirdrop(c)
	case menuReferrals:
		return h.showReferrals(c)
	case menuStats:
		return h.showStats(c)
	case menuAbout:
		return c.Send(textAbout, tele.ModeMarkdown, aboutKeyboard())
	case menuBuy:
		return c.Send(textBuy, tele.ModeMarkdown, buyKeyboard())
	default:
		return c.Send(textMenuHint)
	}
}

func (h *Handlers) showBalance(c tele.Context) error {
	user, err := h.ensure(c)
	if err != nil {
		return fail(c, err)
	}
	return helpers.EditOrSend(c, balanceText(user), tele.ModeMarkdown, balanceKeyboard(user.HasWallet()))
}

func (h *Handlers) showAirdrop(c tele.Context) error {
	ctx := helpers.LoggingContext(c)
	if _, err := h.ensure(c); err != nil {
		return fail(c, err)
	}
	tasks, err := h.tasks.EnsureTasks(ctx, c.Sender().ID)
	if err != nil {
		return fail(c, err)
	}
	p := progressOf(tasks)
	logger.Debug(ctx, "tg", "airdrop.shown",
		slog.Int("tasks_done", p.Completed),
		slog.Int("tasks_total", p.Total),
		slog.Int("percent", p.Percent()),
	)
	return helpers.EditOrSend(c, airdropText(tasks, p), tele.ModeMarkdown, airdropKeyboard(tasks, p.AllDone()))
}

func progressOf(tasks []model.Task) model.Progress {
	p := model.Progress{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			p.Completed++
		}
	}
	return p
}

func (h *Handlers) showReferrals(c tele.Context) error {
	ctx := helpers.LoggingContext(c)
	user, err := h.ensure(c)
	if err != nil {
		return fail(c, err)
	}
	count, err := h.users.CountReferrals(ctx, user.TelegramID)
	if err != nil {
		return fail(c, err)
	}
	link := "https://t.me/" + c.Bot().(*tele.Bot).Me.Username + "?start=" + user.ReferralCode
	if err := c.Send(referralText(link, count), tele.ModeMarkdown, referralKeyboard(link)); err != nil {
		return err
	}
	// Visiting the referral program counts as the invite_friend task.
	if _, err := h.tasks.Complete(ctx, user.TelegramID, model.TaskInviteFriend); err != nil {
		return err
	}
	return nil
}

func (h *Handlers) showStats(c tele.Context) error {
	ctx := helpers.LoggingContext(c)
	stats, err := h.users.Stats(ctx)
	if err != nil {
		return fail(c, err)
	}
	completed, err := h.tasks.CompletedTotal(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.Send(statsText(stats, completed), tele.ModeMarkdown, statsKeyboard())
}

func (h *Handlers) onTaskButton(c tele.Context) error {
	kind := model.TaskKind(callbacks.CallbackPayload(c))
	if !kind.Valid() {
		helpers.Respond(c)
		return nil
	}
	switch kind {
	case model.TaskConnectWallet:
		return h.onConnectWallet(c)
	case model.TaskJoinChannel:
		return h.onJoinChannel(c)
	case model.TaskFollowTwitter:
		helpers.Respond(c)
		return c.Send(textTwitterPrompt, twitterKeyboard())
	case model.TaskInviteFriend:
		helpers.Respond(c)
		return h.showReferrals(c)
	case model.TaskCompleteQuiz:
		helpers.Respond(c)
		return h.startQuiz(c)
	}
	return nil
}

func (h *Handlers) onConnectWallet(c tele.Context) error {
	helpers.Respond(c)
	h.states.SetFlow(c.Sender().ID, FlowWallet, nil)
	return c.Send(textWalletPrompt, walletKeyboard())
}

func (h *Handlers) onWalletInput(c tele.Context) error {
	ctx := helpers.LoggingContext(c)
	userID := c.Sender().ID

	err := h.users.SetWallet(ctx, userID, c.Text())
	if errors.Is(err, model.ErrInvalidWallet) {
		return c.Send(textWalletInvalid, walletKeyboard())
	}
	if err != nil {
		return fail(c, err)
	}

	h.states.Clear(userID)
	if _, err := h.tasks.Complete(ctx, userID, model.TaskConnectWallet); err != nil {
		return fail(c, err)
	}
	if err := c.Send(textWalletSaved); err != nil {
		return err
	}
	return h.showAirdrop(c)
}

func (h *Handlers) onCancelWallet(c tele.Context) error {
	h.states.Clear(c.Sender().ID)
	helpers.Respond(c)
	return c.Send(textBackToMenu, mainMenuKeyboard())
}

func (h *Handlers) onJoinChannel(c tele.Context) error {
	ctx := helpers.LoggingContext(c)
	member, err := c.Bot().ChatMemberOf(channelRecipient(h.channel), c.Sender())
	if err != nil {
		logger.Warn(ctx, "tg", "channel.check_failed",
			slog.String("channel", h.channel),
			slog.String("err", err.Error()),
		)
		helpers.Respond(c, &tele.CallbackResponse{Text: textGenericError})
		return nil
	}

	switch member.Role {
	case tele.Member, tele.Administrator, tele.Creator:
		if _, err := h.tasks.Complete(ctx, c.Sender().ID, model.TaskJoinChannel); err != nil {
			return fail(c, err)
		}
		helpers.Respond(c, &tele.CallbackResponse{Text: taskDoneToast(model.TaskJoinChannel)})
		return h.showAirdrop(c)
	default:
		helpers.Respond(c, &tele.CallbackResponse{Text: textChannelNotMember})
		return c.Send(textChannelPrompt, channelKeyboard())
	}
}

// onConfirmTwitter is a stateless, idempotent confirmation: pressing the
// button any number of times completes the task at most once.
func (h *Handlers) onConfirmTwitter(c tele.Context) error {
	ctx := helpers.LoggingContext(c)
	if _, err := h.ensure(c); err != nil {
		return fail(c, err)
	}
	if _, err := h.tasks.Complete(ctx, c.Sender().ID, model.TaskFollowTwitter); err != nil {
		return fail(c, err)
	}
	helpers.Respond(c, &tele.CallbackResponse{Text: taskDoneToast(model.TaskFollowTwitter)})
	return h.showAirdrop(c)
}

func (h *Handlers) startQuiz(c tele.Context) error {
	view := h.quiz.Start(helpers.LoggingContext(c), c.Sender().ID)
	return c.Send(questionText(view), tele.ModeMarkdown, quizKeyboard(view))
}

func (h *Handlers) onRestartQuiz(c tele.Context) error {
	helpers.Respond(c)
	return h.startQuiz(c)
}

func (h *Handlers) onQuizAnswer(c tele.Context) error {
	ctx := helpers.LoggingContext(c)
	sessionID, choice, err := callbacks.PayloadStringInt(c, "|")
	if err != nil {
		helpers.Respond(c, &tele.CallbackResponse{Text: textQuizExpired})
		return nil
	}

	res, err := h.quiz.Answer(ctx, c.Sender().ID, sessionID, choice)
	if errors.Is(err, model.ErrSessionExpired) {
		helpers.Respond(c, &tele.CallbackResponse{Text: textQuizExpired})
		return nil
	}
	if err != nil {
		return fail(c, err)
	}

	if res.Correct {
		helpers.Respond(c, &tele.CallbackResponse{Text: textAnswerCorrect})
	} else {
		helpers.Respond(c, &tele.CallbackResponse{Text: answerWrongToast(res.CorrectAnswer)})
	}

	if !res.Finished {
		return c.Send(questionText(*res.Next), tele.ModeMarkdown, quizKeyboard(*res.Next))
	}

	if res.Passed {
		if err := c.Send(quizPassedText(res.CorrectCount, res.Total)); err != nil {
			return err
		}
	} else {
		if err := c.Send(quizFailedText(res.CorrectCount, res.Total, h.quiz.PassThreshold()), quizFailedKeyboard()); err != nil {
			return err
		}
	}
	return h.showAirdrop(c)
}

func (h *Handlers) onClaimAirdrop(c tele.Context) error {
	ctx := helpers.LoggingContext(c)
	outcome, err := h.rewards.ClaimAirdrop(ctx, c.Sender().ID)
	if err != nil {
		return fail(c, err)
	}

	switch outcome {
	case model.ClaimGranted:
		helpers.Respond(c, &tele.CallbackResponse{Text: textClaimCongratsToast})
		return c.Send(textClaimCongrats, tele.ModeMarkdown, claimedKeyboard())
	case model.ClaimAlreadyClaimed:
		helpers.Respond(c, &tele.CallbackResponse{Text: textClaimAlready})
	case model.ClaimIncomplete:
		helpers.Respond(c, &tele.CallbackResponse{Text: textClaimIncomplete})
	}
	return nil
}

func (h *Handlers) onShowBalance(c tele.Context) error {
	helpers.Respond(c)
	return h.showBalance(c)
}

func (h *Handlers) onRefreshBalance(c tele.Context) error {
	helpers.Respond(c, &tele.CallbackResponse{Text: "🔄 Баланс обновлен"})
	return h.showBalance(c)
}

func (h *Handlers) onCopyReferralLink(c tele.Context) error {
	helpers.Respond(c, &tele.CallbackResponse{Text: textLinkCopied})
	return nil
}

func (h *Handlers) onExitToMenu(c tele.Context) error {
	h.states.Clear(c.Sender().ID)
	h.quiz.Abandon(c.Sender().ID)
	helpers.Respond(c)
	return c.Send(textBackToMenu, mainMenuKeyboard())
}

func (h *Handlers) onAbout(c tele.Context) error {
	helpers.Respond(c)
	return c.Send(textAbout, tele.ModeMarkdown, aboutKeyboard())
}

func (h *Handlers) onTokenomics(c tele.Context) error {
	helpers.Respond(c)
	return c.Send(textTokenomics, tele.ModeMarkdown, tokenomicsKeyboard())
}

func (h *Handlers) onBuyTokens(c tele.Context) error {
	helpers.Respond(c)
	return c.Send(textBuy, tele.ModeMarkdown, buyKeyboard())
}

func (h *Handlers) onBuyWithSol(c tele.Context) error {
	helpers.Respond(c)
	return c.Send(textBuyWithSol, tele.ModeMarkdown, buyBackKeyboard())
}

func (h *Handlers) onBuyInstructions(c tele.Context) error {
	helpers.Respond(c)
	return c.Send(textBuyInstructions, tele.ModeMarkdown, buyBackKeyboard())
}

package bot

import (
	"fmt"
	"net/url"

	tele "gopkg.in/telebot.v4"

	"github.com/graphenelabs/graphbot/core/telegram/keyboard"
	"github.com/graphenelabs/graphbot/internal/model"
	"github.com/graphenelabs/graphbot/internal/service"
)

// Callback uniques. Quiz answers carry "<session>|<choice>" payloads;
// task buttons carry the task kind.
const (
	cbTask          = "task"
	cbClaimAirdrop  = "claim_airdrop"
	cbConfirmTwit   = "confirm_twitter"
	cbQuizAnswer    = "quiz_answer"
	cbRestartQuiz   = "restart_quiz"
	cbCancelWallet  = "cancel_wallet"
	cbCheckBalance  = "check_balance"
	cbRefreshBal    = "refresh_balance"
	cbConnectWallet = "connect_wallet"
	cbTokenomics    = "tokenomics"
	cbBackToAbout   = "back_to_about"
	cbBuyWithSol    = "buy_with_sol"
	cbBuyGuide      = "buy_instructions"
	cbBackToBuy     = "back_to_buy"
	cbCopyRefLink   = "copy_referral_link"
	cbExitToMenu    = "exit_to_menu"
)

const (
	channelURL = "https://t.me/graphene_channel"
	twitterURL = "https://twitter.com/graphene_project"
	siteURL    = "https://graphene.com"
	paperURL   = "https://graphene.com/whitepaper"
	dexURL     = "https://raydium.io/swap/"
)

func mainMenuKeyboard() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	markup.Reply(
		markup.Row(markup.Text(menuBalance), markup.Text(menuAirdrop)),
		markup.Row(markup.Text(menuReferrals), markup.Text(menuStats)),
		markup.Row(markup.Text(menuAbout), markup.Text(menuBuy)),
	)
	return markup
}

func balanceKeyboard(hasWallet bool) *tele.ReplyMarkup {
	rows := [][]keyboard.InlineBtn{
		{{Text: "🔄 Обновить", Unique: cbRefreshBal}},
	}
	if !hasWallet {
		rows = append(rows, []keyboard.InlineBtn{
			{Text: "🔑 Подключить кошелек", Unique: cbConnectWallet},
		})
	}
	return keyboard.Inline(rows...)
}

func airdropKeyboard(tasks []model.Task, allDone bool) *tele.ReplyMarkup {
	var rows [][]keyboard.InlineBtn
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		rows = append(rows, []keyboard.InlineBtn{
			{Text: t.Kind.Title(), Unique: cbTask, Payload: string(t.Kind)},
		})
	}
	if allDone {
		rows = append(rows, []keyboard.InlineBtn{
			{Text: fmt.Sprintf("🎁 Получить %d $GRAPH", service.AirdropReward), Unique: cbClaimAirdrop},
		})
	}
	rows = append(rows, []keyboard.InlineBtn{
		{Text: "◀️ Назад", Unique: cbExitToMenu},
	})
	return keyboard.Inline(rows...)
}

func walletKeyboard() *tele.ReplyMarkup {
	return keyboard.Inline([]keyboard.InlineBtn{
		{Text: "❌ Отмена", Unique: cbCancelWallet},
	})
}

func channelKeyboard() *tele.ReplyMarkup {
	return keyboard.Inline([]keyboard.InlineBtn{
		{Text: "📢 Подписаться на канал", URL: channelURL},
	})
}

func twitterKeyboard() *tele.ReplyMarkup {
	return keyboard.Inline([]keyboard.InlineBtn{
		{Text: "✅ Подтвердить подписку", Unique: cbConfirmTwit},
	})
}

func quizKeyboard(v service.QuestionView) *tele.ReplyMarkup {
	rows := make([][]keyboard.InlineBtn, 0, len(v.Question.Options))
	for i, opt := range v.Question.Options {
		rows = append(rows, []keyboard.InlineBtn{
			{Text: opt, Unique: cbQuizAnswer, Payload: fmt.Sprintf("%s|%d", v.SessionID, i)},
		})
	}
	return keyboard.Inline(rows...)
}

func quizFailedKeyboard() *tele.ReplyMarkup {
	return keyboard.Inline([]keyboard.InlineBtn{
		{Text: "🔄 Пройти квиз заново", Unique: cbRestartQuiz},
	})
}

func claimedKeyboard() *tele.ReplyMarkup {
	return keyboard.Inline([]keyboard.InlineBtn{
		{Text: "💰 Проверить баланс", Unique: cbCheckBalance},
	})
}

func referralKeyboard(link string) *tele.ReplyMarkup {
	share := "https://t.me/share/url?url=" + url.QueryEscape(link) +
		"&text=" + url.QueryEscape("Присоединяйся к Graphene и получи бесплатные токены $GRAPH!")
	return keyboard.Inline(
		[]keyboard.InlineBtn{{Text: "📋 Скопировать ссылку", Unique: cbCopyRefLink}},
		[]keyboard.InlineBtn{{Text: "📱 Поделиться в Telegram", URL: share}},
		[]keyboard.InlineBtn{{Text: "◀️ Назад", Unique: cbExitToMenu}},
	)
}

func statsKeyboard() *tele.ReplyMarkup {
	return keyboard.Inline(
		[]keyboard.InlineBtn{{Text: "🌐 Веб-сайт", URL: siteURL}},
		[]keyboard.InlineBtn{{Text: "📢 Telegram канал", URL: channelURL}},
	)
}

func aboutKeyboard() *tele.ReplyMarkup {
	return keyboard.Inline(
		[]keyboard.InlineBtn{{Text: "🌐 Веб-сайт", URL: siteURL}},
		[]keyboard.InlineBtn{{Text: "📄 Whitepaper", URL: paperURL}},
		[]keyboard.InlineBtn{{Text: "💰 Токеномика", Unique: cbTokenomics}},
	)
}

func tokenomicsKeyboard() *tele.ReplyMarkup {
	return keyboard.Inline([]keyboard.InlineBtn{
		{Text: "◀️ Назад", Unique: cbBackToAbout},
	})
}

func buyKeyboard() *tele.ReplyMarkup {
	return keyboard.Inline(
		[]keyboard.InlineBtn{{Text: "💳 Купить с помощью SOL", Unique: cbBuyWithSol}},
		[]keyboard.InlineBtn{{Text: "🔄 Купить на DEX", URL: dexURL}},
		[]keyboard.InlineBtn{{Text: "❓ Инструкция по покупке", Unique: cbBuyGuide}},
	)
}

func buyBackKeyboard() *tele.ReplyMarkup {
	return keyboard.Inline([]keyboard.InlineBtn{
		{Text: "◀️ Назад", Unique: cbBackToBuy},
	})
}

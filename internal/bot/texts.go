package bot

import (
	"fmt"
	"strings"

	"github.com/graphenelabs/graphbot/core/telegram/format"
	"github.com/graphenelabs/graphbot/internal/model"
	"github.com/graphenelabs/graphbot/internal/service"
)

// Menu labels shown on the persistent reply keyboard.
const (
	menuBalance   = "💰 Баланс"
	menuAirdrop   = "🎁 Эйрдроп"
	menuReferrals = "👥 Рефералы"
	menuStats     = "📊 Статистика"
	menuAbout     = "ℹ️ О проекте"
	menuBuy       = "🔄 Купить токены"
)

const (
	textMenuHint     = "Пожалуйста, используйте меню для навигации."
	textBackToMenu   = "Вы вернулись в главное меню."
	textGenericError = "Произошла ошибка. Пожалуйста, попробуйте позже или обратитесь в поддержку."

	textWalletPrompt = "🔑 Для подключения кошелька Solana, пожалуйста, отправьте адрес вашего кошелька (начинается с символов \"sol\").\n\n" +
		"Например: solABCDEF123456789..."
	textWalletInvalid = "❌ Неверный формат адреса кошелька. Пожалуйста, убедитесь, что вы отправляете правильный адрес Solana."
	textWalletSaved   = "✅ Адрес кошелька успешно сохранен! Задание \"Подключить кошелек\" выполнено."

	textChannelPrompt      = "📢 Для выполнения задания подпишитесь на наш официальный канал:"
	textChannelNotMember   = "❌ Вы не подписаны на канал. Подпишитесь и попробуйте снова."
	textTwitterPrompt      = "🐦 Для выполнения задания подпишитесь на наш Twitter:\n\nhttps://twitter.com/graphene_project\n\nПосле подписки нажмите кнопку \"Подтвердить\"."
	textQuizExpired        = "❌ Сессия квиза истекла. Начните заново."
	textAnswerCorrect      = "✅ Правильно!"
	textClaimAlready       = "❌ Вы уже получили токены за эйрдроп."
	textClaimIncomplete    = "❌ Для получения токенов необходимо выполнить все задания."
	textReferralJoined     = "✅ Вы успешно присоединились по реферальной ссылке!"
	textReferralNotice     = "🎉 Поздравляем! По вашей реферальной ссылке зарегистрировался новый пользователь. Вам начислено 30 $GRAPH!"
	textLinkCopied         = "✅ Ссылка скопирована в буфер обмена!"
	textClaimCongratsToast = "🎉 Поздравляем! Вы получили 100 $GRAPH токенов!"

	textClaimCongrats = "🎉 *Поздравляем!*\n\n" +
		"Вы успешно выполнили все задания эйрдропа и получили 100 $GRAPH токенов!\n\n" +
		"Токены уже зачислены на ваш баланс. Вы можете проверить их в разделе \"Баланс\"."

	textAbout = "ℹ️ *О проекте Graphene*\n\n" +
		"Graphene — это токенизированная Web3-платформа для масштабного производства графена на блокчейне Solana.\n\n" +
		"*Что такое графен?*\n" +
		"Графен — это двумерная аллотропная модификация углерода, образованная слоем атомов углерода толщиной в один атом. Обладает уникальными свойствами: высокой электро- и теплопроводностью, прочностью и гибкостью.\n\n" +
		"*Наша миссия*\n" +
		"Проект Graphene стремится демократизировать доступ к производству и использованию графена через токенизацию и блокчейн-технологии. Мы создаем экосистему, где каждый может стать частью революции в материаловедении.\n\n" +
		"*Токен $GRAPH*\n" +
		"$GRAPH — это utility-токен экосистемы Graphene на блокчейне Solana. Общее предложение: 100,000,000 $GRAPH."

	textTokenomics = "💰 *Токеномика $GRAPH*\n\n" +
		"Общее предложение: 100,000,000 $GRAPH\n\n" +
		"*Распределение токенов:*\n" +
		"- Продажа токенов: 30%\n" +
		"- Команда и советники: 15%\n" +
		"- Маркетинг: 10%\n" +
		"- Эйрдропы и реферальная система: 20%\n" +
		"- Резерв экосистемы: 15%\n" +
		"- Ликвидность: 10%\n\n" +
		"*Utility токена:*\n" +
		"- Управление: участие в голосованиях по развитию проекта\n" +
		"- Доступ к продукции: приоритетный доступ к графеновой продукции\n" +
		"- Стейкинг: получение пассивного дохода\n" +
		"- NFT и геймификация: доступ к эксклюзивным NFT и игровым механикам"

	textBuy = "🔄 *Купить токены $GRAPH*\n\n" +
		"Текущий курс: 1 SOL = 1000 $GRAPH\n\n" +
		"Для покупки токенов выберите один из способов ниже:"

	textBuyWithSol = "💳 *Покупка токенов с помощью SOL*\n\n" +
		"Для покупки токенов $GRAPH отправьте SOL на следующий адрес:\n\n" +
		"`solABCDEF123456789...`\n\n" +
		"После отправки SOL, токены $GRAPH будут автоматически зачислены на ваш баланс в соотношении 1 SOL = 1000 $GRAPH.\n\n" +
		"Минимальная сумма покупки: 0.1 SOL"

	textBuyInstructions = "❓ *Инструкция по покупке токенов $GRAPH*\n\n" +
		"1. *Через бота (SOL):*\n" +
		"   - Выберите \"Купить с помощью SOL\"\n" +
		"   - Отправьте SOL на указанный адрес\n" +
		"   - Получите токены $GRAPH на свой баланс\n\n" +
		"2. *Через DEX (Raydium):*\n" +
		"   - Перейдите на Raydium.io\n" +
		"   - Подключите кошелек Solana\n" +
		"   - Найдите пару $GRAPH/SOL\n" +
		"   - Укажите количество SOL для обмена\n" +
		"   - Подтвердите транзакцию\n\n" +
		"Если у вас возникли вопросы, обратитесь в поддержку: @graphene_support"

	textHelp = "Доступные команды:\n" +
		"/start — главное меню\n" +
		"/help — эта справка\n\n" +
		"Используйте кнопки меню для навигации по разделам."
)

func welcomeText(firstName string) string {
	name := strings.TrimSpace(firstName)
	if name == "" {
		name = "друг"
	}
	return fmt.Sprintf("👋 Привет, %s! Добро пожаловать в официальный бот проекта Graphene.\n\n"+
		"Graphene — это токенизированная Web3-платформа для масштабного производства графена на блокчейне Solana.", name)
}

func balanceText(u *model.User) string {
	msg := fmt.Sprintf("💰 *Ваш баланс*: %d $GRAPH\n\n", u.Balance)
	if u.HasWallet() {
		wallet := format.DerefString(u.WalletAddress, "")
		msg += fmt.Sprintf("🔑 *Ваш кошелек*: `%s`\n\n", format.EscapeMarkdown(wallet))
	} else {
		msg += "⚠️ У вас еще не подключен кошелек Solana. Подключите кошелек, чтобы получать токены.\n\n"
	}
	return msg
}

const progressBarLength = 10

func progressBar(percent int) string {
	filled := int(float64(percent)/100*progressBarLength + 0.5)
	if filled > progressBarLength {
		filled = progressBarLength
	}
	return strings.Repeat("▓", filled) + strings.Repeat("░", progressBarLength-filled)
}

func airdropText(tasks []model.Task, p model.Progress) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎁 *Эйрдроп $GRAPH токенов*\n\n")
	fmt.Fprintf(&b, "Выполните все задания и получите %d $GRAPH токенов!\n\n", service.AirdropReward)
	fmt.Fprintf(&b, "Прогресс: %d/%d заданий\n", p.Completed, p.Total)
	fmt.Fprintf(&b, "[%s] %d%%\n\n", progressBar(p.Percent()), p.Percent())
	b.WriteString("*Задания:*\n")
	for _, t := range tasks {
		status := "⬜"
		if t.Completed {
			status = "✅"
		}
		fmt.Fprintf(&b, "%s %s (+%d $GRAPH)\n", status, t.Kind.Title(), t.Kind.Reward())
	}
	if p.AllDone() {
		b.WriteString("\n✅ Все задания выполнены! Нажмите кнопку ниже, чтобы получить ваши токены.")
	}
	return b.String()
}

func referralText(link string, count int64) string {
	return fmt.Sprintf("👥 *Реферальная программа*\n\n"+
		"Приглашайте друзей и получайте токены $GRAPH!\n\n"+
		"🔗 *Ваша реферальная ссылка:*\n`%s`\n\n"+
		"📊 *Статистика:*\n"+
		"- Приглашено друзей: %d\n"+
		"- Заработано токенов: %d $GRAPH\n\n"+
		"💰 За каждого приглашенного друга вы получаете %d $GRAPH!",
		link, count, count*service.ReferralBonus, service.ReferralBonus)
}

func statsText(s *model.Stats, completedTasks int64) string {
	return fmt.Sprintf("📊 *Статистика проекта Graphene*\n\n"+
		"👥 Всего пользователей: %d\n"+
		"💰 Токенов в обращении: %d $GRAPH\n"+
		"✅ Выполнено заданий: %d\n"+
		"🎁 Получили эйрдроп: %d\n"+
		"🤝 Пришли по приглашению: %d\n\n"+
		"🚀 Присоединяйтесь к нашему сообществу и станьте частью революции в производстве графена!",
		s.TotalUsers, s.TotalBalance, completedTasks, s.ClaimedUsers, s.ReferredUsers)
}

func questionText(v service.QuestionView) string {
	return fmt.Sprintf("❓ *Вопрос %d/%d*\n\n%s", v.Index+1, v.Total, v.Question.Text)
}

func quizPassedText(correct, total int) string {
	return fmt.Sprintf("🎉 Квиз завершен!\n\n"+
		"Правильных ответов: %d/%d\n\n"+
		"✅ Вы успешно прошли квиз и получили +%d $GRAPH!",
		correct, total, model.TaskCompleteQuiz.Reward())
}

func quizFailedText(correct, total, threshold int) string {
	return fmt.Sprintf("❌ Квиз завершен!\n\n"+
		"Правильных ответов: %d/%d\n\n"+
		"Для выполнения задания необходимо правильно ответить минимум на %d вопроса. Попробуйте еще раз!",
		correct, total, threshold)
}

func answerWrongToast(correctAnswer string) string {
	return fmt.Sprintf("❌ Неправильно. Правильный ответ: %s", correctAnswer)
}

func taskDoneToast(kind model.TaskKind) string {
	return fmt.Sprintf("✅ Задание выполнено! +%d $GRAPH", kind.Reward())
}

package model

// TaskKind enumerates the fixed airdrop checklist.
type TaskKind string

const (
	TaskConnectWallet TaskKind = "connect_wallet"
	TaskJoinChannel   TaskKind = "join_channel"
	TaskFollowTwitter TaskKind = "follow_twitter"
	TaskInviteFriend  TaskKind = "invite_friend"
	TaskCompleteQuiz  TaskKind = "complete_quiz"
)

// TaskKinds is the seeding order; every user gets exactly this set.
var TaskKinds = []TaskKind{
	TaskConnectWallet,
	TaskJoinChannel,
	TaskFollowTwitter,
	TaskInviteFriend,
	TaskCompleteQuiz,
}

type taskInfo struct {
	Title  string
	Reward int64
}

// Display names and advertised reward values per kind. Rewards shown in
// the checklist are informational; balance moves only on claim and on
// referral credit.
var taskTable = map[TaskKind]taskInfo{
	TaskConnectWallet: {Title: "Подключить кошелек", Reward: 10},
	TaskJoinChannel:   {Title: "Подписаться на канал", Reward: 15},
	TaskFollowTwitter: {Title: "Подписаться на Twitter", Reward: 15},
	TaskInviteFriend:  {Title: "Пригласить друга", Reward: 30},
	TaskCompleteQuiz:  {Title: "Пройти квиз о графене", Reward: 30},
}

// Valid reports whether k is a known task kind.
func (k TaskKind) Valid() bool {
	_, ok := taskTable[k]
	return ok
}

// Title returns the human-readable task name.
func (k TaskKind) Title() string { return taskTable[k].Title }

// Reward returns the advertised reward for the task.
func (k TaskKind) Reward() int64 { return taskTable[k].Reward }

// Task is one row of the airdrop_tasks table.
type Task struct {
	TelegramID int64    `db:"telegram_id"`
	Kind       TaskKind `db:"task_kind"`
	Completed  bool     `db:"completed"`
}

// Progress summarizes a user's checklist.
type Progress struct {
	Completed int
	Total     int
}

// Percent returns completion as a rounded percentage.
func (p Progress) Percent() int {
	if p.Total == 0 {
		return 0
	}
	return int(float64(p.Completed)/float64(p.Total)*100 + 0.5)
}

// AllDone reports whether every task is complete.
func (p Progress) AllDone() bool {
	return p.Total > 0 && p.Completed == p.Total
}

package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

// 测验玩法相关常量
const (
	// QuizQuestionCount 单次测验最多抽取的题目数
	QuizQuestionCount = 15
	// LessonQuestionLimit 单课程可创建的题目上限（仅在创建时校验）
	LessonQuestionLimit = 30
	// OptionCount 每道题固定的选项数
	OptionCount = 3
)

// 排行榜窗口大小
const (
	SubjectLeaderboardLimit = 10
	GlobalLeaderboardLimit  = 25
)

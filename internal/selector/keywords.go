package selector

import "smart-calendar/internal/model"

var deadlineKeywords = []string{
	"deadline", "due", "due date", "due by", "submit", "submission", "expires", "expiry",
	"cutoff", "cut off", "last day", "hand in", "turn in",
	"截止", "到期", "最后期限", "提交", "交付", "期限",
}

var meetingKeywords = []string{
	"meeting", "meet with", "conference", "conference call", "video call", "call with",
	"standup", "stand up", "sync", "1 on 1", "one on one", "interview", "webinar", "zoom",
	"huddle", "retro", "retrospective",
	"会议", "开会", "例会", "面试", "座谈", "研讨会", "电话会", "碰头",
}

// Urgency levels in precedence order.
type level struct {
	calendar model.CalendarType
	weight   int
	keywords []string
}

var urgencyLevels = []level{
	{
		calendar: model.CalendarHighPriority,
		weight:   3,
		keywords: []string{
			"urgent", "asap", "critical", "important", "emergency", "immediately", "high priority",
			"top priority", "must",
			"紧急", "重要", "立即", "马上", "尽快", "务必",
		},
	},
	{
		calendar: model.CalendarMediumPriority,
		weight:   2,
		keywords: []string{
			"soon", "follow up", "review", "check in", "medium priority", "normal priority",
			"跟进", "复查", "一般", "回顾",
		},
	},
	{
		calendar: model.CalendarLowPriority,
		weight:   1,
		keywords: []string{
			"optional", "someday", "whenever", "if time", "low priority", "no rush", "maybe",
			"可选", "有空", "不急", "随便",
		},
	},
}

var workKeywords = []string{
	"work", "office", "project", "client", "customer", "report", "team", "presentation",
	"sprint", "deploy", "release", "boss", "manager", "colleague", "quarterly", "budget",
	"工作", "项目", "客户", "报告", "公司", "团队", "汇报", "同事", "老板", "上班",
}

var personalKeywords = []string{
	"gym", "workout", "dinner", "lunch", "birthday", "family", "doctor", "dentist", "party",
	"vacation", "movie", "shopping", "haircut", "mom", "dad", "friend", "friends", "date night",
	"yoga", "run",
	"健身", "晚饭", "午饭", "生日", "家人", "医生", "聚会", "看病", "购物", "旅行", "朋友", "电影",
}

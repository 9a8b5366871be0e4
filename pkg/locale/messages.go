package locale

import (
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"smart-calendar/pkg/apperr"
)

// Status line messages. English text is the default.
var (
	msgCreated = &i18n.Message{
		ID:    "status.created",
		Other: `Added "{{.Title}}" to {{.Calendar}} ({{.When}})`,
	}
	msgCreatedMeeting = &i18n.Message{
		ID:    "status.created_meeting",
		Other: `Added "{{.Title}}" to {{.Calendar}} ({{.When}}) with a Zoom meeting`,
	}
	msgDegraded = &i18n.Message{
		ID:    "status.degraded",
		Other: `Added "{{.Title}}" to {{.Calendar}} ({{.When}}), but the online meeting could not be created`,
	}
	msgPreview = &i18n.Message{
		ID:    "status.preview",
		Other: `Dry run: "{{.Title}}" would be added to {{.Calendar}} ({{.When}})`,
	}
	msgFailed = &i18n.Message{
		ID:    "status.failed",
		Other: "Failed: {{.Message}}",
	}
	msgHint = &i18n.Message{
		ID:    "status.hint",
		Other: "Hint: {{.Hint}}",
	}
	msgAllDay = &i18n.Message{
		ID:    "when.all_day",
		Other: "{{.Date}}, all day",
	}
	msgDegradedNote = &i18n.Message{
		ID:    "note.meeting_unavailable",
		Other: "Meeting link unavailable: {{.Reason}}",
	}
)

var zhHans = []*i18n.Message{
	{ID: "status.created", Other: `已将“{{.Title}}”添加到{{.Calendar}}（{{.When}}）`},
	{ID: "status.created_meeting", Other: `已将“{{.Title}}”添加到{{.Calendar}}（{{.When}}），并创建了 Zoom 会议`},
	{ID: "status.degraded", Other: `已将“{{.Title}}”添加到{{.Calendar}}（{{.When}}），但未能创建线上会议`},
	{ID: "status.preview", Other: `预览：“{{.Title}}”将添加到{{.Calendar}}（{{.When}}）`},
	{ID: "status.failed", Other: "失败：{{.Message}}"},
	{ID: "status.hint", Other: "提示：{{.Hint}}"},
	{ID: "when.all_day", Other: "{{.Date}} 全天"},
	{ID: "note.meeting_unavailable", Other: "会议链接不可用：{{.Reason}}"},

	{ID: errorID(apperr.CodeCredentialMissing), Other: "未配置 API 密钥"},
	{ID: errorID(apperr.CodeCredentialInvalid), Other: "API 密钥被服务拒绝"},
	{ID: errorID(apperr.CodeNetworkUnavailable), Other: "网络不可用"},
	{ID: errorID(apperr.CodeRequestFailed), Other: "AI 服务请求失败"},
	{ID: errorID(apperr.CodeRateLimited), Other: "对 AI 服务的请求过多"},
	{ID: errorID(apperr.CodeTimedOut), Other: "操作超时"},
	{ID: errorID(apperr.CodeJSONParseFailed), Other: "无法解析 AI 响应"},
	{ID: errorID(apperr.CodeValidationFailed), Other: "事件信息不完整或无效"},
	{ID: errorID(apperr.CodeDateFormatInvalid), Other: "事件日期格式无效"},
	{ID: errorID(apperr.CodeDateConversionFailed), Other: "无法转换事件日期"},
	{ID: errorID(apperr.CodeTimezoneInvalid), Other: "无法识别时区"},
	{ID: errorID(apperr.CodeAIResponseInvalid), Other: "AI 服务返回了意外的响应"},
	{ID: errorID(apperr.CodeMeetingTokenFailed), Other: "无法通过会议服务认证"},
	{ID: errorID(apperr.CodeMeetingCreationFailed), Other: "无法创建线上会议"},
	{ID: errorID(apperr.CodeScriptFailed), Other: "日历命令执行失败"},
	{ID: errorID(apperr.CodePermissionDenied), Other: "没有控制日历应用的权限"},
	{ID: errorID(apperr.CodeDependencyMissing), Other: "缺少必需的系统工具"},
	{ID: errorID(apperr.CodeUserCancelled), Other: "操作已取消"},
	{ID: errorID(apperr.CodeAppNotRunning), Other: "日历应用未运行"},

	{ID: hintID(apperr.CodeCredentialMissing), Other: "请在选项或 ANTHROPIC_API_KEY 环境变量中设置 AI API 密钥。"},
	{ID: hintID(apperr.CodeCredentialInvalid), Other: "请检查 API 密钥是否正确且未被撤销。"},
	{ID: hintID(apperr.CodeNetworkUnavailable), Other: "请检查网络连接后重试。"},
	{ID: hintID(apperr.CodeRequestFailed), Other: "请稍后重试；如果问题持续，请检查服务状态。"},
	{ID: hintID(apperr.CodeRateLimited), Other: "请等待一分钟后再试。"},
	{ID: hintID(apperr.CodeTimedOut), Other: "请重试；网络较慢时可在选项中延长超时时间。"},
	{ID: hintID(apperr.CodeJSONParseFailed), Other: "请尝试换一种说法描述所选文本。"},
	{ID: hintID(apperr.CodeValidationFailed), Other: "请确保文本说明了事件内容和开始时间。"},
	{ID: hintID(apperr.CodeDateFormatInvalid), Other: "请使用明确的日期，例如 2024-05-10 14:00。"},
	{ID: hintID(apperr.CodeTimezoneInvalid), Other: "请在选项中设置 IANA 时区名称，例如 Asia/Shanghai。"},
	{ID: hintID(apperr.CodeAIResponseInvalid), Other: "请重试；如果问题持续，请尝试其他模型。"},
	{ID: hintID(apperr.CodeMeetingTokenFailed), Other: "请检查会议账户 ID、客户端 ID 和客户端密钥。"},
	{ID: hintID(apperr.CodeScriptFailed), Other: "请确认目标日历存在且可写。"},
	{ID: hintID(apperr.CodePermissionDenied), Other: "请在“系统设置 > 隐私与安全性 > 自动化”中授予权限。"},
	{ID: hintID(apperr.CodeDependencyMissing), Other: "请安装缺少的工具或选择其他日历后端。"},
	{ID: hintID(apperr.CodeAppNotRunning), Other: "请打开日历应用后重试。"},
}

func errorID(c apperr.Code) string { return "error." + string(c) }

func hintID(c apperr.Code) string { return "hint." + string(c) }

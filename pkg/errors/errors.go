package errors

import "errors"

func (d Definition) Error() string {
	return d.Message
}

// Definition 表示业务错误码及默认信息。
type Definition struct {
	Code    string
	Message string
}

// 认证相关错误。
var (
	Unauthorized       = Definition{Code: "UNAUTHORIZED", Message: "Unauthorized"}
	LoginFailed        = Definition{Code: "LOGIN_FAILED", Message: "Invalid username or password"}
	InvalidAccountID   = Definition{Code: "INVALID_ACCOUNT_ID", Message: "Invalid account ID format"}
	InvalidTaskID      = Definition{Code: "INVALID_TASK_ID", Message: "Invalid task ID format"}
)

// 账户模块错误。
var (
	AccountNotFound    = Definition{Code: "ACCOUNT_NOT_FOUND", Message: "Account not found"}
	AccountNameTaken   = Definition{Code: "ACCOUNT_NAME_TAKEN", Message: "Account name already exists"}
	AccountDisabled    = Definition{Code: "ACCOUNT_DISABLED", Message: "Account is disabled"}
	InvalidCookieData  = Definition{Code: "INVALID_COOKIE_DATA", Message: "Invalid cookie data"}
	AccountBusy        = Definition{Code: "ACCOUNT_BUSY", Message: "Another operation is running for this account"}
)

// 签到模块错误。
var (
	CheckinAlreadyRunning = Definition{Code: "CHECKIN_ALREADY_RUNNING", Message: "Check-in already running for this account"}
	InvalidTimeWindow     = Definition{Code: "INVALID_TIME_WINDOW", Message: "Invalid check-in time window"}
	InvalidClearType      = Definition{Code: "INVALID_CLEAR_TYPE", Message: "Invalid clear type"}
)

// 兑换模块错误。
var (
	EmptyCodeList        = Definition{Code: "EMPTY_CODE_LIST", Message: "Code list is empty"}
	EmptyCode            = Definition{Code: "EMPTY_CODE", Message: "Redeem code is empty"}
	BatchTaskConflict    = Definition{Code: "BATCH_TASK_CONFLICT", Message: "Account already has an active batch task"}
	BatchTaskNotFound    = Definition{Code: "BATCH_TASK_NOT_FOUND", Message: "Batch task not found"}
	BatchTaskNotRunning  = Definition{Code: "BATCH_TASK_NOT_RUNNING", Message: "Only a running task can be paused"}
	BatchTaskNotPaused   = Definition{Code: "BATCH_TASK_NOT_PAUSED", Message: "Only a paused task can be resumed"}
	BatchTaskFinished    = Definition{Code: "BATCH_TASK_FINISHED", Message: "Task already reached a terminal state"}
	RedeemCooldownActive = Definition{Code: "REDEEM_COOLDOWN_ACTIVE", Message: "Redeem cooldown has not elapsed yet"}
)

// 设置模块错误。
var (
	InvalidRetryCount  = Definition{Code: "INVALID_RETRY_COUNT", Message: "Retry count must be between 0 and 5"}
	InvalidRandomDelay = Definition{Code: "INVALID_RANDOM_DELAY", Message: "Random delay must be between 0 and 300 seconds, min <= max"}
)

// 通用错误。
var (
	TooManyRequests = Definition{Code: "TOO_MANY_REQUESTS", Message: "Too many requests, slow down"}
)

// 基础设施错误，不走错误码流程。
var (
	ErrTokenGeneratorNotInitialized = errors.New("token generator not initialized")
	ErrUnexpectedSigningMethod      = errors.New("unexpected signing method")
)

// Lookup 提供错误码查询能力。
var Lookup = map[string]Definition{
	Unauthorized.Code:          Unauthorized,
	LoginFailed.Code:           LoginFailed,
	InvalidAccountID.Code:      InvalidAccountID,
	InvalidTaskID.Code:         InvalidTaskID,
	AccountNotFound.Code:       AccountNotFound,
	AccountNameTaken.Code:      AccountNameTaken,
	AccountDisabled.Code:       AccountDisabled,
	InvalidCookieData.Code:     InvalidCookieData,
	AccountBusy.Code:           AccountBusy,
	CheckinAlreadyRunning.Code: CheckinAlreadyRunning,
	InvalidTimeWindow.Code:     InvalidTimeWindow,
	InvalidClearType.Code:      InvalidClearType,
	EmptyCodeList.Code:         EmptyCodeList,
	EmptyCode.Code:             EmptyCode,
	BatchTaskConflict.Code:     BatchTaskConflict,
	BatchTaskNotFound.Code:     BatchTaskNotFound,
	BatchTaskNotRunning.Code:   BatchTaskNotRunning,
	BatchTaskNotPaused.Code:    BatchTaskNotPaused,
	BatchTaskFinished.Code:     BatchTaskFinished,
	RedeemCooldownActive.Code:  RedeemCooldownActive,
	InvalidRetryCount.Code:     InvalidRetryCount,
	InvalidRandomDelay.Code:    InvalidRandomDelay,
	TooManyRequests.Code:       TooManyRequests,
}

// Get 根据错误码返回 Definition，若不存在则返回空 Definition。
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}

package service

import pkgerrors "skillswap/pkg/errors"

// ── 认证 / 用户模块业务错误 ──

var (
	ErrInvalidCredentials = pkgerrors.New(pkgerrors.KindValidation, 10001, "邮箱或密码错误")
	ErrEmailTaken         = pkgerrors.Conflict(10002, "邮箱已被注册")
	ErrUserNotFound       = pkgerrors.NotFound(11001, "用户不存在")
	ErrProfilePrivate     = pkgerrors.Forbidden(11002, "该用户资料未公开")
	ErrProfileConflict    = pkgerrors.Conflict(11003, "资料已被其他操作修改，请刷新后重试")
)

// ── 交换请求模块业务错误 ──

var (
	ErrSwapInvalidInput     = pkgerrors.Validation(14001, "请求参数无效")
	ErrSwapSelfRequest      = pkgerrors.Validation(14002, "不能向自己发起交换请求")
	ErrSwapSkillNotOffered  = pkgerrors.Validation(14003, "对方未提供所请求的技能")
	ErrSwapSkillNotOwned    = pkgerrors.Validation(14004, "您未提供所交换的技能")
	ErrSwapRatingIncomplete = pkgerrors.Validation(14005, "评分与评价需同时提供")
	ErrSwapInvalidRating    = pkgerrors.Validation(14006, "评分需在 1-5 之间，评价不超过 500 字")

	ErrSwapNotFound       = pkgerrors.NotFound(14101, "交换请求不存在")
	ErrSwapTargetNotFound = pkgerrors.NotFound(14102, "目标用户不存在")

	ErrSwapTargetPrivate  = pkgerrors.Forbidden(14201, "目标用户资料未公开")
	ErrSwapNotParticipant = pkgerrors.Forbidden(14202, "您不是该交换请求的参与方")
	ErrSwapNotRecipient   = pkgerrors.Forbidden(14203, "仅接收方可执行此操作")
	ErrSwapNotRequester   = pkgerrors.Forbidden(14204, "仅发起方可执行此操作")

	ErrSwapPendingExists = pkgerrors.InvalidState(14301, "与该用户已存在待处理的交换请求")
	ErrSwapNotPending    = pkgerrors.InvalidState(14302, "交换请求不处于待处理状态")
	ErrSwapNotAccepted   = pkgerrors.InvalidState(14303, "交换请求未处于已接受状态")
	ErrSwapAlreadyRated  = pkgerrors.InvalidState(14304, "您已对该交换提交过评分")

	ErrSwapConflict = pkgerrors.Conflict(14401, "交换请求并发修改冲突，请稍后重试")
)

// invalidInput 携带具体字段信息的参数错误，errors.Is 仍匹配 ErrSwapInvalidInput
func invalidInput(message string) error {
	return pkgerrors.Validation(ErrSwapInvalidInput.Code, message)
}

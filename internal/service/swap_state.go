package service

import "skillswap/internal/model"

// SwapAction 交换请求生命周期动作
type SwapAction string

const (
	ActionCreate   SwapAction = "create"
	ActionAccept   SwapAction = "accept"
	ActionReject   SwapAction = "reject"
	ActionCancel   SwapAction = "cancel"
	ActionComplete SwapAction = "complete"
)

// swapTransitions 合法状态边：(当前状态, 动作) → 新状态，未列出的组合一律非法
var swapTransitions = map[model.SwapStatus]map[SwapAction]model.SwapStatus{
	model.SwapStatusPending: {
		ActionAccept: model.SwapStatusAccepted,
		ActionReject: model.SwapStatusRejected,
		ActionCancel: model.SwapStatusCancelled,
	},
	model.SwapStatusAccepted: {
		ActionComplete: model.SwapStatusCompleted,
	},
}

// swapActors 各动作允许的参与方
var swapActors = map[SwapAction][]model.Participant{
	ActionAccept:   {model.Recipient},
	ActionReject:   {model.Recipient},
	ActionCancel:   {model.Requester},
	ActionComplete: {model.Requester, model.Recipient},
}

// NextStatus 查询状态表，ok=false 表示该边不存在
func NextStatus(current model.SwapStatus, action SwapAction) (model.SwapStatus, bool) {
	next, ok := swapTransitions[current][action]
	return next, ok
}

// ActorAllowed 参与方是否可执行该动作
func ActorAllowed(action SwapAction, p model.Participant) bool {
	for _, allowed := range swapActors[action] {
		if allowed == p {
			return true
		}
	}
	return false
}

// authorizeTransition 依次校验角色与状态，返回参与方与目标状态
func authorizeTransition(swap *model.SwapRequest, action SwapAction, actorID string) (model.Participant, model.SwapStatus, error) {
	p := swap.ParticipantOf(actorID)
	if !ActorAllowed(action, p) {
		return p, "", forbiddenFor(action, p)
	}
	next, ok := NextStatus(swap.Status, action)
	if !ok {
		return p, "", invalidStateFor(action)
	}
	return p, next, nil
}

func forbiddenFor(action SwapAction, p model.Participant) error {
	if p == model.NotParticipant {
		return ErrSwapNotParticipant
	}
	switch action {
	case ActionAccept, ActionReject:
		return ErrSwapNotRecipient
	case ActionCancel:
		return ErrSwapNotRequester
	default:
		return ErrSwapNotParticipant
	}
}

func invalidStateFor(action SwapAction) error {
	if action == ActionComplete {
		return ErrSwapNotAccepted
	}
	return ErrSwapNotPending
}

package service

import (
	"errors"
	"fmt"
	"time"
)

// 校验类错误：请求本身不合法，调用方需要修正后重试
var (
	ErrRecordNotFound    = errors.New("logistic record not found")
	ErrSlotNotFound      = errors.New("slot not found")
	ErrCampaignNotFound  = errors.New("campaign not found")
	ErrKindMismatch      = errors.New("operation not applicable to record kind")
	ErrCapacityExceeded  = errors.New("proposed slot count exceeds limit")
	ErrDuplicateSlot     = errors.New("slot duplicates an existing proposal")
	ErrInvalidInterval   = errors.New("slot interval invalid")
	ErrEmptyIssueReason  = errors.New("issue reason is empty")
	ErrRecordExists      = errors.New("logistic record already exists for creator")
	ErrConfigMissing     = errors.New("reservation config missing for campaign")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrSlotConflict      = errors.New("slot conflicts with a confirmed booking")
)

// ErrStorage 持久层失败，调用方可重试
var ErrStorage = errors.New("storage failure")

// wrapStorage 将持久层错误统一包装，便于调用方与校验错误区分
func wrapStorage(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrStorage, err)
}

// InvalidTransitionError 非法状态迁移，携带当前与目标状态
type InvalidTransitionError struct {
	Current   string
	Attempted string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.Current, e.Attempted)
}

// Unwrap 支持 errors.Is(err, ErrInvalidTransition)
func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// SlotConflictError 时段冲突，携带冲突方信息
type SlotConflictError struct {
	CreatorID uint
	StartsAt  time.Time
	EndsAt    time.Time
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("slot conflict: creator %d holds %s - %s",
		e.CreatorID, e.StartsAt.Format(time.RFC3339), e.EndsAt.Format(time.RFC3339))
}

// Unwrap 支持 errors.Is(err, ErrSlotConflict)
func (e *SlotConflictError) Unwrap() error {
	return ErrSlotConflict
}

// ErrSlotNotSelectable 时段已被拒绝，不能再被选定
var ErrSlotNotSelectable = errors.New("slot is not selectable")

// classifyTxError 区分事务内的业务错误与持久层错误
// 业务错误原样透出，其余按存储失败包装
func classifyTxError(err error) error {
	if err == nil {
		return nil
	}
	for _, target := range []error{
		ErrSlotConflict, ErrInvalidTransition, ErrDuplicateSlot,
		ErrCapacityExceeded, ErrSlotNotFound, ErrSlotNotSelectable,
		ErrRecordNotFound, ErrStorage,
	} {
		if errors.Is(err, target) {
			return err
		}
	}
	return wrapStorage(err)
}

package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrDuplicatePending 同一用户对已存在 pending 请求（唯一索引兜底）
	ErrDuplicatePending = errors.New("该用户对已存在待处理的交换请求")
	// ErrDuplicateEmail 邮箱已被注册
	ErrDuplicateEmail = errors.New("邮箱已被注册")
)

const (
	// pgInvalidTextRepresentation 非法 UUID 等输入格式错误
	pgInvalidTextRepresentation = "22P02"

	constraintPendingPair = "uq_swap_requests_pending_pair"
	constraintUserEmail   = "uq_users_email"
)

// mapError 将 PostgreSQL 唯一约束冲突转换为仓储层错误，其余原样返回
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case constraintPendingPair:
			return ErrDuplicatePending
		case constraintUserEmail:
			return ErrDuplicateEmail
		}
	}
	return err
}

// mapLookupError 主键格式非法时按记录不存在处理
func mapLookupError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgInvalidTextRepresentation {
		return gorm.ErrRecordNotFound
	}
	return err
}

package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_IsMatchesSentinelAfterWrap(t *testing.T) {
	sentinel := InvalidState(14103, "请求已不处于待处理状态")

	wrapped := Wrap(sentinel, ErrOptimisticLock)
	assert.True(t, errors.Is(wrapped, sentinel))
	assert.True(t, errors.Is(wrapped, ErrOptimisticLock))

	chained := fmt.Errorf("accept: %w", wrapped)
	assert.True(t, errors.Is(chained, sentinel))
	assert.Equal(t, KindInvalidState, KindOf(chained))
}

func TestAppError_DifferentCodesDoNotMatch(t *testing.T) {
	a := Forbidden(14201, "仅接收方可以操作")
	b := Forbidden(14202, "仅发起方可以操作")
	assert.False(t, errors.Is(a, b))
}

func TestKindOf_PlainErrorIsInternal(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindNotFound, KindOf(NotFound(1, "x")))
}

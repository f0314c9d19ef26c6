package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ═══════════════════════════════════════════════════════════
// StringArray
// ═══════════════════════════════════════════════════════════

func TestStringArray_Scan(t *testing.T) {
	tests := []struct {
		name string
		src  interface{}
		want StringArray
	}{
		{"空数组", "{}", StringArray{}},
		{"无引号元素", []byte("{Go,Guitar}"), StringArray{"Go", "Guitar"}},
		{"含空格与逗号", `{"Web Design","a,b"}`, StringArray{"Web Design", "a,b"}},
		{"转义引号", `{"say \"hi\""}`, StringArray{`say "hi"`}},
		{"nil", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a StringArray
			require.NoError(t, a.Scan(tt.src))
			assert.Equal(t, tt.want, a)
		})
	}
}

func TestStringArray_ScanRejectsGarbage(t *testing.T) {
	var a StringArray
	assert.Error(t, a.Scan("Go,Guitar"))
	assert.Error(t, a.Scan(42))
	assert.Error(t, a.Scan(`{"open}`))
}

func TestStringArray_ValueScanRoundTrip(t *testing.T) {
	in := StringArray{"JavaScript", "Web Design", `back\slash`, `q"uote`}
	v, err := in.Value()
	require.NoError(t, err)

	var out StringArray
	require.NoError(t, out.Scan(v))
	assert.Equal(t, in, out)
}

func TestStringArray_Contains(t *testing.T) {
	a := StringArray{"Guitar", "Cooking"}
	assert.True(t, a.Contains("Guitar"))
	assert.False(t, a.Contains("guitar"))
	assert.False(t, StringArray(nil).Contains("Guitar"))
}

// ═══════════════════════════════════════════════════════════
// SwapRequest
// ═══════════════════════════════════════════════════════════

func TestSwapRequest_ParticipantOf(t *testing.T) {
	s := &SwapRequest{FromUserID: "a", ToUserID: "b"}
	assert.Equal(t, Requester, s.ParticipantOf("a"))
	assert.Equal(t, Recipient, s.ParticipantOf("b"))
	assert.Equal(t, NotParticipant, s.ParticipantOf("c"))
	assert.Equal(t, "b", s.UserOf(Recipient))
	assert.Equal(t, "", s.UserOf(NotParticipant))
}

func TestSwapRequest_Slots(t *testing.T) {
	s := &SwapRequest{FromUserID: "a", ToUserID: "b"}
	assert.False(t, s.Slot(Requester).Filled())

	s.SetSlot(Requester, 5, "great")
	require.NotNil(t, s.FromUserRating)
	assert.Equal(t, 5, *s.FromUserRating)
	assert.Equal(t, "great", *s.FromUserFeedback)
	assert.Nil(t, s.ToUserRating)
	assert.False(t, s.BothRated())

	s.SetSlot(Recipient, 4, "fun")
	assert.True(t, s.BothRated())
	assert.Equal(t, 4, *s.Slot(Recipient).Rating)

	// 非参与方写入被忽略
	s.SetSlot(NotParticipant, 1, "x")
	assert.False(t, s.Slot(NotParticipant).Filled())
}

func TestSwapStatus_IsTerminal(t *testing.T) {
	assert.False(t, SwapStatusPending.IsTerminal())
	assert.False(t, SwapStatusAccepted.IsTerminal())
	assert.True(t, SwapStatusRejected.IsTerminal())
	assert.True(t, SwapStatusCancelled.IsTerminal())
	assert.True(t, SwapStatusCompleted.IsTerminal())
	assert.False(t, SwapStatus("archived").Valid())
}

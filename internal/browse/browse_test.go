package browse

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s-%02d", prefix, i+1)
	}
	return out
}

func TestTwentyThreeItems(t *testing.T) {
	b := New("alice", items("game", 23), items("ban", 4))

	v := b.Render()
	assert.Equal(t, 1, v.Page)
	assert.False(t, v.CanGoPrevious)
	assert.True(t, v.CanGoNext)

	v, err := b.JumpTo("alice", "5")
	require.NoError(t, err)
	assert.Equal(t, 2, v.Page, "jump clamps to the last full page")
	assert.False(t, v.CanGoNext)
	assert.True(t, v.CanGoPrevious)

	v, err = b.JumpTo("alice", "abc")
	require.NoError(t, err)
	assert.Equal(t, 2, v.Page, "non-numeric input is ignored")

	v, err = b.SwitchMode("alice", Primary)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Page, "same mode keeps the page")

	v, err = b.SwitchMode("alice", Secondary)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Page)
	assert.Equal(t, Secondary, v.Mode)
	assert.False(t, v.CanGoNext)
}

func TestNextPrevious(t *testing.T) {
	b := New("alice", items("game", 30), nil)

	v, _ := b.Previous("alice")
	assert.Equal(t, 1, v.Page)

	for i := 0; i < 5; i++ {
		v, _ = b.Next("alice")
	}
	assert.Equal(t, 3, v.Page)
	assert.False(t, v.CanGoNext)

	v, _ = b.Previous("alice")
	assert.Equal(t, 2, v.Page)
}

func TestJumpToClampsLow(t *testing.T) {
	b := New("alice", items("game", 30), nil)
	_, _ = b.JumpTo("alice", "3")

	v, err := b.JumpTo("alice", "-4")
	require.NoError(t, err)
	assert.Equal(t, 1, v.Page)

	v, _ = b.JumpTo("alice", " 2 ")
	assert.Equal(t, 2, v.Page)
}

func TestRowsArePaddedAndOffset(t *testing.T) {
	b := New("alice", items("game", 23), nil)
	_, _ = b.Next("alice")

	v := b.Render()
	require.Len(t, v.Rows, DefaultPageSize)
	assert.Equal(t, "game-11", strings.TrimSpace(v.Rows[0]))
	assert.Equal(t, "game-20", strings.TrimSpace(v.Rows[9]))
	for _, r := range v.Rows {
		assert.Equal(t, DefaultWidth, utf8.RuneCountInString(r))
	}
}

func TestEmptyListRendersBlankRows(t *testing.T) {
	v := New("alice", nil, nil).Render()
	require.Len(t, v.Rows, DefaultPageSize)
	for _, r := range v.Rows {
		assert.Empty(t, strings.TrimSpace(r))
	}
	assert.False(t, v.CanGoNext)
	assert.False(t, v.CanGoPrevious)
}

func TestFitTruncates(t *testing.T) {
	long := strings.Repeat("é", 60)
	got := fit([]string{long, "short"}, 50)

	assert.Equal(t, strings.Repeat("é", 47)+"...", got[0])
	assert.Equal(t, 50, utf8.RuneCountInString(got[1]))
	assert.True(t, strings.HasPrefix(got[1], "short "))

	exact := strings.Repeat("x", 50)
	assert.Equal(t, exact, fit([]string{exact}, 50)[0])
}

func TestForeignActorSeesUnchangedState(t *testing.T) {
	b := New("alice", items("game", 30), items("ban", 12))
	_, _ = b.Next("alice")
	before := b.Render()

	for _, op := range []func() (View, error){
		func() (View, error) { return b.Next("mallory") },
		func() (View, error) { return b.Previous("mallory") },
		func() (View, error) { return b.JumpTo("mallory", "3") },
		func() (View, error) { return b.SwitchMode("mallory", Secondary) },
	} {
		v, err := op()
		assert.ErrorIs(t, err, ErrForeignActor)
		assert.Equal(t, before, v)
	}
	assert.Equal(t, before, b.Render())
}

func TestOptions(t *testing.T) {
	b := New("alice", items("game", 9), nil, WithPageSize(3), WithWidth(8))
	v := b.Render()
	require.Len(t, v.Rows, 3)
	assert.Equal(t, "game-01 ", v.Rows[0])
	assert.True(t, v.CanGoNext)
}

func TestParseMode(t *testing.T) {
	m, ok := ParseMode("Banned")
	assert.True(t, ok)
	assert.Equal(t, Secondary, m)

	_, ok = ParseMode("wishlist")
	assert.False(t, ok)
}

func TestViewJSON(t *testing.T) {
	b := New("alice", []string{"Halo"}, nil, WithPageSize(1), WithWidth(4))
	out, err := json.Marshal(b.Render())
	require.NoError(t, err)
	assert.JSONEq(t, `{"rows":["Halo"],"page":1,"can_go_next":false,"can_go_previous":false,"mode":"games"}`, string(out))
}

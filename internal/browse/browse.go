// Package browse pages through a player's games and bans ten rows at a time.
package browse

import (
	"errors"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"
)

const (
	DefaultPageSize = 10
	DefaultWidth    = 50
	ellipsis        = "..."
)

// ErrForeignActor is returned when someone other than the owner drives the browser.
// The returned View is the unchanged state, for re-rendering.
var ErrForeignActor = errors.New("only the owner can page through this list")

// Mode selects which list is shown.
type Mode int

const (
	Primary Mode = iota
	Secondary
)

func (m Mode) String() string {
	if m == Secondary {
		return "bans"
	}
	return "games"
}

// MarshalText renders the mode by name.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// ParseMode accepts "games"/"primary" and "bans"/"banned"/"secondary".
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "games", "primary":
		return Primary, true
	case "bans", "banned", "secondary":
		return Secondary, true
	}
	return Primary, false
}

// View is one rendered page.
type View struct {
	Rows          []string `json:"rows"`
	Page          int      `json:"page"`
	CanGoNext     bool     `json:"can_go_next"`
	CanGoPrevious bool     `json:"can_go_previous"`
	Mode          Mode     `json:"mode"`
}

// Browser is the paging state for one owner. Methods are safe for concurrent use.
type Browser struct {
	owner    string
	pageSize int
	width    int

	mu    sync.Mutex
	lists [2][]string
	page  int
	mode  Mode
}

// Option configures a Browser.
type Option func(*Browser)

// WithPageSize sets rows per page. Non-positive values keep DefaultPageSize.
func WithPageSize(n int) Option {
	return func(b *Browser) {
		if n > 0 {
			b.pageSize = n
		}
	}
}

// WithWidth sets the row width in runes. Widths too short for an ellipsis keep DefaultWidth.
func WithWidth(n int) Option {
	return func(b *Browser) {
		if n > len(ellipsis) {
			b.width = n
		}
	}
}

// New returns a browser on page 1 of the primary list. The lists are copied.
func New(owner string, primary, secondary []string, opts ...Option) *Browser {
	b := &Browser{owner: owner, pageSize: DefaultPageSize, width: DefaultWidth, page: 1}
	for _, opt := range opts {
		opt(b)
	}
	b.lists[Primary] = fit(primary, b.width)
	b.lists[Secondary] = fit(secondary, b.width)
	return b
}

// fit pads every entry to width runes, truncating longer ones with an ellipsis.
func fit(items []string, width int) []string {
	out := make([]string, len(items))
	for i, s := range items {
		n := utf8.RuneCountInString(s)
		switch {
		case n > width:
			r := []rune(s)
			s = string(r[:width-len(ellipsis)]) + ellipsis
		case n < width:
			s += strings.Repeat(" ", width-n)
		}
		out[i] = s
	}
	return out
}

// maxPage is the number of full pages in the active list, at least 1.
func (b *Browser) maxPage() int {
	if n := len(b.lists[b.mode]) / b.pageSize; n > 1 {
		return n
	}
	return 1
}

func (b *Browser) render() View {
	v := View{
		Rows:          make([]string, b.pageSize),
		Page:          b.page,
		CanGoPrevious: b.page > 1,
		CanGoNext:     b.page < b.maxPage(),
		Mode:          b.mode,
	}
	list := b.lists[b.mode]
	start := (b.page - 1) * b.pageSize
	blank := strings.Repeat(" ", b.width)
	for i := range v.Rows {
		if j := start + i; j < len(list) {
			v.Rows[i] = list[j]
		} else {
			v.Rows[i] = blank
		}
	}
	return v
}

// Render returns the current page.
func (b *Browser) Render() View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.render()
}

// Next advances one page unless already on the last.
func (b *Browser) Next(actor string) (View, error) {
	return b.apply(actor, func() {
		if b.page < b.maxPage() {
			b.page++
		}
	})
}

// Previous goes back one page unless already on the first.
func (b *Browser) Previous(actor string) (View, error) {
	return b.apply(actor, func() {
		if b.page > 1 {
			b.page--
		}
	})
}

// JumpTo moves to page n clamped to the active list. Input that is not a number
// leaves the page unchanged.
func (b *Browser) JumpTo(actor, n string) (View, error) {
	return b.apply(actor, func() {
		p, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return
		}
		b.page = min(max(p, 1), b.maxPage())
	})
}

// SwitchMode shows the other list, starting from page 1. Switching to the mode
// already shown keeps the page.
func (b *Browser) SwitchMode(actor string, m Mode) (View, error) {
	return b.apply(actor, func() {
		if m == b.mode || (m != Primary && m != Secondary) {
			return
		}
		b.mode = m
		b.page = 1
	})
}

func (b *Browser) apply(actor string, fn func()) (View, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if actor != b.owner {
		return b.render(), ErrForeignActor
	}
	fn()
	return b.render(), nil
}

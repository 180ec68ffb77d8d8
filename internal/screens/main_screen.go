package screens

import (
	"screenapp/internal/app"
	"screenapp/internal/arena"
	"screenapp/internal/screen"
	"screenapp/internal/ui"
)

const mainArenaSize = 512

var testItems = [...]struct {
	label string
	kind  screen.Kind
}{
	{"Go to Screen 1", KindTest1},
	{"Go to Screen 2", KindTest2},
	{"Go to Screen 3", KindTest3},
}

type mainScreen struct {
	// items holds per-update click payloads.
	items *arena.Arena
	pics  [2]ui.TextureID
}

// NewMain returns the main menu screen.
func NewMain() *screen.Screen[*app.Context] {
	return newScreen(KindMain, 60, &mainScreen{})
}

func (s *mainScreen) Init(ctx *app.Context) {
	s.items = arena.New(mainArenaSize)
	s.pics[0] = loadAvatar(ctx, avatarPath)
	s.pics[1] = loadAvatar(ctx, avatar2Path)
}

func (s *mainScreen) Update(ctx *app.Context) {
	s.items.Reset()
	Sidebar(ctx, func() {
		Profile(ctx, &s.pics)
		SidebarItem(ctx, "Profile", 0, func() {
			ctx.Screens.SetNext(NewProfile())
		})
		for _, it := range testItems {
			SidebarItemWithData(ctx, it.label, s.items, byte(it.kind), func(data []byte) {
				if next := newTestFor(screen.Kind(data[0])); next != nil {
					ctx.Screens.SetNext(next)
				}
			})
		}
	})
}

func (s *mainScreen) Destroy(ctx *app.Context) {
	unload(ctx, s.pics[:]...)
	s.items = nil
}

func newTestFor(k screen.Kind) *screen.Screen[*app.Context] {
	switch k {
	case KindTest1:
		return NewTest(1)
	case KindTest2:
		return NewTest(2)
	case KindTest3:
		return NewTest(3)
	}
	return nil
}

package screens

import (
	"fmt"

	"screenapp/internal/app"
	"screenapp/internal/screen"
	"screenapp/internal/ui"
)

type testScreen struct {
	title string
	pics  [2]ui.TextureID
}

// NewTest returns test screen n (1 to 3). It panics for any other n.
func NewTest(n int) *screen.Screen[*app.Context] {
	if n < 1 || n > 3 {
		panic(fmt.Sprintf("screens: no test screen %d", n))
	}
	kind := KindTest1 + screen.Kind(n-1)
	return newScreen(kind, 60, &testScreen{title: fmt.Sprintf("Test_%d", n)})
}

func (s *testScreen) Init(ctx *app.Context) {
	s.pics[0] = loadAvatar(ctx, avatar2Path)
}

func (s *testScreen) Update(ctx *app.Context) {
	Sidebar(ctx, func() {
		Profile(ctx, &s.pics)
		Title(ctx, s.title)
		SidebarItem(ctx, "Main Menu", 0, func() {
			ctx.Screens.SetNext(NewMain())
		})
	})
}

func (s *testScreen) Destroy(ctx *app.Context) {
	unload(ctx, s.pics[0])
}

package screens

import (
	"screenapp/internal/app"
	"screenapp/internal/arena"
	"screenapp/internal/screen"
	"screenapp/internal/ui"
)

const profileArenaSize = 128

type profileScreen struct {
	scratch *arena.Arena
	pics    [2]ui.TextureID
}

// NewProfile returns the profile screen. It updates at 30 fps.
func NewProfile() *screen.Screen[*app.Context] {
	return newScreen(KindProfile, 30, &profileScreen{})
}

func (s *profileScreen) Init(ctx *app.Context) {
	s.scratch = arena.New(profileArenaSize)
	s.pics[0] = loadAvatar(ctx, avatar2Path)
	s.pics[1] = loadAvatar(ctx, avatarPath)
}

func (s *profileScreen) Update(ctx *app.Context) {
	s.scratch.Reset()
	greeting, ok := s.scratch.Sprintf("Updated every %s", screen.RateFromFPS(30))
	if !ok {
		greeting = "Profile"
	}
	Sidebar(ctx, func() {
		Profile(ctx, &s.pics)
		SidebarItem(ctx, "Sidebar Item", 16, nil)
		ctx.UI.Element(ui.Decl{
			ID:    "MainContent",
			Class: "main-content",
			Layout: ui.Layout{
				Direction: ui.TopToBottom,
				Width:     ui.Grow(),
				Height:    ui.Fit(),
			},
		}, func() {
			Title(ctx, greeting)
			SidebarItem(ctx, "Main Menu", 32, func() {
				ctx.Screens.SetNext(NewMain())
			})
		})
	})
}

func (s *profileScreen) Destroy(ctx *app.Context) {
	unload(ctx, s.pics[:]...)
	s.scratch = nil
}

// Package screens holds the application's concrete screens and the components
// they are built from.
package screens

import (
	"screenapp/internal/app"
	"screenapp/internal/assets"
	"screenapp/internal/screen"
	"screenapp/internal/ui"
)

// Screen kinds.
const (
	KindMain screen.Kind = iota + 1
	KindProfile
	KindTest1
	KindTest2
	KindTest3
)

// KindName returns the display name of k.
func KindName(k screen.Kind) string {
	switch k {
	case KindMain:
		return "Main"
	case KindProfile:
		return "Profile"
	case KindTest1:
		return "Test 1"
	case KindTest2:
		return "Test 2"
	case KindTest3:
		return "Test 3"
	}
	return "Unknown"
}

// Image paths relative to the assets directory.
const (
	avatarPath  = "avatar.jpg"
	avatar2Path = "avatar2.png"
	avatarSize  = 60
)

// Images lists every image the screens load, for preloading.
func Images() []assets.Request {
	return []assets.Request{
		{Path: avatarPath, Width: avatarSize, Height: avatarSize},
		{Path: avatar2Path, Width: avatarSize, Height: avatarSize},
	}
}

func newScreen(kind screen.Kind, fps int, l screen.Lifecycle[*app.Context]) *screen.Screen[*app.Context] {
	s := screen.New(kind, screen.RateFromFPS(fps), l)
	s.Name = KindName(kind)
	return s
}

// loadAvatar loads an avatar texture. On failure it returns 0 and the screen
// draws without the picture.
func loadAvatar(ctx *app.Context, path string) ui.TextureID {
	id, err := ctx.Textures.Load(path, avatarSize, avatarSize)
	if err != nil {
		return 0
	}
	return id
}

func unload(ctx *app.Context, ids ...ui.TextureID) {
	for _, id := range ids {
		ctx.Textures.Unload(id)
	}
}

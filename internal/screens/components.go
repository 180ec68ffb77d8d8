package screens

import (
	"screenapp/internal/app"
	"screenapp/internal/arena"
	"screenapp/internal/ui"
)

const profileTitle = "Screen Manager Demo"

// Sidebar lays out the shared screen frame: an outer container holding a
// vertically scrolling sidebar. children fill the sidebar.
func Sidebar(ctx *app.Context, children func()) {
	ctx.UI.Element(ui.Decl{
		ID:    "OuterContainer",
		Class: "outer",
		Layout: ui.Layout{
			Width:  ui.Fit(),
			Height: ui.Grow(),
		},
	}, func() {
		ctx.UI.Element(ui.Decl{
			ID:    "SideBar",
			Class: "sidebar",
			Layout: ui.Layout{
				Direction: ui.TopToBottom,
				Width:     ui.Grow(300),
				Height:    ui.Grow(),
			},
			Scroll: true,
		}, children)
	})
}

// Profile draws the profile card with pics[0] as the picture. Releasing the
// pointer over the picture swaps the two pictures; with no second picture the
// click does nothing.
func Profile(ctx *app.Context, pics *[2]ui.TextureID) {
	ctx.UI.Element(ui.Decl{
		Class: "profile",
		Layout: ui.Layout{
			Width:  ui.Grow(),
			AlignY: ui.AlignCenter,
		},
	}, func() {
		ctx.UI.Open(ui.Decl{
			ID:     "ProfilePicture",
			Layout: ui.Layout{Width: ui.Fixed(avatarSize), Height: ui.Fixed(avatarSize)},
			Image:  pics[0],
		})
		ctx.UI.OnHover(func(ev ui.PointerEvent) {
			if ev.State == ui.PointerReleasedThisFrame && pics[1] != 0 {
				pics[0], pics[1] = pics[1], pics[0]
			}
		})
		ctx.UI.Close()
		ctx.UI.Text(profileTitle, ui.TextStyle{Class: "profile-title"})
	})
}

// SidebarItem draws a clickable item. onClick runs when the pointer is released
// over it. A size of 0 uses the theme's font size.
func SidebarItem(ctx *app.Context, label string, size float32, onClick func()) {
	sidebarItem(ctx, label, size, func(ev ui.PointerEvent) {
		if ev.State == ui.PointerReleasedThisFrame && onClick != nil {
			onClick()
		}
	})
}

// SidebarItemWithData is SidebarItem with a one byte payload stored in a. The
// payload lives until a is reset. It reports false when a is full; the item is
// still drawn but does not react to clicks.
func SidebarItemWithData(ctx *app.Context, label string, a *arena.Arena, payload byte, onClick func(data []byte)) bool {
	blk, ok := a.Alloc(1)
	if !ok {
		ctx.Log.Debug("sidebar item payload dropped", "label", label, "arena_used", a.Used())
		sidebarItem(ctx, label, 0, nil)
		return false
	}
	if buf, err := a.Bytes(blk); err == nil {
		buf[0] = payload
	}
	sidebarItem(ctx, label, 0, func(ev ui.PointerEvent) {
		if ev.State != ui.PointerReleasedThisFrame || onClick == nil {
			return
		}
		data, err := a.Bytes(blk)
		if err != nil {
			ctx.Log.Warn("sidebar item payload unavailable", "label", label, "err", err)
			return
		}
		onClick(data)
	})
	return true
}

func sidebarItem(ctx *app.Context, label string, size float32, hover func(ui.PointerEvent)) {
	ctx.UI.Open(ui.Decl{
		ID:    "item/" + label,
		Class: "sidebar-item",
		Layout: ui.Layout{
			Width:  ui.Grow(),
			Height: ui.Fit(50),
			AlignX: ui.AlignCenter,
			AlignY: ui.AlignCenter,
		},
	})
	hovered := ctx.UI.Hovered()
	if hover != nil {
		ctx.UI.OnHover(hover)
	}
	text := ui.ColorWhiteNice
	if hovered {
		text = ui.ColorLight
	}
	ctx.UI.Text(label, ui.TextStyle{Class: "sidebar-item-text", Size: size, Color: text})
	ctx.UI.Close()
}

// Title draws a heading line.
func Title(ctx *app.Context, text string) {
	ctx.UI.Text(text, ui.TextStyle{Class: "title"})
}

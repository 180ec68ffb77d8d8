package ui

import "image/color"

// CommandKind identifies a draw command.
type CommandKind uint8

const (
	CmdRectangle CommandKind = iota
	CmdBorder
	CmdText
	CmdImage
	CmdScissorStart
	CmdScissorEnd
)

func (k CommandKind) String() string {
	switch k {
	case CmdRectangle:
		return "rectangle"
	case CmdBorder:
		return "border"
	case CmdText:
		return "text"
	case CmdImage:
		return "image"
	case CmdScissorStart:
		return "scissor-start"
	case CmdScissorEnd:
		return "scissor-end"
	}
	return "unknown"
}

// Command is one draw instruction. Which fields are meaningful depends on Kind.
// Text may alias arena memory and is only valid until the producing frame's
// arenas are reset.
type Command struct {
	Kind   CommandKind
	ID     string
	Bounds Rect
	Color  color.RGBA
	Radius float32
	// Width is the border width for CmdBorder.
	Width    float32
	Text     string
	FontSize float32
	Texture  TextureID
}

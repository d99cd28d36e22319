// Package ui draws the game through Dear ImGui: the scene as a full-window
// texture with the score and title panels on top.
package ui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/rockblast/internal/game/arena"
)

const panelFlags = imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoResize |
	imgui.WindowFlagsNoMove | imgui.WindowFlagsNoInputs |
	imgui.WindowFlagsAlwaysAutoResize | imgui.WindowFlagsNoFocusOnAppearing

// DrawScene draws the offscreen scene texture across the given area. GL
// textures are bottom-up, so the V coordinates are flipped.
func DrawScene(textureID uint32, x, y, w, h float32) {
	if textureID == 0 {
		return
	}

	imgui.SetNextWindowPos(imgui.NewVec2(x, y))
	imgui.SetNextWindowSize(imgui.NewVec2(w, h))

	flags := imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoResize |
		imgui.WindowFlagsNoMove | imgui.WindowFlagsNoScrollbar |
		imgui.WindowFlagsNoScrollWithMouse | imgui.WindowFlagsNoBringToFrontOnFocus |
		imgui.WindowFlagsNoInputs

	imgui.PushStyleVarVec2(imgui.StyleVarWindowPadding, imgui.NewVec2(0, 0))
	if imgui.BeginV("##Scene", nil, flags) {
		texRef := imgui.NewTextureRefTextureID(imgui.TextureID(textureID))
		imgui.ImageV(*texRef,
			imgui.NewVec2(w, h),
			imgui.NewVec2(0, 1),
			imgui.NewVec2(1, 0))
	}
	imgui.End()
	imgui.PopStyleVar()
}

// RenderOverlay draws the score panel in the top-left corner and, while a
// round is not running, the title banner in the middle of the screen.
func RenderOverlay(o arena.Overlay, x, y, width, height float32) {
	imgui.SetNextWindowPos(imgui.NewVec2(x+10, y+10))
	imgui.SetNextWindowBgAlpha(0.4)
	if imgui.BeginV("##Score", nil, panelFlags) {
		for _, line := range o.Score {
			text(line, false)
		}
	}
	imgui.End()

	if len(o.Banner) == 0 {
		return
	}

	bannerWidth := min(float32(420), width-20)
	imgui.SetNextWindowPosV(imgui.NewVec2(x+width/2, y+height/3), imgui.CondAlways, imgui.NewVec2(0.5, 0.5))
	imgui.SetNextWindowSize(imgui.NewVec2(bannerWidth, 0))
	imgui.SetNextWindowBgAlpha(0.6)
	if imgui.BeginV("##Banner", nil, panelFlags&^imgui.WindowFlagsAlwaysAutoResize) {
		for i, line := range o.Banner {
			if i > 0 && line.Tone != arena.ToneNormal {
				imgui.Spacing()
			}
			text(line, true)
		}
	}
	imgui.End()
}

func text(line arena.OverlayLine, centered bool) {
	if centered {
		centerCursor(line.Text)
	}
	switch line.Tone {
	case arena.ToneTitle:
		imgui.TextColored(imgui.NewVec4(1, 0.85, 0.2, 1), line.Text)
	case arena.ToneHint:
		imgui.TextColored(imgui.NewVec4(0.6, 1, 0.6, 1), line.Text)
	default:
		imgui.Text(line.Text)
	}
}

// centerCursor moves the cursor so text of this width sits in the middle
// of the window.
func centerCursor(s string) {
	textSize := imgui.CalcTextSize(s)
	windowWidth := imgui.ContentRegionAvail().X
	if cursorX := (windowWidth - textSize.X) / 2; cursorX > 0 {
		imgui.SetCursorPosX(imgui.CursorPosX() + cursorX)
	}
}

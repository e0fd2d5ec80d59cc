package scenes

import (
	"github.com/decker502/waterfx/pkg/game"
	"github.com/decker502/waterfx/pkg/render"
)

// Scene is a type alias for game.Scene.
// All scene implementations should implement the game.Scene interface.
type Scene = game.Scene

var (
	_ Scene          = (*WaterScene)(nil)
	_ game.Resizable = (*WaterScene)(nil)
	_ game.Stoppable = (*WaterScene)(nil)
	_ Renderer       = (*render.Renderer)(nil)
)

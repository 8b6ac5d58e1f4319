//go:build sdl

package main

import (
	"runtime"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/chzchzchz/iqfall/display"
)

func init() {
	// SDL wants the thread that initialized it.
	runtime.LockOSThread()
	displays["sdl"] = func(w, h int, title string) (display.Display, func(), error) {
		if err := sdl.Init(sdl.INIT_TIMER | sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
			return nil, nil, err
		}
		return display.NewSDL(title, w, h, scale), sdl.Quit, nil
	}
}

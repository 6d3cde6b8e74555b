//go:build windows

package hostloop

import (
	"context"
	"runtime"

	"github.com/danmuck/ddeurl/internal/protocol/dde/win32"
)

// Run creates the server window and pumps its thread's queue until ctx is
// done. ready, when non-nil, is called on the pump thread once the window
// exists.
func (l *Loop) Run(ctx context.Context, cfg PumpConfig, ready func()) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	cfg = cfg.withDefaults()
	w, err := win32.NewWindow(cfg.ClassName, cfg.Title, l.WindowProc)
	if err != nil {
		return err
	}
	defer w.Close()

	thread := win32.CurrentThreadID()
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			if err := win32.PostQuit(thread); err != nil {
				l.logger.Error().Err(err).Msg("stop message pump")
			}
		case <-stop:
		}
	}()

	l.logger.Info().Uint64("hwnd", uint64(w.HWND())).Str("class", cfg.ClassName).Msg("message pump running")
	if ready != nil {
		ready()
	}

	var msg win32.MSG
	for {
		ok, err := win32.GetMessage(&msg)
		if err != nil {
			return err
		}
		if !ok {
			return ctx.Err()
		}
		// posted executes and terminates reach WindowProc from here
		win32.TranslateDispatch(&msg)
	}
}

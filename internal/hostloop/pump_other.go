//go:build !windows

package hostloop

import "context"

// Run is only available on Windows.
func (l *Loop) Run(ctx context.Context, cfg PumpConfig, ready func()) error {
	return ErrUnsupported
}

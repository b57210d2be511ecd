package synclock

import "go.uber.org/fx"

var Module = fx.Module("sync.lock",
	fx.Provide(NewClient),
	fx.Provide(NewLocker),
)

package demand

import "go.uber.org/fx"

// Module exposes the demand service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)

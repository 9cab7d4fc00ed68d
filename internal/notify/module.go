package notify

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/kamaubrian/dukapay/internal/config"
)

// Module selects the sink implementation based on configuration.
var Module = fx.Provide(newSink)

type sinkParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newSink(p sinkParams) Sink {
	if len(p.Config.KafkaBrokers) == 0 {
		return NewLogSink(p.Logger)
	}
	sink := NewKafkaSink(p.Config.KafkaBrokers, p.Config.NotifyTopic, p.Logger)
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return sink.Close()
		},
	})
	return sink
}

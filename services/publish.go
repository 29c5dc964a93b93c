package services

import (
	"context"

	"frontdesk/events"

	"github.com/rs/zerolog/log"
)

// publish runs after commit. A failed notification never undoes the write.
func publish(ctx context.Context, p events.Publisher, typ, entity, id string, data any) {
	if p == nil {
		return
	}
	if err := p.Publish(context.WithoutCancel(ctx), events.New(typ, entity, id, data)); err != nil {
		log.Warn().Err(err).Str("event", typ).Str("id", id).Msg("publish event failed")
	}
}

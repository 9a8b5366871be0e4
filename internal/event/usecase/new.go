package usecase

import (
	"time"

	"smart-calendar/internal/emitter"
	"smart-calendar/internal/event"
	"smart-calendar/internal/gateway"
	"smart-calendar/pkg/datemath"
	"smart-calendar/pkg/locale"
	pkgLog "smart-calendar/pkg/log"
	"smart-calendar/pkg/zoom"
)

type implUseCase struct {
	l          pkgLog.Logger
	gateway    gateway.Gateway
	normalizer Normalizer
	selector   Selector
	meetings   zoom.IZoom
	emitter    emitter.Emitter
	locale     *locale.Locale
	dateMath   *datemath.Parser
	opts       Options
}

// New creates the event UseCase. meetings may be nil when no meeting
// credentials are configured.
func New(
	l pkgLog.Logger,
	gw gateway.Gateway,
	normalizer Normalizer,
	selector Selector,
	meetings zoom.IZoom,
	emit emitter.Emitter,
	loc *locale.Locale,
	dateMath *datemath.Parser,
	opts Options,
) event.UseCase {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Lang == "" {
		opts.Lang = "en"
	}
	if loc == nil {
		loc = locale.New()
	}
	return &implUseCase{
		l:          l,
		gateway:    gw,
		normalizer: normalizer,
		selector:   selector,
		meetings:   meetings,
		emitter:    emit,
		locale:     loc,
		dateMath:   dateMath,
		opts:       opts,
	}
}

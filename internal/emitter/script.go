package emitter

import (
	"context"

	"smart-calendar/internal/model"
	pkgLog "smart-calendar/pkg/log"
)

// scriptEmitter drives Calendar.app through AppleScript.
type scriptEmitter struct {
	builder  *ScriptBuilder
	runner   Runner
	fallback string
	l        pkgLog.Logger
}

func (e *scriptEmitter) render(ctx context.Context, ev model.NormalizedEvent) (string, Receipt, error) {
	if err := validateEvent(ev); err != nil {
		return "", Receipt{}, err
	}
	warnUnknownRecurrence(ctx, e.l, ev)
	script := e.builder.Build(ev)
	return script, Receipt{Backend: BackendAppleScript, Calendar: ev.CalendarName(e.fallback)}, nil
}

func (e *scriptEmitter) Preview(ctx context.Context, ev model.NormalizedEvent) (Receipt, error) {
	script, r, err := e.render(ctx, ev)
	if err != nil {
		return Receipt{}, err
	}
	r.Command, r.DryRun = script, true
	return r, nil
}

func (e *scriptEmitter) Emit(ctx context.Context, ev model.NormalizedEvent) (Receipt, error) {
	script, r, err := e.render(ctx, ev)
	if err != nil {
		return Receipt{}, err
	}

	e.l.Debugf(ctx, "emitter.applescript: running script calendar=%q bytes=%d", r.Calendar, len(script))
	uid, err := e.runner.Run(ctx, script)
	if err != nil {
		e.l.Errorf(ctx, "emitter.applescript: script failed: %v", err)
		return Receipt{}, err
	}
	r.Reference = uid
	e.l.Infof(ctx, "emitter.applescript: created event uid=%s calendar=%q", uid, r.Calendar)
	return r, nil
}

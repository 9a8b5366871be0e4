package main

import (
	"context"
	"fmt"

	"smart-calendar/config"
	"smart-calendar/internal/emitter"
	"smart-calendar/internal/event"
	"smart-calendar/internal/event/usecase"
	"smart-calendar/internal/gateway"
	"smart-calendar/internal/model"
	"smart-calendar/internal/normalizer"
	"smart-calendar/internal/selector"
	"smart-calendar/pkg/datemath"
	"smart-calendar/pkg/gcalendar"
	"smart-calendar/pkg/llmprovider"
	"smart-calendar/pkg/locale"
	"smart-calendar/pkg/log"
	"smart-calendar/pkg/respcache"
	"smart-calendar/pkg/zoom"
)

// newCache opens the response cache described by cfg.
func newCache(cfg *config.Config) *respcache.Cache {
	return respcache.New(respcache.Config{
		Dir:        cfg.Cache.Dir,
		TTL:        cfg.Cache.TTL,
		MemorySize: cfg.Cache.MemorySize,
	})
}

// newPipeline wires every stage of the event pipeline. backend overrides
// the configured calendar backend when non-empty.
func newPipeline(ctx context.Context, cfg *config.Config, l log.Logger, loc *locale.Locale, backend string) (event.UseCase, error) {
	// 1. Timezone
	tz, source := datemath.NewResolver(cfg.Timezone.Name).Resolve()
	l.Debugf(ctx, "timezone %s resolved from %s", tz, source)
	parser := datemath.NewParserInLocation(tz)

	// 2. AI gateway with response cache
	manager, err := llmprovider.NewManagerFromConfig(&cfg.AI, newCache(cfg), l)
	if err != nil {
		return nil, fmt.Errorf("ai gateway: %w", err)
	}
	gw := gateway.New(manager, l)

	// 3. Normalizer and selector
	norm := normalizer.New(tz, l)
	def, ok := model.CalendarTypeByName(cfg.Calendar.Default)
	if !ok {
		def, ok = model.ParseCalendarType(cfg.Calendar.Default)
	}
	if !ok || def == "" {
		l.Warnf(ctx, "calendar.default %q is not a known calendar, using Personal", cfg.Calendar.Default)
		def = model.CalendarPersonal
	}
	sel := selector.New(def)

	// 4. Meeting provisioner (optional)
	var meetings zoom.IZoom
	if cfg.Meeting.Enabled() {
		meetings = zoom.New(zoom.Config{
			Credentials: zoom.Credentials{
				AccountID:    cfg.Meeting.AccountID,
				ClientID:     cfg.Meeting.ClientID,
				ClientSecret: cfg.Meeting.ClientSecret,
			},
			TokenURL:    cfg.Meeting.TokenURL,
			APIURL:      cfg.Meeting.APIURL,
			TokenFile:   cfg.Meeting.TokenFile,
			TokenMargin: cfg.Meeting.TokenMargin,
			Timeout:     cfg.Meeting.Timeout,
			Logger:      l,
		})
	} else {
		l.Debug(ctx, "meeting credentials not configured, online meetings disabled")
	}

	// 5. Emitter
	if backend == "" {
		backend = cfg.Calendar.Backend
	}
	emitCfg := emitter.Config{
		Backend:         backend,
		App:             cfg.Calendar.App,
		DefaultCalendar: def.DisplayName(),
		ScriptTimeout:   cfg.Calendar.ScriptTimeout,
		TempDir:         cfg.Temp.Dir,
		TempPrefix:      cfg.Temp.Prefix,
		ICSDir:          cfg.Calendar.ICSDir,
		Timezone:        tz.String(),
		GoogleIDs:       cfg.Calendar.GoogleIDs,
	}
	if backend == emitter.BackendGoogle {
		if cfg.Calendar.GoogleCredentialsPath == "" {
			return nil, fmt.Errorf("calendar.google_credentials_path is required for the google backend")
		}
		client, err := gcalendar.NewClientFromCredentialsFile(ctx, cfg.Calendar.GoogleCredentialsPath)
		if err != nil {
			return nil, fmt.Errorf("google calendar: %w", err)
		}
		emitCfg.GoogleClient = client
	}
	emit, err := emitter.New(emitCfg, l)
	if err != nil {
		return nil, err
	}

	prefs, err := cfg.PreferenceText()
	if err != nil {
		l.Warnf(ctx, "preferences ignored: %v", err)
	}

	return usecase.New(l, gw, norm, sel, meetings, emit, loc, parser, usecase.Options{
		Preferences: prefs,
		Lang:        cfg.Locale.Lang,
		Timezone:    tz.String(),
		TempDir:     cfg.Temp.Dir,
		TempPrefix:  cfg.Temp.Prefix,
		TempMaxAge:  cfg.Temp.MaxAge,
	}), nil
}

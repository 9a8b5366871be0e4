package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"smart-calendar/internal/event"
	"smart-calendar/pkg/locale"
)

type createOpts struct {
	prefs   string
	lang    string
	dryRun  bool
	backend string
}

func newCreateCmd(c *cli) *cobra.Command {
	var o createOpts
	cmd := &cobra.Command{
		Use:   "create [text...]",
		Short: "Create a calendar event from text",
		Long: `Create a calendar event from natural-language text. The text is taken from
the arguments, or read from stdin when no arguments are given.`,
		Example: `  smartcal create "Team sync tomorrow 2pm on Zoom"
  echo "Dentist next Friday 9:30" | smartcal create --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCreate(cmd, args, o)
		},
	}
	cmd.Flags().StringVar(&o.prefs, "prefs", "", "free-form calendar preferences for the model")
	cmd.Flags().StringVar(&o.lang, "lang", "", "language for status messages (en, zh-Hans)")
	cmd.Flags().BoolVar(&o.dryRun, "dry-run", false, "print the rendered calendar command instead of running it")
	cmd.Flags().StringVar(&o.backend, "backend", "", "calendar backend override (applescript, ics, google)")
	return cmd
}

func (c *cli) runCreate(cmd *cobra.Command, args []string, o createOpts) error {
	ctx := cmd.Context()

	text := strings.Join(args, " ")
	if len(args) == 0 {
		b, err := io.ReadAll(c.stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = string(b)
	}
	lang := o.lang
	if lang == "" {
		lang = c.cfg.Locale.Lang
	}

	loc := locale.New()
	uc, err := newPipeline(ctx, c.cfg, c.logger, loc, strings.ToLower(o.backend))
	if err != nil {
		return err
	}

	out, err := uc.Create(ctx, event.CreateInput{
		Text:        text,
		Preferences: o.prefs,
		Lang:        lang,
		DryRun:      o.dryRun,
	})
	line, detail := event.StatusLines(loc, lang, out, err)
	fmt.Fprintln(c.stdout, line)
	if detail != "" {
		fmt.Fprintln(c.stdout, detail)
	}
	if err != nil {
		return errReported
	}
	if out.Receipt.DryRun {
		fmt.Fprintln(c.stdout)
		fmt.Fprintln(c.stdout, out.Receipt.Command)
	}
	return nil
}

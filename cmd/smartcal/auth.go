package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"smart-calendar/pkg/gcalendar"
)

func newAuthCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize calendar backends",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "google [credentials.json]",
		Short: "Authorize Google Calendar with OAuth desktop credentials",
		Long: `Run once to authorize Google Calendar access for OAuth Desktop App
credentials. The saved token is picked up by the google backend.
Service account credentials need no authorization.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.cfg.Calendar.GoogleCredentialsPath
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return fmt.Errorf("no credentials file: pass one or set calendar.google_credentials_path")
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read credentials: %w", err)
			}
			oauthCfg, err := gcalendar.InstalledAppConfig(data)
			if err != nil {
				return err
			}

			fmt.Fprintln(c.stdout, "Open this URL in a browser and sign in:")
			fmt.Fprintln(c.stdout)
			fmt.Fprintln(c.stdout, oauthCfg.AuthCodeURL("smartcal", oauth2.AccessTypeOffline))
			fmt.Fprintln(c.stdout)
			fmt.Fprint(c.stdout, "Paste the authorization code: ")

			code, err := bufio.NewReader(c.stdin).ReadString('\n')
			code = strings.TrimSpace(code)
			if code == "" {
				return fmt.Errorf("no authorization code: %w", err)
			}

			tok, err := oauthCfg.Exchange(cmd.Context(), code)
			if err != nil {
				return fmt.Errorf("exchange authorization code: %w", err)
			}
			if err := gcalendar.SaveToken(gcalendar.DefaultTokenFile, tok); err != nil {
				return fmt.Errorf("save token: %w", err)
			}
			fmt.Fprintf(c.stdout, "\nSaved %s\n", gcalendar.DefaultTokenFile)
			return nil
		},
	})
	return cmd
}

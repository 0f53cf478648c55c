package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/solargrid/solargrid-web/internal/apiclient"
	"github.com/solargrid/solargrid-web/internal/auth"
	"github.com/solargrid/solargrid-web/internal/models"
	"github.com/solargrid/solargrid-web/internal/session"
)

func newLoginCmd(o *options) *cobra.Command {
	var username, password string
	c := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session locally",
		Long: `Posts the credentials to the backend and stores the returned session in the
session file. The password may also come from SOLARGRID_PASSWORD or stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("SOLARGRID_PASSWORD")
			}
			if password == "" {
				line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				password = strings.TrimRight(line, "\r\n")
			}
			store, err := o.store()
			if err != nil {
				return err
			}
			svc := auth.NewService(apiclient.New(o.serverURL, apiclient.WithTimeout(o.timeout)))
			sess, err := svc.Login(cmd.Context(), store, models.LoginRequest{Username: username, Password: password})
			if err != nil {
				return fmt.Errorf("login failed: %s", strings.Join(apiclient.Notices(err), "; "))
			}
			pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("Logged in as %s (%s)", sess.Profile.DisplayName(), strings.Join(sess.Roles, ", "))
			return nil
		},
	}
	c.Flags().StringVarP(&username, "username", "u", "", "Username")
	c.Flags().StringVarP(&password, "password", "p", "", "Password")
	_ = c.MarkFlagRequired("username")
	return c
}

func newLogoutCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the local session",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := o.store()
			if err != nil {
				return err
			}
			if err := auth.NewService(nil).Logout(cmd.Context(), store); err != nil {
				return err
			}
			pterm.Success.WithWriter(cmd.OutOrStdout()).Println("Logged out")
			return nil
		},
	}
}

func newStatusCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Display authentication status",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := o.store()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			s, ok := store.Current(cmd.Context())
			if !ok {
				pterm.Info.WithWriter(out).Println("Not logged in")
				return nil
			}
			pterm.DefaultSection.WithWriter(out).Println("Authentication Status")
			pterm.Info.WithWriter(out).Printfln("User: %s (id %d)", s.Profile.DisplayName(), s.UserID)
			pterm.Info.WithWriter(out).Printfln("Roles: %s", strings.Join(s.Roles, ", "))
			pterm.Info.WithWriter(out).Printfln("Session file: %s", store.Path())
			printExpiry(out, s)
			return nil
		},
	}
}

func printExpiry(out io.Writer, s *session.Session) {
	info, err := session.InspectToken(s.Token)
	if err != nil || info.ExpiresAt.IsZero() {
		return
	}
	if time.Now().After(info.ExpiresAt) {
		pterm.Warning.WithWriter(out).Printfln("Token expired at %s, run login again", info.ExpiresAt.Format(time.RFC1123))
		return
	}
	pterm.Info.WithWriter(out).Printfln("Token expires at %s", info.ExpiresAt.Format(time.RFC1123))
}

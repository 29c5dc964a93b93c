package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"frontdesk/client"
	"frontdesk/entity"
	"frontdesk/services"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newRemote logs in when no token was given.
func newRemote(ctx context.Context) (*client.Client, error) {
	c := client.New(viper.GetString("API_URL"), viper.GetString("API_TOKEN"))
	if c.Token != "" {
		return c, nil
	}
	email, password := viper.GetString("API_EMAIL"), viper.GetString("API_PASSWORD")
	if email == "" || password == "" {
		return nil, errors.New("set --token or --email and --password")
	}
	if err := c.Login(ctx, email, password); err != nil {
		return nil, err
	}
	return c, nil
}

func remoteState(ctx context.Context) (*client.State, error) {
	c, err := newRemote(ctx)
	if err != nil {
		return nil, err
	}
	s := client.NewState(c)
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// settle waits for a pending write and prints what the server said.
func settle(cmd *cobra.Command, p *client.Pending) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 20*time.Second)
	defer cancel()
	if err := p.Wait(ctx); err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), p.Value())
}

var tablesCmd = &cobra.Command{Use: "tables", Short: "Floor plan operations against a running server"}

var tablesListCmd = &cobra.Command{
	Use: "list",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := remoteState(cmd.Context())
		if err != nil {
			return err
		}
		for _, t := range s.Tables() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-36s  %-12s  %2d  %s\n", t.ID, t.Name, t.Capacity, t.Status)
		}
		return nil
	},
}

var tablesClickCmd = &cobra.Command{
	Use:   "click <id>",
	Short: "Seat an available table, or report that it needs clearing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := remoteState(cmd.Context())
		if err != nil {
			return err
		}
		return settle(cmd, s.ClickTable(args[0]))
	},
}

var tablesClearCmd = &cobra.Command{
	Use:   "clear <id>",
	Short: "Mark an occupied or reserved table available",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := remoteState(cmd.Context())
		if err != nil {
			return err
		}
		return settle(cmd, s.ClearTable(args[0]))
	},
}

var waitlistCmd = &cobra.Command{Use: "waitlist", Short: "Waitlist operations against a running server"}

var waitlistAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a party and print its token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		party, _ := cmd.Flags().GetInt("guests")
		phone, _ := cmd.Flags().GetString("phone")
		c, err := newRemote(cmd.Context())
		if err != nil {
			return err
		}
		w, err := c.AddWaiting(cmd.Context(), services.WaitingGuestIn{Name: args[0], Phone: phone, NumberOfGuests: party})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "token #%d for %s (%d)\n", w.TokenNumber, w.Name, w.NumberOfGuests)
		return nil
	},
}

var waitlistListCmd = &cobra.Command{
	Use: "list",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := remoteState(cmd.Context())
		if err != nil {
			return err
		}
		for _, w := range s.Waitlist() {
			if w.Status == entity.WaitSeated {
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "#%-4d %-20s %2d  %s\n", w.TokenNumber, w.Name, w.NumberOfGuests, w.Status)
		}
		return nil
	},
}

var snapshotCmd = &cobra.Command{Use: "snapshot", Short: "Local copies of the server state"}

var snapshotPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Download the current state into a snapshot file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		out, _ := cmd.Flags().GetString("out")
		s, err := remoteState(cmd.Context())
		if err != nil {
			return err
		}
		if err := client.SaveSnapshot(out, s.Snapshot()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", out)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{tablesCmd, waitlistCmd, snapshotCmd} {
		pf := c.PersistentFlags()
		pf.String("api", "http://localhost:8000", "server base URL")
		pf.String("token", "", "bearer token")
		pf.String("email", "", "login email when no token is given")
		pf.String("password", "", "login password")
	}
	// flags are bound when the command runs; the three groups share keys
	bindRemote := func(cmd *cobra.Command, _ []string) {
		pf := cmd.Flags()
		cobra.CheckErr(viper.BindPFlag("API_URL", pf.Lookup("api")))
		cobra.CheckErr(viper.BindPFlag("API_TOKEN", pf.Lookup("token")))
		cobra.CheckErr(viper.BindPFlag("API_EMAIL", pf.Lookup("email")))
		cobra.CheckErr(viper.BindPFlag("API_PASSWORD", pf.Lookup("password")))
	}

	tablesCmd.AddCommand(tablesListCmd, tablesClickCmd, tablesClearCmd)
	waitlistAddCmd.Flags().Int("guests", 2, "party size")
	waitlistAddCmd.Flags().String("phone", "", "contact number")
	waitlistCmd.AddCommand(waitlistAddCmd, waitlistListCmd)
	snapshotPullCmd.Flags().String("out", "frontdesk-snapshot.json", "output file")
	snapshotCmd.AddCommand(snapshotPullCmd)

	for _, c := range []*cobra.Command{tablesListCmd, tablesClickCmd, tablesClearCmd, waitlistAddCmd, waitlistListCmd, snapshotPullCmd} {
		c.PreRun = bindRemote
	}
	rootCmd.AddCommand(tablesCmd, waitlistCmd, snapshotCmd)
}

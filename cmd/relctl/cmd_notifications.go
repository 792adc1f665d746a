package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newNotificationsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"inbox"},
		Short:   "List and answer pending requests",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			notes, err := a.gw.Notifications(cmd.Context())
			if err != nil {
				return fmt.Errorf("loading notifications: %w", err)
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tTYPE\tFROM\tGROUP\tSTATUS")
			for _, n := range notes {
				group := "-"
				if n.GroupName != nil {
					group = *n.GroupName
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", n.ID, n.Type, n.SenderUsername, group, n.Status)
			}
			return tw.Flush()
		},
	}
	cmd.AddCommand(newRespondCmd(a))
	return cmd
}

func newRespondCmd(a *app) *cobra.Command {
	var accept, reject bool
	cmd := &cobra.Command{
		Use:   "respond <notification-id>",
		Short: "Accept or decline the request behind a notification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if accept == reject {
				return errors.New("pass exactly one of --accept or --reject")
			}
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid notification id %q", args[0])
			}
			status, err := a.gw.RespondToRequest(cmd.Context(), id, accept)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "now %s\n", status)
			return nil
		},
	}
	cmd.Flags().BoolVar(&accept, "accept", false, "accept the request")
	cmd.Flags().BoolVar(&reject, "reject", false, "decline the request")
	return cmd
}

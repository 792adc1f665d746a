package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/HammerMeetNail/paddock/internal/models"
	"github.com/HammerMeetNail/paddock/internal/panel"
	"github.com/HammerMeetNail/paddock/internal/relation"
)

func newGroupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Join groups and manage the ones you own",
	}
	cmd.AddCommand(
		newGroupJoinCmd(a),
		newGroupStatusCmd(a),
		newGroupMembersCmd(a),
		newGroupMemberStatusCmd(a),
		newGroupInvitesCmd(a),
		newGroupInviteCmd(a),
		newGroupAnswerCmd(a, "confirm", "Accept a join request", a.gw.ConfirmJoinRequest),
		newGroupAnswerCmd(a, "reject", "Decline a join request", a.gw.RejectJoinRequest),
		newGroupBanCmd(a, "ban", "Ban a user from a group you own", a.gw.BanUserFromGroup),
		newGroupBanCmd(a, "unban", "Lift a group ban", a.gw.UnbanUserFromGroup),
		newGroupBlockCmd(a, "block", "Stop a group from inviting you", a.gw.BlockGroup),
		newGroupBlockCmd(a, "unblock", "Lift your block on a group", a.gw.UnblockGroup),
	)
	return cmd
}

func newGroupJoinCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "join <group>",
		Short: "Ask to join a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := panel.NewJoinGroup(a.gw, a.guard).Submit(cmd.Context(), args[0])
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return err
		},
	}
}

func newGroupStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <group>",
		Short: "Show your relation to a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.gw.InvalidateGroup(args[0])
			status, err := a.gw.GroupRelation(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("checking %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], status)
			return nil
		},
	}
}

func newGroupMembersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "members <group>",
		Short: "List the members of a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			group, err := a.gw.Group(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("finding %s: %w", args[0], err)
			}
			members, err := a.gw.GroupMembers(cmd.Context(), group.ID)
			if err != nil {
				return fmt.Errorf("listing members of %s: %w", group.Name, err)
			}
			out := cmd.OutOrStdout()
			for _, m := range members {
				marker := ""
				if m.UserID == group.OwnerID {
					marker = " (owner)"
				}
				fmt.Fprintf(out, "%s%s\n", m.Username, marker)
			}
			return nil
		},
	}
}

func newGroupMemberStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "member-status <group> <username>",
		Short: "Show a user's relation to a group you own",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			group, err := a.gw.Group(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("finding %s: %w", args[0], err)
			}
			status, err := a.gw.GroupRelationOfUser(cmd.Context(), args[1], group.ID)
			if err != nil {
				return err
			}
			row := relation.EvaluateInviteRow(status, status == relation.GroupAccepted)
			fmt.Fprintf(cmd.OutOrStdout(), "%s in %s: %s (%s)\n", args[1], group.Name, status, row.ButtonText)
			return nil
		},
	}
}

func newGroupInvitesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "invites <group>",
		Short: "Show your friends and whether each can be invited",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roster, group, err := loadRoster(cmd.Context(), a, args[0])
			if roster == nil {
				return err
			}
			defer roster.Close()
			printRoster(cmd, group, roster.Rows())
			return err
		},
	}
}

func newGroupInviteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "invite <group> <friend>",
		Short: "Invite a friend, or cancel their pending invite",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			roster, group, err := loadRoster(cmd.Context(), a, args[0])
			if roster == nil {
				return err
			}
			defer roster.Close()
			row, err := roster.Toggle(cmd.Context(), args[1])
			printRoster(cmd, group, []panel.RosterRow{row})
			return err
		},
	}
}

func loadRoster(ctx context.Context, a *app, ref string) (*panel.InviteRoster, models.Group, error) {
	group, err := a.gw.Group(ctx, ref)
	if err != nil {
		return nil, group, fmt.Errorf("finding %s: %w", ref, err)
	}
	roster := panel.NewInviteRoster(a.gw, a.guard)
	if _, err := roster.Load(ctx, group); err != nil {
		return roster, group, fmt.Errorf("loading friends for %s: %w", group.Name, err)
	}
	return roster, group, nil
}

func printRoster(cmd *cobra.Command, group models.Group, rows []panel.RosterRow) {
	tw := newTable(cmd.OutOrStdout())
	fmt.Fprintf(tw, "FRIEND\t%s\tBUTTON\n", group.Name)
	for _, r := range rows {
		button := r.ButtonText
		if r.Disabled {
			button = "[" + button + "]"
		}
		if r.Error != "" {
			button += "  error: " + r.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Username, r.Status, button)
	}
	_ = tw.Flush()
}

type joinAnswer func(ctx context.Context, requestID uuid.UUID) (relation.GroupRelationStatus, error)

func newGroupAnswerCmd(a *app, use, short string, answer joinAnswer) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <request-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid request id %q", args[0])
			}
			status, err := answer(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "request %s: %s\n", id, status)
			return nil
		},
	}
}

type groupBan func(ctx context.Context, groupID uuid.UUID, username string) (relation.GroupRelationStatus, error)

func newGroupBanCmd(a *app, use, short string, op groupBan) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <group> <username>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			group, err := a.gw.Group(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("finding %s: %w", args[0], err)
			}
			status, err := op(cmd.Context(), group.ID, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s in %s: %s\n", args[1], group.Name, status)
			return nil
		},
	}
}

func newGroupBlockCmd(a *app, use, short string, op func(context.Context, string) (relation.GroupRelationStatus, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <group>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := op(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("%s %s: %w", use, args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], status)
			return nil
		},
	}
}

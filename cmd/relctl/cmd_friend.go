package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HammerMeetNail/paddock/internal/panel"
	"github.com/HammerMeetNail/paddock/internal/relation"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <username>",
		Short: "Show your relation to a user and what you can do about it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := panel.NewFriendPanel(a.gw, a.guard, args[0])
			defer p.Close()
			err := p.Open(cmd.Context())
			printFriendView(cmd.OutOrStdout(), p.View())
			return err
		},
	}
}

func newSearchCmd(a *app) *cobra.Command {
	var add bool
	cmd := &cobra.Command{
		Use:   "search <username>",
		Short: "Look a user up, optionally sending a friend request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := panel.NewFriendSearch(a.gw, a.guard)
			defer s.Close()

			view, err := s.Lookup(cmd.Context(), args[0])
			if err != nil || !add {
				printFriendView(cmd.OutOrStdout(), view)
				return err
			}
			view, err = s.Add(cmd.Context())
			printFriendView(cmd.OutOrStdout(), view)
			return err
		},
	}
	cmd.Flags().BoolVar(&add, "add", false, "send a friend request when the status allows it")
	return cmd
}

func newProfileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profile <username>",
		Short: "Show a user's profile: relation and public groups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := panel.NewProfile(a.gw, a.guard, args[0])
			defer p.Close()
			err := p.Open(cmd.Context())

			v := p.View()
			out := cmd.OutOrStdout()
			printFriendView(out, v.Friend)
			if v.Friend.SuppressProfile {
				return err
			}
			if v.GroupsError != "" {
				fmt.Fprintf(out, "groups: %s\n", v.GroupsError)
				return err
			}
			for _, g := range v.Groups {
				fmt.Fprintf(out, "  group %s\n", g.Name)
			}
			return err
		},
	}
}

// friendActions are the friend subcommands and the action each performs.
var friendActions = []struct {
	use    string
	short  string
	action relation.Action
}{
	{"add", "Send a friend request", relation.ActionAddFriend},
	{"cancel", "Withdraw a friend request you sent", relation.ActionCancelRequest},
	{"confirm", "Accept a friend request", relation.ActionConfirm},
	{"reject", "Decline a friend request", relation.ActionReject},
	{"remove", "End a friendship", relation.ActionRemoveFriend},
	{"ban", "Ban a user", relation.ActionBan},
	{"unban", "Lift a ban", relation.ActionUnban},
}

func newFriendCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "friend",
		Short: "Change your relation to a user",
	}
	for _, fa := range friendActions {
		action := fa.action
		cmd.AddCommand(&cobra.Command{
			Use:   fa.use + " <username>",
			Short: fa.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runFriendAction(cmd, a, args[0], action)
			},
		})
	}
	return cmd
}

// runFriendAction loads the current status first so the action is checked
// against it before anything is sent.
func runFriendAction(cmd *cobra.Command, a *app, username string, action relation.Action) error {
	p := panel.NewFriendPanel(a.gw, a.guard, username)
	defer p.Close()
	if err := p.Open(cmd.Context()); err != nil {
		printFriendView(cmd.OutOrStdout(), p.View())
		return err
	}
	err := p.Do(cmd.Context(), action)
	printFriendView(cmd.OutOrStdout(), p.View())
	return err
}

func newFriendsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "friends",
		Short: "List your friends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			friends, err := a.gw.ListFriends(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing friends: %w", err)
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "USERNAME\tSINCE")
			for _, f := range friends {
				fmt.Fprintf(tw, "%s\t%s\n", f.FriendUsername, f.CreatedAt.Format("2006-01-02"))
			}
			return tw.Flush()
		},
	}
}

package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "relctl",
		Short: "Manage friendships and group membership on a paddock server",
		Long: `relctl talks to a paddock server on behalf of the logged-in user.

The server address comes from PADDOCK_API_URL and the session token is kept
in PADDOCK_SESSION_FILE (default: the user config directory).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(a.out)

	root.AddCommand(
		newLoginCmd(a),
		newRegisterCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newStatusCmd(a),
		newSearchCmd(a),
		newProfileCmd(a),
		newFriendCmd(a),
		newFriendsCmd(a),
		newGroupCmd(a),
		newNotificationsCmd(a),
	)
	return root
}

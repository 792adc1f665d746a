package relation

// InviteRow is the per-friend button in the add-user-to-group flow.
type InviteRow struct {
	ButtonText string
	Disabled   bool
}

const (
	BtnInvite            = "Invite"
	BtnCancelInvite      = "Cancel Invite"
	BtnJoinRequested     = "User sent a join request"
	BtnAlreadyInGroup    = "Already in Group"
	BtnInviteRejected    = "User rejected invite"
	BtnUserBanned        = "User banned"
	BtnUserBannedGroup   = "User banned this group"
	BtnUserNotFound      = "User not found"
	BtnInviteUnavailable = "Unavailable"
)

// EvaluateInviteRow decides the invite button for one friend. A user that
// already appears in the group roster is disabled whatever the status says.
func EvaluateInviteRow(status GroupRelationStatus, inRoster bool) InviteRow {
	var row InviteRow
	switch status {
	case GroupInvitePending:
		row = InviteRow{ButtonText: BtnCancelInvite}
	case GroupJoinPending:
		row = InviteRow{ButtonText: BtnJoinRequested, Disabled: true}
	case GroupAccepted:
		row = InviteRow{ButtonText: BtnAlreadyInGroup, Disabled: true}
	case GroupInviteRejected:
		row = InviteRow{ButtonText: BtnInviteRejected, Disabled: true}
	case GroupBanned:
		row = InviteRow{ButtonText: BtnUserBanned, Disabled: true}
	case GroupBannedByUser:
		row = InviteRow{ButtonText: BtnUserBannedGroup, Disabled: true}
	case GroupNone, GroupJoinRejected:
		row = InviteRow{ButtonText: BtnInvite}
	case GroupUserNotFound:
		row = InviteRow{ButtonText: BtnUserNotFound, Disabled: true}
	case GroupNotFound, GroupStatusMissing:
		row = InviteRow{ButtonText: BtnInviteUnavailable, Disabled: true}
	default:
		row = InviteRow{ButtonText: BtnInviteUnavailable, Disabled: true}
	}
	if inRoster {
		row.Disabled = true
	}
	return row
}

const (
	MsgJoinInvitePending  = "You have an invitation pending for this group."
	MsgJoinAlreadyPending = "Your join request is already pending."
	MsgJoinAlreadyMember  = "You are already a member of this group."
	MsgJoinRejected       = "Your previous join request was rejected. You cannot request to join again."
	MsgJoinBanned         = "You have been banned from this group."
	// MsgJoinGroupBanned is kept word for word; users know it.
	MsgJoinGroupBanned = "You are banned this group."
	MsgJoinNotFound    = "Group not found, is not open to join or you are already in that group."
	MsgJoinUnexpected  = "An unexpected error occurred."
	MsgJoinSent        = "Join request sent!"
)

// JoinDecision is the outcome of checking whether a join request may be sent.
type JoinDecision struct {
	Proceed bool
	Message string
}

// EvaluateJoinRequest decides whether the current user may ask to join.
func EvaluateJoinRequest(status GroupRelationStatus) JoinDecision {
	switch status {
	case GroupNone, GroupInviteRejected:
		return JoinDecision{Proceed: true}
	case GroupInvitePending:
		return JoinDecision{Message: MsgJoinInvitePending}
	case GroupJoinPending:
		return JoinDecision{Message: MsgJoinAlreadyPending}
	case GroupAccepted:
		return JoinDecision{Message: MsgJoinAlreadyMember}
	case GroupJoinRejected:
		return JoinDecision{Message: MsgJoinRejected}
	case GroupBanned:
		return JoinDecision{Message: MsgJoinBanned}
	case GroupBannedByUser:
		return JoinDecision{Message: MsgJoinGroupBanned}
	}
	return evaluateJoinSentinel(status)
}

// evaluateJoinSentinel covers the out-of-band codes. 405 means the backend
// could not resolve the user record and the join is attempted anyway; the
// backend remains the authority on whether it succeeds.
func evaluateJoinSentinel(status GroupRelationStatus) JoinDecision {
	switch status {
	case GroupUserNotFound:
		return JoinDecision{Proceed: true}
	case GroupNotFound, GroupStatusMissing:
		return JoinDecision{Message: MsgJoinNotFound}
	default:
		return JoinDecision{Message: MsgJoinUnexpected}
	}
}

// CanInvite reports whether an admin may send a fresh invite given the
// user's current status. A rejected join does not block an invite.
func CanInvite(status GroupRelationStatus) bool {
	switch status {
	case GroupNone, GroupInviteRejected, GroupJoinRejected:
		return true
	}
	return false
}

// CanRequestJoin mirrors EvaluateJoinRequest for the domain codes only; the
// backend uses it to authorize join requests.
func CanRequestJoin(status GroupRelationStatus) bool {
	return status == GroupNone || status == GroupInviteRejected
}

// Terminal reports whether the UI offers no path out of status without an
// out-of-band unban.
func Terminal(status GroupRelationStatus) bool {
	switch status {
	case GroupAccepted, GroupBanned, GroupBannedByUser:
		return true
	}
	return false
}

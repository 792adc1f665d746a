package relation

// Action is a user-triggered mutation on a friendship.
type Action string

const (
	ActionAddFriend     Action = "add_friend"
	ActionCancelRequest Action = "cancel_request"
	ActionConfirm       Action = "confirm"
	ActionReject        Action = "reject"
	ActionBan           Action = "ban"
	ActionUnban         Action = "unban"
	ActionRemoveFriend  Action = "remove_friend"
)

// AllActions lists every friendship action in display order.
var AllActions = []Action{
	ActionAddFriend,
	ActionCancelRequest,
	ActionConfirm,
	ActionReject,
	ActionRemoveFriend,
	ActionBan,
	ActionUnban,
}

// ParseAction resolves a textual action name.
func ParseAction(s string) (Action, bool) {
	for _, a := range AllActions {
		if string(a) == s {
			return a, true
		}
	}
	return "", false
}

// ActionSet is an ordered set of actions.
type ActionSet []Action

// Has reports whether a is in the set.
func (s ActionSet) Has(a Action) bool {
	for _, x := range s {
		if x == a {
			return true
		}
	}
	return false
}

const (
	MsgThatsYou              = "That's your public profile!"
	MsgNotFriends            = "Not friends yet."
	MsgRequestSent           = "Friend request sent!"
	MsgRequestReceived       = "Friend request received!"
	MsgFriends               = "You are friends!"
	MsgBannedByTarget        = "You are banned from interacting with this user."
	MsgBannedTarget          = "You banned this user. You cannot interact with them."
	MsgUserDoesntExist       = "User does not exist."
	MsgFriendshipStatusError = "Error loading friendship status."
)

// FriendshipView is what a profile or search binding renders for a status.
type FriendshipView struct {
	Status  FriendshipStatus
	Message string
	Actions ActionSet
	// SuppressProfile hides everything else about the target, including
	// their public groups.
	SuppressProfile bool
}

// EvaluateFriendship maps a status to its message and permitted actions.
// It has no side effects; the returned slice is freshly allocated.
func EvaluateFriendship(status FriendshipStatus) FriendshipView {
	v := FriendshipView{Status: status, Actions: ActionSet{}}
	switch status {
	case FriendshipThatsYou:
		v.Message = MsgThatsYou
	case FriendshipNone:
		v.Message = MsgNotFriends
		v.Actions = ActionSet{ActionAddFriend}
	case FriendshipSent:
		v.Message = MsgRequestSent
		v.Actions = ActionSet{ActionCancelRequest}
	case FriendshipReceived:
		v.Message = MsgRequestReceived
		v.Actions = ActionSet{ActionConfirm, ActionReject}
	case FriendshipFriends:
		v.Message = MsgFriends
		v.Actions = ActionSet{ActionRemoveFriend, ActionBan}
	case FriendshipBanned:
		v.Message = MsgBannedByTarget
		v.SuppressProfile = true
	case FriendshipUserBanned:
		v.Message = MsgBannedTarget
		v.Actions = ActionSet{ActionUnban}
	case FriendshipUserDoesntExist:
		v.Message = MsgUserDoesntExist
	default:
		v.Message = MsgFriendshipStatusError
	}
	return v
}

// FriendshipLoadError is the view rendered when the status fetch failed.
func FriendshipLoadError() FriendshipView {
	return FriendshipView{Status: -1, Message: MsgFriendshipStatusError, Actions: ActionSet{}}
}

// Allowed reports whether action may be triggered from status.
func Allowed(status FriendshipStatus, action Action) bool {
	return EvaluateFriendship(status).Actions.Has(action)
}

// friendshipTransitions holds the optimistic target of each action.
var friendshipTransitions = map[Action]struct{ from, to FriendshipStatus }{
	ActionAddFriend:     {FriendshipNone, FriendshipSent},
	ActionCancelRequest: {FriendshipSent, FriendshipNone},
	ActionConfirm:       {FriendshipReceived, FriendshipFriends},
	ActionReject:        {FriendshipReceived, FriendshipNone},
	ActionRemoveFriend:  {FriendshipFriends, FriendshipNone},
	ActionBan:           {FriendshipFriends, FriendshipUserBanned},
	ActionUnban:         {FriendshipUserBanned, FriendshipNone},
}

// FriendshipTarget returns the status an action starts from and the status
// it lands on once the backend accepts it.
func FriendshipTarget(action Action) (from, to FriendshipStatus, ok bool) {
	t, ok := friendshipTransitions[action]
	return t.from, t.to, ok
}

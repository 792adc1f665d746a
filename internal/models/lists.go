package models

type FriendListResponse struct {
	Friends []FriendWithUser `json:"friends"`
}

type GroupListResponse struct {
	Groups []Group `json:"groups"`
}

type GroupMembersResponse struct {
	Members []GroupMember `json:"members"`
}

type NotificationListResponse struct {
	Notifications []Notification `json:"notifications"`
	Unread        int            `json:"unread"`
}

type BannedListResponse struct {
	Banned []BannedUser `json:"banned"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

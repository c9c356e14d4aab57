package dto

// UnreadCountResponse reports how many messages await the caller.
type UnreadCountResponse struct {
	Unread int `json:"unread"`
}

// MarkReadResponse reports how many messages were flagged as read.
type MarkReadResponse struct {
	Updated int `json:"updated"`
}

package domain

type SendMessageCommand struct {
	SenderID    UserID
	RecipientID UserID
	Body        Body
}

type GetConversationCommand struct {
	UserID UserID
	PeerID UserID
	Cursor *string
}

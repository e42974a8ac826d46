package domain

// MessageRef identifies a platform message so it can be deleted later.
// ChannelID and AccessHash are zero for plain user and group dialogs.
type MessageRef struct {
	ID         int
	ChannelID  int64
	AccessHash int64
}

// MessageEvent is one inbound message from a subscribed source (the
// account's own outgoing messages or the watched peer).
type MessageEvent struct {
	Ref  MessageRef
	Text string
}

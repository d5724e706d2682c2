package slack

// RawMention is the assembled snapshot of one mention and its thread,
// the slack case of the raw record variant the normalizer consumes.
type RawMention struct {
	Channel    string        `json:"channel"` // channel name
	ChannelID  string        `json:"channel_id"`
	Timestamp  string        `json:"ts"` // Slack epoch timestamp, e.g. "1717406400.000100"
	User       string        `json:"user"` // author of the mentioning message
	Text       string        `json:"text"`
	Permalink  string        `json:"permalink"`
	TargetUser string        `json:"target_user"` // the mentioned user expected to respond
	Replies    []ThreadReply `json:"replies"`
}

type ThreadReply struct {
	User      string `json:"user"`
	Text      string `json:"text"`
	Timestamp string `json:"ts"`
}

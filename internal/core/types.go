package core

const (
	AppName      = "dazi"
	PartnerName  = "搭子"
	AppVersion   = "0.1.0"
	AppUserAgent = "dazi-cli/0.1"
)

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Turn is one user input with the visible reply and the memory note derived from it.
type Turn struct {
	User             string `json:"user"`
	AssistantVisible string `json:"assistant_visible"`
	AssistantMemory  string `json:"assistant_memory"`
}

// Record is the persisted memory of a conversation partner.
type Record struct {
	Archive string `json:"archive"`
	History []Turn `json:"history"`
}

// NewRecord returns the record written on first run.
func NewRecord() Record {
	return Record{
		Archive: "",
		History: []Turn{},
	}
}

// Clone returns a copy whose history can be mutated independently.
func (r Record) Clone() Record {
	history := make([]Turn, len(r.History))
	copy(history, r.History)
	return Record{
		Archive: r.Archive,
		History: history,
	}
}

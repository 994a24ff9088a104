package model

// ChatReply is the result of one memory-augmented chat exchange
type ChatReply struct {
	UserID       UserID
	Reply        string
	MemoriesUsed int
}

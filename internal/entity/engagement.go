package entity

import "time"

type Like struct {
	ID        int64
	PollID    int64
	UserID    int64
	CreatedAt time.Time
}

type Comment struct {
	ID        int64
	PollID    int64
	UserID    int64
	Text      string
	CreatedAt time.Time
}

type Report struct {
	ID        int64
	PollID    int64
	UserID    int64
	Message   string
	Closed    bool
	CreatedAt time.Time
}

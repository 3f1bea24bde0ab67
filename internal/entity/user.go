package entity

import "time"

type User struct {
	ID        int64
	Email     string
	PassHash  []byte
	IsAdmin   bool
	CreatedAt time.Time
}

type Profile struct {
	UserID    int64
	Job       string
	Biography string
	Gender    string
	Country   string
	Birth     *time.Time
	ShowEmail bool
}

// ProfileView is a profile with the aggregates shown on the profile page.
type ProfileView struct {
	Profile
	Email           string
	PollsCount      int
	LikesReceived   int
	VotesReceived   int
	CommentsWritten int
	RegisteredAt    time.Time
}

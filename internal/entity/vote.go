package entity

import "time"

// Vote is an immutable cast. Exactly one of UserID / VoterIP identifies the
// voter: UserID for authenticated casts, VoterIP otherwise.
type Vote struct {
	ID       int64
	PollID   int64
	OptionID int64
	UserID   *int64
	VoterIP  string
	VotedAt  time.Time
}

// Identity is the deduplication key of a voter as resolved at the request
// boundary: an authenticated user id, or the client IP when there is none.
type Identity struct {
	UserID int64
	IP     string
}

func (i Identity) Authenticated() bool { return i.UserID != 0 }

// Matches reports whether the vote was cast by this identity.
func (i Identity) Matches(v Vote) bool {
	if i.Authenticated() {
		return v.UserID != nil && *v.UserID == i.UserID
	}
	return v.UserID == nil && v.VoterIP == i.IP
}

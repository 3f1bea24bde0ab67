package entity

import "time"

type Poll struct {
	ID             int64
	Question       string
	CreatorID      int64
	EndDate        *time.Time
	AllowMultiple  bool
	AllowAnonymous bool
	CreatedAt      time.Time
}

// ClosedAt reports whether the poll no longer accepts votes at the given
// moment. End dates have day granularity: the poll closes at the start of
// its end date.
func (p Poll) ClosedAt(now time.Time) bool {
	if p.EndDate == nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(p.EndDate.Year(), p.EndDate.Month(), p.EndDate.Day(), 0, 0, 0, 0, time.UTC)
	return !today.Before(end)
}

// Kind returns the display label for the poll variant.
func (p Poll) Kind() string {
	switch {
	case p.AllowMultiple && p.EndDate != nil:
		return "multiple choice with end date"
	case p.AllowMultiple:
		return "multiple choice"
	case p.EndDate != nil:
		return "regular with end date"
	default:
		return "regular"
	}
}

// PollEdit is the storage-level instruction produced from an edit request:
// the new poll row values plus the option-set reconciliation, with the
// destructive-wipe marker set when the question text changed.
type PollEdit struct {
	Poll            Poll
	QuestionChanged bool
	RemoveOptionIDs []int64
	AddOptionTexts  []string
}

type Option struct {
	ID     int64
	PollID int64
	Text   string
}

// OptionResult is an option together with its tallied votes.
type OptionResult struct {
	Option
	VotesCount int
}

// PollSummary is the list-view projection of a poll.
type PollSummary struct {
	Poll
	Kind          string
	Closed        bool
	VotesCount    int
	LikesCount    int
	CommentsCount int
}

// PollDetails is the single-poll projection, annotated for the viewer.
type PollDetails struct {
	Poll
	Kind           string
	Closed         bool
	Options        []OptionResult
	VotesCount     int
	LikesCount     int
	Comments       []Comment
	LikedByViewer  bool
	VotedOptionIDs []int64
}

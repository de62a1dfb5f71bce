package content

import "time"

// Item is the subset of an editorial article the workflow engine reads and
// writes. Body text, media, and taxonomy live elsewhere.
type Item struct {
	ID           string
	Title        string
	Status       Status
	AuthorID     string
	EditorID     string
	AssignedTo   string
	PublishedAt  *time.Time
	ScheduledFor *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Clone returns a copy that does not share timestamp pointers.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	out := *i
	if i.PublishedAt != nil {
		t := *i.PublishedAt
		out.PublishedAt = &t
	}
	if i.ScheduledFor != nil {
		t := *i.ScheduledFor
		out.ScheduledFor = &t
	}
	return &out
}

// DisplayTitle falls back to the item ID when no title is stored.
func (i *Item) DisplayTitle() string {
	if i == nil {
		return ""
	}
	if i.Title != "" {
		return i.Title
	}
	return i.ID
}

// TransitionRecord is one immutable entry in an item's workflow history.
type TransitionRecord struct {
	ID         string
	ArticleID  string
	Seq        int64
	FromStatus Status
	ToStatus   Status
	ActorID    string
	ActorName  string
	ActorRole  string
	Reason     string
	Feedback   string
	CreatedAt  time.Time
}

// Edge returns the graph edge the record claims to have taken.
func (r TransitionRecord) Edge() Edge {
	return Edge{From: r.FromStatus, To: r.ToStatus}
}

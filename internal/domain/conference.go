package domain

import (
	"strconv"
	"strings"
	"time"
)

// MilestoneType distinguishes the deadline kinds tracked within a cycle.
type MilestoneType string

const (
	AbstractRegistration MilestoneType = "abstract_registration"
	PaperSubmission      MilestoneType = "paper_submission"
)

// Label returns the display form used in digests.
func (t MilestoneType) Label() string {
	switch t {
	case AbstractRegistration:
		return "Abstract Registration"
	case PaperSubmission:
		return "Paper Submission"
	default:
		return string(t)
	}
}

// Milestone is a single dated step of a conference edition.
type Milestone struct {
	Type     MilestoneType
	Deadline time.Time
	Comment  string
}

// Conference is a core entity describing one edition of a tracked conference.
type Conference struct {
	Name       string
	FullName   string
	Category   string
	Rank       string
	Year       int
	Place      string
	Link       string
	EventDate  string
	Milestones []Milestone
	Source     string
}

// Key identifies an edition for deduplication across sources.
func (c Conference) Key() string {
	return strings.ToLower(c.Name) + "_" + strconv.Itoa(c.Year)
}

// EarliestDeadline returns the soonest milestone deadline; ok is false when
// the edition has no milestones.
func (c Conference) EarliestDeadline() (time.Time, bool) {
	if len(c.Milestones) == 0 {
		return time.Time{}, false
	}
	earliest := c.Milestones[0].Deadline
	for _, m := range c.Milestones[1:] {
		if m.Deadline.Before(earliest) {
			earliest = m.Deadline
		}
	}
	return earliest, true
}

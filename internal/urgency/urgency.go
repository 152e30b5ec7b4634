// Package urgency buckets deadlines by days remaining, both per milestone
// (display emphasis) and per conference (digest sections).
package urgency

import (
	"fmt"
	"time"
)

// Tier grades a single milestone by how soon it closes.
type Tier int

const (
	Critical Tier = iota
	High
	Medium
	Low
	Informational
)

// String names the tier for logs.
func (t Tier) String() string {
	switch t {
	case Critical:
		return "critical"
	case High:
		return "high"
	case Medium:
		return "medium"
	case Low:
		return "low"
	default:
		return "informational"
	}
}

// Marker is the display emphasis used next to a conference name.
func (t Tier) Marker() string {
	switch t {
	case Critical:
		return "🔴"
	case High:
		return "🟠"
	case Medium:
		return "🟡"
	case Low:
		return "🟢"
	default:
		return "🔵"
	}
}

// TierFor classifies a days-left count. Boundaries are inclusive on the
// tighter side: 3, 7, 14 and 60 all belong to the stricter tier.
func TierFor(daysLeft int) Tier {
	switch {
	case daysLeft <= 3:
		return Critical
	case daysLeft <= 7:
		return High
	case daysLeft <= 14:
		return Medium
	case daysLeft <= 60:
		return Low
	default:
		return Informational
	}
}

// Bucket groups conferences into digest sections.
type Bucket int

const (
	BucketUrgent Bucket = iota
	BucketUpcoming
	BucketLater
)

// Title is the section heading shown in the digest.
func (b Bucket) Title() string {
	switch b {
	case BucketUrgent:
		return "🚨 Urgent (within 60 days)"
	case BucketUpcoming:
		return "📌 Upcoming (within 180 days)"
	default:
		return "🗓 Later (beyond 180 days)"
	}
}

// BucketFor sections a conference by its minimum days-left: 60 and below is
// urgent, 180 and below upcoming, the rest later.
func BucketFor(daysLeft int) Bucket {
	switch {
	case daysLeft <= 60:
		return BucketUrgent
	case daysLeft <= 180:
		return BucketUpcoming
	default:
		return BucketLater
	}
}

// Buckets lists sections in display order.
func Buckets() []Bucket {
	return []Bucket{BucketUrgent, BucketUpcoming, BucketLater}
}

// DaysLeft counts whole 24-hour periods between now and the deadline,
// flooring partial days. The caller guarantees deadline >= now.
func DaysLeft(now, deadline time.Time) int {
	return int(deadline.Sub(now).Hours() / 24)
}

// DayLabel renders the countdown shorthand used in digests.
func DayLabel(daysLeft int) string {
	if daysLeft == 0 {
		return "D-DAY!"
	}
	return fmt.Sprintf("D-%d", daysLeft)
}

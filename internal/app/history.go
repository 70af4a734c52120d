package app

import (
	"time"

	"docassist/internal/model"
)

// History sidebars bucket items by how long ago they were touched: today,
// yesterday, within the last week, older. Buckets are elapsed-day based
// (floor of the age in 24h days), not calendar-day based. Empty buckets are
// omitted and the incoming order is kept within each bucket.

type ChatGroup struct {
	Label string              `json:"label"`
	Chats []model.ChatSession `json:"chats"`
}

type SummaryGroup struct {
	Label     string          `json:"label"`
	Summaries []model.Summary `json:"summaries"`
}

func GroupChatsByDay(now time.Time, chats []model.ChatSession) []ChatGroup {
	buckets := make([][]model.ChatSession, len(dayBucketLabels))
	for _, chat := range chats {
		i := dayBucket(now, chat.UpdatedAt)
		buckets[i] = append(buckets[i], chat)
	}

	groups := make([]ChatGroup, 0, len(buckets))
	for i, bucket := range buckets {
		if len(bucket) == 0 {
			continue
		}
		groups = append(groups, ChatGroup{Label: dayBucketLabels[i], Chats: bucket})
	}
	return groups
}

func GroupSummariesByDay(now time.Time, summaries []model.Summary) []SummaryGroup {
	buckets := make([][]model.Summary, len(dayBucketLabels))
	for _, summary := range summaries {
		i := dayBucket(now, summary.CreatedAt)
		buckets[i] = append(buckets[i], summary)
	}

	groups := make([]SummaryGroup, 0, len(buckets))
	for i, bucket := range buckets {
		if len(bucket) == 0 {
			continue
		}
		groups = append(groups, SummaryGroup{Label: dayBucketLabels[i], Summaries: bucket})
	}
	return groups
}

var dayBucketLabels = []string{"Today", "Yesterday", "Last Week", "Older"}

func dayBucket(now, t time.Time) int {
	days := int(now.Sub(t).Hours() / 24)
	switch {
	case days <= 0:
		return 0
	case days == 1:
		return 1
	case days <= 7:
		return 2
	default:
		return 3
	}
}

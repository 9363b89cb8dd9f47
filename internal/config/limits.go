package config

import "time"

const (
	// MaxVideoFileSize is the upload ceiling for lesson videos. A selected
	// file above this limit is rejected before any bytes move, and a
	// replace operation restores the previously committed file.
	MaxVideoFileSize = 500 << 20 // 500 MB

	// MaxResourceFileSize is the upload ceiling for lesson attachments.
	MaxResourceFileSize = 50 << 20 // 50 MB

	// MaxSectionTitleLength bounds section titles. Matches the backend's
	// VARCHAR(255) columns.
	MaxSectionTitleLength = 255

	// MaxLessonTitleLength bounds lesson titles.
	MaxLessonTitleLength = 255

	// MinLiveLeadTime is the minimum gap between submitting a live session
	// and its start time.
	MinLiveLeadTime = 5 * time.Minute

	// MinLiveDurationMinutes is the shortest schedulable live session.
	MinLiveDurationMinutes = 1
)

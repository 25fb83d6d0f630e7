package models

import "time"

// AdminStats summarises content counts for the admin dashboard.
type AdminStats struct {
	Users        int             `db:"users" json:"users"`
	Posts        int             `db:"posts" json:"posts"`
	Materials    int             `db:"materials" json:"materials"`
	ExamPapers   int             `db:"exam_papers" json:"examPapers"`
	Chapters     int             `db:"chapters" json:"chapters"`
	ChapterNotes int             `db:"chapter_notes" json:"chapterNotes"`
	Runtime      *RuntimeMetrics `db:"-" json:"runtime,omitempty"`
}

// RuntimeMetrics is a point-in-time view of process counters.
type RuntimeMetrics struct {
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	CacheHits                uint64    `json:"cacheHits"`
	CacheMisses              uint64    `json:"cacheMisses"`
	CacheHitRatio            float64   `json:"cacheHitRatio"`
	RemoteUploads            uint64    `json:"remoteUploads"`
	LocalUploads             uint64    `json:"localUploads"`
	FailedUploads            uint64    `json:"failedUploads"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}

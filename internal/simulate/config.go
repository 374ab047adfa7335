package simulate

import "time"

// Config holds configuration for one simulation run
type Config struct {
	BaseURL string        // Base URL of the service
	Fans    int           // Number of fan profiles to create
	DJs     int           // Number of DJ profiles to create
	Tips    int           // Number of tips to record and settle or decline
	Ratings int           // Number of ratings to record
	Workers int           // Number of concurrent workers
	Seed    int64         // Workload seed; equal seeds produce equal workloads
	TopN    int           // Size of the top slice to cross-check
	Timeout time.Duration // HTTP request timeout
	Verbose bool          // Enable verbose logging
}

// createdRef is the slice of a creation response the simulator reads back
type createdRef struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// boardEntry mirrors one leaderboard entry on the wire
type boardEntry struct {
	DJID              string  `json:"dj_id"`
	DJName            string  `json:"dj_name"`
	TotalTips         uint64  `json:"total_tips"`
	TotalRatings      uint64  `json:"total_ratings"`
	TotalRatingPoints uint64  `json:"total_rating_points"`
	AvgRating         float64 `json:"avg_rating"`
}

// entryList mirrors the list envelope around board entries
type entryList struct {
	Items []boardEntry `json:"items"`
	Count int          `json:"count"`
}

// standingView mirrors the per-DJ standing response
type standingView struct {
	Entry boardEntry `json:"entry"`
	Rank  int        `json:"rank"`
}

// Stats holds simulation statistics
type Stats struct {
	ProfilesCreated  int
	TipsSettled      int
	TipsDeclined     int
	TipsFailed       int
	RatingsRecorded  int
	RatingsFailed    int
	StandingsChecked int
	BoardEntries     int
	Mismatches       int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}

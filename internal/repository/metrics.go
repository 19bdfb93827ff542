package repository

import "time"

// QueryTimer receives a timing sample for each database query, labelled by
// statement. A nil timer disables instrumentation.
type QueryTimer interface {
	ObserveDBQuery(label string, duration time.Duration)
}

package usecase

import "time"

const (
	// DefaultStoreKey is the key the transaction list is persisted under.
	DefaultStoreKey = "txns"

	// DefaultReportCacheTTL bounds how long a computed report is reused when
	// no change notification arrives.
	DefaultReportCacheTTL = 5 * time.Minute

	// CSVContentType is the media type of the export.
	CSVContentType = "text/csv"
)

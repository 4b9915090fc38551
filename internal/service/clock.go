package service

import (
	"time"

	"library-service-be/internal/entity"
)

// timeNow is swapped in tests.
var timeNow = time.Now

// currentDate is today's calendar date in UTC.
func currentDate() time.Time {
	return entity.DateOf(timeNow().UTC())
}

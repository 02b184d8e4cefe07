package team

import (
	"fmt"
	"time"
)

// Team is a club or national side. Teams first seen inside a fixture only
// carry a name and a logo until the team listing is ingested.
type Team struct {
	ID        int64
	APIID     int64
	Name      string
	Code      string
	Country   string
	Founded   *int
	National  *bool
	LogoURL   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t Team) Validate() error {
	if t.APIID <= 0 {
		return fmt.Errorf("team api id is required")
	}
	return nil
}

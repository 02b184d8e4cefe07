package league

import (
	"fmt"
	"time"
)

// League is a competition as known to the external data source. APIID is the
// source's identifier and never changes once stored.
type League struct {
	ID        int64
	APIID     int64
	Name      string
	Type      string
	Country   string
	LogoURL   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (l League) Validate() error {
	if l.APIID <= 0 {
		return fmt.Errorf("league api id is required")
	}
	return nil
}

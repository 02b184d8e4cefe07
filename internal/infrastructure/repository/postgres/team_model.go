package postgres

import (
	"time"

	"github.com/riskibarqy/sports-data-service/internal/domain/team"
)

type teamTableModel struct {
	ID        int64     `db:"id"`
	APIID     int64     `db:"api_id"`
	Name      string    `db:"name"`
	Code      *string   `db:"code"`
	Country   *string   `db:"country"`
	Founded   *int      `db:"founded"`
	National  *bool     `db:"national"`
	LogoURL   string    `db:"logo_url"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type teamInsertModel struct {
	APIID    int64   `db:"api_id"`
	Name     string  `db:"name"`
	Code     *string `db:"code"`
	Country  *string `db:"country"`
	Founded  *int    `db:"founded"`
	National *bool   `db:"national"`
	LogoURL  string  `db:"logo_url"`
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:        m.ID,
		APIID:     m.APIID,
		Name:      m.Name,
		Code:      stringValue(m.Code),
		Country:   stringValue(m.Country),
		Founded:   m.Founded,
		National:  m.National,
		LogoURL:   m.LogoURL,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func newTeamInsertModel(item team.Team) teamInsertModel {
	return teamInsertModel{
		APIID:    item.APIID,
		Name:     item.Name,
		Code:     optionalString(item.Code),
		Country:  optionalString(item.Country),
		Founded:  item.Founded,
		National: item.National,
		LogoURL:  item.LogoURL,
	}
}

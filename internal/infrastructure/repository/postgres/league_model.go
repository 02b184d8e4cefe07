package postgres

import (
	"time"

	"github.com/riskibarqy/sports-data-service/internal/domain/league"
)

type leagueTableModel struct {
	ID        int64     `db:"id"`
	APIID     int64     `db:"api_id"`
	Name      string    `db:"name"`
	Type      string    `db:"type"`
	Country   string    `db:"country"`
	LogoURL   string    `db:"logo_url"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type leagueInsertModel struct {
	APIID   int64  `db:"api_id"`
	Name    string `db:"name"`
	Type    string `db:"type"`
	Country string `db:"country"`
	LogoURL string `db:"logo_url"`
}

func (m leagueTableModel) toDomain() league.League {
	return league.League{
		ID:        m.ID,
		APIID:     m.APIID,
		Name:      m.Name,
		Type:      m.Type,
		Country:   m.Country,
		LogoURL:   m.LogoURL,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func newLeagueInsertModel(item league.League) leagueInsertModel {
	return leagueInsertModel{
		APIID:   item.APIID,
		Name:    item.Name,
		Type:    item.Type,
		Country: item.Country,
		LogoURL: item.LogoURL,
	}
}

package gateway

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/origenapp/origen-core/internal/origen"
)

// settingsRowID is the single well-known row the settings record lives in.
const settingsRowID = "app_config"

func (g *Postgres) LoadSettings(ctx context.Context) (*origen.Settings, error) {
	var raw []byte
	err := g.DB.QueryRow(ctx, `SELECT value FROM settings WHERE id=$1`, settingsRowID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, asSchemaErr("load settings", err)
	}
	// Decode over the defaults: keys absent from an older record pick up
	// their default, keys present keep their stored value even when it is
	// the zero value.
	s := origen.DefaultSettings()
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, asSchemaErr("decode settings", err)
	}
	return &s, nil
}

func (g *Postgres) SaveSettings(ctx context.Context, s origen.Settings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = g.DB.Exec(ctx, `
		INSERT INTO settings(id, value) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET value=EXCLUDED.value`,
		settingsRowID, raw)
	return asSchemaErr("save settings", err)
}

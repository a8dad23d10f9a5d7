package origen

// ModuleConfig drives visibility and branding of one optional feature
// module in the UI shell.
type ModuleConfig struct {
	Enabled  bool   `json:"enabled"`
	Label    string `json:"label"`
	SubLabel string `json:"sub_label"`
	Color    string `json:"color"`
}

// Settings is a single mutable record, not a collection. It lives under a
// well-known row id in the backing store.
type Settings struct {
	AppName                 string                  `json:"app_name"`
	AppSubtitle             string                  `json:"app_subtitle"`
	PrimaryColor            string                  `json:"primary_color"`
	LogoURL                 string                  `json:"logo_url,omitempty"`
	InventoryAlertThreshold int                     `json:"inventory_alert_threshold"`
	Modules                 map[string]ModuleConfig `json:"modules"`
}

const (
	ModuleInventory     = "inventory"
	ModuleMovements     = "movements"
	ModuleSearch        = "search"
	ModuleEvents        = "events"
	ModuleBaptisms      = "baptisms"
	ModulePresentations = "presentations"
	ModuleLoans         = "loans"
)

func DefaultSettings() Settings {
	return Settings{
		AppName:                 "Origen Iglesia",
		AppSubtitle:             "Punto de Información",
		PrimaryColor:            "#2563eb",
		InventoryAlertThreshold: 5,
		Modules: map[string]ModuleConfig{
			ModuleInventory:     {Enabled: true, Label: "Inventario", SubLabel: "Catálogo", Color: "blue"},
			ModuleMovements:     {Enabled: true, Label: "Movimientos", SubLabel: "Historial", Color: "indigo"},
			ModuleSearch:        {Enabled: true, Label: "Buscar / Análisis", SubLabel: "Consultas", Color: "violet"},
			ModuleEvents:        {Enabled: true, Label: "Eventos", SubLabel: "Gestión QR", Color: "pink"},
			ModuleBaptisms:      {Enabled: true, Label: "Bautismos", SubLabel: "Registro", Color: "cyan"},
			ModulePresentations: {Enabled: true, Label: "Niños", SubLabel: "Presentación", Color: "amber"},
			ModuleLoans:         {Enabled: true, Label: "Préstamos", SubLabel: "Remeras y Buzos", Color: "orange"},
		},
	}
}

// MergeSettings lays a loaded record over the compile-time defaults so a
// record persisted by an older build still carries every module key.
// Only empty strings and missing module keys are treated as absent; a
// zero alert threshold is a real value (alerts off) and passes through.
func MergeSettings(loaded Settings) Settings {
	out := loaded
	if out.AppName == "" {
		out.AppName = DefaultSettings().AppName
	}
	if out.AppSubtitle == "" {
		out.AppSubtitle = DefaultSettings().AppSubtitle
	}
	if out.PrimaryColor == "" {
		out.PrimaryColor = DefaultSettings().PrimaryColor
	}
	modules := make(map[string]ModuleConfig, len(DefaultSettings().Modules))
	for key, mod := range DefaultSettings().Modules {
		modules[key] = mod
	}
	for key, mod := range loaded.Modules {
		modules[key] = mod
	}
	out.Modules = modules
	return out
}

// Clone returns a deep copy; Settings carries a map, so plain assignment
// would alias module configs between the store and its callers.
func (s Settings) Clone() Settings {
	out := s
	out.Modules = make(map[string]ModuleConfig, len(s.Modules))
	for key, mod := range s.Modules {
		out.Modules[key] = mod
	}
	return out
}

package gateway

import (
	"context"
	"sync"

	"github.com/origenapp/origen-core/internal/origen"
)

// Memory implements API over plain maps and slices. It backs the test
// suites and single-process demo runs; it also supports injecting a
// one-shot failure or a permanent schema-missing condition to exercise
// the store's failure paths.
type Memory struct {
	mu sync.Mutex

	products      map[string]origen.Product
	movements     []origen.Movement
	baptisms      map[string]origen.Baptism
	presentations map[string]origen.Presentation
	loans         map[string]origen.Loan
	events        map[string]origen.Event
	settings      *origen.Settings
	users         map[string]origen.User

	failNext      error
	schemaMissing bool

	settingsSaves int
	lastSettings  *origen.Settings
}

func NewMemory() *Memory {
	return &Memory{
		products:      map[string]origen.Product{},
		baptisms:      map[string]origen.Baptism{},
		presentations: map[string]origen.Presentation{},
		loans:         map[string]origen.Loan{},
		events:        map[string]origen.Event{},
		users:         map[string]origen.User{},
	}
}

// FailNext makes the next call (read or write) return err once.
func (g *Memory) FailNext(err error) {
	g.mu.Lock()
	g.failNext = err
	g.mu.Unlock()
}

// SetSchemaMissing makes every call fail with ErrSchemaMissing until reset.
func (g *Memory) SetSchemaMissing(missing bool) {
	g.mu.Lock()
	g.schemaMissing = missing
	g.mu.Unlock()
}

// SettingsSaves reports how many times SaveSettings ran and the last
// value it persisted.
func (g *Memory) SettingsSaves() (int, *origen.Settings) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.settingsSaves, g.lastSettings
}

// gate applies injected failures; callers hold g.mu.
func (g *Memory) gate() error {
	if g.schemaMissing {
		return ErrSchemaMissing
	}
	if err := g.failNext; err != nil {
		g.failNext = nil
		return err
	}
	return nil
}

func (g *Memory) Products(ctx context.Context) ([]origen.Product, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.gate(); err != nil {
		return nil, err
	}
	out := make([]origen.Product, 0, len(g.products))
	for _, p := range g.products {
		out = append(out, p)
	}
	return out, nil
}

func (g *Memory) AddProduct(ctx context.Context, p origen.Product) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.gate(); err != nil {
		return err
	}
	g.products[p.Code] = p
	return nil
}

func (g *Memory) DeleteProduct(ctx context.Context, code string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.gate(); err != nil {
		return err
	}
	delete(g.products, code)
	return nil
}

func (g *Memory) UpdateProductPricesByType(ctx context.Context, t origen.ProductType, price float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.gate(); err != nil {
		return err
	}
	for code, p := range g.products {
		if p.Type == t {
			p.Price = price
			g.products[code] = p
		}
	}
	return nil
}

func (g *Memory) Movements(ctx context.Context) ([]origen.Movement, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.gate(); err != nil {
		return nil, err
	}
	out := make([]origen.Movement, len(g.movements))
	copy(out, g.movements)
	return out, nil
}

func (g *Memory) AddMovement(ctx context.Context, m origen.Movement) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.gate(); err != nil {
		return err
	}
	g.movements = append(g.movements, m)
	return nil
}

func (g *Memory) Baptisms(ctx context.Context) ([]origen.Baptism, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.gate(); err != nil {
		return nil, err
	}
	out := make([]origen.Baptism, 0, len(g.baptisms))
	for _, b := range g.baptisms {
		out = append(out, b)
	}
	return out, nil
}

func (g *Memory) AddBaptism(ctx context.Context, b origen.Baptism) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.gate(); err != nil {
		return err
	}
	g.baptisms[b.ID] = b
	return nil
}

func (g *Memory) UpdateBaptism(ctx context.Context, b origen.Baptism) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.gate(); err != nil {
		return err
	}
	g.baptisms[b.ID] = b
	return nil
}

func (g *Memory) DeleteBaptism(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.gate(); err != nil {
		return err
	}
	delete(g.baptisms, id)
	return nil
}

func (g *Memory) Presentations(ctx context.Context) ([]origen.Presentation, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.gate(); err != nil {
		return nil, err
	}
	out := make([]origen.Presentation, 0, len(g.presentations))
	for _, p := range g.presentations {
		out = append(out, p)
	}
	return out, nil
}

func (g *Memory) AddPresentation(ctx context.Context, p origen.Presentation) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.gate(); err != nil {
		return err
	}
	g.presentations[p.ID] = p
	return nil
}

func (g *Memory) UpdatePresentation(ctx context.Context, p origen.Presentation) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.gate(); err != nil {
		return err
	}
	g.presentations[p.ID] = p
	return nil
}

func (g *Memory) DeletePresentation(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.gate(); err != nil {
		return err
	}
	delete(g.presentations, id)
	return nil
}

func (g *Memory) Loans(ctx context.Context) ([]origen.Loan, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.gate(); err != nil {
		return nil, err
	}
	out := make([]origen.Loan, 0, len(g.loans))
	for _, l := range g.loans {
		out = append(out, l)
	}
	return out, nil
}

func (g *Memory) AddLoan(ctx context.Context, l origen.Loan) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.gate(); err != nil {
		return err
	}
	g.loans[l.ID] = l
	return nil
}

func (g *Memory) UpdateLoan(ctx context.Context, l origen.Loan) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.gate(); err != nil {
		return err
	}
	g.loans[l.ID] = l
	return nil
}

func (g *Memory) DeleteLoan(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.gate(); err != nil {
		return err
	}
	delete(g.loans, id)
	return nil
}

func (g *Memory) Events(ctx context.Context) ([]origen.Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.gate(); err != nil {
		return nil, err
	}
	out := make([]origen.Event, 0, len(g.events))
	for _, e := range g.events {
		out = append(out, e)
	}
	return out, nil
}

func (g *Memory) AddEvent(ctx context.Context, e origen.Event) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.gate(); err != nil {
		return err
	}
	g.events[e.ID] = e
	return nil
}

func (g *Memory) UpdateEvent(ctx context.Context, e origen.Event) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.gate(); err != nil {
		return err
	}
	g.events[e.ID] = e
	return nil
}

func (g *Memory) DeleteEvent(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.gate(); err != nil {
		return err
	}
	delete(g.events, id)
	return nil
}

func (g *Memory) LoadSettings(ctx context.Context) (*origen.Settings, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.gate(); err != nil {
		return nil, err
	}
	if g.settings == nil {
		return nil, nil
	}
	s := g.settings.Clone()
	return &s, nil
}

func (g *Memory) SaveSettings(ctx context.Context, s origen.Settings) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.gate(); err != nil {
		return err
	}
	c := s.Clone()
	g.settings = &c
	g.settingsSaves++
	g.lastSettings = &c
	return nil
}

func (g *Memory) UserByUsername(ctx context.Context, username string) (*origen.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.gate(); err != nil {
		return nil, err
	}
	u, ok := g.users[username]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (g *Memory) CountByRole(ctx context.Context, role origen.Role) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.gate(); err != nil {
		return 0, err
	}
	n := 0
	for _, u := range g.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (g *Memory) InsertUser(ctx context.Context, u origen.User) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.gate(); err != nil {
		return err
	}
	g.users[u.Username] = u
	return nil
}

func (g *Memory) UpdateUserCredentials(ctx context.Context, username, passwordHash string, role origen.Role) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.gate(); err != nil {
		return err
	}
	u, ok := g.users[username]
	if !ok {
		return nil
	}
	u.Password = passwordHash
	u.Role = role
	g.users[username] = u
	return nil
}

func (g *Memory) CheckUsers(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gate()
}

// UserCount reports how many accounts exist; test helper.
func (g *Memory) UserCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.users)
}

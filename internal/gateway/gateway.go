// Package gateway talks to the remote persistence backend. It is the sole
// source of truth; everything the store holds in memory is a disposable
// cache rebuilt from here.
package gateway

import (
	"context"
	"errors"

	"github.com/origenapp/origen-core/internal/origen"
)

// ErrSchemaMissing marks failures caused by the backing tables not
// existing at all, i.e. the deployment was never provisioned. The store
// turns it into a persistent degraded flag instead of a per-call error.
var ErrSchemaMissing = errors.New("backing schema missing")

// API is the full persistence surface the store depends on. Lookups that
// find nothing return (nil, nil), not an error.
type API interface {
	Products(ctx context.Context) ([]origen.Product, error)
	AddProduct(ctx context.Context, p origen.Product) error
	DeleteProduct(ctx context.Context, code string) error
	UpdateProductPricesByType(ctx context.Context, t origen.ProductType, price float64) error

	Movements(ctx context.Context) ([]origen.Movement, error)
	AddMovement(ctx context.Context, m origen.Movement) error

	Baptisms(ctx context.Context) ([]origen.Baptism, error)
	AddBaptism(ctx context.Context, b origen.Baptism) error
	UpdateBaptism(ctx context.Context, b origen.Baptism) error
	DeleteBaptism(ctx context.Context, id string) error

	Presentations(ctx context.Context) ([]origen.Presentation, error)
	AddPresentation(ctx context.Context, p origen.Presentation) error
	UpdatePresentation(ctx context.Context, p origen.Presentation) error
	DeletePresentation(ctx context.Context, id string) error

	Loans(ctx context.Context) ([]origen.Loan, error)
	AddLoan(ctx context.Context, l origen.Loan) error
	UpdateLoan(ctx context.Context, l origen.Loan) error
	DeleteLoan(ctx context.Context, id string) error

	Events(ctx context.Context) ([]origen.Event, error)
	AddEvent(ctx context.Context, e origen.Event) error
	UpdateEvent(ctx context.Context, e origen.Event) error
	DeleteEvent(ctx context.Context, id string) error

	// Settings lives in a single well-known row; Load returns (nil, nil)
	// until the first Save.
	LoadSettings(ctx context.Context) (*origen.Settings, error)
	SaveSettings(ctx context.Context, s origen.Settings) error

	UserByUsername(ctx context.Context, username string) (*origen.User, error)
	CountByRole(ctx context.Context, role origen.Role) (int, error)
	InsertUser(ctx context.Context, u origen.User) error
	UpdateUserCredentials(ctx context.Context, username, passwordHash string, role origen.Role) error
	// CheckUsers probes whether the users table is reachable at all.
	CheckUsers(ctx context.Context) error
}

package origen

import "time"

type ProductType string

const (
	ProductBuzo   ProductType = "Buzos"
	ProductRemera ProductType = "Remeras"
)

type MovementType string

const (
	MovementIngreso MovementType = "Ingreso" // stock in
	MovementVenta   MovementType = "Venta"   // stock out
)

type PendingStatus string

const (
	PendingYes PendingStatus = "Si"
	PendingNo  PendingStatus = "No"
)

type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleModerator Role = "MODERATOR"
	RoleUser      Role = "USER"
)

type Product struct {
	Code         string      `json:"code"`
	Name         string      `json:"name"`
	Type         ProductType `json:"type"`
	Size         string      `json:"size"`
	MinQuantity  int         `json:"min_quantity"`
	Price        float64     `json:"price"`
	CreationDate time.Time   `json:"creation_date"`
}

// Movement is one row of the stock ledger. Append-only: no update or
// delete exists anywhere in the system.
type Movement struct {
	ID       string       `json:"id"`
	Code     string       `json:"code"` // product code, join key
	Date     time.Time    `json:"date"`
	Type     MovementType `json:"type"`
	Quantity int          `json:"quantity"`
}

type Baptism struct {
	ID          string        `json:"id"`
	FirstName   string        `json:"first_name,omitempty"`
	LastName    string        `json:"last_name,omitempty"`
	FullName    string        `json:"full_name"`
	Email       string        `json:"email"`
	Phone       string        `json:"phone"`
	Pending     PendingStatus `json:"pending"`
	CreatedAt   time.Time     `json:"created_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}

type Presentation struct {
	ID            string        `json:"id"`
	ChildName     string        `json:"child_name"`
	MotherName    string        `json:"mother_name"`
	FatherName    string        `json:"father_name"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone"`
	Pending       PendingStatus `json:"pending"`
	ScheduledDate *time.Time    `json:"scheduled_date,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
}

type Loan struct {
	ID           string        `json:"id"`
	BorrowerName string        `json:"borrower_name"`
	ProductType  ProductType   `json:"product_type"`
	Size         string        `json:"size"`
	LoanDate     time.Time     `json:"loan_date"`
	ReturnDate   *time.Time    `json:"return_date,omitempty"`
	Status       PendingStatus `json:"status"` // Si = outstanding, No = returned
}

type Event struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Link      string    `json:"link"`
	CreatedAt time.Time `json:"created_at"`
}

// User.Password holds the bcrypt hash, never the clear text.
type User struct {
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Role      Role      `json:"role"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses as delivered by the extraction layer.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusShipped   = "shipped"
	StatusCancelled = "cancelled"
)

// KnownStatuses lists every status the input contract accepts.
var KnownStatuses = []string{StatusPending, StatusCompleted, StatusShipped, StatusCancelled}

// Raw entities mirror the whole-table snapshots delivered by the
// extraction layer before each run.

type RawProduct struct {
	ID          int             `db:"id"`
	Title       string          `db:"title"`
	Category    string          `db:"category"`
	Brand       string          `db:"brand"`
	SKU         string          `db:"sku"`
	Price       decimal.Decimal `db:"price"`
	DiscountPct decimal.Decimal `db:"discount_percentage"`
	Rating      decimal.Decimal `db:"rating"`
	Stock       int             `db:"stock"`
}

type RawUser struct {
	ID        int    `db:"id"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Age       int    `db:"age"`
	Gender    string `db:"gender"`
	Email     string `db:"email"`
	Phone     string `db:"phone"`
	City      string `db:"city"`
	State     string `db:"state"`
	StateCode string `db:"state_code"`
	Country   string `db:"country"`
}

type RawOrder struct {
	OrderID          int             `db:"order_id"`
	UserID           int             `db:"user_id"`
	OrderDate        time.Time       `db:"order_date"`
	TotalAmount      decimal.Decimal `db:"total_amount"`
	DiscountedAmount decimal.Decimal `db:"discounted_amount"`
	TotalItems       int             `db:"total_items"`
	Status           string          `db:"status"`
}

type RawOrderItem struct {
	OrderID      int             `db:"order_id"`
	ProductID    int             `db:"product_id"`
	ProductTitle string          `db:"product_title"`
	Quantity     int             `db:"quantity"`
	UnitPrice    decimal.Decimal `db:"unit_price"`
	DiscountPct  decimal.Decimal `db:"discount_percentage"`
}

// Staged entities are the cleaned, type-cast output of the staging stage.

type StagedProduct struct {
	ID              int
	Name            string
	Category        string
	Brand           string
	Price           decimal.Decimal
	DiscountPct     decimal.Decimal
	DiscountedPrice decimal.Decimal
	Stock           int
	StockStatus     string
	Rating          decimal.Decimal
	RatingCategory  string
}

type StagedUser struct {
	ID        int
	FirstName string
	LastName  string
	FullName  string
	Age       int
	AgeGroup  string
	Gender    string
	Email     string
	Phone     string
	City      string
	State     string
	StateCode string
	Country   string
}

type StagedOrder struct {
	OrderID          int
	UserID           int
	OrderedAt        time.Time
	Year             int
	Month            int
	TotalAmount      decimal.Decimal
	DiscountedAmount decimal.Decimal
	DiscountAmount   decimal.Decimal
	TotalItems       int
	Status           string
	IsCompleted      bool
	IsCancelled      bool
	OrderSize        string
}

type StagedOrderItem struct {
	OrderID        int
	ProductID      int
	Quantity       int
	UnitPrice      decimal.Decimal
	DiscountPct    decimal.Decimal
	Gross          decimal.Decimal
	DiscountAmount decimal.Decimal
	Subtotal       decimal.Decimal
}

// EnrichedUser carries a staged user through the location-correction stage.
type EnrichedUser struct {
	StagedUser
	CorrectedState     string
	CorrectedStateCode string
	WasCorrected       bool
	Location           string // "City, ST" label
}

// Mart entities are the published dimension/fact relations.

type ProductDim struct {
	ProductID         int
	Name              string
	Category          string
	Brand             string
	Price             decimal.Decimal
	DiscountedPrice   decimal.Decimal
	Stock             int
	StockStatus       string
	Rating            decimal.Decimal
	RatingCategory    string
	TimesOrdered      int
	TotalQuantitySold int
	TotalRevenue      decimal.Decimal
	SalesCategory     string
}

type CustomerDim struct {
	CustomerID      int
	FullName        string
	Email           string
	Phone           string
	Age             int
	AgeGroup        string
	Gender          string
	City            string
	State           string
	StateCode       string
	Location        string
	WasCorrected    bool
	TotalOrders     int
	CompletedOrders int
	LifetimeValue   decimal.Decimal
	// AvgOrderValue is null, not zero, when the customer has no completed
	// orders.
	AvgOrderValue  decimal.NullDecimal
	OrderFrequency string
	SpendTier      string
}

type OrderFact struct {
	OrderID        int
	CustomerID     int
	OrderedAt      time.Time
	Year           int
	Month          int
	Status         string
	IsCompleted    bool
	IsCancelled    bool
	ItemCount      int
	TotalAmount    decimal.Decimal
	DiscountAmount decimal.Decimal
	NetAmount      decimal.Decimal
	OrderSize      string
}

type OrderItemFact struct {
	OrderID        int
	ProductID      int
	Quantity       int
	UnitPrice      decimal.Decimal
	DiscountPct    decimal.Decimal
	Gross          decimal.Decimal
	DiscountAmount decimal.Decimal
	Subtotal       decimal.Decimal
	OrderStatus    string
	// RevenueShare is this item's subtotal as a fraction of the parent
	// order's item subtotal total; zero when the order nets to zero.
	RevenueShare decimal.Decimal
}

// Marts bundles the published relations of one run.
type Marts struct {
	Products   []ProductDim
	Customers  []CustomerDim
	Orders     []OrderFact
	OrderItems []OrderItemFact
	Daily      []DailySummary
}

type DailySummary struct {
	Date            string // calendar date, "2006-01-02"
	TotalOrders     int
	CompletedOrders int
	CancelledOrders int
	TotalItemsSold  int
	UniqueCustomers int
	TotalRevenue    decimal.Decimal
	AvgOrderValue   decimal.NullDecimal
}

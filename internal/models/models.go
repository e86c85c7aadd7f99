package models

import "time"

type UserRole string

const (
	RoleAdmin     UserRole = "ADMIN"
	RoleLibrarian UserRole = "LIBRARIAN"
	RoleReader    UserRole = "READER"
)

type UserStatus string

const (
	UserActive    UserStatus = "ACTIVE"
	UserSuspended UserStatus = "SUSPENDED"
)

type BookStatus string

const (
	BookAvailable   BookStatus = "AVAILABLE"
	BookBorrowed    BookStatus = "BORROWED"
	BookMaintenance BookStatus = "MAINTENANCE"
	BookLost        BookStatus = "LOST"
	BookReserved    BookStatus = "RESERVED"
)

type BorrowingStatus string

const (
	BorrowingPending  BorrowingStatus = "PENDING"
	BorrowingBorrowed BorrowingStatus = "BORROWED"
	BorrowingReturned BorrowingStatus = "RETURNED"
	BorrowingRejected BorrowingStatus = "REJECTED"
	BorrowingOverdue  BorrowingStatus = "OVERDUE"
)

// ActiveBorrowingStatuses are the states that count against a user's borrow
// limit and block a duplicate request for the same book.
var ActiveBorrowingStatuses = []BorrowingStatus{BorrowingPending, BorrowingBorrowed, BorrowingOverdue}

type FineStatus string

const (
	FinePending FineStatus = "PENDING"
	FinePaid    FineStatus = "PAID"
	FineWaived  FineStatus = "WAIVED"
)

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationReady     ReservationStatus = "READY"
	ReservationFulfilled ReservationStatus = "FULFILLED"
	ReservationCancelled ReservationStatus = "CANCELLED"
	ReservationExpired   ReservationStatus = "EXPIRED"
)

type NotificationType string

const (
	NotifyPending          NotificationType = "PENDING"
	NotifyApproved         NotificationType = "APPROVED"
	NotifyRejected         NotificationType = "REJECTED"
	NotifyOverdue          NotificationType = "OVERDUE"
	NotifyDueSoon          NotificationType = "DUE_SOON"
	NotifyReservationReady NotificationType = "RESERVATION_READY"
	NotifyFineAdded        NotificationType = "FINE_ADDED"
	NotifyGeneral          NotificationType = "GENERAL"
)

type Category struct {
	ID          uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string `json:"name" gorm:"uniqueIndex;not null"`
	Description string `json:"description"`
}

type Publisher struct {
	ID      uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name    string `json:"name" gorm:"uniqueIndex;not null"`
	Address string `json:"address"`
}

type Author struct {
	ID        uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string `json:"name" gorm:"index;not null"`
	Biography string `json:"biography"`
}

type Book struct {
	ID              uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	Title           string     `json:"title" gorm:"index;not null"`
	ISBN            string     `json:"isbn" gorm:"uniqueIndex;not null"`
	TotalCopies     int        `json:"totalCopies" gorm:"not null"`
	AvailableCopies int        `json:"availableCopies" gorm:"not null"`
	BorrowCount     int        `json:"borrowCount" gorm:"not null;default:0"`
	Status          BookStatus `json:"status" gorm:"type:varchar(20);not null;default:AVAILABLE"`
	CategoryID      *uint      `json:"categoryId" gorm:"index"`
	Category        *Category  `json:"category,omitempty"`
	PublisherID     *uint      `json:"publisherId" gorm:"index"`
	Publisher       *Publisher `json:"publisher,omitempty"`
	Authors         []Author   `json:"authors,omitempty" gorm:"many2many:book_authors"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type User struct {
	ID        uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	UserCode  string     `json:"userCode" gorm:"uniqueIndex;not null"`
	FullName  string     `json:"fullName" gorm:"not null"`
	Email     string     `json:"email" gorm:"uniqueIndex;not null"`
	Phone     string     `json:"phone"`
	Role      UserRole   `json:"role" gorm:"type:varchar(20);not null;default:READER"`
	Status    UserStatus `json:"status" gorm:"type:varchar(20);not null;default:ACTIVE"`
	// BorrowLimit overrides the system-wide max when non-zero.
	BorrowLimit int       `json:"borrowLimit" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Borrowing struct {
	ID           uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID       uint            `json:"userId" gorm:"index;not null"`
	User         *User           `json:"user,omitempty"`
	BookID       uint            `json:"bookId" gorm:"index;not null"`
	Book         *Book           `json:"book,omitempty"`
	Status       BorrowingStatus `json:"status" gorm:"type:varchar(20);index;not null;default:PENDING"`
	BorrowDate   *time.Time      `json:"borrowDate"`
	DueDate      *time.Time      `json:"dueDate" gorm:"index"`
	ReturnDate   *time.Time      `json:"returnDate"`
	RenewalCount int             `json:"renewalCount" gorm:"not null;default:0"`
	Notes        *string         `json:"notes"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// Fine amounts are stored in VND, no fractional unit.
type Fine struct {
	ID          uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	BorrowingID uint       `json:"borrowingId" gorm:"index;not null"`
	Borrowing   *Borrowing `json:"borrowing,omitempty"`
	UserID      uint       `json:"userId" gorm:"index;not null"`
	Amount      int64      `json:"amount" gorm:"not null"`
	DaysOverdue int        `json:"daysOverdue" gorm:"not null"`
	DailyRate   int64      `json:"dailyRate" gorm:"not null"`
	Status      FineStatus `json:"status" gorm:"type:varchar(20);index;not null;default:PENDING"`
	PaidDate    *time.Time `json:"paidDate"`
	Notes       *string    `json:"notes"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type Reservation struct {
	ID              uint              `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID          uint              `json:"userId" gorm:"index;not null"`
	User            *User             `json:"user,omitempty"`
	BookID          uint              `json:"bookId" gorm:"index;not null"`
	Book            *Book             `json:"book,omitempty"`
	Status          ReservationStatus `json:"status" gorm:"type:varchar(20);index;not null;default:PENDING"`
	QueuePosition   int               `json:"queuePosition" gorm:"not null"`
	ReservationDate time.Time         `json:"reservationDate" gorm:"not null"`
	ExpiryDate      time.Time         `json:"expiryDate" gorm:"not null"`
	NotifiedDate    *time.Time        `json:"notifiedDate"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

type Notification struct {
	ID        uint             `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint             `json:"userId" gorm:"index;not null"`
	Type      NotificationType `json:"type" gorm:"type:varchar(30);not null"`
	Title     string           `json:"title" gorm:"not null"`
	Message   string           `json:"message" gorm:"not null"`
	IsRead    bool             `json:"isRead" gorm:"not null;default:false"`
	ReadAt    *time.Time       `json:"readAt"`
	CreatedAt time.Time        `json:"createdAt"`
}

// SystemConfig is a single-row table holding the library policy. Values are
// read at the start of each ledger operation, never cached across requests.
type SystemConfig struct {
	ID                uint  `json:"id" gorm:"primaryKey;autoIncrement"`
	MaxBooksPerUser   int   `json:"maxBooksPerUser" gorm:"not null;default:5"`
	DefaultBorrowDays int   `json:"defaultBorrowDays" gorm:"not null;default:14"`
	MaxRenewalCount   int   `json:"maxRenewalCount" gorm:"not null;default:1"`
	LateFeePerDay     int64 `json:"lateFeePerDay" gorm:"not null;default:5000"`
	ReservationDays   int   `json:"reservationDays" gorm:"not null;default:7"`
}

type ActivityLog struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Action      string    `json:"action" gorm:"type:varchar(20);not null"`
	Entity      string    `json:"entity" gorm:"type:varchar(30);not null"`
	EntityID    uint      `json:"entityId" gorm:"index;not null"`
	Description string    `json:"description"`
	UserID      uint      `json:"userId" gorm:"index;not null"`
	CreatedAt   time.Time `json:"createdAt"`
}

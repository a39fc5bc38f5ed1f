package model

import (
	"time"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Principal is the authenticated identity for one request.
type Principal struct {
	UserID string
	Name   string
	Role   Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

type User struct {
	ID       string `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Email    string `json:"email" db:"email"`
	Password string `json:"-" db:"password"`
	Role     Role   `json:"type" db:"type"`
	IsShow   bool   `json:"-" db:"is_show"`
}

// UserDetail is a user plus the titles of their approved borrows.
type UserDetail struct {
	User
	ReadingList []string `json:"reading_list"`
}

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserPatch struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password"`
}

type Book struct {
	ID            string `json:"id" db:"id"`
	Title         string `json:"title" db:"title"`
	Pages         int    `json:"pages" db:"pages"`
	Publisher     string `json:"publisher" db:"publisher"`
	PublishedYear int    `json:"published_year" db:"published_year"`
	IsShow        bool   `json:"-" db:"is_show"`
}

type BookDetail struct {
	Book
	Authors []Author `json:"authors"`
	Genres  []Genre  `json:"genres"`
}

type CreateBookRequest struct {
	Title         string   `json:"title" validate:"required"`
	Pages         int      `json:"pages" validate:"required,gt=0"`
	Publisher     string   `json:"publisher"`
	PublishedYear int      `json:"published_year"`
	Authors       []string `json:"authors"`
	Genres        []string `json:"genres"`
}

type BookPatch struct {
	Title         *string `json:"title"`
	Pages         *int    `json:"pages" validate:"omitempty,gt=0"`
	Publisher     *string `json:"publisher"`
	PublishedYear *int    `json:"published_year"`
}

type Author struct {
	ID        string `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	BirthYear int    `json:"birth_year" db:"birth_year"`
	IsShow    bool   `json:"-" db:"is_show"`
}

type CreateAuthorRequest struct {
	Name      string `json:"name" validate:"required"`
	BirthYear int    `json:"birth_year"`
}

type AuthorPatch struct {
	Name      *string `json:"name"`
	BirthYear *int    `json:"birth_year"`
}

type Genre struct {
	ID     string `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	IsShow bool   `json:"-" db:"is_show"`
}

type CreateGenreRequest struct {
	Name string `json:"name" validate:"required"`
}

type GenrePatch struct {
	Name *string `json:"name"`
}

// SearchBooksFilter holds booksearch predicates. Zero values impose
// no constraint.
type SearchBooksFilter struct {
	Title         string
	Author        string
	Publisher     string
	Genre         string
	PublishedYear int
}

type BorrowStatus string

const (
	StatusRequested BorrowStatus = "requested"
	StatusApproved  BorrowStatus = "approved"
	StatusReturned  BorrowStatus = "returned"
)

type Borrow struct {
	ID            string       `json:"id" db:"id"`
	BookID        string       `json:"book_id" db:"book_id"`
	UserID        string       `json:"user_id" db:"user_id"`
	BookTitle     string       `json:"book_title" db:"book_title"`
	MemberName    string       `json:"member_name" db:"member_name"`
	Status        BorrowStatus `json:"status" db:"status"`
	ApproveAdmin  *string      `json:"approve_admin,omitempty" db:"approve_admin"`
	ReturnAdmin   *string      `json:"return_admin,omitempty" db:"return_admin"`
	RequestedDate *time.Time   `json:"requested_date,omitempty" db:"requested_date"`
	ApprovedDate  *time.Time   `json:"approved_date,omitempty" db:"approved_date"`
	ReturnedDate  *time.Time   `json:"returned_date,omitempty" db:"returned_date"`
	IsShow        bool         `json:"-" db:"is_show"`
}

// BorrowDetail is the single-record view with dates rendered as
// "15 Jun 2023"; null dates stay empty.
type BorrowDetail struct {
	ID            string       `json:"id"`
	BookID        string       `json:"book_id"`
	UserID        string       `json:"user_id"`
	BookTitle     string       `json:"book_title"`
	MemberName    string       `json:"member_name"`
	Status        BorrowStatus `json:"status"`
	ApproveAdmin  string       `json:"approve_admin,omitempty"`
	ReturnAdmin   string       `json:"return_admin,omitempty"`
	RequestedDate string       `json:"requested_date,omitempty"`
	ApprovedDate  string       `json:"approved_date,omitempty"`
	ReturnedDate  string       `json:"returned_date,omitempty"`
}

const borrowDateLayout = "2 Jan 2006"

func (b Borrow) Detail() BorrowDetail {
	d := BorrowDetail{
		ID:         b.ID,
		BookID:     b.BookID,
		UserID:     b.UserID,
		BookTitle:  b.BookTitle,
		MemberName: b.MemberName,
		Status:     b.Status,
	}
	if b.ApproveAdmin != nil {
		d.ApproveAdmin = *b.ApproveAdmin
	}
	if b.ReturnAdmin != nil {
		d.ReturnAdmin = *b.ReturnAdmin
	}
	if b.RequestedDate != nil {
		d.RequestedDate = b.RequestedDate.Format(borrowDateLayout)
	}
	if b.ApprovedDate != nil {
		d.ApprovedDate = b.ApprovedDate.Format(borrowDateLayout)
	}
	if b.ReturnedDate != nil {
		d.ReturnedDate = b.ReturnedDate.Format(borrowDateLayout)
	}
	return d
}

// BorrowEvent is published to kafka on every borrow lifecycle change.
type BorrowEvent struct {
	EventID    string    `json:"event_id"`
	BorrowID   string    `json:"borrow_id"`
	Action     string    `json:"action"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurred_at"`
}

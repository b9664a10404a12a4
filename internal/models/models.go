// Package models defines the domain and API types of the correspondence
// register: users and roles, master (reference) records, inward/outward
// entries and the request/response payloads exchanged with clients.
package models

import "errors"

// Role is the closed set of user roles known to the system.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleOperator Role = "OPERATOR"
)

// DeliveryStatus tracks the delivery state of a correspondence entry.
type DeliveryStatus string

const (
	StatusPending   DeliveryStatus = "PENDING"
	StatusDelivered DeliveryStatus = "DELIVERED"
	StatusReturned  DeliveryStatus = "RETURNED"
	StatusInTransit DeliveryStatus = "IN_TRANSIT"
)

// EntryType distinguishes received documents from dispatched ones.
type EntryType string

const (
	EntryInward  EntryType = "INWARD"
	EntryOutward EntryType = "OUTWARD"
)

// MasterKind names a master-data collection as it appears in request paths.
type MasterKind string

const (
	KindOffices  MasterKind = "offices"
	KindModes    MasterKind = "modes"
	KindEntities MasterKind = "entities"
	KindCouriers MasterKind = "couriers"
)

// KnownMasterKind reports whether kind names one of the four collections.
func KnownMasterKind(kind MasterKind) bool {
	switch kind {
	case KindOffices, KindModes, KindEntities, KindCouriers:
		return true
	}
	return false
}

const (
	StorageTypeUnknown = iota
	StorageTypePostgresql
	StorageTypeFile
	StorageTypeMemory
)

// ErrNotFound is returned when an update or delete targets an id
// that is absent from the collection.
var ErrNotFound = errors.New("record not found")

// User is the account record issued on login. Its JSON layout is also the
// layout of the client-side persisted session copy.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Token    string `json:"token,omitempty"`
}

// Office is a master record for an office of the institute,
// carrying the opening register numbers for its inward/outward books.
type Office struct {
	ID               string `json:"id"`
	Name             string `json:"name" validate:"required"`
	IsActive         bool   `json:"isActive"`
	Remarks          string `json:"remarks,omitempty"`
	Institute        string `json:"institute"`
	Department       string `json:"department"`
	OpeningInwardNo  int    `json:"openingInwardNo" validate:"gte=0"`
	OpeningOutwardNo int    `json:"openingOutwardNo" validate:"gte=0"`
}

// Mode is a master record for a mode of receipt or dispatch (post, courier...).
type Mode struct {
	ID       string `json:"id"`
	Name     string `json:"name" validate:"required"`
	IsActive bool   `json:"isActive"`
	Remarks  string `json:"remarks,omitempty"`
}

// Entity is a master record for an external sender or recipient organization.
type Entity struct {
	ID         string `json:"id"`
	Name       string `json:"name" validate:"required"`
	IsActive   bool   `json:"isActive"`
	Remarks    string `json:"remarks,omitempty"`
	PersonName string `json:"personName"`
	Address    string `json:"address"`
	Place      string `json:"place"`
}

// Courier is a master record for a courier company.
type Courier struct {
	ID            string `json:"id"`
	Name          string `json:"name" validate:"required"`
	IsActive      bool   `json:"isActive"`
	Remarks       string `json:"remarks,omitempty"`
	ContactPerson string `json:"contactPerson"`
	Phone         string `json:"phone"`
	Email         string `json:"email" validate:"omitempty,email"`
	Website       string `json:"website"`
	Address       string `json:"address"`
}

// OfficePatch carries a partial office update. Nil fields are left untouched.
type OfficePatch struct {
	Name             *string `json:"name,omitempty"`
	IsActive         *bool   `json:"isActive,omitempty"`
	Remarks          *string `json:"remarks,omitempty"`
	Institute        *string `json:"institute,omitempty"`
	Department       *string `json:"department,omitempty"`
	OpeningInwardNo  *int    `json:"openingInwardNo,omitempty"`
	OpeningOutwardNo *int    `json:"openingOutwardNo,omitempty"`
}

// ModePatch carries a partial mode update.
type ModePatch struct {
	Name     *string `json:"name,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
	Remarks  *string `json:"remarks,omitempty"`
}

// EntityPatch carries a partial entity update.
type EntityPatch struct {
	Name       *string `json:"name,omitempty"`
	IsActive   *bool   `json:"isActive,omitempty"`
	Remarks    *string `json:"remarks,omitempty"`
	PersonName *string `json:"personName,omitempty"`
	Address    *string `json:"address,omitempty"`
	Place      *string `json:"place,omitempty"`
}

// CourierPatch carries a partial courier update.
type CourierPatch struct {
	Name          *string `json:"name,omitempty"`
	IsActive      *bool   `json:"isActive,omitempty"`
	Remarks       *string `json:"remarks,omitempty"`
	ContactPerson *string `json:"contactPerson,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Email         *string `json:"email,omitempty"`
	Website       *string `json:"website,omitempty"`
	Address       *string `json:"address,omitempty"`
}

// InwardEntry is a document received by the office.
type InwardEntry struct {
	ID             string         `json:"id"`
	InwardNo       string         `json:"inwardNo"`
	InwardDate     string         `json:"inwardDate" validate:"required,datetime=2006-01-02"`
	ReceivedDate   string         `json:"receivedDate" validate:"omitempty,datetime=2006-01-02"`
	Mode           string         `json:"mode" validate:"required"`
	CourierCompany string         `json:"courierCompany,omitempty"`
	ReceiptNo      string         `json:"receiptNo,omitempty"`
	ReceiptDate    string         `json:"receiptDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	SenderName     string         `json:"senderName" validate:"required"`
	SenderAddress  string         `json:"senderAddress"`
	LetterNo       string         `json:"letterNo"`
	LetterDate     string         `json:"letterDate" validate:"omitempty,datetime=2006-01-02"`
	Subject        string         `json:"subject" validate:"required"`
	Description    string         `json:"description"`
	FromOffice     string         `json:"fromOffice"`
	ToOffice       string         `json:"toOffice"`
	Department     string         `json:"department"`
	ToPerson       string         `json:"toPerson"`
	Status         DeliveryStatus `json:"status" validate:"required,oneof=PENDING DELIVERED RETURNED IN_TRANSIT"`
}

// OutwardEntry is a document dispatched by the office.
type OutwardEntry struct {
	ID               string         `json:"id"`
	OutwardNo        string         `json:"outwardNo"`
	DispatchDate     string         `json:"dispatchDate" validate:"required,datetime=2006-01-02"`
	DispatchedBy     string         `json:"dispatchedBy" validate:"required"`
	RecipientName    string         `json:"recipientName" validate:"required"`
	RecipientAddress string         `json:"recipientAddress"`
	CourierCompany   string         `json:"courierCompany"`
	TrackingID       string         `json:"trackingId,omitempty"`
	Charges          float64        `json:"charges" validate:"gte=0"`
	LetterNo         string         `json:"letterNo"`
	Subject          string         `json:"subject" validate:"required"`
	Description      string         `json:"description"`
	FromOffice       string         `json:"fromOffice"`
	ToOffice         string         `json:"toOffice"`
	Department       string         `json:"department"`
	ToPerson         string         `json:"toPerson"`
	IsReturned       bool           `json:"isReturned"`
	ReturnDate       string         `json:"returnDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ReturnReason     string         `json:"returnReason,omitempty"`
	Status           DeliveryStatus `json:"status" validate:"required,oneof=PENDING DELIVERED RETURNED IN_TRANSIT"`
}

// EntryFilter narrows register and search listings.
// Zero values mean "do not filter by this field".
type EntryFilter struct {
	Type     EntryType      `json:"type,omitempty"`
	DateFrom string         `json:"dateFrom,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DateTo   string         `json:"dateTo,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Mode     string         `json:"mode,omitempty"`
	Courier  string         `json:"courier,omitempty"`
	Status   DeliveryStatus `json:"status,omitempty" validate:"omitempty,oneof=PENDING DELIVERED RETURNED IN_TRANSIT"`
	Query    string         `json:"query,omitempty"`
}

// EntrySummary is the flat row shape of cross-type search results.
type EntrySummary struct {
	ID           string         `json:"id"`
	Type         EntryType      `json:"type"`
	Number       string         `json:"no"`
	Date         string         `json:"date"`
	Subject      string         `json:"subject"`
	Counterparty string         `json:"counterparty"`
	Status       DeliveryStatus `json:"status"`
}

// LoginRequest is the payload of POST /api/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
}

// CreateEntryResponse acknowledges a stored entry with its assigned
// identifier and register number.
type CreateEntryResponse struct {
	ID     string `json:"id"`
	Number string `json:"no"`
}

// SummaryResponse is the reports/dashboard aggregate.
type SummaryResponse struct {
	Inward   int64                    `json:"inward"`
	Outward  int64                    `json:"outward"`
	ByStatus map[DeliveryStatus]int64 `json:"byStatus"`
}

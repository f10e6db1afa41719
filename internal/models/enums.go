package models

// City is the closed set of cities the platform operates in.
type City string

const (
	CityBangalore City = "Bangalore"
	CityHyderabad City = "Hyderabad"
	CityMumbai    City = "Mumbai"
	CityChennai   City = "Chennai"
)

// AllCities lists every valid City, in display order.
var AllCities = []City{CityBangalore, CityHyderabad, CityMumbai, CityChennai}

func (c City) IsValid() bool {
	for _, v := range AllCities {
		if c == v {
			return true
		}
	}
	return false
}

// PropertyType is the closed set of listing categories.
type PropertyType string

const (
	PropertyTypeRent       PropertyType = "Rent"
	PropertyTypePlot       PropertyType = "Plot"
	PropertyTypeFlat       PropertyType = "Flat"
	PropertyTypeCommercial PropertyType = "Commercial"
	PropertyTypeFarmland   PropertyType = "Farmland"
)

// AllPropertyTypes lists every valid PropertyType.
var AllPropertyTypes = []PropertyType{
	PropertyTypeRent, PropertyTypePlot, PropertyTypeFlat,
	PropertyTypeCommercial, PropertyTypeFarmland,
}

func (p PropertyType) IsValid() bool {
	for _, v := range AllPropertyTypes {
		if p == v {
			return true
		}
	}
	return false
}

// ApprovalStatus is the lifecycle state of a property listing.
// Rejection deletes the document outright, so StatusRejected is never
// persisted; it exists so the full enumerated set is representable.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "Pending"
	StatusApproved ApprovalStatus = "Approved"
	StatusRejected ApprovalStatus = "Rejected"
	StatusSold     ApprovalStatus = "Sold"
)

func (s ApprovalStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusSold:
		return true
	}
	return false
}

// TransactionType is what a lead wants to do.
type TransactionType string

const (
	TransactionBuy  TransactionType = "Buy"
	TransactionRent TransactionType = "Rent"
	TransactionSell TransactionType = "Sell"
)

func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionBuy, TransactionRent, TransactionSell:
		return true
	}
	return false
}

// LeadStatus tracks whether an enquiry is still being worked.
type LeadStatus string

const (
	LeadOpen   LeadStatus = "Open"
	LeadClosed LeadStatus = "Closed"
)

func (s LeadStatus) IsValid() bool {
	return s == LeadOpen || s == LeadClosed
}

// Role is the capability level of a user account.
type Role string

const (
	RoleAgent Role = "Agent"
	RoleBuyer Role = "Buyer"
	RoleAdmin Role = "Admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAgent, RoleBuyer, RoleAdmin:
		return true
	}
	return false
}

// UserStatus is the account lifecycle state.
type UserStatus string

const (
	UserCreated   UserStatus = "CREATED"
	UserPending   UserStatus = "PENDING"
	UserActive    UserStatus = "ACTIVE"
	UserSuspended UserStatus = "SUSPENDED"
)

func (s UserStatus) IsValid() bool {
	switch s {
	case UserCreated, UserPending, UserActive, UserSuspended:
		return true
	}
	return false
}

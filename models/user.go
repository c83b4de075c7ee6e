package models

import (
	"time"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleCustomer   UserRole = "customer"
	RoleRestaurant UserRole = "restaurant"
	RoleAdmin      UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleCustomer, RoleRestaurant, RoleAdmin:
		return true
	}
	return false
}

// VerificationStatus tracks review of a restaurant user's documents
type VerificationStatus string

const (
	VerificationNotSubmitted VerificationStatus = "not_submitted"
	VerificationPending      VerificationStatus = "pending_verification"
	VerificationVerified     VerificationStatus = "verified"
	VerificationRejected     VerificationStatus = "rejected"
)

// DocumentKind names one of the documents a restaurant user can upload
type DocumentKind string

const (
	DocBusinessLicense       DocumentKind = "business_license"
	DocFoodSafetyCertificate DocumentKind = "food_safety_certificate"
	DocIdentityProof         DocumentKind = "identity_proof"
)

func (k DocumentKind) Valid() bool {
	switch k {
	case DocBusinessLicense, DocFoodSafetyCertificate, DocIdentityProof:
		return true
	}
	return false
}

type UserAddress struct {
	AddressLine1 string `json:"address_line1" bson:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty" bson:"address_line2,omitempty"`
	City         string `json:"city" bson:"city"`
	State        string `json:"state" bson:"state"`
	PostalCode   string `json:"postal_code" bson:"postal_code"`
	IsDefault    bool   `json:"is_default" bson:"is_default"`
}

type Document struct {
	URL        string     `json:"url" bson:"url"`
	Verified   bool       `json:"verified" bson:"verified"`
	UploadedAt *time.Time `json:"uploaded_at,omitempty" bson:"uploaded_at,omitempty"`
}

type UserDocuments struct {
	BusinessLicense       *Document `json:"business_license,omitempty" bson:"business_license,omitempty"`
	FoodSafetyCertificate *Document `json:"food_safety_certificate,omitempty" bson:"food_safety_certificate,omitempty"`
	IdentityProof         *Document `json:"identity_proof,omitempty" bson:"identity_proof,omitempty"`
}

// Set stores doc under kind. Unknown kinds are ignored.
func (d *UserDocuments) Set(kind DocumentKind, doc *Document) {
	switch kind {
	case DocBusinessLicense:
		d.BusinessLicense = doc
	case DocFoodSafetyCertificate:
		d.FoodSafetyCertificate = doc
	case DocIdentityProof:
		d.IdentityProof = doc
	}
}

// MarkVerified flips the verified flag on every uploaded document.
func (d *UserDocuments) MarkVerified(ok bool) {
	for _, doc := range []*Document{d.BusinessLicense, d.FoodSafetyCertificate, d.IdentityProof} {
		if doc != nil {
			doc.Verified = ok
		}
	}
}

type User struct {
	ID                         string             `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	Name                       string             `json:"name" gorm:"not null" bson:"name"`
	Email                      string             `json:"email" gorm:"uniqueIndex;not null" bson:"email"`
	Phone                      string             `json:"phone" bson:"phone"`
	PasswordHash               string             `json:"-" gorm:"not null" bson:"password_hash"`
	Role                       UserRole           `json:"role" gorm:"not null;index" bson:"role"`
	Addresses                  []UserAddress      `json:"addresses" gorm:"serializer:json;type:text" bson:"addresses"`
	Documents                  UserDocuments      `json:"documents" gorm:"serializer:json;type:text" bson:"documents"`
	DocumentVerificationStatus VerificationStatus `json:"document_verification_status" bson:"document_verification_status"`
	CreatedAt                  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt                  time.Time          `json:"updated_at" bson:"updated_at"`
}

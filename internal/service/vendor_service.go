package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- Address DTO ---

type AddressPayload struct {
	AddressType string `json:"address_type"`
	FullAddress string `json:"full_address"`
	IsDefault   bool   `json:"is_default"`
}

type AddressResponse struct {
	ID          uuid.UUID `json:"id"`
	VendorID    uuid.UUID `json:"vendor_id"`
	AddressType string    `json:"address_type"`
	FullAddress string    `json:"full_address"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// --- Vendor DTOs ---

type CreateVendorRequest struct {
	Name          string           `json:"name" binding:"required"`
	Gstin         string           `json:"gstin"`
	Pan           string           `json:"pan"`
	BankAccount   string           `json:"bank_account"`
	ContactPerson string           `json:"contact_person"`
	Phone         string           `json:"phone"`
	Email         string           `json:"email"`
	Addresses     []AddressPayload `json:"addresses"`
}

type UpdateVendorRequest struct {
	Name          *string           `json:"name"`
	Gstin         *string           `json:"gstin"`
	Pan           *string           `json:"pan"`
	BankAccount   *string           `json:"bank_account"`
	ContactPerson *string           `json:"contact_person"`
	Phone         *string           `json:"phone"`
	Email         *string           `json:"email"`
	IsActive      *bool             `json:"is_active"`
	Addresses     *[]AddressPayload `json:"addresses"` // pointer so nil = not sent, [] = clear all
}

type VendorResponse struct {
	ID            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	Gstin         string            `json:"gstin"`
	Pan           string            `json:"pan"`
	BankAccount   string            `json:"bank_account"`
	ContactPerson string            `json:"contact_person"`
	Phone         string            `json:"phone"`
	Email         string            `json:"email"`
	IsActive      bool              `json:"is_active"`
	Addresses     []AddressResponse `json:"addresses"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// --- Interface ---

type VendorService interface {
	CreateVendor(ctx context.Context, userID string, req CreateVendorRequest) (VendorResponse, error)
	UpdateVendor(ctx context.Context, userID, id string, req UpdateVendorRequest) (VendorResponse, error)
	DeleteVendor(ctx context.Context, id string) error
	GetVendor(ctx context.Context, id string) (VendorResponse, error)
	GetVendors(ctx context.Context, search string, page, limit int) ([]VendorResponse, int64, error)
}

// --- Implementation ---

type vendorService struct {
	vendorRepo repository.VendorRepository
	auditRepo  repository.AuditRepository
	txManager  repository.TransactionManager
}

func NewVendorService(vendorRepo repository.VendorRepository, auditRepo repository.AuditRepository, txManager repository.TransactionManager) VendorService {
	return &vendorService{vendorRepo: vendorRepo, auditRepo: auditRepo, txManager: txManager}
}

// --- Validation helpers ---

var validAddressTypes = map[string]bool{
	model.AddressTypeBilling:  true,
	model.AddressTypeDelivery: true,
}

func validateAddresses(addresses []AddressPayload) error {
	for i, addr := range addresses {
		if !validAddressTypes[addr.AddressType] {
			return &ValidationError{Field: fmt.Sprintf("addresses[%d].address_type", i), Message: "must be one of: BILLING, DELIVERY"}
		}
		if addr.FullAddress == "" {
			return &ValidationError{Field: fmt.Sprintf("addresses[%d].full_address", i), Message: "is required"}
		}
	}
	return nil
}

func toAddressModels(vendorID uuid.UUID, payloads []AddressPayload) []model.VendorAddress {
	addresses := make([]model.VendorAddress, 0, len(payloads))
	for _, p := range payloads {
		addresses = append(addresses, model.VendorAddress{
			VendorID:    vendorID,
			AddressType: p.AddressType,
			FullAddress: p.FullAddress,
			IsDefault:   p.IsDefault,
		})
	}
	return addresses
}

// --- CRUD ---

func (s *vendorService) CreateVendor(ctx context.Context, userID string, req CreateVendorRequest) (VendorResponse, error) {
	actorID, err := uuid.Parse(userID)
	if err != nil {
		return VendorResponse{}, &ValidationError{Field: "user_id", Message: "invalid uuid"}
	}
	if req.Name == "" {
		return VendorResponse{}, &ValidationError{Field: "name", Message: "is required"}
	}
	if req.Email != "" {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return VendorResponse{}, &ValidationError{Field: "email", Message: "invalid email format"}
		}
	}
	if err := validateAddresses(req.Addresses); err != nil {
		return VendorResponse{}, err
	}

	vendor := &model.Vendor{
		Name:          req.Name,
		Gstin:         req.Gstin,
		Pan:           req.Pan,
		BankAccount:   req.BankAccount,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		IsActive:      true,
		Addresses:     toAddressModels(uuid.Nil, req.Addresses), // GORM fills VendorID on cascade create
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.vendorRepo.Create(txCtx, vendor); err != nil {
			return fmt.Errorf("failed to create vendor: %w", err)
		}
		audit := &model.AuditLog{
			UserID:     &actorID,
			Action:     model.ActionCreateVendor,
			EntityID:   vendor.ID.String(),
			EntityName: vendor.Name,
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return VendorResponse{}, err
	}

	return toVendorResponse(*vendor), nil
}

func (s *vendorService) UpdateVendor(ctx context.Context, userID, id string, req UpdateVendorRequest) (VendorResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return VendorResponse{}, &ValidationError{Field: "id", Message: "invalid uuid"}
	}
	actorID, err := uuid.Parse(userID)
	if err != nil {
		return VendorResponse{}, &ValidationError{Field: "user_id", Message: "invalid uuid"}
	}

	vendor, err := s.vendorRepo.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return VendorResponse{}, ErrNotFound
		}
		return VendorResponse{}, fmt.Errorf("failed to fetch vendor: %w", err)
	}

	if req.Name != nil {
		if *req.Name == "" {
			return VendorResponse{}, &ValidationError{Field: "name", Message: "cannot be empty"}
		}
		vendor.Name = *req.Name
	}
	if req.Email != nil && *req.Email != "" {
		if _, err := mail.ParseAddress(*req.Email); err != nil {
			return VendorResponse{}, &ValidationError{Field: "email", Message: "invalid email format"}
		}
		vendor.Email = *req.Email
	} else if req.Email != nil {
		vendor.Email = ""
	}
	if req.Gstin != nil {
		vendor.Gstin = *req.Gstin
	}
	if req.Pan != nil {
		vendor.Pan = *req.Pan
	}
	if req.BankAccount != nil {
		vendor.BankAccount = *req.BankAccount
	}
	if req.ContactPerson != nil {
		vendor.ContactPerson = *req.ContactPerson
	}
	if req.Phone != nil {
		vendor.Phone = *req.Phone
	}
	if req.IsActive != nil {
		vendor.IsActive = *req.IsActive
	}

	if req.Addresses != nil {
		if err := validateAddresses(*req.Addresses); err != nil {
			return VendorResponse{}, err
		}
	}

	// Update + address replacement run in one transaction
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.vendorRepo.Update(txCtx, vendor); err != nil {
			return fmt.Errorf("failed to update vendor: %w", err)
		}

		// Replace addresses if provided (delete-all + re-create strategy)
		if req.Addresses != nil {
			if err := s.vendorRepo.DeleteAddressesByVendorID(txCtx, uid); err != nil {
				return fmt.Errorf("failed to delete old addresses: %w", err)
			}
			newAddrs := toAddressModels(uid, *req.Addresses)
			if err := s.vendorRepo.CreateAddresses(txCtx, newAddrs); err != nil {
				return fmt.Errorf("failed to create addresses: %w", err)
			}
			vendor.Addresses = newAddrs
		}

		audit := &model.AuditLog{
			UserID:     &actorID,
			Action:     model.ActionUpdateVendor,
			EntityID:   vendor.ID.String(),
			EntityName: vendor.Name,
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}

		return nil
	})
	if err != nil {
		return VendorResponse{}, err
	}

	return toVendorResponse(*vendor), nil
}

func (s *vendorService) DeleteVendor(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return &ValidationError{Field: "id", Message: "invalid uuid"}
	}
	return s.vendorRepo.Delete(ctx, uid)
}

func (s *vendorService) GetVendor(ctx context.Context, id string) (VendorResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return VendorResponse{}, &ValidationError{Field: "id", Message: "invalid uuid"}
	}
	vendor, err := s.vendorRepo.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return VendorResponse{}, ErrNotFound
		}
		return VendorResponse{}, fmt.Errorf("failed to fetch vendor: %w", err)
	}
	return toVendorResponse(*vendor), nil
}

func (s *vendorService) GetVendors(ctx context.Context, search string, page, limit int) ([]VendorResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	vendors, total, err := s.vendorRepo.List(ctx, search, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch vendors: %w", err)
	}

	res := make([]VendorResponse, 0, len(vendors))
	for _, v := range vendors {
		res = append(res, toVendorResponse(v))
	}

	return res, total, nil
}

// --- Response mappers ---

func toVendorResponse(v model.Vendor) VendorResponse {
	addresses := make([]AddressResponse, 0, len(v.Addresses))
	for _, a := range v.Addresses {
		addresses = append(addresses, AddressResponse{
			ID:          a.ID,
			VendorID:    a.VendorID,
			AddressType: a.AddressType,
			FullAddress: a.FullAddress,
			IsDefault:   a.IsDefault,
			CreatedAt:   a.CreatedAt,
			UpdatedAt:   a.UpdatedAt,
		})
	}

	return VendorResponse{
		ID:            v.ID,
		Name:          v.Name,
		Gstin:         v.Gstin,
		Pan:           v.Pan,
		BankAccount:   v.BankAccount,
		ContactPerson: v.ContactPerson,
		Phone:         v.Phone,
		Email:         v.Email,
		IsActive:      v.IsActive,
		Addresses:     addresses,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}

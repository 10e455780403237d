package repository

import (
	"context"

	"github.com/anthonykurieh/voice-facilitator/internal/domain"

	"gorm.io/gorm"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) GetByPhone(ctx context.Context, businessID int64, phone string) (*domain.Customer, error) {
	var c domain.Customer
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND phone = ?", businessID, phone).
		First(&c).Error
	if err != nil {
		return nil, wrapStoreErr("get customer", err)
	}
	return &c, nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	var c domain.Customer
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, wrapStoreErr("get customer", err)
	}
	return &c, nil
}

// Upsert creates or updates a customer keyed on phone number. Existing
// non-blank names and emails are kept; blanks are filled in when the
// caller supplies a value.
func (r *CustomerRepository) Upsert(ctx context.Context, businessID int64, phone, name, email string) (*domain.Customer, error) {
	if phone == "" {
		return nil, &domain.InvalidInputError{Field: "phone", Reason: "required"}
	}

	var out *domain.Customer
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c domain.Customer
		err := tx.Where("business_id = ? AND phone = ?", businessID, phone).First(&c).Error
		if err == nil {
			updates := map[string]any{}
			if c.Name == "" && name != "" {
				updates["name"] = name
			}
			if c.Email == "" && email != "" {
				updates["email"] = email
			}
			if len(updates) > 0 {
				if err := tx.Model(&c).Updates(updates).Error; err != nil {
					return err
				}
			}
			out = &c
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		c = domain.Customer{BusinessID: businessID, Phone: phone, Name: name, Email: email}
		if err := tx.Create(&c).Error; err != nil {
			return err
		}
		out = &c
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr("upsert customer", err)
	}
	return out, nil
}

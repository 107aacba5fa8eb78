package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/zenirmoveis/assistant/internal/models"
)

type CartRecoveryInput struct {
	ClientID           string
	ClientName         string
	Email              string
	ProductDescription string
}

type CartRecoveryRecord struct {
	Client        models.Client
	Product       models.Product
	ClientCreated bool
	ClientUpdated bool
}

// SaveCartRecovery get-or-creates the client keyed strictly by id and
// creates the abandoned product, both in one transaction. An existing client
// only gets name and email backfilled when its stored name is empty.
func (r *GormRepo) SaveCartRecovery(ctx context.Context, in CartRecoveryInput) (*CartRecoveryRecord, error) {
	var rec CartRecoveryRecord

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found := tx.Where("id = ?", in.ClientID).Limit(1).Find(&rec.Client)
		switch {
		case found.Error != nil:
			return found.Error
		case found.RowsAffected == 0:
			rec.Client = models.Client{
				ID:     in.ClientID,
				Name:   in.ClientName,
				Email:  in.Email,
				Active: true,
			}
			if err := tx.Create(&rec.Client).Error; err != nil {
				return err
			}
			rec.ClientCreated = true
		case rec.Client.Name == "" && in.ClientName != "":
			if err := tx.Model(&rec.Client).Updates(map[string]any{
				"name":  in.ClientName,
				"email": in.Email,
			}).Error; err != nil {
				return err
			}
			rec.Client.Name = in.ClientName
			rec.Client.Email = in.Email
			rec.ClientUpdated = true
		}

		clientID := rec.Client.ID
		rec.Product = models.Product{
			Description: in.ProductDescription,
			ClientID:    &clientID,
		}
		return tx.Create(&rec.Product).Error
	})
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

func (r *GormRepo) GetClient(ctx context.Context, id string) (*models.Client, error) {
	var client models.Client
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *GormRepo) ProductsByClient(ctx context.Context, clientID string) ([]models.Product, error) {
	var items []models.Product
	if err := r.DB.WithContext(ctx).Where("client_id = ?", clientID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

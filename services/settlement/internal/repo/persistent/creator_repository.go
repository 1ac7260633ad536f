package persistent

import (
	"errors"

	"consultly/services/settlement/internal/entity"
	"consultly/services/settlement/internal/model"

	"gorm.io/gorm"
)

var ErrCreatorNotFound = errors.New("creator not found")

type CreatorRepository interface {
	GetByID(id string) (*entity.Creator, error)
	Create(creator *model.CreatorModel) error
}

type creatorRepository struct {
	db *gorm.DB
}

func NewCreatorRepository(db *gorm.DB) CreatorRepository {
	return &creatorRepository{db: db}
}

func (r *creatorRepository) GetByID(id string) (*entity.Creator, error) {
	var creatorModel model.CreatorModel
	if err := r.db.Where("id = ?", id).First(&creatorModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCreatorNotFound
		}
		return nil, err
	}
	return ToCreatorEntity(&creatorModel), nil
}

func (r *creatorRepository) Create(creator *model.CreatorModel) error {
	return r.db.Create(creator).Error
}

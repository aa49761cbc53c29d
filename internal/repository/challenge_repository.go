package repository

import (
	"github.com/giaic/promptnights/internal/model"
	"gorm.io/gorm"
)

type ChallengeRepository interface {
	Create(challenge *model.Challenge) error
	FindByID(id uint) (*model.Challenge, error)
	FindByDayNumber(dayNumber int) (*model.Challenge, error)
	FindAll() ([]model.Challenge, error)
}

type challengeRepository struct {
	db *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) ChallengeRepository {
	return &challengeRepository{db: db}
}

func (r *challengeRepository) Create(challenge *model.Challenge) error {
	return r.db.Create(challenge).Error
}

func (r *challengeRepository) FindByID(id uint) (*model.Challenge, error) {
	var challenge model.Challenge
	if err := r.db.First(&challenge, id).Error; err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (r *challengeRepository) FindByDayNumber(dayNumber int) (*model.Challenge, error) {
	var challenge model.Challenge
	if err := r.db.First(&challenge, "day_number = ?", dayNumber).Error; err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (r *challengeRepository) FindAll() ([]model.Challenge, error) {
	var challenges []model.Challenge
	if err := r.db.Order("day_number asc").Find(&challenges).Error; err != nil {
		return nil, err
	}
	return challenges, nil
}

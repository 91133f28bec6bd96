package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/diary-backend/internal/logger"
	"github.com/yungbote/diary-backend/internal/types"
)

type ParameterRepo interface {
	ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Parameter, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Parameter, error)
	GetByKey(ctx context.Context, tx *gorm.DB, key string) (*types.Parameter, error)
	Create(ctx context.Context, tx *gorm.DB, param *types.Parameter) (*types.Parameter, error)
	UpsertByKey(ctx context.Context, tx *gorm.DB, key, name string) (*types.Parameter, bool, error)
	SetActive(ctx context.Context, tx *gorm.DB, key string, active bool) error
}

type parameterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewParameterRepo(db *gorm.DB, baseLog *logger.Logger) ParameterRepo {
	repoLog := baseLog.With("repo", "ParameterRepo")
	return &parameterRepo{db: db, log: repoLog}
}

func (r *parameterRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Parameter, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var params []*types.Parameter
	if err := transaction.WithContext(ctx).Where("is_active = ?", true).Order("name").Find(&params).Error; err != nil {
		return nil, err
	}
	return params, nil
}

func (r *parameterRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Parameter, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var params []*types.Parameter
	if err := transaction.WithContext(ctx).Order("name").Find(&params).Error; err != nil {
		return nil, err
	}
	return params, nil
}

func (r *parameterRepo) GetByKey(ctx context.Context, tx *gorm.DB, key string) (*types.Parameter, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var param types.Parameter
	if err := transaction.WithContext(ctx).Where("key = ?", key).First(&param).Error; err != nil {
		return nil, err
	}
	return &param, nil
}

func (r *parameterRepo) Create(ctx context.Context, tx *gorm.DB, param *types.Parameter) (*types.Parameter, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(param).Error; err != nil {
		return nil, err
	}
	r.log.Debug("Created parameter", "key", param.Key, "name", param.Name)
	return param, nil
}

// UpsertByKey creates the parameter or refreshes its display name, leaving it
// active either way. The bool reports whether a new row was created.
func (r *parameterRepo) UpsertByKey(ctx context.Context, tx *gorm.DB, key, name string) (*types.Parameter, bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var param types.Parameter
	err := transaction.WithContext(ctx).Where("key = ?", key).First(&param).Error
	if err == nil {
		param.Name = name
		param.IsActive = true
		if err := transaction.WithContext(ctx).Save(&param).Error; err != nil {
			return nil, false, err
		}
		return &param, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, err
	}
	param = types.Parameter{Key: key, Name: name, IsActive: true}
	if err := transaction.WithContext(ctx).Create(&param).Error; err != nil {
		return nil, false, err
	}
	return &param, true, nil
}

func (r *parameterRepo) SetActive(ctx context.Context, tx *gorm.DB, key string, active bool) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Parameter{}).
		Where("key = ?", key).
		Update("is_active", active).Error
}

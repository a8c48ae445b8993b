package repository

import (
	"ReaView/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const slotBatchSize = 500

// IDSlotRepo 主键回收分配器
// 释放的主键写入空闲表，分配时取 min(最小空闲位, MAX(id)+1)，整个过程持有分配器行锁
// Allocate 与 Release 必须在业务事务内调用 (WithTx)
type IDSlotRepo interface {
	WithTx(tx *gorm.DB) IDSlotRepo
	Allocate(ctx context.Context, table string) (uint64, error)
	Release(ctx context.Context, table string, id uint64) error
	Rebuild(ctx context.Context, table string) (int, error)
	CountFreeSlots(ctx context.Context, table string) (int64, error)
}

type IDSlotRepoImpl struct {
	db *gorm.DB
}

func NewIDSlotRepo(db *gorm.DB) IDSlotRepo {
	return &IDSlotRepoImpl{db: db}
}

func (s *IDSlotRepoImpl) WithTx(tx *gorm.DB) IDSlotRepo {
	return &IDSlotRepoImpl{db: tx}
}

// lock 锁定指定表的分配器行，不存在时先插入
func (s *IDSlotRepoImpl) lock(db *gorm.DB, table string) error {
	err := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.IDAllocator{TargetTable: table, UpdatedAt: time.Now()}).Error
	if err != nil {
		return err
	}
	var alloc model.IDAllocator
	return db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("target_table = ?", table).
		First(&alloc).Error
}

func (s *IDSlotRepoImpl) maxID(db *gorm.DB, table string) (uint64, error) {
	var maxID uint64
	err := db.Table(table).Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error
	return maxID, err
}

// Allocate 返回最小可用主键
func (s *IDSlotRepoImpl) Allocate(ctx context.Context, table string) (uint64, error) {
	db := s.db.WithContext(ctx)
	if err := s.lock(db, table); err != nil {
		return 0, err
	}

	maxID, err := s.maxID(db, table)
	if err != nil {
		return 0, err
	}

	for {
		var slot model.IDFreeSlot
		err = db.Where("target_table = ? AND slot_id <= ?", table, maxID).
			Order("slot_id asc").
			Limit(1).
			Find(&slot).Error
		if err != nil {
			return 0, err
		}
		if slot.SlotID == 0 {
			break
		}
		if err = db.Where("target_table = ? AND slot_id = ?", table, slot.SlotID).
			Delete(&model.IDFreeSlot{}).Error; err != nil {
			return 0, err
		}

		// 空闲表可能滞后于实际数据，已被占用的位直接丢弃
		var occupied int64
		if err = db.Table(table).Where("id = ?", slot.SlotID).Count(&occupied).Error; err != nil {
			return 0, err
		}
		if occupied == 0 {
			return slot.SlotID, nil
		}
	}

	// 大于 MAX(id) 的空闲位已无意义
	if err = db.Where("target_table = ? AND slot_id > ?", table, maxID).
		Delete(&model.IDFreeSlot{}).Error; err != nil {
		return 0, err
	}
	return maxID + 1, nil
}

// Release 登记被删除记录的主键
func (s *IDSlotRepoImpl) Release(ctx context.Context, table string, id uint64) error {
	if id == 0 {
		return nil
	}
	db := s.db.WithContext(ctx)
	if err := s.lock(db, table); err != nil {
		return err
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.IDFreeSlot{TargetTable: table, SlotID: id, CreatedAt: time.Now()}).Error
}

// Rebuild 全表扫描重建空闲表，返回空位数量
func (s *IDSlotRepoImpl) Rebuild(ctx context.Context, table string) (int, error) {
	var gaps int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.lock(tx, table); err != nil {
			return err
		}

		var ids []uint64
		if err := tx.Table(table).Order("id asc").Pluck("id", &ids).Error; err != nil {
			return err
		}

		if err := tx.Where("target_table = ?", table).Delete(&model.IDFreeSlot{}).Error; err != nil {
			return err
		}

		now := time.Now()
		slots := make([]*model.IDFreeSlot, 0)
		next := uint64(1)
		for _, id := range ids {
			for ; next < id; next++ {
				slots = append(slots, &model.IDFreeSlot{TargetTable: table, SlotID: next, CreatedAt: now})
			}
			next = id + 1
		}
		gaps = len(slots)
		if gaps == 0 {
			return nil
		}
		return tx.CreateInBatches(slots, slotBatchSize).Error
	})
	if err != nil {
		return 0, err
	}
	return gaps, nil
}

func (s *IDSlotRepoImpl) CountFreeSlots(ctx context.Context, table string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.IDFreeSlot{}).
		Where("target_table = ?", table).
		Count(&count).Error
	return count, err
}

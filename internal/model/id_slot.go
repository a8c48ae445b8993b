package model

import (
	"time"
)

// IDAllocator 每张参与回收的表一行，分配时对该行加 FOR UPDATE 锁
type IDAllocator struct {
	TargetTable string `gorm:"primaryKey;type:varchar(64)"`
	UpdatedAt   time.Time
}

func (IDAllocator) TableName() string {
	return "id_allocators"
}

type IDFreeSlot struct {
	TargetTable string `gorm:"primaryKey;type:varchar(64)"`
	SlotID      uint64 `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt   time.Time
}

func (IDFreeSlot) TableName() string {
	return "id_free_slots"
}

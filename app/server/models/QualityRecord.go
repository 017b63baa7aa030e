package models

import "time"

type QualityRecord struct {
	ID uint `gorm:"column:id;primaryKey"`

	// 批次名称
	Name string `gorm:"column:name;not null"`

	// 质量指标，百分比含量，保留两位小数
	Iron     float64 `gorm:"column:iron;type:numeric(5,2);not null"`
	Silicon  float64 `gorm:"column:silicon;type:numeric(5,2);not null"`
	Aluminum float64 `gorm:"column:aluminum;type:numeric(5,2);not null"`
	Calcium  float64 `gorm:"column:calcium;type:numeric(5,2);not null"`
	Sulfur   float64 `gorm:"column:sulfur;type:numeric(5,2);not null"`

	// 统计周期，与 CreatedBy 一起构成查询键
	Month int `gorm:"column:month;not null;index:idx_quality_period,priority:1"`
	Year  int `gorm:"column:year;not null;index:idx_quality_period,priority:2"`

	CreatedAt time.Time `gorm:"column:created_at"`
	CreatedBy uint      `gorm:"column:created_by;index:idx_quality_period,priority:3"`

	// 连接模型时使用
	Creator *User `gorm:"foreignKey:CreatedBy"`
}

func (QualityRecord) TableName() string {
	return "concentrate_quality"
}

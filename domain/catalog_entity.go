package domain

import (
	"github.com/fundwit/go-commons/types"
)

// Discipline is an engineering specialty, used to scope activities and approvers.
type Discipline struct {
	ID   types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	Name string   `json:"name" gorm:"unique_index:uni_discipline_name" binding:"required,lte=255"`
}

type Plant struct {
	ID   types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	Name string   `json:"name" gorm:"unique_index:uni_plant_name" binding:"required,lte=255"`
}

type Note struct {
	ID      types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	Content string   `json:"content" gorm:"type:varchar(1000)" binding:"required,lte=1000"`
}

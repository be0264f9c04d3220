package account

import "github.com/fundwit/go-commons/types"

type User struct {
	ID     types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	Name   string   `json:"name" gorm:"unique_index:uni_user_name"`
	Secret string   `json:"secret"`

	Nickname     string   `json:"nickname"`
	DisciplineID types.ID `json:"disciplineId"`
}

type UserInfo struct {
	ID           types.ID `json:"id"`
	Name         string   `json:"name"`
	Nickname     string   `json:"nickname"`
	DisciplineID types.ID `json:"disciplineId"`
}

type BasicAuthUpdating struct {
	OriginalSecret string `json:"originalSecret"`
	NewSecret      string `json:"newSecret" binding:"required,gte=6,lte=32"`
}

type UserCreation struct {
	Name         string   `json:"name" binding:"required,lte=32"`
	Secret       string   `json:"secret" binding:"required,gte=6,lte=32"`
	Nickname     string   `json:"nickname" binding:"omitempty,gte=1,lte=32"`
	DisciplineID types.ID `json:"disciplineId"`
}

func (u User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	} else {
		return u.Name
	}
}

func (u UserInfo) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	} else {
		return u.Name
	}
}

type Role struct {
	ID    string `json:"id" gorm:"primary_key"`
	Title string `json:"title"`
}

type Permission struct {
	ID    string `json:"id" gorm:"primary_key"`
	Title string `json:"title"`
}

type RolePermissionBinding struct {
	ID           types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	RoleID       string   `json:"roleId"`
	PermissionID string   `json:"permissionId"`
}

type UserRoleBinding struct {
	ID     types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	UserID types.ID `json:"userId" gorm:"index:idx_user_role_user"`
	RoleID string   `json:"roleId"`
}

package account

import (
	"context"
	"errors"
	"ertrack/authority"
	"ertrack/persistence"
	"os"
	"time"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/patrickmn/go-cache"
)

var (
	systemAdminRole        = Role{ID: "system-admin", Title: "System Administrator"}
	SystemAdminPermission  = Permission{ID: "system:admin", Title: "System Administration"}
	systemAdminRoleBinding = RolePermissionBinding{ID: 1, RoleID: systemAdminRole.ID, PermissionID: SystemAdminPermission.ID}

	leadEngineerRole        = Role{ID: "lead-engineer", Title: "Lead Engineer"}
	LeadEngineerPermission  = Permission{ID: "work:lead", Title: "Work Lead Engineering"}
	leadEngineerRoleBinding = RolePermissionBinding{ID: 2, RoleID: leadEngineerRole.ID, PermissionID: LeadEngineerPermission.ID}
)

// RoleDirectory resolves the permissions of a user. The workflow packages
// depend on this capability only, never on the cache behind it.
type RoleDirectory interface {
	PermsOf(uid types.ID) authority.Permissions
}

var (
	LoadPermsFunc = loadPerms

	permsCache    = cache.New(1*time.Minute, 1*time.Minute)
	DirectoryFunc = func() RoleDirectory { return cachedRoleDirectory{} }
)

func LoadPermsFuncReset() {
	LoadPermsFunc = loadPerms
}

// cachedRoleDirectory is a read-through cache over the role binding tables.
type cachedRoleDirectory struct{}

func (d cachedRoleDirectory) PermsOf(uid types.ID) authority.Permissions {
	if cached, found := permsCache.Get(uid.String()); found {
		if perms, ok := cached.(authority.Permissions); ok {
			return perms
		}
	}
	perms := LoadPermsFunc(uid)
	permsCache.Set(uid.String(), perms, cache.DefaultExpiration)
	return perms
}

func loadPerms(uid types.ID) authority.Permissions {
	var perms []string
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())

	var roles []string
	if err := db.Model(&UserRoleBinding{}).Where(&UserRoleBinding{UserID: uid}).Pluck("role_id", &roles).Error; err != nil {
		panic(err)
	}
	if len(roles) > 0 {
		if err := db.Model(&RolePermissionBinding{}).Where("role_id IN (?)", roles).Pluck("permission_id", &perms).Error; err != nil {
			panic(err)
		}
	}
	return perms
}

func DefaultSecurityConfiguration() error {
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	for _, r := range []Role{systemAdminRole, leadEngineerRole} {
		if err := db.Save(&r).Error; err != nil {
			return err
		}
	}
	for _, p := range []Permission{SystemAdminPermission, LeadEngineerPermission} {
		if err := db.Save(&p).Error; err != nil {
			return err
		}
	}
	for _, b := range []RolePermissionBinding{systemAdminRoleBinding, leadEngineerRoleBinding} {
		if err := db.Save(&b).Error; err != nil {
			return err
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		admin := User{}
		err := tx.Model(&User{}).Where(&User{ID: 1}).First(&admin).Error
		if err != nil && errors.Is(err, gorm.ErrRecordNotFound) {
			initialAdminPassword := os.Getenv("INITIAL_ADMIN_PASSWORD")
			if initialAdminPassword == "" {
				initialAdminPassword = "admin123"
			}
			if err := tx.Save(&User{ID: 1, Name: "admin", Secret: HashSha256(initialAdminPassword)}).Error; err != nil {
				return err
			}
		}
		return tx.Save(&UserRoleBinding{ID: 1, UserID: 1, RoleID: systemAdminRole.ID}).Error
	})
}

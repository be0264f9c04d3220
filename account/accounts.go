package account

import (
	"crypto/sha256"
	"encoding/hex"
	"ertrack/bizerror"
	"ertrack/domain"
	"ertrack/idgen"
	"ertrack/persistence"
	"ertrack/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	userIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateUserFunc = CreateUser
	QueryUsersFunc = QueryUsers
	DeleteUserFunc = DeleteUser
)

func HashSha256(raw string) string {
	h := sha256.New()
	h.Write([]byte(raw))
	sum := h.Sum(nil)
	return hex.EncodeToString(sum)
}

func UpdateBasicAuthSecret(u *BasicAuthUpdating, s *session.Session) error {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	user := User{}
	if err := db.Model(&User{}).Where(&User{ID: s.Identity.ID, Secret: HashSha256(u.OriginalSecret)}).Scan(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return bizerror.ErrInvalidPassword
		} else {
			return err
		}
	}

	return db.Model(&User{}).Where(&User{ID: s.Identity.ID, Secret: HashSha256(u.OriginalSecret)}).
		Update(&User{Secret: HashSha256(u.NewSecret)}).Error
}

func QueryUsers(s *session.Session) (*[]UserInfo, error) {
	var users []UserInfo
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	if err := db.Model(&User{}).Scan(&users).Error; err != nil {
		return nil, err
	}
	return &users, nil
}

func CreateUser(c *UserCreation, s *session.Session) (*UserInfo, error) {
	if !s.Perms.HasRole(SystemAdminPermission.ID) {
		return nil, bizerror.ErrForbidden
	}

	user := User{ID: idgen.NextID(userIdWorker), Name: c.Name, Secret: HashSha256(c.Secret),
		Nickname: c.Nickname, DisciplineID: c.DisciplineID}
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &UserInfo{ID: user.ID, Name: user.Name, Nickname: user.Nickname, DisciplineID: user.DisciplineID}, nil
}

// DeleteUser removes the user and its role bindings. Works led by the user are
// kept and become unassigned (lead_engineer_id cleared), never deleted.
func DeleteUser(userId types.ID, s *session.Session) error {
	if !s.Perms.HasRole(SystemAdminPermission.ID) {
		return bizerror.ErrForbidden
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Work{}).Where("lead_engineer_id = ?", userId).
			Update("lead_engineer_id", 0).Error; err != nil {
			return err
		}
		if err := tx.Where(&UserRoleBinding{UserID: userId}).Delete(&UserRoleBinding{}).Error; err != nil {
			return err
		}
		return tx.Where(&User{ID: userId}).Delete(&User{}).Error
	})
}

package catalog

import (
	"ertrack/account"
	"ertrack/bizerror"
	"ertrack/domain"
	"ertrack/idgen"
	"ertrack/persistence"
	"ertrack/session"

	"github.com/fundwit/go-commons/types"
	"github.com/sony/sonyflake"
)

var (
	catalogIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	QueryDisciplinesFunc = QueryDisciplines
	CreateDisciplineFunc = CreateDiscipline
	DeleteDisciplineFunc = DeleteDiscipline

	QueryPlantsFunc = QueryPlants
	CreatePlantFunc = CreatePlant
	DeletePlantFunc = DeletePlant

	QueryNotesFunc = QueryNotes
	CreateNoteFunc = CreateNote
	DeleteNoteFunc = DeleteNote
)

func QueryDisciplines(s *session.Session) (*[]domain.Discipline, error) {
	var records []domain.Discipline
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	if err := db.Order("name ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return &records, nil
}

func CreateDiscipline(d *domain.Discipline, s *session.Session) (*domain.Discipline, error) {
	if err := checkAdmin(s); err != nil {
		return nil, err
	}
	record := domain.Discipline{ID: idgen.NextID(catalogIdWorker), Name: d.Name}
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	if err := db.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func DeleteDiscipline(id types.ID, s *session.Session) error {
	if err := checkAdmin(s); err != nil {
		return err
	}
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	return db.Where(&domain.Discipline{ID: id}).Delete(&domain.Discipline{}).Error
}

func QueryPlants(s *session.Session) (*[]domain.Plant, error) {
	var records []domain.Plant
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	if err := db.Order("name ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return &records, nil
}

func CreatePlant(p *domain.Plant, s *session.Session) (*domain.Plant, error) {
	if err := checkAdmin(s); err != nil {
		return nil, err
	}
	record := domain.Plant{ID: idgen.NextID(catalogIdWorker), Name: p.Name}
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	if err := db.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func DeletePlant(id types.ID, s *session.Session) error {
	if err := checkAdmin(s); err != nil {
		return err
	}
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	return db.Where(&domain.Plant{ID: id}).Delete(&domain.Plant{}).Error
}

func QueryNotes(s *session.Session) (*[]domain.Note, error) {
	var records []domain.Note
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	if err := db.Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return &records, nil
}

func CreateNote(n *domain.Note, s *session.Session) (*domain.Note, error) {
	record := domain.Note{ID: idgen.NextID(catalogIdWorker), Content: n.Content}
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	if err := db.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func DeleteNote(id types.ID, s *session.Session) error {
	if err := checkAdmin(s); err != nil {
		return err
	}
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	return db.Where(&domain.Note{ID: id}).Delete(&domain.Note{}).Error
}

func checkAdmin(s *session.Session) error {
	if !s.Perms.HasRole(account.SystemAdminPermission.ID) {
		return bizerror.ErrForbidden
	}
	return nil
}

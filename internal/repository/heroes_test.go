package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/atinyakov/memorial/internal/models"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var heroRowColumns = []string{"id", "name", "birth_year", "death_year", "rank", "unit", "awards", "hometown", "region", "photo", "documents"}

func TestHeroList_Success(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresHeroRepository(db)

	rows := sqlmock.NewRows(heroRowColumns).
		AddRow(int64(1), "Иванов Иван", int64(1920), int64(1943), "Рядовой", "123 сд", "{Орден Славы,Медаль}", "Покровское", "Неклиновский район", "", []byte(`[{"url":"u","name":"n","type":"photo","uploadedAt":"2024"}]`)).
		AddRow(int64(2), "Петров Пётр", int64(1915), nil, "Сержант", "45 сп", "{}", "Троицкое", "Неклиновский район", "", []byte(`[]`))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT ` + heroColumns + ` FROM heroes ORDER BY id`)).WillReturnRows(rows)

	heroes, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(heroes) != 2 {
		t.Fatalf("expected 2 heroes, got %d", len(heroes))
	}
	first := heroes[0]
	if first.DeathYear == nil || *first.DeathYear != 1943 {
		t.Errorf("expected death year 1943, got %v", first.DeathYear)
	}
	if len(first.Awards) != 2 || first.Awards[0] != "Орден Славы" {
		t.Errorf("unexpected awards: %v", first.Awards)
	}
	if len(first.Documents) != 1 || first.Documents[0].Type != "photo" {
		t.Errorf("unexpected documents: %+v", first.Documents)
	}
	if heroes[1].DeathYear != nil {
		t.Errorf("expected missing hero, got death year %d", *heroes[1].DeathYear)
	}
	if heroes[1].Awards == nil {
		t.Error("expected empty awards slice, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestHeroList_QueryError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresHeroRepository(db)

	mock.ExpectQuery(`SELECT .* FROM heroes`).WillReturnError(errors.New("db down"))

	if _, err := repo.List(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestHeroGet_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresHeroRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM heroes WHERE id = $1`)).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(heroRowColumns))

	_, err := repo.Get(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestHeroCreate_ReturnsID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresHeroRepository(db)

	h := models.Hero{Name: "Иванов", BirthYear: 1920, Rank: "Рядовой", Unit: "1", Hometown: "Покровское", Region: "Неклиновский район"}
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO heroes`)).
		WithArgs("Иванов", 1920, nil, "Рядовой", "1", sqlmock.AnyArg(), "Покровское", "Неклиновский район", "", "[]").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := repo.Create(context.Background(), h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 7 {
		t.Errorf("expected id 7, got %d", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestHeroUpdate_NoRowsIsNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresHeroRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE heroes SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), models.Hero{ID: 3, Name: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestHeroDelete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresHeroRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM heroes WHERE id = $1`)).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM heroes WHERE id = $1`)).
		WithArgs(int64(6)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), 5); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := repo.Delete(context.Background(), 6); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

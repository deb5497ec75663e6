package repository

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"powermon-backend/internal/apperr"
	"powermon-backend/internal/domain"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *Repos) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := New(sqlx.NewDb(db, "sqlmock"))
	return db, mock, repo
}

func TestCreateDeviceWithModules_NumbersModulesDensely(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO devices`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	for i := 1; i <= 3; i++ {
		mock.ExpectQuery(`INSERT INTO modules`).
			WithArgs(int64(5), i).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10 + i))
	}
	mock.ExpectCommit()

	dev, err := repo.CreateDeviceWithModules(3)

	require.NoError(t, err)
	assert.Equal(t, int64(5), dev.ID)
	assert.Equal(t, 3, dev.NumberOfModules)
	require.Len(t, dev.Modules, 3)
	for i, m := range dev.Modules {
		assert.Equal(t, i+1, m.ModuleNumber)
		assert.Equal(t, int64(5), m.DeviceID)
		assert.Equal(t, 0, m.On, "modules start off")
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDeviceWithModules_RollsBackOnModuleInsertFailure(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO devices`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectQuery(`INSERT INTO modules`).
		WithArgs(int64(5), 1).
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	_, err := repo.CreateDeviceWithModules(2)

	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindModuleByNumber_NotFound(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM modules WHERE device_id`).
		WithArgs(int64(1), 4).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindModuleByNumber(1, 4)

	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindModuleByNumber_Found(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM modules WHERE device_id`).
		WithArgs(int64(1), 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "device_id", "module_number", "on"}).
			AddRow(11, 1, 2, 0))

	m, err := repo.FindModuleByNumber(1, 2)

	require.NoError(t, err)
	assert.Equal(t, int64(11), m.ID)
	assert.Equal(t, 2, m.ModuleNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertMeasurements_CommitsWholeBatch(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	ts := time.Date(2024, 1, 1, 0, 0, 10, 0, time.UTC)
	ms := []domain.Measurement{
		{ModuleID: 10, Timestamp: ts, Voltage: 230, Current: 1.2, Power: 276, Energy: 0.5, Frequency: 50, PowerFactor: 0.98},
		{ModuleID: 11, Timestamp: ts, Voltage: 231, Current: 1.1, Power: 254, Energy: 0.4, Frequency: 50, PowerFactor: 0.97},
	}

	mock.ExpectBegin()
	for _, m := range ms {
		mock.ExpectExec(`INSERT INTO measurements`).
			WithArgs(m.ModuleID, m.Timestamp, m.Voltage, m.Current, m.Power, m.Energy, m.Frequency, m.PowerFactor).
			WillReturnResult(sqlmock.NewResult(1, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, repo.InsertMeasurements(ms))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertMeasurements_RollsBackOnFailure(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	ts := time.Now()
	ms := []domain.Measurement{
		{ModuleID: 10, Timestamp: ts, Voltage: 230, Current: 1.2, Power: 276, Energy: 0.5, Frequency: 50, PowerFactor: 0.98},
		{ModuleID: 11, Timestamp: ts, Voltage: 231, Current: 1.1, Power: 254, Energy: 0.4, Frequency: 50, PowerFactor: 0.97},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO measurements`).
		WithArgs(ms[0].ModuleID, ms[0].Timestamp, ms[0].Voltage, ms[0].Current, ms[0].Power, ms[0].Energy, ms[0].Frequency, ms[0].PowerFactor).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO measurements`).
		WithArgs(ms[1].ModuleID, ms[1].Timestamp, ms[1].Voltage, ms[1].Current, ms[1].Power, ms[1].Energy, ms[1].Frequency, ms[1].PowerFactor).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	require.Error(t, repo.InsertMeasurements(ms))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetModuleMeasurements_ReturnsStoredFields(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	ts := time.Date(2024, 1, 1, 0, 0, 9, 800_000_000, time.UTC)

	mock.ExpectQuery(`SELECT (.+) FROM measurements WHERE module_id`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "module_id", "timestamp", "voltage", "current", "power", "energy", "frequency", "power_factor"}).
			AddRow(1, 10, ts, 230.0, 1.2, 276.0, 0.5, 50.0, 0.98).
			AddRow(2, 10, ts.Add(time.Second), 231.0, 1.1, 254.0, 0.4, 50.0, 0.97))

	out, err := repo.GetModuleMeasurements(10)

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, domain.Measurement{
		ID: 1, ModuleID: 10, Timestamp: ts,
		Voltage: 230.0, Current: 1.2, Power: 276.0,
		Energy: 0.5, Frequency: 50.0, PowerFactor: 0.98,
	}, out[0])
	assert.True(t, ts.Add(time.Second).Equal(out[1].Timestamp))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleModuleStatus_FlipsAndReturnsRow(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`UPDATE modules SET`).
		WithArgs(int64(1), 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "device_id", "module_number", "on"}).
			AddRow(11, 1, 2, 1))

	m, err := repo.ToggleModuleStatus(1, 2)

	require.NoError(t, err)
	assert.Equal(t, 1, m.On)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleModuleStatus_NotFound(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`UPDATE modules SET`).
		WithArgs(int64(1), 9).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.ToggleModuleStatus(1, 9)

	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeviceStatus_ProjectsModuleStatuses(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM devices WHERE id`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "number_of_modules"}).AddRow(5, 2))
	mock.ExpectQuery(`SELECT module_number, "on" FROM modules`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"module_number", "on"}).
			AddRow(1, 0).
			AddRow(2, 1))

	status, err := repo.DeviceStatus(5)

	require.NoError(t, err)
	assert.Equal(t, int64(5), status.DeviceID)
	assert.Equal(t, 2, status.NumberOfModules)
	require.Len(t, status.Modules, 2)
	assert.Equal(t, domain.ModuleStatus{ModuleNumber: 1, Status: 0}, status.Modules[0])
	assert.Equal(t, domain.ModuleStatus{ModuleNumber: 2, Status: 1}, status.Modules[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

package kiosk_test

import (
	"context"
	"errors"
	"testing"
	"time"

	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/hospital-kiosk/internal/kiosk"
)

var patientCols = []string{"id", "aadhaar", "name", "age", "gender", "phone", "visits", "created_at"}

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *kiosk.PgRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock, kiosk.NewPgRepository(mock)
}

func TestPgFindPatientByAadhaar(t *testing.T) {
	mock, repo := newMockRepo(t)
	visits := []byte(`[{"date":"2025-11-10","department":"Ophthalmologist","doctor":"Dr. Sunil Verma","fee":450,"token":"A12","status":"Completed"}]`)

	mock.ExpectQuery("FROM patients").
		WithArgs(nishaAadhaar).
		WillReturnRows(pgxmock.NewRows(patientCols).
			AddRow("p-1", nishaAadhaar, "Nisha Reddy", 29, "Female", "9123456780", visits, epoch))

	p, err := repo.FindPatientByAadhaar(context.Background(), nishaAadhaar)
	require.NoError(t, err)
	assert.Equal(t, "p-1", p.ID)
	assert.Equal(t, "Nisha Reddy", p.Name)
	require.Len(t, p.Visits, 1)
	assert.Equal(t, "A12", p.Visits[0].Token)
	assert.Equal(t, 450, p.Visits[0].Fee)
}

func TestPgFindPatientNotFound(t *testing.T) {
	mock, repo := newMockRepo(t)
	mock.ExpectQuery("FROM patients").WithArgs("9000000000").WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindPatientByPhone(context.Background(), "9000000000")
	assert.ErrorIs(t, err, kiosk.ErrPatientNotFound)
}

func TestPgNamePrefixEscapesWildcards(t *testing.T) {
	mock, repo := newMockRepo(t)
	mock.ExpectQuery("WHERE name LIKE").WithArgs(`50\%\_off`).WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindPatientByNamePrefix(context.Background(), "50%_off")
	assert.ErrorIs(t, err, kiosk.ErrPatientNotFound)
}

func TestPgCreatePatient(t *testing.T) {
	mock, repo := newMockRepo(t)
	mock.ExpectExec("INSERT INTO patients").
		WithArgs(pgxmock.AnyArg(), arjunAadhaar, "Arjun Sharma", 34, "Male", "9876543210", []byte("[]"), epoch).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	p, err := repo.CreatePatient(context.Background(), kiosk.Patient{
		Aadhaar: arjunAadhaar, Name: "Arjun Sharma", Age: 34, Gender: "Male", Phone: "9876543210", CreatedAt: epoch,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
}

func TestPgCreatePatientError(t *testing.T) {
	mock, repo := newMockRepo(t)
	mock.ExpectExec("INSERT INTO patients").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.CreatePatient(context.Background(), kiosk.Patient{Name: "Ravi", CreatedAt: epoch})
	assert.ErrorContains(t, err, "insert patient")
}

func TestPgListDoctorsByDepartment(t *testing.T) {
	mock, repo := newMockRepo(t)
	cols := []string{"id", "name", "department", "qualification", "experience", "fee",
		"available_slots", "image_url", "bio", "education", "languages"}
	mock.ExpectQuery("FROM doctors").
		WithArgs("cardiologist").
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow("c1", "Dr. Ramesh Gupta", "cardiologist", "DM Cardiology, MD", "18 years", 700,
				[]byte(`["8:00 AM","8:30 AM"]`), "", "", "", []byte(`["English","Hindi"]`)).
			AddRow("c2", "Dr. Meena Iyer", "cardiologist", "MD, DM Cardiology", "11 years", 650,
				[]byte(`["10:00 AM"]`), "", "", "", []byte(`null`)))

	docs, err := repo.ListDoctorsByDepartment(context.Background(), "cardiologist")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, []string{"8:00 AM", "8:30 AM"}, docs[0].AvailableSlots)
	assert.Equal(t, []string{"English", "Hindi"}, docs[0].Languages)
	assert.Nil(t, docs[1].Languages)
}

func TestPgUpsertDoctor(t *testing.T) {
	mock, repo := newMockRepo(t)
	d := kiosk.DefaultDoctors[6]
	mock.ExpectExec("ON CONFLICT \\(id\\) DO UPDATE").
		WithArgs(d.ID, d.Name, d.Department, d.Qualification, d.Experience, d.Fee,
			pgxmock.AnyArg(), d.ImageURL, d.Bio, d.Education, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.UpsertDoctor(context.Background(), d))
}

func TestPgAppointments(t *testing.T) {
	mock, repo := newMockRepo(t)
	a := kiosk.Appointment{
		AppointmentID: "SC2603141234", PatientID: "p-1", PatientName: "Nisha Reddy",
		DoctorID: "c1", DoctorName: "Dr. Ramesh Gupta", Department: "Cardiologist",
		Slot: "8:00 AM", Date: "14/3/2026", Fee: 700, PaymentStatus: kiosk.PaymentStatusPaid,
		TokenNumber: 1, CreatedAt: epoch,
	}

	mock.ExpectExec("INSERT INTO appointments").
		WithArgs(a.AppointmentID, a.PatientID, a.PatientName, a.DoctorID, a.DoctorName,
			a.Department, a.Slot, a.Date, a.Fee, a.PaymentStatus, a.TokenNumber, a.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, repo.CreateAppointment(context.Background(), a))

	cols := []string{"appointment_id", "patient_id", "patient_name", "doctor_id", "doctor_name",
		"department", "slot", "visit_date", "fee", "payment_status", "token_number", "created_at"}
	mock.ExpectQuery("FROM appointments").
		WithArgs("p-1").
		WillReturnRows(pgxmock.NewRows(cols).AddRow(a.AppointmentID, a.PatientID, a.PatientName,
			a.DoctorID, a.DoctorName, a.Department, a.Slot, a.Date, a.Fee, a.PaymentStatus,
			a.TokenNumber, a.CreatedAt))

	got, err := repo.ListAppointmentsByPatient(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, []kiosk.Appointment{a}, got)
}

func TestPgAccessTokens(t *testing.T) {
	mock, repo := newMockRepo(t)
	exp := epoch.Add(24 * time.Hour)

	mock.ExpectExec("INSERT INTO qr_access").
		WithArgs("tok-1", "p-1", true, epoch, &exp).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, repo.IssueAccessToken(context.Background(), kiosk.AccessToken{
		TokenID: "tok-1", PatientID: "p-1", IsActive: true, CreatedAt: epoch, ExpiresAt: &exp,
	}))

	mock.ExpectQuery("FROM qr_access").WithArgs("missing").WillReturnError(pgx.ErrNoRows)
	_, err := repo.GetAccessToken(context.Background(), "missing")
	assert.ErrorIs(t, err, kiosk.ErrAccessTokenNotFound)

	mock.ExpectExec("UPDATE qr_access").WithArgs(exp).WillReturnResult(pgxmock.NewResult("UPDATE", 3))
	n, err := repo.DeactivateExpiredTokens(context.Background(), exp)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

package kiosk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgQuerier is the part of *pgxpool.Pool the repository uses.
type pgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PgRepository struct {
	pool pgQuerier
}

// NewPgRepository accepts a *pgxpool.Pool, or anything with the same query
// methods.
func NewPgRepository(pool pgQuerier) *PgRepository {
	return &PgRepository{pool: pool}
}

const patientColumns = `id, aadhaar, name, age, gender, phone, visits, created_at`

// Helpers

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	var visits []byte

	err := row.Scan(
		&p.ID,
		&p.Aadhaar,
		&p.Name,
		&p.Age,
		&p.Gender,
		&p.Phone,
		&visits,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	if len(visits) > 0 {
		if err := json.Unmarshal(visits, &p.Visits); err != nil {
			return nil, fmt.Errorf("decode visits for patient %s: %w", p.ID, err)
		}
	}
	return &p, nil
}

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	var slots, languages []byte

	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Department,
		&d.Qualification,
		&d.Experience,
		&d.Fee,
		&slots,
		&d.ImageURL,
		&d.Bio,
		&d.Education,
		&languages,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	if len(slots) > 0 {
		if err := json.Unmarshal(slots, &d.AvailableSlots); err != nil {
			return nil, fmt.Errorf("decode slots for doctor %s: %w", d.ID, err)
		}
	}
	if len(languages) > 0 {
		if err := json.Unmarshal(languages, &d.Languages); err != nil {
			return nil, fmt.Errorf("decode languages for doctor %s: %w", d.ID, err)
		}
	}
	return &d, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment

	err := row.Scan(
		&a.AppointmentID,
		&a.PatientID,
		&a.PatientName,
		&a.DoctorID,
		&a.DoctorName,
		&a.Department,
		&a.Slot,
		&a.Date,
		&a.Fee,
		&a.PaymentStatus,
		&a.TokenNumber,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func scanAccessToken(row pgx.Row) (*AccessToken, error) {
	var t AccessToken
	var expiresAt *time.Time

	err := row.Scan(
		&t.TokenID,
		&t.PatientID,
		&t.IsActive,
		&t.CreatedAt,
		&expiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccessTokenNotFound
		}
		return nil, err
	}

	t.ExpiresAt = expiresAt
	return &t, nil
}

// escapeLike quotes LIKE wildcards so a name prefix matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Patients

func (r *PgRepository) FindPatientByAadhaar(ctx context.Context, aadhaar string) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		WHERE aadhaar = $1
		ORDER BY created_at
		LIMIT 1
	`, aadhaar)
	return scanPatient(row)
}

func (r *PgRepository) FindPatientByPhone(ctx context.Context, phone string) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		WHERE phone = $1
		ORDER BY created_at
		LIMIT 1
	`, phone)
	return scanPatient(row)
}

func (r *PgRepository) FindPatientByNamePrefix(ctx context.Context, prefix string) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		WHERE name LIKE $1 || '%'
		ORDER BY created_at
		LIMIT 1
	`, escapeLike(prefix))
	return scanPatient(row)
}

func (r *PgRepository) GetPatientByID(ctx context.Context, id string) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		WHERE id = $1
	`, id)
	return scanPatient(row)
}

func (r *PgRepository) CreatePatient(ctx context.Context, p Patient) (*Patient, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	visits, err := json.Marshal(p.Visits)
	if err != nil {
		return nil, fmt.Errorf("encode visits: %w", err)
	}
	if p.Visits == nil {
		visits = []byte("[]")
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO patients (id, aadhaar, name, age, gender, phone, visits, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, p.ID, p.Aadhaar, p.Name, p.Age, p.Gender, p.Phone, visits, p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert patient: %w", err)
	}
	return &p, nil
}

// Doctors

func (r *PgRepository) ListDoctorsByDepartment(ctx context.Context, departmentID string) ([]Doctor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, department, qualification, experience, fee,
		       available_slots, image_url, bio, education, languages
		FROM doctors
		WHERE department = $1
		ORDER BY name
	`, departmentID)
	if err != nil {
		return nil, fmt.Errorf("query doctors: %w", err)
	}
	defer rows.Close()

	var out []Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpsertDoctor writes d, replacing any doctor with the same ID.
func (r *PgRepository) UpsertDoctor(ctx context.Context, d Doctor) error {
	slots, err := json.Marshal(d.AvailableSlots)
	if err != nil {
		return fmt.Errorf("encode slots: %w", err)
	}
	languages, err := json.Marshal(d.Languages)
	if err != nil {
		return fmt.Errorf("encode languages: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO doctors (id, name, department, qualification, experience, fee,
		                     available_slots, image_url, bio, education, languages)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			department = EXCLUDED.department,
			qualification = EXCLUDED.qualification,
			experience = EXCLUDED.experience,
			fee = EXCLUDED.fee,
			available_slots = EXCLUDED.available_slots,
			image_url = EXCLUDED.image_url,
			bio = EXCLUDED.bio,
			education = EXCLUDED.education,
			languages = EXCLUDED.languages
	`, d.ID, d.Name, d.Department, d.Qualification, d.Experience, d.Fee,
		slots, d.ImageURL, d.Bio, d.Education, languages)
	if err != nil {
		return fmt.Errorf("upsert doctor %s: %w", d.ID, err)
	}
	return nil
}

// Appointments

func (r *PgRepository) CreateAppointment(ctx context.Context, a Appointment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointments (
			appointment_id, patient_id, patient_name, doctor_id, doctor_name,
			department, slot, visit_date, fee, payment_status, token_number, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, a.AppointmentID, a.PatientID, a.PatientName, a.DoctorID, a.DoctorName,
		a.Department, a.Slot, a.Date, a.Fee, a.PaymentStatus, a.TokenNumber, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

func (r *PgRepository) ListAppointmentsByPatient(ctx context.Context, patientID string) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT appointment_id, patient_id, patient_name, doctor_id, doctor_name,
		       department, slot, visit_date, fee, payment_status, token_number, created_at
		FROM appointments
		WHERE patient_id = $1
		ORDER BY created_at DESC
	`, patientID)
	if err != nil {
		return nil, fmt.Errorf("query appointments: %w", err)
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Access tokens

func (r *PgRepository) GetAccessToken(ctx context.Context, tokenID string) (*AccessToken, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT token_id, patient_id, is_active, created_at, expires_at
		FROM qr_access
		WHERE token_id = $1
	`, tokenID)
	return scanAccessToken(row)
}

func (r *PgRepository) IssueAccessToken(ctx context.Context, t AccessToken) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO qr_access (token_id, patient_id, is_active, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`, t.TokenID, t.PatientID, t.IsActive, t.CreatedAt, t.ExpiresAt)
	if err != nil {
		return fmt.Errorf("insert access token: %w", err)
	}
	return nil
}

// DeactivateExpiredTokens flips is_active off for tokens whose expiry has
// passed and reports how many changed.
func (r *PgRepository) DeactivateExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE qr_access
		SET is_active = false
		WHERE is_active = true
		  AND expires_at IS NOT NULL
		  AND expires_at <= $1
	`, now)
	if err != nil {
		return 0, fmt.Errorf("deactivate expired tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Ping checks the connection, for readiness probes.
func (r *PgRepository) Ping(ctx context.Context) error {
	var one int
	return r.pool.QueryRow(ctx, `SELECT 1`).Scan(&one)
}

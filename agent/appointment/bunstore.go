package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// BunStore is the Postgres-backed Store for deployments that outgrow the
// JSON file. Same contract, same semantics.
type BunStore struct {
	db *bun.DB
}

type appointmentRow struct {
	bun.BaseModel `bun:"table:appointments"`

	ID          string `bun:"id,pk"`
	PatientID   string `bun:"patient_id"`
	PatientName string `bun:"patient_name"`
	Type        string `bun:"type"`
	Date        string `bun:"date"`
	Time        string `bun:"time"`
	Doctor      string `bun:"doctor"`
	Status      string `bun:"status"`
}

type prepRow struct {
	bun.BaseModel `bun:"table:preparation_instructions"`

	Type         string `bun:"type,pk"`
	Instructions string `bun:"instructions"`
}

func NewBunStore(dsn string) (*BunStore, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return &BunStore{db: bun.NewDB(sqldb, pgdialect.New())}, nil
}

func (s *BunStore) Close() error {
	return s.db.Close()
}

func (r *appointmentRow) toAppointment() *Appointment {
	return &Appointment{
		ID:          r.ID,
		PatientID:   r.PatientID,
		PatientName: r.PatientName,
		Type:        r.Type,
		Date:        r.Date,
		Time:        r.Time,
		Doctor:      r.Doctor,
		Status:      r.Status,
	}
}

func (s *BunStore) Lookup(ctx context.Context, appointmentID, patientID string) (*Appointment, error) {
	if appointmentID == "" && patientID == "" {
		return nil, ErrNotFound
	}

	var row appointmentRow
	q := s.db.NewSelect().Model(&row).Order("id ASC").Limit(1)
	switch {
	case appointmentID != "" && patientID != "":
		q = q.Where("id = ?", appointmentID).WhereOr("patient_id = ?", patientID)
	case appointmentID != "":
		q = q.Where("id = ?", appointmentID)
	default:
		q = q.Where("patient_id = ?", patientID)
	}

	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup appointment: %w", err)
	}
	return row.toAppointment(), nil
}

func (s *BunStore) Reschedule(ctx context.Context, appointmentID, newDate, newTime string) (RescheduleResult, error) {
	var row appointmentRow
	err := s.db.NewSelect().Model(&row).Where("id = ?", appointmentID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RescheduleResult{}, ErrNotFound
		}
		return RescheduleResult{}, fmt.Errorf("load appointment: %w", err)
	}

	res := RescheduleResult{OldDate: row.Date, OldTime: row.Time}
	row.Date = newDate
	row.Time = newTime
	row.Status = StatusRescheduled

	if _, err := s.db.NewUpdate().Model(&row).
		Column("date", "time", "status").
		WherePK().
		Exec(ctx); err != nil {
		return RescheduleResult{}, fmt.Errorf("reschedule appointment: %w", err)
	}
	res.Appointment = row.toAppointment()
	return res, nil
}

func (s *BunStore) Cancel(ctx context.Context, appointmentID string) (*Appointment, error) {
	var row appointmentRow
	err := s.db.NewSelect().Model(&row).Where("id = ?", appointmentID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load appointment: %w", err)
	}

	row.Status = StatusCancelled
	if _, err := s.db.NewUpdate().Model(&row).
		Column("status").
		WherePK().
		Exec(ctx); err != nil {
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}
	return row.toAppointment(), nil
}

func (s *BunStore) PrepInstructions(ctx context.Context, appointmentType string) (string, error) {
	var row prepRow
	err := s.db.NewSelect().Model(&row).Where("type = ?", appointmentType).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: %q", ErrNoInstructions, appointmentType)
		}
		return "", fmt.Errorf("load preparation instructions: %w", err)
	}
	return row.Instructions, nil
}

func (s *BunStore) PatientNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.db.NewSelect().
		Model((*appointmentRow)(nil)).
		ColumnExpr("DISTINCT patient_name").
		Scan(ctx, &names); err != nil {
		return nil, fmt.Errorf("load patient names: %w", err)
	}
	return names, nil
}

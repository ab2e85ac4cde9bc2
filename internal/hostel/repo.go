package hostel

import (
	"context"
	"database/sql"
	"time"

	"hostelreport/internal/store"
)

// Kind selects the account table.
type Kind string

const (
	Teachers Kind = "teachers"
	Admins   Kind = "admins"
)

// Repository persists accounts and reports in Postgres.
type Repository struct {
	db *store.DB
}

var _ Store = (*Repository)(nil)

// NewRepository creates a repo.
func NewRepository(db *store.DB) *Repository {
	return &Repository{db: db}
}

// ListAccounts returns id and name of every account of the given kind.
func (r *Repository) ListAccounts(ctx context.Context, kind Kind) ([]Account, error) {
	accounts := []Account{}
	err := r.db.WithConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, `SELECT id, name FROM `+string(kind)+` ORDER BY id`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var a Account
			if err := rows.Scan(&a.ID, &a.Name); err != nil {
				return err
			}
			accounts = append(accounts, a)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// Passwords returns the stored password of every account with that name.
func (r *Repository) Passwords(ctx context.Context, kind Kind, name string) ([]string, error) {
	var out []string
	err := r.db.WithConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, `SELECT password FROM `+string(kind)+` WHERE name = $1`, name)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var p string
			if err := rows.Scan(&p); err != nil {
				return err
			}
			out = append(out, p)
		}
		return rows.Err()
	})
	return out, err
}

// CreateAccount inserts an account. password must already be hashed.
func (r *Repository) CreateAccount(ctx context.Context, kind Kind, name, password string) error {
	_, err := r.db.Exec(ctx, `INSERT INTO `+string(kind)+` (name, password) VALUES ($1, $2)`, name, password)
	return err
}

// DeleteAccount removes an account; a missing id is not an error.
func (r *Repository) DeleteAccount(ctx context.Context, kind Kind, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM `+string(kind)+` WHERE id = $1`, id)
	return err
}

// InsertReport writes a report; created_at is assigned by the database.
func (r *Repository) InsertReport(ctx context.Context, in ReportInput) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO reports (teacher_name, subordinate_teacher_name, hostel_name,
			general_comments, maintenance_required, complaints, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`, in.TeacherName, in.SubordinateTeacherName, in.HostelName,
		nullable(in.GeneralComments), nullable(in.MaintenanceRequired), nullable(in.Complaints), nullable(in.ImageURL))
	return err
}

// ListReports returns every report, newest first.
func (r *Repository) ListReports(ctx context.Context) ([]Report, error) {
	reports := []Report{}
	err := r.db.WithConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, `
			SELECT id, teacher_name, subordinate_teacher_name, hostel_name,
				general_comments, maintenance_required, complaints, image_url, created_at
			FROM reports
			ORDER BY created_at DESC, id DESC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var rep Report
			if err := rows.Scan(&rep.ID, &rep.TeacherName, &rep.SubordinateTeacherName, &rep.HostelName,
				&rep.GeneralComments, &rep.MaintenanceRequired, &rep.Complaints, &rep.ImageURL, &rep.CreatedAt); err != nil {
				return err
			}
			reports = append(reports, rep)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return reports, nil
}

// DeleteReport removes a report; a missing id is not an error.
func (r *Repository) DeleteReport(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id)
	return err
}

// ReportsSince returns every column of the reports created at or after cutoff.
func (r *Repository) ReportsSince(ctx context.Context, cutoff time.Time) (store.Table, error) {
	return r.db.Query(ctx, `SELECT * FROM reports WHERE created_at >= $1 ORDER BY created_at, id`, cutoff)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

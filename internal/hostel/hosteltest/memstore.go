// Package hosteltest provides an in-memory hostel.Store for tests.
package hosteltest

import (
	"context"
	"sort"
	"sync"
	"time"

	"hostelreport/internal/hostel"
	"hostelreport/internal/store"
)

// ReportColumns mirrors the column order of the reports table.
var ReportColumns = []string{
	"id", "teacher_name", "subordinate_teacher_name", "hostel_name",
	"general_comments", "maintenance_required", "complaints", "image_url", "created_at",
}

type account struct {
	id       int64
	name     string
	password string
}

var _ hostel.Store = (*MemStore)(nil)

// MemStore is a goroutine-safe hostel.Store backed by slices.
type MemStore struct {
	mu       sync.Mutex
	nextID   int64
	accounts map[hostel.Kind][]account
	reports  []hostel.Report

	// Err, when set, is returned by every method.
	Err error
	// InsertErr, when set, is returned by InsertReport only.
	InsertErr error
	// Now stamps inserted reports; defaults to time.Now.
	Now func() time.Time
}

// New returns an empty store.
func New() *MemStore {
	return &MemStore{accounts: map[hostel.Kind][]account{}, Now: time.Now}
}

// SeedAccount adds an account with an already hashed (or plaintext) password.
func (m *MemStore) SeedAccount(kind hostel.Kind, name, password string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.accounts[kind] = append(m.accounts[kind], account{id: m.nextID, name: name, password: password})
	return m.nextID
}

// SeedReport adds a report with an explicit creation time.
func (m *MemStore) SeedReport(r hostel.Report) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	r.ID = m.nextID
	m.reports = append(m.reports, r)
	return r.ID
}

// Reports returns a copy of the stored reports.
func (m *MemStore) Reports() []hostel.Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]hostel.Report(nil), m.reports...)
}

// Password returns the stored password of the first account with name.
func (m *MemStore) Password(kind hostel.Kind, name string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts[kind] {
		if a.name == name {
			return a.password, true
		}
	}
	return "", false
}

func (m *MemStore) ListAccounts(_ context.Context, kind hostel.Kind) ([]hostel.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := []hostel.Account{}
	for _, a := range m.accounts[kind] {
		out = append(out, hostel.Account{ID: a.id, Name: a.name})
	}
	return out, nil
}

func (m *MemStore) Passwords(_ context.Context, kind hostel.Kind, name string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []string
	for _, a := range m.accounts[kind] {
		if a.name == name {
			out = append(out, a.password)
		}
	}
	return out, nil
}

func (m *MemStore) CreateAccount(_ context.Context, kind hostel.Kind, name, password string) error {
	if m.Err != nil {
		return m.Err
	}
	m.SeedAccount(kind, name, password)
	return nil
}

func (m *MemStore) DeleteAccount(_ context.Context, kind hostel.Kind, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	kept := m.accounts[kind][:0]
	for _, a := range m.accounts[kind] {
		if a.id != id {
			kept = append(kept, a)
		}
	}
	m.accounts[kind] = kept
	return nil
}

func (m *MemStore) InsertReport(_ context.Context, in hostel.ReportInput) error {
	if m.Err != nil {
		return m.Err
	}
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.SeedReport(hostel.Report{
		TeacherName:            in.TeacherName,
		SubordinateTeacherName: in.SubordinateTeacherName,
		HostelName:             in.HostelName,
		GeneralComments:        optional(in.GeneralComments),
		MaintenanceRequired:    optional(in.MaintenanceRequired),
		Complaints:             optional(in.Complaints),
		ImageURL:               optional(in.ImageURL),
		CreatedAt:              m.Now(),
	})
	return nil
}

func (m *MemStore) ListReports(context.Context) ([]hostel.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := append([]hostel.Report{}, m.reports...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemStore) DeleteReport(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	kept := m.reports[:0]
	for _, r := range m.reports {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	m.reports = kept
	return nil
}

func (m *MemStore) ReportsSince(_ context.Context, cutoff time.Time) (store.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return store.Table{}, m.Err
	}
	t := store.Table{Columns: ReportColumns}
	for _, r := range m.reports {
		if r.CreatedAt.Before(cutoff) {
			continue
		}
		t.Rows = append(t.Rows, []any{
			r.ID, r.TeacherName, r.SubordinateTeacherName, r.HostelName,
			deref(r.GeneralComments), deref(r.MaintenanceRequired), deref(r.Complaints), deref(r.ImageURL), r.CreatedAt,
		})
	}
	return t, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

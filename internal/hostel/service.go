package hostel

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"hostelreport/internal/auth"
	"hostelreport/internal/blob"
	"hostelreport/internal/export"
	"hostelreport/internal/store"
)

var (
	ErrMissingFields      = errors.New("missing fields")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownPeriod      = errors.New("invalid period")
	ErrNoData             = errors.New("no data available")
	ErrPasswordTooLong    = errors.New("password longer than 72 bytes")
)

// Store is the persistence the service needs; Repository implements it.
type Store interface {
	ListAccounts(ctx context.Context, kind Kind) ([]Account, error)
	Passwords(ctx context.Context, kind Kind, name string) ([]string, error)
	CreateAccount(ctx context.Context, kind Kind, name, password string) error
	DeleteAccount(ctx context.Context, kind Kind, id int64) error
	InsertReport(ctx context.Context, in ReportInput) error
	ListReports(ctx context.Context) ([]Report, error)
	DeleteReport(ctx context.Context, id int64) error
	ReportsSince(ctx context.Context, cutoff time.Time) (store.Table, error)
}

// Options tune login behaviour.
type Options struct {
	// SuperAdmins lists admin names that log in with the super_admin role.
	SuperAdmins []string
	// AllowPlaintext accepts stored passwords that were never hashed.
	AllowPlaintext bool
	// UploadTimeout bounds a single image upload; zero means 20s.
	UploadTimeout time.Duration
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	Role      auth.Role
	ExpiresAt time.Time
}

// Service implements the reporting workflow on top of a Store.
type Service struct {
	store          Store
	uploads        blob.Uploader
	tokens         *auth.Tokens
	superAdmins    map[string]struct{}
	allowPlaintext bool
	uploadTimeout  time.Duration
	now            func() time.Time
}

// NewService creates a service. A nil uploader rejects image uploads.
func NewService(s Store, uploads blob.Uploader, tokens *auth.Tokens, opts Options) *Service {
	if uploads == nil {
		uploads = blob.Disabled{}
	}
	supers := make(map[string]struct{}, len(opts.SuperAdmins))
	for _, name := range opts.SuperAdmins {
		supers[name] = struct{}{}
	}
	if opts.UploadTimeout <= 0 {
		opts.UploadTimeout = 20 * time.Second
	}
	return &Service{
		store:          s,
		uploads:        uploads,
		tokens:         tokens,
		superAdmins:    supers,
		allowPlaintext: opts.AllowPlaintext,
		uploadTimeout:  opts.UploadTimeout,
		now:            time.Now,
	}
}

// LoginTeacher checks teacher credentials and issues a teacher token.
func (s *Service) LoginTeacher(ctx context.Context, name, password string) (Session, error) {
	if err := s.checkCredentials(ctx, Teachers, name, password); err != nil {
		return Session{}, err
	}
	return s.issue(auth.RoleTeacher, name)
}

// LoginAdmin checks admin credentials; configured names get super_admin.
func (s *Service) LoginAdmin(ctx context.Context, name, password string) (Session, error) {
	if err := s.checkCredentials(ctx, Admins, name, password); err != nil {
		return Session{}, err
	}
	role := auth.RoleAdmin
	if _, ok := s.superAdmins[name]; ok {
		role = auth.RoleSuperAdmin
	}
	return s.issue(role, name)
}

func (s *Service) checkCredentials(ctx context.Context, kind Kind, name, password string) error {
	if name == "" || password == "" {
		return ErrMissingFields
	}
	stored, err := s.store.Passwords(ctx, kind, name)
	if err != nil {
		return err
	}
	for _, p := range stored {
		if auth.CheckPassword(p, password, s.allowPlaintext) {
			return nil
		}
	}
	return ErrInvalidCredentials
}

func (s *Service) issue(role auth.Role, name string) (Session, error) {
	token, exp, err := s.tokens.Issue(role, name)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{Token: token, Role: role, ExpiresAt: exp}, nil
}

// ListAccounts returns all accounts of a kind; never nil.
func (s *Service) ListAccounts(ctx context.Context, kind Kind) ([]Account, error) {
	return s.store.ListAccounts(ctx, kind)
}

// AddAccount hashes the password and stores a new account.
func (s *Service) AddAccount(ctx context.Context, kind Kind, name, password string) error {
	if name == "" || password == "" {
		return ErrMissingFields
	}
	if len(password) > auth.MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.store.CreateAccount(ctx, kind, name, hash)
}

// DeleteAccount removes an account by id.
func (s *Service) DeleteAccount(ctx context.Context, kind Kind, id int64) error {
	return s.store.DeleteAccount(ctx, kind, id)
}

// SubmitReport uploads the optional image and then stores the report.
// A failed or timed out upload aborts before anything is written.
func (s *Service) SubmitReport(ctx context.Context, in ReportInput, img *Image) error {
	if strings.TrimSpace(in.TeacherName) == "" ||
		strings.TrimSpace(in.SubordinateTeacherName) == "" ||
		strings.TrimSpace(in.HostelName) == "" {
		return ErrMissingFields
	}

	if img != nil {
		uploadCtx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
		url, err := s.uploads.Upload(uploadCtx, img.Body, img.Filename, img.MimeType)
		cancel()
		if err != nil {
			return fmt.Errorf("upload %q: %w", img.Filename, err)
		}
		in.ImageURL = url
	}

	if err := s.store.InsertReport(ctx, in); err != nil {
		if in.ImageURL != "" {
			log.Printf("report insert failed, uploaded image left orphaned: %s", in.ImageURL)
		}
		return err
	}
	return nil
}

// ListReports returns every report, newest first; never nil.
func (s *Service) ListReports(ctx context.Context) ([]Report, error) {
	return s.store.ListReports(ctx)
}

// DeleteReport removes a report by id.
func (s *Service) DeleteReport(ctx context.Context, id int64) error {
	return s.store.DeleteReport(ctx, id)
}

// Export renders the reports of the period's window as a workbook.
func (s *Service) Export(ctx context.Context, period string) ([]byte, Period, error) {
	p, err := ParsePeriod(period)
	if err != nil {
		return nil, "", err
	}
	table, err := s.store.ReportsSince(ctx, p.Cutoff(s.now()))
	if err != nil {
		return nil, p, err
	}
	if len(table.Rows) == 0 {
		return nil, p, ErrNoData
	}
	data, err := export.XLSX(table)
	if err != nil {
		return nil, p, fmt.Errorf("render export: %w", err)
	}
	return data, p, nil
}

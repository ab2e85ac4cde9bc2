package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hostelreport/internal/blob"
	"hostelreport/internal/export"
	"hostelreport/internal/hostel"
	"hostelreport/internal/httpmiddleware"
	"hostelreport/internal/metrics"
)

// Checker reports whether a dependency is reachable.
type Checker interface {
	Healthy(ctx context.Context) bool
}

// Handler serves the reporting API.
type Handler struct {
	svc            *hostel.Service
	db             Checker
	redis          Checker // nil when Redis is not configured
	maxUploadBytes int64
}

// New creates a handler. redis may be nil.
func New(svc *hostel.Service, db Checker, redis Checker, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &Handler{svc: svc, db: db, redis: redis, maxUploadBytes: maxUploadBytes}
}

// ---------- Health ----------

func (h *Handler) Healthz(c *gin.Context) {
	ctx := c.Request.Context()
	dbHealthy := h.db != nil && h.db.Healthy(ctx)
	body := gin.H{"status": "ok", "db": dbHealthy}
	if h.redis != nil {
		body["redis"] = h.redis.Healthy(ctx)
	}
	status := http.StatusOK
	if !dbHealthy {
		status = http.StatusServiceUnavailable
		body["status"] = "degraded"
	}
	c.JSON(status, body)
}

// ---------- Login ----------

type teacherLoginRequest struct {
	TeacherID string `json:"teacherId" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

type adminLoginRequest struct {
	AdminID  string `json:"adminId" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) TeacherLogin(c *gin.Context) {
	var req teacherLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.loginResponse(c, "teacher", hostel.Session{}, fmt.Errorf("%w: %v", hostel.ErrMissingFields, err))
		return
	}
	sess, err := h.svc.LoginTeacher(c.Request.Context(), req.TeacherID, req.Password)
	h.loginResponse(c, "teacher", sess, err)
}

func (h *Handler) AdminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.loginResponse(c, "admin", hostel.Session{}, fmt.Errorf("%w: %v", hostel.ErrMissingFields, err))
		return
	}
	sess, err := h.svc.LoginAdmin(c.Request.Context(), req.AdminID, req.Password)
	h.loginResponse(c, "admin", sess, err)
}

func (h *Handler) loginResponse(c *gin.Context, kind string, sess hostel.Session, err error) {
	switch {
	case err == nil:
		metrics.Logins.WithLabelValues(kind, "ok").Inc()
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Login successful", "token": sess.Token, "role": sess.Role})
	case errors.Is(err, hostel.ErrMissingFields):
		metrics.Logins.WithLabelValues(kind, "invalid").Inc()
		httpmiddleware.Logf(c, "%s login rejected: %v", kind, err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing credentials"})
	case errors.Is(err, hostel.ErrInvalidCredentials):
		metrics.Logins.WithLabelValues(kind, "rejected").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
	default:
		metrics.Logins.WithLabelValues(kind, "error").Inc()
		httpmiddleware.Logf(c, "%s login failed: %v", kind, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
	}
}

// ---------- Accounts ----------

type accountRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) ListTeachers(c *gin.Context) { h.listAccounts(c, hostel.Teachers) }

func (h *Handler) ListAdmins(c *gin.Context) { h.listAccounts(c, hostel.Admins) }

func (h *Handler) listAccounts(c *gin.Context, kind hostel.Kind) {
	accounts, err := h.svc.ListAccounts(c.Request.Context(), kind)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (h *Handler) AddTeacher(c *gin.Context) {
	h.addAccount(c, hostel.Teachers, "Teacher added successfully")
}

func (h *Handler) AddAdmin(c *gin.Context) {
	h.addAccount(c, hostel.Admins, "Admin added successfully")
}

func (h *Handler) addAccount(c *gin.Context, kind hostel.Kind, message string) {
	var req accountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields", "details": err.Error()})
		return
	}
	err := h.svc.AddAccount(c.Request.Context(), kind, req.Name, req.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{"message": message})
	case errors.Is(err, hostel.ErrMissingFields):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
	case errors.Is(err, hostel.ErrPasswordTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password too long", "details": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error", "details": err.Error()})
	}
}

func (h *Handler) DeleteTeacher(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteAccount(c.Request.Context(), hostel.Teachers, id); err != nil {
		httpmiddleware.Logf(c, "delete teacher %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete teacher"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Teacher deleted successfully"})
}

func (h *Handler) DeleteAdmin(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteAccount(c.Request.Context(), hostel.Admins, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Admin deleted successfully"})
}

// ---------- Reports ----------

type reportForm struct {
	TeacherName            string `form:"teacherName" binding:"required"`
	SubordinateTeacherName string `form:"subordinateTeacherName" binding:"required"`
	HostelName             string `form:"hostelName" binding:"required"`
	GeneralComments        string `form:"generalComments"`
	MaintenanceRequired    string `form:"maintenanceRequired"`
	Complaints             string `form:"complaints"`
}

// SubmitForm expects a multipart (or urlencoded) form with the reportForm
// fields and an optional image file.
func (h *Handler) SubmitForm(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(h.maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid form: " + err.Error()})
		return
	}

	var form reportForm
	if err := c.ShouldBind(&form); err != nil {
		metrics.Reports.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing form fields", "error": err.Error()})
		return
	}
	in := hostel.ReportInput{
		TeacherName:            form.TeacherName,
		SubordinateTeacherName: form.SubordinateTeacherName,
		HostelName:             form.HostelName,
		GeneralComments:        form.GeneralComments,
		MaintenanceRequired:    form.MaintenanceRequired,
		Complaints:             form.Complaints,
	}

	var img *hostel.Image
	if file, header, err := c.Request.FormFile("image"); err == nil {
		defer file.Close()
		if header.Filename != "" {
			img = &hostel.Image{Body: file, Filename: header.Filename, MimeType: header.Header.Get("Content-Type")}
		}
	}

	err := h.svc.SubmitReport(c.Request.Context(), in, img)
	metrics.Reports.WithLabelValues(metrics.Outcome(err)).Inc()
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Form submitted successfully"})
	case errors.Is(err, hostel.ErrMissingFields):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing form fields"})
	case errors.Is(err, blob.ErrUpload), errors.Is(err, blob.ErrNotConfigured):
		httpmiddleware.Logf(c, "submit form: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Image upload failed", "error": err.Error()})
	default:
		httpmiddleware.Logf(c, "submit form: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *Handler) ListForms(c *gin.Context) {
	reports, err := h.svc.ListReports(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reports)
}

func (h *Handler) DeleteForm(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteReport(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Form deleted successfully"})
}

// ---------- Export ----------

func (h *Handler) Download(c *gin.Context) {
	data, period, err := h.svc.Export(c.Request.Context(), c.Param("period"))
	label := string(period)
	if label == "" {
		label = "invalid"
	}
	metrics.Exports.WithLabelValues(label, metrics.Outcome(err)).Inc()
	switch {
	case err == nil:
		c.Header("Content-Disposition", "attachment; filename="+period.Filename())
		c.Data(http.StatusOK, export.ContentTypeXLSX, data)
	case errors.Is(err, hostel.ErrUnknownPeriod):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid period"})
	case errors.Is(err, hostel.ErrNoData):
		c.JSON(http.StatusNotFound, gin.H{"error": "No data available"})
	default:
		httpmiddleware.Logf(c, "export %s: %v", label, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "id must be an integer"})
		return 0, false
	}
	return id, true
}

package handler

import (
	"github.com/gin-gonic/gin"

	"hostelreport/internal/auth"
)

// Register mounts the API on r.
//
// With strict unset the legacy authorization is kept for existing clients:
// teacher management, report listing and exports are open, admin endpoints
// accept any valid token and the 401/403 choice differs per endpoint.
// With strict set every staff endpoint requires an admin or super_admin token.
func (h *Handler) Register(r gin.IRouter, tokens *auth.Tokens, strict bool) {
	staff := []gin.HandlerFunc{
		auth.Authenticate(tokens, auth.Unauthorized),
		auth.RequireRole(auth.RoleAdmin, auth.RoleSuperAdmin),
	}
	guard := func(legacy []gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
		chain := legacy
		if strict {
			chain = staff
		}
		return append(append([]gin.HandlerFunc{}, chain...), handler)
	}
	open := []gin.HandlerFunc(nil)

	r.GET("/healthz", h.Healthz)

	r.POST("/teacher-login", h.TeacherLogin)
	r.POST("/admin-login", h.AdminLogin)

	r.GET("/teachers", guard(open, h.ListTeachers)...)
	r.POST("/add-teacher", guard(open, h.AddTeacher)...)
	r.DELETE("/delete-teacher/:id", guard(open, h.DeleteTeacher)...)

	anyToken := []gin.HandlerFunc{auth.Authenticate(tokens, auth.Forbidden)}
	r.GET("/admins", guard(anyToken, h.ListAdmins)...)
	r.POST("/add-admin", guard(anyToken, h.AddAdmin)...)
	r.DELETE("/delete-admin/:id", guard([]gin.HandlerFunc{auth.Authenticate(tokens, auth.MissingUnauthorized)}, h.DeleteAdmin)...)

	r.POST("/submit-form",
		auth.Authenticate(tokens, auth.Forbidden),
		auth.RequireRole(auth.RoleTeacher),
		h.SubmitForm)
	r.DELETE("/delete-form/:id",
		auth.Authenticate(tokens, auth.MissingUnauthorized),
		auth.RequireRole(auth.RoleSuperAdmin),
		h.DeleteForm)

	r.GET("/forms", guard(open, h.ListForms)...)
	r.GET("/download/:period", guard(open, h.Download)...)
}

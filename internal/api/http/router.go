package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clinicore/clinic-scheduler/internal/api/http/handlers"
	"github.com/clinicore/clinic-scheduler/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Auth        *handlers.AuthHandler
	Doctor      *handlers.DoctorHandler
	Patient     *handlers.PatientHandler
	Admin       *handlers.AdminHandler
	AdminGate   *auth.Gate
	DoctorGate  *auth.Gate
	PatientGate *auth.Gate
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	doctorGroup := app.Group("/api/doctor")
	doctorGroup.Post("/login", cfg.Auth.LoginDoctor)
	doctorProtected := doctorGroup.Group("", cfg.DoctorGate.Handle)
	doctorProtected.Get("/appointments", cfg.Doctor.ListAppointments)
	doctorProtected.Post("/complete-appointment", cfg.Doctor.CompleteAppointment)
	doctorProtected.Post("/cancel-appointment", cfg.Doctor.CancelAppointment)
	doctorProtected.Get("/dashboard", cfg.Doctor.Dashboard)
	doctorProtected.Get("/profile", cfg.Doctor.Profile)
	doctorProtected.Post("/update-profile", cfg.Doctor.UpdateProfile)

	userGroup := app.Group("/api/user")
	userGroup.Post("/register", cfg.Auth.RegisterPatient)
	userGroup.Post("/login", cfg.Auth.LoginPatient)
	userGroup.Get("/doctors", cfg.Patient.ListDoctors)
	userProtected := userGroup.Group("", cfg.PatientGate.Handle)
	userProtected.Post("/book-appointment", cfg.Patient.BookAppointment)
	userProtected.Get("/appointments", cfg.Patient.ListAppointments)
	userProtected.Post("/cancel-appointment", cfg.Patient.CancelAppointment)
	userProtected.Get("/profile", cfg.Patient.Profile)
	userProtected.Post("/update-profile", cfg.Patient.UpdateProfile)

	adminGroup := app.Group("/api/admin")
	adminGroup.Post("/login", cfg.Auth.LoginAdmin)
	adminProtected := adminGroup.Group("", cfg.AdminGate.Handle)
	adminProtected.Get("/appointments", cfg.Admin.ListAppointments)
	adminProtected.Post("/complete-appointment", cfg.Admin.CompleteAppointment)
	adminProtected.Post("/cancel-appointment", cfg.Admin.CancelAppointment)
	adminProtected.Get("/dashboard", cfg.Admin.Dashboard)
	adminProtected.Post("/add-doctor", cfg.Admin.AddDoctor)
	adminProtected.Post("/change-availability", cfg.Admin.ChangeAvailability)
	adminProtected.Get("/doctors", cfg.Admin.ListDoctors)
}

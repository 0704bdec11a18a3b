package routers

import (
	"medibook-service/internal/app/delivery/http/controllers"
	"medibook-service/internal/app/delivery/http/middlewares"
	"medibook-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
)

func attachAppointmentRoutes(router chi.Router, middlewares *middlewares.Middlewares, appointmentController *controllers.AppointmentController) {
	router.Use(middlewares.Authenticate)

	router.Get("/", appointmentController.FindAll)
	router.With(middlewares.RequireRoles(constvars.RolePatient, constvars.RoleAdmin)).Post("/", appointmentController.CreateAppointment)
	router.Get("/{appointmentID}", appointmentController.FindByID)
	router.Patch("/{appointmentID}", appointmentController.UpdateAppointment)
	router.With(middlewares.RequireRoles(constvars.RolePatient, constvars.RoleAdmin)).Delete("/{appointmentID}", appointmentController.DeleteAppointment)
}

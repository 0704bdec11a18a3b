package routers

import (
	"medibook-service/internal/app/delivery/http/controllers"
	"medibook-service/internal/app/delivery/http/middlewares"
	"medibook-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
)

func attachDoctorRoutes(router chi.Router, middlewares *middlewares.Middlewares, doctorController *controllers.DoctorController) {
	router.Get("/", doctorController.FindAll)
	router.Get("/{doctorID}", doctorController.FindByID)
	router.Get("/{doctorID}/availability", doctorController.GetAvailability)

	router.With(middlewares.Authenticate, middlewares.RequireRoles(constvars.RoleAdmin)).Post("/", doctorController.CreateDoctor)
	router.With(middlewares.Authenticate, middlewares.RequireRoles(constvars.RoleAdmin, constvars.RoleDoctor)).Put("/{doctorID}", doctorController.UpdateDoctor)
	router.With(middlewares.Authenticate, middlewares.RequireRoles(constvars.RoleAdmin)).Delete("/{doctorID}", doctorController.DeleteDoctor)
}

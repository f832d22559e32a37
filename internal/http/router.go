package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/ultramanx88/internship-system-sub007/internal/domain/user"
	"github.com/ultramanx88/internship-system-sub007/internal/http/handlers"
	"github.com/ultramanx88/internship-system-sub007/internal/http/metrics"
	httpmw "github.com/ultramanx88/internship-system-sub007/internal/http/middleware"
)

type RouterDependencies struct {
	ApplicationHandler  *handlers.ApplicationHandler
	InstructorHandler   *handlers.InstructorHandler
	CommitteeHandler    *handlers.CommitteeHandler
	StaffHandler        *handlers.StaffHandler
	SupervisorHandler   *handlers.SupervisorHandler
	OfferHandler        *handlers.OfferHandler
	NotificationHandler *handlers.NotificationHandler
	AuthMiddleware      *httpmw.AuthMiddleware
	Limiter             httpmw.Limiter
	Metrics             *metrics.Collector
	Logger              *logrus.Logger
	RequestTimeout      time.Duration
}

const maxBodyBytes = 1 << 20

func NewRouter(deps RouterDependencies) http.Handler {
	root := mux.NewRouter()
	root.Use(httpmw.RequestID)
	root.Use(httpmw.Logging(deps.Logger))
	root.Use(httpmw.Recover(deps.Logger))
	root.Use(httpmw.BodyLimit(maxBodyBytes))
	root.Use(deps.Metrics.Instrument)
	root.Use(httpmw.Timeout(deps.RequestTimeout))

	root.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	root.Handle("/metrics", deps.Metrics.Handler()).Methods(http.MethodGet)

	publicLimit := httpmw.RateLimit(deps.Limiter, httpmw.ClientIP, 60, time.Minute)
	root.Handle("/offers", publicLimit(http.HandlerFunc(deps.OfferHandler.ListOpen))).Methods(http.MethodGet)
	root.Handle("/offers/{id}", publicLimit(http.HandlerFunc(deps.OfferHandler.Get))).Methods(http.MethodGet)

	protected := root.PathPrefix("/").Subrouter()
	protected.Use(deps.AuthMiddleware.Authenticate)

	asRole := func(role user.Role, h http.HandlerFunc) http.Handler {
		return httpmw.RequireRole(role)(h)
	}

	protected.HandleFunc("/notifications", deps.NotificationHandler.ListMine).Methods(http.MethodGet)

	// Offer administration.
	protected.Handle("/offers", asRole(user.RoleStaff, deps.OfferHandler.Create)).Methods(http.MethodPost)
	protected.Handle("/offers/{id}/status", asRole(user.RoleStaff, deps.OfferHandler.UpdateStatus)).Methods(http.MethodPatch)

	// Student stage.
	protected.Handle("/applications", asRole(user.RoleStudent, deps.ApplicationHandler.Submit)).Methods(http.MethodPost)
	protected.Handle("/applications/mine", asRole(user.RoleStudent, deps.ApplicationHandler.ListMine)).Methods(http.MethodGet)
	protected.HandleFunc("/applications/{id}", deps.ApplicationHandler.Get).Methods(http.MethodGet)
	protected.Handle("/applications/{id}/start", asRole(user.RoleStudent, deps.ApplicationHandler.StartInternship)).Methods(http.MethodPost)
	protected.Handle("/applications/{id}/weekly-reports", asRole(user.RoleStudent, deps.ApplicationHandler.SubmitWeeklyReport)).Methods(http.MethodPost)

	// Course instructor stage.
	protected.Handle("/instructor/applications", asRole(user.RoleCourseInstructor, deps.InstructorHandler.ListUnclaimed)).Methods(http.MethodGet)
	protected.Handle("/applications/{id}/claim", asRole(user.RoleCourseInstructor, deps.InstructorHandler.Claim)).Methods(http.MethodPost)
	protected.Handle("/applications/{id}/approve", asRole(user.RoleCourseInstructor, deps.InstructorHandler.Approve)).Methods(http.MethodPost)
	protected.Handle("/applications/{id}/reject", asRole(user.RoleCourseInstructor, deps.InstructorHandler.Reject)).Methods(http.MethodPost)

	// Committee stage.
	protected.Handle("/committee/applications", asRole(user.RoleCommittee, deps.CommitteeHandler.ListPending)).Methods(http.MethodGet)
	protected.Handle("/applications/{id}/votes", asRole(user.RoleCommittee, deps.CommitteeHandler.Vote)).Methods(http.MethodPost)
	protected.Handle("/applications/{id}/votes", asRole(user.RoleCommittee, deps.CommitteeHandler.Votes)).Methods(http.MethodGet)

	// Staff pipeline.
	protected.Handle("/staff/applications", asRole(user.RoleStaff, deps.StaffHandler.ListByStatus)).Methods(http.MethodGet)
	protected.Handle("/staff/print-records", asRole(user.RoleStaff, deps.StaffHandler.PrepareDocuments)).Methods(http.MethodPost)
	protected.Handle("/applications/{id}/print-record", asRole(user.RoleStaff, deps.StaffHandler.Reprint)).Methods(http.MethodGet)
	protected.Handle("/applications/{id}/send", asRole(user.RoleStaff, deps.StaffHandler.SendToCompany)).Methods(http.MethodPost)
	protected.Handle("/applications/{id}/company-accept", asRole(user.RoleStaff, deps.StaffHandler.RecordCompanyAcceptance)).Methods(http.MethodPost)
	protected.Handle("/applications/{id}/ongoing", asRole(user.RoleStaff, deps.StaffHandler.MarkOngoing)).Methods(http.MethodPost)
	protected.Handle("/applications/{id}/close", asRole(user.RoleStaff, deps.StaffHandler.Close)).Methods(http.MethodPost)

	// Supervisor stage.
	protected.Handle("/supervisor/applications", asRole(user.RoleSupervisor, deps.SupervisorHandler.ListAssigned)).Methods(http.MethodGet)
	protected.Handle("/applications/{id}/assignment/confirm", asRole(user.RoleSupervisor, deps.SupervisorHandler.ConfirmAssignment)).Methods(http.MethodPost)
	protected.Handle("/applications/{id}/appointments", asRole(user.RoleSupervisor, deps.SupervisorHandler.ScheduleAppointment)).Methods(http.MethodPost)
	protected.Handle("/applications/{id}/appointments", asRole(user.RoleSupervisor, deps.SupervisorHandler.ListAppointments)).Methods(http.MethodGet)
	protected.Handle("/appointments/{appointmentId}/complete", asRole(user.RoleSupervisor, deps.SupervisorHandler.CompleteAppointment)).Methods(http.MethodPost)
	protected.Handle("/applications/{id}/weekly-reports", asRole(user.RoleSupervisor, deps.SupervisorHandler.ListWeeklyReports)).Methods(http.MethodGet)
	protected.Handle("/applications/{id}/complete", asRole(user.RoleSupervisor, deps.SupervisorHandler.CompleteInternship)).Methods(http.MethodPost)

	return root
}

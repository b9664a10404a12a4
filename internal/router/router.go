// Package router wires the HTTP surface of the register service: login and
// session endpoints, master-data CRUD, entry creation, register listings,
// search and reports. Administrator-only routes are guarded by role.
package router

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/patric-chuzhbe/docreg/internal/auth"
	"github.com/patric-chuzhbe/docreg/internal/authenticator"
	"github.com/patric-chuzhbe/docreg/internal/gzippedhttp"
	"github.com/patric-chuzhbe/docreg/internal/logger"
	"github.com/patric-chuzhbe/docreg/internal/models"
	"github.com/patric-chuzhbe/docreg/internal/service"
)

// Router carries the handler dependencies.
type Router struct {
	svc      *service.Service
	theAuth  authenticator.Authenticator
	validate *validator.Validate
}

// New builds the chi mux of the register service.
func New(svc *service.Service, theAuth authenticator.Authenticator) http.Handler {
	theRouter := &Router{
		svc:      svc,
		theAuth:  theAuth,
		validate: validator.New(),
	}

	router := chi.NewRouter()
	router.Use(
		logger.WithLoggingHTTPMiddleware,
		gzippedhttp.UngzipRequest,
		gzippedhttp.GzipResponse,
		theAuth.Authenticate,
	)

	router.Get(`/ping`, theRouter.GetPing)
	router.Post(`/api/login`, theRouter.PostApilogin)

	router.Group(func(authenticated chi.Router) {
		authenticated.Use(theAuth.RequireUser)

		authenticated.Post(`/api/logout`, theRouter.PostApilogout)
		authenticated.Get(`/api/session`, theRouter.GetApisession)
		authenticated.Get(`/api/masters/{kind}`, theRouter.GetApimasters)
		authenticated.Post(`/api/entries/{entryType}`, theRouter.PostApientries)
		authenticated.Get(`/api/search`, theRouter.GetApisearch)
	})

	router.Group(func(adminOnly chi.Router) {
		adminOnly.Use(theAuth.RequireRole(models.RoleAdmin))

		adminOnly.Post(`/api/masters/{kind}`, theRouter.PostApimasters)
		adminOnly.Patch(`/api/masters/{kind}/{id}`, theRouter.PatchApimasters)
		adminOnly.Delete(`/api/masters/{kind}/{id}`, theRouter.DeleteApimasters)
		adminOnly.Get(`/api/registers/{entryType}`, theRouter.GetApiregisters)
		adminOnly.Get(`/api/reports/summary`, theRouter.GetApireportssummary)
	})

	return router
}

func writeJSON(response http.ResponseWriter, status int, value interface{}) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(status)
	if err := json.NewEncoder(response).Encode(value); err != nil {
		logger.Log.Debugln("Error encoding the response: ", zap.Error(err))
	}
}

func writeError(response http.ResponseWriter, status int, message string) {
	writeJSON(response, status, map[string]string{"error": message})
}

func (theRouter *Router) decodeAndValidate(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return err
	}

	return theRouter.validate.Struct(target)
}

// GetPing reports storage health.
func (theRouter *Router) GetPing(response http.ResponseWriter, request *http.Request) {
	if err := theRouter.svc.Ping(request.Context()); err != nil {
		logger.Log.Debugln("Error calling the `theRouter.svc.Ping()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)

		return
	}

	response.WriteHeader(http.StatusOK)
}

// PostApilogin checks the username against the stored accounts and, on
// success, returns the user with a session token, also mirrored into the
// auth cookie. A request carrying a valid session simply gets a fresh token.
func (theRouter *Router) PostApilogin(response http.ResponseWriter, request *http.Request) {
	var loginRequest models.LoginRequest
	if err := theRouter.decodeAndValidate(request, &loginRequest); err != nil {
		writeError(response, http.StatusBadRequest, err.Error())

		return
	}

	usr, err := theRouter.theAuth.Login(request.Context(), loginRequest.Username)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		writeError(response, http.StatusUnauthorized, "invalid credentials")

		return
	}
	if err != nil {
		logger.Log.Debugln("Error calling the `theRouter.theAuth.Login()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)

		return
	}

	theRouter.theAuth.IssueCookie(response, usr)
	writeJSON(response, http.StatusOK, usr)
}

// PostApilogout clears the auth cookie.
func (theRouter *Router) PostApilogout(response http.ResponseWriter, request *http.Request) {
	theRouter.theAuth.ClearCookie(response)
	response.WriteHeader(http.StatusNoContent)
}

// GetApisession returns the authenticated user of the current request.
func (theRouter *Router) GetApisession(response http.ResponseWriter, request *http.Request) {
	usr, _ := auth.UserFromContext(request.Context())
	writeJSON(response, http.StatusOK, usr)
}

// GetApimasters lists one master collection.
func (theRouter *Router) GetApimasters(response http.ResponseWriter, request *http.Request) {
	kind := models.MasterKind(chi.URLParam(request, "kind"))
	if !models.KnownMasterKind(kind) {
		writeError(response, http.StatusBadRequest, "unknown master kind")

		return
	}

	records, err := theRouter.svc.ListMasters(request.Context(), kind)
	if err != nil {
		logger.Log.Debugln("Error calling the `theRouter.svc.ListMasters()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)

		return
	}

	writeJSON(response, http.StatusOK, records)
}

// PostApimasters creates a record in one master collection.
func (theRouter *Router) PostApimasters(response http.ResponseWriter, request *http.Request) {
	kind := models.MasterKind(chi.URLParam(request, "kind"))

	var created interface{}
	var err error
	switch kind {
	case models.KindOffices:
		var office models.Office
		if err = theRouter.decodeAndValidate(request, &office); err == nil {
			created, err = theRouter.svc.CreateOffice(request.Context(), office)
		}
	case models.KindModes:
		var mode models.Mode
		if err = theRouter.decodeAndValidate(request, &mode); err == nil {
			created, err = theRouter.svc.CreateMode(request.Context(), mode)
		}
	case models.KindEntities:
		var entity models.Entity
		if err = theRouter.decodeAndValidate(request, &entity); err == nil {
			created, err = theRouter.svc.CreateEntity(request.Context(), entity)
		}
	case models.KindCouriers:
		var courier models.Courier
		if err = theRouter.decodeAndValidate(request, &courier); err == nil {
			created, err = theRouter.svc.CreateCourier(request.Context(), courier)
		}
	default:
		writeError(response, http.StatusBadRequest, "unknown master kind")

		return
	}

	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) || isDecodeError(err) {
			writeError(response, http.StatusBadRequest, err.Error())

			return
		}
		logger.Log.Debugln("Error creating a master record: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)

		return
	}

	writeJSON(response, http.StatusCreated, created)
}

// PatchApimasters merges a partial update into one master record.
func (theRouter *Router) PatchApimasters(response http.ResponseWriter, request *http.Request) {
	kind := models.MasterKind(chi.URLParam(request, "kind"))
	id := chi.URLParam(request, "id")

	var updated interface{}
	var err error
	switch kind {
	case models.KindOffices:
		var patch models.OfficePatch
		if err = json.NewDecoder(request.Body).Decode(&patch); err == nil {
			updated, err = theRouter.svc.UpdateOffice(request.Context(), id, patch)
		}
	case models.KindModes:
		var patch models.ModePatch
		if err = json.NewDecoder(request.Body).Decode(&patch); err == nil {
			updated, err = theRouter.svc.UpdateMode(request.Context(), id, patch)
		}
	case models.KindEntities:
		var patch models.EntityPatch
		if err = json.NewDecoder(request.Body).Decode(&patch); err == nil {
			updated, err = theRouter.svc.UpdateEntity(request.Context(), id, patch)
		}
	case models.KindCouriers:
		var patch models.CourierPatch
		if err = json.NewDecoder(request.Body).Decode(&patch); err == nil {
			updated, err = theRouter.svc.UpdateCourier(request.Context(), id, patch)
		}
	default:
		writeError(response, http.StatusBadRequest, "unknown master kind")

		return
	}

	if errors.Is(err, service.ErrNotFound) {
		writeError(response, http.StatusNotFound, "record not found")

		return
	}
	if err != nil {
		if isDecodeError(err) {
			writeError(response, http.StatusBadRequest, err.Error())

			return
		}
		logger.Log.Debugln("Error updating a master record: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)

		return
	}

	writeJSON(response, http.StatusOK, updated)
}

// DeleteApimasters removes one master record.
func (theRouter *Router) DeleteApimasters(response http.ResponseWriter, request *http.Request) {
	kind := models.MasterKind(chi.URLParam(request, "kind"))
	id := chi.URLParam(request, "id")

	var err error
	switch kind {
	case models.KindOffices:
		err = theRouter.svc.DeleteOffice(request.Context(), id)
	case models.KindModes:
		err = theRouter.svc.DeleteMode(request.Context(), id)
	case models.KindEntities:
		err = theRouter.svc.DeleteEntity(request.Context(), id)
	case models.KindCouriers:
		err = theRouter.svc.DeleteCourier(request.Context(), id)
	default:
		writeError(response, http.StatusBadRequest, "unknown master kind")

		return
	}

	if errors.Is(err, service.ErrNotFound) {
		writeError(response, http.StatusNotFound, "record not found")

		return
	}
	if err != nil {
		logger.Log.Debugln("Error deleting a master record: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)

		return
	}

	response.WriteHeader(http.StatusNoContent)
}

// PostApientries stores a new inward or outward entry and returns its
// identifier and register number.
func (theRouter *Router) PostApientries(response http.ResponseWriter, request *http.Request) {
	switch chi.URLParam(request, "entryType") {
	case "inward":
		var entry models.InwardEntry
		if err := theRouter.decodeAndValidate(request, &entry); err != nil {
			writeError(response, http.StatusBadRequest, err.Error())

			return
		}
		created, err := theRouter.svc.CreateInwardEntry(request.Context(), entry)
		if err != nil {
			logger.Log.Debugln("Error calling the `theRouter.svc.CreateInwardEntry()`: ", zap.Error(err))
			response.WriteHeader(http.StatusInternalServerError)

			return
		}
		writeJSON(response, http.StatusCreated, models.CreateEntryResponse{ID: created.ID, Number: created.InwardNo})

	case "outward":
		var entry models.OutwardEntry
		if err := theRouter.decodeAndValidate(request, &entry); err != nil {
			writeError(response, http.StatusBadRequest, err.Error())

			return
		}
		created, err := theRouter.svc.CreateOutwardEntry(request.Context(), entry)
		if errors.Is(err, service.ErrInvalidReturnInfo) {
			writeError(response, http.StatusBadRequest, err.Error())

			return
		}
		if err != nil {
			logger.Log.Debugln("Error calling the `theRouter.svc.CreateOutwardEntry()`: ", zap.Error(err))
			response.WriteHeader(http.StatusInternalServerError)

			return
		}
		writeJSON(response, http.StatusCreated, models.CreateEntryResponse{ID: created.ID, Number: created.OutwardNo})

	default:
		writeError(response, http.StatusBadRequest, "unknown entry type")
	}
}

func filterFromQuery(request *http.Request) models.EntryFilter {
	query := request.URL.Query()

	return models.EntryFilter{
		DateFrom: query.Get("dateFrom"),
		DateTo:   query.Get("dateTo"),
		Mode:     query.Get("mode"),
		Courier:  query.Get("courier"),
		Status:   models.DeliveryStatus(query.Get("status")),
		Query:    query.Get("q"),
	}
}

// GetApiregisters lists one register with filters applied.
func (theRouter *Router) GetApiregisters(response http.ResponseWriter, request *http.Request) {
	filter := filterFromQuery(request)
	if err := theRouter.validate.Struct(filter); err != nil {
		writeError(response, http.StatusBadRequest, err.Error())

		return
	}

	switch chi.URLParam(request, "entryType") {
	case "inward":
		entries, err := theRouter.svc.ListInwardEntries(request.Context(), filter)
		if err != nil {
			logger.Log.Debugln("Error calling the `theRouter.svc.ListInwardEntries()`: ", zap.Error(err))
			response.WriteHeader(http.StatusInternalServerError)

			return
		}
		writeJSON(response, http.StatusOK, entries)

	case "outward":
		entries, err := theRouter.svc.ListOutwardEntries(request.Context(), filter)
		if err != nil {
			logger.Log.Debugln("Error calling the `theRouter.svc.ListOutwardEntries()`: ", zap.Error(err))
			response.WriteHeader(http.StatusInternalServerError)

			return
		}
		writeJSON(response, http.StatusOK, entries)

	default:
		writeError(response, http.StatusBadRequest, "unknown entry type")
	}
}

// GetApisearch searches both registers and returns flat summaries.
func (theRouter *Router) GetApisearch(response http.ResponseWriter, request *http.Request) {
	filter := filterFromQuery(request)
	filter.Type = models.EntryType(request.URL.Query().Get("type"))
	if err := theRouter.validate.Struct(filter); err != nil {
		writeError(response, http.StatusBadRequest, err.Error())

		return
	}

	summaries, err := theRouter.svc.QueryEntries(request.Context(), filter)
	if err != nil {
		logger.Log.Debugln("Error calling the `theRouter.svc.QueryEntries()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)

		return
	}

	writeJSON(response, http.StatusOK, summaries)
}

// GetApireportssummary returns the entry count aggregate.
func (theRouter *Router) GetApireportssummary(response http.ResponseWriter, request *http.Request) {
	summary, err := theRouter.svc.GetSummary(request.Context())
	if err != nil {
		logger.Log.Debugln("Error calling the `theRouter.svc.GetSummary()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)

		return
	}

	writeJSON(response, http.StatusOK, summary)
}

func isDecodeError(err error) bool {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError

	return errors.As(err, &syntaxError) ||
		errors.As(err, &typeError) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}

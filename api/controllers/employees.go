package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ventaflow/ventaflow-backend/api/responses"
	"github.com/ventaflow/ventaflow-backend/api/validators"
	"github.com/ventaflow/ventaflow-backend/internal/employees"
	pkgerrors "github.com/ventaflow/ventaflow-backend/pkg/errors"
	"github.com/ventaflow/ventaflow-backend/pkg/logger"
)

type createEmployeeRequest struct {
	UserID   *string `json:"user_id,omitempty" validate:"omitempty,uuid"`
	FullName string  `json:"full_name" validate:"required,max=200"`
	Position string  `json:"position" validate:"required,max=100"`
	Salary   *string `json:"salary,omitempty"`
	HiredOn  *string `json:"hired_on,omitempty"`
}

func CreateEmployee(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, companyID, err := callerIDs(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createEmployeeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := employees.CreateInput{
			FullName: strings.TrimSpace(payload.FullName),
			Position: strings.TrimSpace(payload.Position),
		}

		if payload.UserID != nil {
			parsed, err := uuid.Parse(*payload.UserID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid user id"))
				return
			}
			input.UserID = &parsed
		}
		if payload.Salary != nil {
			salary, err := decimal.NewFromString(strings.TrimSpace(*payload.Salary))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid salary"))
				return
			}
			input.Salary = salary
		}
		if payload.HiredOn != nil {
			hiredOn, err := time.Parse("2006-01-02", strings.TrimSpace(*payload.HiredOn))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid hired_on date"))
				return
			}
			input.HiredOn = hiredOn
		}

		employee, err := svc.Create(r.Context(), companyID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, employee)
	}
}

type updateEmployeeRequest struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=200"`
	Position *string `json:"position,omitempty" validate:"omitempty,max=100"`
	Salary   *string `json:"salary,omitempty"`
	UserID   *string `json:"user_id,omitempty" validate:"omitempty,uuid"`
}

func UpdateEmployee(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, companyID, err := callerIDs(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		employeeID, err := parsePathUUID(chi.URLParam(r, "employeeID"), "employee id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateEmployeeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := employees.UpdateInput{
			FullName: payload.FullName,
			Position: payload.Position,
		}
		if payload.Salary != nil {
			salary, err := decimal.NewFromString(strings.TrimSpace(*payload.Salary))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid salary"))
				return
			}
			input.Salary = &salary
		}
		if payload.UserID != nil {
			parsed, err := uuid.Parse(*payload.UserID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid user id"))
				return
			}
			input.UserID = &parsed
		}

		employee, err := svc.Update(r.Context(), companyID, employeeID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, employee)
	}
}

func DeactivateEmployee(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, companyID, err := callerIDs(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		employeeID, err := parsePathUUID(chi.URLParam(r, "employeeID"), "employee id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Deactivate(r.Context(), companyID, employeeID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}

func GetEmployee(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, companyID, err := callerIDs(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		employeeID, err := parsePathUUID(chi.URLParam(r, "employeeID"), "employee id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		employee, err := svc.Get(r.Context(), companyID, employeeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, employee)
	}
}

func ListEmployees(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, companyID, err := callerIDs(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		activeOnly := validators.ParseQueryBool(r, "active_only")
		list, err := svc.List(r.Context(), companyID, activeOnly)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

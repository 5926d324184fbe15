package patients

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/patients", func(pr chi.Router) {
		pr.Get("/", listPatientsHandler(svc))
		pr.Post("/", createPatientHandler(svc))

		// Vaciar el registro local completo (se replica como clear_all)
		pr.Delete("/", clearPatientsHandler(svc))

		pr.Route("/{patientID}", func(ir chi.Router) {
			ir.Get("/", getPatientHandler(svc))
			ir.Put("/", updatePatientHandler(svc))
			ir.Delete("/", deletePatientHandler(svc))
		})
	})
}

// patientRequest es el cuerpo de POST y PUT. Punteros para distinguir
// "campo ausente" de "valor cero" y rechazar cuerpos incompletos.
type patientRequest struct {
	Name      *string `json:"name"`
	Age       *int    `json:"age"`
	Diagnosis *string `json:"diagnosis"`
}

// patientResponse representa la ficha devuelta por la API.
type patientResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Age        int       `json:"age"`
	Diagnosis  string    `json:"diagnosis"`
	LastUpdate time.Time `json:"last_update"`
}

type clearPatientsResponse struct {
	Deleted int64 `json:"deleted"`
}

// listPatientsHandler godoc
// @Summary Listar pacientes
// @Description Devuelve todas las fichas del registro local de este hospital.
// @Tags patients
// @Produce json
// @Success 200 {array} patientResponse
// @Failure 500 {string} string "internal error"
// @Router /patients [get]
func listPatientsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]patientResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPatientResponse(p))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// createPatientHandler godoc
// @Summary Registrar paciente
// @Description Crea una ficha nueva en el registro local y la replica al resto de los hospitales. El id y last_update los asigna este nodo.
// @Tags patients
// @Accept json
// @Produce json
// @Param payload body patientRequest true "Datos del paciente; los tres campos son obligatorios"
// @Success 201 {object} patientResponse
// @Failure 400 {string} string "invalid json / missing required fields / invalid input"
// @Failure 409 {string} string "patient id conflict"
// @Failure 415 {string} string "content type must be application/json"
// @Router /patients [post]
func createPatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !isJSONContentType(r) {
			http.Error(w, "content type must be application/json", http.StatusUnsupportedMediaType)
			return
		}

		req, ok := decodePatientRequest(w, r)
		if !ok {
			return
		}

		p, err := svc.Create(r.Context(), CreateInput{
			Name:      *req.Name,
			Age:       *req.Age,
			Diagnosis: *req.Diagnosis,
		})
		if err != nil {
			writePatientError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toPatientResponse(p))
	}
}

// clearPatientsHandler godoc
// @Summary Vaciar registro
// @Description Borra todas las fichas locales y replica clear_all: el borrado se aplica en todos los hospitales sin mirar timestamps.
// @Tags patients
// @Produce json
// @Success 200 {object} clearPatientsResponse
// @Failure 500 {string} string "internal error"
// @Router /patients [delete]
func clearPatientsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := svc.Clear(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, clearPatientsResponse{Deleted: n})
	}
}

// getPatientHandler godoc
// @Summary Obtener paciente
// @Tags patients
// @Produce json
// @Param patientID path int true "ID del paciente"
// @Success 200 {object} patientResponse
// @Failure 404 {string} string "patient not found"
// @Router /patients/{patientID} [get]
func getPatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parsePatientID(r)
		if !ok {
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}

		p, err := svc.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "patient not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toPatientResponse(p))
	}
}

// updatePatientHandler godoc
// @Summary Actualizar paciente
// @Description Reemplaza la ficha completa (PUT). Renueva last_update, que es lo que hace ganar esta escritura en los demás nodos.
// @Tags patients
// @Accept json
// @Produce json
// @Param patientID path int true "ID del paciente"
// @Param payload body patientRequest true "Ficha completa; los tres campos son obligatorios"
// @Success 200 {object} patientResponse
// @Failure 400 {string} string "invalid json / missing required fields / invalid input"
// @Failure 404 {string} string "patient not found"
// @Failure 415 {string} string "content type must be application/json"
// @Router /patients/{patientID} [put]
func updatePatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parsePatientID(r)
		if !ok {
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}

		if !isJSONContentType(r) {
			http.Error(w, "content type must be application/json", http.StatusUnsupportedMediaType)
			return
		}

		req, ok := decodePatientRequest(w, r)
		if !ok {
			return
		}

		p, err := svc.Update(r.Context(), id, UpdateInput{
			Name:      *req.Name,
			Age:       *req.Age,
			Diagnosis: *req.Diagnosis,
		})
		if err != nil {
			writePatientError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPatientResponse(p))
	}
}

// deletePatientHandler godoc
// @Summary Borrar paciente
// @Description Borra la ficha local y replica el borrado. En los demás nodos, borrar un id que no existe es un no-op.
// @Tags patients
// @Param patientID path int true "ID del paciente"
// @Success 204 {string} string "no content"
// @Failure 404 {string} string "patient not found"
// @Router /patients/{patientID} [delete]
func deletePatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parsePatientID(r)
		if !ok {
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "patient not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// parsePatientID trata un id no numérico igual que uno inexistente (404).
func parsePatientID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "patientID"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func isJSONContentType(r *http.Request) bool {
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	return strings.HasPrefix(ct, "application/json")
}

func decodePatientRequest(w http.ResponseWriter, r *http.Request) (patientRequest, bool) {
	var req patientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return patientRequest{}, false
	}
	if req.Name == nil || req.Age == nil || req.Diagnosis == nil {
		http.Error(w, "missing required fields: name, age, diagnosis", http.StatusBadRequest)
		return patientRequest{}, false
	}
	return req, true
}

func writePatientError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "patient not found", http.StatusNotFound)
	case errors.Is(err, ErrConflict):
		http.Error(w, "patient id conflict", http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toPatientResponse(p Patient) patientResponse {
	return patientResponse{
		ID:         p.ID,
		Name:       p.Name,
		Age:        p.Age,
		Diagnosis:  p.Diagnosis,
		LastUpdate: p.LastUpdate,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

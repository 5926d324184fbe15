package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"hospital-record-sync/internal/adapters/storage/memory"
	"hospital-record-sync/internal/domain/patients"
	"hospital-record-sync/internal/domain/replication"
	"hospital-record-sync/internal/router"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := memory.NewPatientsRepo()
	outbox := memory.NewOutboxRepo()
	svc := patients.NewService(store, replication.NewOutboxPublisher(outbox, "hospital_a"))

	ts := httptest.NewServer(router.NewRouter(router.Options{Patients: svc}))
	t.Cleanup(ts.Close)
	return ts
}

type patientBody struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Age        int       `json:"age"`
	Diagnosis  string    `json:"diagnosis"`
	LastUpdate time.Time `json:"last_update"`
}

func TestHTTP_EndToEnd_PatientLifecycle(t *testing.T) {
	ts := newTestServer(t)

	// 1) Registro vacío al arrancar
	{
		st, body := doReq(t, ts.URL, "GET", "/patients", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 listing patients, got %d body=%s", st, string(body))
		}
		var list []patientBody
		if err := json.Unmarshal(body, &list); err != nil {
			t.Fatalf("list response is not JSON: %v body=%s", err, string(body))
		}
		if len(list) != 0 {
			t.Fatalf("expected empty registry, got %d patients", len(list))
		}
	}

	// 2) Alta de un paciente: el nodo asigna id y last_update
	created := createPatient(t, ts.URL, map[string]any{
		"name":      "Ana Torres",
		"age":       34,
		"diagnosis": "migraña",
	})
	if created.ID == 0 {
		t.Fatalf("expected assigned id, got 0")
	}
	if created.LastUpdate.IsZero() {
		t.Fatalf("expected assigned last_update")
	}

	idPath := "/patients/" + strconv.FormatInt(created.ID, 10)

	// 3) La ficha se puede leer por id
	{
		st, body := doReq(t, ts.URL, "GET", idPath, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get patient, got %d body=%s", st, string(body))
		}
		var got patientBody
		_ = json.Unmarshal(body, &got)
		if got.Name != "Ana Torres" || got.Age != 34 || got.Diagnosis != "migraña" {
			t.Fatalf("unexpected patient body: %s", string(body))
		}
	}

	// 4) PUT reemplaza la ficha completa y renueva last_update
	{
		st, body := doReq(t, ts.URL, "PUT", idPath, map[string]any{
			"name":      "Ana Torres",
			"age":       35,
			"diagnosis": "migraña crónica",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 update patient, got %d body=%s", st, string(body))
		}
		var got patientBody
		_ = json.Unmarshal(body, &got)
		if got.Age != 35 || got.Diagnosis != "migraña crónica" {
			t.Fatalf("expected replaced record, got %s", string(body))
		}
		if got.LastUpdate.Before(created.LastUpdate) {
			t.Fatalf("expected last_update renewed, got %v vs %v", got.LastUpdate, created.LastUpdate)
		}
	}

	// 5) El listado refleja la versión nueva
	{
		st, body := doReq(t, ts.URL, "GET", "/patients", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 listing patients, got %d", st)
		}
		var list []patientBody
		_ = json.Unmarshal(body, &list)
		if len(list) != 1 || list[0].Diagnosis != "migraña crónica" {
			t.Fatalf("unexpected list: %s", string(body))
		}
	}

	// 6) Baja por id
	{
		st, _ := doReq(t, ts.URL, "DELETE", idPath, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 delete patient, got %d", st)
		}
	}

	// 7) La ficha ya no existe
	{
		st, _ := doReq(t, ts.URL, "GET", idPath, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 after delete, got %d", st)
		}
	}

	// 8) Borrar de nuevo también es 404
	{
		st, _ := doReq(t, ts.URL, "DELETE", idPath, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 deleting absent patient, got %d", st)
		}
	}
}

func TestHTTP_CreatePatient_Validation(t *testing.T) {
	ts := newTestServer(t)

	// content type distinto de application/json => 415
	{
		req, err := http.NewRequest("POST", ts.URL+"/patients", strings.NewReader("name=Ana"))
		if err != nil {
			t.Fatalf("new request: %v", err)
		}
		req.Header.Set("Content-Type", "text/plain")
		res, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("do request: %v", err)
		}
		res.Body.Close()
		if res.StatusCode != http.StatusUnsupportedMediaType {
			t.Fatalf("expected 415 for text/plain, got %d", res.StatusCode)
		}
	}

	// JSON roto => 400
	{
		req, err := http.NewRequest("POST", ts.URL+"/patients", strings.NewReader(`{"name":`))
		if err != nil {
			t.Fatalf("new request: %v", err)
		}
		req.Header.Set("Content-Type", "application/json")
		res, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("do request: %v", err)
		}
		res.Body.Close()
		if res.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400 for broken JSON, got %d", res.StatusCode)
		}
	}

	// cuerpo sin todos los campos => 400
	{
		st, body := doReq(t, ts.URL, "POST", "/patients", map[string]any{"name": "Ana"})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for missing fields, got %d", st)
		}
		if !strings.Contains(string(body), "missing required fields") {
			t.Fatalf("expected missing fields message, got %s", string(body))
		}
	}

	// edad negativa => 400
	{
		st, _ := doReq(t, ts.URL, "POST", "/patients", map[string]any{
			"name":      "Ana",
			"age":       -1,
			"diagnosis": "gripe",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for negative age, got %d", st)
		}
	}

	// id no numérico se trata como inexistente => 404
	{
		st, _ := doReq(t, ts.URL, "GET", "/patients/abc", nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 for non numeric id, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "PUT", "/patients/abc", map[string]any{
			"name":      "Ana",
			"age":       34,
			"diagnosis": "gripe",
		})
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 for non numeric id on PUT, got %d", st)
		}
	}
}

func TestHTTP_ClearPatients_ReportsDeletedCount(t *testing.T) {
	ts := newTestServer(t)

	createPatient(t, ts.URL, map[string]any{"name": "Ana Torres", "age": 34, "diagnosis": "migraña"})
	createPatient(t, ts.URL, map[string]any{"name": "Bruno Díaz", "age": 51, "diagnosis": "hipertensión"})

	st, body := doReq(t, ts.URL, "DELETE", "/patients", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 clearing registry, got %d body=%s", st, string(body))
	}
	var resp struct {
		Deleted int64 `json:"deleted"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Deleted != 2 {
		t.Fatalf("expected 2 deleted, got %d", resp.Deleted)
	}

	// vaciar un registro ya vacío devuelve 0, no error
	st, body = doReq(t, ts.URL, "DELETE", "/patients", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 clearing empty registry, got %d", st)
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Deleted != 0 {
		t.Fatalf("expected 0 deleted on empty registry, got %d", resp.Deleted)
	}
}

func TestHTTP_HealthAndDocs(t *testing.T) {
	ts := newTestServer(t)

	st, body := doReq(t, ts.URL, "GET", "/health", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 health, got %d", st)
	}
	if strings.TrimSpace(string(body)) != "ok" {
		t.Fatalf("expected ok body, got %q", string(body))
	}

	st, body = doReq(t, ts.URL, "GET", "/swagger/doc.json", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 swagger spec, got %d", st)
	}
	if !json.Valid(body) {
		t.Fatalf("swagger spec is not valid JSON")
	}
}

func createPatient(t *testing.T, baseURL string, payload map[string]any) patientBody {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/patients", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create patient, got %d body=%s", st, string(body))
	}

	var resp patientBody
	_ = json.Unmarshal(body, &resp)
	if resp.ID == 0 {
		t.Fatalf("create patient: missing id body=%s", string(body))
	}
	return resp
}

func doReq(t *testing.T, baseURL, method, path string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}

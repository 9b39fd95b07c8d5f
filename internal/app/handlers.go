package app

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/1pybb7-prog/mytourproject1/internal/markers"
)

var errFetchedNothing = errors.New("no places could be fetched from any source")

// HealthStatus is the JSON body served by /v1/healthcheck. The application
// is considered ready once at least one source is configured and the first
// catalog load has succeeded.
type HealthStatus struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
	Version     string `json:"version"`
	Sources     int    `json:"sources"`
	Places      int    `json:"places"`
	LoadState   string `json:"load_state"`
	Ready       bool   `json:"ready"`
}

func (app *Application) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	numSources := len(app.ConfigService.Config.GetSources())
	state := app.Loader.State()

	ready := numSources > 0 && state == markers.StateReady

	status := HealthStatus{
		Status:      "available",
		Environment: app.ConfigService.Config.Env,
		Version:     app.Version,
		Sources:     numSources,
		Places:      app.TourService.Places.Count(),
		LoadState:   state.String(),
		Ready:       ready,
	}

	if !ready {
		app.writeJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	app.writeJSON(w, http.StatusOK, status)
}

func (app *Application) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		app.Logger.Error("Failed to encode response", "error", err)
	}
}

func (app *Application) errorResponse(w http.ResponseWriter, status int, message string) {
	app.writeJSON(w, status, map[string]string{"error": message})
}
